package pvpchess

import (
	"time"

	"github.com/park285/chessduel/internal/notation"
)

// Color identifies chess side.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Other returns the opposing side.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

// Status represents a PvP game lifecycle state.
type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusDrawOffered Status = "DRAW_OFFERED"
	StatusConcluded   Status = "CONCLUDED"
)

// Reason explains how a concluded game ended.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonCheckmate            Reason = "checkmate"
	ReasonStalemate            Reason = "stalemate"
	ReasonDrawAgreed           Reason = "draw_agreed"
	ReasonResignation          Reason = "resignation"
	ReasonInsufficientMaterial Reason = "insufficient_material"
	ReasonFivefoldRepetition   Reason = "fivefold_repetition"
	ReasonSeventyFiveMoveRule  Reason = "seventy_five_move_rule"
)

// IsDraw reports whether the reason ends the game without a winner.
func (r Reason) IsDraw() bool {
	switch r {
	case ReasonStalemate, ReasonDrawAgreed, ReasonInsufficientMaterial, ReasonFivefoldRepetition, ReasonSeventyFiveMoveRule:
		return true
	default:
		return false
	}
}

// Participant is a chat user taking part in a game.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Label returns a display name, falling back to the ID.
func (p Participant) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// ResolvedMove is a fully specified move confirmed legal by the board oracle.
type ResolvedMove struct {
	From      notation.Square
	To        notation.Square
	Promotion notation.PieceType
}

// UCI renders the move in long algebraic form (e2e4, e7e8q).
func (m ResolvedMove) UCI() string {
	s := m.From.String() + m.To.String()
	switch m.Promotion {
	case notation.Queen:
		s += "q"
	case notation.Rook:
		s += "r"
	case notation.Bishop:
		s += "b"
	case notation.Knight:
		s += "n"
	}
	return s
}

// RenderRequest is emitted after each successful move for the rendering collaborator.
type RenderRequest struct {
	SessionID string
	FEN       string
	LastFrom  *notation.Square
	LastTo    *notation.Square
	Header    string
	Turn      Color
	MoveCount int
}

// View is an immutable snapshot of a session for presenters and logs.
type View struct {
	ID        string      `json:"id"`
	Room      string      `json:"room"`
	White     Participant `json:"white"`
	Black     Participant `json:"black"`
	Turn      Color       `json:"turn"`
	Status    Status      `json:"status"`
	Reason    Reason      `json:"reason,omitempty"`
	Winner    string      `json:"winner,omitempty"`
	DrawOffer string      `json:"draw_offer,omitempty"`
	Check     bool        `json:"check,omitempty"`
	FEN       string      `json:"fen"`
	MovesSAN  []string    `json:"moves_san"`
	MovesUCI  []string    `json:"moves_uci"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ColorOf returns the side played by the participant, or "" if not a player.
func (v *View) ColorOf(id string) Color {
	if v == nil {
		return ""
	}
	switch id {
	case v.White.ID:
		return White
	case v.Black.ID:
		return Black
	}
	return ""
}

// Player returns the participant for a side.
func (v *View) Player(c Color) Participant {
	if c == Black {
		return v.Black
	}
	return v.White
}
