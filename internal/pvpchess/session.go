package pvpchess

import (
	"fmt"
	"time"

	"github.com/park285/chessduel/internal/domain"
	"github.com/park285/chessduel/internal/notation"
)

// DrawResult reports what an offer did.
type DrawResult int

const (
	DrawOffered DrawResult = iota + 1
	DrawAccepted
	DrawRedundant
)

// MoveResult describes an accepted move.
type MoveResult struct {
	Move      ResolvedMove
	SAN       string
	Mover     Color
	Concluded bool
	Reason    Reason
	Render    RenderRequest
}

// Session is one live game. It is not safe for concurrent use; the Registry hands
// it to a single command at a time.
type Session struct {
	id        string
	room      string
	white     Participant
	black     Participant
	board     BoardOracle
	turn      Color
	status    Status
	reason    Reason
	winner    string
	drawOffer string
	movesSAN  []string
	movesUCI  []string
	lastFrom  *notation.Square
	lastTo    *notation.Square
	createdAt time.Time
	updatedAt time.Time
	now       func() time.Time
}

// NewSession starts a game between white and black from board, or from the standard
// position when board is nil.
func NewSession(id, room string, white, black Participant, board BoardOracle) (*Session, error) {
	if white.ID == "" || black.ID == "" || white.ID == black.ID {
		return nil, ErrInvalidOpponent
	}
	if board == nil {
		board = NewStandardOracle()
	}
	now := time.Now()
	return &Session{
		id:        id,
		room:      room,
		white:     white,
		black:     black,
		board:     board,
		turn:      board.SideToMove(),
		status:    StatusActive,
		movesSAN:  []string{},
		movesUCI:  []string{},
		createdAt: now,
		updatedAt: now,
		now:       time.Now,
	}, nil
}

func (s *Session) ID() string { return s.id }
func (s *Session) Turn() Color { return s.turn }
func (s *Session) Status() Status { return s.status }
func (s *Session) Reason() Reason { return s.reason }
func (s *Session) DrawOffer() string { return s.drawOffer }
func (s *Session) Board() BoardOracle { return s.board }
func (s *Session) Concluded() bool { return s.status == StatusConcluded }
func (s *Session) Participants() (string, string) { return s.white.ID, s.black.ID }

// ColorOf returns the participant's side, or "" for outsiders.
func (s *Session) ColorOf(id string) Color {
	switch id {
	case s.white.ID:
		return White
	case s.black.ID:
		return Black
	}
	return ""
}

func (s *Session) player(c Color) Participant {
	if c == Black {
		return s.black
	}
	return s.white
}

// AttemptMove validates and applies a move typed by mover. On any error the session
// is left exactly as it was.
func (s *Session) AttemptMove(mover, raw string) (*MoveResult, error) {
	if s.Concluded() {
		return nil, ErrGameOver
	}
	side := s.ColorOf(mover)
	if side == "" {
		return nil, ErrNotParticipant
	}
	if side != s.turn {
		return nil, ErrWrongTurn
	}
	pm, err := notation.Parse(raw)
	if err != nil {
		return nil, err
	}
	rm, err := Resolve(pm, s.board, s.turn)
	if err != nil {
		return nil, err
	}

	san := s.board.SAN(rm.From, rm.To, rm.Promotion)
	next := s.board.Apply(rm.From, rm.To, rm.Promotion)

	s.board = next
	s.drawOffer = ""
	s.turn = s.turn.Other()
	s.movesSAN = append(s.movesSAN, san)
	s.movesUCI = append(s.movesUCI, rm.UCI())
	from, to := rm.From, rm.To
	s.lastFrom, s.lastTo = &from, &to
	s.updatedAt = s.now()
	s.status = StatusActive

	switch {
	case !next.HasLegalReplies():
		if next.InCheck(s.turn) {
			s.conclude(ReasonCheckmate, s.player(side).ID)
		} else {
			s.conclude(ReasonStalemate, "")
		}
	default:
		if reason, ok := next.AutoDraw(); ok {
			s.conclude(reason, "")
		}
	}

	return &MoveResult{
		Move:      rm,
		SAN:       san,
		Mover:     side,
		Concluded: s.Concluded(),
		Reason:    s.reason,
		Render:    s.RenderRequest(),
	}, nil
}

// OfferDraw records an offer, or concludes the game when the other player already offered.
func (s *Session) OfferDraw(by string) (DrawResult, error) {
	if s.Concluded() {
		return 0, ErrGameOver
	}
	if s.ColorOf(by) == "" {
		return 0, ErrNotParticipant
	}
	switch s.drawOffer {
	case "":
		s.drawOffer = by
		s.status = StatusDrawOffered
		s.updatedAt = s.now()
		return DrawOffered, nil
	case by:
		return DrawRedundant, nil
	default:
		s.conclude(ReasonDrawAgreed, "")
		return DrawAccepted, nil
	}
}

// Resign concludes the game in favour of the other participant.
func (s *Session) Resign(by string) error {
	if s.Concluded() {
		return ErrGameOver
	}
	side := s.ColorOf(by)
	if side == "" {
		return ErrNotParticipant
	}
	s.conclude(ReasonResignation, s.player(side.Other()).ID)
	return nil
}

func (s *Session) conclude(reason Reason, winner string) {
	s.status = StatusConcluded
	s.reason = reason
	s.winner = winner
	s.drawOffer = ""
	s.updatedAt = s.now()
}

// RenderRequest describes the current position for the board renderer.
func (s *Session) RenderRequest() RenderRequest {
	return RenderRequest{
		SessionID: s.id,
		FEN:       s.board.FEN(),
		LastFrom:  s.lastFrom,
		LastTo:    s.lastTo,
		Header:    fmt.Sprintf("%s vs %s", s.white.Label(), s.black.Label()),
		Turn:      s.turn,
		MoveCount: len(s.movesUCI),
	}
}

// Snapshot copies the session state for use outside the registry.
func (s *Session) Snapshot() *View {
	return &View{
		ID:        s.id,
		Room:      s.room,
		White:     s.white,
		Black:     s.black,
		Turn:      s.turn,
		Status:    s.status,
		Reason:    s.reason,
		Winner:    s.winner,
		DrawOffer: s.drawOffer,
		Check:     !s.Concluded() && s.board.InCheck(s.turn),
		FEN:       s.board.FEN(),
		MovesSAN:  append([]string(nil), s.movesSAN...),
		MovesUCI:  append([]string(nil), s.movesUCI...),
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
}

// Result converts a concluded session into an archive record.
func (s *Session) Result() (domain.GameResult, bool) {
	if !s.Concluded() {
		return domain.GameResult{}, false
	}
	return domain.GameResult{
		GameID:      s.id,
		Room:        s.room,
		WhiteID:     s.white.ID,
		WhiteName:   s.white.Name,
		BlackID:     s.black.ID,
		BlackName:   s.black.Name,
		Result:      pgnResult(s.reason, s.winner, s.white.ID),
		Termination: string(s.reason),
		WinnerID:    s.winner,
		MovesUCI:    append([]string(nil), s.movesUCI...),
		MovesSAN:    append([]string(nil), s.movesSAN...),
		StartedAt:   s.createdAt,
		EndedAt:     s.updatedAt,
	}, true
}

func pgnResult(reason Reason, winner, whiteID string) string {
	switch {
	case reason.IsDraw():
		return "1/2-1/2"
	case winner == "":
		return "*"
	case winner == whiteID:
		return "1-0"
	default:
		return "0-1"
	}
}
