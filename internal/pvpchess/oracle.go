package pvpchess

import (
	"fmt"
	"sort"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/chessduel/internal/notation"
)

// BoardOracle answers rules questions about one immutable position.
// Apply never mutates the receiver; it returns the successor position.
type BoardOracle interface {
	PieceOn(sq notation.Square) (notation.PieceType, Color, bool)
	PiecesOf(pt notation.PieceType, c Color) []notation.Square
	IsLegal(from, to notation.Square, promo notation.PieceType) bool
	Apply(from, to notation.Square, promo notation.PieceType) BoardOracle
	HasLegalReplies() bool
	InCheck(c Color) bool
	AutoDraw() (Reason, bool)
	SideToMove() Color
	SAN(from, to notation.Square, promo notation.PieceType) string
	FEN() string
}

// EngineOracle adapts a corentings/chess game to BoardOracle.
type EngineOracle struct {
	game *nchess.Game
	last *nchess.Move
}

// NewStandardOracle returns the initial position.
func NewStandardOracle() *EngineOracle {
	return &EngineOracle{game: nchess.NewGame()}
}

// OracleFromFEN starts from an arbitrary position.
func OracleFromFEN(fen string) (*EngineOracle, error) {
	opt, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	return &EngineOracle{game: nchess.NewGame(opt)}, nil
}

// Board exposes the engine board for rendering.
func (o *EngineOracle) Board() *nchess.Board {
	return o.game.Position().Board()
}

// LastMove returns the squares of the move that produced this position.
func (o *EngineOracle) LastMove() (from, to notation.Square, ok bool) {
	if o.last == nil {
		return notation.Square{}, notation.Square{}, false
	}
	return fromEngineSquare(o.last.S1()), fromEngineSquare(o.last.S2()), true
}

func (o *EngineOracle) PieceOn(sq notation.Square) (notation.PieceType, Color, bool) {
	p := o.game.Position().Board().Piece(toEngineSquare(sq))
	if p == nchess.NoPiece {
		return notation.NoPieceType, "", false
	}
	return fromEnginePieceType(p.Type()), fromEngineColor(p.Color()), true
}

func (o *EngineOracle) PiecesOf(pt notation.PieceType, c Color) []notation.Square {
	wantType, wantColor := toEnginePieceType(pt), toEngineColor(c)
	var out []notation.Square
	for sq, p := range o.game.Position().Board().SquareMap() {
		if p.Type() == wantType && p.Color() == wantColor {
			out = append(out, fromEngineSquare(sq))
		}
	}
	sortSquares(out)
	return out
}

func (o *EngineOracle) IsLegal(from, to notation.Square, promo notation.PieceType) bool {
	if _, _, ok := o.PieceOn(from); !ok {
		panic(fmt.Sprintf("pvpchess: legality queried for empty square %s", from))
	}
	_, ok := o.find(from, to, promo)
	return ok
}

func (o *EngineOracle) Apply(from, to notation.Square, promo notation.PieceType) BoardOracle {
	mv, ok := o.find(from, to, promo)
	if !ok {
		panic(fmt.Sprintf("pvpchess: apply of illegal move %s%s", from, to))
	}
	next := o.game.Clone()
	if err := next.Move(&mv, nil); err != nil {
		panic(fmt.Sprintf("pvpchess: engine rejected resolved move %s: %v", mv.String(), err))
	}
	return &EngineOracle{game: next, last: &mv}
}

func (o *EngineOracle) HasLegalReplies() bool {
	return len(o.game.ValidMoves()) > 0
}

// InCheck reports whether side c's king is attacked in the current position.
func (o *EngineOracle) InCheck(c Color) bool {
	return kingAttacked(o.game.Position().Board(), toEngineColor(c))
}

// AutoDraw reports draws the engine declares without a player claim.
func (o *EngineOracle) AutoDraw() (Reason, bool) {
	if o.game.Outcome() != nchess.Draw {
		return ReasonNone, false
	}
	switch o.game.Method() {
	case nchess.InsufficientMaterial:
		return ReasonInsufficientMaterial, true
	case nchess.FivefoldRepetition:
		return ReasonFivefoldRepetition, true
	case nchess.SeventyFiveMoveRule:
		return ReasonSeventyFiveMoveRule, true
	}
	return ReasonNone, false
}

func (o *EngineOracle) SideToMove() Color {
	return fromEngineColor(o.game.Position().Turn())
}

func (o *EngineOracle) SAN(from, to notation.Square, promo notation.PieceType) string {
	mv, ok := o.find(from, to, promo)
	if !ok {
		return ""
	}
	return nchess.AlgebraicNotation{}.Encode(o.game.Position(), &mv)
}

func (o *EngineOracle) FEN() string {
	return o.game.FEN()
}

func (o *EngineOracle) find(from, to notation.Square, promo notation.PieceType) (nchess.Move, bool) {
	s1, s2 := toEngineSquare(from), toEngineSquare(to)
	pt := toEnginePieceType(promo)
	for _, mv := range o.game.ValidMoves() {
		if mv.S1() == s1 && mv.S2() == s2 && mv.Promo() == pt {
			return mv, true
		}
	}
	return nchess.Move{}, false
}

func toEngineSquare(sq notation.Square) nchess.Square {
	return nchess.NewSquare(nchess.File(sq.File), nchess.Rank(sq.Rank))
}

func fromEngineSquare(sq nchess.Square) notation.Square {
	return notation.Square{File: int(sq.File()), Rank: int(sq.Rank())}
}

func toEngineColor(c Color) nchess.Color {
	if c == Black {
		return nchess.Black
	}
	return nchess.White
}

func fromEngineColor(c nchess.Color) Color {
	if c == nchess.Black {
		return Black
	}
	return White
}

func toEnginePieceType(pt notation.PieceType) nchess.PieceType {
	switch pt {
	case notation.Pawn:
		return nchess.Pawn
	case notation.Knight:
		return nchess.Knight
	case notation.Bishop:
		return nchess.Bishop
	case notation.Rook:
		return nchess.Rook
	case notation.Queen:
		return nchess.Queen
	case notation.King:
		return nchess.King
	}
	return nchess.NoPieceType
}

func fromEnginePieceType(pt nchess.PieceType) notation.PieceType {
	switch pt {
	case nchess.Pawn:
		return notation.Pawn
	case nchess.Knight:
		return notation.Knight
	case nchess.Bishop:
		return notation.Bishop
	case nchess.Rook:
		return notation.Rook
	case nchess.Queen:
		return notation.Queen
	case nchess.King:
		return notation.King
	}
	return notation.NoPieceType
}

func sortSquares(sqs []notation.Square) {
	sort.Slice(sqs, func(i, j int) bool {
		if sqs[i].Rank != sqs[j].Rank {
			return sqs[i].Rank < sqs[j].Rank
		}
		return sqs[i].File < sqs[j].File
	})
}
