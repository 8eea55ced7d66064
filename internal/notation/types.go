package notation

import "strings"

// PieceType identifies a chess piece kind. The zero value means "no piece".
type PieceType int

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceLetters = map[byte]PieceType{
	'N': Knight,
	'B': Bishop,
	'R': Rook,
	'Q': Queen,
	'K': King,
}

// Letter returns the algebraic letter for the piece; pawns have none.
func (p PieceType) Letter() string {
	switch p {
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return ""
	}
}

func (p PieceType) String() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Square is a board coordinate with 0-based file (a=0) and rank (1=0).
type Square struct {
	File int
	Rank int
}

// ParseSquare reads a two character coordinate such as "e4".
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 {
		return Square{}, false
	}
	f, r := s[0], s[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return Square{}, false
	}
	return Square{File: int(f - 'a'), Rank: int(r - '1')}, true
}

func (s Square) String() string {
	return string([]byte{byte('a' + s.File), byte('1' + s.Rank)})
}

// Valid reports whether the square lies on the board.
func (s Square) Valid() bool {
	return s.File >= 0 && s.File < 8 && s.Rank >= 0 && s.Rank < 8
}

// Origin is a possibly partial origin hint: a file, a rank, or both.
// Unspecified components are -1.
type Origin struct {
	File int
	Rank int
}

func parseOrigin(s string) *Origin {
	if s == "" {
		return nil
	}
	o := &Origin{File: -1, Rank: -1}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'h':
			o.File = int(c - 'a')
		case c >= '1' && c <= '8':
			o.Rank = int(c - '1')
		}
	}
	return o
}

// IsSquare reports whether both file and rank are known.
func (o Origin) IsSquare() bool { return o.File >= 0 && o.Rank >= 0 }

// Square returns the origin as a square. Only meaningful when IsSquare is true.
func (o Origin) Square() Square { return Square{File: o.File, Rank: o.Rank} }

// Matches reports whether sq agrees with every known component of the hint.
func (o Origin) Matches(sq Square) bool {
	if o.File >= 0 && o.File != sq.File {
		return false
	}
	if o.Rank >= 0 && o.Rank != sq.Rank {
		return false
	}
	return true
}

func (o Origin) String() string {
	var b strings.Builder
	if o.File >= 0 {
		b.WriteByte(byte('a' + o.File))
	}
	if o.Rank >= 0 {
		b.WriteByte(byte('1' + o.Rank))
	}
	return b.String()
}

// CastleSide selects a castling move. The zero value means the move is not a castle.
type CastleSide int

const (
	NoCastle CastleSide = iota
	Kingside
	Queenside
)

func (c CastleSide) String() string {
	switch c {
	case Kingside:
		return "O-O"
	case Queenside:
		return "O-O-O"
	default:
		return ""
	}
}

// PartialMove is a move as written by a player: the destination is known but the
// origin may be missing or only partially specified.
type PartialMove struct {
	Piece     PieceType
	Origin    *Origin
	To        Square
	Promotion PieceType
	Castle    CastleSide
	Capture   bool
}

// IsCastle reports whether the move names a castle instead of squares.
func (m PartialMove) IsCastle() bool { return m.Castle != NoCastle }

// String renders the move in the prefix form accepted by Parse.
func (m PartialMove) String() string {
	if m.IsCastle() {
		return m.Castle.String()
	}
	var b strings.Builder
	if m.Origin != nil {
		b.WriteString(m.Origin.String())
	}
	b.WriteString(m.Piece.Letter())
	if m.Capture {
		b.WriteByte('x')
	}
	b.WriteString(m.To.String())
	if m.Promotion != NoPieceType {
		b.WriteByte('=')
		b.WriteString(m.Promotion.Letter())
	}
	return b.String()
}
