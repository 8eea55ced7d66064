// Package notation reads the short algebraic move strings players type in chat.
//
// Two shapes are accepted besides the castle literals "O-O" and "O-O-O":
//
//	[origin][piece][x]dest[=P][+|#]   e.g. e4, exd5, h1Rd1, e7e8=Q
//	piece[origin][x]dest[=P][+|#]     e.g. Nbd2, R1e1, Qh4xe1
//
// Parsing never looks at a board; which piece actually moves is decided later.
package notation

import "regexp"

var (
	prefixForm = regexp.MustCompile(`^([a-h]?[1-8]?)([NBRQK]?)(x?)([a-h][1-8])(?:=([NBRQ]))?[+#]?$`)
	pieceForm  = regexp.MustCompile(`^([NBRQK])([a-h]?[1-8]?)(x?)([a-h][1-8])(?:=([NBRQ]))?[+#]?$`)
)

// Parse converts a move string into a PartialMove. Input is case-sensitive and is not
// trimmed; callers strip surrounding whitespace.
func Parse(input string) (PartialMove, error) {
	switch input {
	case "O-O":
		return PartialMove{Piece: King, Castle: Kingside}, nil
	case "O-O-O":
		return PartialMove{Piece: King, Castle: Queenside}, nil
	}

	var origin, piece, capture, dest, promo string
	if m := prefixForm.FindStringSubmatch(input); m != nil {
		origin, piece, capture, dest, promo = m[1], m[2], m[3], m[4], m[5]
	} else if m := pieceForm.FindStringSubmatch(input); m != nil {
		piece, origin, capture, dest, promo = m[1], m[2], m[3], m[4], m[5]
	} else {
		return PartialMove{}, newError(input, ErrMalformedMove)
	}

	to, _ := ParseSquare(dest)
	mv := PartialMove{
		Piece:   Pawn,
		Origin:  parseOrigin(origin),
		To:      to,
		Capture: capture != "",
	}
	if piece != "" {
		mv.Piece = pieceLetters[piece[0]]
	}

	backRank := to.Rank == 0 || to.Rank == 7
	switch {
	case promo != "":
		if mv.Piece != Pawn || !backRank {
			return PartialMove{}, newError(input, ErrMalformedMove)
		}
		mv.Promotion = pieceLetters[promo[0]]
	case mv.Piece == Pawn && backRank:
		return PartialMove{}, newError(input, ErrMissingPromotion)
	}
	return mv, nil
}
