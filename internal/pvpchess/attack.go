package pvpchess

import nchess "github.com/corentings/chess/v2"

var (
	knightSteps = [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	lineDirs    = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagDirs    = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// kingAttacked reports whether any enemy piece attacks the king of color c.
// Pinned attackers still give check, so this works on the raw board rather than
// on the engine's legal move list.
func kingAttacked(b *nchess.Board, c nchess.Color) bool {
	if b == nil {
		return false
	}
	pieces := b.SquareMap()
	king := nchess.NoSquare
	for sq, p := range pieces {
		if p.Type() == nchess.King && p.Color() == c {
			king = sq
			break
		}
	}
	if king == nchess.NoSquare {
		return false
	}
	enemy := c.Other()
	kf, kr := int(king.File()), int(king.Rank())

	at := func(f, r int) (nchess.Piece, bool) {
		if f < 0 || f > 7 || r < 0 || r > 7 {
			return nchess.NoPiece, false
		}
		p, ok := pieces[nchess.NewSquare(nchess.File(f), nchess.Rank(r))]
		return p, ok
	}
	enemyOf := func(p nchess.Piece, types ...nchess.PieceType) bool {
		if p.Color() != enemy {
			return false
		}
		for _, t := range types {
			if p.Type() == t {
				return true
			}
		}
		return false
	}

	for _, d := range knightSteps {
		if p, ok := at(kf+d[0], kr+d[1]); ok && enemyOf(p, nchess.Knight) {
			return true
		}
	}
	for _, d := range kingSteps {
		if p, ok := at(kf+d[0], kr+d[1]); ok && enemyOf(p, nchess.King) {
			return true
		}
	}
	// Enemy pawns attack towards the king's home rank.
	dir := 1
	if c == nchess.Black {
		dir = -1
	}
	for _, df := range []int{-1, 1} {
		if p, ok := at(kf+df, kr+dir); ok && enemyOf(p, nchess.Pawn) {
			return true
		}
	}
	slide := func(dirs [][2]int, types ...nchess.PieceType) bool {
		for _, d := range dirs {
			for f, r := kf+d[0], kr+d[1]; f >= 0 && f <= 7 && r >= 0 && r <= 7; f, r = f+d[0], r+d[1] {
				p, ok := at(f, r)
				if !ok {
					continue
				}
				if enemyOf(p, types...) {
					return true
				}
				break
			}
		}
		return false
	}
	return slide(lineDirs, nchess.Rook, nchess.Queen) || slide(diagDirs, nchess.Bishop, nchess.Queen)
}
