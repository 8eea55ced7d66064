package pvpchess

import "github.com/park285/chessduel/internal/notation"

// Resolve turns a partial move into the single legal move it describes for side.
//
// Failure order matters: a side without any piece of the named type gets
// ErrNoPieceOfType. Pieces that exist but are excluded by the origin hint or cannot
// legally reach the destination give ErrIllegalMove, and ambiguity is only judged
// among legal candidates.
func Resolve(pm notation.PartialMove, board BoardOracle, side Color) (ResolvedMove, error) {
	if pm.IsCastle() {
		return resolveCastle(pm, board, side)
	}

	all := board.PiecesOf(pm.Piece, side)
	if len(all) == 0 {
		return ResolvedMove{}, &ResolveError{Move: pm, Err: ErrNoPieceOfType}
	}
	candidates := filterOrigins(pm.Origin, all)

	var legal []notation.Square
	for _, from := range candidates {
		if board.IsLegal(from, pm.To, pm.Promotion) {
			legal = append(legal, from)
		}
	}

	switch len(legal) {
	case 0:
		return ResolvedMove{}, &ResolveError{Move: pm, Err: ErrIllegalMove}
	case 1:
		return ResolvedMove{From: legal[0], To: pm.To, Promotion: pm.Promotion}, nil
	default:
		return ResolvedMove{}, &ResolveError{Move: pm, Candidates: legal, Err: ErrAmbiguousMove}
	}
}

// filterOrigins keeps the squares matching the origin hint; a full square matches
// only itself.
func filterOrigins(origin *notation.Origin, all []notation.Square) []notation.Square {
	if origin == nil {
		return all
	}
	out := all[:0:0]
	for _, sq := range all {
		if origin.Matches(sq) {
			out = append(out, sq)
		}
	}
	return out
}

func resolveCastle(pm notation.PartialMove, board BoardOracle, side Color) (ResolvedMove, error) {
	rank := 0
	if side == Black {
		rank = 7
	}
	from := notation.Square{File: 4, Rank: rank}
	to := notation.Square{File: 6, Rank: rank}
	if pm.Castle == notation.Queenside {
		to.File = 2
	}
	pt, c, ok := board.PieceOn(from)
	if !ok || pt != notation.King || c != side {
		return ResolvedMove{}, &ResolveError{Move: pm, Err: ErrIllegalMove}
	}
	if !board.IsLegal(from, to, notation.NoPieceType) {
		return ResolvedMove{}, &ResolveError{Move: pm, Err: ErrIllegalMove}
	}
	return ResolvedMove{From: from, To: to}, nil
}
