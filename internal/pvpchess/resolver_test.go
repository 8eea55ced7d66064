package pvpchess

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/park285/chessduel/internal/notation"
)

func mustOracle(t *testing.T, fen string) *EngineOracle {
	t.Helper()
	o, err := OracleFromFEN(fen)
	if err != nil {
		t.Fatalf("OracleFromFEN(%q): %v", fen, err)
	}
	return o
}

func mustParse(t *testing.T, s string) notation.PartialMove {
	t.Helper()
	pm, err := notation.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return pm
}

func sq(s string) notation.Square {
	v, ok := notation.ParseSquare(s)
	if !ok {
		panic("bad square " + s)
	}
	return v
}

func TestResolve_Success(t *testing.T) {
	const start = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	cases := []struct {
		name string
		fen  string
		side Color
		move string
		want string
	}{
		{"pawn push", start, White, "e4", "e2e4"},
		{"knight", start, White, "Nf3", "g1f3"},
		{"pawn by origin", start, White, "e2e4", "e2e4"},
		{"only unobstructed rook", "4k3/8/8/8/8/8/4K3/RN5R w - - 0 1", White, "Rd1", "h1d1"},
		{"prefix origin rook", "4k3/8/8/8/8/8/4K3/R6R w - - 0 1", White, "h1Rd1", "h1d1"},
		{"file hint rook", "4k3/8/8/8/8/8/4K3/R6R w - - 0 1", White, "Rad1", "a1d1"},
		{"pinned knight excluded", "4k3/8/8/8/1b6/2N5/8/4K1N1 w - - 0 1", White, "Ne2", "g1e2"},
		{"promotion", "k7/4P3/8/8/8/8/8/4K3 w - - 0 1", White, "e8=Q", "e7e8q"},
		{"underpromotion capture", "k2r4/4P3/8/8/8/8/8/4K3 w - - 0 1", White, "exd8=N", "e7d8n"},
		{"castle kingside white", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", White, "O-O", "e1g1"},
		{"castle queenside white", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", White, "O-O-O", "e1c1"},
		{"castle kingside black", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", Black, "O-O", "e8g8"},
		{"black pawn", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1", Black, "e5", "e7e5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rm, err := Resolve(mustParse(t, tc.move), mustOracle(t, tc.fen), tc.side)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tc.move, err)
			}
			if got := rm.UCI(); got != tc.want {
				t.Fatalf("Resolve(%q) = %s, want %s", tc.move, got, tc.want)
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	const start = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	cases := []struct {
		name string
		fen  string
		side Color
		move string
		want error
	}{
		{"no knights", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", White, "Nf3", ErrNoPieceOfType},
		{"no queen for black", "4k3/8/8/8/8/8/8/3QK3 b - - 0 1", Black, "Qd1", ErrNoPieceOfType},
		{"origin square holds other piece", start, White, "e1Nf3", ErrIllegalMove},
		{"origin square holds opponent piece", start, White, "g8Nf6", ErrIllegalMove},
		{"file hint matches no rook", "4k3/8/8/8/8/8/4K3/R6R w - - 0 1", White, "Rbd1", ErrIllegalMove},
		{"rank hint matches no knight", start, White, "N3f3", ErrIllegalMove},
		{"knight cannot reach", start, White, "Nf4", ErrIllegalMove},
		{"pawn blocked", start, White, "e5", ErrIllegalMove},
		{"pinned only candidate", "4k3/8/8/8/1b6/2N5/8/4K3 w - - 0 1", White, "Ne2", ErrIllegalMove},
		{"castle through rights lost", "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1", White, "O-O", ErrIllegalMove},
		{"castle with pieces between", start, White, "O-O", ErrIllegalMove},
		{"castle king moved off e-file", "4k3/8/8/8/8/8/8/R2K3R w - - 0 1", White, "O-O-O", ErrIllegalMove},
		{"two rooks", "4k3/8/8/8/8/8/4K3/R6R w - - 0 1", White, "Rd1", ErrAmbiguousMove},
		{"two knights", "4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1", White, "Nd2", ErrAmbiguousMove},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(mustParse(t, tc.move), mustOracle(t, tc.fen), tc.side)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Resolve(%q) err=%v, want %v", tc.move, err, tc.want)
			}
		})
	}
}

func TestResolve_AmbiguityListsLegalCandidates(t *testing.T) {
	_, err := Resolve(mustParse(t, "Rd1"), mustOracle(t, "4k3/8/8/8/8/8/4K3/R6R w - - 0 1"), White)
	var rerr *ResolveError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *ResolveError, got %v", err)
	}
	if diff := cmp.Diff([]notation.Square{sq("a1"), sq("h1")}, rerr.Candidates); diff != "" {
		t.Fatalf("candidates (-want +got):\n%s", diff)
	}
	if got := rerr.Hint(); got != "a1Rd1, h1Rd1" {
		t.Fatalf("Hint() = %q", got)
	}
}

func TestResolve_PromotionPassedToOracle(t *testing.T) {
	for _, p := range []string{"Q", "R", "B", "N"} {
		pm := mustParse(t, "e8="+p)
		rm, err := Resolve(pm, mustOracle(t, "k7/4P3/8/8/8/8/8/4K3 w - - 0 1"), White)
		if err != nil {
			t.Fatalf("e8=%s: %v", p, err)
		}
		if rm.Promotion != pm.Promotion {
			t.Fatalf("e8=%s resolved with promotion %v", p, rm.Promotion)
		}
	}
}

func TestEngineOracle_ApplyDoesNotMutateReceiver(t *testing.T) {
	o := NewStandardOracle()
	before := o.FEN()
	next := o.Apply(sq("e2"), sq("e4"), notation.NoPieceType)
	if o.FEN() != before {
		t.Fatalf("receiver mutated: %s", o.FEN())
	}
	if next.SideToMove() != Black {
		t.Fatalf("expected black to move after e4")
	}
	if pt, c, ok := next.PieceOn(sq("e4")); !ok || pt != notation.Pawn || c != White {
		t.Fatalf("expected white pawn on e4, got %v %v %v", pt, c, ok)
	}
}

func TestEngineOracle_PanicsOnEmptyOrigin(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for empty origin")
		}
	}()
	NewStandardOracle().IsLegal(sq("e4"), sq("e5"), notation.NoPieceType)
}

func TestEngineOracle_InCheckFromLoadedPosition(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		white bool
		black bool
	}{
		{"rook on open file", "4r2k/8/8/8/8/8/8/4K3 w - - 0 1", true, false},
		{"rook blocked", "4r2k/8/8/8/4N3/8/8/4K3 w - - 0 1", false, false},
		{"knight", "7k/8/8/8/8/3n4/8/4K3 w - - 0 1", true, false},
		{"pawn", "7k/8/8/8/8/8/3p4/4K3 w - - 0 1", true, false},
		{"pawn pushing is not an attack", "7k/8/8/8/8/8/4p3/4K3 w - - 0 1", false, false},
		{"pinned bishop still checks", "1k6/8/8/8/1b6/8/8/1R2K3 w - - 0 1", true, false},
		{"bishop against black", "4k3/8/8/1B6/8/8/8/4K3 b - - 0 1", false, true},
		{"initial position", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := mustOracle(t, tc.fen)
			if got := o.InCheck(White); got != tc.white {
				t.Fatalf("InCheck(White) = %v, want %v", got, tc.white)
			}
			if got := o.InCheck(Black); got != tc.black {
				t.Fatalf("InCheck(Black) = %v, want %v", got, tc.black)
			}
		})
	}
}
