package archive

import (
	"strings"
	"testing"
	"time"

	"github.com/park285/chessduel/internal/domain"
)

func TestBuildPGN(t *testing.T) {
	r := domain.GameResult{
		GameID:      "g1",
		Room:        "room-1",
		WhiteID:     "u1",
		WhiteName:   `Al "the" ice`,
		BlackID:     "u2",
		Result:      "0-1",
		Termination: "checkmate",
		MovesSAN:    []string{"f3", "e5", "g4", "Qh4#"},
		EndedAt:     time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
	}
	pgn := BuildPGN(r)
	for _, want := range []string{
		`[Date "2026.03.07"]`,
		`[White "Al 'the' ice"]`,
		`[Black "u2"]`,
		`[Result "0-1"]`,
		`[Termination "checkmate"]`,
		"1. f3 e5 2. g4 Qh4# 0-1",
	} {
		if !strings.Contains(pgn, want) {
			t.Fatalf("pgn missing %q:\n%s", want, pgn)
		}
	}
}

func TestBuildPGN_OddMoveCountAndUnknownResult(t *testing.T) {
	pgn := BuildPGN(domain.GameResult{MovesSAN: []string{"e4"}, Termination: "draw_agreed"})
	if !strings.HasSuffix(pgn, "1. e4 *") {
		t.Fatalf("unexpected movetext: %q", pgn)
	}
	if !strings.Contains(pgn, `[Termination "draw agreed"]`) {
		t.Fatalf("termination not humanised: %q", pgn)
	}
}
