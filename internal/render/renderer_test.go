package render

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	nchess "github.com/corentings/chess/v2"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestRenderPNG_DecodesAndHasExpectedSize(t *testing.T) {
	board, err := BoardFromFEN(startFEN)
	if err != nil {
		t.Fatalf("BoardFromFEN: %v", err)
	}
	r := NewSVGBoardRenderer()
	out, err := r.RenderPNG(context.Background(), board, Options{Header: "alice vs bob", Turn: "White to move"})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != boardSize+sideMargin*2 || b.Dy() != boardSize+topMargin+bottomMargin {
		t.Fatalf("unexpected bounds %v", b)
	}
}

func TestRenderPNG_FlipChangesImage(t *testing.T) {
	board, err := BoardFromFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if err != nil {
		t.Fatalf("BoardFromFEN: %v", err)
	}
	r := NewSVGBoardRenderer()
	hl := &MoveHighlight{From: nchess.E2, To: nchess.E4}
	white, err := r.RenderPNG(context.Background(), board, Options{Highlight: hl})
	if err != nil {
		t.Fatalf("render white: %v", err)
	}
	black, err := r.RenderPNG(context.Background(), board, Options{Highlight: hl, Flip: true})
	if err != nil {
		t.Fatalf("render black: %v", err)
	}
	if bytes.Equal(white, black) {
		t.Fatalf("expected flipped render to differ")
	}
}

func TestRenderPNG_NilBoardAndCancelledContext(t *testing.T) {
	r := NewSVGBoardRenderer()
	if _, err := r.RenderPNG(context.Background(), nil, Options{}); err == nil {
		t.Fatalf("expected error for nil board")
	}
	board, _ := BoardFromFEN(startFEN)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.RenderPNG(ctx, board, Options{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestPieceSprites_AllAssetsParse(t *testing.T) {
	board, err := BoardFromFEN(startFEN)
	if err != nil {
		t.Fatalf("BoardFromFEN: %v", err)
	}
	seen := map[string]bool{}
	for _, p := range board.SquareMap() {
		name := pieceAssetName(p)
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, err := pieceSprite(p, 32); err != nil {
			t.Fatalf("sprite %s: %v", name, err)
		}
	}
	if len(seen) != 12 {
		t.Fatalf("expected 12 distinct piece assets, got %d", len(seen))
	}
}

func TestBoardFromFEN_Invalid(t *testing.T) {
	if _, err := BoardFromFEN("not a fen"); err == nil {
		t.Fatalf("expected error")
	}
}
