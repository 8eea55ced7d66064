package render

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets/pieces/*.svg
var pieceFiles embed.FS

type spriteKey struct {
	piece nchess.Piece
	size  int
}

// Rasterised sprites are immutable once stored and shared by all renders.
var (
	sprites   = map[spriteKey]image.Image{}
	spritesMu sync.RWMutex
)

func pieceSprite(piece nchess.Piece, size int) (image.Image, error) {
	key := spriteKey{piece: piece, size: size}

	spritesMu.RLock()
	img, ok := sprites[key]
	spritesMu.RUnlock()
	if ok {
		return img, nil
	}

	name := pieceAssetName(piece)
	data, err := pieceFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read piece asset %s: %w", name, err)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(normalizeSVG(data)))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg %s: %w", name, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)

	spritesMu.Lock()
	sprites[key] = rgba
	spritesMu.Unlock()
	return rgba, nil
}

func pieceAssetName(piece nchess.Piece) string {
	prefix := "w"
	if piece.Color() == nchess.Black {
		prefix = "b"
	}
	letter := "P"
	switch piece.Type() {
	case nchess.King:
		letter = "K"
	case nchess.Queen:
		letter = "Q"
	case nchess.Rook:
		letter = "R"
	case nchess.Bishop:
		letter = "B"
	case nchess.Knight:
		letter = "N"
	}
	return fmt.Sprintf("assets/pieces/%s%s.svg", prefix, letter)
}
