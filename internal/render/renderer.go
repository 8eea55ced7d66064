// Package render draws board snapshots as PNG images for chat replies.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type MoveHighlight struct {
	From nchess.Square
	To   nchess.Square
}

// Options controls the HUD text and orientation of a render.
type Options struct {
	Header    string
	Turn      string
	Status    string
	Highlight *MoveHighlight
	// Flip draws the board from black's side.
	Flip bool
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, board *nchess.Board, opts Options) ([]byte, error)
}

type svgBoardRenderer struct {
	face font.Face
}

func NewSVGBoardRenderer() BoardRenderer {
	return &svgBoardRenderer{face: basicfont.Face7x13}
}

// BoardFromFEN decodes a position for rendering.
func BoardFromFEN(fen string) (*nchess.Board, error) {
	opt, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("decode fen: %w", err)
	}
	return nchess.NewGame(opt).Position().Board(), nil
}

const (
	squareSize   = 64
	boardSize    = squareSize * 8
	sideMargin   = 32
	topMargin    = 104
	bottomMargin = 32
	panelHeight  = 30
	panelGap     = 10
	panelRadius  = 10
	panelPadding = 18
	shadowOffset = 5
)

var (
	lightSquare         = color.RGBA{233, 207, 163, 255}
	darkSquare          = color.RGBA{187, 136, 96, 255}
	whiteMoveFill       = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	blackMoveArrow      = color.NRGBA{R: 148, G: 207, B: 255, A: 170}
	neutralMoveArrow    = color.NRGBA{R: 182, G: 184, B: 190, A: 140}
	backgroundColor     = color.RGBA{22, 24, 34, 255}
	hudPanelColor       = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudTurnPanelColor   = color.NRGBA{R: 32, G: 35, B: 52, A: 245}
	hudShadowColor      = color.NRGBA{0, 0, 0, 50}
	hudTextPrimary      = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTurnTextColor    = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	coordinateTextColor = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

// geometry maps board squares to pixels for one orientation.
type geometry struct {
	origin image.Point
	flip   bool
}

func (g geometry) cell(sq nchess.Square) (row, col int) {
	row, col = 7-int(sq.Rank()), int(sq.File())
	if g.flip {
		row, col = 7-row, 7-col
	}
	return row, col
}

func (g geometry) rect(sq nchess.Square) image.Rectangle {
	row, col := g.cell(sq)
	x := g.origin.X + col*squareSize
	y := g.origin.Y + row*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func (g geometry) center(sq nchess.Square) image.Point {
	r := g.rect(sq)
	return image.Pt(r.Min.X+squareSize/2, r.Min.Y+squareSize/2)
}

func allSquares() []nchess.Square {
	out := make([]nchess.Square, 0, 64)
	for r := nchess.Rank1; r <= nchess.Rank8; r++ {
		for f := nchess.FileA; f <= nchess.FileH; f++ {
			out = append(out, nchess.NewSquare(f, r))
		}
	}
	return out
}

func (r *svgBoardRenderer) RenderPNG(ctx context.Context, board *nchess.Board, opts Options) ([]byte, error) {
	if board == nil {
		return nil, fmt.Errorf("board is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, boardSize+sideMargin*2, boardSize+topMargin+bottomMargin))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)
	geo := geometry{origin: image.Pt(sideMargin, topMargin), flip: opts.Flip}
	boardRect := image.Rect(sideMargin, topMargin, sideMargin+boardSize, topMargin+boardSize)

	r.drawHUD(img, opts, boardRect)
	drawSquares(img, geo)
	drawHighlight(img, board, opts.Highlight, geo)
	if err := drawPieces(img, board, geo); err != nil {
		return nil, err
	}
	r.drawCoordinates(img, geo)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawSquares(dst imagedraw.Image, geo geometry) {
	for _, sq := range allSquares() {
		clr := lightSquare
		if (int(sq.File())+int(sq.Rank()))%2 == 0 {
			clr = darkSquare
		}
		imagedraw.Draw(dst, geo.rect(sq), image.NewUniform(clr), image.Point{}, imagedraw.Src)
	}
}

func drawPieces(dst imagedraw.Image, board *nchess.Board, geo geometry) error {
	for sq, piece := range board.SquareMap() {
		if piece == nchess.NoPiece {
			continue
		}
		sprite, err := pieceSprite(piece, squareSize)
		if err != nil {
			return err
		}
		imagedraw.Draw(dst, geo.rect(sq), sprite, image.Point{}, imagedraw.Over)
	}
	return nil
}

// drawHighlight fills the squares of a white move and draws an arrow for a black one.
func drawHighlight(img *image.RGBA, board *nchess.Board, hl *MoveHighlight, geo geometry) {
	if hl == nil {
		return
	}
	mover := nchess.NoColor
	if p := board.Piece(hl.To); p != nchess.NoPiece {
		mover = p.Color()
	}
	switch mover {
	case nchess.White:
		imagedraw.Draw(img, geo.rect(hl.From), image.NewUniform(whiteMoveFill), image.Point{}, imagedraw.Over)
		imagedraw.Draw(img, geo.rect(hl.To), image.NewUniform(whiteMoveFill), image.Point{}, imagedraw.Over)
	case nchess.Black:
		drawArrow(img, geo.center(hl.From), geo.center(hl.To), blackMoveArrow)
	default:
		drawArrow(img, geo.center(hl.From), geo.center(hl.To), neutralMoveArrow)
	}
}

func (r *svgBoardRenderer) drawHUD(img *image.RGBA, opts Options, boardRect image.Rectangle) {
	drawer := &font.Drawer{Dst: img, Face: r.face}

	title := strings.TrimSpace(opts.Header)
	if title == "" {
		title = "White vs Black"
	}
	turn := strings.TrimSpace(opts.Turn)
	status := strings.TrimSpace(opts.Status)

	bottom := boardRect.Min.Y - panelGap*2
	titleRect := image.Rect(boardRect.Min.X, bottom-panelHeight*2-panelGap, boardRect.Max.X, bottom-panelHeight-panelGap)
	turnRect := image.Rect(boardRect.Min.X, bottom-panelHeight, boardRect.Min.X+boardRect.Dx()/2-panelGap/2, bottom)
	statusRect := image.Rect(turnRect.Max.X+panelGap, bottom-panelHeight, boardRect.Max.X, bottom)

	for _, p := range []image.Rectangle{titleRect, turnRect, statusRect} {
		drawRoundedPanel(img, p.Add(image.Pt(0, shadowOffset)), panelRadius, hudShadowColor)
	}
	drawRoundedPanel(img, titleRect, panelRadius, hudPanelColor)
	drawRoundedPanel(img, turnRect, panelRadius, hudTurnPanelColor)
	drawRoundedPanel(img, statusRect, panelRadius, hudPanelColor)

	drawCenteredString(drawer, titleRect, truncate(r.face, title, titleRect.Dx()-panelPadding*2), hudTextPrimary)
	drawCenteredString(drawer, turnRect, truncate(r.face, turn, turnRect.Dx()-panelPadding*2), hudTurnTextColor)
	drawCenteredString(drawer, statusRect, truncate(r.face, status, statusRect.Dx()-panelPadding*2), hudTextPrimary)
}

func (r *svgBoardRenderer) drawCoordinates(img *image.RGBA, geo geometry) {
	drawer := &font.Drawer{Dst: img, Face: r.face, Src: image.NewUniform(coordinateTextColor)}
	ascent := r.face.Metrics().Ascent.Ceil()
	for _, sq := range allSquares() {
		row, col := geo.cell(sq)
		rect := geo.rect(sq)
		if col == 0 {
			drawCenteredText(drawer, sq.Rank().String(), rect.Min.X-sideMargin/2, rect.Min.Y+squareSize/2+ascent/2)
		}
		if row == 7 {
			drawCenteredText(drawer, sq.File().String(), rect.Min.X+squareSize/2, rect.Max.Y+ascent+4)
		}
	}
}

func truncate(face font.Face, text string, maxWidth int) string {
	if text == "" || maxWidth <= 0 {
		return text
	}
	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(text).Round() <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ""
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}
