package chesspresenter

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/park285/chessduel/pkg/chessdto"
)

// Sender delivers replies to a room. irisfast.Egress satisfies it.
type Sender interface {
	SendText(ctx context.Context, room, message string) error
	SendImage(ctx context.Context, room, imageBase64 string) error
}

// Presenter delivers formatted messages and board images without coupling to the command layer.
type Presenter struct {
	out Sender
}

func NewPresenter(out Sender) *Presenter {
	return &Presenter{out: out}
}

// Text sends a plain reply; blank text is skipped.
func (p *Presenter) Text(ctx context.Context, room, message string) error {
	if p == nil || p.out == nil || strings.TrimSpace(message) == "" {
		return nil
	}
	return p.out.SendText(ctx, room, message)
}

// Board sends the message followed by the board image when one was rendered.
func (p *Presenter) Board(ctx context.Context, room, message string, state *chessdto.BoardState) error {
	if p == nil || p.out == nil {
		return nil
	}
	if err := p.Text(ctx, room, message); err != nil {
		return err
	}
	if state != nil && len(state.BoardImage) > 0 {
		encoded := base64.StdEncoding.EncodeToString(state.BoardImage)
		if err := p.out.SendImage(ctx, room, encoded); err != nil {
			return err
		}
	}
	return nil
}
