package chesspresenter

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/chessduel/internal/msgcat"
	"github.com/park285/chessduel/internal/obslog"
	"github.com/park285/chessduel/pkg/chessdto"
)

const historyHeader = "♜ Recent games"

// PrefixProvider exposes the command prefix shown in help texts.
type PrefixProvider interface {
	Prefix() string
}

// StaticPrefix is a fixed command prefix.
type StaticPrefix string

func (p StaticPrefix) Prefix() string { return string(p) }

// Formatter renders DTOs into chat text using the message catalog.
type Formatter struct {
	cat            *msgcat.Catalog
	prefixProvider PrefixProvider
}

func NewFormatter(cat *msgcat.Catalog, provider PrefixProvider) *Formatter {
	return &Formatter{cat: cat, prefixProvider: provider}
}

func (f *Formatter) Prefix() string {
	if f == nil || f.prefixProvider == nil {
		return ""
	}
	return strings.TrimSpace(f.prefixProvider.Prefix())
}

// text renders key with data plus the command prefix. Rendering failures are logged
// and degrade to the key so the user still gets an answer.
func (f *Formatter) text(key string, data map[string]any) string {
	if data == nil {
		data = map[string]any{}
	}
	data["Prefix"] = f.Prefix()
	if f == nil || f.cat == nil {
		return key
	}
	s, err := f.cat.Render(key, data)
	if err != nil {
		obslog.L().Warn("msgcat_render_error", zap.String("key", key), zap.Error(err))
		return key
	}
	return s
}

func (f *Formatter) Help() string {
	return collapse(f.text("help", nil))
}

func (f *Formatter) About() string          { return f.text("about", nil) }
func (f *Formatter) Pong() string           { return f.text("ping", nil) }
func (f *Formatter) UnknownCommand() string { return f.text("unknown_command", nil) }
func (f *Formatter) MoveUsage() string      { return f.text("move.usage", nil) }
func (f *Formatter) NoUser() string         { return f.text("start.no_user", nil) }

// Error renders a mapped domain error.
func (f *Formatter) Error(e chessdto.DomainError) string {
	code := e.Code
	if code == "" {
		code = "error.internal"
	}
	return f.text(code, map[string]any{"Hint": e.Detail})
}

func (f *Formatter) Started(s *chessdto.BoardState) string {
	if s == nil {
		return ""
	}
	return f.text("start.ok", map[string]any{"White": s.White, "Black": s.Black})
}

// Moved announces a move; when the move ended the game the outcome follows.
func (f *Formatter) Moved(s *chessdto.BoardState, mover string) string {
	if s == nil {
		return ""
	}
	if s.Concluded() {
		return f.Outcome(s)
	}
	key := "move.ok"
	if s.Check {
		key = "move.check"
	}
	return f.text(key, map[string]any{"Mover": mover, "SAN": s.LastSAN, "Next": s.SideToMove()})
}

// DrawOffered is addressed to the opponent of name.
func (f *Formatter) DrawOffered(name string) string {
	return f.text("draw.offered", map[string]any{"Name": name})
}

func (f *Formatter) DrawAccepted() string  { return f.text("draw.accepted", nil) }
func (f *Formatter) DrawRedundant() string { return f.text("draw.redundant", nil) }

func (f *Formatter) Resigned(s *chessdto.BoardState, name string) string {
	return f.text("resign.ok", map[string]any{"Name": name}) + "\n" + f.Outcome(s)
}

// Outcome describes how a concluded game ended.
func (f *Formatter) Outcome(s *chessdto.BoardState) string {
	if s == nil || s.Reason == "" {
		return ""
	}
	return f.text("result."+s.Reason, map[string]any{"Winner": s.Winner})
}

// Caption is the line sent with a board image.
func (f *Formatter) Caption(s *chessdto.BoardState) string {
	if s == nil {
		return ""
	}
	return f.text("board.caption", map[string]any{
		"White":     s.White,
		"Black":     s.Black,
		"Moves":     s.MoveCount/2 + 1,
		"Turn":      s.SideToMove(),
		"Check":     s.Check,
		"DrawOffer": s.DrawOffer != "",
	})
}

func (f *Formatter) History(name string, games []chessdto.GameRecord) string {
	if len(games) == 0 {
		return f.text("history.empty", nil)
	}
	var sb strings.Builder
	sb.WriteString(historyHeader)
	sb.WriteByte('\n')
	sb.WriteString(f.text("history.header", map[string]any{"Count": len(games), "Name": name}))
	for i, g := range games {
		sb.WriteByte('\n')
		sb.WriteString(f.text("history.line", map[string]any{
			"Index":       i + 1,
			"Outcome":     formatResultBadge(g.Outcome),
			"Opponent":    g.OpponentName,
			"Result":      g.Result,
			"Termination": strings.ReplaceAll(g.Termination, "_", " "),
			"Moves":       g.Moves,
			"Date":        formatShortTime(g.EndedAt),
		}))
	}
	return collapse(sb.String())
}

func (f *Formatter) HistoryUnavailable() string { return f.text("history.unavailable", nil) }

func formatResultBadge(outcome string) string {
	switch strings.ToLower(strings.TrimSpace(outcome)) {
	case "win":
		return "✅ win"
	case "loss":
		return "❌ loss"
	case "draw":
		return "🤝 draw"
	default:
		return "▫️ ?"
	}
}

func formatShortTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}
