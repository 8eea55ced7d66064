// Package bot turns chat messages into game commands and replies.
package bot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/park285/chessduel/internal/adapter/chesspresenter"
	"github.com/park285/chessduel/internal/irisfast"
	"github.com/park285/chessduel/internal/obslog"
	"github.com/park285/chessduel/internal/pvpchess"
)

// Options configure the command surface.
type Options struct {
	Prefix       string
	HistoryLimit int
	RoomAllowed  func(room string) bool
	Timeout      time.Duration
}

// Handler dispatches commands to the game manager and sends replies through the presenter.
type Handler struct {
	opts      Options
	mgr       *pvpchess.Manager
	formatter *chesspresenter.Formatter
	presenter *chesspresenter.Presenter
}

func NewHandler(opts Options, mgr *pvpchess.Manager, formatter *chesspresenter.Formatter, presenter *chesspresenter.Presenter) *Handler {
	if opts.Prefix == "" {
		opts.Prefix = "!"
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Handler{opts: opts, mgr: mgr, formatter: formatter, presenter: presenter}
}

// Prefix implements chesspresenter.PrefixProvider.
func (h *Handler) Prefix() string { return h.opts.Prefix }

// OnMessage is the websocket callback.
func (h *Handler) OnMessage(msg *irisfast.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), h.opts.Timeout)
	defer cancel()
	h.Handle(ctx, msg)
}

// Handle processes one chat message. Every failure ends as a reply or a log line.
func (h *Handler) Handle(ctx context.Context, msg *irisfast.Message) {
	if msg == nil {
		return
	}
	cmd, ok := ParseCommand(h.opts.Prefix, msg.Msg)
	if !ok {
		return
	}
	if h.opts.RoomAllowed != nil && !h.opts.RoomAllowed(msg.Room) {
		obslog.L().Debug("bot_room_ignored", zap.String("room", msg.Room))
		return
	}
	obslog.L().Debug("bot_command", zap.String("room", msg.Room), zap.String("user_id", msg.UserID()), zap.String("command", cmd.Name))

	switch cmd.Name {
	case "help":
		h.reply(ctx, msg.Room, h.formatter.Help())
	case "about":
		h.reply(ctx, msg.Room, h.formatter.About())
	case "ping":
		h.reply(ctx, msg.Room, h.formatter.Pong())
	case "start":
		h.start(ctx, msg, cmd)
	case "move":
		h.move(ctx, msg, cmd)
	case "draw":
		h.draw(ctx, msg)
	case "resign":
		h.resign(ctx, msg)
	case "board":
		h.board(ctx, msg)
	case "history":
		h.history(ctx, msg, cmd)
	default:
		h.reply(ctx, msg.Room, h.formatter.UnknownCommand())
	}
}

func (h *Handler) start(ctx context.Context, msg *irisfast.Message, cmd Command) {
	me := pvpchess.Participant{ID: msg.UserID(), Name: msg.SenderName()}
	if me.ID == "" {
		h.reply(ctx, msg.Room, h.formatter.NoUser())
		return
	}
	opponent, ok := startTarget(msg, cmd.Args)
	if !ok {
		h.fail(ctx, msg, pvpchess.ErrInvalidOpponent)
		return
	}
	u, err := h.mgr.Start(ctx, pvpchess.StartRequest{
		Requester: me,
		Opponent:  opponent,
		Preferred: startPreference(cmd.Args),
		Room:      msg.Room,
	})
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	state := chesspresenter.FromUpdate(u)
	h.sendBoard(ctx, msg.Room, h.formatter.Started(state), u)
}

func (h *Handler) move(ctx context.Context, msg *irisfast.Message, cmd Command) {
	if cmd.Raw == "" {
		h.reply(ctx, msg.Room, h.formatter.MoveUsage())
		return
	}
	u, err := h.mgr.PlayMove(ctx, msg.UserID(), cmd.Args[0])
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	state := chesspresenter.FromUpdate(u)
	h.sendBoard(ctx, msg.Room, h.formatter.Moved(state, state.NameOf(msg.UserID())), u)
}

func (h *Handler) draw(ctx context.Context, msg *irisfast.Message) {
	u, err := h.mgr.OfferDraw(ctx, msg.UserID())
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	state := chesspresenter.FromUpdate(u)
	switch u.Draw {
	case pvpchess.DrawOffered:
		h.reply(ctx, msg.Room, h.formatter.DrawOffered(state.NameOf(msg.UserID())))
	case pvpchess.DrawAccepted:
		h.reply(ctx, msg.Room, h.formatter.DrawAccepted())
	default:
		h.reply(ctx, msg.Room, h.formatter.DrawRedundant())
	}
}

func (h *Handler) resign(ctx context.Context, msg *irisfast.Message) {
	u, err := h.mgr.Resign(ctx, msg.UserID())
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	state := chesspresenter.FromUpdate(u)
	h.reply(ctx, msg.Room, h.formatter.Resigned(state, state.NameOf(msg.UserID())))
}

func (h *Handler) board(ctx context.Context, msg *irisfast.Message) {
	u, err := h.mgr.Board(ctx, msg.UserID())
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	h.sendBoard(ctx, msg.Room, h.formatter.Caption(chesspresenter.FromUpdate(u)), u)
}

func (h *Handler) history(ctx context.Context, msg *irisfast.Message, cmd Command) {
	if !h.mgr.HasHistory() {
		h.reply(ctx, msg.Room, h.formatter.HistoryUnavailable())
		return
	}
	uid := msg.UserID()
	results, err := h.mgr.History(ctx, uid, historyLimit(cmd.Args, h.opts.HistoryLimit))
	if err != nil {
		h.fail(ctx, msg, err)
		return
	}
	h.reply(ctx, msg.Room, h.formatter.History(msg.SenderName(), chesspresenter.ToGameRecords(uid, results)))
}

// sendBoard sends text and, when present, the rendered board.
func (h *Handler) sendBoard(ctx context.Context, room, text string, u *pvpchess.Update) {
	if err := h.presenter.Board(ctx, room, text, chesspresenter.FromUpdate(u)); err != nil {
		obslog.L().Warn("bot_reply_error", zap.String("room", room), zap.Error(err))
	}
}

func (h *Handler) fail(ctx context.Context, msg *irisfast.Message, err error) {
	de := chesspresenter.ToDomainError(err, msg.UserID())
	if de.Code == "error.internal" {
		obslog.L().Error("bot_command_error", zap.String("room", msg.Room), zap.String("user_id", msg.UserID()), zap.Error(err))
	}
	h.reply(ctx, msg.Room, h.formatter.Error(de))
}

func (h *Handler) reply(ctx context.Context, room, text string) {
	if err := h.presenter.Text(ctx, room, text); err != nil {
		obslog.L().Warn("bot_reply_error", zap.String("room", room), zap.Error(err))
	}
}
