package pvpchess

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/chessduel/internal/domain"
	"github.com/park285/chessduel/internal/obslog"
	"github.com/park285/chessduel/internal/render"
)

// ResultSink receives finished games.
type ResultSink interface {
	SaveResult(ctx context.Context, r domain.GameResult) error
}

// HistorySource lists a participant's finished games, newest first.
type HistorySource interface {
	Recent(ctx context.Context, participant string, limit int) ([]domain.GameResult, error)
}

// Update is what a command produced. Image is nil when rendering was not requested
// or failed; the game state change stands either way.
type Update struct {
	View  *View
	Move  *MoveResult
	Draw  DrawResult
	Image []byte
}

// Manager runs chat commands against the registry. Session mutation happens while
// the session is checked out; rendering, archiving and logging happen after checkin.
type Manager struct {
	reg          *Registry
	renderer     render.BoardRenderer
	sinks        []ResultSink
	history      HistorySource
	flipForBlack bool
}

func NewManager(reg *Registry, renderer render.BoardRenderer) *Manager {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Manager{reg: reg, renderer: renderer}
}

// AttachSink adds a destination for finished games.
func (m *Manager) AttachSink(s ResultSink) {
	if m != nil && s != nil {
		m.sinks = append(m.sinks, s)
	}
}

// AttachHistory sets where History reads from.
func (m *Manager) AttachHistory(h HistorySource) {
	if m != nil {
		m.history = h
	}
}

// FlipForBlack renders the board from black's side when black is to move.
func (m *Manager) FlipForBlack(on bool) {
	if m != nil {
		m.flipForBlack = on
	}
}

func (m *Manager) Registry() *Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Start opens a game and renders the initial board.
func (m *Manager) Start(ctx context.Context, req StartRequest) (*Update, error) {
	if m == nil || m.reg == nil {
		return nil, ErrNotInitialized
	}
	v, err := m.reg.StartSession(req)
	if err != nil {
		return nil, err
	}
	obslog.L().Info("pvp_game_create",
		zap.String("game_id", v.ID),
		zap.String("room", v.Room),
		zap.String("white_id", v.White.ID),
		zap.String("black_id", v.Black.ID),
		zap.String("preferred", string(req.Preferred)),
	)
	u := &Update{View: v}
	u.Image = m.render(ctx, RenderRequest{
		SessionID: v.ID,
		FEN:       v.FEN,
		Header:    fmt.Sprintf("%s vs %s", v.White.Label(), v.Black.Label()),
		Turn:      v.Turn,
	}, v)
	return u, nil
}

// PlayMove applies a move string for userID.
func (m *Manager) PlayMove(ctx context.Context, userID, raw string) (*Update, error) {
	if m == nil || m.reg == nil {
		return nil, ErrNotInitialized
	}
	userID = strings.TrimSpace(userID)
	var (
		res    *MoveResult
		view   *View
		result domain.GameResult
		final  bool
	)
	err := m.reg.WithSession(userID, func(s *Session) error {
		r, err := s.AttemptMove(userID, strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		res = r
		view = s.Snapshot()
		result, final = s.Result()
		return nil
	})
	if err != nil {
		obslog.L().Debug("pvp_move_rejected", zap.String("user_id", userID), zap.String("input", raw), zap.Error(err))
		return nil, err
	}

	obslog.L().Info("pvp_move",
		zap.String("game_id", view.ID),
		zap.String("user_id", userID),
		zap.String("uci", res.Move.UCI()),
		zap.String("san", res.SAN),
		zap.String("turn", string(view.Turn)),
		zap.String("status", string(view.Status)),
		zap.String("reason", string(view.Reason)),
	)
	u := &Update{View: view, Move: res}
	u.Image = m.render(ctx, res.Render, view)
	if final {
		m.archive(ctx, result)
	}
	return u, nil
}

// OfferDraw offers or accepts a draw for userID.
func (m *Manager) OfferDraw(ctx context.Context, userID string) (*Update, error) {
	if m == nil || m.reg == nil {
		return nil, ErrNotInitialized
	}
	userID = strings.TrimSpace(userID)
	var (
		dr     DrawResult
		view   *View
		result domain.GameResult
		final  bool
	)
	err := m.reg.WithSession(userID, func(s *Session) error {
		r, err := s.OfferDraw(userID)
		if err != nil {
			return err
		}
		dr = r
		view = s.Snapshot()
		result, final = s.Result()
		return nil
	})
	if err != nil {
		return nil, err
	}
	obslog.L().Info("pvp_draw",
		zap.String("game_id", view.ID),
		zap.String("user_id", userID),
		zap.Int("result", int(dr)),
	)
	if final {
		m.archive(ctx, result)
	}
	return &Update{View: view, Draw: dr}, nil
}

// Resign ends userID's game in the opponent's favour.
func (m *Manager) Resign(ctx context.Context, userID string) (*Update, error) {
	if m == nil || m.reg == nil {
		return nil, ErrNotInitialized
	}
	userID = strings.TrimSpace(userID)
	var (
		view   *View
		result domain.GameResult
	)
	err := m.reg.WithSession(userID, func(s *Session) error {
		if err := s.Resign(userID); err != nil {
			return err
		}
		view = s.Snapshot()
		result, _ = s.Result()
		return nil
	})
	if err != nil {
		return nil, err
	}
	obslog.L().Info("pvp_resign",
		zap.String("game_id", view.ID),
		zap.String("resigner", userID),
		zap.String("winner", view.Winner),
	)
	m.archive(ctx, result)
	return &Update{View: view}, nil
}

// Board re-renders userID's current game.
func (m *Manager) Board(ctx context.Context, userID string) (*Update, error) {
	if m == nil || m.reg == nil {
		return nil, ErrNotInitialized
	}
	var (
		view *View
		req  RenderRequest
	)
	err := m.reg.WithSession(strings.TrimSpace(userID), func(s *Session) error {
		view = s.Snapshot()
		req = s.RenderRequest()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Update{View: view, Image: m.render(ctx, req, view)}, nil
}

// HasHistory reports whether finished games can be listed.
func (m *Manager) HasHistory() bool {
	return m != nil && m.history != nil
}

// History lists userID's finished games.
func (m *Manager) History(ctx context.Context, userID string, limit int) ([]domain.GameResult, error) {
	if m == nil || m.history == nil {
		return nil, nil
	}
	return m.history.Recent(ctx, strings.TrimSpace(userID), limit)
}

func (m *Manager) render(ctx context.Context, req RenderRequest, v *View) []byte {
	if m.renderer == nil {
		return nil
	}
	board, err := render.BoardFromFEN(req.FEN)
	if err != nil {
		obslog.L().Error("pvp_render_error", zap.String("game_id", req.SessionID), zap.Error(err))
		return nil
	}
	opts := render.Options{
		Header: req.Header,
		Turn:   hudTurn(req.Turn, req.MoveCount),
		Status: hudStatus(v),
		Flip:   m.flipForBlack && req.Turn == Black,
	}
	if req.LastFrom != nil && req.LastTo != nil {
		opts.Highlight = &render.MoveHighlight{From: toEngineSquare(*req.LastFrom), To: toEngineSquare(*req.LastTo)}
	}
	png, err := m.renderer.RenderPNG(ctx, board, opts)
	if err != nil {
		obslog.L().Error("pvp_render_error", zap.String("game_id", req.SessionID), zap.Error(err))
		return nil
	}
	return png
}

func (m *Manager) archive(ctx context.Context, r domain.GameResult) {
	for _, s := range m.sinks {
		if err := s.SaveResult(ctx, r); err != nil {
			obslog.L().Error("pvp_result_persist_error", zap.String("game_id", r.GameID), zap.String("result", r.Result), zap.Error(err))
			continue
		}
		obslog.L().Info("pvp_result_persist", zap.String("game_id", r.GameID), zap.String("result", r.Result), zap.String("termination", r.Termination))
	}
}

func hudTurn(turn Color, moveCount int) string {
	n := moveCount/2 + 1
	if turn == Black {
		return fmt.Sprintf("Black to move - %d", n)
	}
	return fmt.Sprintf("White to move - %d", n)
}

func hudStatus(v *View) string {
	if v == nil {
		return ""
	}
	switch v.Status {
	case StatusConcluded:
		return strings.ReplaceAll(string(v.Reason), "_", " ")
	case StatusDrawOffered:
		return "draw offered"
	}
	if v.Check {
		return "check"
	}
	return ""
}
