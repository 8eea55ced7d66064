package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/park285/chessduel/internal/adapter/chesspresenter"
	"github.com/park285/chessduel/internal/archive"
	"github.com/park285/chessduel/internal/bot"
	appcfg "github.com/park285/chessduel/internal/config"
	"github.com/park285/chessduel/internal/irisfast"
	"github.com/park285/chessduel/internal/msgcat"
	"github.com/park285/chessduel/internal/obslog"
	"github.com/park285/chessduel/internal/pvpchess"
	"github.com/park285/chessduel/internal/render"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	closeLog, err := obslog.InitFromEnv()
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	if err := run(cfg); err != nil {
		obslog.L().Error("shutdown_error", zap.Error(err))
		_ = closeLog()
		os.Exit(1)
	}
	_ = closeLog()
}

func run(cfg *appcfg.AppConfig) error {
	ctx := context.Background()
	var closers []func() error

	cat, err := msgcat.New(cfg.MsgOverrideDir)
	if err != nil {
		return fmt.Errorf("message catalog: %w", err)
	}

	mgr := pvpchess.NewManager(pvpchess.NewRegistry(), render.NewSVGBoardRenderer())
	mgr.FlipForBlack(cfg.RenderFlipForBlack)

	if cfg.RedisURL != "" {
		rdb, err := archive.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		closers = append(closers, rdb.Close)
		store := archive.NewRedisStore(rdb, cfg.ResultTTL, cfg.HistoryLimit)
		mgr.AttachSink(store)
		mgr.AttachHistory(store)
		obslog.L().Info("archive_redis_enabled", zap.Duration("ttl", cfg.ResultTTL))
	}
	if cfg.DatabaseURL != "" {
		repo, err := archive.NewRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		closers = append(closers, repo.Close)
		mgr.AttachSink(repo)
		if !mgr.HasHistory() {
			mgr.AttachHistory(repo)
		}
		obslog.L().Info("archive_postgres_enabled")
	}

	client := irisfast.NewClient(cfg.IrisBaseURL, irisfast.WithHeaderProvider(cfg.Headers))
	ws := irisfast.NewWebSocket(cfg.IrisWSURL, 5, time.Second)
	ws.SetHeaderProvider(cfg.Headers)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		obslog.L().Info("ws_state", zap.String("state", state.String()))
	})

	egress := irisfast.NewEgress(cfg.EgressMode, cfg.EgressDryRun, client, ws, obslog.L())
	handler := bot.NewHandler(bot.Options{
		Prefix:       cfg.BotPrefix,
		HistoryLimit: cfg.HistoryLimit,
		RoomAllowed:  cfg.RoomAllowed,
	}, mgr,
		chesspresenter.NewFormatter(cat, chesspresenter.StaticPrefix(cfg.BotPrefix)),
		chesspresenter.NewPresenter(egress),
	)

	// Commands run off the read loop; per-game ordering is enforced by the registry.
	ws.OnMessage(func(msg *irisfast.Message) {
		if msg == nil || msg.Msg == "" {
			return
		}
		go handler.OnMessage(msg)
	})

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = ws.Connect(cctx)
	cancel()
	if err != nil {
		return multierror.Append(fmt.Errorf("ws connect: %w", err), closeAll(closers)).ErrorOrNil()
	}
	obslog.L().Info("bot_started", zap.String("prefix", cfg.BotPrefix), zap.String("egress", cfg.EgressMode))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	obslog.L().Info("bot_stopping", zap.String("signal", sig.String()), zap.Int("live_games", mgr.Registry().Len()))

	sctx, scancel := context.WithTimeout(ctx, 10*time.Second)
	defer scancel()
	var result *multierror.Error
	if err := ws.Close(sctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("ws close: %w", err))
	}
	if err := closeAll(closers); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func closeAll(closers []func() error) error {
	var result *multierror.Error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
