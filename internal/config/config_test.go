package config

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("IRIS_BASE_URL", "http://iris:3000")
	t.Setenv("IRIS_WS_URL", "ws://iris:3000/ws")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &AppConfig{
		IrisBaseURL:  "http://iris:3000",
		IrisWSURL:    "ws://iris:3000/ws",
		BotPrefix:    "!",
		EgressMode:   "http",
		HistoryLimit: 10,
		ResultTTL:    30 * 24 * time.Hour,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
	if !cfg.RoomAllowed("anything") {
		t.Fatalf("empty allow list should allow all rooms")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("BOT_PREFIX", "/")
	t.Setenv("EGRESS_MODE", "AUTO")
	t.Setenv("HISTORY_LIMIT", "5")
	t.Setenv("RESULT_TTL_HOURS", "2")
	t.Setenv("ALLOWED_ROOMS", " room-a, ,room-b ")
	t.Setenv("RENDER_FLIP_FOR_BLACK", "true")
	t.Setenv("X_USER_ID", "bot")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BotPrefix != "/" || cfg.EgressMode != "auto" || cfg.HistoryLimit != 5 || cfg.ResultTTL != 2*time.Hour || !cfg.RenderFlipForBlack {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"room-a", "room-b"}, cfg.AllowedRooms); diff != "" {
		t.Fatalf("rooms (-want +got):\n%s", diff)
	}
	if !cfg.RoomAllowed("room-b") || cfg.RoomAllowed("room-c") {
		t.Fatalf("RoomAllowed mismatch")
	}
	if diff := cmp.Diff(map[string]string{"X-User-ID": "bot"}, cfg.Headers()); diff != "" {
		t.Fatalf("headers (-want +got):\n%s", diff)
	}
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	t.Setenv("IRIS_BASE_URL", "")
	t.Setenv("IRIS_WS_URL", "")
	t.Setenv("EGRESS_MODE", "carrier-pigeon")
	t.Setenv("HISTORY_LIMIT", "-1")

	_, err := Load()
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("expected multierror, got %v", err)
	}
	if len(merr.Errors) != 4 {
		t.Fatalf("expected 4 problems, got %d: %v", len(merr.Errors), err)
	}
	if !errors.Is(err, ErrRequired) {
		t.Fatalf("missing required settings should wrap ErrRequired")
	}
}
