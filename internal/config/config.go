package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

type AppConfig struct {
	IrisBaseURL string
	IrisWSURL   string

	BotPrefix string

	XUserID    string
	XUserEmail string
	XSessionID string

	EgressMode   string
	EgressDryRun bool

	RedisURL    string
	DatabaseURL string

	HistoryLimit int
	ResultTTL    time.Duration

	AllowedRooms   []string
	MsgOverrideDir string

	RenderFlipForBlack bool
}

var ErrRequired = errors.New("required setting missing")

// Load reads the environment. Every problem is reported, not just the first.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		BotPrefix:    "!",
		EgressMode:   "http",
		HistoryLimit: 10,
		ResultTTL:    30 * 24 * time.Hour,
	}
	var errs *multierror.Error

	cfg.IrisBaseURL = env("IRIS_BASE_URL")
	cfg.IrisWSURL = env("IRIS_WS_URL")
	if v := env("BOT_PREFIX"); v != "" {
		cfg.BotPrefix = v
	}

	cfg.XUserID = env("X_USER_ID")
	cfg.XUserEmail = env("X_USER_EMAIL")
	cfg.XSessionID = env("X_SESSION_ID")

	if v := strings.ToLower(env("EGRESS_MODE")); v != "" {
		switch v {
		case "http", "ws", "auto":
			cfg.EgressMode = v
		default:
			errs = multierror.Append(errs, fmt.Errorf("EGRESS_MODE: unknown mode %q", v))
		}
	}
	if v := env("EGRESS_DRYRUN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("EGRESS_DRYRUN: %w", err))
		}
		cfg.EgressDryRun = b
	}

	cfg.RedisURL = env("REDIS_URL")
	cfg.DatabaseURL = env("DATABASE_URL")

	if v := env("HISTORY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errs = multierror.Append(errs, fmt.Errorf("HISTORY_LIMIT: want positive integer, got %q", v))
		} else {
			cfg.HistoryLimit = n
		}
	}
	if v := env("RESULT_TTL_HOURS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errs = multierror.Append(errs, fmt.Errorf("RESULT_TTL_HOURS: want positive integer, got %q", v))
		} else {
			cfg.ResultTTL = time.Duration(n) * time.Hour
		}
	}

	cfg.AllowedRooms = splitList(env("ALLOWED_ROOMS"))
	cfg.MsgOverrideDir = env("MSG_OVERRIDE_DIR")

	if v := env("RENDER_FLIP_FOR_BLACK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("RENDER_FLIP_FOR_BLACK: %w", err))
		}
		cfg.RenderFlipForBlack = b
	}

	if cfg.IrisBaseURL == "" {
		errs = multierror.Append(errs, fmt.Errorf("IRIS_BASE_URL: %w", ErrRequired))
	}
	if cfg.IrisWSURL == "" {
		errs = multierror.Append(errs, fmt.Errorf("IRIS_WS_URL: %w", ErrRequired))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RoomAllowed reports whether the bot answers in room. An empty allow list allows all rooms.
func (c *AppConfig) RoomAllowed(room string) bool {
	if c == nil || len(c.AllowedRooms) == 0 {
		return true
	}
	room = strings.TrimSpace(room)
	for _, r := range c.AllowedRooms {
		if r == room {
			return true
		}
	}
	return false
}

// Headers are the identity headers sent to the bridge on every request.
func (c *AppConfig) Headers() map[string]string {
	h := map[string]string{}
	if c == nil {
		return h
	}
	if c.XUserID != "" {
		h["X-User-ID"] = c.XUserID
	}
	if c.XUserEmail != "" {
		h["X-User-Email"] = c.XUserEmail
	}
	if c.XSessionID != "" {
		h["X-Session-ID"] = c.XSessionID
	}
	return h
}

func env(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
