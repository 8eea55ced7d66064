package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/park285/chessduel/internal/domain"
	"github.com/park285/chessduel/internal/obslog"
)

const schemaDDL = `CREATE TABLE IF NOT EXISTS pvp_games (
    game_id     TEXT PRIMARY KEY,
    room        TEXT NOT NULL DEFAULT '',
    white_id    TEXT NOT NULL,
    white_name  TEXT NOT NULL DEFAULT '',
    black_id    TEXT NOT NULL,
    black_name  TEXT NOT NULL DEFAULT '',
    result      TEXT NOT NULL,
    termination TEXT NOT NULL DEFAULT '',
    winner_id   TEXT NOT NULL DEFAULT '',
    moves_uci   JSONB NOT NULL DEFAULT '[]',
    moves_san   JSONB NOT NULL DEFAULT '[]',
    pgn         TEXT NOT NULL DEFAULT '',
    started_at  TIMESTAMPTZ NOT NULL,
    ended_at    TIMESTAMPTZ NOT NULL,
    duration_ms BIGINT NOT NULL DEFAULT 0
)`

// Repository persists finished games to PostgreSQL.
type Repository struct {
	db *sql.DB
}

func NewRepository(ctx context.Context, databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(pingCtx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveResult upserts a finished game keyed by game id.
func (r *Repository) SaveResult(ctx context.Context, res domain.GameResult) error {
	if r == nil || r.db == nil {
		return nil
	}
	movesUCI, err := json.Marshal(res.MovesUCI)
	if err != nil {
		return err
	}
	movesSAN, err := json.Marshal(res.MovesSAN)
	if err != nil {
		return err
	}

	const q = `INSERT INTO pvp_games (
        game_id, room, white_id, white_name, black_id, black_name,
        result, termination, winner_id, moves_uci, moves_san, pgn,
        started_at, ended_at, duration_ms
      ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
      ON CONFLICT (game_id) DO UPDATE SET
        result=EXCLUDED.result,
        termination=EXCLUDED.termination,
        winner_id=EXCLUDED.winner_id,
        moves_uci=EXCLUDED.moves_uci,
        moves_san=EXCLUDED.moves_san,
        pgn=EXCLUDED.pgn,
        ended_at=EXCLUDED.ended_at,
        duration_ms=EXCLUDED.duration_ms`

	_, err = r.db.ExecContext(ctx, q,
		res.GameID, res.Room,
		res.WhiteID, res.WhiteName,
		res.BlackID, res.BlackName,
		res.Result, res.Termination, res.WinnerID,
		string(movesUCI), string(movesSAN), BuildPGN(res),
		res.StartedAt, res.EndedAt, res.Duration().Milliseconds(),
	)
	return err
}

// Recent returns the participant's latest games, newest first.
func (r *Repository) Recent(ctx context.Context, participant string, limit int) ([]domain.GameResult, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	const q = `SELECT game_id, room, white_id, white_name, black_id, black_name,
        result, termination, winner_id, moves_uci, moves_san, started_at, ended_at
      FROM pvp_games WHERE white_id = $1 OR black_id = $1
      ORDER BY ended_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, participant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GameResult
	for rows.Next() {
		var (
			res                domain.GameResult
			movesUCI, movesSAN []byte
		)
		if err := rows.Scan(&res.GameID, &res.Room, &res.WhiteID, &res.WhiteName, &res.BlackID, &res.BlackName,
			&res.Result, &res.Termination, &res.WinnerID, &movesUCI, &movesSAN, &res.StartedAt, &res.EndedAt); err != nil {
			return nil, err
		}
		res.MovesUCI = decodeMoves(res.GameID, "moves_uci", movesUCI)
		res.MovesSAN = decodeMoves(res.GameID, "moves_san", movesSAN)
		out = append(out, res)
	}
	return out, rows.Err()
}

// decodeMoves reads a JSONB move array. A corrupt column is logged and read as empty
// so the rest of the history stays visible.
func decodeMoves(gameID, column string, raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var moves []string
	if err := json.Unmarshal(raw, &moves); err != nil {
		obslog.L().Warn("pvp_history_decode_error",
			zap.String("game_id", gameID),
			zap.String("column", column),
			zap.Error(err),
		)
		return nil
	}
	return moves
}
