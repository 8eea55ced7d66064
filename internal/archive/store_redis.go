package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/park285/chessduel/internal/domain"
)

const (
	defaultResultTTL    = 30 * 24 * time.Hour
	defaultHistoryLimit = 20
)

// RedisStore keeps finished games and a capped per-participant history list.
type RedisStore struct {
	rdb   *redis.Client
	ttl   time.Duration
	limit int
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration, limit int) *RedisStore {
	if ttl <= 0 {
		ttl = defaultResultTTL
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &RedisStore{rdb: rdb, ttl: ttl, limit: limit}
}

func (s *RedisStore) keyResult(id string) string { return "duel:result:" + strings.TrimSpace(id) }
func (s *RedisStore) keyHistory(user string) string { return "duel:history:" + strings.TrimSpace(user) }

// SaveResult stores the result and prepends it to both players' history.
func (s *RedisStore) SaveResult(ctx context.Context, r domain.GameResult) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	if strings.TrimSpace(r.GameID) == "" {
		return fmt.Errorf("archive: result without game id")
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.keyResult(r.GameID), raw, s.ttl)
	for _, user := range []string{r.WhiteID, r.BlackID} {
		if strings.TrimSpace(user) == "" {
			continue
		}
		k := s.keyHistory(user)
		pipe.LPush(ctx, k, r.GameID)
		pipe.LTrim(ctx, k, 0, int64(s.limit-1))
		pipe.Expire(ctx, k, s.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Load returns a stored result or nil when it expired or never existed.
func (s *RedisStore) Load(ctx context.Context, id string) (*domain.GameResult, error) {
	raw, err := s.rdb.Get(ctx, s.keyResult(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var r domain.GameResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Recent returns up to limit results for the participant, newest first. Entries
// whose result key expired are skipped.
func (s *RedisStore) Recent(ctx context.Context, participant string, limit int) ([]domain.GameResult, error) {
	if s == nil || s.rdb == nil {
		return nil, nil
	}
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	ids, err := s.rdb.LRange(ctx, s.keyHistory(participant), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.GameResult, 0, len(ids))
	for _, id := range ids {
		r, err := s.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		if r == nil {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}
