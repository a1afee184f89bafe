package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/archassist/archgames-backend/internal/logger"
	"github.com/archassist/archgames-backend/internal/types"
)

const (
	sessionKeyPrefix  = "logicgame:session:"
	answeredKeyPrefix = "logicgame:answered:"
)

// RedisStore keeps sessions as JSON blobs with a TTL, so expiry needs no
// sweep. The answered transition is guarded by a SetNX marker key: exactly
// one submitter acquires it and writes the result; the rest read the stored
// session back.
type RedisStore struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisStore(log *logger.Logger, ttl time.Duration) (*RedisStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{
		log: log.With("store", "RedisStore"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (r *RedisStore) Create(ctx context.Context, session *types.GameSession) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session must have an id")
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ok, err := r.rdb.SetNX(ctx, sessionKeyPrefix+session.ID, raw, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*types.GameSession, error) {
	raw, err := r.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var s types.GameSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) RecordAnswer(ctx context.Context, id string, answer interface{}, result types.EvaluationResult) (*types.GameSession, bool, error) {
	s, err := r.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if s.Answered {
		return s, false, nil
	}

	won, err := r.rdb.SetNX(ctx, answeredKeyPrefix+id, "1", r.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire answered marker: %w", err)
	}
	if !won {
		return r.awaitRecordedResult(ctx, id)
	}

	now := time.Now().UTC()
	s.Answered = true
	s.UserAnswer = answer
	s.Result = &result
	s.AnsweredAt = &now

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, false, fmt.Errorf("marshal answered session: %w", err)
	}
	if err := r.rdb.Set(ctx, sessionKeyPrefix+id, raw, goredis.KeepTTL).Err(); err != nil {
		return nil, false, fmt.Errorf("store answered session: %w", err)
	}
	return s, true, nil
}

// awaitRecordedResult handles the narrow race where another submitter holds
// the answered marker but has not finished writing the session yet.
func (r *RedisStore) awaitRecordedResult(ctx context.Context, id string) (*types.GameSession, bool, error) {
	for attempt := 0; attempt < 20; attempt++ {
		s, err := r.Get(ctx, id)
		if err != nil {
			return nil, false, err
		}
		if s.Answered {
			return s, false, nil
		}
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(25 * time.Millisecond):
		}
	}
	return nil, false, fmt.Errorf("session %s: answer still being recorded", id)
}

// Sweep is a no-op: redis expires sessions through key TTLs.
func (r *RedisStore) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	return 0, nil
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
