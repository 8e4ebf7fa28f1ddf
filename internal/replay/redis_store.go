package replay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func replayKey(id string) string { return "replay:" + id }

// RedisStore keeps encoded replays under replay:<id>. A zero ttl keeps them
// forever.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to redisURL and pings it.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

// NewRedisStoreFromClient wraps an existing client, mainly for tests.
func NewRedisStoreFromClient(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Save writes the encoded replay with the store's TTL
func (s *RedisStore) Save(ctx context.Context, r *Replay) error {
	data, err := marshal(r)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, replayKey(r.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save replay %s: %w", r.ID, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Replay, error) {
	data, err := s.rdb.Get(ctx, replayKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", id, ErrReplayNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load replay %s: %w", id, err)
	}
	return unmarshal(data)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.rdb.Del(ctx, replayKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete replay %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrReplayNotFound)
	}
	return nil
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
