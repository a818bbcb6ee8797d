package storage

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxConnectRetries = 5
	connectRetryWait  = 2 * time.Second
)

// RedisStore persists blobs in Redis. A maxmemory rejection maps to
// ErrCapacityExceeded so the archive can shrink and retry.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects with bounded retries, matching the startup
// behavior expected under container orchestration where Redis may come up
// after the service.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	for attempt := 1; attempt <= maxConnectRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			log.Println("redis store connected")
			return &RedisStore{rdb: rdb}, nil
		}

		log.Printf("redis connection attempt %d/%d failed: %v", attempt, maxConnectRetries, err)
		if attempt < maxConnectRetries {
			select {
			case <-time.After(connectRetryWait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("redis connection failed after %d attempts: %w", maxConnectRetries, err)
}

func (s *RedisStore) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *RedisStore) Write(ctx context.Context, key string, data []byte) error {
	err := s.rdb.Set(ctx, key, data, 0).Err()
	if err != nil && isOOM(err) {
		return ErrCapacityExceeded
	}
	return err
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// isOOM detects the maxmemory rejection Redis raises when writes exceed
// its configured limit ("OOM command not allowed...").
func isOOM(err error) bool {
	return strings.HasPrefix(strings.TrimSpace(err.Error()), "OOM")
}
