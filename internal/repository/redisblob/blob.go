// Package redisblob stores the serialized pending-dose list under a single
// redis key. The whole value is read and rewritten on every tracker mutation;
// redis only sees an opaque string.
package redisblob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKey = "dosewatch:pending_doses"

type Config struct {
	URL string
	Key string
}

type Store struct {
	client *redis.Client
	key    string
}

func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = defaultKey
	}

	return &Store{client: client, key: key}, nil
}

// Read returns the current blob, or "" when the key has never been written.
func (s *Store) Read(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read pending blob: %w", err)
	}
	return val, nil
}

func (s *Store) Write(ctx context.Context, data string) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write pending blob: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// WaitReady blocks until redis answers a ping or the timeout passes. Used by
// the worker at startup so a racing redis container does not fail the pass.
func (s *Store) WaitReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if err := s.client.Ping(ctx).Err(); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("redis not ready after %v", timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}
