package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis is a remote Backend that keeps each payload in a namespaced string
// key.
type Redis struct {
	client    *redis.Client
	namespace string
	timeout   time.Duration
}

// NewRedis wraps an existing client. Keys are written as
// "<namespace>:<key>"; an empty namespace writes bare keys.
func NewRedis(client *redis.Client, namespace string, timeout time.Duration) *Redis {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Redis{client: client, namespace: namespace, timeout: timeout}
}

// DialRedis parses a redis:// URL and creates a backend for it. The
// connection is established lazily.
func DialRedis(url, namespace string, timeout time.Duration) (*Redis, error) {
	if url == "" {
		return nil, fmt.Errorf("redis URL is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return NewRedis(redis.NewClient(opt), namespace, timeout), nil
}

func (r *Redis) Name() string { return "redis" }

// Available pings the server within the configured timeout.
func (r *Redis) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.client.Ping(ctx).Err() == nil
}

func (r *Redis) Load(ctx context.Context, key string) ([]byte, error) {
	payload, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return payload, nil
}

func (r *Redis) Save(ctx context.Context, key string, payload []byte) error {
	if err := r.client.Set(ctx, r.key(key), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Close releases the client's connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(k string) string {
	if r.namespace == "" {
		return k
	}
	return r.namespace + ":" + k
}
