package storage

import (
	"context"
	"fmt"
	"net"

	"redis_walkthrough/src/model"

	"github.com/redis/go-redis/v9"
)

// RedisStorage owns the single store connection of a walkthrough run
type RedisStorage struct {
	client *redis.Client
}

// Options builds go-redis options from config. REDIS_URL takes precedence
// over the discrete host/port/credential fields.
func Options(cfg model.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	// RediSearch replies are only parsed into typed results over RESP2.
	opts.Protocol = 2
	return opts, nil
}

// NewRedisStorage connects to the store and verifies the connection
func NewRedisStorage(ctx context.Context, cfg model.RedisConfig) (*RedisStorage, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	return &RedisStorage{client: client}, nil
}

// Client returns the underlying client for walkthrough steps
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

// Addr reports the address the client is connected to
func (r *RedisStorage) Addr() string {
	return r.client.Options().Addr
}

// Ping tests Redis connection
func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisStorage) Close() error {
	return r.client.Close()
}
