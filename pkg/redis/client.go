package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds Redis client configuration
type Config struct {
	Enabled      bool
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

// Client wraps go-redis. A disabled client is valid and every operation
// on it reports ErrDisabled, so callers can degrade instead of branching
// on nil.
type Client struct {
	rdb     *redis.Client
	enabled bool
	logger  *zap.Logger
}

// ErrDisabled is returned for operations on a disabled client.
var ErrDisabled = fmt.Errorf("redis client is disabled")

// NewClient creates a Redis client. When cfg.Enabled is false, or the
// initial ping fails, the returned client is disabled rather than nil.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if !cfg.Enabled {
		return &Client{enabled: false, logger: logger}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, continuing without it",
			zap.String("address", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
			zap.Error(err),
		)
		_ = rdb.Close()
		return &Client{enabled: false, logger: logger}
	}

	logger.Info("Successfully connected to Redis",
		zap.String("address", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("database", cfg.DB),
	)

	return &Client{rdb: rdb, enabled: true, logger: logger}
}

// IsEnabled reports whether the client has a live connection
func (c *Client) IsEnabled() bool {
	return c != nil && c.enabled
}

func (c *Client) Ping(ctx context.Context) error {
	if !c.IsEnabled() {
		return ErrDisabled
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if !c.IsEnabled() {
		return nil
	}
	return c.rdb.Close()
}

// IncrWindow increments a fixed-window counter and returns the new count
// together with the remaining window. The expiry is attached on the first
// increment so the window starts at the first request.
func (c *Client) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if !c.IsEnabled() {
		return 0, 0, ErrDisabled
	}

	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			c.logger.Warn("Failed to set rate limit window expiry",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	ttl, err := c.rdb.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}

	return count, ttl, nil
}
