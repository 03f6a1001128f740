package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client is the minimal cache surface the service needs. A disabled
// client is a valid implementation; every call becomes a no-op miss.
type Client interface {
	IsEnabled() bool
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	Enabled      bool
	PoolSize     int
	MinIdleConns int
}

type redisClient struct {
	rdb    *redis.Client
	logger *zap.Logger
}

type disabledClient struct{}

// NewClient builds a redis-backed client, or a disabled stub when caching
// is turned off so callers never have to nil-check.
func NewClient(cfg Config, logger *zap.Logger) Client {
	if !cfg.Enabled {
		return disabledClient{}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr(cfg),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	client := &redisClient{rdb: rdb, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		logger.Warn("Redis unreachable, continuing without cache",
			zap.String("address", addr(cfg)),
			zap.Error(err),
		)
	} else {
		logger.Info("Connected to Redis",
			zap.String("address", addr(cfg)),
			zap.Int("database", cfg.DB),
		)
	}

	return client
}

func addr(cfg Config) string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

func (c *redisClient) IsEnabled() bool { return true }

func (c *redisClient) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *redisClient) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (c *redisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *redisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *redisClient) Close() error {
	return c.rdb.Close()
}

func (disabledClient) IsEnabled() bool { return false }

func (disabledClient) Ping(context.Context) error { return nil }

func (disabledClient) Close() error { return nil }

func (disabledClient) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (disabledClient) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (disabledClient) Delete(context.Context, ...string) error { return nil }
