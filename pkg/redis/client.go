package redis

import (
	"context"
	"time"

	v9 "github.com/redis/go-redis/v9"

	"github.com/kerwei/orderbook/pkg/errors"
	"github.com/kerwei/orderbook/pkg/logger"
)

type client struct {
	logger *logger.Logger
	config *Config
	rdb    *v9.Client
}

// NewClient creates a new Redis client with the provided logger and
// configuration.
func NewClient(logger *logger.Logger, config *Config) Client {
	return &client{
		logger: logger,
		config: config,
	}
}

func (c *client) Connect(ctx context.Context) error {
	if c.config == nil {
		return errors.NewTracerWithCode(errors.RedisConfigError, "redis config is nil")
	}
	if c.config.Addr == "" {
		return errors.NewTracerWithCode(errors.RedisConfigError, "redis address is empty")
	}
	if c.config.ConnectTimeout <= 0 {
		return errors.NewTracerWithCode(errors.RedisConfigError, "invalid redis connect timeout")
	}
	if c.config.PoolSize <= 0 {
		return errors.NewTracerWithCode(errors.RedisConfigError, "invalid redis pool size")
	}

	c.rdb = v9.NewClient(&v9.Options{
		Addr:            c.config.Addr,
		Username:        c.config.Username,
		Password:        c.config.Password,
		DB:              c.config.DB,
		MaxRetries:      c.config.MaxRetries,
		MinRetryBackoff: c.config.MinRetryBackoff,
		MaxRetryBackoff: c.config.MaxRetryBackoff,
		DialTimeout:     c.config.ConnectTimeout,
		ReadTimeout:     c.config.ConnectTimeout,
		WriteTimeout:    c.config.ConnectTimeout,
		PoolSize:        c.config.PoolSize,
		PoolTimeout:     c.config.PoolTimeout,
	})

	if err := c.Ping(ctx); err != nil {
		return errors.NewTracerWithCode(errors.RedisConnectionError, "failed to connect to redis").Wrap(err)
	}

	c.logger.InfoContext(ctx, "connected to redis", logger.Field{
		Key:   "addr",
		Value: c.config.Addr,
	})

	return nil
}

func (c *client) Disconnect(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}

	if err := c.rdb.Close(); err != nil {
		return errors.NewTracerWithCode(errors.RedisConnectionError, "failed to close redis connection").Wrap(err)
	}
	return nil
}

func (c *client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.NewTracerWithCode(errors.RedisPingError, "failed to ping redis").Wrap(err)
	}
	return nil
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == v9.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.NewTracerWithCode(errors.RedisGetError, "failed to get key").Wrap(err)
	}
	return val, nil
}

func (c *client) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, expiration).Err(); err != nil {
		return errors.NewTracerWithCode(errors.RedisSetError, "failed to set key").Wrap(err)
	}
	return nil
}

func (c *client) Del(ctx context.Context, keys ...string) (int64, error) {
	n, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, errors.NewTracerWithCode(errors.RedisDelError, "failed to delete keys").Wrap(err)
	}
	return n, nil
}
