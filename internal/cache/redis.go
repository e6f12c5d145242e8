package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/chuyenmonc1nhuhan/nls/config"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	KeyNlsCompetency = "nls:competency:all"
)

type Redis struct {
	client redis.UniversalClient
}

func Initialize(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	opts := &redis.UniversalOptions{
		Addrs:           []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolTimeout:     cfg.PoolTimeout,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}
	if cfg.Mode == "cluster" {
		opts.Addrs = cfg.Cluster.Addr
		opts.Password = cfg.Cluster.Password
		opts.DB = 0
	}
	client := redis.NewUniversalClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "redis ping")
	}
	return &Redis{client: client}, nil
}

func (r *Redis) UniversalClient() redis.UniversalClient {
	return r.client
}

type GetRedisFunc func(ctx context.Context, key string) (string, error)

// GetRedis returns "" with a nil error on a cache miss.
func GetRedis(cmd redis.UniversalClient) GetRedisFunc {
	return func(ctx context.Context, key string) (string, error) {
		val, err := cmd.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		if err != nil {
			return "", errors.Wrapf(err, "redis get %s", key)
		}
		return val, nil
	}
}

type SetRedisFunc func(ctx context.Context, key string, value interface{}, ttl time.Duration) error

func SetRedis(cmd redis.UniversalClient) SetRedisFunc {
	return func(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
		if err := cmd.Set(ctx, key, value, ttl).Err(); err != nil {
			return errors.Wrapf(err, "redis set %s", key)
		}
		return nil
	}
}
