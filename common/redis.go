package common

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/go-redis/redis/v8"

	"github.com/evoai/commerce-agent/common/config"
	"github.com/evoai/commerce-agent/common/logger"
)

// RDB is nil unless REDIS_CONN_STRING is configured.
var RDB redis.Cmdable

var redisEnabled atomic.Bool

// ErrRedisDisabled is returned by the helpers when no client has been initialised.
var ErrRedisDisabled = errors.New("redis not initialized")

func IsRedisEnabled() bool {
	return redisEnabled.Load() && RDB != nil
}

func SetRedisEnabled(enabled bool) {
	redisEnabled.Store(enabled)
}

// InitRedisClient connects to REDIS_CONN_STRING when set and leaves Redis disabled otherwise.
func InitRedisClient(ctx context.Context) error {
	if config.RedisConnString == "" {
		SetRedisEnabled(false)
		logger.Logger.Info("REDIS_CONN_STRING not set, Redis is not enabled")
		return nil
	}

	opt, err := redis.ParseURL(config.RedisConnString)
	if err != nil {
		return errors.Wrap(err, "parse Redis connection string")
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return errors.Wrap(err, "redis ping")
	}

	RDB = client
	SetRedisEnabled(true)
	logger.Logger.Info("Redis is enabled", zap.String("addr", opt.Addr), zap.Int("db", opt.DB))
	return nil
}

// CloseRedis releases the client created by InitRedisClient.
func CloseRedis() error {
	client, ok := RDB.(*redis.Client)
	if !ok || client == nil {
		return nil
	}
	SetRedisEnabled(false)
	return errors.WithStack(client.Close())
}

func RedisSet(ctx context.Context, key string, value string, expiration time.Duration) error {
	if !IsRedisEnabled() {
		return ErrRedisDisabled
	}
	if err := RDB.Set(ctx, key, value, expiration).Err(); err != nil {
		return errors.Wrapf(err, "failed to set redis key: %s", key)
	}
	return nil
}

// RedisGet returns redis.Nil (wrapped) when the key does not exist.
func RedisGet(ctx context.Context, key string) (string, error) {
	if !IsRedisEnabled() {
		return "", ErrRedisDisabled
	}
	val, err := RDB.Get(ctx, key).Result()
	if err != nil {
		return "", errors.Wrapf(err, "failed to get redis key: %s", key)
	}
	return val, nil
}

func RedisDel(ctx context.Context, key string) error {
	if !IsRedisEnabled() {
		return ErrRedisDisabled
	}
	if err := RDB.Del(ctx, key).Err(); err != nil {
		return errors.Wrapf(err, "failed to delete redis key: %s", key)
	}
	return nil
}

// RedisIncr bumps a counter and sets its expiry on first creation.
func RedisIncr(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	if !IsRedisEnabled() {
		return 0, ErrRedisDisabled
	}
	n, err := RDB.Incr(ctx, key).Result()
	if err != nil {
		return 0, errors.Wrapf(err, "failed to incr redis key: %s", key)
	}
	if n == 1 && expiration > 0 {
		_ = RDB.Expire(ctx, key, expiration).Err()
	}
	return n, nil
}
