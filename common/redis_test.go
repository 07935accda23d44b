package common

import (
	"context"
	"testing"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"

	"github.com/evoai/commerce-agent/common/config"
)

func TestRedisHelpersDisabled(t *testing.T) {
	original := config.RedisConnString
	t.Cleanup(func() { config.RedisConnString = original })
	config.RedisConnString = ""

	require.NoError(t, InitRedisClient(context.Background()))
	require.False(t, IsRedisEnabled())

	ctx := context.Background()
	require.True(t, errors.Is(RedisSet(ctx, "k", "v", time.Minute), ErrRedisDisabled))
	_, err := RedisGet(ctx, "k")
	require.True(t, errors.Is(err, ErrRedisDisabled))
	require.True(t, errors.Is(RedisDel(ctx, "k"), ErrRedisDisabled))
	_, err = RedisIncr(ctx, "k", time.Minute)
	require.True(t, errors.Is(err, ErrRedisDisabled))
	require.NoError(t, CloseRedis())
}

func TestInitRedisClientBadURL(t *testing.T) {
	original := config.RedisConnString
	t.Cleanup(func() { config.RedisConnString = original })
	config.RedisConnString = "not-a-redis-url"

	require.Error(t, InitRedisClient(context.Background()))
	require.False(t, IsRedisEnabled())
}
