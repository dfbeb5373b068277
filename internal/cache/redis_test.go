package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/mail-gateway/internal/config"
)

func setupTestCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
	}

	c, err := NewRedis(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedis_SetAndGet(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	expected := cachedToken{Token: "mk_abc", UserID: "u1"}
	require.NoError(t, c.Set(ctx, "token:mk_abc", expected, time.Minute))

	var actual cachedToken
	found, err := c.Get(ctx, "token:mk_abc", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestRedis_GetNotFound(t *testing.T) {
	c, _ := setupTestCache(t)

	var out cachedToken
	found, err := c.Get(context.Background(), "no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_Expiration(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "temp", cachedToken{Token: "x"}, time.Second))
	mr.FastForward(2 * time.Second)

	var out cachedToken
	found, err := c.Get(ctx, "temp", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_CorruptedValue(t *testing.T) {
	c, mr := setupTestCache(t)
	require.NoError(t, mr.Set("bad", "{not json"))

	var out cachedToken
	found, err := c.Get(context.Background(), "bad", &out)
	require.Error(t, err)
	assert.False(t, found)
}

func TestNewRedis_Unreachable(t *testing.T) {
	cfg := config.RedisConnection{
		AddressRedis: "127.0.0.1:1",
		DialTimeout:  100 * time.Millisecond,
	}
	_, err := NewRedis(context.Background(), cfg)
	require.Error(t, err)
}
