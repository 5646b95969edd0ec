package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/llamacto/llama-gin/internal/dto"
	"github.com/llamacto/llama-gin/pkg/circuit"
	"github.com/llamacto/llama-gin/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisUserCache(t *testing.T) (*UserCache, *miniredis.Miniredis, *circuit.Breaker) {
	t.Helper()
	mini := miniredis.RunT(t)
	client := redis.NewClient(redis.Config{Enabled: true, Addr: mini.Addr()}, zap.NewNop())
	t.Cleanup(func() { _ = client.Close() })

	breaker := circuit.NewBreaker("user-cache", circuit.Config{Threshold: 1, Timeout: time.Hour}, zap.NewNop())
	return NewUserCache(client, nil, breaker, "llama_cache", time.Minute), mini, breaker
}

func TestUserCacheRedisRoundTrip(t *testing.T) {
	c, mini, _ := newRedisUserCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, 7)
	assert.False(t, ok)

	c.Set(ctx, &dto.UserResponse{ID: 7, Email: "alice@example.com", IsActive: true})
	assert.True(t, mini.Exists("llama_cache:user:7"))
	assert.Equal(t, time.Minute, mini.TTL("llama_cache:user:7"))

	got, ok := c.Get(ctx, 7)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", got.Email)

	c.Invalidate(ctx, 7)
	assert.False(t, mini.Exists("llama_cache:user:7"))
}

func TestUserCacheCorruptEntryDropped(t *testing.T) {
	c, mini, _ := newRedisUserCache(t)
	require.NoError(t, mini.Set("llama_cache:user:3", "{not json"))

	_, ok := c.Get(context.Background(), 3)
	assert.False(t, ok)
	assert.False(t, mini.Exists("llama_cache:user:3"))
}

func TestUserCacheRedisDownOpensBreaker(t *testing.T) {
	c, mini, breaker := newRedisUserCache(t)
	mini.Close()

	_, ok := c.Get(context.Background(), 1)
	assert.False(t, ok)
	assert.Equal(t, circuit.StateOpen, breaker.State())

	// open circuit fails fast and still reads as a miss
	_, ok = c.Get(context.Background(), 1)
	assert.False(t, ok)
}

func TestUserCacheDisabledByTTL(t *testing.T) {
	c, mini, _ := newRedisUserCache(t)
	c.ttl = 0

	c.Set(context.Background(), &dto.UserResponse{ID: 1})
	assert.False(t, mini.Exists("llama_cache:user:1"))
}
