package middleware_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/config"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/logger"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/middleware"
)

func setupLimiter(t *testing.T, maxAttempts int64) (*miniredis.Miniredis, middleware.LoginLimiter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	cfg := &config.Config{LoginMaxAttempts: maxAttempts, LoginAttemptWindow: 60}
	return mr, middleware.NewLoginLimiter(client, cfg, logger.Discard())
}

func TestLoginLimiter_BlocksAfterMaxAttempts(t *testing.T) {
	_, limiter := setupLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "a@b.com")
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d", i+1)
	}

	allowed, err := limiter.Allow(ctx, "a@b.com")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Keys are normalised
	allowed, err = limiter.Allow(ctx, "  A@B.com ")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Other accounts are unaffected
	allowed, err = limiter.Allow(ctx, "c@d.com")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLoginLimiter_ConcurrentAttemptsRespectLimit(t *testing.T) {
	const maxAttempts = 5
	_, limiter := setupLimiter(t, maxAttempts)
	ctx := context.Background()

	var allowedCount int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, err := limiter.Allow(ctx, "a@b.com")
			if err == nil && allowed {
				atomic.AddInt32(&allowedCount, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(maxAttempts), atomic.LoadInt32(&allowedCount))
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	mr, limiter := setupLimiter(t, 1)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, time.Minute, mr.TTL("rate:login:a@b.com"))

	allowed, _ = limiter.Allow(ctx, "a@b.com")
	assert.False(t, allowed)

	mr.FastForward(2 * time.Minute)

	allowed, err = limiter.Allow(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLoginLimiter_Reset(t *testing.T) {
	_, limiter := setupLimiter(t, 1)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "a@b.com")
	require.NoError(t, err)
	require.NoError(t, limiter.Reset(ctx, "a@b.com"))

	allowed, err := limiter.Allow(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLoginLimiter_RedisDownFailsOpen(t *testing.T) {
	mr, limiter := setupLimiter(t, 1)
	mr.Close()

	allowed, err := limiter.Allow(context.Background(), "a@b.com")
	assert.Error(t, err)
	assert.True(t, allowed)
}

func TestLoginLimiter_DisabledIsNoOp(t *testing.T) {
	_, limiter := setupLimiter(t, 0)
	ctx := context.Background()

	_, isNoOp := limiter.(*middleware.NoOpLoginLimiter)
	assert.True(t, isNoOp)

	for i := 0; i < 10; i++ {
		allowed, err := limiter.Allow(ctx, "a@b.com")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	assert.NoError(t, limiter.Reset(ctx, "a@b.com"))
}
