package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/config"
)

// LoginLimiter throttles repeated logins for the same email using Redis
type LoginLimiter interface {
	// Allow counts one login attempt for email and reports whether it may
	// proceed. Counting and checking is a single INCR, so concurrent attempts
	// cannot overshoot the limit.
	Allow(ctx context.Context, email string) (bool, error)

	// Reset clears the counter after a successful login
	Reset(ctx context.Context, email string) error
}

type redisLoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
	logger      *slog.Logger
}

// NewLoginLimiter creates a Redis-backed login limiter on an existing client.
// A non-positive LoginMaxAttempts disables throttling.
func NewLoginLimiter(client *redis.Client, cfg *config.Config, logger *slog.Logger) LoginLimiter {
	if cfg.LoginMaxAttempts <= 0 {
		return NewNoOpLoginLimiter(logger)
	}

	logger.Info("✅ [RateLimiter] Login throttling enabled",
		"max_attempts", cfg.LoginMaxAttempts,
		"window", time.Duration(cfg.LoginAttemptWindow)*time.Second,
	)

	return &redisLoginLimiter{
		client:      client,
		maxAttempts: cfg.LoginMaxAttempts,
		window:      time.Duration(cfg.LoginAttemptWindow) * time.Second,
		logger:      logger,
	}
}

// loginKey generates the Redis key for failed login attempts
// Format: rate:login:{email}
func loginKey(email string) string {
	return fmt.Sprintf("rate:login:%s", strings.ToLower(strings.TrimSpace(email)))
}

func (r *redisLoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	key := loginKey(email)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	// Each attempt restarts the window
	pipe.Expire(ctx, key, r.window)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("❌ [RateLimiter] Failed to count login attempt", "error", err)
		// On error, allow the request but log it
		return true, err
	}

	if incr.Val() > r.maxAttempts {
		r.logger.Warn("🚫 [RateLimiter] Login attempts exceeded", "attempts", incr.Val())
		return false, nil
	}

	return true, nil
}

func (r *redisLoginLimiter) Reset(ctx context.Context, email string) error {
	return r.client.Del(ctx, loginKey(email)).Err()
}

// NoOpLoginLimiter is a login limiter that always allows attempts
// Used when Redis is not available or throttling is disabled
type NoOpLoginLimiter struct {
	logger *slog.Logger
}

// NewNoOpLoginLimiter creates a no-op login limiter
func NewNoOpLoginLimiter(logger *slog.Logger) LoginLimiter {
	logger.Warn("⚠️ [RateLimiter] Using no-op login limiter - login throttling is disabled")
	return &NoOpLoginLimiter{logger: logger}
}

func (r *NoOpLoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	return true, nil
}

func (r *NoOpLoginLimiter) Reset(ctx context.Context, email string) error {
	return nil
}
