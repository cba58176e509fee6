package database

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/config"
)

// RedisClient wraps the redis client and stores sessions under expiring keys
type RedisClient struct {
	client *redis.Client
	logger *slog.Logger
	cfg    *config.Config
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(cfg *config.Config, logger *slog.Logger) (*RedisClient, error) {
	logger.Info("🔌 [Redis] Connecting to Redis...",
		"host", cfg.RedisHost,
		"port", cfg.RedisPort,
		"db", cfg.RedisDatabase,
	)

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       int(cfg.RedisDatabase),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("✅ [Redis] Redis connection established")

	return &RedisClient{
		client: client,
		logger: logger,
		cfg:    cfg,
	}, nil
}

// NewRedisClientForTesting creates a Redis client with a provided redis.Client (for testing)
func NewRedisClientForTesting(client *redis.Client, cfg *config.Config, logger *slog.Logger) *RedisClient {
	return &RedisClient{
		client: client,
		logger: logger,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Ping checks the Redis connection
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// sessionKey generates a Redis key for a session token
func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func (r *RedisClient) sessionTTL() time.Duration {
	return time.Duration(r.cfg.SessionTTL) * time.Second
}

// CreateSession stores a fresh random token for userID with the configured TTL
func (r *RedisClient) CreateSession(ctx context.Context, userID uint) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(tokenBytes)

	if err := r.client.Set(ctx, sessionKey(token), userID, r.sessionTTL()).Err(); err != nil {
		r.logger.Error("❌ [Redis] Failed to store session",
			"user_id", userID,
			"error", err,
		)
		return "", err
	}

	r.logger.Debug("💾 [Redis] Stored session",
		"user_id", userID,
		"ttl", r.sessionTTL(),
	)

	return token, nil
}

// LookupSession resolves a token to its user id
func (r *RedisClient) LookupSession(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, ErrSessionNotFound
	}

	value, err := r.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		r.logger.Error("❌ [Redis] Failed to read session", "error", err)
		return 0, err
	}

	userID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		r.logger.Warn("⚠️ [Redis] Corrupt session value, dropping", "error", err)
		r.client.Del(ctx, sessionKey(token))
		return 0, ErrSessionNotFound
	}

	return uint(userID), nil
}

// RevokeSession removes a session; revoking an unknown token is not an error
func (r *RedisClient) RevokeSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := r.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		r.logger.Error("❌ [Redis] Failed to delete session", "error", err)
		return err
	}

	r.logger.Debug("🗑️ [Redis] Deleted session")

	return nil
}

// GetClient returns the underlying Redis client (for advanced use cases)
func (r *RedisClient) GetClient() *redis.Client {
	return r.client
}
