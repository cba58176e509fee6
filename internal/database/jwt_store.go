package database

import (
	"context"
	"crypto/rand"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/config"
)

// JWTSessionStore issues signed, self-contained session tokens.
// Used when Redis is unavailable; tokens cannot be revoked before they expire.
type JWTSessionStore struct {
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
}

// NewJWTSessionStore creates a stateless session store signed with cfg.SessionSecret.
// Without a configured secret it signs with a random per-process key, so
// sessions do not survive a restart.
func NewJWTSessionStore(cfg *config.Config, logger *slog.Logger) *JWTSessionStore {
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		logger.Warn("⚠️ [Session] SESSION_SECRET is not set, signing sessions with a random per-process key")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic(err)
		}
	}

	return &JWTSessionStore{
		secret: secret,
		ttl:    time.Duration(cfg.SessionTTL) * time.Second,
		logger: logger,
	}
}

func (s *JWTSessionStore) CreateSession(ctx context.Context, userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"type":    "session",
		"exp":     now.Add(s.ttl).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTSessionStore) LookupSession(ctx context.Context, tokenString string) (uint, error) {
	if tokenString == "" {
		return 0, ErrSessionNotFound
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		s.logger.Debug("⚠️ [Session] Rejected session token", "error", err)
		return 0, ErrSessionNotFound
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["type"] != "session" {
		return 0, ErrSessionNotFound
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return 0, ErrSessionNotFound
	}

	return uint(userID), nil
}

// RevokeSession is a no-op; the cookie is cleared by the caller.
func (s *JWTSessionStore) RevokeSession(ctx context.Context, token string) error {
	return nil
}

func (s *JWTSessionStore) Close() error {
	return nil
}
