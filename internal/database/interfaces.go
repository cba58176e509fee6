package database

import (
	"context"
	"errors"
)

// SessionStore maps opaque session tokens to user ids
type SessionStore interface {
	CreateSession(ctx context.Context, userID uint) (string, error)
	LookupSession(ctx context.Context, token string) (uint, error)
	RevokeSession(ctx context.Context, token string) error
	Close() error
}

// Session store errors
var (
	ErrSessionNotFound = errors.New("session not found or expired")
)
