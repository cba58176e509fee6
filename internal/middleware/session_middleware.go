package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/service"
)

// Cookie names shared with the auth handler
const (
	SessionCookie = "active"
	UserCookie    = "user"
)

const sessionContextKey = "session"

// Session is the per-request authentication state.
// The zero value is an anonymous session.
type Session struct {
	user  *models.User
	token string
}

// User returns the authenticated user, if any
func (s Session) User() (*models.User, bool) {
	return s.user, s.user != nil
}

// Authenticated reports whether the request carries a valid session
func (s Session) Authenticated() bool {
	return s.user != nil
}

// Token returns the raw session token (empty when anonymous)
func (s Session) Token() string {
	return s.token
}

// SessionFrom returns the session attached by LoadSession
func SessionFrom(c *gin.Context) Session {
	if value, ok := c.Get(sessionContextKey); ok {
		if session, ok := value.(Session); ok {
			return session
		}
	}
	return Session{}
}

// SessionMiddleware resolves the session cookie into a Session
type SessionMiddleware struct {
	service service.AuthService
	logger  *slog.Logger
}

// NewSessionMiddleware creates a new session middleware instance
func NewSessionMiddleware(service service.AuthService, logger *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		service: service,
		logger:  logger,
	}
}

// LoadSession attaches a Session to every request; it never rejects
func (m *SessionMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Set(sessionContextKey, Session{})
			c.Next()
			return
		}

		user, err := m.service.ResolveSession(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthenticated) {
				m.logger.Error("❌ [Middleware] Failed to resolve session", "error", err)
			} else {
				m.logger.Debug("⚠️ [Middleware] Stale session cookie")
			}
			c.Set(sessionContextKey, Session{})
			c.Next()
			return
		}

		c.Set(sessionContextKey, Session{user: user, token: token})
		m.logger.Debug("✅ [Middleware] Session resolved", "user_id", user.ID)

		c.Next()
	}
}

// RequireSession redirects anonymous requests to the login page
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFrom(c).Authenticated() {
			m.logger.Debug("🔒 [Middleware] Anonymous request redirected", "path", c.Request.URL.Path)
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}
