package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/config"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/middleware"
)

// Messages shown on the login form
const (
	msgInvalidCredentials = "* Invalid credentials."
	msgTooManyAttempts    = "* Too many login attempts. Try again later."
)

// AuthHandler serves the login, registration and logout pages
type AuthHandler struct {
	service service.AuthService
	limiter middleware.LoginLimiter
	cfg     *config.Config
	logger  *slog.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(
	service service.AuthService,
	limiter middleware.LoginLimiter,
	cfg *config.Config,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		service: service,
		limiter: limiter,
		cfg:     cfg,
		logger:  logger,
	}
}

// LoginForm is the submitted login form
type LoginForm struct {
	EmailID  string `form:"emailId"`
	Password string `form:"password"`
}

// ShowLogin handles GET /
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if middleware.SessionFrom(c).Authenticated() {
		c.Redirect(http.StatusFound, "/stock-board")
		return
	}
	render(c, http.StatusOK, "login.html", "Login", gin.H{
		"EmailID": "",
	})
}

// Login handles POST /; a post without form data shows the plain form
func (h *AuthHandler) Login(c *gin.Context) {
	if !hasFormData(c) {
		h.ShowLogin(c)
		return
	}

	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("⚠️ [Handler] Unreadable login form", "error", err)
	}

	ctx := c.Request.Context()

	allowed, err := h.limiter.Allow(ctx, form.EmailID)
	if err != nil {
		h.logger.Warn("⚠️ [Handler] Login throttle unavailable, allowing attempt", "error", err)
	}
	if !allowed {
		render(c, http.StatusTooManyRequests, "login.html", "Login", gin.H{
			"Error":   msgTooManyAttempts,
			"EmailID": form.EmailID,
		})
		return
	}

	user, token, err := h.service.Login(ctx, form.EmailID, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			render(c, http.StatusUnauthorized, "login.html", "Login", gin.H{
				"Error":   msgInvalidCredentials,
				"EmailID": form.EmailID,
			})
			return
		}
		renderError(c, h.logger, err)
		return
	}

	if err := h.limiter.Reset(ctx, form.EmailID); err != nil {
		h.logger.Warn("⚠️ [Handler] Failed to reset login throttle", "error", err)
	}

	h.setCookies(c, token, strconv.FormatUint(uint64(user.ID), 10), int(h.cfg.SessionTTL))
	c.Redirect(http.StatusFound, "/stock-board")
}

// ShowRegister handles GET /register
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", "Register", gin.H{
		"Errors":  map[string]string{},
		"Name":    "",
		"EmailID": "",
	})
}

// Register handles POST /register; a post without form data shows the plain form
func (h *AuthHandler) Register(c *gin.Context) {
	if !hasFormData(c) {
		h.ShowRegister(c)
		return
	}

	var input service.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		h.logger.Warn("⚠️ [Handler] Unreadable registration form", "error", err)
	}

	if _, err := h.service.Register(input); err != nil {
		if vErr, ok := service.AsValidationError(err); ok {
			render(c, http.StatusUnprocessableEntity, "register.html", "Register", gin.H{
				"Errors":  vErr.Fields,
				"Name":    input.Name,
				"EmailID": input.EmailID,
			})
			return
		}
		renderError(c, h.logger, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.SessionFrom(c).Token(); token != "" {
		// The cookies are cleared regardless; an unrevoked token simply expires.
		if err := h.service.Logout(c.Request.Context(), token); err != nil {
			h.logger.Warn("⚠️ [Handler] Session not revoked", "error", err)
		}
	}

	h.setCookies(c, "", "", -1)
	c.Redirect(http.StatusFound, "/")
}

// hasFormData reports whether the request body carried any form fields
func hasFormData(c *gin.Context) bool {
	if err := c.Request.ParseForm(); err != nil {
		return false
	}
	return len(c.Request.PostForm) > 0
}

// setCookies writes both session cookies; a negative maxAge deletes them
func (h *AuthHandler) setCookies(c *gin.Context, token, userID string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.cfg.CookieSecure, true)
	c.SetCookie(middleware.UserCookie, userID, maxAge, "/", "", h.cfg.CookieSecure, true)
}
