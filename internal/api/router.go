package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/web"
)

// HealthCheck reports whether the application can serve requests
type HealthCheck func(ctx context.Context) error

func SetupRouter(
	authHandler *handler.AuthHandler,
	stockHandler *handler.StockHandler,
	sessionMiddleware *middleware.SessionMiddleware,
	healthCheck HealthCheck,
	logger *slog.Logger,
) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies(nil)
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), sessionMiddleware.LoadSession())

	r.SetHTMLTemplate(web.MustTemplates())
	r.StaticFS("/static", web.Static())

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := healthCheck(ctx); err != nil {
			logger.Warn("⚠️ [Health] Health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes (Public)
	r.GET("/", authHandler.ShowLogin)
	r.POST("/", authHandler.Login)
	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", authHandler.Register)
	r.GET("/logout", authHandler.Logout)

	// Stock routes (Session required)
	stocks := r.Group("/")
	stocks.Use(sessionMiddleware.RequireSession())
	{
		stocks.GET("/stock-board", stockHandler.Board)
		stocks.GET("/stock-entry", stockHandler.Entry)
		stocks.POST("/stock-entry", stockHandler.CreateEntry)
		stocks.POST("/deletestock", stockHandler.Delete)
		stocks.POST("/editstock", stockHandler.Edit)
		stocks.POST("/update", stockHandler.Refresh)
	}

	return r
}
