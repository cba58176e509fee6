package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/api"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/config"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/service"
	internalgrpc "github.com/EgehanKilicarslan/stockboard/backend-go/internal/grpc"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/logger"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/worker"
)

func main() {
	// 1. Config
	cfg := config.LoadConfig()

	// 2. Logger
	appLogger := logger.New(cfg)

	appLogger.Info("🚀 [Go] Starting Stock Board...",
		"environment", cfg.AppEnv,
		"database", cfg.DatabaseDriver,
	)

	// 3. Connect to Database
	if err := database.ConnectDatabase(cfg, appLogger); err != nil {
		appLogger.Error("❌ Failed to connect to database", "error", err)
		os.Exit(1)
	}

	db := database.GetDatabase()
	defer database.Close(db)

	pingDatabase := func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}
	probes := []internalgrpc.Probe{{Name: "database", Check: pingDatabase}}

	// 4. Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	stockRepo := repository.NewStockRepository(db)

	// 5. Initialize Redis (sessions + login throttle)
	var sessions database.SessionStore
	var loginLimiter middleware.LoginLimiter

	redisClient, err := database.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis", "error", err)
		appLogger.Info("💡 Using signed session tokens and no login throttling")
		sessions = database.NewJWTSessionStore(cfg, appLogger)
		loginLimiter = middleware.NewNoOpLoginLimiter(appLogger)
	} else {
		sessions = redisClient
		loginLimiter = middleware.NewLoginLimiter(redisClient.GetClient(), cfg, appLogger)
		probes = append(probes, internalgrpc.Probe{Name: "redis", Check: redisClient.Ping})
	}
	defer sessions.Close()

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, sessions, appLogger)
	stockService := service.NewStockService(stockRepo, appLogger)

	// 7. Initialize Handlers & Middleware
	sessionMiddleware := middleware.NewSessionMiddleware(authService, appLogger)
	authHandler := handler.NewAuthHandler(authService, loginLimiter, cfg, appLogger)
	stockHandler := handler.NewStockHandler(stockService, appLogger)

	// 8. Background workers
	pool := worker.NewPool(appLogger)
	healthServer := internalgrpc.NewHealthServer(appLogger, probes...)
	pool.Every("health-probe", time.Duration(cfg.HealthProbeInterval)*time.Second, func(ctx context.Context) {
		healthServer.Probe(ctx)
	})

	// 9. Start gRPC health server
	grpcServer := grpc.NewServer()
	healthServer.Register(grpcServer)

	grpcAddr := fmt.Sprintf(":%s", cfg.ApiGrpcPort)
	grpcListener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		appLogger.Error("❌ Failed to listen for gRPC", "error", err)
		os.Exit(1)
	}

	go func() {
		appLogger.Info("🔌 [Go] gRPC health server running...", "port", cfg.ApiGrpcPort)
		if err := grpcServer.Serve(grpcListener); err != nil {
			appLogger.Error("❌ gRPC Server failed", "error", err)
		}
	}()

	// 10. Setup Router
	r := api.SetupRouter(authHandler, stockHandler, sessionMiddleware, pingDatabase, appLogger)

	// 11. Start HTTP Server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ApiServicePort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.Info("🌍 [Go] HTTP Server running on port...", "port", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("❌ HTTP Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	// 12. Graceful shutdown
	timeout := time.Duration(cfg.ShutdownTimeout) * time.Second
	appLogger.Info("🛑 [Go] Shutting down...", "timeout", timeout)

	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("❌ HTTP Server shutdown failed", "error", err)
	}

	grpcServer.GracefulStop()
	pool.Shutdown(timeout)

	appLogger.Info("👋 [Go] Stopped")
}
