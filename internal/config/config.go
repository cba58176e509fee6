package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv              string
	LogLevel            slog.Level
	ApiServicePort      string
	ApiGrpcPort         string
	DatabaseDriver      string
	SQLitePath          string
	PostgreSQLHost      string
	PostgreSQLPort      int64
	PostgreSQLUser      string
	PostgreSQLPassword  string
	PostgreSQLDatabase  string
	RedisHost           string
	RedisPort           int64
	RedisPassword       string
	RedisDatabase       int64
	SessionSecret       string
	SessionTTL          int64 // Session lifetime in seconds
	CookieSecure        bool
	LoginMaxAttempts    int64 // 0 disables login throttling
	LoginAttemptWindow  int64 // Throttle window in seconds
	HealthProbeInterval int64 // Seconds between health probes
	ShutdownTimeout     int64 // Graceful shutdown budget in seconds
}

func LoadConfig() *Config {
	// A missing .env is fine, real environments set variables directly.
	_ = godotenv.Load()

	return &Config{
		AppEnv:              getEnv("APP_ENV", "development"),                     // Default development
		LogLevel:            getLogLevel(),                                        // Default INFO
		ApiServicePort:      getEnv("API_SERVICE_PORT", "8080"),                   // Default 8080
		ApiGrpcPort:         getEnv("API_GRPC_PORT", "50052"),                     // Default 50052 (gRPC health)
		DatabaseDriver:      getDatabaseDriver(),                                  // Default postgres
		SQLitePath:          getEnv("SQLITE_PATH", "stockboard.db"),               // Only used with sqlite
		PostgreSQLHost:      getEnv("POSTGRESQL_HOST", "db"),                      // Default db
		PostgreSQLPort:      getEnvAsInt64("POSTGRESQL_PORT", 5432),               // Default 5432
		PostgreSQLUser:      getEnv("POSTGRESQL_USER", "stockboard_user"),         // Default user
		PostgreSQLPassword:  getEnv("POSTGRESQL_PASSWORD", "stockboard_password"), // Default password
		PostgreSQLDatabase:  getEnv("POSTGRESQL_DATABASE", "stockboard_db"),       // Default database name
		RedisHost:           getEnv("REDIS_HOST", "redis"),                        // Default redis
		RedisPort:           getEnvAsInt64("REDIS_PORT", 6379),                    // Default 6379
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),                         // Default empty
		RedisDatabase:       getEnvAsInt64("REDIS_DATABASE", 0),                   // Default 0
		SessionSecret:       getEnv("SESSION_SECRET", ""),                         // Default empty (random per process)
		SessionTTL:          getEnvAsInt64("SESSION_TTL", 43200),                  // Default 12 hours
		CookieSecure:        getEnvAsBool("COOKIE_SECURE", false),                 // Default false
		LoginMaxAttempts:    getEnvAsInt64("LOGIN_MAX_ATTEMPTS", 5),               // Default 5
		LoginAttemptWindow:  getEnvAsInt64("LOGIN_ATTEMPT_WINDOW", 900),           // Default 15 minutes
		HealthProbeInterval: getEnvAsInt64("HEALTH_PROBE_INTERVAL", 15),           // Default 15 seconds
		ShutdownTimeout:     getEnvAsInt64("SHUTDOWN_TIMEOUT", 10),                // Default 10 seconds
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return fallback
}

func getDatabaseDriver() string {
	switch driver := strings.ToLower(getEnv("DATABASE_DRIVER", "postgres")); driver {
	case "sqlite":
		return driver
	default:
		return "postgres"
	}
}

func getLogLevel() slog.Level {
	levelStr := getEnv("LOG_LEVEL", "INFO")

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
