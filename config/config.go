package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dosada05/swiss-tournament/models"
)

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

// StoreConfig selects and locates the tournament store.
type StoreConfig struct {
	Backend        string
	DatabaseURL    string
	RedisURL       string
	RedisKeyPrefix string
	ConnectTimeout time.Duration
}

// ArchiveConfig is optional; archiving is enabled when Bucket is set.
type ArchiveConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

func (a ArchiveConfig) Enabled() bool { return a.Bucket != "" }

// Config holds every setting of the server.
type Config struct {
	Store              StoreConfig
	Archive            ArchiveConfig
	JWTSecretKey       string
	AdminPasswordHash  string
	ServerPort         int
	PairingStrategy    models.PairingStrategy
	LogLevel           slog.Level
	CORSAllowedOrigins []string
}

// Load reads the server configuration from the environment. A .env file is
// loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	store, err := loadStore()
	if err != nil {
		return nil, err
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	adminHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH environment variable is not set")
	}

	port, err := strconv.Atoi(getEnvOrDefault("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	strategy, err := models.ParsePairingStrategy(os.Getenv("PAIRING_STRATEGY"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAIRING_STRATEGY environment variable: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnvOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	cfg := &Config{
		Store: *store,
		Archive: ArchiveConfig{
			Endpoint:        os.Getenv("ARCHIVE_ENDPOINT"),
			Region:          os.Getenv("ARCHIVE_REGION"),
			AccessKeyID:     os.Getenv("ARCHIVE_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("ARCHIVE_SECRET_ACCESS_KEY"),
			Bucket:          os.Getenv("ARCHIVE_BUCKET"),
			PublicBaseURL:   os.Getenv("ARCHIVE_PUBLIC_BASE_URL"),
		},
		JWTSecretKey:       jwtKey,
		AdminPasswordHash:  adminHash,
		ServerPort:         port,
		PairingStrategy:    strategy,
		LogLevel:           level,
		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	return cfg, nil
}

// LoadStore reads only the store settings; the CLI needs nothing else.
func LoadStore() (*StoreConfig, error) {
	_ = godotenv.Load()
	return loadStore()
}

func loadStore() (*StoreConfig, error) {
	backend := getEnvOrDefault("STORE_BACKEND", BackendPostgres)

	timeout, err := time.ParseDuration(getEnvOrDefault("DB_CONNECT_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONNECT_TIMEOUT environment variable: %w", err)
	}

	cfg := &StoreConfig{
		Backend:        backend,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		RedisKeyPrefix: os.Getenv("REDIS_KEY_PREFIX"),
		ConnectTimeout: timeout,
	}

	switch backend {
	case BackendPostgres, BackendSQLite:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL environment variable is not set")
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q (want postgres, sqlite or redis)", backend)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
