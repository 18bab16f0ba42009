package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DatabaseURL string

	MigrationsDir string

	AllowedOrigins []string

	Auth struct {
		AccessTokenSecret  string
		RefreshTokenSecret string
	}
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	cfg.Auth.AccessTokenSecret = os.Getenv("ACCESS_TOKEN_SECRET")
	if cfg.Auth.AccessTokenSecret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET must be set")
	}

	cfg.Auth.RefreshTokenSecret = os.Getenv("REFRESH_TOKEN_SECRET")
	if cfg.Auth.RefreshTokenSecret == "" {
		return nil, fmt.Errorf("REFRESH_TOKEN_SECRET must be set")
	}

	origins := getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
