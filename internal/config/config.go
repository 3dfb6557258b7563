package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultAddr            = ":8080"
	DefaultServiceName     = "weak-acid-api"
	DefaultShutdownTimeout = 5 * time.Second
)

// Config is the service configuration, read from the process environment.
type Config struct {
	Addr            string
	ServiceName     string
	LogLevel        zapcore.Level
	LogsExport      bool
	ShutdownTimeout time.Duration
}

// LoadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// Load reads the configuration from the environment, applying defaults for
// unset variables.
func Load() (Config, error) {
	cfg := Config{
		Addr:            getenv("HTTP_ADDR", DefaultAddr),
		ServiceName:     getenv("OTEL_SERVICE_NAME", DefaultServiceName),
		LogLevel:        zapcore.InfoLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		lvl, err := zapcore.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}

	if v := os.Getenv("OTEL_LOGS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("OTEL_LOGS_ENABLED: %w", err)
		}
		cfg.LogsExport = b
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: must be positive, got %s", d)
		}
		cfg.ShutdownTimeout = d
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
