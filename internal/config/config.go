package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/astview/internal/editor"
)

type Config struct {
	Port string

	// Compiler service
	CompilerURL     string
	CompilerAPIKey  string
	CompilerTimeout time.Duration

	// Auth for the session API (optional)
	APIKey string

	// Sessions
	SessionTTL      time.Duration
	MaxSessions     int
	CleanupInterval time.Duration

	// Request limits
	MaxSourceBytes int64

	// Unit of the compiler's span offsets
	OffsetUnit string

	WebSocketEnabled bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		CompilerURL:     envOr("COMPILER_URL", "http://localhost:8081"),
		CompilerAPIKey:  os.Getenv("COMPILER_API_KEY"),
		CompilerTimeout: envDuration("COMPILER_TIMEOUT", 10*time.Second),

		APIKey: os.Getenv("ASTVIEW_API_KEY"),

		SessionTTL:      envDuration("SESSION_TTL", 30*time.Minute),
		MaxSessions:     envInt("MAX_SESSIONS", 1000),
		CleanupInterval: envDuration("SESSION_CLEANUP_INTERVAL", time.Minute),

		MaxSourceBytes: envInt64("MAX_SOURCE_BYTES", 1048576), // 1MB

		OffsetUnit: envOr("OFFSET_UNIT", string(editor.UnitRune)),

		WebSocketEnabled: envBool("WS_ENABLED", true),
	}

	if cfg.CompilerTimeout <= 0 {
		cfg.CompilerTimeout = 10 * time.Second
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1000
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}
	if cfg.MaxSourceBytes <= 0 {
		cfg.MaxSourceBytes = 1048576
	}

	return cfg
}

func (c Config) Validate() error {
	if c.CompilerURL == "" {
		return fmt.Errorf("COMPILER_URL is required")
	}
	if _, err := editor.ParseUnit(c.OffsetUnit); err != nil {
		return fmt.Errorf("OFFSET_UNIT: %w", err)
	}
	return nil
}

// Unit returns the parsed offset unit. Call Validate first.
func (c Config) Unit() editor.Unit {
	u, _ := editor.ParseUnit(c.OffsetUnit)
	return u
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
