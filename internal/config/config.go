package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	DBPath              string
	LogLevel            string
	LogColors           bool
	AllowedOrigins      []string
	MatchmakingInterval time.Duration
	ClockTime           time.Duration
	CommandQueueSize    int
}

// Load reads a .env file when present, then the environment, falling back to
// defaults for missing or unparsable values.
func Load() Config {
	// .env is optional outside development.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":3000"),
		DBPath:              envOr("DB_PATH", "file:chesslib.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		LogColors:           envBoolOr("LOG_COLORS", false),
		AllowedOrigins:      envListOr("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		MatchmakingInterval: envDurationOr("MATCHMAKING_INTERVAL", time.Second),
		ClockTime:           time.Duration(envIntOr("CLOCK_SECONDS", 600)) * time.Second,
		CommandQueueSize:    envIntOr("COMMAND_QUEUE_SIZE", 16),
	}
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.MatchmakingInterval <= 0 {
		return fmt.Errorf("MATCHMAKING_INTERVAL must be positive, got %s", c.MatchmakingInterval)
	}
	if c.ClockTime <= 0 {
		return fmt.Errorf("CLOCK_SECONDS must be positive, got %s", c.ClockTime)
	}
	if c.CommandQueueSize < 1 {
		return fmt.Errorf("COMMAND_QUEUE_SIZE must be at least 1, got %d", c.CommandQueueSize)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
