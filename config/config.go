package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Config holds application configuration loaded from environment.
// The bot token is not part of it: it is the single command-line argument.
type Config struct {
	LogLevel zapcore.Level
	Bot      BotConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Status   StatusConfig
	// ShutdownTimeoutSec bounds graceful shutdown.
	ShutdownTimeoutSec int
}

// BotConfig holds poll recognition and enforcement settings.
type BotConfig struct {
	Trigger            string   // first-line token of free-text polls, case-insensitive
	CommandAliases     []string // comma-separated in env
	BackfillLimit      int      // messages per channel rescanned at startup
	RegisterEmptyPolls bool     // register polls whose answers all failed to resolve
	RetractConcurrency int
}

// RedisConfig holds the optional Redis event feed settings.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Channel  string
}

// DatabaseConfig holds the optional PostgreSQL journal settings.
type DatabaseConfig struct {
	URL string // empty disables the journal
}

// StatusConfig holds the status HTTP API settings.
type StatusConfig struct {
	Enabled        bool
	Port           string
	AllowedOrigins string // "*" or comma-separated; empty disables CORS
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()      // .env
	_ = godotenv.Load("env") // env (no leading dot)

	level, err := zapcore.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		LogLevel: level,
		Bot: BotConfig{
			Trigger:            getEnv("POLL_TRIGGER", "poll:"),
			CommandAliases:     splitTrim(getEnv("COMMAND_ALIASES", "!poll,!sondaggio"), ","),
			BackfillLimit:      getEnvInt("BACKFILL_LIMIT", 100),
			RegisterEmptyPolls: getEnvBool("REGISTER_EMPTY_POLLS", true),
			RetractConcurrency: getEnvInt("RETRACT_CONCURRENCY", 4),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Channel:  getEnv("REDIS_CHANNEL", "reactord:events"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Status: StatusConfig{
			Enabled:        getEnvBool("STATUS_ENABLED", true),
			Port:           getEnv("STATUS_PORT", "8080"),
			AllowedOrigins: getEnv("STATUS_ALLOWED_ORIGINS", ""),
		},
		ShutdownTimeoutSec: getEnvInt("SHUTDOWN_TIMEOUT_SEC", 10),
	}
	if cfg.Bot.BackfillLimit < 1 || cfg.Bot.BackfillLimit > 100 {
		return nil, fmt.Errorf("BACKFILL_LIMIT must be between 1 and 100, got %d", cfg.Bot.BackfillLimit)
	}
	if len(cfg.Bot.CommandAliases) == 0 {
		return nil, errors.New("COMMAND_ALIASES must name at least one alias")
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, sep) {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
