package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string     // HTTP listen address
	DataDir  string     // Optional directory of <collection>.json fixtures
	DBPath   string     // SQLite snapshot file
	LogLevel slog.Level
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if there is one.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset values.
func FromEnv(getenv func(string) string) Config {
	addr := getenv("FREDBANK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	dbPath := getenv("FREDBANK_DB")
	if dbPath == "" {
		dbPath = "fredbank.db"
	}

	return Config{
		Addr:     addr,
		DataDir:  getenv("FREDBANK_DATA_DIR"),
		DBPath:   dbPath,
		LogLevel: parseLevel(getenv("FREDBANK_LOG_LEVEL")),
	}
}

// parseLevel falls back to info for empty or unknown levels.
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
