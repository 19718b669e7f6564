package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings, sourced from the environment.
type Config struct {
	PollIntervalMins int
	FetchTimeout     time.Duration
	AccountsFile     string
	MaxLogSizeMB     int64
	MaxLogBackups    int
	TelegramEnabled  bool
}

// Load reads a .env file when present and resolves all settings from the
// environment, falling back to defaults for everything optional.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	cfg := &Config{
		PollIntervalMins: envInt("POLL_INTERVAL_MINS", 1),
		FetchTimeout:     time.Duration(envInt("FETCH_TIMEOUT_SEC", 15)) * time.Second,
		AccountsFile:     envStr("ACCOUNTS_FILE", "accounts.json"),
		MaxLogSizeMB:     int64(envInt("MAX_LOG_SIZE_MB", 10)),
		MaxLogBackups:    envInt("MAX_LOG_BACKUPS", 3),
	}

	cfg.TelegramEnabled = os.Getenv("TELEGRAM_BOT_TOKEN") != "" && os.Getenv("TELEGRAM_CHAT_ID") != ""
	if !cfg.TelegramEnabled {
		log.Println("Warning: Telegram credentials missing, transitions will only be logged")
	}

	return cfg
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using default %d", key, v, def)
		return def
	}
	return n
}
