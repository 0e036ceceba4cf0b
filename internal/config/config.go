package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Telegram
	BotToken string

	// HTTP
	Port          int
	AllowedOrigin string

	// Database
	DatabaseURL string

	// Notifications
	NotifyTimeout time.Duration
}

func Load() *Config {
	return &Config{
		// Telegram
		BotToken: getEnv("BOT_TOKEN", ""),

		// HTTP
		Port:          getEnvInt("PORT", 8080),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "./webhook.db"),

		// Notifications
		NotifyTimeout: time.Duration(getEnvInt("NOTIFY_TIMEOUT_SECONDS", 5)) * time.Second,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
