package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"BOT_TOKEN", "PORT", "ALLOWED_ORIGIN", "DATABASE_URL", "NOTIFY_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.AllowedOrigin != "*" {
		t.Errorf("AllowedOrigin = %q, want %q", cfg.AllowedOrigin, "*")
	}
	if cfg.DatabaseURL != "./webhook.db" {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, "./webhook.db")
	}
	if cfg.NotifyTimeout != 5*time.Second {
		t.Errorf("NotifyTimeout = %v, want 5s", cfg.NotifyTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGIN", "https://app.example.com")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/webhook")
	t.Setenv("NOTIFY_TIMEOUT_SECONDS", "10")
	t.Setenv("BOT_TOKEN", "test-token")

	cfg := Load()

	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.AllowedOrigin != "https://app.example.com" {
		t.Errorf("AllowedOrigin = %q", cfg.AllowedOrigin)
	}
	if cfg.DatabaseURL != "postgres://u:p@localhost/webhook" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.NotifyTimeout != 10*time.Second {
		t.Errorf("NotifyTimeout = %v, want 10s", cfg.NotifyTimeout)
	}
	if cfg.BotToken != "test-token" {
		t.Errorf("BotToken = %q", cfg.BotToken)
	}
}

func TestGetEnvInt_Invalid(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	if got := getEnvInt("PORT", 8080); got != 8080 {
		t.Errorf("getEnvInt = %d, want default 8080", got)
	}
}
