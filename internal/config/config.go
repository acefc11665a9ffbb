// Package config provides runtime configuration values for the service.
package config

import (
	"net"
	"os"
)

// HTTPAddr is the fixed listen address on all interfaces.
const HTTPAddr = ":5000"

// redisPort is the fixed port of the counter store.
const redisPort = "6379"

// Config holds the knobs read once at startup and passed explicitly to the
// HTTP layer, the store client and the notifier.
type Config struct {
	Version        string
	TelegramToken  string
	TelegramChatID string
	RedisHost      string
	Hostname       string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		Version:        getenv("APP_VERSION", "v1"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),
		RedisHost:      getenv("REDIS_HOST", "localhost"),
		Hostname:       getenv("HOSTNAME", "local"),
	}
}

// RedisAddr returns the host:port of the counter store.
func (c Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, redisPort)
}

// NotifyEnabled reports whether Telegram credentials are present.
func (c Config) NotifyEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}
