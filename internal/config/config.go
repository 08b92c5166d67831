package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	SheetID            string
	ServiceAccountJSON string
	BotToken           string
	Timezone           string
	OrderChatID        int64
	OrderTopicID       int64
	AdminChatID        int64
	RedisAddr          string
	KafkaBroker        string
	HTTPAddr           string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load .env file, using default values", "error", err)
	}

	cfg := &Config{
		SheetID:            os.Getenv("SHEET_ID"),
		ServiceAccountJSON: os.Getenv("SERVICE_ACCOUNT_JSON"),
		BotToken:           os.Getenv("TELEGRAM_TOKEN"),
		Timezone:           os.Getenv("TIMEZONE"),
		OrderChatID:        envInt64("ORDER_CHAT_ID", -1002501381102),
		OrderTopicID:       envInt64("ORDER_TOPIC_ID", 914),
		AdminChatID:        envInt64("ADMIN_CHAT_ID", 334700077),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		KafkaBroker:        os.Getenv("KAFKA_BROKER"),
		HTTPAddr:           os.Getenv("HTTP_ADDR"),
	}

	if cfg.SheetID == "" {
		cfg.SheetID = "1fobxr4QwD8CLYFaTh2WXNbGwqQ2mWEuQDPkqDzvzkoU"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Kiev"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	slog.Info("config loaded",
		"sheet_id", cfg.SheetID,
		"timezone", cfg.Timezone,
		"order_chat_id", cfg.OrderChatID,
		"order_topic_id", cfg.OrderTopicID,
		"redis_addr", cfg.RedisAddr,
		"kafka_broker", cfg.KafkaBroker,
		"http_addr", cfg.HTTPAddr)
	return cfg
}

func envInt64(key string, def int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Warn("invalid integer env var, using default", "key", key, "value", raw)
		return def
	}
	return val
}
