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

// Хранилища коллекций
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Environment      string
	StorageBackend   string
	DataDir          string
	DBDSN            string
	RedisAddr        string
	RedisPrefix      string
	StrictDurability bool
	TelegramToken    string
	AdminChatIDs     []int64
	ReminderInterval time.Duration
	MetricsAddr      string
	Location         *time.Location
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфигурацию из переменных окружения без .env
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment:    getEnv("ENV", "development"),
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),
		DataDir:        getEnv("DATA_DIR", "./data"),
		DBDSN:          os.Getenv("DB_DSN"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPrefix:    getEnv("REDIS_PREFIX", "attendance:"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
	}

	switch cfg.StorageBackend {
	case BackendFile, BackendMemory, BackendRedis:
	case BackendPostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for postgres storage")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	if raw := os.Getenv("STRICT_DURABILITY"); raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parse STRICT_DURABILITY: %w", err)
		}
		cfg.StrictDurability = strict
	}

	ids, err := parseChatIDs(os.Getenv("ADMIN_CHAT_IDS"))
	if err != nil {
		return nil, err
	}
	cfg.AdminChatIDs = ids

	interval, err := time.ParseDuration(getEnv("REMINDER_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parse REMINDER_INTERVAL: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("REMINDER_INTERVAL must be positive, got %s", interval)
	}
	cfg.ReminderInterval = interval

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("load TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

// BotEnabled бот запускается только при заданном токене
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

// IsAdmin пустой список разрешает всех (режим разработки)
func (c *Config) IsAdmin(chatID int64) bool {
	if len(c.AdminChatIDs) == 0 {
		return true
	}
	for _, id := range c.AdminChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseChatIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse ADMIN_CHAT_IDS %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
