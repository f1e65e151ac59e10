package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// DatabaseURL enables the Postgres-backed translation cache when set.
	DatabaseURL string
	// WorkerCount sizes the pools for file extraction and batch saves.
	WorkerCount int
	// TranslateDelay spaces out provider calls to stay under rate limits.
	TranslateDelay time.Duration
	// BatchSize is the number of strings per provider batch call.
	BatchSize int
	// Backup controls whether saves write a timestamped backup first.
	Backup bool
	// Table is the lookup-table identifier scanned for in source files.
	Table string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		WorkerCount:    getEnvInt("WORKER_COUNT", 8),
		TranslateDelay: time.Duration(getEnvInt("TRANSLATE_DELAY_MS", 1000)) * time.Millisecond,
		BatchSize:      getEnvInt("BATCH_SIZE", 20),
		Backup:         getEnvBool("BACKUP_ON_SAVE", true),
		Table:          getEnv("GLUE_TABLE", "L"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
