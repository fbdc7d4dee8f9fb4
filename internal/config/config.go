package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr   string
	DBPath       string
	StoragePath  string
	DatasetName  string
	ReadOnly     bool
	MaxBodyBytes int64
}

// Load reads the configuration from the environment. Values from a .env
// file in the working directory are applied first without overriding
// variables that are already set.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}
	return FromEnv()
}

// FromEnv reads the configuration from the environment only.
func FromEnv() *Config {
	return &Config{
		ListenAddr:   getEnv("DS_LISTEN_ADDR", ":8080"),
		DBPath:       getEnv("DS_DB_PATH", "/data/db/snapshots.db"),
		StoragePath:  getEnv("DS_STORAGE_PATH", "/data/datasets"),
		DatasetName:  getEnv("DS_DATASET", "default"),
		ReadOnly:     getEnv("DS_READ_ONLY", "") == "true",
		MaxBodyBytes: getEnvInt64("DS_MAX_BODY_BYTES", 10<<20),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}
