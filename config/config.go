/*
config.go - Environment configuration

Loads a .env file when one exists, then reads settings from the
environment with sensible defaults. Command-line flags on cmd/server
override whatever this produces.
*/
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration.
type Config struct {
	Port     int    // HTTP listen port
	DBPath   string // SQLite database path, ":memory:" allowed
	AssetDir string // directory holding seed.json and the attached workbooks
	DataDir  string // file-tier directory; empty selects the XDG data home
	CacheDir string // cache-tier directory; empty selects the XDG cache home
}

// Load reads the environment, honoring a local .env file.
func Load() *Config {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	return &Config{
		Port:     getEnvInt("PORT", 8080),
		DBPath:   getEnv("DB_PATH", "verse-engine.db"),
		AssetDir: getEnv("ASSET_DIR", "./assets"),
		DataDir:  getEnv("DATA_DIR", ""),
		CacheDir: getEnv("CACHE_DIR", ""),
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
