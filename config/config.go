package config

import (
	"fmt"
	"os"
	"strings"
)

const AvatarSize = 50

// Config holds all environment-derived settings. Parsed once in cmd and
// injected; nothing in the application reads the environment directly.
type Config struct {
	Port    string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	FEOrigins   []string
	MediaBucket string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		GinMode:     os.Getenv("GIN_MODE"),
		DBUser:      os.Getenv("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"),
		DBHost:      os.Getenv("DB_HOST"),
		DBName:      getEnvWithDefault("DB_NAME", "safespace"),
		FEOrigins:   strings.Split(getEnvWithDefault("FE_ORIGINS", "http://localhost:3000"), ";"),
		MediaBucket: os.Getenv("MEDIA_BUCKET"),
	}
	if cfg.DBUser == "" || cfg.DBHost == "" {
		return nil, fmt.Errorf("$DB_USER and $DB_HOST must be set")
	}
	return cfg, nil
}

func getEnvWithDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
