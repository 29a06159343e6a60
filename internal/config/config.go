package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port                string
	UpstreamBaseURL     string
	UpstreamToken       string
	UpstreamTimeout     time.Duration
	UpstreamConcurrency int
	StrictDetails       bool
	JWTSecret           string
	AdminPasswordHash   string
	DeliveryTime        string // HH:MM serving time stamped on new orders
	TimezoneName        string
}

func Load() *Config {
	return &Config{
		Port:                getEnv("PORT", "8082"),
		UpstreamBaseURL:     getEnv("UPSTREAM_BASE_URL", "https://ordering.example.com/api/v1"),
		UpstreamToken:       getEnv("UPSTREAM_TOKEN", ""),
		UpstreamTimeout:     getEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		UpstreamConcurrency: getEnvInt("UPSTREAM_CONCURRENCY", 8),
		StrictDetails:       getEnvBool("UPSTREAM_STRICT_DETAILS", true),
		JWTSecret:           getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		AdminPasswordHash:   getEnv("ADMIN_PASSWORD_HASH", ""),
		DeliveryTime:        getEnv("ORDER_DELIVERY_TIME", "11:00"),
		TimezoneName:        getEnv("TZ_NAME", "Europe/Copenhagen"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
