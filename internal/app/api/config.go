package api

import (
	"os"
	"strings"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port           string
	CatalogBaseURL string
	RedisAddr      string
	PostgresDSN    string
	CartKey        string
}

// LoadConfig reads environment variables and applies defaults.
// The catalog base URL defaults to the local development catalog.
func LoadConfig() Config {
	return Config{
		Port:           envDefault("PORT", "8080"),
		CatalogBaseURL: envDefault("CATALOG_BASE_URL", "http://localhost:3333"),
		RedisAddr:      strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		PostgresDSN:    strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		CartKey:        envDefault("CART_KEY", "storely:cart"),
	}
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
