package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        int
	Environment string

	AllowedOrigins []string

	NewsAPIKey   string
	NewsKeywords []string

	CoinsCacheSecs int
	ChartCacheSecs int
	NewsCacheSecs  int
}

// IsProduction reports whether error detail should be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func Load() *Config {
	cfg := &Config{
		NewsAPIKey: os.Getenv("NEWS_API_KEY"),
	}

	if cfg.NewsAPIKey == "" {
		log.Println("Warning: NEWS_API_KEY not set, news endpoint will report a configuration error")
	}

	cfg.Port = 3001
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Port = n
		}
	}

	cfg.Environment = strings.ToLower(strings.TrimSpace(os.Getenv("ENVIRONMENT")))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Environment != "development" && cfg.Environment != "production" {
		log.Printf("Warning: unsupported ENVIRONMENT=%q, defaulting to development", cfg.Environment)
		cfg.Environment = "development"
	}

	cfg.AllowedOrigins = splitList(os.Getenv("ALLOWED_ORIGINS"))
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	cfg.NewsKeywords = splitList(os.Getenv("NEWS_KEYWORDS"))
	if len(cfg.NewsKeywords) == 0 {
		cfg.NewsKeywords = []string{"crypto", "bitcoin", "ethereum"}
	}

	cfg.CoinsCacheSecs = 60
	if v := os.Getenv("COINS_CACHE_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CoinsCacheSecs = n
		}
	}

	cfg.ChartCacheSecs = 300
	if v := os.Getenv("CHART_CACHE_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChartCacheSecs = n
		}
	}

	cfg.NewsCacheSecs = 900
	if v := os.Getenv("NEWS_CACHE_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NewsCacheSecs = n
		}
	}

	return cfg
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
