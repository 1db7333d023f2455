// Package config loads server configuration from the environment so main
// stays lean. A .env file is honored when present.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"proxygate/internal/upstream/gemini"
	"proxygate/internal/upstream/search"
)

// Upstream holds the credentials and endpoint for one proxied API.
type Upstream struct {
	APIKey string
	URL    string
}

// Search extends Upstream with the custom-search engine context.
type Search struct {
	Upstream
	EngineID string
}

// Server captures the whole proxy configuration.
type Server struct {
	Addr string

	Gemini Upstream
	Search Search

	// FreeTrialLimit is the lifetime quota ceiling, shared by both endpoints.
	FreeTrialLimit int
	// Rate limits are independently configurable per endpoint.
	GenerativeRateLimit int
	SearchRateLimit     int
	RateWindow          time.Duration

	UpstreamTimeout time.Duration
	LogLevel        slog.Level
}

// Load reads an optional .env file, then builds the config from the
// environment. Missing upstream credentials are not fatal here; the affected
// endpoint degrades to a configuration error at request time.
func Load() Server {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr: envString("PROXYGATE_ADDR", ":8080"),
		Gemini: Upstream{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			URL:    envString("GEMINI_API_URL", gemini.DefaultURL),
		},
		Search: Search{
			Upstream: Upstream{
				APIKey: os.Getenv("SEARCH_API_KEY"),
				URL:    envString("SEARCH_API_URL", search.DefaultURL),
			},
			EngineID: os.Getenv("SEARCH_ENGINE_ID"),
		},
		FreeTrialLimit:      envInt("FREE_TRIAL_LIMIT", 20),
		GenerativeRateLimit: envInt("GENERATIVE_RATE_LIMIT", 10),
		SearchRateLimit:     envInt("SEARCH_RATE_LIMIT", 5),
		RateWindow:          envDuration("RATE_WINDOW", time.Minute),
		UpstreamTimeout:     envDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		LogLevel:            envLevel("LOG_LEVEL", slog.LevelInfo),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envLevel(key string, fallback slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return fallback
	}
	return level
}
