package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisURL    string `env:"REDIS_URL,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	MovieAPIKey     string `env:"TMDB_API_KEY,required"`
	MovieAPIBaseURL string `env:"TMDB_BASE_URL" envDefault:"https://api.themoviedb.org/3"`

	RoomCodeLength    int `env:"ROOM_CODE_LENGTH" envDefault:"4"`
	MaxDeckSize       int `env:"MAX_DECK_SIZE" envDefault:"25"`
	DiscoverPageLimit int `env:"DISCOVER_PAGE_LIMIT" envDefault:"10"`
	ScrapeTitleLimit  int `env:"SCRAPE_TITLE_LIMIT" envDefault:"50"`
	EnrichBatchSize   int `env:"ENRICH_BATCH_SIZE" envDefault:"5"`
	MovieCacheTTLSecs int `env:"MOVIE_CACHE_TTL_SECONDS" envDefault:"86400"`
	LobbyTTLSeconds   int `env:"LOBBY_TTL_SECONDS" envDefault:"86400"`
	RateLimitPerMin   int `env:"RATE_LIMIT_PER_MIN" envDefault:"120"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) MovieCacheTTL() time.Duration {
	return time.Duration(c.MovieCacheTTLSecs) * time.Second
}

func (c *Config) LobbyTTL() time.Duration {
	return time.Duration(c.LobbyTTLSeconds) * time.Second
}

func (c *Config) Validate() error {
	if c.RoomCodeLength < 4 || c.RoomCodeLength > 8 {
		return fmt.Errorf("ROOM_CODE_LENGTH must be between 4 and 8, got %d", c.RoomCodeLength)
	}
	if c.MaxDeckSize < 1 || c.MaxDeckSize > 100 {
		return fmt.Errorf("MAX_DECK_SIZE must be between 1 and 100, got %d", c.MaxDeckSize)
	}
	if c.EnrichBatchSize < 1 {
		return fmt.Errorf("ENRICH_BATCH_SIZE must be positive, got %d", c.EnrichBatchSize)
	}
	if !strings.HasPrefix(c.MovieAPIBaseURL, "http://") && !strings.HasPrefix(c.MovieAPIBaseURL, "https://") {
		return fmt.Errorf("TMDB_BASE_URL must be an http(s) URL")
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
