package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"hangman/internal/hangman"
)

type Config struct {
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	Word           string        `env:"WORD" envDefault:"HANGMAN"`
	Duration       time.Duration `env:"DURATION" envDefault:"60s"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
	RateLimitRPS   int           `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"10"`
	LogLevel       slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no session could be built from.
func (c Config) Validate() error {
	if _, err := hangman.New(c.Game(), time.Now()); err != nil {
		return fmt.Errorf("WORD/DURATION: %w", err)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %v", c.SessionTTL)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive, got %v", c.SweepInterval)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// Game returns the configuration every new session is created with.
func (c Config) Game() hangman.Config {
	return hangman.Config{
		Word:     c.Word,
		Duration: c.Duration,
		Alphabet: hangman.Alphabet,
	}
}
