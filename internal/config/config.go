package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/agenciau/leadrelay/internal/domain"
	"github.com/agenciau/leadrelay/internal/forward"
	"github.com/agenciau/leadrelay/internal/meta"
)

// Config is the main config for the application. It is loaded once and
// injected; nothing reads the process environment mid-request.
type Config struct {
	LogLevel   string `env:"LOG_LEVEL" envDefault:"INFO"`
	Addr       string `env:"HTTP_ADDR" envDefault:":8080"`
	Meta       meta.Config
	Forward    forward.Config
	Thresholds domain.Thresholds
}

// Load reads an optional .env file and parses the environment into Config.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}
