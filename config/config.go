// Package config loads server configuration from the environment, with
// an optional .env file for development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	Addr           string        `env:"CW_ADDR" envDefault:"0.0.0.0:9804"`
	GeminiAPIKey   string        `env:"GEMINI_API_KEY"`
	GeminiModel    string        `env:"CW_MODEL" envDefault:"gemini-2.5-flash"`
	ArchivePath    string        `env:"CW_ARCHIVE_PATH" envDefault:"./chronicle.db"`
	RolesPath      string        `env:"CW_ROLES_PATH" envDefault:"./roles.yaml"`
	RequestTimeout time.Duration `env:"CW_REQUEST_TIMEOUT" envDefault:"90s"`
	Debug          bool          `env:"CW_DEBUG" envDefault:"false"`
}

// Load reads .env if present, then parses the environment. A missing
// .env file is not an error; shipped deployments configure through the
// environment directly.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.GeminiAPIKey == "" {
		return Config{}, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	return cfg, nil
}
