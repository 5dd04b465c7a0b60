package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime settings, loaded from environment variables.
type Config struct {
	ListenAddr   string `env:"LISTEN_ADDR" envDefault:":8080"`
	UserDBPath   string `env:"USER_DB_PATH" envDefault:"data/users.json"`
	RedisAddr    string `env:"REDIS_ADDR"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
