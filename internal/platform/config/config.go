// Package config loads deployment configuration from the environment
// (optionally seeded from a .env file) and validates it before the server
// starts.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

type ServerConfig struct {
	Port  int  `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	Debug bool `mapstructure:"debug"`
}

type StorageConfig struct {
	// Backend selects the repository implementations: "memory" or "postgres".
	Backend string `mapstructure:"backend" validate:"required,oneof=memory postgres"`
	// DatabaseURL is required when Backend is "postgres".
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Backend postgres"`
	// ProbeTimeout bounds the connectivity pre-check before preference writes.
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" validate:"required"`
}

// Load reads ROUTEPLANNER_* environment variables (a local .env file is
// honored when present), applies defaults and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ROUTEPLANNER")
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.probe_timeout", 2*time.Second)
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	// Explicit bindings: AutomaticEnv alone cannot map nested keys.
	for key, env := range map[string]string{
		"server.port":           "ROUTEPLANNER_PORT",
		"server.debug":          "ROUTEPLANNER_DEBUG",
		"storage.backend":       "ROUTEPLANNER_STORAGE_BACKEND",
		"storage.database_url":  "ROUTEPLANNER_DATABASE_URL",
		"storage.probe_timeout": "ROUTEPLANNER_PROBE_TIMEOUT",
		"auth.jwt_secret":       "ROUTEPLANNER_JWT_SECRET",
		"auth.token_ttl":        "ROUTEPLANNER_TOKEN_TTL",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
