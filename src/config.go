package src

import (
	"fmt"

	"redis_walkthrough/src/model"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LogConfig         model.LogConfig         `envconfig:""`
	RedisConfig       model.RedisConfig       `envconfig:""`
	WalkthroughConfig model.WalkthroughConfig `envconfig:""`
	EmbeddingConfig   model.EmbeddingConfig   `envconfig:""`
	EvictionConfig    model.EvictionConfig    `envconfig:""`
	StreamConfig      model.StreamConfig      `envconfig:""`
}

// LoadConfig reads .env (if present) into the process environment and then
// decodes the environment into Config. A missing .env is not an error; the
// returned bool reports whether one was loaded.
func LoadConfig(envFiles ...string) (*Config, bool, error) {
	loaded := godotenv.Load(envFiles...) == nil

	var config Config
	err := envconfig.Process("", &config)
	if err != nil {
		return nil, loaded, fmt.Errorf("error processing environment configuration: %w", err)
	}
	if err := config.StreamConfig.Validate(); err != nil {
		return nil, loaded, fmt.Errorf("invalid stream configuration: %w", err)
	}

	return &config, loaded, nil
}
