package model

import (
	"fmt"
	"time"
)

// ----------------------------------------------------
// ================ Config ================

// LogConfig holds configuration for the zerolog logger
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"console"` // console, json
	Output     string `envconfig:"LOG_OUTPUT" default:"stderr"`  // stdout, stderr, file
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"rfc3339"`
	FilePath   string `envconfig:"LOG_FILE_PATH" default:"logs/walkthrough.log"`
}

// RedisConfig holds the connection parameters for the data store.
// URL wins over the discrete fields when set.
type RedisConfig struct {
	URL      string `envconfig:"REDIS_URL"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Username string `envconfig:"REDIS_USERNAME"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// WalkthroughConfig controls console pacing
type WalkthroughConfig struct {
	ClearScreen bool `envconfig:"WALKTHROUGH_CLEAR_SCREEN" default:"true"`
}

// EmbeddingConfig configures the Ollama embedder used by the vector lab
type EmbeddingConfig struct {
	Host      string `envconfig:"OLLAMA_HOST" default:"http://localhost:11434"`
	Model     string `envconfig:"EMBEDDING_MODEL" default:"all-minilm"`
	Dimension int    `envconfig:"VECTOR_DIM" default:"384"`
}

// EvictionConfig sizes the LRU eviction load
type EvictionConfig struct {
	KeyCount   int `envconfig:"EVICTION_KEY_COUNT" default:"3000"`
	ValueBytes int `envconfig:"EVICTION_VALUE_BYTES" default:"327680"`
}

// StreamConfig names the stream, group and consumer shared by producer and consumer
type StreamConfig struct {
	Key              string        `envconfig:"STREAM_KEY" default:"user_activity_log"`
	Group            string        `envconfig:"STREAM_GROUP" default:"activity_consumers"`
	Consumer         string        `envconfig:"STREAM_CONSUMER" default:"consumer1"`
	ProducerInterval time.Duration `envconfig:"PRODUCER_INTERVAL" default:"1s"`
	ConsumerBlock    time.Duration `envconfig:"CONSUMER_BLOCK" default:"2s"`
	ConsumerCount    int64         `envconfig:"CONSUMER_COUNT" default:"5"`
}

// Validate rejects pacing values that would spin or block forever
func (c StreamConfig) Validate() error {
	if c.ProducerInterval <= 0 {
		return fmt.Errorf("PRODUCER_INTERVAL must be positive, got %s", c.ProducerInterval)
	}
	// BLOCK 0 waits forever and cannot be interrupted
	if c.ConsumerBlock <= 0 {
		return fmt.Errorf("CONSUMER_BLOCK must be positive, got %s", c.ConsumerBlock)
	}
	if c.ConsumerCount <= 0 {
		return fmt.Errorf("CONSUMER_COUNT must be positive, got %d", c.ConsumerCount)
	}
	return nil
}
