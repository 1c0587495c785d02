package src

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"REDIS_URL", "REDIS_HOST", "REDIS_PORT", "VECTOR_DIM", "STREAM_KEY", "PRODUCER_INTERVAL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, loaded, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.False(t, loaded)

	assert.Equal(t, "localhost", cfg.RedisConfig.Host)
	assert.Equal(t, "6379", cfg.RedisConfig.Port)
	assert.Empty(t, cfg.RedisConfig.URL)
	assert.Equal(t, 384, cfg.EmbeddingConfig.Dimension)
	assert.Equal(t, "all-minilm", cfg.EmbeddingConfig.Model)
	assert.Equal(t, 3000, cfg.EvictionConfig.KeyCount)
	assert.Equal(t, 327680, cfg.EvictionConfig.ValueBytes)
	assert.Equal(t, "user_activity_log", cfg.StreamConfig.Key)
	assert.Equal(t, time.Second, cfg.StreamConfig.ProducerInterval)
	assert.Equal(t, 2*time.Second, cfg.StreamConfig.ConsumerBlock)
	assert.True(t, cfg.WalkthroughConfig.ClearScreen)
	assert.Equal(t, "stderr", cfg.LogConfig.Output)
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	os.Unsetenv("REDIS_HOST")
	t.Setenv("VECTOR_DIM", "768")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("REDIS_HOST=redis.internal\nVECTOR_DIM=1024\n"), 0o600))

	cfg, loaded, err := LoadConfig(envFile)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "redis.internal", cfg.RedisConfig.Host)
	// process environment wins over the file
	assert.Equal(t, 768, cfg.EmbeddingConfig.Dimension)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("PRODUCER_INTERVAL", "soon")

	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error processing environment configuration")
}

func TestLoadConfigRejectsNonPositiveStreamPacing(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{key: "PRODUCER_INTERVAL", value: "0s", want: "PRODUCER_INTERVAL must be positive"},
		{key: "CONSUMER_BLOCK", value: "0", want: "CONSUMER_BLOCK must be positive"},
		{key: "CONSUMER_BLOCK", value: "-1s", want: "CONSUMER_BLOCK must be positive"},
		{key: "CONSUMER_COUNT", value: "0", want: "CONSUMER_COUNT must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid stream configuration")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
