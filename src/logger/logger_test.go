package logger

import (
	"os"
	"path/filepath"
	"testing"

	"redis_walkthrough/src/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "walkthrough.log")
	err := InitLogger(model.LogConfig{
		Level:    "debug",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	Info().Str("step", "ping").Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"step":"ping"`)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	err := InitLogger(model.LogConfig{Level: "loud", Output: "stderr"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level 'loud'")
}

func TestInitLoggerRejectsUnknownOutput(t *testing.T) {
	err := InitLogger(model.LogConfig{Level: "info", Output: "syslog"})
	require.Error(t, err)
}

func TestHelpersRespectLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walkthrough.log")
	require.NoError(t, InitLogger(model.LogConfig{
		Level:    "warn",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	}))
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	Debug().Msg("hidden debug")
	Info().Msg("hidden info")
	Warn().Msg("input closed")
	Error().Str("step", "insert").Msg("step failed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"step":"insert"`)
}
