package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "shadowscribe.log")

	logger, closer, err := New("info", file)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("cmp", "test").Msg("visible")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"message":"visible"`)
	assert.Contains(t, out, `"cmp":"test"`)
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestNewAppends(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")

	for _, msg := range []string{"first", "second"} {
		logger, closer, err := New("debug", file)
		require.NoError(t, err)
		logger.Info().Msg(msg)
		closer()
	}

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, closer, err := New("loud", "")
	require.Error(t, err)
	require.NotNil(t, closer)
}

func TestNewLevel(t *testing.T) {
	logger, _, err := New("warn", "")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}
