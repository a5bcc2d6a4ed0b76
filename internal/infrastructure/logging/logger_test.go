package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"loan-portal/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONEncoding(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.LoggerConfig{Level: "warn", Encoding: "json"})

	logger.Info("dropped")
	logger.Warn("kept", "owner", "0712345678")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "0712345678", entry["owner"])
}

func TestNewTextEncoding(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.LoggerConfig{Level: "info", Encoding: "text"})

	logger.Info("hello", "step", 1)
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "step=1")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
