package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "warn", Format: "json", Out: &buf})

	logger.Info().Msg("hidden")
	logger.Warn().Str("field", "d_small_mm").Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "d_small_mm", line["field"])
	assert.Contains(t, line, "time")
}

func TestNew_ConsoleDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "bogus", Out: &buf})

	logger.Debug().Msg("hidden")
	logger.Info().Msg("listening")

	out := buf.String()
	assert.Contains(t, out, "listening")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "{")
}
