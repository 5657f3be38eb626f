package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", false)

	log.Info().Msg("dropped")
	log.Warn().Str("project_id", "p1").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "p1", entry["project_id"])
	assert.Equal(t, "warn", entry["level"])
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "shouting", false)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNew_DevForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", true)
	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())
}
