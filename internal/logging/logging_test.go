package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"Warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, "warn", false)

	logger.Info().Msg("dropped")
	logger.Warn().Str("asset", "clouds").Msg("Cloud texture unavailable")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "clouds", entry["asset"])
	assert.Equal(t, "Cloud texture unavailable", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestSetup_Pretty(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, "info", true)
	logger.Info().Msg("Scene running")

	out := buf.String()
	assert.Contains(t, out, "Scene running")
	assert.False(t, json.Valid([]byte(strings.TrimSpace(out))))
}

func TestSampled(t *testing.T) {
	var buf bytes.Buffer
	logger := Sampled(Setup(&buf, "info", false), 2, time.Hour, 0)
	for i := 0; i < 10; i++ {
		logger.Error().Int("i", i).Msg("Tick failed")
	}
	assert.Equal(t, 2, strings.Count(buf.String(), "Tick failed"))

	buf.Reset()
	logger = Sampled(Setup(&buf, "info", false), 1, time.Hour, 4)
	for i := 0; i < 9; i++ {
		logger.Error().Int("i", i).Msg("Tick failed")
	}
	// one burst entry, then entries 1 and 5 of the remaining eight
	assert.Equal(t, 3, strings.Count(buf.String(), "Tick failed"))
}
