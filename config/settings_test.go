package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", s.LogLevel)
	assert.True(t, s.LogPretty)
	assert.Equal(t, 600, s.Window.Width)
	assert.Equal(t, 600, s.Window.Height)
	assert.Equal(t, 2000, s.Particles.Count)
	assert.Equal(t, "assets/earth-blue-marble.jpg", s.Assets.GlobeImage)
	assert.Equal(t, "assets/earth-topology.png", s.Assets.BumpImage)
	assert.Equal(t, "assets/earth-clouds.png", s.Assets.CloudImage)
	assert.Equal(t, SourceMock, s.Telemetry.Source)
	assert.Equal(t, 5*time.Minute, s.Telemetry.Interval)
	assert.False(t, s.Telemetry.Serve)
	assert.False(t, s.Metrics.Enabled)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := writeConfig(t, `{
		"logLevel": "debug",
		"window": { "width": 800 },
		"particles": { "count": 500 },
		"assets": { "cloudImage": "" },
		"telemetry": { "source": "websocket", "url": "ws://feed:1/ws", "interval": "30s" },
		"metrics": { "enabled": true }
	}`)

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 800, s.Window.Width)
	assert.Equal(t, 600, s.Window.Height, "unset keys keep their defaults")
	assert.Equal(t, 500, s.Particles.Count)
	assert.Empty(t, s.Assets.CloudImage)
	assert.Equal(t, SourceWebSocket, s.Telemetry.Source)
	assert.Equal(t, "ws://feed:1/ws", s.Telemetry.URL)
	assert.Equal(t, 30*time.Second, s.Telemetry.Interval)
	assert.True(t, s.Metrics.Enabled)
	assert.Equal(t, ":9108", s.Metrics.Listen)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FIELDGLOBE_PARTICLES_COUNT", "42")
	t.Setenv("FIELDGLOBE_LOGLEVEL", "warn")

	s, err := Load(writeConfig(t, `{"particles": {"count": 100}}`))
	require.NoError(t, err)
	assert.Equal(t, 42, s.Particles.Count)
	assert.Equal(t, "warn", s.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{"logLevel": `, "error reading config file"},
		{"bad window", `{"window": {"width": 0}}`, "invalid window size"},
		{"bad particles", `{"particles": {"count": -1}}`, "invalid particle count"},
		{"unknown source", `{"telemetry": {"source": "carrier-pigeon"}}`, "unknown telemetry source"},
		{"websocket without url", `{"telemetry": {"source": "websocket", "url": ""}}`, "telemetry.url"},
		{"bad interval", `{"telemetry": {"interval": "0s"}}`, "invalid telemetry interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
