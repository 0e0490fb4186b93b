// Package config loads fieldglobe settings from an optional JSON file and
// FIELDGLOBE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is looked up in the config directory.
const FileName = "fieldglobe.cfg.json"

type Settings struct {
	LogLevel  string            `mapstructure:"logLevel"`
	LogPretty bool              `mapstructure:"logPretty"`
	Window    WindowSettings    `mapstructure:"window"`
	Particles ParticleSettings  `mapstructure:"particles"`
	Assets    AssetSettings     `mapstructure:"assets"`
	Telemetry TelemetrySettings `mapstructure:"telemetry"`
	Metrics   MetricsSettings   `mapstructure:"metrics"`
}

type WindowSettings struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

type ParticleSettings struct {
	Count int `mapstructure:"count"`
}

// AssetSettings are image paths. An empty CloudImage disables clouds.
type AssetSettings struct {
	GlobeImage string `mapstructure:"globeImage"`
	BumpImage  string `mapstructure:"bumpImage"`
	CloudImage string `mapstructure:"cloudImage"`
}

type TelemetrySettings struct {
	Source   string        `mapstructure:"source"` // mock or websocket
	URL      string        `mapstructure:"url"`
	Interval time.Duration `mapstructure:"interval"`
	Serve    bool          `mapstructure:"serve"`
	Listen   string        `mapstructure:"listen"`
}

type MetricsSettings struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// Telemetry source kinds
const (
	SourceMock      = "mock"
	SourceWebSocket = "websocket"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logPretty", true)

	v.SetDefault("window.width", 600)
	v.SetDefault("window.height", 600)
	v.SetDefault("window.title", "Earth Field Visualization")

	v.SetDefault("particles.count", 2000)

	v.SetDefault("assets.globeImage", "assets/earth-blue-marble.jpg")
	v.SetDefault("assets.bumpImage", "assets/earth-topology.png")
	v.SetDefault("assets.cloudImage", "assets/earth-clouds.png")

	v.SetDefault("telemetry.source", SourceMock)
	v.SetDefault("telemetry.url", "ws://localhost:8090/ws")
	v.SetDefault("telemetry.interval", "5m")
	v.SetDefault("telemetry.serve", false)
	v.SetDefault("telemetry.listen", ":8090")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen", ":9108")
}

// Load reads FileName from configDir if present, applies environment
// overrides (window.width becomes FIELDGLOBE_WINDOW_WIDTH) and fills
// everything else with defaults. A missing file is not an error.
func Load(configDir string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FIELDGLOBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(FileName)
	v.SetConfigType("json")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects settings the host program cannot start with.
func (s Settings) Validate() error {
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", s.Window.Width, s.Window.Height)
	}
	if s.Particles.Count <= 0 {
		return fmt.Errorf("invalid particle count %d", s.Particles.Count)
	}
	switch s.Telemetry.Source {
	case SourceMock:
	case SourceWebSocket:
		if s.Telemetry.URL == "" {
			return errors.New("telemetry.url is required for the websocket source")
		}
	default:
		return fmt.Errorf("unknown telemetry source %q", s.Telemetry.Source)
	}
	if s.Telemetry.Interval <= 0 {
		return fmt.Errorf("invalid telemetry interval %s", s.Telemetry.Interval)
	}
	return nil
}
