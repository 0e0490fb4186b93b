// Package logging builds the process logger.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config level name to a zerolog level. Unknown names
// fall back to info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(name) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup returns a timestamped logger writing to out, as colored console
// lines when pretty is set and as JSON otherwise.
func Setup(out io.Writer, level string, pretty bool) zerolog.Logger {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	w := out
	if pretty {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
	logger.Debug().Str("loglevel", logger.GetLevel().String()).Msg("Logging set up")
	return logger
}

// Sampled limits logger to burst entries per period. Past the burst one in
// every next entries gets through, or none when next is 0. Use it for
// messages that can repeat every frame.
func Sampled(logger zerolog.Logger, burst uint32, period time.Duration, next uint32) zerolog.Logger {
	sampler := &zerolog.BurstSampler{Burst: burst, Period: period}
	if next > 0 {
		sampler.NextSampler = &zerolog.BasicSampler{N: next}
	}
	return logger.Sample(sampler)
}
