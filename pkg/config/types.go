// Package config provides configuration schema types for wartush.
package config

import (
	"time"

	"github.com/cockroachdb/errors"
)

// ErrNegativeDuration is returned when a negative duration is provided.
var ErrNegativeDuration = errors.New("duration must be non-negative")

// Duration wraps time.Duration for TOML and env parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(err, "invalid duration")
	}

	if dur < 0 {
		return errors.Wrapf(ErrNegativeDuration, "got %s", dur)
	}

	*d = Duration(dur)

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration, resolved once per invocation and passed
// down so every component stays independently testable.
type Config struct {
	Analyzer *AnalyzerConfig `koanf:"analyzer"`
	Log      *LogConfig      `koanf:"log"`
}

// AnalyzerConfig configures the analyzer service endpoint.
type AnalyzerConfig struct {
	// URL is the analyzer endpoint. Must resolve to a loopback host; the
	// transport layer rejects anything else before any network I/O.
	URL string `koanf:"url"`

	// APIKey is sent as X-Api-Key when non-empty.
	APIKey string `koanf:"api_key"`

	// Timeout bounds the single analyzer request.
	Timeout Duration `koanf:"timeout"`
}

// LogConfig configures the invocation log file.
type LogConfig struct {
	// File is the log file path. Empty disables file logging.
	File string `koanf:"file"`

	// Debug enables info-level logging.
	Debug bool `koanf:"debug"`

	// Trace enables debug-level logging.
	Trace bool `koanf:"trace"`
}
