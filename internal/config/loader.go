// Package config loads and validates wartush configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-skalski/wartush/internal/analyzer"
	"github.com/smykla-skalski/wartush/pkg/config"
)

// ErrInvalidTOML is returned when the TOML config file cannot be parsed.
var ErrInvalidTOML = errors.New("invalid TOML")

const (
	// GlobalConfigDir is the directory under $HOME holding configuration
	// and logs.
	GlobalConfigDir = ".wartush"

	// GlobalConfigFile is the name of the global configuration file.
	GlobalConfigFile = "config.toml"

	// EnvPrefix qualifies wartush environment variables.
	EnvPrefix = "WARTUSH_"

	// Legacy environment variable names honored for drop-in compatibility
	// with existing analyzer deployments.
	LegacyURLEnv    = "CLAUDE_ANALYZER_URL"
	LegacyAPIKeyEnv = "CLAUDE_ANALYZER_API_KEY"

	defaultTimeoutStr = "30s"
	defaultLogFile    = "hooks.log"
)

// Loader loads configuration with the usual precedence:
// defaults → global TOML → legacy env vars → WARTUSH_* env vars → flags.
type Loader struct {
	k       *koanf.Koanf
	homeDir string
}

// NewLoader creates a Loader rooted at the user's home directory.
func NewLoader() (*Loader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get home directory")
	}

	return NewLoaderWithHome(homeDir), nil
}

// NewLoaderWithHome creates a Loader with a custom home directory (for
// testing).
func NewLoaderWithHome(homeDir string) *Loader {
	return &Loader{
		k:       koanf.New("."),
		homeDir: homeDir,
	}
}

// GlobalConfigPath returns the path of the global configuration file.
func (l *Loader) GlobalConfigPath() string {
	return filepath.Join(l.homeDir, GlobalConfigDir, GlobalConfigFile)
}

// Load resolves the configuration once and validates it. flags carries
// CLI-level overrides as dotted koanf paths (highest precedence).
func (l *Loader) Load(flags map[string]any) (*config.Config, error) {
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(l.defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := l.loadTOMLFile(l.GlobalConfigPath()); err != nil {
		return nil, errors.Wrap(err, "failed to load global config")
	}

	if err := l.k.Load(confmap.Provider(legacyEnv(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load legacy env vars")
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if len(flags) > 0 {
		if err := l.k.Load(confmap.Provider(flags, "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg config.Config

	unmarshalConf := koanf.UnmarshalConf{Tag: "koanf", FlatPaths: false}
	if err := l.k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &cfg, nil
}

// defaults returns the lowest-precedence configuration layer.
func (l *Loader) defaults() map[string]any {
	return map[string]any{
		"analyzer.url":     analyzer.DefaultEndpoint,
		"analyzer.api_key": "",
		"analyzer.timeout": defaultTimeoutStr,
		"log.file":         filepath.Join(l.homeDir, GlobalConfigDir, defaultLogFile),
		"log.debug":        false,
		"log.trace":        false,
	}
}

// loadTOMLFile merges a TOML file into the current state. A missing file is
// not an error; a malformed one is.
func (l *Loader) loadTOMLFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := l.k.Load(file.Provider(path), tomlparser.Parser()); err != nil {
		return errors.CombineErrors(ErrInvalidTOML, err)
	}

	return nil
}

// legacyEnv maps the pre-wartush analyzer variables onto config paths.
func legacyEnv() map[string]any {
	layer := map[string]any{}

	if url := os.Getenv(LegacyURLEnv); url != "" {
		layer["analyzer.url"] = url
	}

	if key := os.Getenv(LegacyAPIKeyEnv); key != "" {
		layer["analyzer.api_key"] = key
	}

	return layer
}

// envTransform maps environment variable names to config paths.
// WARTUSH_ANALYZER_URL → analyzer.url
func envTransform(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", ".")
	// api_key is a single config key, not a nested path.
	key = strings.ReplaceAll(key, "api.key", "api_key")

	return key, value
}
