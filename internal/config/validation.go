package config

import (
	"net/url"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/wartush/pkg/config"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyValue is returned when a required value is empty.
	ErrEmptyValue = errors.New("empty value not allowed")
)

// Validate checks configuration semantics. The loopback policy on the
// analyzer URL is enforced later by the transport layer; here we only
// require a well-formed URL so misconfiguration fails before stdin is read.
func Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "config is nil")
	}

	var validationErrors []error

	if cfg.Analyzer == nil || cfg.Analyzer.URL == "" {
		validationErrors = append(
			validationErrors,
			errors.WithMessage(ErrEmptyValue, "analyzer.url"),
		)
	} else if _, err := url.Parse(cfg.Analyzer.URL); err != nil {
		validationErrors = append(
			validationErrors,
			errors.Wrap(err, "analyzer.url"),
		)
	}

	if cfg.Analyzer != nil && cfg.Analyzer.Timeout < 0 {
		validationErrors = append(
			validationErrors,
			errors.WithMessage(config.ErrNegativeDuration, "analyzer.timeout"),
		)
	}

	if len(validationErrors) > 0 {
		combined := ErrInvalidConfig
		for _, err := range validationErrors {
			combined = errors.CombineErrors(combined, err)
		}

		return combined
	}

	return nil
}
