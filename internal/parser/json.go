// Package parser reads and validates the hook payload arriving on stdin.
//
// Stdin is the primary abuse surface of the hook: oversized bodies, non-JSON
// garbage, and spoofed session identifiers all terminate the invocation
// instead of flowing to the analyzer.
package parser

import (
	"encoding/json"
	"io"
	"regexp"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"

	"github.com/smykla-skalski/wartush/pkg/hook"
)

const (
	// MaxInputSize caps the payload read from stdin, in bytes.
	MaxInputSize = 1_000_000

	// MaxSessionIDLength bounds the session_id field.
	MaxSessionIDLength = 128

	// MaxToolNameLength bounds the tool_name field.
	MaxToolNameLength = 256
)

// sessionIDPattern is the allowed session_id charset.
var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var (
	// ErrInputTooLarge is returned when stdin exceeds MaxInputSize.
	ErrInputTooLarge = errors.Newf(
		"input exceeds maximum size of %s", humanize.Bytes(MaxInputSize),
	)

	// ErrInvalidJSON is returned when the input is not a JSON object.
	ErrInvalidJSON = errors.New("input must be a JSON object")

	// ErrValidation is returned when a payload field fails validation.
	ErrValidation = errors.New("input validation failed")
)

// Reader reads and validates hook payloads from an input stream.
type Reader struct {
	in io.Reader
}

// NewReader creates a Reader over the given stream.
func NewReader(in io.Reader) *Reader {
	return &Reader{in: in}
}

// Read consumes the full payload, enforces the size cap before parsing, and
// validates the fields this layer inspects. The returned Input preserves all
// other fields untouched for forwarding.
func (r *Reader) Read() (hook.Input, error) {
	// Read one byte past the cap so an oversized stream is detected without
	// buffering it whole.
	raw, err := io.ReadAll(io.LimitReader(r.in, MaxInputSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read input")
	}

	if len(raw) > MaxInputSize {
		return nil, ErrInputTooLarge
	}

	var input hook.Input

	if unmarshalErr := json.Unmarshal(raw, &input); unmarshalErr != nil {
		return nil, errors.CombineErrors(ErrInvalidJSON, unmarshalErr)
	}

	if input == nil {
		return nil, errors.WithMessage(ErrInvalidJSON, "top-level value is null")
	}

	if validateErr := Validate(input); validateErr != nil {
		return nil, validateErr
	}

	return input, nil
}

// Validate checks the bounded fields of a hook payload.
func Validate(input hook.Input) error {
	if raw, present := input["session_id"]; present {
		sessionID, ok := raw.(string)
		if !ok {
			return errors.WithMessage(ErrValidation, "invalid session_id type")
		}

		if len(sessionID) > MaxSessionIDLength {
			return errors.WithMessage(ErrValidation, "session_id exceeds maximum length")
		}

		if sessionID != "" && !sessionIDPattern.MatchString(sessionID) {
			return errors.WithMessage(ErrValidation, "session_id contains invalid characters")
		}
	}

	if raw, present := input["tool_name"]; present {
		toolName, ok := raw.(string)
		if !ok || len(toolName) > MaxToolNameLength {
			return errors.WithMessage(ErrValidation, "invalid tool_name")
		}
	}

	return nil
}
