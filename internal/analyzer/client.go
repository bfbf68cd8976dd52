// Package analyzer is the HTTP transport to the local permission analyzer
// service. It performs exactly one request per hook invocation and reports
// failures as distinct error kinds so the orchestrator can decide between
// failing open and failing closed; the client itself applies no fallback
// policy.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/wartush/pkg/config"
	"github.com/smykla-skalski/wartush/pkg/hook"
)

const (
	// DefaultEndpoint is the analyzer URL used when none is configured.
	DefaultEndpoint = "http://localhost:5050/api/analyze"

	// DefaultTimeout bounds the single analyzer request.
	DefaultTimeout = 30 * time.Second
)

var (
	// ErrUnavailable is returned when the analyzer is not running at all
	// (connection refused). The orchestrator treats this as a soft failure.
	ErrUnavailable = errors.New("analyzer service unavailable")

	// ErrTimeout is returned when the analyzer did not answer in time.
	ErrTimeout = errors.New("analyzer service timed out")

	// ErrInvalidResponse is returned when the analyzer answered 200 with a
	// body that is not a JSON object.
	ErrInvalidResponse = errors.New("analyzer returned a malformed response")
)

// StatusError reports a non-200 analyzer response.
type StatusError struct {
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("analyzer service error %d", e.StatusCode)
}

// Client sends hook payloads to the analyzer service.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// NewClient creates a Client from analyzer configuration. Defaults are
// applied for a missing URL or timeout.
func NewClient(cfg *config.AnalyzerConfig) *Client {
	endpoint := DefaultEndpoint
	apiKey := ""
	timeout := DefaultTimeout

	if cfg != nil {
		if cfg.URL != "" {
			endpoint = cfg.URL
		}

		apiKey = cfg.APIKey

		if cfg.Timeout > 0 {
			timeout = cfg.Timeout.Std()
		}
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		apiKey:     apiKey,
	}
}

// NewClientWithHTTPClient creates a Client with an injected http.Client.
func NewClientWithHTTPClient(httpClient *http.Client, endpoint, apiKey string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		apiKey:     apiKey,
	}
}

// Endpoint returns the configured analyzer URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Analyze POSTs the payload to the analyzer and returns its verdict. The
// loopback policy is re-verified here even though the orchestrator already
// checked it.
func (c *Client) Analyze(ctx context.Context, input hook.Input) (*hook.Verdict, error) {
	if err := CheckEndpoint(c.endpoint); err != nil {
		return nil, err
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize payload")
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.endpoint, bytes.NewReader(body),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on response body

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	return decodeVerdict(resp.Body)
}

// classifyTransportError maps a request failure onto the error taxonomy.
func classifyTransportError(err error) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return errors.CombineErrors(ErrUnavailable, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return errors.CombineErrors(ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.CombineErrors(ErrTimeout, err)
	}

	return errors.Wrap(err, "analyzer request failed")
}

// decodeVerdict parses the response body, requiring a JSON object. Unknown
// fields are tolerated; missing ones keep their defaults.
func decodeVerdict(body io.Reader) (*hook.Verdict, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	// Reject non-object bodies (arrays, scalars, null) up front; a struct
	// unmarshal would silently accept null.
	var object map[string]json.RawMessage
	if unmarshalErr := json.Unmarshal(raw, &object); unmarshalErr != nil || object == nil {
		return nil, errors.CombineErrors(ErrInvalidResponse, unmarshalErr)
	}

	var verdict hook.Verdict
	if unmarshalErr := json.Unmarshal(raw, &verdict); unmarshalErr != nil {
		return nil, errors.CombineErrors(ErrInvalidResponse, unmarshalErr)
	}

	return &verdict, nil
}
