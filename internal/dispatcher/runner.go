// Package dispatcher wires one hook invocation end to end: read and validate
// stdin, forward to the analyzer, shape the verdict into the event's output,
// and map every failure onto exactly one terminal outcome.
package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/wartush/internal/analyzer"
	"github.com/smykla-skalski/wartush/internal/hookresponse"
	"github.com/smykla-skalski/wartush/internal/parser"
	"github.com/smykla-skalski/wartush/pkg/hook"
	"github.com/smykla-skalski/wartush/pkg/logger"
)

const (
	// ExitSuccess is returned on a clean decision, a pass-through, or a
	// soft failure (analyzer not running).
	ExitSuccess = 0

	// ExitError is returned on configuration, input, or transport errors.
	ExitError = 1
)

// AnalyzerClient is the transport seam the runner drives.
type AnalyzerClient interface {
	// Analyze forwards the payload and returns the analyzer's verdict.
	Analyze(ctx context.Context, input hook.Input) (*hook.Verdict, error)

	// Endpoint returns the configured analyzer URL.
	Endpoint() string
}

// Runner executes a single hook invocation.
type Runner struct {
	client AnalyzerClient
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	log    logger.Logger
}

// NewRunner creates a Runner. out receives protocol JSON only; errOut
// receives human-readable diagnostics.
func NewRunner(
	client AnalyzerClient,
	in io.Reader,
	out, errOut io.Writer,
	log logger.Logger,
) *Runner {
	if log == nil {
		log = logger.NewNoOp()
	}

	return &Runner{
		client: client,
		in:     in,
		out:    out,
		errOut: errOut,
		log:    log,
	}
}

// Run handles one hook event and returns the process exit code.
//
// The failure policy: input and configuration problems block loudly, a
// missing analyzer passes through silently, and a present-but-broken
// analyzer blocks loudly again. An unreachable-but-misconfigured service
// must never be mistaken for "intentionally absent".
func (r *Runner) Run(ctx context.Context, event hook.EventType) int {
	log := r.log.With("event", event.String())

	// Reject a non-loopback endpoint before touching stdin.
	if err := analyzer.CheckEndpoint(r.client.Endpoint()); err != nil {
		log.Error("endpoint rejected", "error", err)
		r.fail("Service URL must be a localhost/loopback address")

		return ExitError
	}

	input, err := parser.NewReader(r.in).Read()
	if err != nil {
		log.Error("input rejected", "error", err)
		r.fail(err.Error())

		return ExitError
	}

	input.SetEventName(event)

	verdict, err := r.client.Analyze(ctx, input)
	if err != nil {
		return r.handleTransportError(log, err)
	}

	if verdict.Passthrough {
		// The analyzer explicitly defers to Claude Code's native flow.
		log.Info("passthrough")
		fmt.Fprintln(r.out, "{}")

		return ExitSuccess
	}

	resp := hookresponse.Format(event, verdict)
	if resp == nil {
		log.Info("no output", "score", verdict.SafetyScore)

		return ExitSuccess
	}

	if err := r.emit(resp); err != nil {
		log.Error("emit failed", "error", err)
		r.fail(err.Error())

		return ExitError
	}

	log.Info("decision emitted", "score", verdict.SafetyScore)

	return ExitSuccess
}

// handleTransportError applies the fail-open/fail-closed policy.
func (r *Runner) handleTransportError(log logger.Logger, err error) int {
	// Connection refused means the analyzer is simply not running: fail
	// open so an optional safety layer never breaks normal operation.
	if errors.Is(err, analyzer.ErrUnavailable) {
		log.Info("analyzer not running, passing through")

		return ExitSuccess
	}

	log.Error("analyzer request failed", "error", err)
	r.fail(err.Error())

	return ExitError
}

// emit writes a single JSON line to stdout.
func (r *Runner) emit(resp *hookresponse.Response) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return errors.Wrap(err, "failed to serialize response")
	}

	if _, err := fmt.Fprintln(r.out, string(raw)); err != nil {
		return errors.Wrap(err, "failed to write response")
	}

	return nil
}

// fail writes a diagnostic to the error channel.
func (r *Runner) fail(msg string) {
	fmt.Fprintf(r.errOut, "ERROR: %s\n", msg)
}
