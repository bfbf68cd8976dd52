package dispatcher_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/wartush/internal/analyzer"
	"github.com/smykla-skalski/wartush/internal/dispatcher"
	"github.com/smykla-skalski/wartush/pkg/hook"
)

// fakeClient stubs the analyzer transport seam.
type fakeClient struct {
	endpoint string
	verdict  *hook.Verdict
	err      error
	gotInput hook.Input
	calls    int
}

func (f *fakeClient) Analyze(_ context.Context, input hook.Input) (*hook.Verdict, error) {
	f.calls++
	f.gotInput = input

	if f.err != nil {
		return nil, f.err
	}

	return f.verdict, nil
}

func (f *fakeClient) Endpoint() string {
	return f.endpoint
}

// trackingReader records whether the input stream was ever consumed.
type trackingReader struct {
	inner io.Reader
	read  bool
}

func (t *trackingReader) Read(p []byte) (int, error) {
	t.read = true

	return t.inner.Read(p)
}

const loopbackEndpoint = "http://localhost:5050/api/analyze"

var _ = Describe("Runner", func() {
	var (
		client *fakeClient
		stdin  *trackingReader
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	)

	BeforeEach(func() {
		client = &fakeClient{endpoint: loopbackEndpoint, verdict: &hook.Verdict{}}
		stdin = &trackingReader{inner: strings.NewReader(`{"tool_name": "Bash"}`)}
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
	})

	run := func(event hook.EventType) int {
		r := dispatcher.NewRunner(client, stdin, stdout, stderr, nil)

		return r.Run(context.Background(), event)
	}

	Describe("endpoint policy", func() {
		It("fails before reading stdin when the endpoint is not loopback", func() {
			client.endpoint = "http://evil.example.com/api/analyze"

			code := run(hook.PreToolUse)

			Expect(code).To(Equal(dispatcher.ExitError))
			Expect(stderr.String()).To(ContainSubstring("localhost/loopback"))
			Expect(stdin.read).To(BeFalse())
			Expect(client.calls).To(BeZero())
			Expect(stdout.String()).To(BeEmpty())
		})
	})

	Describe("input failures", func() {
		It("blocks on malformed input without calling the analyzer", func() {
			stdin.inner = strings.NewReader(`not json`)

			code := run(hook.PreToolUse)

			Expect(code).To(Equal(dispatcher.ExitError))
			Expect(stderr.String()).To(HavePrefix("ERROR: "))
			Expect(client.calls).To(BeZero())
			Expect(stdout.String()).To(BeEmpty())
		})

		It("blocks on oversized input without calling the analyzer", func() {
			stdin.inner = strings.NewReader(
				`{"k":"` + strings.Repeat("x", 1_000_001) + `"}`,
			)

			code := run(hook.PreToolUse)

			Expect(code).To(Equal(dispatcher.ExitError))
			Expect(stderr.String()).To(ContainSubstring("maximum size"))
			Expect(client.calls).To(BeZero())
		})

		It("blocks on an invalid session_id", func() {
			stdin.inner = strings.NewReader(
				`{"session_id": "` + strings.Repeat("a", 200) + `"}`,
			)

			code := run(hook.PreToolUse)

			Expect(code).To(Equal(dispatcher.ExitError))
			Expect(client.calls).To(BeZero())
		})
	})

	Describe("the happy path", func() {
		It("injects the event name before transport", func() {
			client.verdict = &hook.Verdict{SafetyScore: 95}

			run(hook.PreToolUse)

			Expect(client.gotInput).
				To(HaveKeyWithValue("hookEventName", "PreToolUse"))
			Expect(client.gotInput).To(HaveKeyWithValue("tool_name", "Bash"))
		})

		It("emits the formatted decision as one JSON line", func() {
			client.verdict = &hook.Verdict{SafetyScore: 95}

			code := run(hook.PreToolUse)

			Expect(code).To(Equal(dispatcher.ExitSuccess))
			Expect(stderr.String()).To(BeEmpty())

			var resp map[string]any
			Expect(json.Unmarshal(stdout.Bytes(), &resp)).To(Succeed())

			out, ok := resp["hookSpecificOutput"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(out).To(HaveKeyWithValue("permissionDecision", "allow"))
		})

		It("stays silent for log-only events", func() {
			for _, event := range []hook.EventType{
				hook.PostToolUseFailure, hook.Stop, hook.UserPromptSubmit,
			} {
				stdin.inner = strings.NewReader(`{"tool_name": "Bash"}`)
				stdout.Reset()

				code := run(event)

				Expect(code).To(Equal(dispatcher.ExitSuccess), "event: %s", event)
				Expect(stdout.String()).To(BeEmpty(), "event: %s", event)
			}
		})
	})

	Describe("passthrough", func() {
		It("emits a bare {} and succeeds regardless of other verdict fields", func() {
			client.verdict = &hook.Verdict{
				Passthrough: true,
				AutoApprove: false,
				SafetyScore: 1,
				Reasoning:   "ignored",
			}

			code := run(hook.PermissionRequest)

			Expect(code).To(Equal(dispatcher.ExitSuccess))
			Expect(stdout.String()).To(Equal("{}\n"))
			Expect(stderr.String()).To(BeEmpty())
		})
	})

	Describe("transport failures", func() {
		It("fails open when the analyzer is not running", func() {
			server := httptest.NewServer(http.NotFoundHandler())
			url := server.URL
			server.Close()

			real := analyzer.NewClientWithHTTPClient(http.DefaultClient, url, "")
			r := dispatcher.NewRunner(real, stdin, stdout, stderr, nil)

			for _, event := range hook.Events {
				stdin.inner = strings.NewReader(`{"tool_name": "Bash"}`)

				code := r.Run(context.Background(), event)

				Expect(code).To(Equal(dispatcher.ExitSuccess), "event: %s", event)
				Expect(stdout.String()).To(BeEmpty(), "event: %s", event)
				Expect(stderr.String()).To(BeEmpty(), "event: %s", event)
			}
		})

		It("fails closed on an analyzer HTTP error", func() {
			client.err = &analyzer.StatusError{StatusCode: http.StatusInternalServerError}

			code := run(hook.PreToolUse)

			Expect(code).To(Equal(dispatcher.ExitError))
			Expect(stderr.String()).To(ContainSubstring("500"))
			Expect(stdout.String()).To(BeEmpty())
		})

		It("fails closed on a timeout", func() {
			client.err = analyzer.ErrTimeout

			code := run(hook.PreToolUse)

			Expect(code).To(Equal(dispatcher.ExitError))
			Expect(stderr.String()).To(ContainSubstring("timed out"))
		})

		It("fails closed on a malformed analyzer response", func() {
			client.err = analyzer.ErrInvalidResponse

			code := run(hook.PreToolUse)

			Expect(code).To(Equal(dispatcher.ExitError))
			Expect(stderr.String()).NotTo(BeEmpty())
		})
	})
})
