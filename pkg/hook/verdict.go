package hook

// Verdict is the analyzer's response to a forwarded hook payload. Every field
// is optional; the zero value of each is its documented default, so a verdict
// decoded from `{}` is valid and means "no opinion".
type Verdict struct {
	// AutoApprove approves a PermissionRequest outright.
	AutoApprove bool `json:"autoApprove"`

	// SafetyScore is the analyzer's 0-100 safety assessment.
	SafetyScore float64 `json:"safetyScore"`

	// Threshold is the analyzer's stated allow threshold for this call.
	// Nil when the analyzer did not state one; formatters substitute their
	// own default. A pointer so an explicit 0 stays distinguishable.
	Threshold *float64 `json:"threshold"`

	// Reasoning is the human-readable explanation behind the scores.
	Reasoning string `json:"reasoning"`

	// Interrupt asks the agent to interrupt the current turn on deny.
	Interrupt bool `json:"interrupt"`

	// Suggestion is post-execution advice injected as additional context.
	Suggestion string `json:"suggestion"`

	// Passthrough defers the decision entirely to Claude Code's native
	// permission flow; the hook emits {} and exits clean.
	Passthrough bool `json:"passthrough"`
}
