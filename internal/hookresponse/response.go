// Package hookresponse maps analyzer verdicts onto the per-event JSON
// structures Claude Code expects on stdout.
package hookresponse

// Response is the top-level JSON structure written to stdout. A nil Response
// means "no output": the hook stays silent and Claude Code applies its
// native behavior.
type Response struct {
	HookSpecificOutput *SpecificOutput `json:"hookSpecificOutput,omitempty"`
}

// SpecificOutput carries the event-specific decision payload. Field names
// are the wire contract; exactly one event family's fields is populated.
type SpecificOutput struct {
	HookEventName string `json:"hookEventName"`

	// Decision is the PermissionRequest envelope.
	Decision *Decision `json:"decision,omitempty"`

	// PermissionDecision is the PreToolUse three-way outcome:
	// "allow", "deny", or "ask".
	PermissionDecision string `json:"permissionDecision,omitempty"`

	// PermissionDecisionReason is shown to the user on deny/ask.
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`

	// AdditionalContext is post-execution advice injected into the turn.
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// Decision is the PermissionRequest allow/deny envelope.
type Decision struct {
	// Behavior is "allow" or "deny".
	Behavior string `json:"behavior"`

	// Message explains a deny to the user.
	Message string `json:"message,omitempty"`

	// Interrupt asks the agent to interrupt the current turn.
	Interrupt bool `json:"interrupt,omitempty"`
}

// Permission decision values shared by both gating events.
const (
	BehaviorAllow = "allow"
	BehaviorDeny  = "deny"
	BehaviorAsk   = "ask"
)
