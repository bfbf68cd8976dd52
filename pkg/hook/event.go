// Package hook provides core types for Claude Code analyzer hooks.
package hook

// EventType identifies the hook lifecycle event being handled. The string
// value is the wire value written to the hookEventName field.
type EventType string

const (
	// PermissionRequest is triggered when Claude Code asks for permission to
	// run a tool. Covers both shell and MCP tool requests.
	PermissionRequest EventType = "PermissionRequest"

	// PreToolUse is triggered before a tool executes. The primary safety
	// gate: can allow, deny, or escalate to the user.
	PreToolUse EventType = "PreToolUse"

	// PostToolUse is triggered after a tool executed successfully. Can inject
	// context but cannot undo the operation.
	PostToolUse EventType = "PostToolUse"

	// PostToolUseFailure is triggered when a tool operation fails.
	PostToolUseFailure EventType = "PostToolUseFailure"

	// Stop is triggered when Claude finishes responding.
	Stop EventType = "Stop"

	// UserPromptSubmit is triggered when the user submits a prompt.
	UserPromptSubmit EventType = "UserPromptSubmit"
)

// Events lists every event type the hook binary handles.
var Events = []EventType{
	PermissionRequest,
	PreToolUse,
	PostToolUse,
	PostToolUseFailure,
	Stop,
	UserPromptSubmit,
}

// String returns the wire name of the event.
func (e EventType) String() string {
	return string(e)
}

// Gating reports whether the event can influence whether the action runs.
// Non-gating events are informational only and always produce empty output.
func (e EventType) Gating() bool {
	switch e {
	case PermissionRequest, PreToolUse:
		return true
	case PostToolUse, PostToolUseFailure, Stop, UserPromptSubmit:
		return false
	}

	return false
}
