package hookresponse

import (
	"fmt"

	"github.com/smykla-skalski/wartush/pkg/hook"
)

const (
	// MaxReasonLength caps reasoning text embedded in decisions.
	MaxReasonLength = 1000

	// MaxContextLength caps post-execution context injected into the turn.
	MaxContextLength = 500

	// DefaultThreshold is the allow bound used when the analyzer does not
	// state one. It is the hook's own default, not the analyzer's.
	DefaultThreshold = 85

	// DenyFloor is the score below which PreToolUse denies outright instead
	// of escalating to the user. Always the hook's own constant.
	DenyFloor = 30

	// DefaultDenyReason is used when a PermissionRequest deny carries no
	// reasoning.
	DefaultDenyReason = "Denied"

	// DefaultReviewReason is used when a non-allow PreToolUse outcome
	// carries no reasoning.
	DefaultReviewReason = "Requires review"
)

// Format maps a verdict onto the output structure for the given event.
// Returns nil when the event produces no output. Formatting is pure: the
// same verdict always yields the same response, and missing verdict fields
// fall back to documented defaults rather than failing.
func Format(event hook.EventType, verdict *hook.Verdict) *Response {
	if verdict == nil {
		verdict = &hook.Verdict{}
	}

	switch event {
	case hook.PermissionRequest:
		return formatPermissionRequest(verdict)
	case hook.PreToolUse:
		return formatPreToolUse(verdict)
	case hook.PostToolUse:
		return formatPostToolUse(verdict)
	case hook.PostToolUseFailure, hook.Stop, hook.UserPromptSubmit:
		// Informational events never gate behavior.
		return nil
	}

	return nil
}

// formatPermissionRequest is the binary allow/deny gate driven by
// autoApprove.
func formatPermissionRequest(verdict *hook.Verdict) *Response {
	decision := &Decision{Behavior: BehaviorAllow}

	if !verdict.AutoApprove {
		decision.Behavior = BehaviorDeny
		decision.Message = fmt.Sprintf(
			"Safety score %v below threshold %v. Reason: %s",
			verdict.SafetyScore,
			thresholdOrZero(verdict),
			truncate(reasonOrDefault(verdict.Reasoning, DefaultDenyReason), MaxReasonLength),
		)
		decision.Interrupt = verdict.Interrupt
	}

	return &Response{
		HookSpecificOutput: &SpecificOutput{
			HookEventName: hook.PermissionRequest.String(),
			Decision:      decision,
		},
	}
}

// formatPreToolUse is the three-way gate: the analyzer-supplied threshold
// (default DefaultThreshold) drives the allow bound, DenyFloor the deny
// bound, everything between escalates to the user.
func formatPreToolUse(verdict *hook.Verdict) *Response {
	threshold := float64(DefaultThreshold)
	if verdict.Threshold != nil {
		threshold = *verdict.Threshold
	}

	var decision string

	switch {
	case verdict.SafetyScore >= threshold:
		decision = BehaviorAllow
	case verdict.SafetyScore < DenyFloor:
		decision = BehaviorDeny
	default:
		decision = BehaviorAsk
	}

	out := &SpecificOutput{
		HookEventName:      hook.PreToolUse.String(),
		PermissionDecision: decision,
	}

	if decision != BehaviorAllow {
		out.PermissionDecisionReason = truncate(
			reasonOrDefault(verdict.Reasoning, DefaultReviewReason), MaxReasonLength,
		)
	}

	return &Response{HookSpecificOutput: out}
}

// formatPostToolUse injects the analyzer's suggestion as context; the action
// already happened, so there is no decision to make.
func formatPostToolUse(verdict *hook.Verdict) *Response {
	if verdict.Suggestion == "" {
		return nil
	}

	return &Response{
		HookSpecificOutput: &SpecificOutput{
			HookEventName:     hook.PostToolUse.String(),
			AdditionalContext: truncate(verdict.Suggestion, MaxContextLength),
		},
	}
}

// thresholdOrZero renders the analyzer's threshold for deny messages,
// defaulting to 0 when unstated.
func thresholdOrZero(verdict *hook.Verdict) float64 {
	if verdict.Threshold == nil {
		return 0
	}

	return *verdict.Threshold
}

func reasonOrDefault(reason, fallback string) string {
	if reason == "" {
		return fallback
	}

	return reason
}

// truncate cuts s to at most max characters (runes, not bytes).
func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}

	return string(runes[:maxChars])
}
