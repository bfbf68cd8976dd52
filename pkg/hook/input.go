package hook

// EventNameField is the key injected into the payload before it is forwarded
// to the analyzer, so the service knows which lifecycle event fired.
const EventNameField = "hookEventName"

// Input is the hook payload as delivered by Claude Code on stdin. It is an
// open map: session_id and tool_name are the only fields this layer inspects,
// everything else is forwarded to the analyzer untouched.
type Input map[string]any

// SessionID returns the session_id field when it is a string.
func (in Input) SessionID() (string, bool) {
	s, ok := in["session_id"].(string)

	return s, ok
}

// ToolName returns the tool_name field when it is a string.
func (in Input) ToolName() (string, bool) {
	s, ok := in["tool_name"].(string)

	return s, ok
}

// SetEventName records the lifecycle event on the payload. This is the single
// mutation the mediation layer performs before transport.
func (in Input) SetEventName(event EventType) {
	in[EventNameField] = event.String()
}
