package main

import (
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/wartush/pkg/hook"
)

// newEventCommand binds one hook lifecycle event to the runner. Every event
// command behaves identically apart from the event name it forwards and the
// output shape the formatter picks.
func newEventCommand(use string, event hook.EventType, short string, aliases ...string) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   short,
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			runEvent(cmd, event)
		},
	}
}

func init() {
	rootCmd.AddCommand(
		// The mcp alias mirrors the separate MCP entrypoint some analyzer
		// deployments register; both carry PermissionRequest semantics.
		newEventCommand(
			"permission-request", hook.PermissionRequest,
			"Gate a tool permission request (allow/deny)",
			"mcp",
		),
		newEventCommand(
			"pre-tool-use", hook.PreToolUse,
			"Gate a tool before it executes (allow/deny/ask)",
		),
		newEventCommand(
			"post-tool-use", hook.PostToolUse,
			"Inject context after a tool executed",
		),
		newEventCommand(
			"post-tool-use-failure", hook.PostToolUseFailure,
			"Record a failed tool execution",
		),
		newEventCommand(
			"stop", hook.Stop,
			"Record the end of a Claude response",
		),
		newEventCommand(
			"user-prompt-submit", hook.UserPromptSubmit,
			"Record a submitted user prompt",
		),
	)
}
