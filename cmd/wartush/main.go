// Package main provides the CLI entry point for wartush, the analyzer-backed
// permission hook for Claude Code.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/wartush/internal/analyzer"
	internalconfig "github.com/smykla-skalski/wartush/internal/config"
	"github.com/smykla-skalski/wartush/internal/dispatcher"
	"github.com/smykla-skalski/wartush/pkg/config"
	"github.com/smykla-skalski/wartush/pkg/hook"
	"github.com/smykla-skalski/wartush/pkg/logger"
)

var (
	analyzerURL string
	apiKey      string
	debugMode   bool
	traceMode   bool

	// hookExitCode carries the event command outcome out of cobra, so the
	// deferred panic handler in mainWithExitCode stays in effect until the
	// process actually exits.
	hookExitCode int
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "ERROR: unexpected failure: %v\n", r)

			exitCode = dispatcher.ExitError
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return dispatcher.ExitError
	}

	return hookExitCode
}

var rootCmd = &cobra.Command{
	Use:   "wartush",
	Short: "Analyzer-backed permission hooks for Claude Code",
	Long: `wartush gates Claude Code tool invocations through a local permission
analyzer service. Each subcommand handles one hook lifecycle event: it reads
the hook payload from stdin, forwards it to the analyzer, and writes the
event's decision JSON to stdout.

The analyzer endpoint must be a loopback address; if the service is simply
not running, hooks pass through so Claude Code's native permission flow takes
over.`,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&analyzerURL, "analyzer-url", "", "Analyzer service URL (loopback only)")
	flags.StringVar(&apiKey, "api-key", "", "API key sent as X-Api-Key")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.BoolVar(&traceMode, "trace", false, "Enable trace logging")
}

// runEvent executes one hook invocation and records its exit code.
func runEvent(cmd *cobra.Command, event hook.EventType) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)

		hookExitCode = dispatcher.ExitError

		return
	}

	log := setupLogger(cfg.Log)
	log.Info("hook invoked", "event", event.String())

	client := analyzer.NewClient(cfg.Analyzer)
	runner := dispatcher.NewRunner(client, os.Stdin, os.Stdout, os.Stderr, log)

	hookExitCode = runner.Run(context.Background(), event)
}

// loadConfig resolves configuration once, folding in any flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	loader, err := internalconfig.NewLoader()
	if err != nil {
		return nil, err
	}

	flags := map[string]any{}

	if cmd.Flags().Changed("analyzer-url") {
		flags["analyzer.url"] = analyzerURL
	}

	if cmd.Flags().Changed("api-key") {
		flags["analyzer.api_key"] = apiKey
	}

	if cmd.Flags().Changed("debug") {
		flags["log.debug"] = debugMode
	}

	if cmd.Flags().Changed("trace") {
		flags["log.trace"] = traceMode
	}

	return loader.Load(flags)
}

// setupLogger opens the configured log file. Logging is best-effort: any
// failure falls back to a no-op logger rather than breaking the hook.
func setupLogger(cfg *config.LogConfig) logger.Logger {
	if cfg == nil || cfg.File == "" {
		return logger.NewNoOp()
	}

	level := logger.LevelError

	switch {
	case cfg.Trace:
		level = logger.LevelDebug
	case cfg.Debug:
		level = logger.LevelInfo
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		return logger.NewNoOp()
	}

	log, err := logger.NewFileLogger(cfg.File, level)
	if err != nil {
		return logger.NewNoOp()
	}

	return log
}
