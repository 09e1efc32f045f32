package stageerrors

import (
	"fmt"
	"log/slog"
	"os"
)

// CLIAdapter formats pipeline errors for terminal display and picks process
// exit codes, mirroring how the CLI surface in reports "stage name
// printed" on failure.
type CLIAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIAdapter creates a CLI error adapter.
func NewCLIAdapter(verbose bool, logger *slog.Logger) *CLIAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIAdapter{verbose: verbose, logger: logger}
}

// ExitCodeFor maps an error to a process exit code.
func (a *CLIAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	se, ok := err.(*Error)
	if !ok {
		return 1
	}
	switch se.Kind {
	case KindConfig:
		return 2
	case KindEngineNotFound:
		return 3
	case KindPlugin, KindFileProcessing:
		return 4
	default:
		return 1
	}
}

// FormatError renders a user-facing message, naming the stage on plugin failures.
func (a *CLIAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	se, ok := err.(*Error)
	if !ok {
		return fmt.Sprintf("error: %v", err)
	}
	if a.verbose {
		return se.Error()
	}
	if se.Stage != "" {
		return fmt.Sprintf("stage %q failed: %s", se.Stage, se.Message)
	}
	return fmt.Sprintf("%s: %s", se.Kind, se.Message)
}

// HandleError logs and prints err, then exits the process with the mapped code.
// Intended for use at the top of cmd/janos subcommands.
func (a *CLIAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.logError(err)
	fmt.Fprintln(os.Stderr, a.FormatError(err))
	os.Exit(a.ExitCodeFor(err))
}

func (a *CLIAdapter) logError(err error) {
	se, ok := err.(*Error)
	if !ok {
		a.logger.Error("unclassified error", "error", err)
		return
	}
	level := slog.LevelError
	if se.Severity == SeverityWarning {
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{slog.String("kind", string(se.Kind))}
	if se.Stage != "" {
		attrs = append(attrs, slog.String("stage", se.Stage))
	}
	a.logger.LogAttrs(nil, level, se.Message, attrs...)
}
