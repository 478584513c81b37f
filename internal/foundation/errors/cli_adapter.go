package errors

import (
	"fmt"
	"log/slog"
)

// CLIErrorAdapter turns classified errors into exit codes and user-facing
// messages for the command line front end.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates an adapter. A nil logger falls back to the
// process default.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger}
}

// ExitCodeFor maps an error to a process exit code.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	ce, ok := AsClassified(err)
	if !ok {
		return 1
	}
	switch ce.Category() {
	case CategoryValidation:
		return 2
	case CategoryNotFound:
		return 3
	case CategoryConflict, CategoryInvalidState:
		return 4
	case CategoryAlreadyExists:
		return 5
	case CategoryConfig:
		return 7
	case CategoryStorage, CategoryMigration:
		return 8
	case CategoryInternal:
		return 10
	default:
		return 1
	}
}

// FormatError renders an error for terminal output. Verbose mode includes
// the classification prefix and context; normal mode shows the bare message.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	ce, ok := AsClassified(err)
	if !ok {
		return err.Error()
	}
	if !a.verbose {
		return ce.Message()
	}
	msg := ce.Error()
	for k, v := range ce.Context() {
		msg += fmt.Sprintf("\n  %s: %v", k, v)
	}
	return msg
}

// Report logs the error and returns the exit code to use.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return 0
	}
	a.logger.Error("command failed", slog.String("error", a.FormatError(err)))
	return a.ExitCodeFor(err)
}
