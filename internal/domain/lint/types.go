package lint

import "context"

// Logger captures the logging interface consumed by the domain.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	DebugTag(tag string, format string, args ...any)
	InfoTag(tag string, format string, args ...any)
	WarnTag(tag string, format string, args ...any)
	ErrorTag(tag string, format string, args ...any)
}

// Outcome is the raw result of one external-tool invocation. ExitCode is
// always populated: SentinelExitCode marks runs that did not complete
// normally, distinct from the tool's own codes (0 clean, 2 violations).
type Outcome struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

// ProcessRunner executes the external lint tool against one document.
type ProcessRunner interface {
	Run(ctx context.Context, document string, profile Profile) (Outcome, error)
}
