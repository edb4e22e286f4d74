package lint

// nopLogger satisfies Logger for tests that do not inspect log output.
type nopLogger struct{}

func (nopLogger) Debug(format string, args ...any)               {}
func (nopLogger) Info(format string, args ...any)                {}
func (nopLogger) Warn(format string, args ...any)                {}
func (nopLogger) Error(format string, args ...any)               {}
func (nopLogger) DebugTag(tag string, format string, args ...any) {}
func (nopLogger) InfoTag(tag string, format string, args ...any)  {}
func (nopLogger) WarnTag(tag string, format string, args ...any)  {}
func (nopLogger) ErrorTag(tag string, format string, args ...any) {}

// recordingLogger captures warn-level messages for assertions.
type recordingLogger struct {
	nopLogger
	warnings []string
}

func (l *recordingLogger) WarnTag(tag string, format string, args ...any) {
	l.warnings = append(l.warnings, format)
}
