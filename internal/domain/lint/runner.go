package lint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	platformerrors "ansible-lint-server-go/internal/platform/errors"
	"ansible-lint-server-go/internal/platform/metrics"
)

// SentinelExitCode marks runs that did not complete normally (timeout or
// internal failure), distinct from the tool's own semantic exit codes.
const SentinelExitCode = 1

const documentFilename = "playbook.yml"

// Runner invokes the external lint tool against a single document under a
// wall-clock timeout. Failures during execution are captured as Outcome
// data; only the inability to materialize the document is returned as an
// error, fatal to the single request.
type Runner struct {
	command string
	timeout time.Duration
	logger  Logger
}

// NewRunner creates a runner for the given tool command and timeout.
func NewRunner(command string, timeout time.Duration, logger Logger) *Runner {
	return &Runner{
		command: command,
		timeout: timeout,
		logger:  logger,
	}
}

// Command returns the configured tool command.
func (r *Runner) Command() string {
	return r.command
}

// Run materializes document into an isolated temporary directory, executes
// the tool with the fixed argument template and waits up to the configured
// timeout. The temporary directory is removed on every exit path.
func (r *Runner) Run(ctx context.Context, document string, profile Profile) (Outcome, error) {
	tmpDir, err := os.MkdirTemp("", "lintrun-")
	if err != nil {
		return Outcome{}, platformerrors.Wrap(platformerrors.KindLint, "runner.run",
			"failed to create temporary directory", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, documentFilename)
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		return Outcome{}, platformerrors.Wrap(platformerrors.KindLint, "runner.run",
			"failed to write document", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.command, "--nocolor", "--profile", string(profile), path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.DebugTag("LINT", "running %s --nocolor --profile %s %s", r.command, profile, path)

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	outcome := Outcome{
		ExitCode: SentinelExitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	switch {
	case runCtx.Err() == context.DeadlineExceeded:
		metrics.IncTimeout()
		outcome.Stderr = fmt.Sprintf("%s timed out after %s", r.command, r.timeout)
		r.logger.ErrorTag("LINT", "tool timed out after %s (profile=%s)", r.timeout, profile)
	case runErr == nil:
		outcome.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			outcome.ExitCode = exitErr.ExitCode()
		} else {
			metrics.IncInternalError()
			outcome.Stderr = fmt.Sprintf("%s failed: %v", r.command, runErr)
			r.logger.ErrorTag("LINT", "tool execution failed: %v", runErr)
		}
	}

	metrics.ObserveLintRun(string(profile), outcome.ExitCode, duration)

	return outcome, nil
}
