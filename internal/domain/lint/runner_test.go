package lint

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeFakeTool materializes an executable shell script standing in for the
// external lint binary.
func writeFakeTool(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script fake tool requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "fake-lint")
	content := "#!/bin/sh\n" + script + "\n"
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("failed to write fake tool: %v", err)
	}
	return path
}

func TestRunnerCleanRun(t *testing.T) {
	tool := writeFakeTool(t, `echo "Passed: 0 failure(s)"; exit 0`)
	runner := NewRunner(tool, 5*time.Second, nopLogger{})

	outcome, err := runner.Run(context.Background(), "---\n- hosts: all\n", ProfileBasic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", outcome.ExitCode)
	}
	if !strings.Contains(outcome.Stdout, "Passed") {
		t.Errorf("stdout not captured: %q", outcome.Stdout)
	}
}

func TestRunnerViolationExitCode(t *testing.T) {
	tool := writeFakeTool(t, `echo "WARNING  yaml[indentation]: bad indent"; exit 2`)
	runner := NewRunner(tool, 5*time.Second, nopLogger{})

	outcome, err := runner.Run(context.Background(), "doc", ProfileProduction)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.ExitCode != 2 {
		t.Errorf("expected the tool's exit code 2, got %d", outcome.ExitCode)
	}
}

func TestRunnerArgumentTemplate(t *testing.T) {
	// The fake tool echoes its arguments so the invocation shape is visible.
	tool := writeFakeTool(t, `echo "$@"; exit 0`)
	runner := NewRunner(tool, 5*time.Second, nopLogger{})

	outcome, err := runner.Run(context.Background(), "doc", ProfileSafe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"--nocolor", "--profile safe", "playbook.yml"} {
		if !strings.Contains(outcome.Stdout, want) {
			t.Errorf("invocation missing %q: %q", want, outcome.Stdout)
		}
	}
}

func TestRunnerDocumentContentReachesTool(t *testing.T) {
	tool := writeFakeTool(t, `cat "$4"; exit 0`)
	runner := NewRunner(tool, 5*time.Second, nopLogger{})

	const doc = "---\n- name: sample play\n"
	outcome, err := runner.Run(context.Background(), doc, ProfileBasic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Stdout != doc {
		t.Errorf("tool saw %q, want %q", outcome.Stdout, doc)
	}
}

func TestRunnerTimeout(t *testing.T) {
	tool := writeFakeTool(t, `sleep 5; exit 0`)
	runner := NewRunner(tool, 100*time.Millisecond, nopLogger{})

	start := time.Now()
	outcome, err := runner.Run(context.Background(), "doc", ProfileBasic)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("timeout must produce an outcome, not an error: %v", err)
	}
	if outcome.ExitCode != SentinelExitCode {
		t.Errorf("expected sentinel exit code %d, got %d", SentinelExitCode, outcome.ExitCode)
	}
	if !strings.Contains(outcome.Stderr, "timed out") {
		t.Errorf("stderr should mention the timeout, got %q", outcome.Stderr)
	}
	if elapsed > 3*time.Second {
		t.Errorf("run took %s, timeout was not enforced", elapsed)
	}
}

func TestRunnerMissingBinary(t *testing.T) {
	runner := NewRunner("/nonexistent/lint-binary", time.Second, nopLogger{})

	outcome, err := runner.Run(context.Background(), "doc", ProfileBasic)
	if err != nil {
		t.Fatalf("spawn failure must produce an outcome, not an error: %v", err)
	}
	if outcome.ExitCode != SentinelExitCode {
		t.Errorf("expected sentinel exit code %d, got %d", SentinelExitCode, outcome.ExitCode)
	}
	if !strings.Contains(outcome.Stderr, "failed") {
		t.Errorf("stderr should describe the failure, got %q", outcome.Stderr)
	}
}

func TestRunnerCleansTempDir(t *testing.T) {
	tool := writeFakeTool(t, `dirname "$4"; exit 0`)
	runner := NewRunner(tool, 5*time.Second, nopLogger{})

	outcome, err := runner.Run(context.Background(), "doc", ProfileBasic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := strings.TrimSpace(outcome.Stdout)
	if dir == "" {
		t.Fatal("fake tool did not report the working directory")
	}
	if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
		t.Errorf("temporary directory %s still exists after the run", dir)
	}
}
