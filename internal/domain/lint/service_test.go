package lint

import (
	"context"
	"errors"
	"testing"
)

// stubRunner returns a canned outcome and records what it was asked to run.
type stubRunner struct {
	outcome  Outcome
	err      error
	document string
	profile  Profile
	calls    int
}

func (r *stubRunner) Run(ctx context.Context, document string, profile Profile) (Outcome, error) {
	r.calls++
	r.document = document
	r.profile = profile
	return r.outcome, r.err
}

func newTestService(t *testing.T, runner ProcessRunner, gate *Gate) *Service {
	t.Helper()
	svc, err := NewService(Options{
		Runner:         runner,
		Gate:           gate,
		Command:        "ansible-lint",
		DefaultProfile: ProfileBasic,
		Logger:         nopLogger{},
	})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return svc
}

func TestServiceLint(t *testing.T) {
	runner := &stubRunner{outcome: Outcome{ExitCode: 2, Stdout: "WARNING  x"}}
	svc := newTestService(t, runner, NewGate(1))

	outcome, err := svc.Lint(context.Background(), "doc", ProfileSafe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.ExitCode != 2 {
		t.Errorf("expected exit code 2, got %d", outcome.ExitCode)
	}
	if runner.profile != ProfileSafe || runner.document != "doc" {
		t.Errorf("runner received (%q, %q)", runner.document, runner.profile)
	}
}

func TestServiceReleasesSlotAfterRun(t *testing.T) {
	gate := NewGate(1)
	runner := &stubRunner{outcome: Outcome{ExitCode: 0}}
	svc := newTestService(t, runner, gate)

	for i := 0; i < 3; i++ {
		if _, err := svc.Lint(context.Background(), "doc", ProfileBasic); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}
	if !gate.TryAcquire() {
		t.Fatal("slot was not released after sequential runs")
	}
	gate.Release()
}

func TestServiceReleasesSlotOnRunnerError(t *testing.T) {
	gate := NewGate(1)
	runner := &stubRunner{err: errors.New("scratch space exhausted")}
	svc := newTestService(t, runner, gate)

	if _, err := svc.Lint(context.Background(), "doc", ProfileBasic); err == nil {
		t.Fatal("expected runner error to propagate")
	}
	if !gate.TryAcquire() {
		t.Fatal("slot leaked on the error path")
	}
	gate.Release()
}

func TestServiceLintFailsWhenAdmissionInterrupted(t *testing.T) {
	gate := NewGate(1)
	if err := gate.Acquire(context.Background()); err != nil {
		t.Fatalf("setup acquire failed: %v", err)
	}
	defer gate.Release()

	runner := &stubRunner{outcome: Outcome{ExitCode: 0}}
	svc := newTestService(t, runner, gate)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Lint(ctx, "doc", ProfileBasic); err == nil {
		t.Fatal("expected admission error on cancelled context")
	}
	if runner.calls != 0 {
		t.Error("runner must not execute when admission fails")
	}
}

func TestServiceLintReport(t *testing.T) {
	runner := &stubRunner{outcome: Outcome{
		ExitCode: 2,
		Stdout:   "ERROR    syntax-check: boom\n  playbook.yml:1:1\n",
	}}
	svc := newTestService(t, runner, NewGate(1))

	report, err := svc.LintReport(context.Background(), "doc", ProfileTest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Summary.ErrorCount != 1 {
		t.Errorf("expected 1 error, got %d", report.Summary.ErrorCount)
	}
	if report.Summary.ProfileUsed != "test" {
		t.Errorf("expected profile test, got %q", report.Summary.ProfileUsed)
	}
}

func TestServiceReady(t *testing.T) {
	runner := &stubRunner{}

	svc, err := NewService(Options{
		Runner:         runner,
		Gate:           NewGate(1),
		Command:        "definitely-not-a-real-binary-xyz",
		DefaultProfile: ProfileBasic,
		Logger:         nopLogger{},
	})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	if err := svc.Ready(); err == nil {
		t.Error("expected readiness failure for a missing binary")
	}

	svc = newTestService(t, runner, NewGate(1))
	// "sh" resolves on any POSIX host the suite runs on.
	svc.command = "sh"
	if err := svc.Ready(); err != nil {
		t.Errorf("expected readiness success, got %v", err)
	}
}
