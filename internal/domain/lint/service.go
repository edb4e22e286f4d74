package lint

import (
	"context"
	"os/exec"

	platformerrors "ansible-lint-server-go/internal/platform/errors"
)

// Service runs the validate -> admit -> run -> normalize pipeline. The gate
// bounds concurrent external processes; validation happens before admission
// so rejected documents never consume a slot.
type Service struct {
	runner         ProcessRunner
	gate           *Gate
	command        string
	defaultProfile Profile
	logger         Logger
}

// Options configures the lint service.
type Options struct {
	Runner         ProcessRunner
	Gate           *Gate
	Command        string
	DefaultProfile Profile
	Logger         Logger
}

// NewService constructs the lint service facade.
func NewService(opts Options) (*Service, error) {
	if opts.Runner == nil {
		return nil, platformerrors.New(platformerrors.KindLint, "service.new", "runner is required")
	}
	if opts.Gate == nil {
		return nil, platformerrors.New(platformerrors.KindLint, "service.new", "gate is required")
	}
	if opts.Logger == nil {
		return nil, platformerrors.New(platformerrors.KindLint, "service.new", "logger is required")
	}
	defaultProfile := opts.DefaultProfile
	if defaultProfile == "" {
		defaultProfile = ProfileBasic
	}
	return &Service{
		runner:         opts.Runner,
		gate:           opts.Gate,
		command:        opts.Command,
		defaultProfile: defaultProfile,
		logger:         opts.Logger,
	}, nil
}

// DefaultProfile returns the profile substituted for unrecognized names.
func (s *Service) DefaultProfile() Profile {
	return s.defaultProfile
}

// Gate exposes the admission gate for introspection.
func (s *Service) Gate() *Gate {
	return s.gate
}

// Lint admits the request through the gate and executes the tool. The slot
// is released on every path, including timeout and runner failure.
func (s *Service) Lint(ctx context.Context, document string, profile Profile) (Outcome, error) {
	if err := s.gate.Acquire(ctx); err != nil {
		return Outcome{}, platformerrors.Wrap(platformerrors.KindLint, "service.lint",
			"admission interrupted", err)
	}
	defer s.gate.Release()

	return s.runner.Run(ctx, document, profile)
}

// LintReport runs Lint and normalizes the outcome.
func (s *Service) LintReport(ctx context.Context, document string, profile Profile) (StructuredReport, error) {
	outcome, err := s.Lint(ctx, document, profile)
	if err != nil {
		return StructuredReport{}, err
	}
	return Normalize(outcome, profile), nil
}

// Ready reports whether the external tool binary is resolvable on the host.
func (s *Service) Ready() error {
	if _, err := exec.LookPath(s.command); err != nil {
		return platformerrors.Wrap(platformerrors.KindLint, "service.ready",
			"lint tool not found: "+s.command, err)
	}
	return nil
}
