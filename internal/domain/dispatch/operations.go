package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ansible-lint-server-go/internal/domain/lint"
	platformerrors "ansible-lint-server-go/internal/platform/errors"
)

// OperationDeps bundles the collaborators shared by the built-in operations.
type OperationDeps struct {
	Service       *lint.Service
	Validator     *lint.Validator
	Hub           *Hub
	Logger        Logger
	ProgressSteps int
	ProgressDelay time.Duration
}

// RegisterBuiltinOperations registers the full operation set and seals the
// dispatcher.
func RegisterBuiltinOperations(d *Dispatcher, deps OperationDeps) error {
	ops := []Operation{
		&LintOperation{deps: deps},
		&ProfilesOperation{},
		&ValidateOperation{deps: deps},
		&StreamOperation{deps: deps},
	}
	for _, op := range ops {
		if err := d.Register(op); err != nil {
			return err
		}
	}
	d.Seal()
	return nil
}

// userMessage strips the internal kind/op prefix off platform errors so
// clients see only the human-readable part.
func userMessage(err error) string {
	var typed *platformerrors.Error
	if errors.As(err, &typed) {
		return typed.Message
	}
	return err.Error()
}

// checkDocument applies the dispatch-side size, encoding and YAML-syntax
// constraints shared by the lint operations.
func checkDocument(v *lint.Validator, playbook string) error {
	if _, err := v.ValidateDocument([]byte(playbook)); err != nil {
		return err
	}
	return v.CheckYAMLSyntax(playbook)
}

// LintOperation runs the external tool and returns the structured report.
type LintOperation struct {
	deps OperationDeps
}

func (o *LintOperation) Definition() Definition {
	return Definition{
		Name:        "lint_playbook",
		Description: "Run ansible-lint and return a structured report suitable for LLM analysis",
		InputSchema: ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"playbook": map[string]any{
					"type":        "string",
					"description": "Ansible playbook content to lint",
				},
				"profile": map[string]any{
					"type":        "string",
					"description": "Lint profile name; unrecognized names fall back to the default",
				},
			},
			Required: []string{"playbook"},
		},
	}
}

func (o *LintOperation) Validate(args map[string]any) error {
	return checkArgShape(o.Definition().InputSchema, args)
}

func (o *LintOperation) Execute(ctx context.Context, args map[string]any) (any, error) {
	playbook, err := stringArg(args, "playbook")
	if err != nil {
		return nil, err
	}
	rawProfile, err := optionalStringArg(args, "profile", "")
	if err != nil {
		return nil, err
	}

	if err := checkDocument(o.deps.Validator, playbook); err != nil {
		return nil, &SoftError{Message: userMessage(err)}
	}

	profile := lint.SanitizeProfile(rawProfile, o.deps.Service.DefaultProfile(), o.deps.Logger)

	report, err := o.deps.Service.LintReport(ctx, playbook, profile)
	if err != nil {
		return nil, &SoftError{Message: userMessage(err)}
	}
	return report, nil
}

// ProfilesOperation lists the supported profiles and their descriptions.
type ProfilesOperation struct{}

func (o *ProfilesOperation) Definition() Definition {
	return Definition{
		Name:        "get_lint_profiles",
		Description: "Get supported ansible-lint profiles and their descriptions",
		InputSchema: ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}
}

func (o *ProfilesOperation) Validate(args map[string]any) error {
	return checkArgShape(o.Definition().InputSchema, args)
}

func (o *ProfilesOperation) Execute(ctx context.Context, args map[string]any) (any, error) {
	return map[string]any{
		"profiles":             lint.SupportedProfiles(),
		"profile_descriptions": lint.ProfileDescriptions(),
		"default_profile":      string(lint.ProfileBasic),
	}, nil
}

// ValidateOperation checks size, encoding and YAML syntax without invoking
// the external tool.
type ValidateOperation struct {
	deps OperationDeps
}

// validationResult mirrors the shape streaming clients already consume.
type validationResult struct {
	Valid        bool    `json:"valid"`
	Error        *string `json:"error"`
	SizeBytes    int     `json:"size_bytes"`
	MaxSizeBytes int64   `json:"max_size_bytes"`
}

func (o *ValidateOperation) Definition() Definition {
	return Definition{
		Name:        "validate_playbook",
		Description: "Validate Ansible playbook YAML syntax without full linting",
		InputSchema: ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"playbook": map[string]any{
					"type":        "string",
					"description": "Ansible playbook content to validate",
				},
			},
			Required: []string{"playbook"},
		},
	}
}

func (o *ValidateOperation) Validate(args map[string]any) error {
	return checkArgShape(o.Definition().InputSchema, args)
}

func (o *ValidateOperation) Execute(ctx context.Context, args map[string]any) (any, error) {
	playbook, err := stringArg(args, "playbook")
	if err != nil {
		return nil, err
	}

	result := validationResult{
		Valid:        true,
		SizeBytes:    len(playbook),
		MaxSizeBytes: o.deps.Validator.MaxBytes(),
	}

	if err := checkDocument(o.deps.Validator, playbook); err != nil {
		msg := userMessage(err)
		result.Valid = false
		result.Error = &msg
		return nil, &SoftError{Message: msg, Output: result}
	}

	return result, nil
}

// StreamOperation runs a lint while publishing ordered lifecycle events to
// the progress hub: STARTED, zero or more PROCESSING steps, then exactly one
// COMPLETED or ERROR. Documents rejected before admission short-circuit to
// ERROR without a STARTED event.
type StreamOperation struct {
	deps OperationDeps
}

type streamResult struct {
	JobID string `json:"job_id"`
	lint.StructuredReport
}

func (o *StreamOperation) Definition() Definition {
	return Definition{
		Name:        "lint_playbook_stream",
		Description: "Run ansible-lint with progress updates for long-running operations",
		InputSchema: ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"playbook": map[string]any{
					"type":        "string",
					"description": "Ansible playbook content to lint",
				},
				"profile": map[string]any{
					"type":        "string",
					"description": "Lint profile name; unrecognized names fall back to the default",
				},
			},
			Required: []string{"playbook"},
		},
	}
}

func (o *StreamOperation) Validate(args map[string]any) error {
	return checkArgShape(o.Definition().InputSchema, args)
}

func (o *StreamOperation) Execute(ctx context.Context, args map[string]any) (any, error) {
	playbook, err := stringArg(args, "playbook")
	if err != nil {
		return nil, err
	}
	rawProfile, err := optionalStringArg(args, "profile", "")
	if err != nil {
		return nil, err
	}

	jobID := NewJobID()

	if err := checkDocument(o.deps.Validator, playbook); err != nil {
		msg := userMessage(err)
		o.deps.Hub.Publish(Event{
			JobID:   jobID,
			Status:  StatusError,
			Payload: map[string]any{"error": msg},
		})
		return nil, &SoftError{
			Message: msg,
			Output:  map[string]any{"job_id": jobID, "error": msg},
		}
	}

	profile := lint.SanitizeProfile(rawProfile, o.deps.Service.DefaultProfile(), o.deps.Logger)

	o.deps.Hub.Publish(Event{
		JobID:   jobID,
		Status:  StatusStarted,
		Payload: map[string]any{"profile": string(profile)},
	})

	for step := 1; step <= o.deps.ProgressSteps; step++ {
		select {
		case <-ctx.Done():
			return nil, o.fail(jobID, fmt.Sprintf("lint interrupted: %v", ctx.Err()))
		case <-time.After(o.deps.ProgressDelay):
		}
		o.deps.Hub.Publish(Event{
			JobID:      jobID,
			Status:     StatusProcessing,
			Step:       step,
			TotalSteps: o.deps.ProgressSteps,
		})
	}

	report, err := o.deps.Service.LintReport(ctx, playbook, profile)
	if err != nil {
		return nil, o.fail(jobID, userMessage(err))
	}

	o.deps.Hub.Publish(Event{
		JobID:   jobID,
		Status:  StatusCompleted,
		Payload: report,
	})

	return streamResult{JobID: jobID, StructuredReport: report}, nil
}

// fail publishes the terminal ERROR event and builds the matching soft
// failure.
func (o *StreamOperation) fail(jobID, msg string) error {
	o.deps.Hub.Publish(Event{
		JobID:   jobID,
		Status:  StatusError,
		Payload: map[string]any{"error": msg},
	})
	return &SoftError{
		Message: msg,
		Output:  map[string]any{"job_id": jobID, "error": msg},
	}
}
