package dispatch

import (
	"context"
	"fmt"

	"ansible-lint-server-go/internal/domain/lint"
)

// Logger is the logging interface consumed by the dispatch domain.
type Logger = lint.Logger

// ToolInputSchema describes the JSON schema for operation arguments.
type ToolInputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// Definition holds the metadata necessary to expose an operation to clients.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema ToolInputSchema `json:"input_schema"`
}

// Envelope is the uniform wrapper around every dispatcher outcome.
// Operational failures travel as Success=false with an "error" field inside
// Output; the dispatch call itself does not fail for them.
type Envelope struct {
	Tool      string `json:"tool"`
	Success   bool   `json:"success"`
	Output    any    `json:"output"`
	Timestamp string `json:"timestamp"`
}

// Operation is one named capability registered with the dispatcher.
// Validate covers argument shape only (unknown/missing/mistyped arguments,
// reported as transport-level bad requests); content-level rejections happen
// inside Execute and surface as envelope-level soft failures.
type Operation interface {
	Definition() Definition
	Validate(args map[string]any) error
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// ArgumentError reports an argument-shape mismatch. The transport layer maps
// it to a bad-request response rather than an envelope.
type ArgumentError struct {
	Reason string
}

func (e *ArgumentError) Error() string {
	return e.Reason
}

// NewArgumentError builds an ArgumentError from a format string.
func NewArgumentError(format string, args ...any) *ArgumentError {
	return &ArgumentError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unregistered operation name, carrying the known
// names for the client's remediation.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Name)
}

// SoftError is an operational failure that still carries structured output.
// The dispatcher wraps it into a Success=false envelope, preferring Output
// over a bare error message when present.
type SoftError struct {
	Message string
	Output  any
}

func (e *SoftError) Error() string {
	return e.Message
}

// stringArg extracts a required string argument.
func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", NewArgumentError("missing required argument %q", key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", NewArgumentError("argument %q must be a string", key)
	}
	return value, nil
}

// optionalStringArg extracts an optional string argument, returning fallback
// when absent.
func optionalStringArg(args map[string]any, key, fallback string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return fallback, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", NewArgumentError("argument %q must be a string", key)
	}
	return value, nil
}

// checkArgShape rejects arguments outside the schema's property set and
// verifies required ones are present as strings. All operations here take
// string-typed arguments only.
func checkArgShape(schema ToolInputSchema, args map[string]any) error {
	for key := range args {
		if _, ok := schema.Properties[key]; !ok {
			return NewArgumentError("unexpected argument %q", key)
		}
	}
	for _, key := range schema.Required {
		if _, err := stringArg(args, key); err != nil {
			return err
		}
	}
	for key, raw := range args {
		if _, ok := raw.(string); !ok {
			return NewArgumentError("argument %q must be a string", key)
		}
	}
	return nil
}
