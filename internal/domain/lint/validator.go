package lint

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"ansible-lint-server-go/internal/platform/errors"
)

// allowedExtensions is the fixed allow-list for filename-based entry points.
var allowedExtensions = []string{".yml", ".yaml"}

// Validator enforces size and encoding constraints on submitted documents
// before any process is spawned.
type Validator struct {
	maxBytes int64
}

// NewValidator creates a validator with the given document size cap.
func NewValidator(maxBytes int64) *Validator {
	return &Validator{maxBytes: maxBytes}
}

// MaxBytes returns the configured document size cap.
func (v *Validator) MaxBytes() int64 {
	return v.maxBytes
}

// ValidateDocument checks size then encoding and returns the decoded text.
// Size is measured on the encoded byte form, not the character count.
func (v *Validator) ValidateDocument(data []byte) (string, error) {
	if int64(len(data)) > v.maxBytes {
		return "", errors.New(errors.KindValidation, "validate_document",
			fmt.Sprintf("document exceeds maximum size of %d bytes", v.maxBytes))
	}
	if !utf8.Valid(data) {
		return "", errors.New(errors.KindValidation, "validate_document",
			"document is not valid UTF-8 text")
	}
	return string(data), nil
}

// ValidateFilename rejects filenames whose extension is outside the fixed
// allow-list.
func (v *Validator) ValidateFilename(name string) error {
	lower := strings.ToLower(name)
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return errors.New(errors.KindValidation, "validate_filename",
		fmt.Sprintf("only %s files are accepted", strings.Join(allowedExtensions, "/")))
}

// CheckYAMLSyntax parses the document as YAML without invoking the external
// tool. Used by the syntax-only validation operation.
func (v *Validator) CheckYAMLSyntax(document string) error {
	var doc any
	if err := yaml.Unmarshal([]byte(document), &doc); err != nil {
		return errors.Wrap(errors.KindValidation, "check_yaml_syntax",
			"invalid YAML format", err)
	}
	return nil
}
