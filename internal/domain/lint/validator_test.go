package lint

import (
	"strings"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	v := NewValidator(64)

	t.Run("accepts valid document", func(t *testing.T) {
		doc, err := v.ValidateDocument([]byte("---\n- hosts: all\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc != "---\n- hosts: all\n" {
			t.Errorf("decoded document mismatch: %q", doc)
		}
	})

	t.Run("rejects oversize document", func(t *testing.T) {
		_, err := v.ValidateDocument([]byte(strings.Repeat("a", 65)))
		if err == nil {
			t.Fatal("expected size error")
		}
		if !strings.Contains(err.Error(), "size") {
			t.Errorf("error should mention size, got %q", err.Error())
		}
	})

	t.Run("accepts document at the exact cap", func(t *testing.T) {
		if _, err := v.ValidateDocument([]byte(strings.Repeat("a", 64))); err != nil {
			t.Fatalf("document at the cap should pass, got %v", err)
		}
	})

	t.Run("rejects invalid UTF-8", func(t *testing.T) {
		_, err := v.ValidateDocument([]byte{0xff, 0xfe, 0xfd})
		if err == nil {
			t.Fatal("expected encoding error")
		}
		if !strings.Contains(err.Error(), "UTF-8") {
			t.Errorf("error should mention UTF-8, got %q", err.Error())
		}
	})

	t.Run("size is checked before encoding", func(t *testing.T) {
		data := append([]byte{0xff}, []byte(strings.Repeat("a", 70))...)
		_, err := v.ValidateDocument(data)
		if err == nil || !strings.Contains(err.Error(), "size") {
			t.Errorf("expected size error first, got %v", err)
		}
	})
}

func TestValidateFilename(t *testing.T) {
	v := NewValidator(1024)

	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{name: "yml", file: "site.yml"},
		{name: "yaml", file: "site.yaml"},
		{name: "uppercase extension", file: "SITE.YML"},
		{name: "json rejected", file: "site.json", wantErr: true},
		{name: "no extension rejected", file: "playbook", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFilename(tt.file)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.file, err, tt.wantErr)
			}
		})
	}
}

func TestCheckYAMLSyntax(t *testing.T) {
	v := NewValidator(1024)

	if err := v.CheckYAMLSyntax("---\n- hosts: all\n  tasks: []\n"); err != nil {
		t.Errorf("valid YAML rejected: %v", err)
	}
	if err := v.CheckYAMLSyntax("key: [unclosed"); err == nil {
		t.Error("invalid YAML accepted")
	}
	// An empty document is syntactically valid YAML.
	if err := v.CheckYAMLSyntax(""); err != nil {
		t.Errorf("empty document rejected: %v", err)
	}
}
