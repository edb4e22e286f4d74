package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoaderDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	result, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg := result.Config

	if cfg.Web.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Web.Port)
	}
	if cfg.Lint.Command != "ansible-lint" {
		t.Errorf("expected default command ansible-lint, got %s", cfg.Lint.Command)
	}
	if cfg.Lint.Timeout != 60*time.Second {
		t.Errorf("expected default timeout 60s, got %s", cfg.Lint.Timeout)
	}
	if cfg.Lint.MaxUploadBytes != 5*1024*1024 {
		t.Errorf("expected default upload cap 5MB, got %d", cfg.Lint.MaxUploadBytes)
	}
	if cfg.Dispatch.MaxDocumentBytes != 1024*1024 {
		t.Errorf("expected default document cap 1MB, got %d", cfg.Dispatch.MaxDocumentBytes)
	}
	if cfg.Dispatch.MaxConcurrent != 10 {
		t.Errorf("expected default concurrency 10, got %d", cfg.Dispatch.MaxConcurrent)
	}
	if result.Path != "defaults" {
		t.Errorf("expected origin defaults, got %s", result.Path)
	}
}

func TestLoaderReadsFile(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.yaml")

	configContent := `
web:
  port: 9090
log:
  log_level: "DEBUG"
lint:
  command: "custom-lint"
  timeout: 30s
`
	if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	result, err := NewLoader().WithPath(configFile).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg := result.Config

	if cfg.Web.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Web.Port)
	}
	if cfg.Log.Level != "DEBUG" {
		t.Errorf("expected log level DEBUG, got %s", cfg.Log.Level)
	}
	if cfg.Lint.Command != "custom-lint" {
		t.Errorf("expected command custom-lint, got %s", cfg.Lint.Command)
	}
	if cfg.Lint.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %s", cfg.Lint.Timeout)
	}
	// Untouched sections keep their defaults.
	if cfg.Dispatch.MaxConcurrent != 10 {
		t.Errorf("expected default concurrency 10, got %d", cfg.Dispatch.MaxConcurrent)
	}
	if result.Path != configFile {
		t.Errorf("expected origin %s, got %s", configFile, result.Path)
	}
}

func TestLoaderEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("PORT", "7070")
	t.Setenv("ANSIBLE_LINT_CMD", "env-lint")
	t.Setenv("LINT_TIMEOUT_SECONDS", "15")
	t.Setenv("MAX_UPLOAD_SIZE_BYTES", "2048")
	t.Setenv("MAX_DOCUMENT_SIZE_BYTES", "1024")
	t.Setenv("MAX_CONCURRENT_REQUESTS", "3")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example, http://b.example")

	result, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg := result.Config

	if cfg.Web.Port != 7070 {
		t.Errorf("expected port 7070, got %d", cfg.Web.Port)
	}
	if cfg.Lint.Command != "env-lint" {
		t.Errorf("expected command env-lint, got %s", cfg.Lint.Command)
	}
	if cfg.Lint.Timeout != 15*time.Second {
		t.Errorf("expected timeout 15s, got %s", cfg.Lint.Timeout)
	}
	if cfg.Lint.MaxUploadBytes != 2048 {
		t.Errorf("expected upload cap 2048, got %d", cfg.Lint.MaxUploadBytes)
	}
	if cfg.Dispatch.MaxConcurrent != 3 {
		t.Errorf("expected concurrency 3, got %d", cfg.Dispatch.MaxConcurrent)
	}
	if len(cfg.Web.AllowedOrigins) != 2 || cfg.Web.AllowedOrigins[1] != "http://b.example" {
		t.Errorf("origins not parsed: %v", cfg.Web.AllowedOrigins)
	}
}

func TestLoaderEnvOverridesFile(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configFile, []byte("web:\n  port: 9090\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("PORT", "7070")

	result, err := NewLoader().WithPath(configFile).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if result.Config.Web.Port != 7070 {
		t.Errorf("environment must override the file, got %d", result.Config.Web.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults valid", mutate: func(c *Config) {}},
		{name: "port out of range", mutate: func(c *Config) { c.Web.Port = 70000 }, wantErr: true},
		{name: "empty command", mutate: func(c *Config) { c.Lint.Command = "  " }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Lint.Timeout = 0 }, wantErr: true},
		{name: "zero upload cap", mutate: func(c *Config) { c.Lint.MaxUploadBytes = 0 }, wantErr: true},
		{name: "zero concurrency", mutate: func(c *Config) { c.Dispatch.MaxConcurrent = 0 }, wantErr: true},
		{name: "negative progress steps", mutate: func(c *Config) { c.Dispatch.ProgressSteps = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
