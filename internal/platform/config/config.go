package config

import (
	"time"
)

type Config struct {
	Web      WebConfig      `yaml:"web"`
	Log      LogConfig      `yaml:"log"`
	Lint     LintConfig     `yaml:"lint"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	MCP      MCPConfig      `yaml:"mcp"`
}

type WebConfig struct {
	Port           int      `yaml:"port"`
	StaticDir      string   `yaml:"static_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

// LintConfig configures the external lint tool invocation.
type LintConfig struct {
	Command        string        `yaml:"command"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	DefaultProfile string        `yaml:"default_profile"`
}

// DispatchConfig configures the tool-dispatch front end. Its size cap is
// independent of the direct upload cap.
type DispatchConfig struct {
	MaxDocumentBytes int64         `yaml:"max_document_bytes"`
	MaxConcurrent    int64         `yaml:"max_concurrent"`
	ProgressSteps    int           `yaml:"progress_steps"`
	ProgressDelay    time.Duration `yaml:"progress_delay"`
}

type MCPConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BasePath string `yaml:"base_path"`
}
