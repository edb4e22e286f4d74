package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when no explicit path or env override is given.
const DefaultConfigPath = "config.yaml"

// Loader reads configuration from an optional YAML file, layered over the
// built-in defaults and topped with environment overrides.
type Loader struct {
	useDotEnv bool
	path      string
}

// NewLoader creates a loader with .env support enabled.
func NewLoader() *Loader {
	return &Loader{
		useDotEnv: true,
		path:      DefaultConfigPath,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath overrides the configuration file path (useful for tests).
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// Result captures the loaded configuration and its origin.
type Result struct {
	Config *Config
	Path   string
}

// Load resolves the effective configuration. A missing config file is not an
// error; defaults plus environment variables apply.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using process environment")
		}
	}

	path := l.path
	if envPath := os.Getenv("LINT_SERVER_CONFIG"); envPath != "" {
		path = envPath
	}

	cfg := DefaultConfig()
	origin := "defaults"

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		origin = path
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return &Result{
		Config: cfg,
		Path:   origin,
	}, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Web.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("ANSIBLE_LINT_CMD"); v != "" {
		cfg.Lint.Command = v
	}
	if v := os.Getenv("LINT_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Lint.Timeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("MAX_UPLOAD_SIZE_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Lint.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("MAX_DOCUMENT_SIZE_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Dispatch.MaxDocumentBytes = n
		}
	}
	if v := os.Getenv("MAX_CONCURRENT_REQUESTS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Dispatch.MaxConcurrent = n
		}
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		if len(origins) > 0 {
			cfg.Web.AllowedOrigins = origins
		}
	}
}

// Validate checks that runtime-critical values are usable.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Web.Port <= 0 || cfg.Web.Port > 65535 {
		return fmt.Errorf("web port %d out of range", cfg.Web.Port)
	}
	if strings.TrimSpace(cfg.Lint.Command) == "" {
		return fmt.Errorf("lint command must not be empty")
	}
	if cfg.Lint.Timeout <= 0 {
		return fmt.Errorf("lint timeout must be positive, got %s", cfg.Lint.Timeout)
	}
	if cfg.Lint.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", cfg.Lint.MaxUploadBytes)
	}
	if cfg.Dispatch.MaxDocumentBytes <= 0 {
		return fmt.Errorf("max document size must be positive, got %d", cfg.Dispatch.MaxDocumentBytes)
	}
	if cfg.Dispatch.MaxConcurrent <= 0 {
		return fmt.Errorf("max concurrent lint runs must be positive, got %d", cfg.Dispatch.MaxConcurrent)
	}
	if cfg.Dispatch.ProgressSteps < 0 {
		return fmt.Errorf("progress steps must not be negative, got %d", cfg.Dispatch.ProgressSteps)
	}
	return nil
}
