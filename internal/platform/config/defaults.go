package config

import "time"

// DefaultConfig returns the built-in configuration. Values mirror the
// documented service defaults: 5 MB direct upload cap, 1 MB dispatch cap,
// ten concurrent lint processes, 60 second tool timeout.
func DefaultConfig() *Config {
	return &Config{
		Web: WebConfig{
			Port:           8080,
			StaticDir:      "./web",
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level: "INFO",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Lint: LintConfig{
			Command:        "ansible-lint",
			Timeout:        60 * time.Second,
			MaxUploadBytes: 5 * 1024 * 1024,
			DefaultProfile: "basic",
		},
		Dispatch: DispatchConfig{
			MaxDocumentBytes: 1024 * 1024,
			MaxConcurrent:    10,
			ProgressSteps:    3,
			ProgressDelay:    500 * time.Millisecond,
		},
		MCP: MCPConfig{
			Enabled:  true,
			BasePath: "/mcp",
		},
	}
}
