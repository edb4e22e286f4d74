package lintapi

// LintResult is the wire form of one direct lint run.
type LintResult struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	Profile  string `json:"profile"`
}

// ProfilesData lists the accepted profiles.
type ProfilesData struct {
	Profiles       []string          `json:"profiles"`
	Descriptions   map[string]string `json:"descriptions"`
	DefaultProfile string            `json:"default_profile"`
}

// HealthData is the liveness body.
type HealthData struct {
	Status string `json:"status"`
}

// ReadyData is the readiness body.
type ReadyData struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}
