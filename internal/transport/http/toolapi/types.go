package toolapi

// ToolRequest is the body of one dispatch call.
type ToolRequest struct {
	ToolName string         `json:"tool_name"`
	Inputs   map[string]any `json:"inputs"`
}

// BannerData describes the service to a discovering client.
type BannerData struct {
	Service        string   `json:"service"`
	AvailableTools []string `json:"available_tools"`
	Limits         Limits   `json:"limits"`
}

// Limits summarizes the operational caps the dispatch surface enforces.
type Limits struct {
	MaxConcurrent    int   `json:"max_concurrent_requests"`
	TimeoutSeconds   int   `json:"timeout_seconds"`
	MaxDocumentBytes int64 `json:"max_document_size_bytes"`
}

// HealthData is the dispatch-surface health body.
type HealthData struct {
	Status        string `json:"status"`
	ToolAvailable bool   `json:"tool_available"`
	Detail        string `json:"detail,omitempty"`
}
