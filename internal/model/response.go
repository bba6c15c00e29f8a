package model

type ComponentSummary struct {
	Name    string   `json:"name"`
	VPath   string   `json:"vpath"`
	Methods []string `json:"methods"`
	// HasContent reports whether a content file is stored for the component.
	HasContent bool `json:"has_content"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`
}
