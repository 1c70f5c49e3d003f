package api

// ModelSpec is one entry of a provider catalog.
type ModelSpec struct {
	ID         string `json:"id" yaml:"id"`
	WindowSize int    `json:"window_size" yaml:"window_size"`
	Provider   string `json:"provider" yaml:"provider"`
}

// Model is the public listing shape served over HTTP.
type Model struct {
	ID            string `json:"id"`
	Object        string `json:"object"`
	OwnedBy       string `json:"owned_by"`
	Provider      string `json:"provider"`
	ContextLength int    `json:"context_length"`
	Selected      bool   `json:"selected,omitempty"`
}

type ModelFilter struct {
	Provider string
	ID       string
}
