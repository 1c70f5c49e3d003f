package api

// SelectionRequest switches the registry's current (provider, model) pair.
type SelectionRequest struct {
	Provider string `json:"provider" binding:"required"`
	Model    string `json:"model" binding:"required"`
}

// EmbeddingRequest follows the OpenAI embeddings shape. Input is a string or
// an array of strings.
type EmbeddingRequest struct {
	Model    string `json:"model"`
	Input    Stop   `json:"input"`
	Provider string `json:"provider,omitempty"`
}

type Embedding struct {
	Object    string    `json:"object"`
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

type EmbeddingResponse struct {
	Object   string      `json:"object"`
	Model    string      `json:"model"`
	Provider string      `json:"provider"`
	Data     []Embedding `json:"data"`
}

// NewChatResponse renders a Completion in the OpenAI chat-completion shape.
func NewChatResponse(id, model string, created int64, c Completion) ChatResponse {
	finish := c.FinishReason
	if finish == "" {
		finish = "stop"
	}
	resp := ChatResponse{
		ID:      id,
		Object:  "chat.completion",
		Created: created,
		Model:   model,
		Choices: []Choice{{
			Index: 0,
			Message: &ChatMessage{
				Role:    string(Assistant),
				Content: Content{Text: c.Content},
			},
			FinishReason: finish,
		}},
	}
	if c.Usage != nil {
		resp.Usage = &ResponseUsage{
			PromptTokens:     c.Usage.PromptTokens,
			CompletionTokens: c.Usage.CompletionTokens,
			TotalTokens:      c.Usage.TotalTokens,
		}
	}
	return resp
}
