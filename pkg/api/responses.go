package api

// Response is the outcome of a single provider call. Exactly one of Data and
// Error is set; use Success and Failure to build one.
type Response struct {
	Data  *Completion  `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// Completion is the successful side of a Response.
type Completion struct {
	Content      string `json:"content"`
	Model        string `json:"model,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`
}

// Usage carries the token counters reported by the vendor, when it reports any.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ErrorDetail describes a failed call. Code is only set when the underlying
// error exposes a vendor code or HTTP status.
type ErrorDetail struct {
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Code    interface{} `json:"code,omitempty"`
	Details string      `json:"details,omitempty"`
}

func (e *ErrorDetail) Error() string {
	return e.Message
}

func Success(c Completion) *Response {
	return &Response{Data: &c}
}

func Failure(e *ErrorDetail) *Response {
	if e == nil {
		e = &ErrorDetail{Message: "unknown error", Type: "Error"}
	}
	return &Response{Error: e}
}

func (r *Response) IsError() bool {
	return r == nil || r.Error != nil
}

// ChatResponse mirrors the OpenAI chat-completion reply and is used to decode
// OpenAI-compatible upstreams.
type ChatResponse struct {
	ID                string         `json:"id"`
	Choices           []Choice       `json:"choices"`
	Created           int64          `json:"created"`
	Model             string         `json:"model"`
	Object            string         `json:"object"`
	SystemFingerprint string         `json:"system_fingerprint,omitempty"`
	Usage             *ResponseUsage `json:"usage,omitempty"`

	Error *ErrorResponse `json:"error,omitempty"`
}

type Choice struct {
	Index        int            `json:"index"`
	Message      *ChatMessage   `json:"message,omitempty"`
	FinishReason string         `json:"finish_reason"`
	Error        *ErrorResponse `json:"error,omitempty"`
}

type ResponseUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func (u *ResponseUsage) ToUsage() *Usage {
	if u == nil {
		return nil
	}
	return &Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

type ErrorResponse struct {
	Code     interface{}            `json:"code,omitempty"`
	Type     string                 `json:"type,omitempty"`
	Message  string                 `json:"message"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}
