package httpclient

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UpstreamError represents an error returned by an upstream service
type UpstreamError struct {
	StatusCode int
	Body       []byte
	URL        string
}

func (e *UpstreamError) Error() string {
	if msg := e.VendorMessage(); msg != "" {
		return fmt.Sprintf("upstream error: status %d from %s: %s", e.StatusCode, redact(e.URL), msg)
	}
	return fmt.Sprintf("upstream error: status %d from %s", e.StatusCode, redact(e.URL))
}

// upstreamErrorBody covers the OpenAI/Groq/Mistral shape ({"error": {...}}),
// Gemini's ({"error": {"code", "message", "status"}}) and HuggingFace's
// ({"error": "..."}).
type upstreamErrorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
	Detail  interface{}     `json:"detail"`
}

type upstreamErrorObject struct {
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Status  string      `json:"status"`
	Code    interface{} `json:"code"`
}

func (e *UpstreamError) parse() (upstreamErrorObject, bool) {
	var body upstreamErrorBody
	if err := json.Unmarshal(e.Body, &body); err != nil {
		return upstreamErrorObject{}, false
	}

	var obj upstreamErrorObject
	if len(body.Error) > 0 {
		if body.Error[0] == '"' {
			_ = json.Unmarshal(body.Error, &obj.Message)
			return obj, obj.Message != ""
		}
		if err := json.Unmarshal(body.Error, &obj); err == nil && obj.Message != "" {
			return obj, true
		}
	}
	if body.Message != "" {
		obj.Message = body.Message
		return obj, true
	}
	if s, ok := body.Detail.(string); ok && s != "" {
		obj.Message = s
		return obj, true
	}
	return upstreamErrorObject{}, false
}

// VendorMessage extracts the vendor's error message from the body, if any.
func (e *UpstreamError) VendorMessage() string {
	if obj, ok := e.parse(); ok {
		return obj.Message
	}
	return ""
}

// VendorCode returns the vendor error code when the body carries one, else the
// HTTP status.
func (e *UpstreamError) VendorCode() interface{} {
	if obj, ok := e.parse(); ok {
		if obj.Code != nil && obj.Code != "" {
			return obj.Code
		}
		if obj.Status != "" {
			return obj.Status
		}
	}
	return e.StatusCode
}

// redact hides query-string credentials (Gemini passes the key as ?key=).
func redact(url string) string {
	if i := strings.Index(url, "key="); i != -1 {
		end := strings.IndexByte(url[i:], '&')
		if end == -1 {
			return url[:i] + "key=REDACTED"
		}
		return url[:i] + "key=REDACTED" + url[i+end:]
	}
	return url
}
