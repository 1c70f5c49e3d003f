package llm

import (
	"encoding/json"
	"fmt"

	"github.com/nulzo/llm-provider-kit/pkg/api"
)

// Messages decodes p["messages"] into typed chat messages. It accepts anything
// that marshals to the OpenAI messages array, so both decoded JSON and
// []api.ChatMessage values work.
func Messages(p api.Payload) ([]api.ChatMessage, error) {
	raw, ok := p["messages"]
	if !ok || raw == nil {
		return nil, nil
	}
	if msgs, ok := raw.([]api.ChatMessage); ok {
		return msgs, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode messages: %w", err)
	}
	var msgs []api.ChatMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return msgs, nil
}

// Float reads a numeric field, whatever numeric type the caller used.
func Float(p api.Payload, key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case *float64:
		if v != nil {
			return *v, true
		}
	case *int:
		if v != nil {
			return float64(*v), true
		}
	}
	return 0, false
}

func Int(p api.Payload, key string) (int, bool) {
	f, ok := Float(p, key)
	return int(f), ok
}

// Strings reads a field that may be a single string or a list of strings,
// like "stop".
func Strings(p api.Payload, key string) []string {
	switch v := p[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case api.Stop:
		return v.Val
	case *api.Stop:
		if v != nil {
			return v.Val
		}
	}
	return nil
}

// Decode re-decodes p[key] into dst through JSON. It reports false when the
// field is absent or does not fit dst.
func Decode(p api.Payload, key string, dst interface{}) bool {
	raw, ok := p[key]
	if !ok || raw == nil {
		return false
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}
