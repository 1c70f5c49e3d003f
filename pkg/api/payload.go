package api

// Payload is a provider-agnostic chat-completion request in its wire form:
// field name to value, following the OpenAI chat shape.
type Payload map[string]interface{}

// NewPayload builds the minimal single-turn request used by probes and the CLI.
func NewPayload(model, prompt string) Payload {
	return Payload{
		"model": model,
		"messages": []interface{}{
			map[string]interface{}{"role": string(User), "content": prompt},
		},
	}
}

// Model returns the "model" field when it is a string.
func (p Payload) Model() string {
	s, _ := p["model"].(string)
	return s
}

// Clone returns a shallow copy; nested values are shared.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
