package groq

import (
	"fmt"

	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/llm/openaicompat"
)

const BaseURL = "https://api.groq.com/openai/v1"

func init() {
	llm.Register(string(llm.Groq), New)
}

// New builds a Groq chat client. Groq exposes no embedding endpoint.
func New(cfg llm.Config) (llm.Client, error) {
	key, err := llm.ResolveAPIKey(cfg.APIKey, llm.EnvVars(string(llm.Groq))...)
	if err != nil {
		return nil, fmt.Errorf("groq: %w", err)
	}
	cfg.APIKey = key

	return openaicompat.New(cfg, openaicompat.Options{
		Name:           string(llm.Groq),
		DefaultBaseURL: BaseURL,
	}), nil
}
