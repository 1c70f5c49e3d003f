// Package openrouter is the OpenRouter client. OpenRouter speaks the OpenAI
// dialect with routing and sampler extensions on top.
package openrouter

import (
	"fmt"

	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/llm/openaicompat"
)

const (
	BaseURL = "https://openrouter.ai/api/v1"

	// Optional attribution headers shown on openrouter.ai rankings.
	HeaderReferer = "HTTP-Referer"
	HeaderTitle   = "X-Title"
)

func init() {
	llm.Register(string(llm.OpenRouter), New)
}

// New resolves OPENROUTER_API_KEY, then OPENAI_API_KEY.
func New(cfg llm.Config) (llm.Client, error) {
	key, err := llm.ResolveAPIKey(cfg.APIKey, llm.EnvVars(string(llm.OpenRouter))...)
	if err != nil {
		return nil, fmt.Errorf("openrouter: %w", err)
	}
	cfg.APIKey = key

	return openaicompat.New(cfg, openaicompat.Options{
		Name:           string(llm.OpenRouter),
		DefaultBaseURL: BaseURL,
	}), nil
}
