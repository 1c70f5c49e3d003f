package cerebras

import (
	"fmt"

	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/llm/openaicompat"
)

const BaseURL = "https://api.cerebras.ai/v1"

func init() {
	llm.Register(string(llm.Cerebras), New)
}

func New(cfg llm.Config) (llm.Client, error) {
	key, err := llm.ResolveAPIKey(cfg.APIKey, llm.EnvVars(string(llm.Cerebras))...)
	if err != nil {
		return nil, fmt.Errorf("cerebras: %w", err)
	}
	cfg.APIKey = key

	return openaicompat.New(cfg, openaicompat.Options{
		Name:           string(llm.Cerebras),
		DefaultBaseURL: BaseURL,
	}), nil
}
