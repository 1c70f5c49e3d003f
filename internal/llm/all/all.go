// Package all registers every provider client with the llm factory.
package all

import (
	_ "github.com/nulzo/llm-provider-kit/internal/llm/cerebras"
	_ "github.com/nulzo/llm-provider-kit/internal/llm/google"
	_ "github.com/nulzo/llm-provider-kit/internal/llm/groq"
	_ "github.com/nulzo/llm-provider-kit/internal/llm/huggingface"
	_ "github.com/nulzo/llm-provider-kit/internal/llm/mistral"
	_ "github.com/nulzo/llm-provider-kit/internal/llm/openrouter"
)
