package llm

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrMissingAPIKey is a configuration error: no key was passed and none of the
// provider's environment variables is set.
var ErrMissingAPIKey = errors.New("missing API key")

var envVars = map[ProviderName][]string{
	Groq:        {"GROQ_API_KEY"},
	Gemini:      {"GEMINI_API_KEY"},
	Mistral:     {"MISTRAL_API_KEY"},
	Cerebras:    {"CEREBRAS_API_KEY"},
	OpenRouter:  {"OPENROUTER_API_KEY", "OPENAI_API_KEY"},
	HuggingFace: {"HF_TOKEN", "HUGGINGFACE_API_KEY"},
	OpenAI:      {"OPENAI_API_KEY"},
}

// EnvVars returns the environment variables consulted for provider, in order.
// Unknown providers get the <PROVIDER>_API_KEY convention.
func EnvVars(provider string) []string {
	if vars, ok := envVars[ProviderName(provider)]; ok {
		return vars
	}
	return []string{strings.ToUpper(provider) + "_API_KEY"}
}

// ResolveAPIKey returns explicit when set, otherwise the first non-empty
// variable among envVars.
func ResolveAPIKey(explicit string, envVars ...string) (string, error) {
	if key := strings.TrimSpace(explicit); key != "" {
		return key, nil
	}
	for _, name := range envVars {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: pass one explicitly or set %s", ErrMissingAPIKey, strings.Join(envVars, " or "))
}

// KeyFromEnv resolves provider's key from the environment only.
func KeyFromEnv(provider string) string {
	key, _ := ResolveAPIKey("", EnvVars(provider)...)
	return key
}
