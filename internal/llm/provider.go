// Package llm defines the uniform client contract every provider variant
// implements, and the factory that builds them by name.
package llm

import (
	"context"
	"net/http"

	"github.com/nulzo/llm-provider-kit/pkg/api"
)

type ProviderName string

const (
	Groq        ProviderName = "groq"
	Gemini      ProviderName = "gemini"
	Mistral     ProviderName = "mistral"
	HuggingFace ProviderName = "huggingface"
	OpenRouter  ProviderName = "openrouter"
	Cerebras    ProviderName = "cerebras"

	// OpenAI is not a client variant; its credential doubles as the OpenRouter key.
	OpenAI ProviderName = "openai"
)

// Client is a provider behind the common request/response shape.
type Client interface {
	// Name is the provider name the client was registered under.
	Name() string

	// SendRequest adapts p to the provider, performs one call and reports the
	// outcome. It never returns nil and never panics: failures become an error
	// Response.
	SendRequest(ctx context.Context, p api.Payload) *api.Response

	// Embed returns one vector per text, in input order. Providers without an
	// embedding endpoint return an error wrapping ErrUnsupported.
	Embed(ctx context.Context, model string, texts []string) ([][]float32, error)
}

// Config is what a Factory receives.
type Config struct {
	Name       string
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Headers    map[string]string
}

type Option func(*Config)

// WithBaseURL points the client at another endpoint root (proxies, tests).
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithHeader adds a static header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		c.Headers[key] = value
	}
}
