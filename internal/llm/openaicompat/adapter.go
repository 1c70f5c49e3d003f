// Package openaicompat implements the chat side of every vendor that speaks
// the OpenAI chat-completions dialect. Vendor packages wrap an Adapter with
// their base URL, allow-list and embedding strategy.
package openaicompat

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/nulzo/llm-provider-kit/internal/httpclient"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/payload"
	"github.com/nulzo/llm-provider-kit/pkg/api"
)

// EmbedFunc performs a batched embedding call for the wrapping vendor.
type EmbedFunc func(ctx context.Context, model string, texts []string) ([][]float32, error)

type Options struct {
	Name           string
	DefaultBaseURL string
	Fields         payload.FieldSet
	Embed          EmbedFunc
}

type Adapter struct {
	name    string
	baseURL string
	apiKey  string
	fields  payload.FieldSet
	headers map[string]string
	client  *http.Client
	embed   EmbedFunc
}

// New builds an adapter from the factory config. cfg.APIKey must already be
// resolved.
func New(cfg llm.Config, opts Options) *Adapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = opts.DefaultBaseURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = httpclient.New(httpclient.DefaultTimeout)
	}

	headers := httpclient.BearerAuth(cfg.APIKey)
	if headers == nil {
		headers = make(map[string]string)
	}
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	fields := opts.Fields
	if fields == nil {
		fields = payload.ForProvider(opts.Name)
	}

	return &Adapter{
		name:    opts.Name,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		fields:  fields,
		headers: headers,
		client:  client,
		embed:   opts.Embed,
	}
}

func (a *Adapter) Name() string {
	return a.name
}

// BaseURL is the endpoint root requests are sent to.
func (a *Adapter) BaseURL() string {
	return a.baseURL
}

// HTTPClient exposes the transport so vendor embedders share it.
func (a *Adapter) HTTPClient() *http.Client {
	return a.client
}

func (a *Adapter) APIKey() string {
	return a.apiKey
}

func (a *Adapter) SendRequest(ctx context.Context, p api.Payload) *api.Response {
	return llm.Execute(func() (api.Completion, error) {
		return a.chat(ctx, p)
	})
}

func (a *Adapter) chat(ctx context.Context, p api.Payload) (api.Completion, error) {
	body := payload.Adapt(p, a.fields)
	url := a.baseURL + "/chat/completions"

	var resp api.ChatResponse
	if err := httpclient.SendRequest(ctx, a.client, http.MethodPost, url, a.headers, body, &resp); err != nil {
		return api.Completion{}, fmt.Errorf("%s chat completion: %w", a.name, err)
	}

	// some vendors report failures inside a 200 body
	if resp.Error != nil {
		return api.Completion{}, fmt.Errorf("%s chat completion: %w", a.name, resp.Error)
	}
	if len(resp.Choices) == 0 {
		return api.Completion{}, fmt.Errorf("%s chat completion: %w", a.name, llm.ErrEmptyCompletion)
	}

	choice := resp.Choices[0]
	if choice.Error != nil {
		return api.Completion{}, fmt.Errorf("%s chat completion: %w", a.name, choice.Error)
	}

	completion := api.Completion{
		Model:        resp.Model,
		FinishReason: choice.FinishReason,
		Usage:        resp.Usage.ToUsage(),
	}
	if choice.Message != nil {
		completion.Content = choice.Message.Content.String()
	}
	return completion, nil
}

func (a *Adapter) Embed(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if a.embed == nil {
		return nil, llm.Unsupported(a.name, "embeddings")
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	return a.embed(ctx, model, texts)
}
