// Package mistral is the Mistral client: chat through the shared
// OpenAI-compatible adapter, embeddings through the go-openai SDK.
package mistral

import (
	"context"
	"fmt"
	"sort"

	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/llm/openaicompat"
	"github.com/sashabaranov/go-openai"
)

const (
	BaseURL = "https://api.mistral.ai/v1"

	DefaultEmbeddingModel = "mistral-embed"
)

func init() {
	llm.Register(string(llm.Mistral), New)
}

func New(cfg llm.Config) (llm.Client, error) {
	key, err := llm.ResolveAPIKey(cfg.APIKey, llm.EnvVars(string(llm.Mistral))...)
	if err != nil {
		return nil, fmt.Errorf("mistral: %w", err)
	}
	cfg.APIKey = key

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}
	sdkConfig := openai.DefaultConfig(key)
	sdkConfig.BaseURL = baseURL
	if cfg.HTTPClient != nil {
		sdkConfig.HTTPClient = cfg.HTTPClient
	}
	sdk := openai.NewClientWithConfig(sdkConfig)

	return openaicompat.New(cfg, openaicompat.Options{
		Name:           string(llm.Mistral),
		DefaultBaseURL: BaseURL,
		Embed:          embedder(sdk),
	}), nil
}

func embedder(sdk *openai.Client) openaicompat.EmbedFunc {
	return func(ctx context.Context, model string, texts []string) ([][]float32, error) {
		if model == "" {
			model = DefaultEmbeddingModel
		}

		resp, err := sdk.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts,
			Model: openai.EmbeddingModel(model),
		})
		if err != nil {
			return nil, fmt.Errorf("mistral embeddings: %w", err)
		}
		if len(resp.Data) != len(texts) {
			return nil, fmt.Errorf("mistral embeddings: got %d embeddings for %d inputs", len(resp.Data), len(texts))
		}

		data := resp.Data
		sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })

		out := make([][]float32, len(data))
		for i, d := range data {
			out[i] = d.Embedding
		}
		return out, nil
	}
}
