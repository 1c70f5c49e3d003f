// Package huggingface is the HuggingFace client. Chat goes through the
// OpenAI-compatible inference router; embeddings use the hf-inference
// feature-extraction pipeline.
package huggingface

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nulzo/llm-provider-kit/internal/httpclient"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/llm/openaicompat"
)

const (
	RouterURL = "https://router.huggingface.co"
	BaseURL   = RouterURL + "/v1"

	DefaultEmbeddingModel = "sentence-transformers/all-MiniLM-L6-v2"
)

func init() {
	llm.Register(string(llm.HuggingFace), New)
}

// New builds the client. When cfg.BaseURL is set it replaces the router root,
// so "<base>/v1/chat/completions" and "<base>/hf-inference/..." are used.
func New(cfg llm.Config) (llm.Client, error) {
	key, err := llm.ResolveAPIKey(cfg.APIKey, llm.EnvVars(string(llm.HuggingFace))...)
	if err != nil {
		return nil, fmt.Errorf("huggingface: %w", err)
	}
	cfg.APIKey = key

	root := strings.TrimRight(cfg.BaseURL, "/")
	if root == "" {
		root = RouterURL
	}
	cfg.BaseURL = root + "/v1"

	e := &embedder{root: root, headers: httpclient.BearerAuth(key)}
	adapter := openaicompat.New(cfg, openaicompat.Options{
		Name:  string(llm.HuggingFace),
		Embed: e.embed,
	})
	e.client = adapter.HTTPClient()
	return adapter, nil
}

type embedder struct {
	root    string
	headers map[string]string
	client  *http.Client
}

type featureExtractionRequest struct {
	Inputs []string `json:"inputs"`
}

func (e *embedder) embed(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if model == "" {
		model = DefaultEmbeddingModel
	}

	endpoint := fmt.Sprintf("%s/hf-inference/models/%s/pipeline/feature-extraction", e.root, escapeModel(model))

	var out [][]float32
	if err := httpclient.SendRequest(ctx, e.client, http.MethodPost, endpoint, e.headers, featureExtractionRequest{Inputs: texts}, &out); err != nil {
		return nil, fmt.Errorf("huggingface feature-extraction: %w", err)
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("huggingface feature-extraction: got %d embeddings for %d inputs", len(out), len(texts))
	}
	return out, nil
}

// escapeModel escapes each segment of "org/name" but keeps the slash.
func escapeModel(model string) string {
	segments := strings.Split(model, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
