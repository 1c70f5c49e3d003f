// Package google is the Gemini client. It reshapes the OpenAI-style payload
// into generateContent form and authenticates with the key query parameter.
package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nulzo/llm-provider-kit/internal/httpclient"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/payload"
	"github.com/nulzo/llm-provider-kit/pkg/api"
)

const (
	BaseURLV1Beta = "https://generativelanguage.googleapis.com/v1beta"
	BaseURLV1     = "https://generativelanguage.googleapis.com/v1"
)

func init() {
	llm.Register(string(llm.Gemini), NewAdapter)
}

type Adapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewAdapter(cfg llm.Config) (llm.Client, error) {
	key, err := llm.ResolveAPIKey(cfg.APIKey, llm.EnvVars(string(llm.Gemini))...)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURLV1Beta
	}
	client := cfg.HTTPClient
	if client == nil {
		client = httpclient.New(httpclient.DefaultTimeout)
	}

	return &Adapter{
		apiKey:  key,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}, nil
}

func (a *Adapter) Name() string { return string(llm.Gemini) }

type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type GenerationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"topP,omitempty"`
	TopK             *int     `json:"topK,omitempty"`
	MaxOutputTokens  *int     `json:"maxOutputTokens,omitempty"`
	CandidateCount   *int     `json:"candidateCount,omitempty"`
	Seed             *int     `json:"seed,omitempty"`
	StopSequences    []string `json:"stopSequences,omitempty"`
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
}

type Request struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type Response struct {
	Candidates     []Candidate    `json:"candidates"`
	UsageMetadata  *UsageMetadata `json:"usageMetadata,omitempty"`
	ModelVersion   string         `json:"modelVersion,omitempty"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// Shape converts a provider-agnostic payload into a generateContent request.
// Only the gemini allow-list is considered. System messages become the
// system instruction, assistant turns use the "model" role.
func Shape(p api.Payload) (Request, error) {
	p = payload.AdaptFor(string(llm.Gemini), p)

	msgs, err := llm.Messages(p)
	if err != nil {
		return Request{}, err
	}

	var req Request
	var system []Part
	for _, m := range msgs {
		parts := shapeParts(m.Content)
		if len(parts) == 0 {
			continue
		}
		switch m.Role {
		case string(api.System):
			system = append(system, parts...)
		case string(api.Assistant), string(api.ModelAssistant):
			req.Contents = append(req.Contents, Content{Role: string(api.ModelAssistant), Parts: parts})
		default:
			req.Contents = append(req.Contents, Content{Role: string(api.User), Parts: parts})
		}
	}
	if len(system) > 0 {
		req.SystemInstruction = &Content{Parts: system}
	}

	req.GenerationConfig = shapeConfig(p)
	return req, nil
}

func shapeParts(c api.Content) []Part {
	if c.Parts == nil {
		if c.Text == "" {
			return nil
		}
		return []Part{{Text: c.Text}}
	}

	parts := make([]Part, 0, len(c.Parts))
	for _, cp := range c.Parts {
		switch cp.Type {
		case "text":
			parts = append(parts, Part{Text: cp.Text})
		case "image_url":
			if cp.ImageURL == nil {
				continue
			}
			if inline, ok := dataURL(cp.ImageURL.URL); ok {
				parts = append(parts, Part{InlineData: inline})
			}
		}
	}
	return parts
}

// dataURL splits data:<mime>;base64,<payload>. Remote URLs are not fetched.
func dataURL(raw string) (*InlineData, bool) {
	if !strings.HasPrefix(raw, "data:") {
		return nil, false
	}
	header, data, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, false
	}
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return nil, false
	}
	return &InlineData{MimeType: strings.TrimSuffix(header, ";base64"), Data: data}, true
}

func shapeConfig(p api.Payload) *GenerationConfig {
	cfg := GenerationConfig{}
	set := false

	if v, ok := llm.Float(p, "temperature"); ok {
		cfg.Temperature, set = &v, true
	}
	if v, ok := llm.Float(p, "top_p"); ok {
		cfg.TopP, set = &v, true
	}
	if v, ok := llm.Int(p, "top_k"); ok {
		cfg.TopK, set = &v, true
	}
	if v, ok := llm.Int(p, "max_tokens"); ok {
		cfg.MaxOutputTokens, set = &v, true
	}
	if v, ok := llm.Int(p, "candidate_count"); ok {
		cfg.CandidateCount, set = &v, true
	}
	if v, ok := llm.Int(p, "seed"); ok {
		cfg.Seed, set = &v, true
	}
	if stop := llm.Strings(p, "stop"); len(stop) > 0 {
		cfg.StopSequences, set = stop, true
	}

	var format api.ResponseFormat
	if llm.Decode(p, "response_format", &format) && strings.HasPrefix(format.Type, "json") {
		cfg.ResponseMimeType, set = "application/json", true
	}

	if !set {
		return nil
	}
	return &cfg
}

// modelPath accepts both "gemini-1.5-flash" and "models/gemini-1.5-flash".
func modelPath(model string) string {
	return "models/" + strings.TrimPrefix(model, "models/")
}

func (a *Adapter) endpoint(model, method string) string {
	return fmt.Sprintf("%s/%s:%s?key=%s", a.baseURL, modelPath(model), method, url.QueryEscape(a.apiKey))
}

func (a *Adapter) SendRequest(ctx context.Context, p api.Payload) *api.Response {
	return llm.Execute(func() (api.Completion, error) {
		return a.generate(ctx, p)
	})
}

func (a *Adapter) generate(ctx context.Context, p api.Payload) (api.Completion, error) {
	model := p.Model()
	if model == "" {
		return api.Completion{}, fmt.Errorf("gemini generateContent: model is required")
	}

	shape, err := Shape(p)
	if err != nil {
		return api.Completion{}, fmt.Errorf("gemini generateContent: %w", err)
	}

	var resp Response
	if err := httpclient.SendRequest(ctx, a.client, http.MethodPost, a.endpoint(model, "generateContent"), nil, shape, &resp); err != nil {
		return api.Completion{}, fmt.Errorf("gemini generateContent: %w", err)
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return api.Completion{}, fmt.Errorf("gemini generateContent: prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return api.Completion{}, fmt.Errorf("gemini generateContent: %w", llm.ErrEmptyCompletion)
	}

	candidate := resp.Candidates[0]
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}

	completion := api.Completion{
		Content:      text.String(),
		Model:        model,
		FinishReason: strings.ToLower(candidate.FinishReason),
	}
	if resp.ModelVersion != "" {
		completion.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		completion.Usage = &api.Usage{
			PromptTokens:     u.PromptTokenCount,
			CompletionTokens: u.CandidatesTokenCount,
			TotalTokens:      u.TotalTokenCount,
		}
	}
	return completion, nil
}

type embedRequest struct {
	Model   string  `json:"model"`
	Content Content `json:"content"`
}

type batchEmbedRequest struct {
	Requests []embedRequest `json:"requests"`
}

type batchEmbedResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

func (a *Adapter) Embed(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	body := batchEmbedRequest{Requests: make([]embedRequest, len(texts))}
	for i, t := range texts {
		body.Requests[i] = embedRequest{
			Model:   modelPath(model),
			Content: Content{Parts: []Part{{Text: t}}},
		}
	}

	var resp batchEmbedResponse
	if err := httpclient.SendRequest(ctx, a.client, http.MethodPost, a.endpoint(model, "batchEmbedContents"), nil, body, &resp); err != nil {
		return nil, fmt.Errorf("gemini batchEmbedContents: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini batchEmbedContents: got %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		out[i] = e.Values
	}
	return out, nil
}
