package harvester

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nulzo/llm-provider-kit/internal/catalog"
	"github.com/nulzo/llm-provider-kit/internal/httpclient"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/llm/cerebras"
	"github.com/nulzo/llm-provider-kit/internal/llm/google"
	"github.com/nulzo/llm-provider-kit/internal/llm/groq"
	"github.com/nulzo/llm-provider-kit/internal/llm/mistral"
	"github.com/nulzo/llm-provider-kit/internal/llm/openrouter"
	"github.com/sashabaranov/go-openai"
)

const HuggingFaceHubURL = "https://huggingface.co/api"

var defaultURLs = map[string]string{
	string(llm.Groq):        groq.BaseURL,
	string(llm.Gemini):      google.BaseURLV1Beta,
	string(llm.Mistral):     mistral.BaseURL,
	string(llm.HuggingFace): HuggingFaceHubURL,
	string(llm.OpenRouter):  openrouter.BaseURL,
	string(llm.Cerebras):    cerebras.BaseURL,
}

type fetchFunc func(ctx context.Context, h *Harvester, baseURL, key string) ([]Listing, error)

type source struct {
	fetch       fetchFunc
	prefer      preferFunc
	keyRequired bool
}

var sources = map[string]source{
	string(llm.Groq):        {fetch: fetchGroq, prefer: preferNewer, keyRequired: true},
	string(llm.Gemini):      {fetch: fetchGemini, prefer: preferNewer, keyRequired: true},
	string(llm.Mistral):     {fetch: fetchMistral, prefer: preferNewer, keyRequired: true},
	string(llm.HuggingFace): {fetch: fetchHuggingFace, prefer: preferDownloads},
	string(llm.OpenRouter):  {fetch: fetchOpenRouter, prefer: preferNewer},
	string(llm.Cerebras):    {fetch: fetchCerebras, prefer: preferNewer, keyRequired: true},
}

// Groq lists every model it serves; all of them chat.
func fetchGroq(ctx context.Context, h *Harvester, baseURL, key string) ([]Listing, error) {
	var resp struct {
		Data []struct {
			ID            string `json:"id"`
			OwnedBy       string `json:"owned_by"`
			ContextWindow int    `json:"context_window"`
		} `json:"data"`
	}
	if err := h.get(ctx, baseURL+"/models", httpclient.BearerAuth(key), &resp); err != nil {
		return nil, err
	}

	out := make([]Listing, 0, len(resp.Data))
	for _, m := range resp.Data {
		base, ver := splitColon(m.ID)
		out = append(out, Listing{
			ID: m.ID, Base: base, Version: ver,
			Window: m.ContextWindow,
			Info: []catalog.Field{
				{Key: "Nome", Value: m.ID},
				{Key: "Context", Value: strconv.Itoa(m.ContextWindow)},
				{Key: "Owned By", Value: m.OwnedBy},
			},
		})
	}
	return out, nil
}

// Gemini keeps models that support generateContent. The listing is paged.
func fetchGemini(ctx context.Context, h *Harvester, baseURL, key string) ([]Listing, error) {
	type geminiModel struct {
		Name                       string   `json:"name"`
		DisplayName                string   `json:"displayName"`
		Version                    string   `json:"version"`
		InputTokenLimit            int      `json:"inputTokenLimit"`
		OutputTokenLimit           int      `json:"outputTokenLimit"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	}

	var out []Listing
	pageToken := ""
	for {
		q := url.Values{"key": {key}, "pageSize": {"1000"}}
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		var resp struct {
			Models        []geminiModel `json:"models"`
			NextPageToken string        `json:"nextPageToken"`
		}
		if err := h.get(ctx, baseURL+"/models?"+q.Encode(), nil, &resp); err != nil {
			return nil, err
		}

		for _, m := range resp.Models {
			if !contains(m.SupportedGenerationMethods, "generateContent") {
				continue
			}
			id := strings.TrimPrefix(m.Name, "models/")
			base, ver := splitTrailingNumber(id)
			out = append(out, Listing{
				ID: id, Base: base, Version: ver,
				Window: m.InputTokenLimit,
				Info: []catalog.Field{
					{Key: "Display Name", Value: m.DisplayName},
					{Key: "Version", Value: m.Version},
					{Key: "Input Limit", Value: strconv.Itoa(m.InputTokenLimit)},
					{Key: "Output Limit", Value: strconv.Itoa(m.OutputTokenLimit)},
				},
			})
		}

		if resp.NextPageToken == "" {
			return out, nil
		}
		pageToken = resp.NextPageToken
	}
}

// Mistral keeps chat-capable models; "latest" aliases outrank dated ones.
func fetchMistral(ctx context.Context, h *Harvester, baseURL, key string) ([]Listing, error) {
	var resp struct {
		Data []struct {
			ID               string `json:"id"`
			Name             string `json:"name"`
			MaxContextLength int    `json:"max_context_length"`
			Capabilities     struct {
				CompletionChat bool `json:"completion_chat"`
			} `json:"capabilities"`
		} `json:"data"`
	}
	if err := h.get(ctx, baseURL+"/models", httpclient.BearerAuth(key), &resp); err != nil {
		return nil, err
	}

	var out []Listing
	for _, m := range resp.Data {
		if !m.Capabilities.CompletionChat {
			continue
		}
		base, ver := splitTrailingNumber(m.ID)
		if strings.Contains(m.ID, "latest") {
			ver = latestVersion
		}
		out = append(out, Listing{
			ID: m.ID, Base: base, Version: ver,
			Window: m.MaxContextLength,
			Info: []catalog.Field{
				{Key: "Nome", Value: m.Name},
				{Key: "Context", Value: strconv.Itoa(m.MaxContextLength)},
			},
		})
	}
	return out, nil
}

// HuggingFace returns the 100 most downloaded text-generation models; per
// repo name only the most downloaded one survives. The hub does not report
// context windows.
func fetchHuggingFace(ctx context.Context, h *Harvester, baseURL, key string) ([]Listing, error) {
	q := url.Values{
		"filter":    {"text-generation"},
		"sort":      {"downloads"},
		"direction": {"-1"},
		"limit":     {"100"},
	}

	var resp []struct {
		ID          string `json:"id"`
		ModelID     string `json:"modelId"`
		PipelineTag string `json:"pipeline_tag"`
		Downloads   int    `json:"downloads"`
		Likes       int    `json:"likes"`
	}
	if err := h.get(ctx, baseURL+"/models?"+q.Encode(), httpclient.BearerAuth(key), &resp); err != nil {
		return nil, err
	}

	var out []Listing
	for _, m := range resp {
		if m.PipelineTag != "text-generation" {
			continue
		}
		id := m.ID
		if id == "" {
			id = m.ModelID
		}
		out = append(out, Listing{
			ID:        id,
			Base:      id[strings.LastIndexByte(id, '/')+1:],
			Downloads: m.Downloads,
			Info: []catalog.Field{
				{Key: "Pipeline", Value: m.PipelineTag},
				{Key: "Downloads", Value: strconv.Itoa(m.Downloads)},
				{Key: "Likes", Value: strconv.Itoa(m.Likes)},
			},
		})
	}
	return out, nil
}

// OpenRouter keeps free models whose output is text.
func fetchOpenRouter(ctx context.Context, h *Harvester, baseURL, key string) ([]Listing, error) {
	var resp struct {
		Data []struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			ContextLength int    `json:"context_length"`
			Architecture  struct {
				Modality string `json:"modality"`
			} `json:"architecture"`
			Pricing struct {
				Prompt     string `json:"prompt"`
				Completion string `json:"completion"`
			} `json:"pricing"`
		} `json:"data"`
	}
	if err := h.get(ctx, baseURL+"/models", httpclient.BearerAuth(key), &resp); err != nil {
		return nil, err
	}

	var out []Listing
	for _, m := range resp.Data {
		modality := m.Architecture.Modality
		isText := strings.Contains(modality, "text") && strings.HasSuffix(modality, "text")
		isFree := price(m.Pricing.Prompt) == 0 && price(m.Pricing.Completion) == 0
		if !isText || !isFree {
			continue
		}
		base, ver := splitColon(m.ID)
		out = append(out, Listing{
			ID: m.ID, Base: base, Version: ver,
			Window: m.ContextLength,
			Info: []catalog.Field{
				{Key: "Nome", Value: m.Name},
				{Key: "Context", Value: strconv.Itoa(m.ContextLength)},
				{Key: "Modality", Value: modality},
			},
		})
	}
	return out, nil
}

// Cerebras does not report windows; they are estimated from the model family.
func fetchCerebras(ctx context.Context, h *Harvester, baseURL, key string) ([]Listing, error) {
	cfg := openai.DefaultConfig(key)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = h.client

	if err := h.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	models, err := openai.NewClientWithConfig(cfg).ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	out := make([]Listing, 0, len(models.Models))
	for _, m := range models.Models {
		base, ver := splitTrailingNumber(m.ID)
		window := cerebrasWindow(m.ID)
		out = append(out, Listing{
			ID: m.ID, Base: base, Version: ver,
			Window: window,
			Info: []catalog.Field{
				{Key: "Created", Value: strconv.FormatInt(m.CreatedAt, 10)},
				{Key: "Owned By", Value: m.OwnedBy},
				{Key: "Context (est.)", Value: strconv.Itoa(window)},
			},
		})
	}
	return out, nil
}

func cerebrasWindow(id string) int {
	if strings.Contains(id, "llama-3.1") || strings.Contains(id, "llama-3.3") {
		return 131072
	}
	return 8192
}

// price parses an OpenRouter per-token price; missing or invalid means paid.
func price(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 1
	}
	return f
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (h *Harvester) get(ctx context.Context, url string, headers map[string]string, out interface{}) error {
	if err := h.pacer.Wait(ctx); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := httpclient.SendRequest(ctx, h.client, http.MethodGet, url, headers, nil, out); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
