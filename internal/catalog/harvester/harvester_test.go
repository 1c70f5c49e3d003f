package harvester_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/nulzo/llm-provider-kit/internal/catalog"
	"github.com/nulzo/llm-provider-kit/internal/catalog/harvester"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func vendorServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/groq/models", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gsk", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[
			{"id":"llama3-8b-8192","owned_by":"Meta","context_window":8192},
			{"id":"llama-3.1-8b-instant","owned_by":"Meta","context_window":131072}
		]}`))
	})
	mux.HandleFunc("/gemini/models", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gk", r.URL.Query().Get("key"))
		if r.URL.Query().Get("pageToken") == "" {
			_, _ = w.Write([]byte(`{"models":[
				{"name":"models/gemini-1.0-pro-001","displayName":"Gemini 1.0 Pro","inputTokenLimit":30720,"outputTokenLimit":2048,"supportedGenerationMethods":["generateContent"]},
				{"name":"models/embedding-001","supportedGenerationMethods":["embedContent"]}
			],"nextPageToken":"p2"}`))
			return
		}
		_, _ = w.Write([]byte(`{"models":[
			{"name":"models/gemini-1.0-pro-002","displayName":"Gemini 1.0 Pro","version":"002","inputTokenLimit":30720,"supportedGenerationMethods":["countTokens","generateContent"]}
		]}`))
	})
	mux.HandleFunc("/mistral/models", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"id":"mistral-large-2407","max_context_length":131072,"capabilities":{"completion_chat":true}},
			{"id":"mistral-large-2411","max_context_length":131072,"capabilities":{"completion_chat":true}},
			{"id":"mistral-embed","max_context_length":8192,"capabilities":{"completion_chat":false}}
		]}`))
	})
	mux.HandleFunc("/hf/models", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "text-generation", q.Get("filter"))
		assert.Equal(t, "downloads", q.Get("sort"))
		assert.Equal(t, "100", q.Get("limit"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[
			{"id":"someone/gpt2","pipeline_tag":"text-generation","downloads":10},
			{"id":"openai-community/gpt2","pipeline_tag":"text-generation","downloads":900,"likes":5},
			{"id":"bert-base","pipeline_tag":"fill-mask","downloads":99999}
		]`))
	})
	mux.HandleFunc("/openrouter/models", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"id":"meta-llama/llama-3-8b-instruct:free","name":"Llama 3 8B (free)","context_length":8192,"architecture":{"modality":"text->text"},"pricing":{"prompt":"0","completion":"0"}},
			{"id":"meta-llama/llama-3-8b-instruct","context_length":8192,"architecture":{"modality":"text->text"},"pricing":{"prompt":"0.0000001","completion":"0.0000001"}},
			{"id":"google/gemini-flash-image:free","architecture":{"modality":"text->image"},"pricing":{"prompt":"0","completion":"0"}},
			{"id":"qwen/qwen-vl:free","context_length":32768,"architecture":{"modality":"text+image->text"},"pricing":{"prompt":"0","completion":"0"}}
		]}`))
	})
	mux.HandleFunc("/cerebras/models", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"object":"list","data":[
			{"id":"llama-3.3-70b","object":"model","created":1721692800,"owned_by":"Meta"},
			{"id":"llama3.1-8b","object":"model","created":1721692800,"owned_by":"Meta"}
		]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newHarvester(t *testing.T, dir string, keys map[string]string) *harvester.Harvester {
	server := vendorServer(t)
	return harvester.New(zap.NewNop(), dir,
		harvester.WithKeys(func(p string) string { return keys[p] }),
		harvester.WithBaseURL("groq", server.URL+"/groq"),
		harvester.WithBaseURL("gemini", server.URL+"/gemini"),
		harvester.WithBaseURL("mistral", server.URL+"/mistral"),
		harvester.WithBaseURL("huggingface", server.URL+"/hf"),
		harvester.WithBaseURL("openrouter", server.URL+"/openrouter"),
		harvester.WithBaseURL("cerebras", server.URL+"/cerebras"),
	)
}

func ids(listings []harvester.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func TestHarvest_PerProviderRules(t *testing.T) {
	dir := t.TempDir()
	h := newHarvester(t, dir, map[string]string{
		"groq": "gsk", "gemini": "gk", "mistral": "mk", "cerebras": "ck",
	})
	ctx := context.Background()

	tests := []struct {
		provider string
		want     []string
	}{
		{"groq", []string{"llama-3.1-8b-instant", "llama3-8b-8192"}},
		{"gemini", []string{"gemini-1.0-pro-002"}},
		{"mistral", []string{"mistral-large-2411"}},
		{"huggingface", []string{"openai-community/gpt2"}},
		{"openrouter", []string{"meta-llama/llama-3-8b-instruct:free", "qwen/qwen-vl:free"}},
		{"cerebras", []string{"llama-3.3-70b", "llama3.1-8b"}},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			got, err := h.Harvest(ctx, tt.provider)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))

			written, err := catalog.ReadIDs(catalog.IDsPath(dir, tt.provider))
			require.NoError(t, err)
			assert.Equal(t, tt.want, written)
		})
	}
}

func TestHarvest_WindowFiles(t *testing.T) {
	dir := t.TempDir()
	h := newHarvester(t, dir, map[string]string{"cerebras": "ck"})

	_, err := h.Harvest(context.Background(), "cerebras")
	require.NoError(t, err)
	raw, err := os.ReadFile(catalog.WindowPath(dir, "cerebras"))
	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b|128k\nllama3.1-8b|8k\n", string(raw))

	_, err = h.Harvest(context.Background(), "huggingface")
	require.NoError(t, err)
	raw, err = os.ReadFile(catalog.WindowPath(dir, "huggingface"))
	require.NoError(t, err)
	assert.Equal(t, "openai-community/gpt2|N/A\n", string(raw))

	blocks, err := catalog.ReadInfo(catalog.InfoPath(dir, "huggingface"))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	pipeline, _ := blocks[0].Get("Pipeline")
	assert.Equal(t, "text-generation", pipeline)
}

func TestHarvest_MissingKeyWritesNothing(t *testing.T) {
	dir := t.TempDir()
	h := newHarvester(t, dir, nil)

	_, err := h.Harvest(context.Background(), "groq")
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
	assert.NoFileExists(t, catalog.IDsPath(dir, "groq"))

	_, err = h.Harvest(context.Background(), "acme")
	assert.Error(t, err)
}

func TestHarvestAll_ContinuesAfterFailure(t *testing.T) {
	h := newHarvester(t, t.TempDir(), map[string]string{"mistral": "mk"})

	results := h.HarvestAll(context.Background(), []string{"groq", "mistral"})
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Len(t, results[1].Models, 1)
}

func TestProviders(t *testing.T) {
	assert.Equal(t, []string{"cerebras", "gemini", "groq", "huggingface", "mistral", "openrouter"}, harvester.Providers())
}
