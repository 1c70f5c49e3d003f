package openrouter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/llm/openrouter"
	"github.com/nulzo/llm-provider-kit/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouter_FallsBackToOpenAIKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-openai", r.Header.Get("Authorization"))
		assert.Equal(t, "llmctl", r.Header.Get(openrouter.HeaderTitle))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	client, err := openrouter.New(llm.Config{
		BaseURL: server.URL,
		Headers: map[string]string{openrouter.HeaderTitle: "llmctl"},
	})
	require.NoError(t, err)

	resp := client.SendRequest(context.Background(), api.NewPayload("meta-llama/llama-3-8b-instruct:free", "hi"))
	require.False(t, resp.IsError())
	assert.Equal(t, "ok", resp.Data.Content)
}
