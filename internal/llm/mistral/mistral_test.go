package mistral_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/llm/mistral"
	"github.com/nulzo/llm-provider-kit/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*httptest.Server, *map[string]interface{}) {
	t.Helper()
	var chatBody map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&chatBody))
		_, _ = w.Write([]byte(`{"model":"mistral-small-latest","choices":[{"message":{"role":"assistant","content":"Bonjour"},"finish_reason":"stop"}],"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}}`))
	})
	mux.HandleFunc("/v1/embeddings", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer m-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "mistral-embed", body["model"])
		assert.Len(t, body["input"], 2)

		// out of order on purpose
		_, _ = w.Write([]byte(`{"object":"list","model":"mistral-embed","data":[
			{"object":"embedding","index":1,"embedding":[0.3,0.4]},
			{"object":"embedding","index":0,"embedding":[0.1,0.2]}
		],"usage":{"prompt_tokens":2,"total_tokens":2}}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &chatBody
}

func TestMistral_Chat(t *testing.T) {
	server, chatBody := newServer(t)

	client, err := mistral.New(llm.Config{APIKey: "m-key", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	p := api.NewPayload("mistral-small-latest", "hi")
	p["random_seed"] = 7
	p["seed"] = 7

	resp := client.SendRequest(context.Background(), p)

	require.False(t, resp.IsError())
	assert.Equal(t, "Bonjour", resp.Data.Content)
	assert.Equal(t, 4, resp.Data.Usage.TotalTokens)
	assert.Contains(t, *chatBody, "random_seed")
	assert.NotContains(t, *chatBody, "seed")
}

func TestMistral_Embed(t *testing.T) {
	server, _ := newServer(t)

	client, err := mistral.New(llm.Config{APIKey: "m-key", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	vectors, err := client.Embed(context.Background(), "", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.1, 0.2}, {0.3, 0.4}}, vectors)
}
