package probe

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nulzo/llm-provider-kit/internal/catalog"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	_ "github.com/nulzo/llm-provider-kit/internal/llm/all"
	"github.com/nulzo/llm-provider-kit/internal/llm/llmtest"
	"github.com/nulzo/llm-provider-kit/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ok(content string) *api.Response {
	return api.Success(api.Completion{Content: content})
}

func failed(msg string, code interface{}) *api.Response {
	return api.Failure(&api.ErrorDetail{Message: msg, Type: "httpclient.UpstreamError", Code: code})
}

func fastMode() Mode {
	m := Rank
	m.Delay = 0
	m.Timeout = time.Second
	return m
}

func TestProbe_RequireContent(t *testing.T) {
	client := &llmtest.MockClient{ID: "groq"}
	client.On("SendRequest", mock.Anything, llmtest.ForModel("good")).Return(ok("Dante..."))
	client.On("SendRequest", mock.Anything, llmtest.ForModel("blank")).Return(ok("   "))
	client.On("SendRequest", mock.Anything, llmtest.ForModel("down")).Return(failed("Invalid API Key", 401))

	p := New(zap.NewNop(), fastMode())
	clients := []llm.Client{client}

	good := p.Probe(context.Background(), "groq", clients, catalog.Entry{ID: "good", Token: "8k"})
	assert.True(t, good.OK)
	assert.Equal(t, 8192, good.WindowSize)
	assert.Equal(t, 8, good.Chars)
	assert.Equal(t, "rank", good.Mode)
	assert.Equal(t, p.RunID(), good.RunID)

	blank := p.Probe(context.Background(), "groq", clients, catalog.Entry{ID: "blank"})
	assert.False(t, blank.OK)
	assert.Equal(t, "Testo vuoto", blank.Error)

	down := p.Probe(context.Background(), "groq", clients, catalog.Entry{ID: "down"})
	assert.False(t, down.OK)
	assert.Equal(t, "401: Invalid API Key", down.Error)
	assert.Zero(t, down.Latency)
}

func TestProbe_SendsModePayload(t *testing.T) {
	client := &llmtest.MockClient{ID: "mistral"}
	client.On("SendRequest", mock.Anything, mock.MatchedBy(func(p api.Payload) bool {
		return p["max_tokens"] == 5 && p.Model() == "m"
	})).Return(ok(""))

	mode := QuickTest
	mode.Delay = 0
	r := New(zap.NewNop(), mode).Probe(context.Background(), "mistral", []llm.Client{client}, catalog.Entry{ID: "m"})

	assert.True(t, r.OK, "quick test accepts empty content")
	client.AssertExpectations(t)
}

func TestProbe_FallsBackToNextClient(t *testing.T) {
	v1beta := &llmtest.MockClient{ID: "gemini"}
	v1beta.On("SendRequest", mock.Anything, mock.Anything).Return(failed("not found for API version v1beta", 404))
	v1 := &llmtest.MockClient{ID: "gemini"}
	v1.On("SendRequest", mock.Anything, mock.Anything).Return(ok("ciao"))

	r := New(zap.NewNop(), fastMode()).Probe(context.Background(), "gemini", []llm.Client{v1beta, v1}, catalog.Entry{ID: "gemini-pro"})

	assert.True(t, r.OK)
	v1beta.AssertNumberOfCalls(t, "SendRequest", 1)
	v1.AssertNumberOfCalls(t, "SendRequest", 1)
}

func TestProbe_Samples(t *testing.T) {
	client := &llmtest.MockClient{ID: "groq"}
	client.On("SendRequest", mock.Anything, mock.Anything).Return(ok("x"))

	r := New(zap.NewNop(), fastMode(), WithSamples(3)).Probe(context.Background(), "groq", []llm.Client{client}, catalog.Entry{ID: "m"})

	assert.True(t, r.OK)
	assert.Equal(t, 3, r.Samples)
	client.AssertNumberOfCalls(t, "SendRequest", 3)
}

func TestProbe_NoClients(t *testing.T) {
	r := New(zap.NewNop(), fastMode()).Probe(context.Background(), "groq", nil, catalog.Entry{ID: "m"})
	assert.False(t, r.OK)
}

func TestRanked(t *testing.T) {
	results := []Result{
		{Model: "slow", OK: true, Latency: 3 * time.Second},
		{Model: "broken", OK: false},
		{Model: "fast", OK: true, Latency: time.Second},
		{Model: "tie", OK: true, Latency: 3 * time.Second},
	}

	ranked := Ranked(results)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"fast", "slow", "tie"}, []string{ranked[0].Model, ranked[1].Model, ranked[2].Model})

	passed := Passed(results)
	assert.Equal(t, "slow", passed[0].Model)
}

func TestRun_ReportsEachResult(t *testing.T) {
	client := &llmtest.MockClient{ID: "groq"}
	client.On("SendRequest", mock.Anything, mock.Anything).Return(ok("x"))

	var reported []string
	results := New(zap.NewNop(), fastMode()).Run(context.Background(), "groq", []llm.Client{client},
		[]catalog.Entry{{ID: "a"}, {ID: "b"}},
		func(r Result) { reported = append(reported, r.Model) },
	)

	assert.Len(t, results, 2)
	assert.Equal(t, []string{"a", "b"}, reported)
}

func TestChatCapable(t *testing.T) {
	block := func(id string, fields ...catalog.Field) catalog.InfoBlock {
		return catalog.InfoBlock{ID: id, Fields: fields}
	}

	assert.True(t, ChatCapable("huggingface", block("gpt2", catalog.Field{Key: "Pipeline", Value: "text-generation"})))
	assert.False(t, ChatCapable("huggingface", block("bert", catalog.Field{Key: "Pipeline", Value: "fill-mask"})))
	assert.True(t, ChatCapable("openrouter", block("a", catalog.Field{Key: "Modality", Value: "text+image->text"})))
	assert.False(t, ChatCapable("openrouter", block("b", catalog.Field{Key: "Modality", Value: "text->image"})))
	assert.True(t, ChatCapable("groq", block("whisper-large-v3")))
	assert.True(t, ChatCapable("cerebras", block("llama3.1-8b")))
	assert.False(t, ChatCapable("gemini", block("gemini-2.0-flash-preview-image-generation")))
	assert.False(t, ChatCapable("gemini", block("gemini-2.5-flash-preview-TTS")))
	assert.True(t, ChatCapable("gemini", block("gemini-1.5-flash")))
	assert.False(t, ChatCapable("mistral", block("pixtral-large-latest")))
	assert.True(t, ChatCapable("mistral", block("mistral-small-latest")))
	assert.False(t, ChatCapable("acme", block("x")))
}

func TestCandidatesAndOutput(t *testing.T) {
	dataDir, okDir := t.TempDir(), t.TempDir()

	require.NoError(t, catalog.WriteIDs(catalog.IDsPath(dataDir, "mistral"), []string{"pixtral-12b", "mistral-small-latest", "open-mistral-7b"}))
	require.NoError(t, catalog.WriteEntries(catalog.WindowPath(dataDir, "mistral"), []catalog.Entry{
		{ID: "mistral-small-latest", Token: "32k"},
		{ID: "pixtral-12b", Token: "128k"},
	}))
	require.NoError(t, catalog.WriteInfo(catalog.InfoPath(dataDir, "mistral"), catalog.InfoTitle("mistral"), []catalog.InfoBlock{
		{ID: "mistral-small-latest"}, {ID: "open-mistral-7b"}, {ID: "pixtral-12b"},
	}))

	all, err := Candidates(dataDir, "mistral", false, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, catalog.Entry{ID: "open-mistral-7b", Token: "N/A"}, all[1])

	chat, err := Candidates(dataDir, "mistral", true, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []catalog.Entry{{ID: "mistral-small-latest", Token: "32k"}, {ID: "open-mistral-7b", Token: "N/A"}}, chat)

	_, err = Candidates(dataDir, "groq", false, zap.NewNop())
	assert.Error(t, err)

	results := []Result{
		{Model: "open-mistral-7b", Window: "N/A", OK: true, Latency: 2 * time.Second},
		{Model: "mistral-small-latest", Window: "32k", WindowSize: 32768, OK: true, Latency: time.Second},
	}

	require.NoError(t, WritePassed(okDir, "mistral", results))
	raw, err := os.ReadFile(filepath.Join(okDir, "mistral_wnd.txt"))
	require.NoError(t, err)
	assert.Equal(t, "open-mistral-7b|N/A\nmistral-small-latest|32k\n", string(raw))

	require.NoError(t, WriteRanked(okDir, "mistral", Ranked(results)))
	raw, err = os.ReadFile(filepath.Join(okDir, "mistral_wnd.txt"))
	require.NoError(t, err)
	assert.Equal(t, "mistral-small-latest|32768\nopen-mistral-7b|0\n", string(raw))
}

func TestClients(t *testing.T) {
	clients, err := Clients("gemini", "k", "")
	require.NoError(t, err)
	assert.Len(t, clients, 2)

	clients, err = Clients("groq", "k", "")
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}
