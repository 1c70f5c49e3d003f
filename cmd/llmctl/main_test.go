package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/nulzo/llm-provider-kit/internal/catalog"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// workspace moves the test into an empty directory with no provider keys in
// the environment and returns that directory.
func workspace(t *testing.T, configYAML string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	for _, p := range append(llm.Providers(), string(llm.OpenAI)) {
		for _, v := range llm.EnvVars(p) {
			t.Setenv(v, "")
		}
	}
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("LOG_LEVEL", "error")

	if configYAML != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configYAML), 0o644))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExport_WritesJSON(t *testing.T) {
	dir := workspace(t, "")
	okDir := filepath.Join(dir, "data_ok")
	require.NoError(t, catalog.WriteEntries(catalog.RankedPath(okDir, "groq"), []catalog.Entry{
		{ID: "llama3-8b-8192", Token: "8192"},
		{ID: "gemma-7b-it", Token: "8k"},
	}))

	out, err := run(t, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "Generato models.json")

	raw, err := os.ReadFile(filepath.Join(dir, "models.json"))
	require.NoError(t, err)

	var doc catalog.Export
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Contains(t, doc, "groq")
	assert.Equal(t, "groq", doc["groq"].Client)
	assert.Equal(t, 8192, doc["groq"].Models["llama3-8b-8192"].WindowSize)
	assert.Equal(t, 8192, doc["groq"].Models["gemma-7b-it"].WindowSize)
}

func TestExport_YAMLToStdout(t *testing.T) {
	dir := workspace(t, "")
	require.NoError(t, catalog.WriteEntries(catalog.RankedPath(filepath.Join(dir, "ranked"), "mistral"), []catalog.Entry{
		{ID: "mistral-small", Token: "32k"},
	}))

	out, err := run(t, "export", "ranked", "--format", "yaml", "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "mistral:")
	assert.Contains(t, out, "client: mistral")
	assert.Contains(t, out, "windowSize: 32768")
}

func TestExport_NotADirectory(t *testing.T) {
	workspace(t, "")

	_, err := run(t, "export", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestExport_BadFormat(t *testing.T) {
	dir := workspace(t, "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data_ok"), 0o755))

	_, err := run(t, "export", "--format", "xml")
	require.Error(t, err)
}

func TestFetch_MissingKey(t *testing.T) {
	workspace(t, "")

	out, err := run(t, "fetch", "groq")
	require.Error(t, err)
	assert.Contains(t, out, "GROQ_API_KEY")
}

func TestFetch_UnknownProvider(t *testing.T) {
	workspace(t, "")

	_, err := run(t, "fetch", "nope")
	require.Error(t, err)
}

func TestFetch_WritesCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[
			{"id":"llama3-8b-8192","owned_by":"Meta","context_window":8192},
			{"id":"gemma-7b-it","owned_by":"Google","context_window":8192}
		]}`))
	}))
	defer srv.Close()

	dir := workspace(t, fmt.Sprintf("fetch:\n  base_urls:\n    groq: %s\n", srv.URL))
	t.Setenv("GROQ_API_KEY", "gsk-test")

	out, err := run(t, "fetch", "groq")
	require.NoError(t, err)
	assert.Contains(t, out, "Completato! Salvati 2 modelli Groq")

	ids, err := catalog.ReadIDs(catalog.IDsPath(filepath.Join(dir, "data"), "groq"))
	require.NoError(t, err)
	assert.Equal(t, []string{"gemma-7b-it", "llama3-8b-8192"}, ids)
}

func TestQuickTest_WritesSurvivors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["model"] == "broken" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"model down"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"model":"x","choices":[{"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	dir := workspace(t, fmt.Sprintf("client:\n  base_urls:\n    groq: %s\nprobe:\n  delay: 1ms\n", srv.URL))
	t.Setenv("GROQ_API_KEY", "gsk-test")

	dataDir := filepath.Join(dir, "data")
	require.NoError(t, catalog.WriteIDs(catalog.IDsPath(dataDir, "groq"), []string{"broken", "working"}))
	require.NoError(t, catalog.WriteEntries(catalog.WindowPath(dataDir, "groq"), []catalog.Entry{
		{ID: "broken", Token: "4096"},
		{ID: "working", Token: "8k"},
	}))

	out, err := run(t, "test")
	require.NoError(t, err)
	assert.Contains(t, out, "Testing provider: groq")
	assert.Contains(t, out, "Testing working... OK")
	assert.Contains(t, out, "Testing broken... FAILED")
	assert.Contains(t, out, "Completato! Salvati 1 modelli")

	entries, err := catalog.ReadEntries(catalog.RankedPath(filepath.Join(dir, "data_ok"), "groq"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []catalog.Entry{{ID: "working", Token: "8k"}}, entries)
}

func TestQuickTest_SkipsMissingKey(t *testing.T) {
	dir := workspace(t, "")
	require.NoError(t, catalog.WriteIDs(catalog.IDsPath(filepath.Join(dir, "data"), "groq"), []string{"m"}))

	out, err := run(t, "test")
	require.Error(t, err)
	assert.Contains(t, out, "Skipping groq: API key (GROQ_API_KEY) not found.")
}

func TestQuickTest_NoDataDir(t *testing.T) {
	workspace(t, "")

	_, err := run(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non trovata")
}

func TestRank_RequiresKnownProvider(t *testing.T) {
	workspace(t, "")

	_, err := run(t, "rank", "acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non riconosciuto")
}

func TestRank_MissingKey(t *testing.T) {
	workspace(t, "")

	_, err := run(t, "rank", "groq")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
}

func TestChat_UsesCatalogSelection(t *testing.T) {
	var gotModel interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body["model"]
		_, _ = w.Write([]byte(`{"model":"x","choices":[{"message":{"role":"assistant","content":"Ciao!"},"finish_reason":"stop"}],"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`))
	}))
	defer srv.Close()

	dir := workspace(t, fmt.Sprintf("client:\n  base_urls:\n    groq: %s\n", srv.URL))
	t.Setenv("GROQ_API_KEY", "gsk-test")
	require.NoError(t, catalog.WriteEntries(catalog.WindowPath(filepath.Join(dir, "data"), "groq"), []catalog.Entry{
		{ID: "llama3-8b-8192", Token: "8192"},
	}))

	out, err := run(t, "chat", "ciao")
	require.NoError(t, err)
	assert.Equal(t, "llama3-8b-8192", gotModel)
	assert.Contains(t, out, "Risposta dal modello groq/llama3-8b-8192")
	assert.Contains(t, out, "Ciao!")
	assert.Contains(t, out, "token: 3 in, 2 out")
}

func TestChat_EmptyCatalog(t *testing.T) {
	workspace(t, "")

	_, err := run(t, "chat", "ciao")
	require.Error(t, err)
}

func TestChat_ModelNeedsProvider(t *testing.T) {
	workspace(t, "")

	_, err := run(t, "chat", "--model", "m", "ciao")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--provider")
}

func TestHistory_RequiresStore(t *testing.T) {
	workspace(t, "")

	_, err := run(t, "history")
	assert.ErrorIs(t, err, errNoStore)
}

func TestHistory_ShowsRecordedProbes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model":"x","choices":[{"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	dir := workspace(t, fmt.Sprintf("client:\n  base_urls:\n    groq: %s\nstore:\n  path: history.db\n", srv.URL))
	t.Setenv("GROQ_API_KEY", "gsk-test")
	require.NoError(t, catalog.WriteIDs(catalog.IDsPath(filepath.Join(dir, "data"), "groq"), []string{"working"}))

	_, err := run(t, "test", "groq")
	require.NoError(t, err)

	out, err := run(t, "history", "groq")
	require.NoError(t, err)
	assert.Contains(t, out, "PROVIDER")
	assert.Contains(t, out, "working")
	assert.Contains(t, out, "OK")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, appVersion)
}
