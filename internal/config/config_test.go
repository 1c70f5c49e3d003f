package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "api_keys.json", cfg.Credentials.Path)
	assert.Equal(t, "data", cfg.Catalog.DataDir)
	assert.Equal(t, "data_ok", cfg.Catalog.OkDir)
	assert.Equal(t, "models.json", cfg.Catalog.ExportFile)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 1, cfg.Probe.Samples)
	assert.Empty(t, cfg.Store.Path)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("CATALOG_DATA_DIR", "/srv/catalog")
	t.Setenv("PROBE_DELAY", "500ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/srv/catalog", cfg.Catalog.DataDir)
	assert.Equal(t, 500*time.Millisecond, cfg.Probe.Delay)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog:
  data_dir: fixtures
probe:
  samples: 3
  timeout: 5s
store:
  path: history.db
client:
  base_urls:
    groq: http://127.0.0.1:9000/openai/v1
fetch:
  base_urls:
    huggingface: http://127.0.0.1:9001/api
`), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "fixtures", cfg.Catalog.DataDir)
	assert.Equal(t, 3, cfg.Probe.Samples)
	assert.Equal(t, 5*time.Second, cfg.Probe.Timeout)
	assert.Equal(t, "history.db", cfg.Store.Path)
	assert.Equal(t, "http://127.0.0.1:9000/openai/v1", cfg.Client.BaseURLs["groq"])
	assert.Equal(t, "http://127.0.0.1:9001/api", cfg.Fetch.BaseURLs["huggingface"])
}

func TestLoadCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api_keys.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"providers": {
			"groq": {"exported_key": "work", "keys": [{"name": "personal", "key": "gsk-1"}, {"name": "work", "key": "gsk-2"}]},
			"mistral": {"exported_key": "missing", "keys": [{"name": "a", "key": "m-1"}]},
			"openai": {"keys": [{"name": "default", "key": "sk-1"}]},
			"cerebras": {"exported_key": "x", "keys": []}
		}
	}`), 0o600))

	creds, err := LoadCredentials(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"groq":    "gsk-2",
		"mistral": "m-1",
		"openai":  "sk-1",
	}, creds.Keys())
	assert.Equal(t, []string{"cerebras", "groq", "mistral", "openai"}, creds.Names())
}

func TestLoadCredentials_Errors(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"providers": `), 0o600))
	_, err = LoadCredentials(path)
	assert.Error(t, err)
}

func TestLogConfig_Logger(t *testing.T) {
	c := LogConfig{Level: "debug", Format: "console", Color: true}

	lc := c.Logger("stderr")
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "stderr", lc.Output)
	assert.True(t, lc.EnableColor)

	t.Setenv("NO_COLOR", "1")
	assert.False(t, c.Logger("stdout").EnableColor)
}
