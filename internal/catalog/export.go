package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type ExportModel struct {
	WindowSize int `json:"windowSize" yaml:"windowSize"`
}

type ExportProvider struct {
	Client string                 `json:"client" yaml:"client"`
	Models map[string]ExportModel `json:"models" yaml:"models"`
}

// Export is the models.json document: provider -> client + models.
type Export map[string]ExportProvider

func NewExport(c *Catalog) Export {
	out := make(Export, len(c.providers))
	for _, p := range c.providers {
		entry := ExportProvider{Client: p, Models: make(map[string]ExportModel, len(c.models[p]))}
		for _, m := range c.models[p] {
			entry.Models[m.ID] = ExportModel{WindowSize: m.WindowSize}
		}
		out[p] = entry
	}
	return out
}

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func (e Export) Write(w io.Writer, format Format) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(e)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(e); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func (e Export) WriteFile(path string, format Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := e.Write(f, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// LoadExportDir reads every *_wnd.txt in dir, ranked ("<p>_wnd.txt") or raw
// ("models_<p>_wnd.txt"), in lexical order.
func LoadExportDir(dir string, log *zap.Logger) (*Catalog, error) {
	cat := New()
	if _, err := os.Stat(dir); err != nil {
		return cat, err
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*"+windowSuffix))
	if err != nil {
		return cat, err
	}

	for _, path := range matches {
		provider := ProviderFromFile(filepath.Base(path))
		if provider == "" {
			continue
		}
		entries, err := ReadEntries(path, log)
		if err != nil {
			log.Error("failed to read window file", zap.String("file", path), zap.Error(err))
			continue
		}
		for _, e := range entries {
			cat.Add(provider, e.Spec(provider))
		}
	}
	return cat, nil
}
