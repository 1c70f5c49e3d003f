package probe

import (
	"strconv"

	"github.com/nulzo/llm-provider-kit/internal/catalog"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/llm/google"
)

// WritePassed writes the quick-test survivors to <okDir>/<p>_wnd.txt in probe
// order, keeping the raw window token.
func WritePassed(okDir, provider string, results []Result) error {
	passed := Passed(results)
	entries := make([]catalog.Entry, len(passed))
	for i, r := range passed {
		entries[i] = catalog.Entry{ID: r.Model, Token: r.Window}
	}
	return catalog.WriteEntries(catalog.RankedPath(okDir, provider), entries)
}

// WriteRanked writes the ranked models, fastest first, with their window as a
// plain token count.
func WriteRanked(okDir, provider string, ranked []Result) error {
	entries := make([]catalog.Entry, len(ranked))
	for i, r := range ranked {
		entries[i] = catalog.Entry{ID: r.Model, Token: strconv.Itoa(r.WindowSize)}
	}
	return catalog.WriteEntries(catalog.RankedPath(okDir, provider), entries)
}

// Clients builds the clients a provider is probed through. Gemini gets a v1
// client behind the default v1beta one, for models only the stable API
// serves. A non-empty baseURL replaces both.
func Clients(provider, key, baseURL string, opts ...llm.Option) ([]llm.Client, error) {
	if baseURL != "" {
		opts = append(opts, llm.WithBaseURL(baseURL))
	}
	primary, err := llm.New(provider, key, opts...)
	if err != nil {
		return nil, err
	}
	if provider != string(llm.Gemini) || baseURL != "" {
		return []llm.Client{primary}, nil
	}

	fallback, err := llm.New(provider, key, append(opts, llm.WithBaseURL(google.BaseURLV1))...)
	if err != nil {
		return nil, err
	}
	return []llm.Client{primary, fallback}, nil
}
