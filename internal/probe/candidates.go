package probe

import (
	"errors"
	"fmt"
	"os"

	"github.com/nulzo/llm-provider-kit/internal/catalog"
	"go.uber.org/zap"
)

// ErrNoCandidates is returned when nothing is left to probe for a provider.
var ErrNoCandidates = errors.New("no models to probe")

// Candidates lists the ids in models_<p>.txt with their raw window token from
// models_<p>_wnd.txt ("N/A" when absent). With chatOnly set, only ids the info
// file marks chat-capable are kept.
func Candidates(dataDir, provider string, chatOnly bool, log *zap.Logger) ([]catalog.Entry, error) {
	ids, err := catalog.ReadIDs(catalog.IDsPath(dataDir, provider))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", provider, err)
	}

	windows := make(map[string]string)
	entries, err := catalog.ReadEntries(catalog.WindowPath(dataDir, provider), log)
	switch {
	case err == nil:
		for _, e := range entries {
			windows[e.ID] = e.Token
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("%s: %w", provider, err)
	}

	var capable map[string]bool
	if chatOnly {
		capable, err = ChatCapableIDs(dataDir, provider)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", provider, err)
		}
	}

	out := make([]catalog.Entry, 0, len(ids))
	for _, id := range ids {
		if chatOnly && !capable[id] {
			continue
		}
		token, ok := windows[id]
		if !ok {
			token = catalog.Unknown
		}
		out = append(out, catalog.Entry{ID: id, Token: token})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", provider, ErrNoCandidates)
	}
	return out, nil
}
