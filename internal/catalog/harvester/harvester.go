// Package harvester fetches each vendor's model list, applies the vendor's
// filter and "keep the newest" dedup, and writes the catalog files.
package harvester

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/nulzo/llm-provider-kit/internal/catalog"
	"github.com/nulzo/llm-provider-kit/internal/httpclient"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultTimeout = 30 * time.Second

// KeyFunc returns the API key for provider, or "".
type KeyFunc func(provider string) string

type Harvester struct {
	log     *zap.Logger
	dataDir string
	client  *http.Client
	timeout time.Duration
	pacer   *rate.Limiter
	keys    KeyFunc
	urls    map[string]string
}

type Option func(*Harvester)

func WithHTTPClient(c *http.Client) Option {
	return func(h *Harvester) { h.client = c }
}

func WithTimeout(d time.Duration) Option {
	return func(h *Harvester) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithDelay spaces listing requests at least d apart.
func WithDelay(d time.Duration) Option {
	return func(h *Harvester) { h.pacer = httpclient.Pacer(d) }
}

func WithKeys(keys KeyFunc) Option {
	return func(h *Harvester) { h.keys = keys }
}

// WithBaseURL overrides the listing endpoint root for provider.
func WithBaseURL(provider, url string) Option {
	return func(h *Harvester) { h.urls[provider] = strings.TrimRight(url, "/") }
}

func New(log *zap.Logger, dataDir string, opts ...Option) *Harvester {
	h := &Harvester{
		log:     log,
		dataDir: dataDir,
		client:  httpclient.New(DefaultTimeout),
		timeout: DefaultTimeout,
		pacer:   httpclient.Pacer(0),
		keys:    llm.KeyFromEnv,
		urls:    make(map[string]string, len(defaultURLs)),
	}
	for p, u := range defaultURLs {
		h.urls[p] = u
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Providers lists the providers a harvest can run for, sorted.
func Providers() []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Result struct {
	Provider string
	Models   []Listing
	Err      error
}

// Harvest fetches, filters and dedups provider's listing and rewrites
// models_<p>.txt, models_<p>_wnd.txt and models_<p>_info.txt. Files are only
// touched when the fetch succeeds.
func (h *Harvester) Harvest(ctx context.Context, provider string) ([]Listing, error) {
	src, ok := sources[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", provider)
	}

	key := h.keys(provider)
	if src.keyRequired && key == "" {
		return nil, fmt.Errorf("%s: %w: set %s", provider, llm.ErrMissingAPIKey, strings.Join(llm.EnvVars(provider), " or "))
	}

	listings, err := src.fetch(ctx, h, h.urls[provider], key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", provider, err)
	}
	models := dedup(listings, src.prefer)

	if err := h.write(provider, models); err != nil {
		return nil, fmt.Errorf("%s: %w", provider, err)
	}

	h.log.Info("harvest complete",
		zap.String("provider", provider),
		zap.Int("listed", len(listings)),
		zap.Int("kept", len(models)),
	)
	return models, nil
}

// HarvestAll runs Harvest for each provider in order. One provider failing
// does not stop the others.
func (h *Harvester) HarvestAll(ctx context.Context, providers []string) []Result {
	results := make([]Result, 0, len(providers))
	for _, p := range providers {
		models, err := h.Harvest(ctx, p)
		if err != nil {
			h.log.Error("harvest failed", zap.String("provider", p), zap.Error(err))
		}
		results = append(results, Result{Provider: p, Models: models, Err: err})
	}
	return results
}

func (h *Harvester) write(provider string, models []Listing) error {
	ids := make([]string, len(models))
	entries := make([]catalog.Entry, len(models))
	blocks := make([]catalog.InfoBlock, len(models))
	for i, m := range models {
		ids[i] = m.ID
		entries[i] = catalog.Entry{ID: m.ID, Token: catalog.FormatWindow(m.Window)}
		blocks[i] = m.info()
	}

	if err := catalog.WriteIDs(catalog.IDsPath(h.dataDir, provider), ids); err != nil {
		return err
	}
	if err := catalog.WriteEntries(catalog.WindowPath(h.dataDir, provider), entries); err != nil {
		return err
	}
	return catalog.WriteInfo(catalog.InfoPath(h.dataDir, provider), catalog.InfoTitle(provider), blocks)
}
