// Package registry holds the process's provider state: resolved keys, the
// model catalog, one client per keyed provider and the current selection.
package registry

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/nulzo/llm-provider-kit/internal/catalog"
	"github.com/nulzo/llm-provider-kit/internal/config"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	_ "github.com/nulzo/llm-provider-kit/internal/llm/all"
	"go.uber.org/zap"
)

type State int32

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Selection is the current (provider, model) pair. Client names the entry in
// the client table serving it.
type Selection struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	WindowSize int    `json:"window_size"`
	Client     string `json:"client"`
}

func (s Selection) IsZero() bool {
	return s == Selection{}
}

// keyFallbacks lets a provider without a key of its own borrow another's.
// OpenRouter accepts OpenAI-style credentials.
var keyFallbacks = map[string]string{
	string(llm.OpenRouter): string(llm.OpenAI),
}

// ResolveKey returns name's key from keys, borrowing the fallback provider's
// key when name has none.
func ResolveKey(keys map[string]string, name string) string {
	if key := keys[name]; key != "" {
		return key
	}
	if alias, ok := keyFallbacks[name]; ok {
		return keys[alias]
	}
	return ""
}

// KeySource yields provider name → resolved key.
type KeySource func() (map[string]string, error)

// ClientFactory builds the client for a provider with its resolved key.
type ClientFactory func(name, apiKey string) (llm.Client, error)

type Registry struct {
	log       *zap.Logger
	dataDir   string
	keySource KeySource
	newClient ClientFactory
	clientOps []llm.Option
	baseURLs  map[string]string

	state    atomic.Int32
	reloadMu sync.Mutex

	mu        sync.RWMutex
	keys      map[string]string
	catalog   *catalog.Catalog
	clients   map[string]llm.Client
	selection Selection
}

type Option func(*Registry)

func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) { r.log = log }
}

func WithDataDir(dir string) Option {
	return func(r *Registry) { r.dataDir = dir }
}

// WithCredentialsFile reads keys from an api_keys.json document.
func WithCredentialsFile(path string) Option {
	return func(r *Registry) { r.keySource = FileKeys(path) }
}

func WithKeySource(src KeySource) Option {
	return func(r *Registry) { r.keySource = src }
}

// WithClientOptions is applied to every client built by the default factory.
func WithClientOptions(opts ...llm.Option) Option {
	return func(r *Registry) { r.clientOps = append(r.clientOps, opts...) }
}

// WithBaseURLs points individual providers' default clients elsewhere.
func WithBaseURLs(urls map[string]string) Option {
	return func(r *Registry) { r.baseURLs = urls }
}

func WithClientFactory(f ClientFactory) Option {
	return func(r *Registry) { r.newClient = f }
}

// FileKeys resolves keys from the credentials file at path.
func FileKeys(path string) KeySource {
	return func() (map[string]string, error) {
		creds, err := config.LoadCredentials(path)
		if err != nil {
			return nil, err
		}
		return creds.Keys(), nil
	}
}

// New builds a registry and runs the initial load. Load problems are logged,
// never returned: a registry with no keys or no catalog is still usable.
func New(opts ...Option) *Registry {
	r := &Registry{
		log:       zap.NewNop(),
		dataDir:   "data",
		keySource: FileKeys("api_keys.json"),
		keys:      map[string]string{},
		catalog:   catalog.New(),
		clients:   map[string]llm.Client{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.newClient == nil {
		r.newClient = func(name, apiKey string) (llm.Client, error) {
			opts := r.clientOps
			if url := r.baseURLs[name]; url != "" {
				opts = append(append([]llm.Option(nil), opts...), llm.WithBaseURL(url))
			}
			return llm.New(name, apiKey, opts...)
		}
	}

	r.Reload()
	return r
}

// Reload discards all state and loads keys, catalogs and clients again. The
// new state is published in one step, so readers see either the old or the
// new registry.
func (r *Registry) Reload() bool {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	r.state.Store(int32(Loading))

	keys := r.loadKeys()
	cat := r.loadCatalog()
	clients := r.buildClients(keys)

	var sel Selection
	if first, ok := cat.First(); ok {
		sel = Selection{
			Provider:   first.Provider,
			Model:      first.ID,
			WindowSize: first.WindowSize,
			Client:     first.Provider,
		}
		r.log.Info("default selection",
			zap.String("provider", sel.Provider),
			zap.String("model", sel.Model),
			zap.Int("window_size", sel.WindowSize))
	}

	r.mu.Lock()
	r.keys = keys
	r.catalog = cat
	r.clients = clients
	r.selection = sel
	r.mu.Unlock()

	r.state.Store(int32(Ready))
	return true
}

func (r *Registry) loadKeys() map[string]string {
	keys, err := r.keySource()
	if err != nil {
		r.log.Error("failed to load api keys", zap.Error(err))
		return map[string]string{}
	}
	if keys == nil {
		keys = map[string]string{}
	}
	r.log.Debug("api keys loaded", zap.Int("count", len(keys)))
	return keys
}

func (r *Registry) loadCatalog() *catalog.Catalog {
	cat, err := catalog.LoadDir(r.dataDir, r.log)
	if err != nil {
		r.log.Warn("failed to load catalog", zap.String("dir", r.dataDir), zap.Error(err))
	}
	if cat == nil {
		cat = catalog.New()
	}
	return cat
}

func (r *Registry) buildClients(keys map[string]string) map[string]llm.Client {
	clients := make(map[string]llm.Client)
	for _, name := range llm.Providers() {
		key := ResolveKey(keys, name)
		if key == "" {
			continue
		}

		client, err := r.newClient(name, key)
		if err != nil {
			r.log.Error("failed to create client", zap.String("provider", name), zap.Error(err))
			continue
		}
		clients[name] = client
	}
	return clients
}

// SetSelection switches to model of provider when the catalog has it. All
// selection fields change together; on false nothing changes.
func (r *Registry) SetSelection(provider, model string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	spec, ok := r.catalog.Lookup(provider, model)
	if !ok {
		return false
	}
	r.selection = Selection{
		Provider:   provider,
		Model:      spec.ID,
		WindowSize: spec.WindowSize,
		Client:     provider,
	}
	return true
}

// Client returns the named provider's client; "" means the current
// selection's.
func (r *Registry) Client(name string) (llm.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.selection.Client
	}
	if name == "" {
		return nil, false
	}
	c, ok := r.clients[name]
	return c, ok
}

func (r *Registry) Selection() Selection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selection
}

// Catalog returns a copy of the loaded catalog.
func (r *Registry) Catalog() *catalog.Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.Clone()
}

// Keys lists providers with a resolved key. Secrets are never exposed.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.keys)
}

// Clients lists providers that have a client.
func (r *Registry) Clients() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.clients)
}

func (r *Registry) State() State {
	return State(r.state.Load())
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
