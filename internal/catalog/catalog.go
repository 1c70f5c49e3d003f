// Package catalog holds the in-memory model catalog and reads and writes the
// flat files it is persisted in.
package catalog

import (
	"github.com/nulzo/llm-provider-kit/pkg/api"
)

// Catalog maps providers to their models, both in load order.
type Catalog struct {
	providers []string
	models    map[string][]api.ModelSpec
}

func New() *Catalog {
	return &Catalog{models: make(map[string][]api.ModelSpec)}
}

// Add appends models to provider. Ids already present for that provider are
// ignored, so the first occurrence wins.
func (c *Catalog) Add(provider string, models ...api.ModelSpec) {
	if c.models == nil {
		c.models = make(map[string][]api.ModelSpec)
	}
	existing, ok := c.models[provider]
	if !ok {
		c.providers = append(c.providers, provider)
		existing = []api.ModelSpec{}
	}

	seen := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		seen[m.ID] = struct{}{}
	}
	for _, m := range models {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		m.Provider = provider
		existing = append(existing, m)
	}
	c.models[provider] = existing
}

// Providers returns provider names in load order.
func (c *Catalog) Providers() []string {
	return append([]string(nil), c.providers...)
}

// Models returns a copy of provider's models, in file order.
func (c *Catalog) Models(provider string) []api.ModelSpec {
	return append([]api.ModelSpec(nil), c.models[provider]...)
}

func (c *Catalog) Lookup(provider, id string) (api.ModelSpec, bool) {
	for _, m := range c.models[provider] {
		if m.ID == id {
			return m, true
		}
	}
	return api.ModelSpec{}, false
}

// First is the default selection: first model of the first provider that has
// any.
func (c *Catalog) First() (api.ModelSpec, bool) {
	for _, p := range c.providers {
		if models := c.models[p]; len(models) > 0 {
			return models[0], true
		}
	}
	return api.ModelSpec{}, false
}

// Len counts models across providers.
func (c *Catalog) Len() int {
	n := 0
	for _, models := range c.models {
		n += len(models)
	}
	return n
}

func (c *Catalog) Empty() bool {
	return len(c.providers) == 0
}

// Clone returns a deep copy; mutating it never affects c.
func (c *Catalog) Clone() *Catalog {
	out := New()
	for _, p := range c.providers {
		out.providers = append(out.providers, p)
		out.models[p] = append([]api.ModelSpec{}, c.models[p]...)
	}
	return out
}
