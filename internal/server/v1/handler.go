// Package v1 holds the gateway's HTTP handlers.
package v1

import (
	"github.com/nulzo/llm-provider-kit/internal/catalog"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/registry"
)

// Registry is the part of *registry.Registry the handlers use.
type Registry interface {
	Reload() bool
	SetSelection(provider, model string) bool
	Client(name string) (llm.Client, bool)
	Selection() registry.Selection
	Catalog() *catalog.Catalog
	Keys() []string
	Clients() []string
	State() registry.State
}
