package llm

import (
	"fmt"
	"sort"
	"sync"
)

type Factory func(cfg Config) (Client, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register makes a provider factory available under name. Variants call it
// from init.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("provider factory %s already registered", name))
	}
	factories[name] = f
}

func Get(name string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("provider factory not found for type: %s", name)
	}
	return f, nil
}

// New builds the named client. An empty apiKey falls back to the provider's
// environment variables; ErrMissingAPIKey is returned when neither yields one.
func New(name, apiKey string, opts ...Option) (Client, error) {
	factory, err := Get(name)
	if err != nil {
		return nil, err
	}

	cfg := Config{Name: name, APIKey: apiKey}
	for _, opt := range opts {
		opt(&cfg)
	}

	return factory(cfg)
}

// Providers lists registered provider names, sorted.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
