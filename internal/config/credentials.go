package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// KeyEntry is one named secret of a provider.
type KeyEntry struct {
	Name string `mapstructure:"name"`
	Key  string `mapstructure:"key"`
}

type ProviderKeys struct {
	ExportedKey string     `mapstructure:"exported_key"`
	Keys        []KeyEntry `mapstructure:"keys"`
}

// Resolve picks the key named ExportedKey, else the first listed key.
func (p ProviderKeys) Resolve() (string, bool) {
	for _, k := range p.Keys {
		if k.Name == p.ExportedKey && k.Key != "" {
			return k.Key, true
		}
	}
	for _, k := range p.Keys {
		if k.Key != "" {
			return k.Key, true
		}
	}
	return "", false
}

// Credentials is the api_keys.json document.
type Credentials struct {
	Providers map[string]ProviderKeys `mapstructure:"providers"`
}

// LoadCredentials reads the credentials file with its own viper instance so
// that secrets never mix with application config.
func LoadCredentials(path string) (*Credentials, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read credentials %s: %w", path, err)
	}

	var creds Credentials
	if err := v.Unmarshal(&creds); err != nil {
		return nil, fmt.Errorf("decode credentials %s: %w", path, err)
	}
	return &creds, nil
}

// Keys resolves every provider that has a usable key. Provider names are
// lower-cased.
func (c *Credentials) Keys() map[string]string {
	out := make(map[string]string, len(c.Providers))
	for name, p := range c.Providers {
		if key, ok := p.Resolve(); ok {
			out[strings.ToLower(name)] = key
		}
	}
	return out
}

// Names lists the providers present in the file, sorted.
func (c *Credentials) Names() []string {
	names := make([]string, 0, len(c.Providers))
	for name := range c.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
