// Package payload narrows a provider-agnostic request down to the fields a
// given vendor accepts.
package payload

import (
	"reflect"
	"sort"

	"github.com/nulzo/llm-provider-kit/pkg/api"
)

// FieldSet is an allow-list of top-level request fields.
type FieldSet map[string]struct{}

func NewFieldSet(fields ...string) FieldSet {
	fs := make(FieldSet, len(fields))
	for _, f := range fields {
		fs[f] = struct{}{}
	}
	return fs
}

func (fs FieldSet) Has(field string) bool {
	_, ok := fs[field]
	return ok
}

// Fields returns the allow-list sorted, for logs and docs.
func (fs FieldSet) Fields() []string {
	out := make([]string, 0, len(fs))
	for f := range fs {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Adapt keeps the allowed keys whose value is set. It never fails and never
// mutates p.
func Adapt(p api.Payload, allowed FieldSet) api.Payload {
	out := make(api.Payload, len(p))
	for k, v := range p {
		if !allowed.Has(k) || isUnset(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// AdaptFor adapts p to the allow-list of the named provider. Unknown providers
// accept nothing.
func AdaptFor(provider string, p api.Payload) api.Payload {
	return Adapt(p, ForProvider(provider))
}

// ForProvider returns a copy of the allow-list registered for provider.
func ForProvider(provider string) FieldSet {
	fs, ok := providerFields[provider]
	if !ok {
		return FieldSet{}
	}
	out := make(FieldSet, len(fs))
	for f := range fs {
		out[f] = struct{}{}
	}
	return out
}

// isUnset treats nil and typed nils (pointer, map, slice, func, chan,
// interface) as absent.
func isUnset(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
