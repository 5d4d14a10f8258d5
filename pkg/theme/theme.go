// Package theme provides layered theme and configuration resolution.
//
// A ThemeStack composes property scopes owned elsewhere — widget-local
// overrides, the application theme, built-in defaults — into one lookup
// view. Scopes are layered through a containers.ChainMapProxy, so they are
// shared rather than copied: when a scope's owner mutates its map, every
// stack referencing that scope sees the new value on the next lookup.
package theme

import (
	"github.com/go-drift/containers/pkg/containers"
)

// Properties is one theme scope: a flat property map owned by whoever
// defined the scope (the app, a widget subtree, the built-in defaults).
type Properties = containers.MapLayer[string, any]

// ThemeStack resolves theme properties through prioritized scopes,
// closest scope first.
type ThemeStack struct {
	proxy *containers.ChainMapProxy[string, any]
}

// NewStack returns a stack over the given scopes, highest priority first.
func NewStack(scopes ...containers.MapLike[string, any]) *ThemeStack {
	return &ThemeStack{proxy: containers.NewChainMapProxy(scopes...)}
}

// DefaultProperties returns the built-in defaults scope. It is a fresh map
// on every call so an app may mutate its own copy.
func DefaultProperties() Properties {
	return Properties{
		"brightness":   "light",
		"font.family":  "sans-serif",
		"font.size":    14.0,
		"color.accent": "#2196f3",
		"color.text":   "#000000",
	}
}

// Override returns a stack with scope prepended, shadowing every current
// scope. The receiver is unchanged.
func (s *ThemeStack) Override(scope Properties) *ThemeStack {
	if scope == nil {
		scope = Properties{}
	}
	return &ThemeStack{proxy: s.proxy.NewChild(scope)}
}

// Parents returns a stack without the closest scope.
func (s *ThemeStack) Parents() *ThemeStack {
	return &ThemeStack{proxy: s.proxy.Parents()}
}

// Get returns the property value from the closest scope defining it.
func (s *ThemeStack) Get(key string) (any, error) {
	return s.proxy.Get(key)
}

// Contains reports whether any scope defines key.
func (s *ThemeStack) Contains(key string) bool {
	return s.proxy.Contains(key)
}

// Len returns the number of distinct properties across all scopes.
func (s *ThemeStack) Len() int {
	return s.proxy.Len()
}

// GetString returns the property under key, or fallback when the key is
// absent or not a string.
func (s *ThemeStack) GetString(key, fallback string) string {
	if v, ok := s.proxy.Lookup(key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return fallback
}

// GetFloat returns the property under key, or fallback when the key is absent
// or not numeric. YAML decodes untagged numbers as int or float64; both
// are accepted.
func (s *ThemeStack) GetFloat(key string, fallback float64) float64 {
	if v, ok := s.proxy.Lookup(key); ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return fallback
}

// GetBool returns the property under key, or fallback when the key is absent
// or not a bool.
func (s *ThemeStack) GetBool(key string, fallback bool) bool {
	if v, ok := s.proxy.Lookup(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

// Flatten materializes the effective theme into a concrete property map.
func (s *ThemeStack) Flatten() map[string]any {
	return s.proxy.Flatten()
}
