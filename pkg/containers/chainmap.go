package containers

import (
	"fmt"
	"iter"
	"maps"
	"strings"

	"github.com/go-drift/containers/pkg/errors"
)

// MapLike is the capability interface a ChainMapProxy layer must provide:
// keyed lookup plus enumeration of its entries. MapLayer adapts a plain Go
// map; SortedDict, WeakValueDefaultDictionary and ChainMapProxy itself
// satisfy it directly.
type MapLike[K comparable, V any] interface {
	// Lookup returns the value stored under key.
	Lookup(key K) (V, bool)
	// All iterates the mapping's entries.
	All() iter.Seq2[K, V]
}

// MapLayer adapts a plain map as a ChainMapProxy layer. The proxy aliases
// the map rather than copying it, so mutations by the map's owner are
// immediately visible through every proxy holding the layer.
type MapLayer[K comparable, V any] map[K]V

// Lookup returns the value stored under key.
func (m MapLayer[K, V]) Lookup(key K) (V, bool) {
	v, ok := m[key]
	return v, ok
}

// All iterates the map's entries.
func (m MapLayer[K, V]) All() iter.Seq2[K, V] {
	return maps.All(m)
}

// ChainMapProxy is an immutable, read-only view over an ordered list of
// mappings owned elsewhere. Lookups scan the layers in list order and the
// first layer holding the key wins; iteration yields the de-duplicated key
// union in first-seen order. The proxy never copies or mutates a layer.
type ChainMapProxy[K comparable, V any] struct {
	layers []MapLike[K, V]
	// missing overrides the failure path for lookups that miss every layer.
	missing func(K) (V, error)
}

// NewChainMapProxy returns a proxy over the given layers, highest priority
// first. With no layers it views a single empty mapping.
func NewChainMapProxy[K comparable, V any](layers ...MapLike[K, V]) *ChainMapProxy[K, V] {
	if len(layers) == 0 {
		layers = []MapLike[K, V]{MapLayer[K, V]{}}
	}
	return &ChainMapProxy[K, V]{layers: layers}
}

// WithMissing returns a proxy over the same layers whose miss path is
// handled by fn instead of returning a key-missing error. Derived proxies
// (NewChild, Parents, Copy) keep the hook.
func (p *ChainMapProxy[K, V]) WithMissing(fn func(K) (V, error)) *ChainMapProxy[K, V] {
	return &ChainMapProxy[K, V]{layers: p.layers, missing: fn}
}

// Get scans the layers in order and returns the first hit. A miss in every
// layer goes through the missing hook if one is set, and is a key-missing
// error otherwise.
func (p *ChainMapProxy[K, V]) Get(key K) (V, error) {
	for _, layer := range p.layers {
		if v, ok := layer.Lookup(key); ok {
			return v, nil
		}
	}
	if p.missing != nil {
		return p.missing(key)
	}
	var zero V
	return zero, errors.NotFound("containers.ChainMapProxy.Get", key)
}

// GetOr returns the first hit for key, or fallback if no layer holds it.
// The missing hook does not participate.
func (p *ChainMapProxy[K, V]) GetOr(key K, fallback V) V {
	for _, layer := range p.layers {
		if v, ok := layer.Lookup(key); ok {
			return v
		}
	}
	return fallback
}

// Lookup returns the first hit for key. It satisfies MapLike, so proxies
// can themselves serve as layers.
func (p *ChainMapProxy[K, V]) Lookup(key K) (V, bool) {
	for _, layer := range p.layers {
		if v, ok := layer.Lookup(key); ok {
			return v, ok
		}
	}
	var zero V
	return zero, false
}

// Contains reports whether any layer holds key.
func (p *ChainMapProxy[K, V]) Contains(key K) bool {
	_, ok := p.Lookup(key)
	return ok
}

// Len returns the size of the de-duplicated key union.
func (p *ChainMapProxy[K, V]) Len() int {
	n := 0
	for range p.Keys() {
		n++
	}
	return n
}

// Keys iterates the de-duplicated key union in first-seen layer order.
func (p *ChainMapProxy[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		seen := make(map[K]struct{})
		for _, layer := range p.layers {
			for k := range layer.All() {
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				if !yield(k) {
					return
				}
			}
		}
	}
}

// All iterates the effective entries: the key union in first-seen order,
// each with the value from its first-owning layer. It satisfies MapLike.
func (p *ChainMapProxy[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k := range p.Keys() {
			v, _ := p.Lookup(k)
			if !yield(k, v) {
				return
			}
		}
	}
}

// NewChild returns a proxy with m prepended to the existing layers, so its
// entries shadow every current layer. A nil m prepends a fresh empty map.
func (p *ChainMapProxy[K, V]) NewChild(m MapLike[K, V]) *ChainMapProxy[K, V] {
	if m == nil {
		m = MapLayer[K, V]{}
	}
	layers := make([]MapLike[K, V], 0, len(p.layers)+1)
	layers = append(layers, m)
	layers = append(layers, p.layers...)
	return &ChainMapProxy[K, V]{layers: layers, missing: p.missing}
}

// Parents returns a proxy over every layer except the first.
func (p *ChainMapProxy[K, V]) Parents() *ChainMapProxy[K, V] {
	if len(p.layers) <= 1 {
		return &ChainMapProxy[K, V]{layers: []MapLike[K, V]{MapLayer[K, V]{}}, missing: p.missing}
	}
	return &ChainMapProxy[K, V]{layers: p.layers[1:], missing: p.missing}
}

// Layers returns the layer list, highest priority first. The returned slice
// is a copy; the layers themselves are shared.
func (p *ChainMapProxy[K, V]) Layers() []MapLike[K, V] {
	out := make([]MapLike[K, V], len(p.layers))
	copy(out, p.layers)
	return out
}

// Copy returns a new proxy referencing the same layers.
func (p *ChainMapProxy[K, V]) Copy() *ChainMapProxy[K, V] {
	return &ChainMapProxy[K, V]{layers: p.Layers(), missing: p.missing}
}

// Flatten materializes the effective mapping into a concrete map.
func (p *ChainMapProxy[K, V]) Flatten() map[K]V {
	out := make(map[K]V)
	for k, v := range p.All() {
		out[k] = v
	}
	return out
}

// Merge combines the effective mapping with other into a concrete map,
// with other's entries winning on duplicate keys.
func (p *ChainMapProxy[K, V]) Merge(other MapLike[K, V]) map[K]V {
	out := p.Flatten()
	if other != nil {
		for k, v := range other.All() {
			out[k] = v
		}
	}
	return out
}

// MergeUnder combines other with the effective mapping into a concrete map,
// with the proxy's entries winning on duplicate keys.
func (p *ChainMapProxy[K, V]) MergeUnder(other MapLike[K, V]) map[K]V {
	out := make(map[K]V)
	if other != nil {
		for k, v := range other.All() {
			out[k] = v
		}
	}
	for k, v := range p.All() {
		out[k] = v
	}
	return out
}

func (p *ChainMapProxy[K, V]) String() string {
	var b strings.Builder
	b.WriteString("ChainMapProxy(")
	for i, layer := range p.layers {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", layer)
	}
	b.WriteString(")")
	return b.String()
}
