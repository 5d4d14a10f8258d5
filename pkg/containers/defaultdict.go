package containers

import (
	"iter"
	"weak"

	"github.com/go-drift/containers/pkg/errors"
)

// WeakKeyDefaultDictionary maps weakly-held keys to strongly-held values,
// with an optional zero-argument default factory. Get on a missing key
// invokes the factory exactly once, stores the result under the key, and
// then returns it; with no factory the miss is a key-missing error.
//
// The dictionary never keeps a key alive. Entries whose key has been
// reclaimed vanish silently: they are swept at Len and iteration, and
// absence is indistinguishable from never having been inserted.
type WeakKeyDefaultDictionary[K any, V any] struct {
	entries map[weak.Pointer[K]]V
	factory func() V
}

// NewWeakKeyDefaultDictionary returns an empty dictionary. A nil factory
// disables the default-value path.
func NewWeakKeyDefaultDictionary[K any, V any](factory func() V) *WeakKeyDefaultDictionary[K, V] {
	return &WeakKeyDefaultDictionary[K, V]{
		entries: make(map[weak.Pointer[K]]V),
		factory: factory,
	}
}

// DefaultFactory returns the configured factory, or nil.
func (d *WeakKeyDefaultDictionary[K, V]) DefaultFactory() func() V {
	return d.factory
}

// Get returns the value stored under key, populating it through the factory
// on a miss. The store completes before Get returns, so the caller observes
// the same value on every subsequent access while the key stays alive.
func (d *WeakKeyDefaultDictionary[K, V]) Get(key *K) (V, error) {
	var zero V
	if key == nil {
		return zero, errors.NotFound("containers.WeakKeyDefaultDictionary.Get", nil)
	}
	ref := weak.Make(key)
	if v, ok := d.entries[ref]; ok {
		return v, nil
	}
	if d.factory == nil {
		return zero, errors.NotFound("containers.WeakKeyDefaultDictionary.Get", key)
	}
	v := d.factory()
	d.entries[ref] = v
	return v, nil
}

// Set stores value under key.
func (d *WeakKeyDefaultDictionary[K, V]) Set(key *K, value V) {
	if key == nil {
		return
	}
	d.entries[weak.Make(key)] = value
}

// Contains reports whether key has an entry.
func (d *WeakKeyDefaultDictionary[K, V]) Contains(key *K) bool {
	if key == nil {
		return false
	}
	_, ok := d.entries[weak.Make(key)]
	return ok
}

// Delete removes key's entry and reports whether one existed.
func (d *WeakKeyDefaultDictionary[K, V]) Delete(key *K) bool {
	if key == nil {
		return false
	}
	ref := weak.Make(key)
	if _, ok := d.entries[ref]; !ok {
		return false
	}
	delete(d.entries, ref)
	return true
}

// Len returns the number of entries whose key is still alive.
func (d *WeakKeyDefaultDictionary[K, V]) Len() int {
	d.prune()
	return len(d.entries)
}

// Clear removes all entries.
func (d *WeakKeyDefaultDictionary[K, V]) Clear() {
	clear(d.entries)
}

// All iterates the live entries. Yielded keys are strong references valid
// for the duration of their yield; callers must not retain them beyond the
// loop body.
func (d *WeakKeyDefaultDictionary[K, V]) All() iter.Seq2[*K, V] {
	return func(yield func(*K, V) bool) {
		d.prune()
		for ref, v := range d.entries {
			k := ref.Value()
			if k == nil {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Keys iterates the live keys.
func (d *WeakKeyDefaultDictionary[K, V]) Keys() iter.Seq[*K] {
	return func(yield func(*K) bool) {
		for k := range d.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// prune drops entries whose key has been reclaimed.
func (d *WeakKeyDefaultDictionary[K, V]) prune() {
	for ref := range d.entries {
		if ref.Value() == nil {
			delete(d.entries, ref)
		}
	}
}

// WeakValueDefaultDictionary maps strongly-held keys to weakly-held values,
// with an optional default factory. The dictionary never keeps a value
// alive: once the last strong reference to a stored value is dropped and
// reclamation runs, the entry vanishes silently, and a later Get behaves as
// if the key was never inserted (re-invoking the factory if one is set).
type WeakValueDefaultDictionary[K comparable, V any] struct {
	entries map[K]weak.Pointer[V]
	factory func() *V
}

// NewWeakValueDefaultDictionary returns an empty dictionary. A nil factory
// disables the default-value path.
func NewWeakValueDefaultDictionary[K comparable, V any](factory func() *V) *WeakValueDefaultDictionary[K, V] {
	return &WeakValueDefaultDictionary[K, V]{
		entries: make(map[K]weak.Pointer[V]),
		factory: factory,
	}
}

// DefaultFactory returns the configured factory, or nil.
func (d *WeakValueDefaultDictionary[K, V]) DefaultFactory() func() *V {
	return d.factory
}

// Get returns the live value stored under key, populating it through the
// factory on a miss. A hit on a reclaimed value drops the dead entry in
// place and follows the miss path. The store completes before Get returns.
func (d *WeakValueDefaultDictionary[K, V]) Get(key K) (*V, error) {
	if ref, ok := d.entries[key]; ok {
		if v := ref.Value(); v != nil {
			return v, nil
		}
		delete(d.entries, key)
	}
	if d.factory == nil {
		return nil, errors.NotFound("containers.WeakValueDefaultDictionary.Get", key)
	}
	v := d.factory()
	d.entries[key] = weak.Make(v)
	return v, nil
}

// Set stores value under key. A nil value removes the entry.
func (d *WeakValueDefaultDictionary[K, V]) Set(key K, value *V) {
	if value == nil {
		delete(d.entries, key)
		return
	}
	d.entries[key] = weak.Make(value)
}

// Lookup returns the live value stored under key without touching the
// factory. It satisfies MapLike, so the dictionary can serve as a
// ChainMapProxy layer.
func (d *WeakValueDefaultDictionary[K, V]) Lookup(key K) (*V, bool) {
	ref, ok := d.entries[key]
	if !ok {
		return nil, false
	}
	v := ref.Value()
	if v == nil {
		delete(d.entries, key)
		return nil, false
	}
	return v, true
}

// Contains reports whether key holds a live value.
func (d *WeakValueDefaultDictionary[K, V]) Contains(key K) bool {
	_, ok := d.Lookup(key)
	return ok
}

// Delete removes key's entry and reports whether a live one existed.
func (d *WeakValueDefaultDictionary[K, V]) Delete(key K) bool {
	ref, ok := d.entries[key]
	if !ok {
		return false
	}
	delete(d.entries, key)
	return ref.Value() != nil
}

// Len returns the number of entries whose value is still alive.
func (d *WeakValueDefaultDictionary[K, V]) Len() int {
	d.prune()
	return len(d.entries)
}

// Clear removes all entries.
func (d *WeakValueDefaultDictionary[K, V]) Clear() {
	clear(d.entries)
}

// All iterates the live entries. Yielded values are strong references valid
// for the duration of their yield; callers must not retain them beyond the
// loop body.
func (d *WeakValueDefaultDictionary[K, V]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		d.prune()
		for k, ref := range d.entries {
			v := ref.Value()
			if v == nil {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Keys iterates the keys holding live values.
func (d *WeakValueDefaultDictionary[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range d.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// prune drops entries whose value has been reclaimed.
func (d *WeakValueDefaultDictionary[K, V]) prune() {
	for k, ref := range d.entries {
		if ref.Value() == nil {
			delete(d.entries, k)
		}
	}
}
