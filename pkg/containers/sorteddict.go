package containers

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/go-drift/containers/pkg/errors"
)

// Compare orders two keys. It reports an ordering error when the keys do
// not share a total order, which SortedDict surfaces at the mutation that
// introduced the offending key rather than at iteration time.
type Compare[K any] func(a, b K) (int, error)

// Natural returns a Compare over any naturally ordered key type.
// It never fails.
func Natural[K cmp.Ordered]() Compare[K] {
	return func(a, b K) (int, error) {
		return cmp.Compare(a, b), nil
	}
}

// CompareAny orders dynamically-typed keys. Two values order only when they
// share the same ordered dynamic type; anything else is an ordering error.
func CompareAny(a, b any) (int, error) {
	switch x := a.(type) {
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y), nil
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y), nil
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y), nil
		}
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y), nil
		}
	}
	return 0, errors.Ordering("containers.CompareAny", a, b)
}

// SortedDict is a key/value mapping whose canonical iteration order is the
// comparator-defined ascending key order. The sorted position of a new key
// is located by binary search over a maintained key slice, so no mutation
// triggers a full resort; the ascending invariant holds before every
// mutating call returns.
type SortedDict[K comparable, V any] struct {
	entries map[K]V
	keys    []K
	compare Compare[K]
}

// NewSortedDict returns an empty dict over naturally ordered keys.
func NewSortedDict[K cmp.Ordered, V any]() *SortedDict[K, V] {
	return NewSortedDictFunc[K, V](Natural[K]())
}

// NewSortedDictFunc returns an empty dict ordered by the given comparator.
func NewSortedDictFunc[K comparable, V any](compare Compare[K]) *SortedDict[K, V] {
	return &SortedDict[K, V]{
		entries: make(map[K]V),
		compare: compare,
	}
}

// NewSortedDictOf returns a dict over naturally ordered keys seeded from m.
func NewSortedDictOf[K cmp.Ordered, V any](m map[K]V) *SortedDict[K, V] {
	d := NewSortedDict[K, V]()
	d.entries = maps.Clone(m)
	if d.entries == nil {
		d.entries = make(map[K]V)
	}
	d.keys = slices.Sorted(maps.Keys(m))
	return d
}

// SortedDictFromKeys builds a dict in one pass, storing value under every
// key of seq.
func SortedDictFromKeys[K comparable, V any](compare Compare[K], seq iter.Seq[K], value V) (*SortedDict[K, V], error) {
	d := NewSortedDictFunc[K, V](compare)
	for k := range seq {
		if err := d.Set(k, value); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Set stores value under key. A new key is placed by binary search; a key
// that does not order against the existing keys fails here, with the dict
// unchanged.
func (d *SortedDict[K, V]) Set(key K, value V) error {
	if _, ok := d.entries[key]; ok {
		d.entries[key] = value
		return nil
	}
	at, err := d.insertionPoint(key)
	if err != nil {
		return err
	}
	d.entries[key] = value
	d.keys = slices.Insert(d.keys, at, key)
	return nil
}

// insertionPoint locates the sorted position for a new key.
func (d *SortedDict[K, V]) insertionPoint(key K) (int, error) {
	lo, hi := 0, len(d.keys)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		c, err := d.compare(d.keys[mid], key)
		if err != nil {
			return 0, err
		}
		if c <= 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// Get returns the value stored under key, or a key-missing error.
func (d *SortedDict[K, V]) Get(key K) (V, error) {
	v, ok := d.entries[key]
	if !ok {
		return v, errors.NotFound("containers.SortedDict.Get", key)
	}
	return v, nil
}

// Lookup returns the value stored under key. It satisfies MapLike, so a
// SortedDict can serve as a ChainMapProxy layer.
func (d *SortedDict[K, V]) Lookup(key K) (V, bool) {
	v, ok := d.entries[key]
	return v, ok
}

// GetOr returns the value stored under key, or fallback if absent.
func (d *SortedDict[K, V]) GetOr(key K, fallback V) V {
	if v, ok := d.entries[key]; ok {
		return v
	}
	return fallback
}

// SetDefault returns the value stored under key, first storing value if the
// key is absent.
func (d *SortedDict[K, V]) SetDefault(key K, value V) (V, error) {
	if v, ok := d.entries[key]; ok {
		return v, nil
	}
	if err := d.Set(key, value); err != nil {
		var zero V
		return zero, err
	}
	return value, nil
}

// Contains reports whether key is present.
func (d *SortedDict[K, V]) Contains(key K) bool {
	_, ok := d.entries[key]
	return ok
}

// Len returns the number of entries.
func (d *SortedDict[K, V]) Len() int {
	return len(d.entries)
}

// Delete removes key, or returns a key-missing error.
func (d *SortedDict[K, V]) Delete(key K) error {
	_, err := d.Pop(key)
	return err
}

// Pop removes key and returns its value, or a key-missing error.
func (d *SortedDict[K, V]) Pop(key K) (V, error) {
	v, ok := d.entries[key]
	if !ok {
		return v, errors.NotFound("containers.SortedDict.Pop", key)
	}
	delete(d.entries, key)
	if i := slices.Index(d.keys, key); i >= 0 {
		d.keys = slices.Delete(d.keys, i, i+1)
	}
	return v, nil
}

// PopItem removes and returns the entry with the greatest key, or a
// key-missing error on an empty dict.
func (d *SortedDict[K, V]) PopItem() (K, V, error) {
	if len(d.keys) == 0 {
		var k K
		var v V
		return k, v, errors.NotFound("containers.SortedDict.PopItem", nil)
	}
	key := d.keys[len(d.keys)-1]
	v, err := d.Pop(key)
	return key, v, err
}

// Clear removes all entries.
func (d *SortedDict[K, V]) Clear() {
	clear(d.entries)
	d.keys = d.keys[:0]
}

// Update merges the entries of seq into the dict. The whole batch is
// validated against a scratch copy first; on an ordering error the dict is
// left unchanged.
func (d *SortedDict[K, V]) Update(seq iter.Seq2[K, V]) error {
	scratch := d.Copy()
	for k, v := range seq {
		if err := scratch.Set(k, v); err != nil {
			return err
		}
	}
	d.entries = scratch.entries
	d.keys = scratch.keys
	return nil
}

// Copy returns an independent dict with the same entries, order and
// comparator. Values are shared, not cloned.
func (d *SortedDict[K, V]) Copy() *SortedDict[K, V] {
	return &SortedDict[K, V]{
		entries: maps.Clone(d.entries),
		keys:    slices.Clone(d.keys),
		compare: d.compare,
	}
}

// DeepCopy returns an independent dict whose values are cloned through
// cloneValue. A nil cloneValue degrades to Copy.
func (d *SortedDict[K, V]) DeepCopy(cloneValue func(V) V) *SortedDict[K, V] {
	out := d.Copy()
	if cloneValue != nil {
		for k, v := range out.entries {
			out.entries[k] = cloneValue(v)
		}
	}
	return out
}

// All iterates the entries in ascending key order. It satisfies MapLike.
func (d *SortedDict[K, V]) All() iter.Seq2[K, V] {
	return d.Items().All()
}

// Keys returns a live view over the keys in ascending order.
func (d *SortedDict[K, V]) Keys() SortedKeysView[K, V] {
	return SortedKeysView[K, V]{d: d}
}

// Values returns a live view over the values in ascending key order.
func (d *SortedDict[K, V]) Values() SortedValuesView[K, V] {
	return SortedValuesView[K, V]{d: d}
}

// Items returns a live view over the entries in ascending key order.
func (d *SortedDict[K, V]) Items() SortedItemsView[K, V] {
	return SortedItemsView[K, V]{d: d}
}

func (d *SortedDict[K, V]) String() string {
	var b strings.Builder
	b.WriteString("SortedDict{")
	for i, k := range d.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %v", k, d.entries[k])
	}
	b.WriteString("}")
	return b.String()
}

// SortedKeysView is a reversible, live view over a SortedDict's keys.
type SortedKeysView[K comparable, V any] struct {
	d *SortedDict[K, V]
}

// All iterates the keys in ascending order.
func (v SortedKeysView[K, V]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, k := range v.d.keys {
			if !yield(k) {
				return
			}
		}
	}
}

// Backward iterates the keys in descending order, exactly the reverse of All.
func (v SortedKeysView[K, V]) Backward() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i := len(v.d.keys) - 1; i >= 0; i-- {
			if !yield(v.d.keys[i]) {
				return
			}
		}
	}
}

// Len returns the number of keys in the underlying dict.
func (v SortedKeysView[K, V]) Len() int { return v.d.Len() }

// Contains reports whether key is present in the underlying dict.
func (v SortedKeysView[K, V]) Contains(key K) bool { return v.d.Contains(key) }

// SortedValuesView is a reversible, live view over a SortedDict's values.
type SortedValuesView[K comparable, V any] struct {
	d *SortedDict[K, V]
}

// All iterates the values in ascending key order.
func (v SortedValuesView[K, V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, k := range v.d.keys {
			if !yield(v.d.entries[k]) {
				return
			}
		}
	}
}

// Backward iterates the values in descending key order.
func (v SortedValuesView[K, V]) Backward() iter.Seq[V] {
	return func(yield func(V) bool) {
		for i := len(v.d.keys) - 1; i >= 0; i-- {
			if !yield(v.d.entries[v.d.keys[i]]) {
				return
			}
		}
	}
}

// Len returns the number of values in the underlying dict.
func (v SortedValuesView[K, V]) Len() int { return v.d.Len() }

// SortedItemsView is a reversible, live view over a SortedDict's entries.
type SortedItemsView[K comparable, V any] struct {
	d *SortedDict[K, V]
}

// All iterates the entries in ascending key order.
func (v SortedItemsView[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range v.d.keys {
			if !yield(k, v.d.entries[k]) {
				return
			}
		}
	}
}

// Backward iterates the entries in descending key order.
func (v SortedItemsView[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := len(v.d.keys) - 1; i >= 0; i-- {
			k := v.d.keys[i]
			if !yield(k, v.d.entries[k]) {
				return
			}
		}
	}
}

// Len returns the number of entries in the underlying dict.
func (v SortedItemsView[K, V]) Len() int { return v.d.Len() }
