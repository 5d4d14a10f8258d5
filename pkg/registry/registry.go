// Package registry provides the engine-side registries built on the
// container types: deterministic update/draw ordering over strongly-owned
// entries, live-object tracking that never extends object lifetime, and
// z-indexed layer traversal.
package registry

import (
	"iter"

	"github.com/go-drift/containers/pkg/containers"
	"github.com/go-drift/containers/pkg/errors"
)

// DrawList is an ordered registry of strongly-owned entries. Registration
// order is the update/draw order; re-registering an entry keeps its
// original position.
type DrawList[T comparable] struct {
	entries *containers.OrderedSet[T]
}

// NewDrawList returns an empty draw list.
func NewDrawList[T comparable]() *DrawList[T] {
	return &DrawList[T]{entries: containers.NewOrderedSet[T]()}
}

// Register appends v if absent and reports whether it was added.
func (l *DrawList[T]) Register(v T) bool {
	return l.entries.Add(v)
}

// Unregister removes v and reports whether it was present.
func (l *DrawList[T]) Unregister(v T) bool {
	return l.entries.Discard(v)
}

// Contains reports whether v is registered.
func (l *DrawList[T]) Contains(v T) bool {
	return l.entries.Contains(v)
}

// Len returns the number of registered entries.
func (l *DrawList[T]) Len() int {
	return l.entries.Len()
}

// All iterates the entries in registration order.
func (l *DrawList[T]) All() iter.Seq[T] {
	return l.entries.Values()
}

// MoveToFront reorders v to the front of the draw order.
func (l *DrawList[T]) MoveToFront(v T) error {
	if err := l.entries.Remove(v); err != nil {
		return err
	}
	rest := l.entries
	l.entries = containers.NewOrderedSet(v)
	l.entries.Update(rest.Values())
	return nil
}

// MoveToBack reorders v to the back of the draw order.
func (l *DrawList[T]) MoveToBack(v T) error {
	if err := l.entries.Remove(v); err != nil {
		return err
	}
	l.entries.Add(v)
	return nil
}

// SceneRegistry tracks live objects without owning them. Objects are
// registered by pointer and held weakly, so destroying an object's owner is
// enough to drop it from every walk; no unregister call is required.
type SceneRegistry[T any] struct {
	objects *containers.OrderedWeakSet[T]
}

// NewSceneRegistry returns an empty registry.
func NewSceneRegistry[T any]() *SceneRegistry[T] {
	return &SceneRegistry[T]{objects: containers.NewOrderedWeakSet[T]()}
}

// Register adds o and reports whether it was added.
func (r *SceneRegistry[T]) Register(o *T) bool {
	return r.objects.Add(o)
}

// Unregister removes o and reports whether it was present.
func (r *SceneRegistry[T]) Unregister(o *T) bool {
	return r.objects.Discard(o)
}

// Len returns the number of live registered objects.
func (r *SceneRegistry[T]) Len() int {
	return r.objects.Len()
}

// All iterates the live objects in registration order.
func (r *SceneRegistry[T]) All() iter.Seq[*T] {
	return r.objects.Values()
}

// Walk calls fn on every live object in registration order. A panic in fn
// is recovered and reported through the global error handler, and the walk
// continues with the next object.
func (r *SceneRegistry[T]) Walk(op string, fn func(*T)) {
	for o := range r.objects.Values() {
		safeCall(op, fn, o)
	}
}

// safeCall executes fn with panic recovery, reporting any panic.
func safeCall[T any](op string, fn func(*T), o *T) {
	defer func() {
		if rec := recover(); rec != nil {
			errors.ReportPanic(errors.Recover(op, rec))
		}
	}()
	fn(o)
}

// LayerIndex groups entries by z-index. Ascending traversal is the draw
// order (back to front); descending traversal is the hit-test order.
type LayerIndex[T comparable] struct {
	layers *containers.SortedDict[int, *containers.OrderedSet[T]]
}

// NewLayerIndex returns an empty index.
func NewLayerIndex[T comparable]() *LayerIndex[T] {
	return &LayerIndex[T]{layers: containers.NewSortedDict[int, *containers.OrderedSet[T]]()}
}

// Add registers v on layer z, keeping registration order within the layer.
func (x *LayerIndex[T]) Add(z int, v T) {
	layer, ok := x.layers.Lookup(z)
	if !ok {
		layer = containers.NewOrderedSet[T]()
		// Natural int ordering cannot fail.
		_ = x.layers.Set(z, layer)
	}
	layer.Add(v)
}

// Remove drops v from layer z, deleting the layer once empty. It reports
// whether v was present.
func (x *LayerIndex[T]) Remove(z int, v T) bool {
	layer, ok := x.layers.Lookup(z)
	if !ok {
		return false
	}
	removed := layer.Discard(v)
	if layer.Len() == 0 {
		_ = x.layers.Delete(z)
	}
	return removed
}

// Len returns the total number of entries across all layers.
func (x *LayerIndex[T]) Len() int {
	n := 0
	for _, layer := range x.layers.All() {
		n += layer.Len()
	}
	return n
}

// Layers returns the populated z-indexes in ascending order.
func (x *LayerIndex[T]) Layers() []int {
	out := make([]int, 0, x.layers.Len())
	for z := range x.layers.Keys().All() {
		out = append(out, z)
	}
	return out
}

// Ascending iterates entries back to front: lowest z first, registration
// order within a layer.
func (x *LayerIndex[T]) Ascending() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for z, layer := range x.layers.Items().All() {
			for v := range layer.Values() {
				if !yield(z, v) {
					return
				}
			}
		}
	}
}

// Descending iterates entries front to back: highest z first, reverse
// registration order within a layer.
func (x *LayerIndex[T]) Descending() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for z, layer := range x.layers.Items().Backward() {
			for v := range layer.Backward() {
				if !yield(z, v) {
					return
				}
			}
		}
	}
}
