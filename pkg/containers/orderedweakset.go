package containers

import (
	"fmt"
	"iter"
	"weak"

	"github.com/go-drift/containers/pkg/errors"
)

// OrderedWeakSet keeps the OrderedSet ordering contract over weakly-held
// elements. Elements are addressed by pointer; the set never keeps a
// referent alive. Once a referent is reclaimed its entry is pruned lazily:
// every operation whose result must be internally consistent (Len,
// positional access, iteration, Slice) sweeps dead entries first, and
// pruning never reorders survivors. A reclamation between two operations is
// therefore observed at the next operation, not before.
type OrderedWeakSet[T any] struct {
	refs *OrderedSet[weak.Pointer[T]]
}

// NewOrderedWeakSet returns a set holding weak references to the given items.
func NewOrderedWeakSet[T any](items ...*T) *OrderedWeakSet[T] {
	s := &OrderedWeakSet[T]{refs: NewOrderedSet[weak.Pointer[T]]()}
	for _, v := range items {
		s.Add(v)
	}
	return s
}

// Add appends a weak reference to v if absent and reports whether it was
// inserted. Two pointers to the same object are the same element.
func (s *OrderedWeakSet[T]) Add(v *T) bool {
	if v == nil {
		return false
	}
	return s.refs.Add(weak.Make(v))
}

// Contains reports whether v is in the set.
func (s *OrderedWeakSet[T]) Contains(v *T) bool {
	if v == nil {
		return false
	}
	return s.refs.Contains(weak.Make(v))
}

// Discard removes v if present and reports whether it was removed.
func (s *OrderedWeakSet[T]) Discard(v *T) bool {
	if v == nil {
		return false
	}
	return s.refs.Discard(weak.Make(v))
}

// Remove removes v, returning the combined key/index error if absent.
func (s *OrderedWeakSet[T]) Remove(v *T) error {
	if !s.Discard(v) {
		return errors.KeyIndex("containers.OrderedWeakSet.Remove", "element not in set")
	}
	return nil
}

// Len returns the number of live elements.
func (s *OrderedWeakSet[T]) Len() int {
	s.prune()
	return s.refs.Len()
}

// Get returns the live element at position i.
func (s *OrderedWeakSet[T]) Get(i int) (*T, error) {
	s.prune()
	ref, err := s.refs.Get(i)
	if err != nil {
		return nil, errors.OutOfRange("containers.OrderedWeakSet.Get", i, s.refs.Len())
	}
	if v := ref.Value(); v != nil {
		return v, nil
	}
	// Reclaimed between the sweep and the dereference; treat as absent.
	s.refs.Discard(ref)
	return s.Get(i)
}

// Delete removes the element at position i, with the combined key/index
// error for an invalid position.
func (s *OrderedWeakSet[T]) Delete(i int) error {
	s.prune()
	if err := s.refs.Delete(i); err != nil {
		return errors.KeyIndex("containers.OrderedWeakSet.Delete",
			fmt.Sprintf("index %d out of range with length %d", i, s.refs.Len()))
	}
	return nil
}

// Index returns the position of v among live elements, or an
// element-not-found error if absent.
func (s *OrderedWeakSet[T]) Index(v *T) (int, error) {
	if v == nil {
		return 0, errors.NotFound("containers.OrderedWeakSet.Index", nil)
	}
	s.prune()
	i, err := s.refs.Index(weak.Make(v))
	if err != nil {
		return 0, errors.NotFound("containers.OrderedWeakSet.Index", v)
	}
	return i, nil
}

// Slice returns a new weak set over the live elements in positions
// [start, stop). Bounds are clamped; negative bounds count from the end.
func (s *OrderedWeakSet[T]) Slice(start, stop int) *OrderedWeakSet[T] {
	s.prune()
	out := NewOrderedWeakSet[T]()
	for ref := range s.refs.Slice(start, stop).Values() {
		if v := ref.Value(); v != nil {
			out.Add(v)
		}
	}
	return out
}

// Values iterates the live elements in insertion order. The yielded strong
// references keep each element alive for the duration of its yield only;
// callers must not retain them beyond the loop body or the weak-liveness
// contract is defeated.
func (s *OrderedWeakSet[T]) Values() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		s.prune()
		for ref := range s.refs.Values() {
			v := ref.Value()
			if v == nil {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Backward iterates the live elements in reverse order.
func (s *OrderedWeakSet[T]) Backward() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		s.prune()
		for ref := range s.refs.Backward() {
			v := ref.Value()
			if v == nil {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Clear removes all elements.
func (s *OrderedWeakSet[T]) Clear() {
	s.refs.Clear()
}

// prune drops entries whose referent has been reclaimed, preserving the
// relative order of survivors.
func (s *OrderedWeakSet[T]) prune() {
	var dead []weak.Pointer[T]
	for ref := range s.refs.Values() {
		if ref.Value() == nil {
			dead = append(dead, ref)
		}
	}
	for _, ref := range dead {
		s.refs.Discard(ref)
	}
}
