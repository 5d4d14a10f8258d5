package containers

import (
	"fmt"
	"iter"
	"slices"

	"github.com/go-drift/containers/pkg/errors"
)

// OrderedSet is a mutable set that remembers insertion order, so that every
// entry has a stable index that can be looked up. Elements are unique under
// ==; adding a present element is a no-op and does not reorder.
//
// Set-algebra operations and comparisons accept any element stream
// (iter.Seq[T]), so other OrderedSets, slices (slices.Values) and map keys
// (maps.Keys) all work as right-hand operands. Comparisons follow set
// semantics (membership only); positional order is observable through
// indexing and iteration but never participates in equality.
type OrderedSet[T comparable] struct {
	items []T
	index map[T]int
}

// NewOrderedSet returns a set containing the given items, keeping the first
// occurrence of each duplicate.
func NewOrderedSet[T comparable](items ...T) *OrderedSet[T] {
	s := &OrderedSet[T]{index: make(map[T]int, len(items))}
	for _, v := range items {
		s.Add(v)
	}
	return s
}

// CollectOrderedSet drains a sequence into a new set, keeping first occurrences.
func CollectOrderedSet[T comparable](seq iter.Seq[T]) *OrderedSet[T] {
	s := NewOrderedSet[T]()
	s.Update(seq)
	return s
}

// Add appends v if absent and reports whether it was inserted.
// Adding a present element does nothing and does not change its position.
func (s *OrderedSet[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = len(s.items)
	s.items = append(s.items, v)
	return true
}

// Update appends each not-yet-present element of seq in iteration order.
func (s *OrderedSet[T]) Update(seq iter.Seq[T]) {
	for v := range seq {
		s.Add(v)
	}
}

// Contains reports whether v is in the set.
func (s *OrderedSet[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of unique elements.
func (s *OrderedSet[T]) Len() int {
	return len(s.items)
}

// Get returns the element at position i.
func (s *OrderedSet[T]) Get(i int) (T, error) {
	if i < 0 || i >= len(s.items) {
		var zero T
		return zero, errors.OutOfRange("containers.OrderedSet.Get", i, len(s.items))
	}
	return s.items[i], nil
}

// Slice returns a new set holding the elements in positions [start, stop).
// Bounds are clamped to the valid range; negative bounds count from the end.
func (s *OrderedSet[T]) Slice(start, stop int) *OrderedSet[T] {
	start, stop = normalizeRange(start, stop, len(s.items))
	return NewOrderedSet(s.items[start:stop]...)
}

// Index returns the position of v, or an element-not-found error if absent.
func (s *OrderedSet[T]) Index(v T) (int, error) {
	i, ok := s.index[v]
	if !ok {
		return 0, errors.NotFound("containers.OrderedSet.Index", v)
	}
	return i, nil
}

// IndexBetween returns the position of v if it falls within [start, stop),
// or an element-not-found error otherwise. Negative bounds count from the end.
func (s *OrderedSet[T]) IndexBetween(v T, start, stop int) (int, error) {
	i, ok := s.index[v]
	if !ok {
		return 0, errors.NotFound("containers.OrderedSet.IndexBetween", v)
	}
	start, stop = normalizeRange(start, stop, len(s.items))
	if i < start || i >= stop {
		return 0, errors.NotFound("containers.OrderedSet.IndexBetween", v)
	}
	return i, nil
}

// Pop removes and returns the last element. The failure on an empty set is
// the combined key/index error, matching both errors.ErrNotFound and
// errors.ErrOutOfRange.
func (s *OrderedSet[T]) Pop() (T, error) {
	return s.PopAt(len(s.items) - 1)
}

// PopAt removes and returns the element at position i, with the combined
// key/index error for an invalid position.
func (s *OrderedSet[T]) PopAt(i int) (T, error) {
	var zero T
	if len(s.items) == 0 {
		return zero, errors.KeyIndex("containers.OrderedSet.Pop", "pop from an empty set")
	}
	if i < 0 || i >= len(s.items) {
		return zero, errors.KeyIndex("containers.OrderedSet.Pop",
			fmt.Sprintf("index %d out of range with length %d", i, len(s.items)))
	}
	v := s.items[i]
	s.removeAt(i)
	return v, nil
}

// Delete removes the element at position i, with the combined key/index
// error for an invalid position.
func (s *OrderedSet[T]) Delete(i int) error {
	_, err := s.PopAt(i)
	return err
}

// Discard removes v if present and reports whether it was removed.
// Absent elements are not an error.
func (s *OrderedSet[T]) Discard(v T) bool {
	i, ok := s.index[v]
	if !ok {
		return false
	}
	s.removeAt(i)
	return true
}

// Remove removes v. A missing element is the combined key/index error, so
// callers matching either errors.ErrNotFound or errors.ErrOutOfRange catch it.
func (s *OrderedSet[T]) Remove(v T) error {
	if !s.Discard(v) {
		err := errors.KeyIndex("containers.OrderedSet.Remove", fmt.Sprintf("%v not in set", v))
		err.Key = v
		return err
	}
	return nil
}

// removeAt deletes position i and shifts the index of every later element.
func (s *OrderedSet[T]) removeAt(i int) {
	delete(s.index, s.items[i])
	s.items = append(s.items[:i], s.items[i+1:]...)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
}

// Clear removes all elements.
func (s *OrderedSet[T]) Clear() {
	s.items = s.items[:0]
	clear(s.index)
}

// Sort reorders the elements in place by the given comparison function.
// The sort is stable, so equal-comparing elements keep their relative order.
func (s *OrderedSet[T]) Sort(cmp func(a, b T) int) {
	slices.SortStableFunc(s.items, cmp)
	s.reindex()
}

// Reverse reverses the element order in place.
func (s *OrderedSet[T]) Reverse() {
	slices.Reverse(s.items)
	s.reindex()
}

func (s *OrderedSet[T]) reindex() {
	for i, v := range s.items {
		s.index[v] = i
	}
}

// Copy returns a shallow copy with the same elements and order.
func (s *OrderedSet[T]) Copy() *OrderedSet[T] {
	return NewOrderedSet(s.items...)
}

// Items returns the elements in order as a fresh slice.
func (s *OrderedSet[T]) Items() []T {
	return slices.Clone(s.items)
}

// Values iterates the elements in insertion order.
func (s *OrderedSet[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.items {
			if !yield(v) {
				return
			}
		}
	}
}

// Backward iterates the elements in reverse order.
func (s *OrderedSet[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := len(s.items) - 1; i >= 0; i-- {
			if !yield(s.items[i]) {
				return
			}
		}
	}
}

// Union returns a new set combining this set's elements with each operand's,
// in left-to-right first-appearance order.
func (s *OrderedSet[T]) Union(others ...iter.Seq[T]) *OrderedSet[T] {
	out := s.Copy()
	for _, seq := range others {
		out.Update(seq)
	}
	return out
}

// Intersection returns a new set with the elements present in this set and
// every operand, in this set's order.
func (s *OrderedSet[T]) Intersection(others ...iter.Seq[T]) *OrderedSet[T] {
	members := membershipOfEach(others)
	out := NewOrderedSet[T]()
	for _, v := range s.items {
		if containedInAll(v, members) {
			out.Add(v)
		}
	}
	return out
}

// IntersectionUpdate keeps only the elements present in every operand,
// preserving their order in this set.
func (s *OrderedSet[T]) IntersectionUpdate(others ...iter.Seq[T]) {
	if len(others) == 0 {
		return
	}
	members := membershipOfEach(others)
	kept := s.items[:0]
	for _, v := range s.items {
		if containedInAll(v, members) {
			kept = append(kept, v)
		} else {
			delete(s.index, v)
		}
	}
	s.items = kept
	s.reindex()
}

// Difference returns a new set with the elements of this set that appear in
// no operand.
func (s *OrderedSet[T]) Difference(others ...iter.Seq[T]) *OrderedSet[T] {
	drop := collectMembers(others)
	out := NewOrderedSet[T]()
	for _, v := range s.items {
		if _, ok := drop[v]; !ok {
			out.Add(v)
		}
	}
	return out
}

// DifferenceUpdate removes every element that appears in any operand.
func (s *OrderedSet[T]) DifferenceUpdate(others ...iter.Seq[T]) {
	if len(others) == 0 {
		return
	}
	drop := collectMembers(others)
	kept := s.items[:0]
	for _, v := range s.items {
		if _, ok := drop[v]; ok {
			delete(s.index, v)
		} else {
			kept = append(kept, v)
		}
	}
	s.items = kept
	s.reindex()
}

// SymmetricDifference returns the elements in exactly one of the two sets,
// with this set's survivors preceding the operand's.
func (s *OrderedSet[T]) SymmetricDifference(other iter.Seq[T]) *OrderedSet[T] {
	theirs := CollectOrderedSet(other)
	out := NewOrderedSet[T]()
	for _, v := range s.items {
		if !theirs.Contains(v) {
			out.Add(v)
		}
	}
	for _, v := range theirs.items {
		if !s.Contains(v) {
			out.Add(v)
		}
	}
	return out
}

// SymmetricDifferenceUpdate removes the operand's elements from this set,
// then appends the operand's elements that were not present, in the
// operand's order.
func (s *OrderedSet[T]) SymmetricDifferenceUpdate(other iter.Seq[T]) {
	theirs := CollectOrderedSet(other)
	var toAdd []T
	for _, v := range theirs.items {
		if !s.Contains(v) {
			toAdd = append(toAdd, v)
		}
	}
	kept := s.items[:0]
	for _, v := range s.items {
		if theirs.Contains(v) {
			delete(s.index, v)
		} else {
			kept = append(kept, v)
		}
	}
	s.items = append(kept, toAdd...)
	s.reindex()
}

// IsDisjoint reports whether this set and the operand share no element.
func (s *OrderedSet[T]) IsDisjoint(other iter.Seq[T]) bool {
	for v := range other {
		if s.Contains(v) {
			return false
		}
	}
	return true
}

// Equal reports whether this set and the operand hold the same elements.
// Order does not participate; compare Items with slices.Equal for positional
// equality.
func (s *OrderedSet[T]) Equal(other iter.Seq[T]) bool {
	theirs := collectMembers([]iter.Seq[T]{other})
	if len(theirs) != len(s.items) {
		return false
	}
	for _, v := range s.items {
		if _, ok := theirs[v]; !ok {
			return false
		}
	}
	return true
}

// IsSubsetOf reports whether every element of this set is in the operand.
func (s *OrderedSet[T]) IsSubsetOf(other iter.Seq[T]) bool {
	theirs := collectMembers([]iter.Seq[T]{other})
	for _, v := range s.items {
		if _, ok := theirs[v]; !ok {
			return false
		}
	}
	return true
}

// IsProperSubsetOf reports whether the operand holds every element of this
// set plus at least one more.
func (s *OrderedSet[T]) IsProperSubsetOf(other iter.Seq[T]) bool {
	theirs := collectMembers([]iter.Seq[T]{other})
	if len(theirs) <= len(s.items) {
		return false
	}
	for _, v := range s.items {
		if _, ok := theirs[v]; !ok {
			return false
		}
	}
	return true
}

// IsSupersetOf reports whether this set holds every element of the operand.
func (s *OrderedSet[T]) IsSupersetOf(other iter.Seq[T]) bool {
	for v := range other {
		if !s.Contains(v) {
			return false
		}
	}
	return true
}

// IsProperSupersetOf reports whether this set holds every element of the
// operand plus at least one more.
func (s *OrderedSet[T]) IsProperSupersetOf(other iter.Seq[T]) bool {
	theirs := collectMembers([]iter.Seq[T]{other})
	if len(theirs) >= len(s.items) {
		return false
	}
	for v := range theirs {
		if !s.Contains(v) {
			return false
		}
	}
	return true
}

func (s *OrderedSet[T]) String() string {
	return fmt.Sprintf("OrderedSet(%v)", s.items)
}

// containedInAll reports whether v appears in every membership map.
func containedInAll[T comparable](v T, members []map[T]struct{}) bool {
	for _, m := range members {
		if _, ok := m[v]; !ok {
			return false
		}
	}
	return true
}

// membershipOfEach drains each sequence into its own membership map.
func membershipOfEach[T comparable](seqs []iter.Seq[T]) []map[T]struct{} {
	members := make([]map[T]struct{}, len(seqs))
	for i, seq := range seqs {
		members[i] = collectMembers([]iter.Seq[T]{seq})
	}
	return members
}

// collectMembers drains sequences into a membership map.
func collectMembers[T comparable](seqs []iter.Seq[T]) map[T]struct{} {
	members := make(map[T]struct{})
	for _, seq := range seqs {
		for v := range seq {
			members[v] = struct{}{}
		}
	}
	return members
}

// normalizeRange resolves negative bounds against length and clamps both to
// the valid range, yielding start <= stop.
func normalizeRange(start, stop, length int) (int, int) {
	if start < 0 {
		start = max(length+start, 0)
	}
	if stop < 0 {
		stop = max(length+stop, 0)
	}
	start = min(start, length)
	stop = min(stop, length)
	if stop < start {
		stop = start
	}
	return start, stop
}
