package containers

import (
	stderrors "errors"
	"runtime"
	"testing"

	"github.com/go-drift/containers/pkg/errors"
)

// sceneNode stands in for an engine object whose lifetime is owned elsewhere.
type sceneNode struct {
	name string
}

func newNode(name string) *sceneNode {
	return &sceneNode{name: name}
}

func nodeNames(s *OrderedWeakSet[sceneNode]) []string {
	var out []string
	for n := range s.Values() {
		out = append(out, n.name)
	}
	return out
}

func TestOrderedWeakSet_OrderAndUniqueness(t *testing.T) {
	a, b, c := newNode("a"), newNode("b"), newNode("c")
	s := NewOrderedWeakSet(a, b, c)
	if s.Add(b) {
		t.Error("re-adding the same object should report false")
	}
	if got := nodeNames(s); len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("expected [a b c], got %v", got)
	}
	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
	runtime.KeepAlive(c)
}

func TestOrderedWeakSet_GetDeleteIndex(t *testing.T) {
	a, b := newNode("a"), newNode("b")
	s := NewOrderedWeakSet(a, b)

	v, err := s.Get(1)
	if err != nil || v != b {
		t.Errorf("expected node b, got (%v, %v)", v, err)
	}
	if _, err := s.Get(5); !stderrors.Is(err, errors.ErrOutOfRange) {
		t.Errorf("expected out-of-range, got %v", err)
	}

	if i, err := s.Index(b); err != nil || i != 1 {
		t.Errorf("expected (1, nil), got (%d, %v)", i, err)
	}
	other := newNode("other")
	if _, err := s.Index(other); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected not-found, got %v", err)
	}

	if err := s.Delete(0); err != nil {
		t.Fatal(err)
	}
	if got := nodeNames(s); len(got) != 1 || got[0] != "b" {
		t.Errorf("expected [b], got %v", got)
	}
	if err := s.Delete(9); !stderrors.Is(err, errors.ErrNotFound) || !stderrors.Is(err, errors.ErrOutOfRange) {
		t.Errorf("expected combined key/index error, got %v", err)
	}
	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}

func TestOrderedWeakSet_RemoveAndDiscard(t *testing.T) {
	a := newNode("a")
	s := NewOrderedWeakSet(a)
	if err := s.Remove(newNode("stranger")); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected combined error for absent element, got %v", err)
	}
	if err := s.Remove(a); err != nil {
		t.Errorf("removing a present element should succeed, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty set, len=%d", s.Len())
	}
	runtime.KeepAlive(a)
}

func TestOrderedWeakSet_ReclaimedEntriesArePruned(t *testing.T) {
	a := newNode("a")
	b := newNode("b")
	c := newNode("c")
	s := NewOrderedWeakSet(a, b, c)

	b = nil
	runtime.GC()

	if got := s.Len(); got != 2 {
		t.Errorf("expected len 2 after reclamation, got %d", got)
	}
	// Surviving elements keep their relative order.
	if got := nodeNames(s); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("expected survivors [a c], got %v", got)
	}
	// Indexing never observes the reclaimed element.
	v, err := s.Get(1)
	if err != nil || v.name != "c" {
		t.Errorf("expected node c at index 1, got (%v, %v)", v, err)
	}
	runtime.KeepAlive(a)
	runtime.KeepAlive(c)
}

func TestOrderedWeakSet_IterationSkipsReclaimed(t *testing.T) {
	keep := make([]*sceneNode, 0, 3)
	s := NewOrderedWeakSet[sceneNode]()
	for _, name := range []string{"a", "b", "c", "d"} {
		n := newNode(name)
		s.Add(n)
		if name != "b" && name != "d" {
			keep = append(keep, n)
		}
	}
	runtime.GC()

	got := nodeNames(s)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("expected [a c], got %v", got)
	}
	runtime.KeepAlive(keep)
}

func TestOrderedWeakSet_Slice(t *testing.T) {
	a, b, c, d := newNode("a"), newNode("b"), newNode("c"), newNode("d")
	s := NewOrderedWeakSet(a, b, c, d)
	sub := s.Slice(1, 3)
	if got := nodeNames(sub); len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("expected [b c], got %v", got)
	}
	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
	runtime.KeepAlive(c)
	runtime.KeepAlive(d)
}

func TestOrderedWeakSet_NeverPreventsReclamation(t *testing.T) {
	s := NewOrderedWeakSet[sceneNode]()
	func() {
		n := newNode("transient")
		s.Add(n)
		if s.Len() != 1 {
			t.Fatalf("expected len 1 while alive, got %d", s.Len())
		}
	}()
	runtime.GC()
	if s.Len() != 0 {
		t.Errorf("the set must not keep its elements alive, len=%d", s.Len())
	}
}

func TestOrderedWeakSet_ClearAndBackward(t *testing.T) {
	a, b := newNode("a"), newNode("b")
	s := NewOrderedWeakSet(a, b)

	var backward []string
	for n := range s.Backward() {
		backward = append(backward, n.name)
	}
	if len(backward) != 2 || backward[0] != "b" || backward[1] != "a" {
		t.Errorf("expected [b a], got %v", backward)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected empty set after clear, len=%d", s.Len())
	}
	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}
