package registry

import (
	"runtime"
	"slices"
	"testing"

	"github.com/go-drift/containers/pkg/errors"
)

func TestDrawList_DeterministicOrder(t *testing.T) {
	l := NewDrawList[string]()
	for _, name := range []string{"background", "world", "hud"} {
		if !l.Register(name) {
			t.Errorf("expected %q to register", name)
		}
	}
	if l.Register("world") {
		t.Error("re-registering should report false")
	}

	var order []string
	for v := range l.All() {
		order = append(order, v)
	}
	if !slices.Equal(order, []string{"background", "world", "hud"}) {
		t.Errorf("expected registration order, got %v", order)
	}
}

func TestDrawList_UnregisterKeepsOrder(t *testing.T) {
	l := NewDrawList[string]()
	l.Register("a")
	l.Register("b")
	l.Register("c")
	if !l.Unregister("b") {
		t.Error("expected b to unregister")
	}
	if l.Unregister("b") {
		t.Error("double unregister should report false")
	}
	var order []string
	for v := range l.All() {
		order = append(order, v)
	}
	if !slices.Equal(order, []string{"a", "c"}) {
		t.Errorf("expected [a c], got %v", order)
	}
}

func TestDrawList_MoveToFrontAndBack(t *testing.T) {
	l := NewDrawList[string]()
	l.Register("a")
	l.Register("b")
	l.Register("c")

	if err := l.MoveToFront("c"); err != nil {
		t.Fatal(err)
	}
	var order []string
	for v := range l.All() {
		order = append(order, v)
	}
	if !slices.Equal(order, []string{"c", "a", "b"}) {
		t.Errorf("expected [c a b], got %v", order)
	}

	if err := l.MoveToBack("c"); err != nil {
		t.Fatal(err)
	}
	order = order[:0]
	for v := range l.All() {
		order = append(order, v)
	}
	if !slices.Equal(order, []string{"a", "b", "c"}) {
		t.Errorf("expected [a b c], got %v", order)
	}

	if err := l.MoveToFront("zzz"); err == nil {
		t.Error("moving an absent entry should fail")
	}
}

type sprite struct {
	name    string
	updates int
}

func TestSceneRegistry_WalkInOrder(t *testing.T) {
	r := NewSceneRegistry[sprite]()
	a := &sprite{name: "a"}
	b := &sprite{name: "b"}
	r.Register(a)
	r.Register(b)
	if r.Register(a) {
		t.Error("re-registering the same object should report false")
	}

	r.Walk("test.update", func(s *sprite) { s.updates++ })
	if a.updates != 1 || b.updates != 1 {
		t.Errorf("expected one update each, got a=%d b=%d", a.updates, b.updates)
	}
	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}

func TestSceneRegistry_DropsReclaimedObjects(t *testing.T) {
	r := NewSceneRegistry[sprite]()
	kept := &sprite{name: "kept"}
	r.Register(kept)
	func() {
		r.Register(&sprite{name: "transient"})
	}()
	runtime.GC()

	if r.Len() != 1 {
		t.Errorf("expected 1 live object, got %d", r.Len())
	}
	var names []string
	for s := range r.All() {
		names = append(names, s.name)
	}
	if !slices.Equal(names, []string{"kept"}) {
		t.Errorf("expected [kept], got %v", names)
	}
	runtime.KeepAlive(kept)
}

// silentHandler swallows reports so a recovered panic does not pollute
// test output.
type silentHandler struct {
	panics int
}

func (h *silentHandler) HandleError(*errors.ContainerError) {}
func (h *silentHandler) HandlePanic(*errors.PanicError)     { h.panics++ }

func TestSceneRegistry_WalkRecoversPanics(t *testing.T) {
	h := &silentHandler{}
	errors.SetHandler(h)
	defer errors.SetHandler(nil)

	r := NewSceneRegistry[sprite]()
	bad := &sprite{name: "bad"}
	good := &sprite{name: "good"}
	r.Register(bad)
	r.Register(good)

	r.Walk("test.draw", func(s *sprite) {
		if s.name == "bad" {
			panic("draw failure")
		}
		s.updates++
	})

	if h.panics != 1 {
		t.Errorf("expected 1 reported panic, got %d", h.panics)
	}
	if good.updates != 1 {
		t.Error("the walk should continue past a panicking object")
	}
	runtime.KeepAlive(bad)
	runtime.KeepAlive(good)
}

func TestLayerIndex_AscendingAndDescending(t *testing.T) {
	x := NewLayerIndex[string]()
	x.Add(10, "hud")
	x.Add(-5, "sky")
	x.Add(0, "tiles")
	x.Add(0, "actors")

	var draw []string
	for _, v := range x.Ascending() {
		draw = append(draw, v)
	}
	if !slices.Equal(draw, []string{"sky", "tiles", "actors", "hud"}) {
		t.Errorf("expected back-to-front order, got %v", draw)
	}

	var hit []string
	for _, v := range x.Descending() {
		hit = append(hit, v)
	}
	if !slices.Equal(hit, []string{"hud", "actors", "tiles", "sky"}) {
		t.Errorf("expected front-to-back order, got %v", hit)
	}

	if got := x.Layers(); !slices.Equal(got, []int{-5, 0, 10}) {
		t.Errorf("expected ascending z list, got %v", got)
	}
	if x.Len() != 4 {
		t.Errorf("expected 4 entries, got %d", x.Len())
	}
}

func TestLayerIndex_RemoveDropsEmptyLayers(t *testing.T) {
	x := NewLayerIndex[string]()
	x.Add(3, "only")
	if !x.Remove(3, "only") {
		t.Error("expected removal to report true")
	}
	if x.Remove(3, "only") {
		t.Error("removing from a gone layer should report false")
	}
	if len(x.Layers()) != 0 {
		t.Errorf("empty layer should be dropped, got %v", x.Layers())
	}
}

func TestLayerIndex_DuplicateWithinLayer(t *testing.T) {
	x := NewLayerIndex[string]()
	x.Add(1, "a")
	x.Add(1, "a")
	if x.Len() != 1 {
		t.Errorf("a layer is a set, expected 1 entry, got %d", x.Len())
	}
}
