package cache

import (
	"errors"
	"image"
	"image/color"
	"runtime"
	"testing"
)

// stubDecoder counts decodes and returns a solid 4x4 image.
type stubDecoder struct {
	calls int
	fail  bool
}

func (d *stubDecoder) decode(path string) (image.Image, error) {
	d.calls++
	if d.fail {
		return nil, errors.New("corrupt data")
	}
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	return img, nil
}

func TestImageCache_DecodesOnceWhileHeld(t *testing.T) {
	d := &stubDecoder{}
	c := NewImageCache(d.decode)

	first, err := c.Load("sprites/player.png")
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Load("sprites/player.png")
	if err != nil {
		t.Fatal(err)
	}
	if d.calls != 1 {
		t.Errorf("expected a single decode, got %d", d.calls)
	}
	if first != second {
		t.Error("a held image should be returned on the second load")
	}
	runtime.KeepAlive(first)
}

func TestImageCache_ReclaimedImageDecodesAgain(t *testing.T) {
	d := &stubDecoder{}
	c := NewImageCache(d.decode)

	func() {
		if _, err := c.Load("sprites/enemy.png"); err != nil {
			t.Fatal(err)
		}
		if !c.Contains("sprites/enemy.png") {
			t.Fatal("expected a live cache entry")
		}
	}()
	runtime.GC()

	if c.Contains("sprites/enemy.png") {
		t.Error("the cache must not keep images alive")
	}
	img, err := c.Load("sprites/enemy.png")
	if err != nil {
		t.Fatal(err)
	}
	if d.calls != 2 {
		t.Errorf("expected a second decode after reclamation, got %d", d.calls)
	}
	runtime.KeepAlive(img)
}

func TestImageCache_DecodeErrorPropagates(t *testing.T) {
	d := &stubDecoder{fail: true}
	c := NewImageCache(d.decode)
	if _, err := c.Load("broken.png"); err == nil {
		t.Error("expected decode error to propagate")
	}
	if c.Contains("broken.png") {
		t.Error("a failed decode must not populate the cache")
	}
}

func TestImageCache_Scaled(t *testing.T) {
	d := &stubDecoder{}
	c := NewImageCache(d.decode)

	base, err := c.Load("sprites/tile.png")
	if err != nil {
		t.Fatal(err)
	}
	scaled, err := c.Scaled("sprites/tile.png", 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if got := scaled.Bounds(); got.Dx() != 8 || got.Dy() != 8 {
		t.Errorf("expected 8x8 bounds, got %v", got)
	}
	again, err := c.Scaled("sprites/tile.png", 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if scaled != again {
		t.Error("the scaled variant should be cached")
	}
	if d.calls != 1 {
		t.Errorf("scaling should reuse the cached base image, decodes=%d", d.calls)
	}
	// Base and variant are distinct entries.
	if c.Len() != 2 {
		t.Errorf("expected base + variant, got %d entries", c.Len())
	}
	runtime.KeepAlive(base)
	runtime.KeepAlive(scaled)
	runtime.KeepAlive(again)
}

func TestImageCache_Clear(t *testing.T) {
	d := &stubDecoder{}
	c := NewImageCache(d.decode)
	img, err := c.Load("a.png")
	if err != nil {
		t.Fatal(err)
	}
	c.Clear()
	if c.Contains("a.png") {
		t.Error("expected empty cache after clear")
	}
	runtime.KeepAlive(img)
}

type particle struct {
	id int
}

func TestNodeState_CreatesOnFirstAccess(t *testing.T) {
	s := NewNodeState[particle, []float64](func() []float64 { return make([]float64, 0, 4) })
	p := &particle{id: 1}

	st, err := s.Of(p)
	if err != nil {
		t.Fatal(err)
	}
	s.Set(p, append(st, 0.5))
	st, err = s.Of(p)
	if err != nil || len(st) != 1 {
		t.Errorf("expected stored state, got (%v, %v)", st, err)
	}
	runtime.KeepAlive(p)
}

func TestNodeState_VanishesWithNode(t *testing.T) {
	s := NewNodeState[particle, int](func() int { return 0 })
	kept := &particle{id: 1}
	if _, err := s.Of(kept); err != nil {
		t.Fatal(err)
	}
	func() {
		doomed := &particle{id: 2}
		if _, err := s.Of(doomed); err != nil {
			t.Fatal(err)
		}
	}()
	runtime.GC()

	if s.Len() != 1 {
		t.Errorf("expected state only for the live node, got %d", s.Len())
	}
	runtime.KeepAlive(kept)
}
