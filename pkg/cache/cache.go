// Package cache provides weak resource caches for decoded engine assets.
//
// Cached values are held through weak references, so the cache accelerates
// repeated lookups without ever extending an asset's lifetime: once the
// last scene node holding a decoded image releases it, the reclaimer may
// take it and the next lookup simply decodes again. Cache misses and
// vanished entries are indistinguishable by design.
package cache

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/go-drift/containers/pkg/containers"
)

// DecodeFunc loads and decodes one image asset by path.
type DecodeFunc func(path string) (image.Image, error)

// ImageCache is a weak-valued cache of decoded images keyed by asset path.
// Scaled variants are cached alongside the originals under size-qualified
// keys.
type ImageCache struct {
	decode DecodeFunc
	images *containers.WeakValueDefaultDictionary[string, image.RGBA]
}

// NewImageCache returns an empty cache decoding through decode.
func NewImageCache(decode DecodeFunc) *ImageCache {
	return &ImageCache{
		decode: decode,
		images: containers.NewWeakValueDefaultDictionary[string, image.RGBA](nil),
	}
}

// Load returns the decoded image for path, decoding on a miss. A hit whose
// image was reclaimed since the last load is a miss.
func (c *ImageCache) Load(path string) (*image.RGBA, error) {
	if img, ok := c.images.Lookup(path); ok {
		return img, nil
	}
	src, err := c.decode(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	img := toRGBA(src)
	c.images.Set(path, img)
	return img, nil
}

// Scaled returns the image for path resampled to width x height, cached
// under its own key. The base image is loaded (and cached) first.
func (c *ImageCache) Scaled(path string, width, height int) (*image.RGBA, error) {
	key := fmt.Sprintf("%s|%dx%d", path, width, height)
	if img, ok := c.images.Lookup(key); ok {
		return img, nil
	}
	base, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), base, base.Bounds(), draw.Src, nil)
	c.images.Set(key, dst)
	return dst, nil
}

// Contains reports whether path currently holds a live decoded image.
func (c *ImageCache) Contains(path string) bool {
	return c.images.Contains(path)
}

// Len returns the number of live cached images, scaled variants included.
func (c *ImageCache) Len() int {
	return c.images.Len()
}

// Clear drops every entry.
func (c *ImageCache) Clear() {
	c.images.Clear()
}

// toRGBA converts a decoded image to RGBA, copying only when needed.
func toRGBA(src image.Image) *image.RGBA {
	if img, ok := src.(*image.RGBA); ok {
		return img
	}
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// NodeState attaches auxiliary state to externally-owned objects without
// keeping them alive. State appears on first access through the factory and
// vanishes with its node.
type NodeState[K any, V any] struct {
	entries *containers.WeakKeyDefaultDictionary[K, V]
}

// NewNodeState returns an empty state map populating through factory.
func NewNodeState[K any, V any](factory func() V) *NodeState[K, V] {
	return &NodeState[K, V]{entries: containers.NewWeakKeyDefaultDictionary[K, V](factory)}
}

// Of returns node's state, creating it through the factory on first access.
func (s *NodeState[K, V]) Of(node *K) (V, error) {
	return s.entries.Get(node)
}

// Set replaces node's state.
func (s *NodeState[K, V]) Set(node *K, state V) {
	s.entries.Set(node, state)
}

// Len returns the number of nodes still alive with state attached.
func (s *NodeState[K, V]) Len() int {
	return s.entries.Len()
}
