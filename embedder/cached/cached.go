// Package cached wraps any embedder with a ristretto read-through cache.
//
// Facet embedding inputs repeat heavily across a conversation (the same
// query text is embedded once per facet, and trajectory-heavy users re-embed
// similar turns), so a small cache removes most backend calls. The cache is
// injected state owned by the wrapper, never a process-wide singleton.
package cached

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"

	"github.com/emberchat/recall/embedder"
)

// DefaultMaxEntries bounds the cache when the caller passes a non-positive
// size.
const DefaultMaxEntries = 4096

// Embedder is a read-through cache around an inner embedder. Safe for
// concurrent use.
type Embedder struct {
	inner embedder.Embedder
	cache *ristretto.Cache
}

// New wraps inner with a cache holding up to maxEntries embeddings.
func New(inner embedder.Embedder, maxEntries int64) (*Embedder, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &Embedder{inner: inner, cache: cache}, nil
}

// Embed returns the cached vector for text, or embeds and caches it.
// Determinism is preserved: the cache only ever serves what the inner
// embedder produced for the exact same text.
func (c *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		if vec, ok := v.([]float32); ok {
			return vec, nil
		}
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Set(text, vec, 1)
	return vec, nil
}

// Dimensions returns the inner embedder's vector size.
func (c *Embedder) Dimensions() int {
	return c.inner.Dimensions()
}

// Wait blocks until buffered cache writes are applied. Ristretto admits
// entries asynchronously; tests call this before asserting on hit counts.
func (c *Embedder) Wait() {
	c.cache.Wait()
}

// Close releases cache resources.
func (c *Embedder) Close() {
	c.cache.Close()
}
