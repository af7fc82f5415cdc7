package embedder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/emberchat/recall/core"
)

// DefaultFacetTimeout bounds a single facet's embedding call.
const DefaultFacetTimeout = 10 * time.Second

// Generator produces per-facet embeddings concurrently. Each facet runs as
// an independent task with its own timeout; a failing or slow facet never
// cancels the others.
type Generator struct {
	embedder Embedder
	timeout  time.Duration
}

// NewGenerator wraps an embedder. A non-positive timeout falls back to
// DefaultFacetTimeout.
func NewGenerator(e Embedder, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = DefaultFacetTimeout
	}
	return &Generator{embedder: e, timeout: timeout}
}

// Dimensions returns the wrapped embedder's vector size.
func (g *Generator) Dimensions() int {
	return g.embedder.Dimensions()
}

// Embed produces a single facet's embedding with the generator's per-task
// timeout already applied by the caller's context or bounded here if the
// context carries no deadline.
func (g *Generator) Embed(ctx context.Context, f core.Facet, tag, text string) ([]float32, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	vec, err := g.embedder.Embed(ctx, FacetInput(f, tag, text))
	if err != nil {
		return nil, err
	}
	if len(vec) != g.embedder.Dimensions() {
		return nil, fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vec), g.embedder.Dimensions())
	}
	return vec, nil
}

// Generate embeds the facet inputs for the requested facets concurrently.
// All tasks are awaited; the returned maps hold one vector per succeeded
// facet and one error per failed facet. A facet whose call exceeds the
// per-task timeout counts as failed.
func (g *Generator) Generate(ctx context.Context, text string, tags core.Tags, facets []core.Facet) (map[core.Facet][]float32, map[core.Facet]error) {
	type result struct {
		facet core.Facet
		vec   []float32
		err   error
	}

	results := make(chan result, len(facets))
	var wg sync.WaitGroup
	for _, f := range facets {
		wg.Add(1)
		go func(f core.Facet) {
			defer wg.Done()
			taskCtx, cancel := context.WithTimeout(ctx, g.timeout)
			defer cancel()

			vec, err := g.embedder.Embed(taskCtx, FacetInput(f, tags.ForFacet(f), text))
			if err == nil && len(vec) != g.embedder.Dimensions() {
				err = fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vec), g.embedder.Dimensions())
			}
			results <- result{facet: f, vec: vec, err: err}
		}(f)
	}
	wg.Wait()
	close(results)

	vectors := make(map[core.Facet][]float32, len(facets))
	errs := make(map[core.Facet]error)
	for r := range results {
		if r.err != nil {
			errs[r.facet] = r.err
			continue
		}
		vectors[r.facet] = r.vec
	}
	return vectors, errs
}
