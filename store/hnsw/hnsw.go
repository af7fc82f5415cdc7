// Package hnsw implements the memory store on coder/hnsw graphs, fully
// in-process with no database dependency.
//
// Each (owner, agent) pair owns one HNSW graph per facet, keyed by record
// id, plus a record table for metadata, recency reads, and tombstones.
// Graph search gives candidates; exact cosine similarity against the stored
// vectors produces the final scores.
package hnsw

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/coder/hnsw"

	"github.com/emberchat/recall/core"
	"github.com/emberchat/recall/store"
)

// Store keeps per-pair HNSW indexes behind the store.Store contract.
type Store struct {
	dim   int
	mu    sync.RWMutex
	pairs map[string]*pair
}

type pair struct {
	mu      sync.Mutex
	graphs  map[core.Facet]*hnsw.Graph[string]
	records map[string]*record
	order   []string
	byHash  map[uint64]string
}

type record struct {
	rec      *core.MemoryRecord
	archived bool
}

// New creates a store for vectors of the given dimensionality.
func New(dim int) (*Store, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("hnsw: dimension must be positive, got %d", dim)
	}
	return &Store{
		dim:   dim,
		pairs: make(map[string]*pair),
	}, nil
}

func (s *Store) getOrCreatePair(ownerID, agentID string) *pair {
	key := ownerID + "\x00" + agentID

	s.mu.RLock()
	p, ok := s.pairs[key]
	s.mu.RUnlock()
	if ok {
		return p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pairs[key]; ok {
		return p
	}

	p = &pair{
		graphs:  make(map[core.Facet]*hnsw.Graph[string]),
		records: make(map[string]*record),
		byHash:  make(map[uint64]string),
	}
	for _, f := range core.Facets() {
		p.graphs[f] = hnsw.NewGraph[string]()
	}
	s.pairs[key] = p
	return p
}

// Insert indexes all six facet vectors under the pair's graphs. The pair
// lock makes the record visible all-or-nothing.
func (s *Store) Insert(ctx context.Context, rec *core.MemoryRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !rec.Complete() {
		return "", store.ErrPartialRecord
	}
	for _, f := range core.Facets() {
		if len(rec.FacetVectors[f]) != s.dim {
			return "", fmt.Errorf("hnsw: facet %s: vector dimension %d, want %d", f, len(rec.FacetVectors[f]), s.dim)
		}
	}

	p := s.getOrCreatePair(rec.OwnerID, rec.AgentID)

	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.byHash[rec.ContentHash]; ok {
		log.Printf("[HNSW] Duplicate content for owner=%s agent=%s, reusing id=%s",
			rec.OwnerID, rec.AgentID, existing)
		return existing, nil
	}

	for _, f := range core.Facets() {
		p.graphs[f].Add(hnsw.MakeNode(rec.ID, rec.FacetVectors[f]))
	}
	p.records[rec.ID] = &record{rec: rec}
	p.order = append(p.order, rec.ID)
	p.byHash[rec.ContentHash] = rec.ID

	return rec.ID, nil
}

// Search finds the pair's nearest non-archived records in one facet's
// vector space.
func (s *Store) Search(ctx context.Context, ownerID, agentID string, facet core.Facet, query []float32, topK int) ([]store.Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !core.ValidFacet(facet) {
		return nil, fmt.Errorf("hnsw: unknown facet %q", facet)
	}
	if len(query) != s.dim {
		return nil, fmt.Errorf("hnsw: query dimension %d, want %d", len(query), s.dim)
	}
	if topK <= 0 {
		return nil, nil
	}

	p := s.getOrCreatePair(ownerID, agentID)

	p.mu.Lock()
	defer p.mu.Unlock()

	archived := 0
	for _, r := range p.records {
		if r.archived {
			archived++
		}
	}

	// Oversample past tombstones; the graph keeps archived nodes so their
	// data survives archival.
	neighbors := p.graphs[facet].Search(query, topK+archived)

	hits := make([]store.Hit, 0, len(neighbors))
	for _, node := range neighbors {
		r, ok := p.records[node.Key]
		if !ok || r.archived {
			continue
		}
		hits = append(hits, store.Hit{
			ID:        r.rec.ID,
			Score:     cosineSimilarity(query, node.Value),
			RawText:   r.rec.RawText,
			Tags:      copyTags(r.rec.FacetTags),
			Keywords:  append([]string(nil), r.rec.Keywords...),
			CreatedAt: r.rec.CreatedAt,
		})
		if len(hits) == topK {
			break
		}
	}

	// Graph order approximates distance; exact scores settle the ranking.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits, nil
}

// ListRecent returns the pair's non-archived records created at or after
// since, ascending by creation time.
func (s *Store) ListRecent(ctx context.Context, ownerID, agentID string, since time.Time, limit int) ([]store.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := s.getOrCreatePair(ownerID, agentID)

	p.mu.Lock()
	defer p.mu.Unlock()

	samples := make([]store.Sample, 0, len(p.order))
	for _, id := range p.order {
		r := p.records[id]
		if r.archived || r.rec.CreatedAt.Before(since) {
			continue
		}
		samples = append(samples, store.Sample{
			ID:        r.rec.ID,
			CreatedAt: r.rec.CreatedAt,
			Emotion:   r.rec.FacetTags[core.FacetEmotion],
			Intensity: r.rec.EmotionIntensity,
			RawText:   r.rec.RawText,
		})
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].CreatedAt.Before(samples[j].CreatedAt)
	})
	if limit > 0 && len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}
	return samples, nil
}

// Archive tombstones a record; its vectors stay in the graphs.
func (s *Store) Archive(ctx context.Context, ownerID, agentID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p := s.getOrCreatePair(ownerID, agentID)

	p.mu.Lock()
	defer p.mu.Unlock()

	r, ok := p.records[id]
	if !ok {
		return store.ErrNotFound
	}
	r.archived = true
	// Release the content hash so the same text can be remembered again.
	if p.byHash[r.rec.ContentHash] == id {
		delete(p.byHash, r.rec.ContentHash)
	}
	log.Printf("[HNSW] Archived record id=%s owner=%s agent=%s", id, ownerID, agentID)
	return nil
}

// Close releases resources. Everything lives in memory.
func (s *Store) Close() error {
	return nil
}

func copyTags(tags map[core.Facet]string) map[core.Facet]string {
	out := make(map[core.Facet]string, len(tags))
	for f, t := range tags {
		out[f] = t
	}
	return out
}

// cosineSimilarity computes the cosine of the angle between two vectors,
// in [-1, 1]. Zero vectors score zero.
func cosineSimilarity(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
