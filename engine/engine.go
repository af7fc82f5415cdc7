package engine

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emberchat/recall/core"
	"github.com/emberchat/recall/dimension"
	"github.com/emberchat/recall/embedder"
	"github.com/emberchat/recall/store"
	"github.com/emberchat/recall/trajectory"
)

const (
	// DefaultOversample multiplies the caller's limit for each facet's
	// store query so fusion has enough candidates to merge.
	DefaultOversample = 2

	// DefaultLimit applies when a caller passes a non-positive limit.
	DefaultLimit = 10
)

// Engine is the search coordinator: it owns the insert and search paths and
// exposes the trajectory analyzer. Engines are stateless across requests;
// the store is the only shared state.
type Engine struct {
	store      store.Store
	generator  *embedder.Generator
	analyzer   *trajectory.Analyzer
	oversample int
	timeout    time.Duration
}

// Option configures the engine.
type Option func(*Engine)

// WithOversample sets the per-facet candidate multiplier.
func WithOversample(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.oversample = n
		}
	}
}

// WithFacetTimeout bounds each facet's embed+query task.
func WithFacetTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// New creates an engine over a store and an embedding backend.
func New(st store.Store, emb embedder.Embedder, opts ...Option) *Engine {
	e := &Engine{
		store:      st,
		oversample: DefaultOversample,
		timeout:    embedder.DefaultFacetTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.generator = embedder.NewGenerator(emb, e.timeout)
	e.analyzer = trajectory.New(st)
	return e
}

// InsertMemory classifies, embeds, and stores one conversational turn,
// returning the record id. The six facet embeddings run concurrently and
// all must succeed; any failure aborts the insert before the store write,
// so no partial record is ever left behind.
func (e *Engine) InsertMemory(ctx context.Context, ownerID, agentID, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("insert: empty text")
	}

	tags := dimension.Classify(text)

	vectors, errs := e.generator.Generate(ctx, text, tags, core.Facets())
	if len(errs) > 0 {
		insErr := &InsertError{}
		for _, f := range core.Facets() {
			if err, ok := errs[f]; ok {
				log.Printf("[ENGINE] Insert embedding failed owner=%s agent=%s facet=%s: %v",
					ownerID, agentID, f, err)
				insErr.Failures = append(insErr.Failures, &FacetError{Facet: f, Op: opEmbed, Err: err})
			}
		}
		return "", insErr
	}

	rec := &core.MemoryRecord{
		ID:               uuid.New().String(),
		OwnerID:          ownerID,
		AgentID:          agentID,
		CreatedAt:        time.Now().UTC(),
		RawText:          text,
		FacetVectors:     vectors,
		FacetTags:        tags.Map(),
		EmotionIntensity: tags.EmotionIntensity,
		Keywords:         dimension.Keywords(text),
		ContentHash:      contentHash(text),
	}

	id, err := e.store.Insert(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("store write: %w", err)
	}
	return id, nil
}

// SearchMemories retrieves the most relevant prior turns for the query text,
// fusing per-facet similarity under the given weighting profile. Facets
// whose tasks fail are dropped and reported in FailedFacets; the call errors
// only when every facet fails.
func (e *Engine) SearchMemories(ctx context.Context, ownerID, agentID, query string, profile *core.WeightingProfile, limit int) (*core.RankedResults, error) {
	if profile == nil {
		return nil, fmt.Errorf("search: weighting profile is required")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	tags := dimension.Classify(query)
	facets := profile.ActiveFacets()
	topK := e.oversample * limit

	type facetResult struct {
		facet core.Facet
		hits  []store.Hit
		err   *FacetError
	}

	results := make(chan facetResult, len(facets))
	var wg sync.WaitGroup
	for _, f := range facets {
		wg.Add(1)
		go func(f core.Facet) {
			defer wg.Done()
			taskCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			vec, err := e.generator.Embed(taskCtx, f, tags.ForFacet(f), query)
			if err != nil {
				results <- facetResult{facet: f, err: &FacetError{Facet: f, Op: opEmbed, Err: err}}
				return
			}

			hits, err := e.store.Search(taskCtx, ownerID, agentID, f, vec, topK)
			if err != nil {
				results <- facetResult{facet: f, err: &FacetError{Facet: f, Op: opQuery, Err: err}}
				return
			}
			results <- facetResult{facet: f, hits: hits}
		}(f)
	}
	wg.Wait()
	close(results)

	byFacet := make(map[core.Facet][]store.Hit, len(facets))
	var failures []*FacetError
	for r := range results {
		if r.err != nil {
			log.Printf("[ENGINE] Search facet failed owner=%s agent=%s facet=%s: %v",
				ownerID, agentID, r.facet, r.err.Err)
			failures = append(failures, r.err)
			continue
		}
		byFacet[r.facet] = r.hits
	}

	if len(byFacet) == 0 {
		return nil, &AllFacetsFailedError{Failures: failures}
	}

	fused := fuse(byFacet, profile)
	sortResults(fused)
	if len(fused) > limit {
		fused = fused[:limit]
	}

	ranked := &core.RankedResults{Results: fused}
	for _, fe := range failures {
		ranked.FailedFacets = append(ranked.FailedFacets, fe.Facet)
	}
	sort.Slice(ranked.FailedFacets, func(i, j int) bool {
		return ranked.FailedFacets[i] < ranked.FailedFacets[j]
	})
	return ranked, nil
}

// SearchByFacet retrieves memories using a single facet's similarity only,
// via a one-hot weighting profile.
func (e *Engine) SearchByFacet(ctx context.Context, ownerID, agentID, query string, facet core.Facet, limit int) (*core.RankedResults, error) {
	profile, err := core.SingleFacetProfile(facet)
	if err != nil {
		return nil, err
	}
	return e.SearchMemories(ctx, ownerID, agentID, query, profile, limit)
}

// Archive tombstones a record: it stops appearing in search and trajectory
// reads, but its text and vectors stay stored.
func (e *Engine) Archive(ctx context.Context, ownerID, agentID, id string) error {
	return e.store.Archive(ctx, ownerID, agentID, id)
}

// Trajectory summarizes how the owner's emotional state has evolved over the
// lookback window.
func (e *Engine) Trajectory(ctx context.Context, ownerID, agentID string, lookback trajectory.Lookback) (*trajectory.Summary, error) {
	return e.analyzer.Trajectory(ctx, ownerID, agentID, lookback)
}

// fuse merges per-facet hits by record id: each contributing facet adds
// similarity x weight to the record's combined score.
func fuse(byFacet map[core.Facet][]store.Hit, profile *core.WeightingProfile) []core.SearchResult {
	merged := make(map[string]*core.SearchResult)

	for _, f := range core.Facets() {
		hits, ok := byFacet[f]
		if !ok {
			continue
		}
		weight := profile.Weight(f)
		for _, hit := range hits {
			entry, ok := merged[hit.ID]
			if !ok {
				entry = &core.SearchResult{
					ID:          hit.ID,
					RawText:     hit.RawText,
					Tags:        hit.Tags,
					Keywords:    hit.Keywords,
					CreatedAt:   hit.CreatedAt,
					FacetScores: make(map[core.Facet]float64),
				}
				merged[hit.ID] = entry
			}
			entry.FacetScores[f] = float64(hit.Score)
			entry.Score += float64(hit.Score) * weight
			entry.DimensionsUsed = append(entry.DimensionsUsed, f)
		}
	}

	out := make([]core.SearchResult, 0, len(merged))
	for _, entry := range merged {
		out = append(out, *entry)
	}
	return out
}

// sortResults ranks by combined score descending; ties break to the more
// recent record, then by id for a stable total order.
func sortResults(results []core.SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return results[i].ID < results[j].ID
	})
}

// contentHash fingerprints normalized text for insert deduplication.
func contentHash(text string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(text))))
	return h.Sum64()
}
