// Package chromem implements the memory store on chromem-go, a pure Go
// embedded vector database.
//
// Layout: one collection per (owner, agent) pair, one document per facet
// per record. The six facet documents share the record id and are written
// as a unit; a failed write is rolled back so no partial record survives.
// Archival keeps all documents in place and tombstones the record in the
// adapter's index.
package chromem

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/emberchat/recall/core"
	"github.com/emberchat/recall/store"
)

// Store wraps chromem-go behind the store.Store contract.
type Store struct {
	db    *chromem.DB
	mu    sync.RWMutex
	pairs map[string]*pair
}

// pair holds one (owner, agent) collection plus the adapter-side record
// index used for deduplication, recency reads, and archive tombstones.
// chromem has no scroll or update API, so that bookkeeping lives here.
type pair struct {
	col *chromem.Collection

	mu      sync.Mutex
	records []*recordMeta
	byID    map[string]*recordMeta
	byHash  map[uint64]string
}

type recordMeta struct {
	id        string
	createdAt time.Time
	rawText   string
	tags      map[core.Facet]string
	keywords  []string
	emotion   string
	intensity float64
	hash      uint64
	archived  bool
}

// New creates an in-memory chromem-backed store.
func New() (*Store, error) {
	return &Store{
		db:    chromem.NewDB(),
		pairs: make(map[string]*pair),
	}, nil
}

// getOrCreatePair returns the collection state for an (owner, agent) pair,
// creating it on first use. Each pair gets its own collection for namespace
// isolation.
func (s *Store) getOrCreatePair(ownerID, agentID string) (*pair, error) {
	key := ownerID + "\x00" + agentID

	s.mu.RLock()
	p, ok := s.pairs[key]
	s.mu.RUnlock()
	if ok {
		return p, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock.
	if p, ok := s.pairs[key]; ok {
		return p, nil
	}

	col, err := s.db.CreateCollection(collectionName(ownerID, agentID), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	p = &pair{
		col:    col,
		byID:   make(map[string]*recordMeta),
		byHash: make(map[uint64]string),
	}
	s.pairs[key] = p
	return p, nil
}

// Insert persists all six facet documents of a record as a unit, rolling
// back any documents already written if a later one fails.
func (s *Store) Insert(ctx context.Context, rec *core.MemoryRecord) (string, error) {
	if !rec.Complete() {
		return "", store.ErrPartialRecord
	}

	p, err := s.getOrCreatePair(rec.OwnerID, rec.AgentID)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Content-hash deduplication within the pair.
	if existing, ok := p.byHash[rec.ContentHash]; ok {
		log.Printf("[CHROMEM] Duplicate content for owner=%s agent=%s, reusing id=%s",
			rec.OwnerID, rec.AgentID, existing)
		return existing, nil
	}

	docs := make([]chromem.Document, 0, len(rec.FacetVectors))
	ids := make([]string, 0, len(rec.FacetVectors))
	for _, f := range core.Facets() {
		doc := chromem.Document{
			ID:        docID(rec.ID, f),
			Content:   rec.RawText,
			Embedding: rec.FacetVectors[f],
			Metadata:  facetMetadata(rec, f),
		}
		docs = append(docs, doc)
		ids = append(ids, doc.ID)
	}

	if err := p.col.AddDocuments(ctx, docs, len(docs)); err != nil {
		// Roll back whatever made it in so the record is all-or-nothing.
		if delErr := p.col.Delete(ctx, nil, nil, ids...); delErr != nil {
			log.Printf("[CHROMEM] Rollback failed for id=%s: %v", rec.ID, delErr)
		}
		return "", fmt.Errorf("add facet documents: %w", err)
	}

	meta := &recordMeta{
		id:        rec.ID,
		createdAt: rec.CreatedAt,
		rawText:   rec.RawText,
		tags:      copyTags(rec.FacetTags),
		keywords:  append([]string(nil), rec.Keywords...),
		emotion:   rec.FacetTags[core.FacetEmotion],
		intensity: rec.EmotionIntensity,
		hash:      rec.ContentHash,
	}
	p.records = append(p.records, meta)
	p.byID[rec.ID] = meta
	p.byHash[rec.ContentHash] = rec.ID

	log.Printf("[CHROMEM] Stored record id=%s owner=%s agent=%s facets=%d",
		rec.ID, rec.OwnerID, rec.AgentID, len(docs))
	return rec.ID, nil
}

// Search queries one facet's vector space, scoped to the pair, excluding
// archived records.
func (s *Store) Search(ctx context.Context, ownerID, agentID string, facet core.Facet, query []float32, topK int) ([]store.Hit, error) {
	if !core.ValidFacet(facet) {
		return nil, fmt.Errorf("search: unknown facet %q", facet)
	}
	if topK <= 0 {
		return nil, nil
	}

	p, err := s.getOrCreatePair(ownerID, agentID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	archived := 0
	for _, m := range p.records {
		if m.archived {
			archived++
		}
	}
	total := len(p.records)
	p.mu.Unlock()

	if total == 0 {
		return nil, nil
	}

	// Oversample past tombstones, capped at what the facet can return.
	want := topK + archived
	if want > total {
		want = total
	}

	where := map[string]string{
		"facet":    string(facet),
		"owner_id": ownerID,
		"agent_id": agentID,
	}

	// chromem rejects nResults larger than the matching document count;
	// retry with smaller limits until the query fits.
	var results []chromem.Result
	for n := want; n >= 1; n-- {
		results, err = p.col.QueryEmbedding(ctx, query, n, where, nil)
		if err == nil {
			break
		}
		if isInsufficientDocsError(err) {
			if n == 1 {
				return nil, nil
			}
			continue
		}
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	hits := make([]store.Hit, 0, len(results))
	for _, res := range results {
		id := res.Metadata["record_id"]
		meta, ok := p.byID[id]
		if !ok || meta.archived {
			continue
		}
		hits = append(hits, store.Hit{
			ID:        id,
			Score:     res.Similarity,
			RawText:   meta.rawText,
			Tags:      copyTags(meta.tags),
			Keywords:  append([]string(nil), meta.keywords...),
			CreatedAt: meta.createdAt,
		})
		if len(hits) == topK {
			break
		}
	}
	return hits, nil
}

// ListRecent returns the pair's non-archived records created at or after
// since, ascending by creation time.
func (s *Store) ListRecent(ctx context.Context, ownerID, agentID string, since time.Time, limit int) ([]store.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := s.getOrCreatePair(ownerID, agentID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	samples := make([]store.Sample, 0, len(p.records))
	for _, m := range p.records {
		if m.archived || m.createdAt.Before(since) {
			continue
		}
		samples = append(samples, store.Sample{
			ID:        m.id,
			CreatedAt: m.createdAt,
			Emotion:   m.emotion,
			Intensity: m.intensity,
			RawText:   m.rawText,
		})
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].CreatedAt.Before(samples[j].CreatedAt)
	})

	// Keep the most recent records when trimming, preserving ascending order.
	if limit > 0 && len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}
	return samples, nil
}

// Archive tombstones a record. The stored documents are untouched.
func (s *Store) Archive(ctx context.Context, ownerID, agentID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := s.getOrCreatePair(ownerID, agentID)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	meta, ok := p.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	meta.archived = true
	// Release the content hash so the same text can be remembered again.
	if p.byHash[meta.hash] == id {
		delete(p.byHash, meta.hash)
	}
	log.Printf("[CHROMEM] Archived record id=%s owner=%s agent=%s", id, ownerID, agentID)
	return nil
}

// Close releases resources. chromem keeps everything in memory, so there is
// nothing to flush.
func (s *Store) Close() error {
	return nil
}

func docID(recordID string, facet core.Facet) string {
	return recordID + ":" + string(facet)
}

// facetMetadata builds the chromem document metadata for one facet of a
// record.
func facetMetadata(rec *core.MemoryRecord, facet core.Facet) map[string]string {
	md := map[string]string{
		"record_id":  rec.ID,
		"facet":      string(facet),
		"owner_id":   rec.OwnerID,
		"agent_id":   rec.AgentID,
		"created_at": rec.CreatedAt.Format(time.RFC3339Nano),
		"intensity":  strconv.FormatFloat(rec.EmotionIntensity, 'f', -1, 64),
		"keywords":   strings.Join(rec.Keywords, ","),
	}
	for f, tag := range rec.FacetTags {
		md["tag_"+string(f)] = tag
	}
	return md
}

func copyTags(tags map[core.Facet]string) map[core.Facet]string {
	out := make(map[core.Facet]string, len(tags))
	for f, t := range tags {
		out[f] = t
	}
	return out
}

// collectionName derives a chromem-safe name from the isolation keys. The
// hash suffix keeps distinct pairs distinct even when sanitizing folds their
// ids together.
func collectionName(ownerID, agentID string) string {
	h := fnv.New32a()
	h.Write([]byte(ownerID))
	h.Write([]byte{0})
	h.Write([]byte(agentID))
	return fmt.Sprintf("pair_%s_%s_%08x", sanitize(ownerID), sanitize(agentID), h.Sum32())
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, s)
}

// isInsufficientDocsError matches chromem's error for nResults exceeding the
// collection or filtered document count.
func isInsufficientDocsError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "nResults must be") || strings.Contains(msg, "number of documents")
}
