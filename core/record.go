package core

import "time"

// MemoryRecord is one stored conversational turn. Records are created once by
// the engine's insert path and never mutated in place; archival tombstones a
// record without editing its text or vectors.
//
// Invariant: a persisted record always carries all six facet vectors. Store
// implementations must reject partial records.
type MemoryRecord struct {
	// ID uniquely identifies the record. Assigned at creation, immutable.
	ID string

	// OwnerID and AgentID are the isolation keys. Every record belongs to
	// exactly one (owner, agent) pair and is never visible under another.
	OwnerID string
	AgentID string

	// CreatedAt is the creation timestamp, immutable.
	CreatedAt time.Time

	// RawText is the original turn content, immutable.
	RawText string

	// FacetVectors maps each of the six facets to its embedding.
	FacetVectors map[Facet][]float32

	// FacetTags maps the five classified facets to the tag that built their
	// embedding input (content embeds raw text and has no tag).
	FacetTags map[Facet]string

	// EmotionIntensity is the [0,1] intensity attached at creation, used by
	// trajectory analysis.
	EmotionIntensity float64

	// Keywords are stop-word-filtered terms extracted from the raw text,
	// stored as retrieval metadata.
	Keywords []string

	// ContentHash is the hash of the normalized raw text, used for
	// insert-time deduplication within an (owner, agent) pair.
	ContentHash uint64
}

// Complete reports whether the record carries a vector for every facet.
func (r *MemoryRecord) Complete() bool {
	if len(r.FacetVectors) != len(Facets()) {
		return false
	}
	for _, f := range Facets() {
		if len(r.FacetVectors[f]) == 0 {
			return false
		}
	}
	return true
}
