// Package store defines the vector storage contract for memory records.
//
// A Store persists multi-vector records atomically (all six facet vectors or
// nothing), answers per-facet similarity queries scoped strictly to one
// (owner, agent) pair, serves time-ordered reads for trajectory analysis,
// and tombstones records on archive without deleting stored data.
//
// Implementations: store/chromem (embedded chromem-go database) and
// store/hnsw (in-process HNSW graphs).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/emberchat/recall/core"
)

var (
	// ErrPartialRecord is returned when an insert is attempted with fewer
	// than six facet vectors. Partial facet sets are never persisted.
	ErrPartialRecord = errors.New("record is missing facet vectors")

	// ErrNotFound is returned when an id does not exist under the given
	// (owner, agent) pair.
	ErrNotFound = errors.New("memory record not found")
)

// Hit is one similarity match from a single-facet query.
type Hit struct {
	// ID is the matched record's id.
	ID string

	// Score is the cosine similarity of the facet vectors.
	Score float32

	// RawText, Tags, Keywords, and CreatedAt are the record's stored
	// retrieval metadata.
	RawText   string
	Tags      map[core.Facet]string
	Keywords  []string
	CreatedAt time.Time
}

// Sample is a time-ordered emotional sample for trajectory analysis.
type Sample struct {
	ID        string
	CreatedAt time.Time

	// Emotion is the record's stored emotion tag.
	Emotion string

	// Intensity is the [0,1] emotion intensity attached at creation.
	Intensity float64

	RawText string
}

// Store is the vector storage backend contract. All operations are scoped
// by the (owner, agent) isolation keys; a store must never surface one
// pair's records under another, regardless of vector similarity.
type Store interface {
	// Insert persists a complete record atomically: either every facet
	// vector is stored or nothing is. It returns the stored record's id.
	// When a record with the same content hash already exists for the
	// pair, the existing id is returned and nothing is written.
	Insert(ctx context.Context, rec *core.MemoryRecord) (string, error)

	// Search runs a top-k similarity query against one facet's vector
	// space, scoped to the pair. Archived records are excluded. Results
	// are ordered by similarity descending.
	Search(ctx context.Context, ownerID, agentID string, facet core.Facet, query []float32, topK int) ([]Hit, error)

	// ListRecent returns the pair's non-archived records created at or
	// after since, ascending by creation time, capped at limit.
	ListRecent(ctx context.Context, ownerID, agentID string, since time.Time, limit int) ([]Sample, error)

	// Archive tombstones a record: it disappears from Search and
	// ListRecent but its text and vectors remain stored.
	Archive(ctx context.Context, ownerID, agentID, id string) error

	// Close releases backend resources.
	Close() error
}
