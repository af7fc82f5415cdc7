package engine

import (
	"fmt"
	"strings"

	"github.com/emberchat/recall/core"
)

// Facet task operations.
const (
	opEmbed = "embed"
	opQuery = "query"
)

// FacetError records a single facet's embedding or query failure. During a
// search these are recoverable: the facet is dropped from fusion and the
// call degrades instead of failing.
type FacetError struct {
	Facet core.Facet
	Op    string // "embed" or "query"
	Err   error
}

func (e *FacetError) Error() string {
	return fmt.Sprintf("facet %s: %s: %v", e.Facet, e.Op, e.Err)
}

func (e *FacetError) Unwrap() error {
	return e.Err
}

// InsertError reports an aborted insert: one or more facet embeddings
// failed, so nothing was written. Partial facet sets are never persisted.
type InsertError struct {
	Failures []*FacetError
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert aborted, %d facet embedding(s) failed: %s",
		len(e.Failures), joinFacets(e.Failures))
}

// AllFacetsFailedError reports a search in which every facet task failed.
// The caller gets this hard error instead of a silently empty result.
type AllFacetsFailedError struct {
	Failures []*FacetError
}

func (e *AllFacetsFailedError) Error() string {
	return fmt.Sprintf("all %d facet(s) failed: %s", len(e.Failures), joinFacets(e.Failures))
}

func joinFacets(failures []*FacetError) string {
	parts := make([]string, len(failures))
	for i, f := range failures {
		parts[i] = string(f.Facet)
	}
	return strings.Join(parts, ", ")
}
