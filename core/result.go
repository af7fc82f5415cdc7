package core

import "time"

// SearchResult is one fused entry in a ranked search response.
type SearchResult struct {
	// ID is the matched record's id.
	ID string

	// RawText is the matched record's original turn content.
	RawText string

	// Tags are the record's stored facet tags.
	Tags map[Facet]string

	// Keywords are the record's stored keyword metadata.
	Keywords []string

	// CreatedAt is the record's creation time.
	CreatedAt time.Time

	// Score is the weighted combined score: for each facet that returned
	// this record, similarity x weight, summed. No weight redistribution is
	// performed for facets that did not return the record.
	Score float64

	// FacetScores holds the raw (unweighted) similarity per contributing
	// facet.
	FacetScores map[Facet]float64

	// DimensionsUsed lists the facets that contributed to Score, in
	// canonical order.
	DimensionsUsed []Facet
}

// RankedResults is the output of a multi-facet search, ranked by combined
// score descending with recency breaking ties.
type RankedResults struct {
	Results []SearchResult

	// FailedFacets lists facets dropped from this query because their
	// embedding or store query failed. A non-empty list means the ranking
	// is degraded but still valid for the remaining facets.
	FailedFacets []Facet
}
