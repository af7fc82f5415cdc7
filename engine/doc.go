// Package engine coordinates multi-faceted memory storage and retrieval.
//
// The insert path classifies a turn into facet tags, embeds all six facet
// inputs concurrently, and writes one atomic multi-vector record. The search
// path embeds and queries each weighted facet concurrently, then fuses the
// per-facet similarity scores into a single ranking:
//
//	combined = sum over contributing facets of similarity x weight
//
// No weight redistribution happens for facets that did not return a record.
// A facet whose embedding or query fails is dropped from that call only; the
// search degrades rather than failing, unless every facet fails.
package engine
