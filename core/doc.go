// Package core defines the shared value types of the recall memory engine.
//
// The engine stores each conversational turn as a multi-faceted record: one
// embedding per facet (content, emotion, semantic, relationship, situational,
// trait) plus the classification tags that built those embeddings. Core holds
// the types that cross package boundaries:
//
//   - Facet: the six embedding dimensions
//   - Tags: per-facet classification output of the dimension extractor
//   - MemoryRecord: one atomically-stored turn
//   - WeightingProfile: validated facet->weight map for score fusion
//   - RankedResults / SearchResult: fused multi-facet search output
//
// Core has no dependencies on the store, embedder, or engine packages.
package core
