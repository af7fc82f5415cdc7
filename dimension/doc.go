// Package dimension classifies raw conversational text into the facet tags
// that drive multi-faceted embedding and retrieval.
//
// Classification is pure and deterministic: each facet applies an ordered
// table of keyword rules, the first matching rule wins, and a facet-specific
// default applies when nothing matches. No I/O, no shared state; two calls
// with identical input return identical output.
package dimension
