// Package embedder defines the text-to-vector contract and the concurrent
// per-facet embedding generator.
//
// Backends implement Embedder:
//   - embedder/mock: deterministic lexical embedder for tests and local use
//   - embedder/onnx: all-MiniLM-L6-v2 via ONNX Runtime (build tag "onnx")
//   - embedder/cached: ristretto read-through cache around any backend
//
// The Generator fans one turn of text out into the six facet embedding
// inputs ("<facet> <tag>: <text>", content unprefixed) and embeds them
// concurrently with a bounded per-task timeout. One facet's failure never
// cancels the others; successes and failures are collected per facet so the
// caller can apply its own policy (insert requires all six, search degrades).
package embedder
