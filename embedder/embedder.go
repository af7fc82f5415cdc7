package embedder

import (
	"context"

	"github.com/emberchat/recall/core"
)

// Embedder converts text to vector embeddings. Implementations must be safe
// for concurrent use and must return an error rather than a partial vector.
type Embedder interface {
	// Embed converts a single text to an embedding vector of length
	// Dimensions().
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}

// FacetInput builds the embedding input text for one facet. Every facet but
// content prefixes the raw text with the facet name and its classification
// tag so that records sharing a tag cluster in that facet's vector space.
// The content facet embeds the raw text as-is.
func FacetInput(f core.Facet, tag, text string) string {
	if f == core.FacetContent {
		return text
	}
	return string(f) + " " + tag + ": " + text
}
