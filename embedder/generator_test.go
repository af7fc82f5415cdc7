package embedder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberchat/recall/core"
)

// scriptedEmbedder records its inputs and fails for inputs containing any
// configured trigger substring.
type scriptedEmbedder struct {
	mu       sync.Mutex
	inputs   []string
	failOn   []string
	vector   []float32
	slowOn   string
	slowness time.Duration
}

func (s *scriptedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	s.inputs = append(s.inputs, text)
	s.mu.Unlock()

	if s.slowOn != "" && strings.Contains(text, s.slowOn) {
		select {
		case <-time.After(s.slowness):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	for _, trigger := range s.failOn {
		if strings.Contains(text, trigger) {
			return nil, errors.New("embedding backend unavailable")
		}
	}
	return s.vector, nil
}

func (s *scriptedEmbedder) Dimensions() int { return len(s.vector) }

func (s *scriptedEmbedder) sawInput(substr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range s.inputs {
		if strings.Contains(in, substr) {
			return true
		}
	}
	return false
}

func testTags() core.Tags {
	return core.Tags{
		Emotion:      "joy",
		Semantic:     "general",
		Relationship: "intimacy_casual_trust_neutral",
		Situational:  "mode_casual_chat_time_general",
		Trait:        "traits_balanced",
	}
}

func TestFacetInput(t *testing.T) {
	assert.Equal(t, "hello there", FacetInput(core.FacetContent, "", "hello there"))
	assert.Equal(t, "emotion joy: hello there", FacetInput(core.FacetEmotion, "joy", "hello there"))
	assert.Equal(t, "trait traits_balanced: hi", FacetInput(core.FacetTrait, "traits_balanced", "hi"))
}

func TestGenerateAllFacets(t *testing.T) {
	emb := &scriptedEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	g := NewGenerator(emb, time.Second)

	vectors, errs := g.Generate(context.Background(), "hello there", testTags(), core.Facets())

	assert.Empty(t, errs)
	require.Len(t, vectors, len(core.Facets()))
	for _, f := range core.Facets() {
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, vectors[f])
	}

	// Content embeds the raw text; the rest embed prefixed inputs.
	assert.True(t, emb.sawInput("hello there"))
	assert.True(t, emb.sawInput("emotion joy: hello there"))
	assert.True(t, emb.sawInput("situational mode_casual_chat_time_general: hello there"))
}

func TestGeneratePartialFailure(t *testing.T) {
	emb := &scriptedEmbedder{
		vector: []float32{1, 0},
		failOn: []string{"relationship ", "situational "},
	}
	g := NewGenerator(emb, time.Second)

	vectors, errs := g.Generate(context.Background(), "hi", testTags(), core.Facets())

	assert.Len(t, vectors, 4)
	assert.Len(t, errs, 2)
	assert.Contains(t, errs, core.FacetRelationship)
	assert.Contains(t, errs, core.FacetSituational)
	assert.NotContains(t, vectors, core.FacetRelationship)
	assert.Contains(t, vectors, core.FacetContent)
}

func TestGenerateTimeoutIsPerFacet(t *testing.T) {
	emb := &scriptedEmbedder{
		vector:   []float32{1},
		slowOn:   "emotion ",
		slowness: time.Second,
	}
	g := NewGenerator(emb, 20*time.Millisecond)

	vectors, errs := g.Generate(context.Background(), "hi", testTags(), core.Facets())

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[core.FacetEmotion], context.DeadlineExceeded)
	assert.Len(t, vectors, 5)
}

func TestGenerateDimensionMismatch(t *testing.T) {
	emb := &mismatchedEmbedder{}
	g := NewGenerator(emb, time.Second)

	vectors, errs := g.Generate(context.Background(), "hi", testTags(), []core.Facet{core.FacetContent})

	assert.Empty(t, vectors)
	require.Contains(t, errs, core.FacetContent)
	assert.Contains(t, errs[core.FacetContent].Error(), "dimension mismatch")
}

// mismatchedEmbedder claims 4 dimensions but returns 2.
type mismatchedEmbedder struct{}

func (m *mismatchedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 2}, nil
}

func (m *mismatchedEmbedder) Dimensions() int { return 4 }

func TestEmbedSingleFacet(t *testing.T) {
	emb := &scriptedEmbedder{vector: []float32{0.5, 0.5}}
	g := NewGenerator(emb, time.Second)

	vec, err := g.Embed(context.Background(), core.FacetEmotion, "joy", "great day")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, vec)
	assert.True(t, emb.sawInput("emotion joy: great day"))
}

func TestNewGeneratorDefaultTimeout(t *testing.T) {
	g := NewGenerator(&scriptedEmbedder{vector: []float32{1}}, 0)
	assert.Equal(t, DefaultFacetTimeout, g.timeout)
}
