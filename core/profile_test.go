package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWeightingProfile(t *testing.T) {
	p, err := NewWeightingProfile("balanced", map[Facet]float64{
		FacetContent: 0.5,
		FacetEmotion: 0.3,
		FacetTrait:   0.2,
	})
	require.NoError(t, err)

	assert.Equal(t, "balanced", p.Name())
	assert.Equal(t, 0.5, p.Weight(FacetContent))
	assert.Equal(t, 0.3, p.Weight(FacetEmotion))
	assert.Equal(t, 0.0, p.Weight(FacetSemantic))
}

func TestNewWeightingProfileRejectsUnknownFacet(t *testing.T) {
	_, err := NewWeightingProfile("bad", map[Facet]float64{
		Facet("mood"): 1,
	})
	assert.ErrorIs(t, err, ErrUnknownFacet)
}

func TestNewWeightingProfileRejectsNegativeWeight(t *testing.T) {
	_, err := NewWeightingProfile("bad", map[Facet]float64{
		FacetContent: -0.1,
	})
	assert.ErrorIs(t, err, ErrNegativeWeight)
}

func TestNewWeightingProfileRequiresPositiveWeight(t *testing.T) {
	_, err := NewWeightingProfile("empty", map[Facet]float64{})
	assert.ErrorIs(t, err, ErrNoPositiveWeight)

	_, err = NewWeightingProfile("zeros", map[Facet]float64{
		FacetContent: 0,
		FacetEmotion: 0,
	})
	assert.ErrorIs(t, err, ErrNoPositiveWeight)
}

func TestWeightingProfileCopiesInput(t *testing.T) {
	weights := map[Facet]float64{FacetContent: 1}
	p, err := NewWeightingProfile("snapshot", weights)
	require.NoError(t, err)

	weights[FacetContent] = 0
	weights[FacetEmotion] = 7

	assert.Equal(t, 1.0, p.Weight(FacetContent))
	assert.Equal(t, 0.0, p.Weight(FacetEmotion))
}

func TestActiveFacetsCanonicalOrder(t *testing.T) {
	p, err := NewWeightingProfile("mixed", map[Facet]float64{
		FacetTrait:    0.2,
		FacetContent:  0.5,
		FacetSemantic: 0,
		FacetEmotion:  0.3,
	})
	require.NoError(t, err)

	assert.Equal(t, []Facet{FacetContent, FacetEmotion, FacetTrait}, p.ActiveFacets())
}

func TestSingleFacetProfile(t *testing.T) {
	p, err := SingleFacetProfile(FacetEmotion)
	require.NoError(t, err)

	assert.Equal(t, 1.0, p.Weight(FacetEmotion))
	assert.Equal(t, []Facet{FacetEmotion}, p.ActiveFacets())

	_, err = SingleFacetProfile(Facet("vibes"))
	assert.ErrorIs(t, err, ErrUnknownFacet)
}

func TestValidFacet(t *testing.T) {
	for _, f := range Facets() {
		assert.True(t, ValidFacet(f), string(f))
	}
	assert.False(t, ValidFacet(Facet("mood")))
	assert.False(t, ValidFacet(Facet("")))
}

func TestRecordComplete(t *testing.T) {
	rec := &MemoryRecord{
		FacetVectors: map[Facet][]float32{},
	}
	assert.False(t, rec.Complete())

	for _, f := range Facets() {
		rec.FacetVectors[f] = []float32{0.1, 0.2}
	}
	assert.True(t, rec.Complete())

	delete(rec.FacetVectors, FacetTrait)
	assert.False(t, rec.Complete())

	rec.FacetVectors[FacetTrait] = nil
	assert.False(t, rec.Complete())
}
