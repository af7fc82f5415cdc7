package core

import (
	"errors"
	"fmt"
)

// Weighting profile validation errors. All are detected at construction,
// before any I/O.
var (
	ErrUnknownFacet     = errors.New("unknown facet in weighting profile")
	ErrNegativeWeight   = errors.New("negative weight in weighting profile")
	ErrNoPositiveWeight = errors.New("weighting profile has no positive weight")
)

// WeightingProfile is a named, immutable facet->weight map used to fuse
// per-facet similarity scores. There is no canonical default profile; callers
// must construct one explicitly.
type WeightingProfile struct {
	name    string
	weights map[Facet]float64
}

// NewWeightingProfile validates and builds a profile. All weights must be
// non-negative, at least one must be positive, and every facet name must be
// one of the six known facets. The input map is copied; later mutation of it
// does not affect the profile.
func NewWeightingProfile(name string, weights map[Facet]float64) (*WeightingProfile, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("profile %q: %w", name, ErrNoPositiveWeight)
	}

	copied := make(map[Facet]float64, len(weights))
	positive := false
	for f, w := range weights {
		if !ValidFacet(f) {
			return nil, fmt.Errorf("profile %q: facet %q: %w", name, f, ErrUnknownFacet)
		}
		if w < 0 {
			return nil, fmt.Errorf("profile %q: facet %q: %w", name, f, ErrNegativeWeight)
		}
		if w > 0 {
			positive = true
		}
		copied[f] = w
	}
	if !positive {
		return nil, fmt.Errorf("profile %q: %w", name, ErrNoPositiveWeight)
	}

	return &WeightingProfile{name: name, weights: copied}, nil
}

// SingleFacetProfile builds a one-hot profile with weight 1 on the given
// facet, reducing fusion to that facet's similarity order.
func SingleFacetProfile(f Facet) (*WeightingProfile, error) {
	return NewWeightingProfile("facet_"+string(f), map[Facet]float64{f: 1})
}

// Name returns the profile's name.
func (p *WeightingProfile) Name() string {
	return p.name
}

// Weight returns the weight for a facet. Facets absent from the profile
// weigh zero.
func (p *WeightingProfile) Weight(f Facet) float64 {
	return p.weights[f]
}

// ActiveFacets returns the facets with positive weight, in canonical order.
func (p *WeightingProfile) ActiveFacets() []Facet {
	var active []Facet
	for _, f := range Facets() {
		if p.weights[f] > 0 {
			active = append(active, f)
		}
	}
	return active
}
