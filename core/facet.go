package core

// Facet identifies one of the six independent classification and embedding
// dimensions of a memory record.
type Facet string

const (
	FacetContent      Facet = "content"
	FacetEmotion      Facet = "emotion"
	FacetSemantic     Facet = "semantic"
	FacetRelationship Facet = "relationship"
	FacetSituational  Facet = "situational"
	FacetTrait        Facet = "trait"
)

// Facets returns all six facets in canonical order. The slice is a fresh copy
// on every call so callers can reorder it freely.
func Facets() []Facet {
	return []Facet{
		FacetContent,
		FacetEmotion,
		FacetSemantic,
		FacetRelationship,
		FacetSituational,
		FacetTrait,
	}
}

// ValidFacet reports whether f names one of the six facets.
func ValidFacet(f Facet) bool {
	switch f {
	case FacetContent, FacetEmotion, FacetSemantic,
		FacetRelationship, FacetSituational, FacetTrait:
		return true
	}
	return false
}

// Tags holds the classification output of the dimension extractor for one
// turn of text. Two identical input texts always produce identical Tags.
type Tags struct {
	// Emotion is the dominant emotion tag (e.g. "joy", "fear", "neutral").
	Emotion string

	// EmotionIntensity is the keyword-density heuristic for the emotion
	// tag, in [0,1].
	EmotionIntensity float64

	// Semantic is the clustering key (e.g. "pet_name", "ocean_diving_reefs").
	Semantic string

	// Relationship is the composed intimacy/trust tag
	// (e.g. "intimacy_personal_trust_neutral").
	Relationship string

	// Situational is the composed mode/time tag
	// (e.g. "mode_casual_chat_time_general").
	Situational string

	// Trait is the composed prominent-trait tag (e.g. "traits_empathy_curious").
	Trait string
}

// ForFacet returns the tag used to build the given facet's embedding input.
// The content facet embeds raw text and carries no tag.
func (t Tags) ForFacet(f Facet) string {
	switch f {
	case FacetEmotion:
		return t.Emotion
	case FacetSemantic:
		return t.Semantic
	case FacetRelationship:
		return t.Relationship
	case FacetSituational:
		return t.Situational
	case FacetTrait:
		return t.Trait
	}
	return ""
}

// Map returns the tags as a facet->tag mapping, suitable for storage as
// retrieval metadata. The content facet is omitted.
func (t Tags) Map() map[Facet]string {
	return map[Facet]string{
		FacetEmotion:      t.Emotion,
		FacetSemantic:     t.Semantic,
		FacetRelationship: t.Relationship,
		FacetSituational:  t.Situational,
		FacetTrait:        t.Trait,
	}
}
