package dimension_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberchat/recall/core"
	"github.com/emberchat/recall/dimension"
)

func TestClassifyDeterministic(t *testing.T) {
	text := "I'm so happy we finally explored the reef together, thank you!"

	first := dimension.Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, dimension.Classify(text))
	}
}

func TestClassifyEmotion(t *testing.T) {
	tests := []struct {
		text    string
		emotion string
	}{
		{"I love diving with dolphins", "joy"},
		{"I am scared of sharks", "fear"},
		{"thank you so much for listening", "grateful"},
		{"I feel sad and heartbroken today", "sadness"},
		{"this is so frustrating, I'm furious", "anger"},
		{"I'm worried about the exam and feel uneasy", "worried_concerned"},
		{"the meeting is at three o'clock", "neutral"},
	}
	for _, tt := range tests {
		tags := dimension.Classify(tt.text)
		assert.Equal(t, tt.emotion, tags.Emotion, "text: %q", tt.text)
	}
}

func TestClassifyEmotionIntensity(t *testing.T) {
	// Neutral text carries the low default intensity.
	tags := dimension.Classify("the meeting is at three o'clock")
	assert.InDelta(t, 0.1, tags.EmotionIntensity, 1e-9)

	// One matched keyword scales to 0.3.
	tags = dimension.Classify("I am scared")
	assert.InDelta(t, 0.3, tags.EmotionIntensity, 1e-9)

	// Intensity grows with keyword density but never exceeds 1.
	tags = dimension.Classify("happy happy joy, this is wonderful, amazing, fantastic and awesome, I love it")
	assert.Equal(t, 1.0, tags.EmotionIntensity)
	assert.Equal(t, "joy", tags.Emotion)
}

func TestClassifyEmotionOrderWins(t *testing.T) {
	// Matches both joy ("love") and fear ("scares" contains "scared"? no -
	// "terrified"). The joy rule sits earlier in the table, so it wins.
	tags := dimension.Classify("I love rollercoasters even though I'm terrified on them")
	assert.Equal(t, "joy", tags.Emotion)
}

func TestClassifyRelationship(t *testing.T) {
	tags := dimension.Classify("please keep this a secret, it's about my feelings for her")
	assert.Equal(t, "intimacy_intimate_trust_confidential", tags.Relationship)

	tags = dimension.Classify("my family and my friend came to visit")
	assert.Equal(t, "intimacy_personal_trust_neutral", tags.Relationship)

	tags = dimension.Classify("nice weather today")
	assert.Equal(t, "intimacy_casual_trust_neutral", tags.Relationship)
}

func TestClassifySituational(t *testing.T) {
	tags := dimension.Classify("help, this is an emergency!")
	assert.Equal(t, "mode_crisis_support_time_general", tags.Situational)

	tags = dimension.Classify("can you explain how tides work this morning?")
	assert.Equal(t, "mode_educational_time_morning", tags.Situational)

	tags = dimension.Classify("hello there")
	assert.Equal(t, "mode_casual_chat_time_general", tags.Situational)
}

func TestClassifyTrait(t *testing.T) {
	// Two categories matched: both appear, higher match count first.
	tags := dimension.Classify("let's analyze the data and think about the logic of this experiment")
	assert.Equal(t, "traits_analytical_scientific", tags.Trait)

	// Single category padded with the balanced default.
	tags = dimension.Classify("I want to protect you and keep you safe")
	assert.Equal(t, "traits_protective_balanced", tags.Trait)

	// Nothing matched.
	tags = dimension.Classify("okay then")
	assert.Equal(t, "traits_balanced", tags.Trait)
}

func TestClassifySemantic(t *testing.T) {
	assert.Equal(t, "pet_name", dimension.Classify("my cat's name is Whiskers").Semantic)
	assert.Equal(t, "favorite_color", dimension.Classify("my favorite color is blue").Semantic)
	assert.Equal(t, "user_name", dimension.Classify("my name is Jordan").Semantic)

	// Generic fallback: first significant words.
	assert.Equal(t, "dolphins_sleep_half", dimension.Classify("dolphins sleep with half the brain awake").Semantic)

	// Nothing significant at all.
	assert.Equal(t, "general", dimension.Classify("so it is").Semantic)
}

func TestTagsForFacet(t *testing.T) {
	tags := dimension.Classify("I love diving with dolphins")

	assert.Equal(t, tags.Emotion, tags.ForFacet(core.FacetEmotion))
	assert.Equal(t, tags.Relationship, tags.ForFacet(core.FacetRelationship))
	assert.Equal(t, "", tags.ForFacet(core.FacetContent))

	m := tags.Map()
	require.Len(t, m, 5)
	assert.Equal(t, tags.Semantic, m[core.FacetSemantic])
	_, hasContent := m[core.FacetContent]
	assert.False(t, hasContent)
}

func TestKeywords(t *testing.T) {
	kws := dimension.Keywords("The dolphins and the dolphins swam near the coral reef")
	assert.Equal(t, []string{"dolphins", "swam", "near", "coral", "reef"}, kws)

	assert.Empty(t, dimension.Keywords("so it is"))
}
