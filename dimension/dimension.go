package dimension

import (
	"strings"

	"github.com/emberchat/recall/core"
)

// maxSemanticWords caps the generic semantic key length.
const maxSemanticWords = 3

// maxKeywords caps the keyword metadata extracted per turn.
const maxKeywords = 10

// Classify derives the facet tags for one turn of text. Pure function: no
// I/O, no randomness, identical text always yields identical tags.
func Classify(text string) core.Tags {
	lower := strings.ToLower(text)

	emotion, intensity := classifyEmotion(lower)

	return core.Tags{
		Emotion:          emotion,
		EmotionIntensity: intensity,
		Semantic:         classifySemantic(lower),
		Relationship:     classifyRelationship(lower),
		Situational:      classifySituational(lower),
		Trait:            classifyTrait(lower),
	}
}

// classifyEmotion returns the first matching emotion tag and an intensity
// heuristic scaled from the winning rule's matched-keyword count.
func classifyEmotion(lower string) (string, float64) {
	for _, r := range emotionRules {
		if ok, n := r.matches(lower); ok {
			intensity := float64(n) * intensityPerMatch
			if intensity > 1 {
				intensity = 1
			}
			return r.tag, intensity
		}
	}
	return DefaultEmotion, neutralIntensity
}

// classifySemantic returns a clustering key: a specific fact-group key when
// one of the ordered rules matches, otherwise the first significant words of
// the text joined with underscores. The key labels clusters only; it carries
// no ranking weight of its own.
func classifySemantic(lower string) string {
	for _, r := range semanticRules {
		if r.match(lower) {
			return r.tag
		}
	}

	words := significantWords(lower)
	if len(words) == 0 {
		return DefaultSemantic
	}
	if len(words) > maxSemanticWords {
		words = words[:maxSemanticWords]
	}
	return strings.Join(words, "_")
}

// classifyRelationship composes the intimacy and trust levels into a single
// tag of the form "intimacy_<level>_trust_<level>".
func classifyRelationship(lower string) string {
	intimacy := firstMatch(intimacyRules, lower, DefaultIntimacy)
	trust := firstMatch(trustRules, lower, DefaultTrust)
	return "intimacy_" + intimacy + "_trust_" + trust
}

// classifySituational composes the conversation mode and time context into a
// tag of the form "mode_<mode>_time_<time>".
func classifySituational(lower string) string {
	mode := firstMatch(modeRules, lower, DefaultMode)
	timeCtx := firstMatch(timeRules, lower, DefaultTimeContext)
	return "mode_" + mode + "_time_" + timeCtx
}

// classifyTrait picks the two trait categories with the most keyword matches
// (table order breaks ties) and composes "traits_<a>_<b>". A single match is
// padded with the balanced default; no match yields "traits_balanced".
func classifyTrait(lower string) string {
	type scored struct {
		tag   string
		count int
	}
	var hits []scored
	for _, r := range traitRules {
		if ok, n := r.matches(lower); ok {
			hits = append(hits, scored{r.tag, n})
		}
	}

	// Stable sort by count descending preserves table order among ties.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].count > hits[j-1].count; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	switch len(hits) {
	case 0:
		return "traits_" + DefaultTrait
	case 1:
		return "traits_" + hits[0].tag + "_" + DefaultTrait
	default:
		return "traits_" + hits[0].tag + "_" + hits[1].tag
	}
}

// firstMatch returns the tag of the first matching rule, or the default.
func firstMatch(rules []rule, lower, def string) string {
	for _, r := range rules {
		if ok, _ := r.matches(lower); ok {
			return r.tag
		}
	}
	return def
}

// Keywords extracts stop-word-filtered terms from the text for retrieval
// metadata, deduplicated in order of first appearance.
func Keywords(text string) []string {
	words := significantWords(strings.ToLower(text))
	seen := make(map[string]bool, len(words))
	var out []string
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}

// significantWords splits lowercased text into alphanumeric words, dropping
// stop words and words shorter than three characters.
func significantWords(lower string) []string {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '\'')
	})
	var out []string
	for _, w := range fields {
		w = strings.Trim(w, "'")
		if len(w) < 3 || stopWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// containsKeyword reports whether the keyword occurs in the lowercased text.
// Plain substring matching: multi-word phrases match naturally and the check
// stays cheap and deterministic.
func containsKeyword(lower, keyword string) bool {
	return strings.Contains(lower, keyword)
}
