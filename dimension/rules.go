package dimension

// A rule maps a set of keywords to a tag. Rules are evaluated top to bottom;
// the first rule with any keyword present in the text wins.
type rule struct {
	tag      string
	keywords []string
}

// matches reports whether any keyword appears in the lowercased text, and
// how many do.
func (r rule) matches(lower string) (bool, int) {
	n := 0
	for _, kw := range r.keywords {
		if containsKeyword(lower, kw) {
			n++
		}
	}
	return n > 0, n
}

// Default tags per facet.
const (
	DefaultEmotion     = "neutral"
	DefaultSemantic    = "general"
	DefaultIntimacy    = "casual"
	DefaultTrust       = "neutral"
	DefaultMode        = "casual_chat"
	DefaultTimeContext = "general"
	DefaultTrait       = "balanced"
)

// neutralIntensity is the emotion intensity reported when no emotion rule
// matches.
const neutralIntensity = 0.1

// intensityPerMatch scales matched-keyword count into the [0,1] intensity.
const intensityPerMatch = 0.3

// emotionRules is the ordered emotion table. Positive emotions come first so
// that mixed statements like "I love it even when it scares me" resolve to
// the warmer reading.
var emotionRules = []rule{
	{"joy", []string{
		"happy", "joy", "delighted", "pleased", "cheerful", "thrilled",
		"wonderful", "amazing", "fantastic", "awesome", "brilliant",
		"love", "adore", "bliss", "overjoyed", "radiant", "yay",
	}},
	{"grateful", []string{
		"grateful", "thankful", "appreciate", "blessed", "thank you",
		"thanks", "appreciative", "much appreciated",
	}},
	{"excitement", []string{
		"excited", "energetic", "enthusiastic", "pumped", "eager",
		"can't wait", "hyped", "exhilarated", "electrified",
	}},
	{"contentment", []string{
		"content", "satisfied", "peaceful", "calm", "serene", "relaxed",
		"at ease", "tranquil", "at peace", "mellow",
	}},
	{"curiosity", []string{
		"curious", "wondering", "intrigued", "fascinated", "inquisitive",
		"puzzled", "perplexed",
	}},
	{"surprise", []string{
		"surprised", "shocked", "amazed", "astonished", "stunned",
		"unexpected", "wow", "incredible", "unbelievable", "flabbergasted",
	}},
	{"sadness", []string{
		"sad", "unhappy", "depressed", "melancholy", "grief",
		"disappointed", "heartbroken", "gloomy", "miserable", "crying",
		"tears", "devastated", "despair", "mournful",
	}},
	{"anger", []string{
		"angry", "furious", "rage", "irritated", "annoyed", "frustrated",
		"outraged", "livid", "hate", "disgusted", "infuriated", "seething",
	}},
	{"fear", []string{
		"afraid", "scared", "frightened", "terrified", "panic", "dread",
		"horror", "alarmed", "petrified", "horrified", "fearful",
	}},
	{"worried_concerned", []string{
		"worried", "anxious", "nervous", "stressed", "overwhelmed",
		"uneasy", "concerned", "troubled", "distressed", "on edge",
	}},
}

// Relationship intimacy levels, most intimate first.
var intimacyRules = []rule{
	{"intimate", []string{"love", "relationship", "feelings", "heart", "soul", "deep inside"}},
	{"deep", []string{"worry", "fear", "dream", "hope", "struggle", "personal"}},
	{"personal", []string{"family", "friend", "work", "life", "experience"}},
	{"casual", []string{"weather", "news", "general", "how are you"}},
}

// Relationship trust levels, strongest signal first.
var trustRules = []rule{
	{"confidential", []string{"secret", "don't tell", "between us", "private", "confidential"}},
	{"trusting", []string{"trust you", "count on", "believe you", "rely on"}},
	{"skeptical", []string{"doubt", "unsure", "not sure", "suspicious", "questioning"}},
}

// Conversation modes, highest urgency first.
var modeRules = []rule{
	{"crisis_support", []string{"help", "emergency", "urgent", "crisis", "scared", "panic", "desperate"}},
	{"educational", []string{"learn", "explain", "teach", "understand", "how does", "what is"}},
	{"emotional_support", []string{"sad", "upset", "worried", "anxious", "depressed", "hurt"}},
	{"playful", []string{"lol", "haha", "funny", "joke", "silly", "fun", "game"}},
	{"serious", []string{"important", "serious", "formal", "business", "official"}},
}

// Time-of-day / calendar context.
var timeRules = []rule{
	{"morning", []string{"morning", "breakfast", "wake up", "start day"}},
	{"evening", []string{"evening", "night", "dinner", "tired", "end of day"}},
	{"weekend", []string{"weekend", "saturday", "sunday", "relax"}},
	{"holiday", []string{"holiday", "vacation", "christmas", "birthday"}},
}

// Trait categories. Unlike the other tables, traits are scored by match
// count and the top two win; table order breaks ties.
var traitRules = []rule{
	{"empathy", []string{"understand", "feel", "emotion", "support", "care", "comfort"}},
	{"analytical", []string{"analyze", "think", "logic", "reason", "calculate", "data"}},
	{"creative", []string{"create", "imagine", "art", "design", "innovative", "original"}},
	{"adventurous", []string{"adventure", "explore", "travel", "risk", "exciting", "journey"}},
	{"scientific", []string{"research", "study", "experiment", "science", "theory", "hypothesis"}},
	{"philosophical", []string{"meaning", "purpose", "existence", "philosophy", "profound"}},
	{"humorous", []string{"funny", "joke", "laugh", "humor", "wit", "amusing"}},
	{"protective", []string{"protect", "safe", "security", "guard", "defend", "shield"}},
	{"curious", []string{"wonder", "question", "curious", "investigate", "discover", "learn"}},
}

// Semantic keys for fact grouping, checked before the generic word fallback.
type semanticRule struct {
	tag   string
	match func(lower string) bool
}

var semanticRules = []semanticRule{
	{"pet_name", func(s string) bool {
		return (containsKeyword(s, "cat") || containsKeyword(s, "dog") || containsKeyword(s, "pet")) &&
			containsKeyword(s, "name")
	}},
	{"favorite_color", func(s string) bool {
		return containsKeyword(s, "favorite color") || containsKeyword(s, "like color")
	}},
	{"user_name", func(s string) bool {
		return containsKeyword(s, "my name is") || containsKeyword(s, "i am called")
	}},
	{"user_location", func(s string) bool {
		return containsKeyword(s, "live in") || containsKeyword(s, "from") || containsKeyword(s, "location")
	}},
}

// stopWords are excluded from semantic keys and keyword metadata.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "him": true, "his": true, "how": true, "its": true,
	"may": true, "new": true, "now": true, "old": true, "see": true,
	"two": true, "way": true, "who": true, "did": true, "get": true,
	"let": true, "say": true, "she": true, "too": true, "use": true,
	"that": true, "with": true, "have": true, "this": true, "will": true,
	"your": true, "from": true, "they": true, "been": true, "were": true,
	"said": true, "each": true, "them": true, "then": true, "than": true,
	"some": true, "what": true, "when": true, "just": true, "like": true,
	"about": true, "there": true, "their": true, "would": true, "really": true,
}
