package conversation

import "strings"

// Intent is the user's high-level goal for the session.
type Intent string

const (
	IntentNone         Intent = ""
	IntentBookNew      Intent = "book_new"
	IntentReschedule   Intent = "reschedule"
	IntentCancel       Intent = "cancel"
	IntentPrepare      Intent = "prepare"
	IntentAvailability Intent = "availability"
)

// IntentResult is the classifier's verdict for one utterance. RawText echoes
// the input verbatim.
type IntentResult struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	RawText    string  `json:"raw_text"`
}

// IntentClassifier maps free text to an intent. The keyword classifier below
// is the default; anything honoring this contract (same intent vocabulary,
// total over all inputs) can be swapped in.
type IntentClassifier interface {
	Classify(text string) IntentResult
}

// IntentKeywords binds one intent to its keyword phrases. The slice order of
// a classifier's tables is significant: the first intent to reach the top
// score wins ties.
type IntentKeywords struct {
	Intent   Intent
	Keywords []string
}

// DefaultIntents is the ordered intent vocabulary.
func DefaultIntents() []IntentKeywords {
	return []IntentKeywords{
		{IntentBookNew, []string{"book", "schedule", "appointment", "slot", "meeting"}},
		{IntentReschedule, []string{"change", "reschedule", "move", "different time", "postpone"}},
		{IntentCancel, []string{"cancel", "delete", "remove", "abort"}},
		{IntentPrepare, []string{"what to bring", "prepare", "documents needed", "what do i need"}},
		{IntentAvailability, []string{"when available", "free slots", "open times", "availability"}},
	}
}

// KeywordClassifier scores intents by counting keyword-phrase substring hits
// in the lowercased input. It never fails: unmatched or empty text yields
// IntentNone with confidence 0.
type KeywordClassifier struct {
	intents []IntentKeywords
}

// NewKeywordClassifier builds a classifier over the given ordered intent
// table, or DefaultIntents when none is given.
func NewKeywordClassifier(intents []IntentKeywords) *KeywordClassifier {
	if len(intents) == 0 {
		intents = DefaultIntents()
	}
	return &KeywordClassifier{intents: intents}
}

// Classify scores every intent and maps the winning hit count onto the fixed
// confidence ladder: 1 match is 0.4, 2 is 0.7, 3 or more is 0.9.
func (c *KeywordClassifier) Classify(text string) IntentResult {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return IntentResult{Intent: IntentNone, Confidence: 0, RawText: text}
	}

	best := IntentNone
	bestScore := 0
	for _, entry := range c.intents {
		score := 0
		for _, kw := range entry.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				score++
			}
		}
		// Strictly-greater keeps the first intent at a given score,
		// making ties deterministic.
		if score > bestScore {
			bestScore = score
			best = entry.Intent
		}
	}

	if bestScore == 0 {
		return IntentResult{Intent: IntentNone, Confidence: 0, RawText: text}
	}

	confidence := 0.9
	switch bestScore {
	case 1:
		confidence = 0.4
	case 2:
		confidence = 0.7
	}
	return IntentResult{Intent: best, Confidence: confidence, RawText: text}
}
