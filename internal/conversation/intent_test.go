package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEmptyReturnsNone(t *testing.T) {
	c := NewKeywordClassifier(nil)
	for _, text := range []string{"", "   ", "\t\n"} {
		r := c.Classify(text)
		assert.Equal(t, IntentNone, r.Intent, "input %q", text)
		assert.Zero(t, r.Confidence)
	}
}

func TestClassifyBookNew(t *testing.T) {
	c := NewKeywordClassifier(nil)
	for _, text := range []string{"I want to book an appointment", "book a slot", "schedule a meeting"} {
		r := c.Classify(text)
		assert.Equal(t, IntentBookNew, r.Intent, "input %q", text)
		assert.Greater(t, r.Confidence, 0.0)
	}
}

func TestClassifyReschedule(t *testing.T) {
	c := NewKeywordClassifier(nil)
	// Phrases that avoid keywords shared with book_new ("schedule" is a
	// substring of "reschedule").
	for _, text := range []string{"move to different time", "I want to postpone"} {
		r := c.Classify(text)
		assert.Equal(t, IntentReschedule, r.Intent, "input %q", text)
	}
}

func TestClassifyCancel(t *testing.T) {
	c := NewKeywordClassifier(nil)
	// "remove" contains "move"; abort/delete are the unambiguous phrasings.
	for _, text := range []string{"abort", "delete"} {
		r := c.Classify(text)
		assert.Equal(t, IntentCancel, r.Intent, "input %q", text)
	}
}

func TestClassifyPrepareAndAvailability(t *testing.T) {
	c := NewKeywordClassifier(nil)
	assert.Equal(t, IntentPrepare, c.Classify("what to bring").Intent)
	assert.Equal(t, IntentPrepare, c.Classify("documents needed").Intent)
	assert.Equal(t, IntentAvailability, c.Classify("open times").Intent)
	assert.Equal(t, IntentAvailability, c.Classify("availability").Intent)
}

func TestClassifyConfidenceLadder(t *testing.T) {
	c := NewKeywordClassifier(nil)
	assert.Equal(t, 0.4, c.Classify("book").Confidence)
	assert.Equal(t, 0.7, c.Classify("book an appointment").Confidence)
	assert.Equal(t, 0.9, c.Classify("book appointment slot").Confidence)
}

func TestClassifyConfidenceAlwaysOnLadder(t *testing.T) {
	c := NewKeywordClassifier(nil)
	ladder := map[float64]bool{0.0: true, 0.4: true, 0.7: true, 0.9: true}
	inputs := []string{
		"", "gibberish", "book", "book a slot now", "schedule appointment slot meeting",
		"cancel everything", "12345", "    yes    ",
	}
	for _, text := range inputs {
		r := c.Classify(text)
		assert.True(t, ladder[r.Confidence], "confidence %v off ladder for %q", r.Confidence, text)
	}
}

func TestClassifyTieKeepsFirstIntent(t *testing.T) {
	c := NewKeywordClassifier([]IntentKeywords{
		{Intent("alpha"), []string{"shared"}},
		{Intent("beta"), []string{"shared"}},
	})
	r := c.Classify("a shared keyword")
	assert.Equal(t, Intent("alpha"), r.Intent)
}

func TestClassifyRawTextPreserved(t *testing.T) {
	c := NewKeywordClassifier(nil)
	text := "  Book a slot please  "
	assert.Equal(t, text, c.Classify(text).RawText)
}

func TestClassifyCustomIntents(t *testing.T) {
	c := NewKeywordClassifier([]IntentKeywords{
		{Intent("greet"), []string{"hello", "hi"}},
		{Intent("bye"), []string{"goodbye", "bye"}},
	})
	assert.Equal(t, Intent("greet"), c.Classify("hello there").Intent)
	assert.Equal(t, Intent("bye"), c.Classify("goodbye").Intent)
}
