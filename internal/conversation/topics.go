package conversation

import "strings"

// TopicCategory is one entry of the advisory topic taxonomy. Like the intent
// table, the slice order is the match order.
type TopicCategory struct {
	Label    string
	Keywords []string
}

// DefaultTopics is the five-category advisory taxonomy.
func DefaultTopics() []TopicCategory {
	return []TopicCategory{
		{"KYC/Onboarding", []string{"kyc", "onboarding", "verification", "documents", "identity"}},
		{"SIP/Mandates", []string{"sip", "mandate", "systematic", "recurring", "auto-debit"}},
		{"Statements/Tax Docs", []string{"statement", "tax", "form 16", "capital gains", "annual statement"}},
		{"Withdrawals & Timelines", []string{"withdraw", "redeem", "timeline", "when will i get", "payout"}},
		{"Account Changes/Nominee", []string{"change", "nominee", "bank details", "update", "modify"}},
	}
}

// DetectTopic returns the label of the first category with a keyword present
// in the text, case-insensitively.
func DetectTopic(text string, topics []TopicCategory) (string, bool) {
	lowered := strings.ToLower(text)
	for _, topic := range topics {
		for _, kw := range topic.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return topic.Label, true
			}
		}
	}
	return "", false
}
