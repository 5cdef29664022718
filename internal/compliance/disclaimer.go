package compliance

import (
	"github.com/northledger/advisor-agent/pkg/logging"
)

// DisclaimerLevel represents the verbosity of the disclaimer.
type DisclaimerLevel string

const (
	// DisclaimerShort is the shortest disclaimer.
	DisclaimerShort DisclaimerLevel = "short"
	// DisclaimerFull is the comprehensive disclaimer.
	DisclaimerFull DisclaimerLevel = "full"
)

// Disclaimer templates
const (
	disclaimerShortText = "Informational only. Not investment advice."

	disclaimerFullText = "This is for informational purposes only and does not constitute investment advice. " +
		"Please consult a qualified advisor for decisions."
)

// DisclaimerConfig configures the disclaimer service.
type DisclaimerConfig struct {
	// Level determines which disclaimer template to use.
	Level DisclaimerLevel
	// CustomText overrides the default template.
	CustomText string
}

// DisclaimerService owns the compliance disclaimer every session must hear
// before intent collection begins.
type DisclaimerService struct {
	config DisclaimerConfig
	logger *logging.Logger
}

// NewDisclaimerService creates a new disclaimer service.
func NewDisclaimerService(config DisclaimerConfig, logger *logging.Logger) *DisclaimerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DisclaimerService{config: config, logger: logger}
}

// Text returns the disclaimer text for the configured level.
func (s *DisclaimerService) Text() string {
	if s.config.CustomText != "" {
		return s.config.CustomText
	}
	if s.config.Level == DisclaimerShort {
		return disclaimerShortText
	}
	return disclaimerFullText
}

// RecordDelivered writes an audit log entry for a disclaimer shown to a
// session. The log stream is the audit trail; there is no database.
func (s *DisclaimerService) RecordDelivered(sessionID string) {
	s.logger.Info("disclaimer delivered",
		"session_id", sessionID,
		"level", string(s.config.Level),
	)
}
