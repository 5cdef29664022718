package notify

import (
	"context"
	"fmt"

	"github.com/northledger/advisor-agent/pkg/logging"
)

// AdvisorNotifier composes and sends the advisor's pre-booking heads-up.
// It implements booking.Notifier.
type AdvisorNotifier struct {
	sender       EmailSender
	advisorEmail string
	logger       *logging.Logger
}

// NewAdvisorNotifier wires the notifier. With a nil sender or empty advisor
// address, notifications become logged no-ops.
func NewAdvisorNotifier(sender EmailSender, advisorEmail string, logger *logging.Logger) *AdvisorNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdvisorNotifier{sender: sender, advisorEmail: advisorEmail, logger: logger}
}

// NotifyAdvisor emails the advisor about a new pre-booking.
func (n *AdvisorNotifier) NotifyAdvisor(ctx context.Context, bookingCode, topic, slotLabel string) error {
	if n.sender == nil || n.advisorEmail == "" {
		n.logger.Info("advisor notification skipped: email not configured", "booking_code", bookingCode)
		return nil
	}

	msg := EmailMessage{
		To:      n.advisorEmail,
		ToName:  "Advisor",
		Subject: fmt.Sprintf("New pre-booking %s: %s", bookingCode, topic),
		Body: fmt.Sprintf(
			"A new tentative advisor slot was pre-booked.\n\n"+
				"Booking code: %s\nTopic: %s\nSlot: %s\n\n"+
				"The client's contact details arrive separately via the secure link.",
			bookingCode, topic, slotLabel),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: advisor notification failed: %w", err)
	}
	return nil
}
