package booking

import (
	"context"
	"fmt"

	"github.com/northledger/advisor-agent/internal/conversation"
	"github.com/northledger/advisor-agent/internal/slots"
	"github.com/northledger/advisor-agent/pkg/logging"
)

// Calendar is the slice of the calendar adapter the sink needs.
type Calendar interface {
	CreateTentativeHold(ctx context.Context, topic, bookingCode string, slot slots.Slot) error
	FindEventByCode(ctx context.Context, bookingCode string) (eventID string, err error)
	MoveEvent(ctx context.Context, eventID string, slot slots.Slot) error
	DeleteEvent(ctx context.Context, eventID string) error
}

// Ledger is the spreadsheet pre-bookings log.
type Ledger interface {
	AppendRow(ctx context.Context, bookingCode, topic, slotLabel, status, source string) error
	UpdateRowForReschedule(ctx context.Context, bookingCode, newSlotLabel, newStatus string) error
	UpdateRowStatus(ctx context.Context, bookingCode, newStatus string) error
}

// Notifier tells the advisor about a new pre-booking.
type Notifier interface {
	NotifyAdvisor(ctx context.Context, bookingCode, topic, slotLabel string) error
}

// rowSource tags ledger rows written by this agent.
const rowSource = "advisor_agent"

// StepResult is one collaborator's outcome.
type StepResult struct {
	OK      bool
	Message string
}

// Result aggregates the collaborator outcomes of one completion hook.
// Collaborator failures are collected, never raised: the conversation has
// already completed from the user's point of view.
type Result struct {
	Calendar StepResult
	Ledger   StepResult
	Errors   []string
}

// AllOK reports whether every collaborator step succeeded or was skipped.
func (r Result) AllOK() bool {
	return r.Calendar.OK && r.Ledger.OK
}

func skipped() StepResult { return StepResult{OK: true, Message: "skipped"} }

// Sink turns terminal conversation transitions into calendar and ledger
// mutations. Any nil collaborator is simply skipped, which is how the agent
// runs before credentials are configured.
type Sink struct {
	calendar Calendar
	ledger   Ledger
	notifier Notifier
	logger   *logging.Logger
}

// NewSink wires the completion sink.
func NewSink(calendar Calendar, ledger Ledger, notifier Notifier, logger *logging.Logger) *Sink {
	if logger == nil {
		logger = logging.Default()
	}
	return &Sink{calendar: calendar, ledger: ledger, notifier: notifier, logger: logger}
}

// OnBookingComplete creates the tentative calendar hold, appends the ledger
// row, and notifies the advisor. A context without a fresh booking code and
// chosen slot is a no-op.
func (s *Sink) OnBookingComplete(ctx context.Context, conv conversation.Context) Result {
	result := Result{Calendar: skipped(), Ledger: skipped()}
	slot, ok := conv.ChosenSlot()
	if conv.BookingCode == "" || !ok {
		return result
	}

	topic := conv.TopicLabel
	if topic == "" {
		topic = "Advisor Q&A"
	}

	if s.calendar != nil {
		if err := s.calendar.CreateTentativeHold(ctx, topic, conv.BookingCode, slot); err != nil {
			result.Calendar = StepResult{OK: false, Message: fmt.Sprintf("calendar hold failed: %v", err)}
			result.Errors = append(result.Errors, result.Calendar.Message)
		} else {
			result.Calendar = StepResult{OK: true, Message: "tentative hold created"}
		}
	}

	if s.ledger != nil {
		if err := s.ledger.AppendRow(ctx, conv.BookingCode, topic, slot.Label(), "tentative", rowSource); err != nil {
			result.Ledger = StepResult{OK: false, Message: fmt.Sprintf("ledger append failed: %v", err)}
			result.Errors = append(result.Errors, result.Ledger.Message)
		} else {
			result.Ledger = StepResult{OK: true, Message: "pre-booking row appended"}
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyAdvisor(ctx, conv.BookingCode, topic, slot.Label()); err != nil {
			// Advisor notification is best-effort; record but don't fail.
			s.logger.Warn("advisor notification failed", "booking_code", conv.BookingCode, "error", err)
		}
	}

	s.logger.Info("booking recorded", "booking_code", conv.BookingCode, "topic", topic, "slot", slot.Label())
	return result
}

// OnRescheduleComplete moves the existing calendar event to the new slot and
// updates the existing ledger row in place. When the row cannot be found, an
// audit row is appended instead so the reschedule still leaves a trail.
func (s *Sink) OnRescheduleComplete(ctx context.Context, conv conversation.Context) Result {
	result := Result{Calendar: skipped(), Ledger: skipped()}
	slot, ok := conv.ChosenSlot()
	if conv.Intent != conversation.IntentReschedule || conv.ExistingBookingCode == "" || !ok {
		return result
	}

	topic := conv.TopicLabel
	if topic == "" {
		topic = "Advisor Q&A"
	}

	if s.calendar != nil {
		eventID, err := s.calendar.FindEventByCode(ctx, conv.ExistingBookingCode)
		switch {
		case err != nil:
			result.Calendar = StepResult{OK: false, Message: fmt.Sprintf("calendar lookup failed: %v", err)}
		case eventID == "":
			result.Calendar = StepResult{OK: false, Message: "booking code not found on calendar"}
		default:
			if err := s.calendar.MoveEvent(ctx, eventID, slot); err != nil {
				result.Calendar = StepResult{OK: false, Message: fmt.Sprintf("calendar update failed: %v", err)}
			} else {
				result.Calendar = StepResult{OK: true, Message: "event moved to new slot"}
			}
		}
		if !result.Calendar.OK {
			result.Errors = append(result.Errors, result.Calendar.Message)
		}
	}

	if s.ledger != nil {
		if err := s.ledger.UpdateRowForReschedule(ctx, conv.ExistingBookingCode, slot.Label(), "rescheduled"); err != nil {
			result.Ledger = StepResult{OK: false, Message: fmt.Sprintf("ledger update failed: %v", err)}
			result.Errors = append(result.Errors, result.Ledger.Message)
			// The original row may predate the ledger; append so the
			// reschedule is still recorded.
			if appendErr := s.ledger.AppendRow(ctx, conv.ExistingBookingCode, topic, slot.Label(), "rescheduled", rowSource); appendErr == nil {
				result.Ledger = StepResult{OK: true, Message: "reschedule appended (original row not found)"}
			}
		} else {
			result.Ledger = StepResult{OK: true, Message: "existing row updated to new slot"}
		}
	}

	s.logger.Info("reschedule recorded", "booking_code", conv.ExistingBookingCode, "slot", slot.Label())
	return result
}

// OnCancelComplete deletes the calendar event and marks the ledger row
// cancelled. A context without a cancel intent and existing code is a no-op.
func (s *Sink) OnCancelComplete(ctx context.Context, conv conversation.Context) Result {
	result := Result{Calendar: skipped(), Ledger: skipped()}
	if conv.Intent != conversation.IntentCancel || conv.ExistingBookingCode == "" {
		return result
	}

	if s.calendar != nil {
		eventID, err := s.calendar.FindEventByCode(ctx, conv.ExistingBookingCode)
		switch {
		case err != nil:
			result.Calendar = StepResult{OK: false, Message: fmt.Sprintf("calendar lookup failed: %v", err)}
		case eventID == "":
			result.Calendar = StepResult{OK: false, Message: "booking code not found on calendar"}
		default:
			if err := s.calendar.DeleteEvent(ctx, eventID); err != nil {
				result.Calendar = StepResult{OK: false, Message: fmt.Sprintf("calendar delete failed: %v", err)}
			} else {
				result.Calendar = StepResult{OK: true, Message: "event deleted"}
			}
		}
		if !result.Calendar.OK {
			result.Errors = append(result.Errors, result.Calendar.Message)
		}
	}

	if s.ledger != nil {
		if err := s.ledger.UpdateRowStatus(ctx, conv.ExistingBookingCode, "cancelled"); err != nil {
			result.Ledger = StepResult{OK: false, Message: fmt.Sprintf("ledger update failed: %v", err)}
			result.Errors = append(result.Errors, result.Ledger.Message)
		} else {
			result.Ledger = StepResult{OK: true, Message: "row marked cancelled"}
		}
	}

	s.logger.Info("cancellation recorded", "booking_code", conv.ExistingBookingCode)
	return result
}
