package conversation

import "github.com/northledger/advisor-agent/internal/slots"

// State identifies where a session is in the dialog flow.
type State string

const (
	StateGreeting          State = "greeting"
	StateDisclaimer        State = "disclaimer"
	StateIntentConfirm     State = "intent_confirmation"
	StateTopicCollection   State = "topic_collection"
	StateDatetimeCollect   State = "datetime_collection"
	StateSlotOffer         State = "slot_offer"
	StateConfirmation      State = "confirmation"
	StateBookingComplete   State = "booking_complete"
	StateRescheduleAskCode State = "reschedule_ask_code"
	StateCancelAskCode     State = "cancel_ask_code"
	StateCancelConfirm     State = "cancel_confirm"
)

// Context is the mutable per-session record the state machine threads through
// every turn. One session owns exactly one Context for its whole lifetime.
//
// BookingCode is set only when a new booking completes; ExistingBookingCode
// only when the flow references a pre-existing booking (reschedule/cancel).
// A completed action never carries both.
type Context struct {
	Intent                Intent       `json:"intent"`
	TopicLabel            string       `json:"topic_label,omitempty"`
	PreferredDatetimeText string       `json:"preferred_datetime_text,omitempty"`
	OfferedSlots          []slots.Slot `json:"offered_slots,omitempty"`
	ChosenSlotIndex       int          `json:"chosen_slot_index"` // -1 when unset
	BookingCode           string       `json:"booking_code,omitempty"`
	ExistingBookingCode   string       `json:"existing_booking_code,omitempty"`
}

// NewContext returns an empty context with the index sentinel set.
func NewContext() Context {
	return Context{ChosenSlotIndex: -1}
}

// ChosenSlot returns the slot the user picked, if a valid pick exists.
func (c Context) ChosenSlot() (slots.Slot, bool) {
	if c.ChosenSlotIndex < 0 || c.ChosenSlotIndex >= len(c.OfferedSlots) {
		return slots.Slot{}, false
	}
	return c.OfferedSlots[c.ChosenSlotIndex], true
}

// AgentTurn is the outcome of one Step call: the reply to render, the state
// after the transition, and a snapshot of the context.
type AgentTurn struct {
	Text         string       `json:"text"`
	State        State        `json:"state"`
	Context      Context      `json:"context"`
	IntentResult IntentResult `json:"intent_result"`
}
