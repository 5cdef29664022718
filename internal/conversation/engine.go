package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/northledger/advisor-agent/internal/slots"
	"github.com/northledger/advisor-agent/pkg/logging"
)

// SlotOfferer computes ranked slot offers for a free-text preference. Backed
// by slots.Offerer in production; tests substitute fixed lists.
type SlotOfferer interface {
	Offer(ctx context.Context, preferredText string) []slots.Slot
}

// CodeGenerator mints a booking code for a newly confirmed booking.
type CodeGenerator func() string

// SessionConfig wires a Session's collaborators. Offerer and GenerateCode
// are required; everything else has defaults.
type SessionConfig struct {
	Offerer       SlotOfferer
	GenerateCode  CodeGenerator
	Classifier    IntentClassifier
	Parser        slots.PreferenceParser
	Topics        []TopicCategory
	Disclaimer    string
	TimezoneLabel string
	// SecureLinkBase prefixes the /complete-booking link in summaries.
	// Empty means a relative link.
	SecureLinkBase string
	Logger         *logging.Logger
}

// Session is one user's conversation: the active state, the context record,
// and the per-state handlers that advance them. A session is single-threaded
// by design; hosts serving many users give each its own Session.
type Session struct {
	state      State
	context    Context
	classifier IntentClassifier
	offerer    SlotOfferer
	parser     slots.PreferenceParser
	topics     []TopicCategory
	generate   CodeGenerator
	disclaimer string
	tzLabel    string
	linkBase   string
	logger     *logging.Logger
}

// NewSession starts a session in the greeting state with an empty context.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Classifier == nil {
		cfg.Classifier = NewKeywordClassifier(nil)
	}
	if len(cfg.Topics) == 0 {
		cfg.Topics = DefaultTopics()
	}
	if cfg.TimezoneLabel == "" {
		cfg.TimezoneLabel = "IST"
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Session{
		state:      StateGreeting,
		context:    NewContext(),
		classifier: cfg.Classifier,
		offerer:    cfg.Offerer,
		parser:     cfg.Parser,
		topics:     cfg.Topics,
		generate:   cfg.GenerateCode,
		disclaimer: cfg.Disclaimer,
		tzLabel:    cfg.TimezoneLabel,
		linkBase:   cfg.SecureLinkBase,
		logger:     cfg.Logger,
	}
}

// State returns the current dialog state.
func (s *Session) State() State { return s.state }

// Context returns a snapshot of the session context.
func (s *Session) Context() Context { return s.context }

// Step advances the conversation by exactly one transition. It is total over
// all inputs: unrecognized text re-prompts in place and never errors.
func (s *Session) Step(ctx context.Context, userText string) AgentTurn {
	ir := s.classifier.Classify(userText)

	// The classifier's guess only lands while the user is still choosing
	// what to do, and never once an existing booking code is on file: a
	// stray "book" mid-reschedule must not silently turn the flow into a
	// new booking.
	if ir.Intent != IntentNone && s.context.ExistingBookingCode == "" {
		switch s.state {
		case StateGreeting, StateDisclaimer, StateIntentConfirm:
			s.context.Intent = ir.Intent
		}
	}

	var turn AgentTurn
	switch s.state {
	case StateGreeting:
		turn = s.handleGreeting()
	case StateDisclaimer:
		turn = s.handleDisclaimer(userText)
	case StateIntentConfirm:
		turn = s.handleIntentConfirmation(userText, ir)
	case StateTopicCollection:
		turn = s.handleTopic(userText)
	case StateDatetimeCollect:
		turn = s.handleDatetime(ctx, userText)
	case StateSlotOffer:
		turn = s.handleSlotChoice(ctx, userText)
	case StateConfirmation:
		turn = s.handleConfirmation(userText)
	case StateRescheduleAskCode:
		turn = s.handleRescheduleAskCode(userText)
	case StateCancelAskCode:
		turn = s.handleCancelAskCode(userText)
	case StateCancelConfirm:
		turn = s.handleCancelConfirm(userText)
	case StateBookingComplete:
		turn = s.reply(s.summarize())
	default:
		s.state = StateGreeting
		turn = s.reply("Sorry, something went wrong. Let's start again. What would you like help with today?")
	}

	turn.IntentResult = ir
	s.logger.Debug("turn advanced", "state", string(turn.State), "intent", string(s.context.Intent))
	return turn
}

// reply builds an AgentTurn for the current state and context.
func (s *Session) reply(text string) AgentTurn {
	return AgentTurn{Text: text, State: s.state, Context: s.context}
}

func containsAny(lowered string, tokens ...string) bool {
	for _, tok := range tokens {
		if strings.Contains(lowered, tok) {
			return true
		}
	}
	return false
}

func (s *Session) handleGreeting() AgentTurn {
	s.state = StateDisclaimer
	text := "Hello, you're speaking with the Advisor Appointment Assistant. " +
		"I can help you book, reschedule, or cancel an advisor slot, and share what to prepare.\n\n" +
		"Before we begin, I must share a short disclaimer:\n" + s.disclaimer + "\n\n" +
		"Shall we continue?"
	return s.reply(text)
}

func (s *Session) handleDisclaimer(userText string) AgentTurn {
	lowered := strings.ToLower(userText)
	if !containsAny(lowered, "yes", "yeah", "ok", "sure", "continue", "go ahead") {
		return s.reply("No problem. When you're ready, just say you'd like to continue with booking or questions.")
	}
	s.state = StateIntentConfirm
	text := "Great. What would you like to do today?\n\n" +
		"• **Book a new advisor slot** — I'll collect your topic and preferred time, then offer two slots.\n" +
		"• **Reschedule** — Change an existing booking (you'll need your booking code).\n" +
		"• **Cancel** — Cancel an existing booking (you'll need your booking code).\n\n" +
		"Please say: book new, reschedule, or cancel."
	return s.reply(text)
}

func (s *Session) handleIntentConfirmation(userText string, ir IntentResult) AgentTurn {
	lowered := strings.ToLower(strings.TrimSpace(userText))

	var intent Intent
	switch {
	// Cancel tokens first so "cancel" never reads as reschedule.
	case containsAny(lowered, "cancel", "abort", "delete", "remove"):
		intent = IntentCancel
	case containsAny(lowered, "reschedule", "change booking", "move my slot", "postpone", "different time"):
		intent = IntentReschedule
	case ir.Intent == IntentBookNew || containsAny(lowered, "book", "new slot", "appointment", "schedule a", "book a"):
		intent = IntentBookNew
	default:
		intent = ir.Intent
		if intent == IntentNone && containsAny(lowered, "schedule", "slot", "meeting") {
			intent = IntentBookNew
		}
	}

	switch intent {
	case IntentBookNew:
		s.context.Intent = IntentBookNew
		s.state = StateTopicCollection
		return s.reply("I'll help you book a new advisor slot. What would you like to discuss with the advisor?\n" +
			"For example: KYC/Onboarding, SIP/Mandates, Statements/Tax Docs, Withdrawals & Timelines, or Account Changes/Nominee.")
	case IntentReschedule:
		s.context.Intent = IntentReschedule
		s.state = StateRescheduleAskCode
		return s.reply("I'll help you reschedule. Please have your booking code ready—it looks like NL-A742. What is your booking code?")
	case IntentCancel:
		s.context.Intent = IntentCancel
		s.state = StateCancelAskCode
		return s.reply("I'll help you cancel your booking. Please tell me your booking code (for example, NL-A742).")
	}

	return s.reply("I didn't catch that. What would you like to do?\n\n" +
		"• Say **book new** to book a new advisor slot.\n" +
		"• Say **reschedule** to change an existing booking.\n" +
		"• Say **cancel** to cancel an existing booking.")
}

func (s *Session) handleTopic(userText string) AgentTurn {
	label, ok := DetectTopic(userText, s.topics)
	if !ok {
		return s.reply("I didn't quite catch the topic. Please choose one of these:\n" +
			"- KYC/Onboarding\n- SIP/Mandates\n- Statements/Tax Docs\n- Withdrawals & Timelines\n- Account Changes/Nominee")
	}

	s.context.TopicLabel = label
	s.state = StateDatetimeCollect
	return s.reply(fmt.Sprintf(
		"Got it, we'll discuss **%s**.\n\n"+
			"You can book a slot, if available, **Tuesday through Saturday, between 9am and 5pm** (%s). "+
			"On which day and roughly what time would you prefer to speak with the advisor?",
		label, s.tzLabel))
}

func (s *Session) handleRescheduleAskCode(userText string) AgentTurn {
	code := strings.TrimSpace(userText)
	if code == "" {
		return s.reply("Please tell me your booking code (for example, NL-A742).")
	}
	s.context.ExistingBookingCode = code
	s.state = StateDatetimeCollect
	return s.reply(fmt.Sprintf(
		"Thanks. To which date and time would you like to reschedule? "+
			"You can book a slot, if available, **Tuesday through Saturday, between 9am and 5pm** (%s).", s.tzLabel))
}

func (s *Session) handleCancelAskCode(userText string) AgentTurn {
	code := strings.TrimSpace(userText)
	if code == "" {
		return s.reply("Please tell me your booking code (for example, NL-A742).")
	}
	s.context.ExistingBookingCode = code
	s.state = StateCancelConfirm
	return s.reply(fmt.Sprintf("I'll cancel the booking for code **%s**. Confirm cancellation? Say yes or no.", code))
}

func (s *Session) handleCancelConfirm(userText string) AgentTurn {
	lowered := strings.ToLower(userText)
	if containsAny(lowered, "yes", "yeah", "confirm", "go ahead", "cancel", "sure", "ok") {
		code := s.context.ExistingBookingCode
		if code == "" {
			code = "your booking"
		}
		s.state = StateBookingComplete
		return s.reply(fmt.Sprintf("Cancellation recorded for **%s**. You will receive a confirmation. Anything else?", code))
	}
	if containsAny(lowered, "no", "don't", "do not") {
		s.state = StateIntentConfirm
		return s.reply("Cancellation not done. What would you like to do: book new, reschedule, or cancel?")
	}
	return s.reply("Please say yes to confirm cancellation, or no to keep the booking.")
}

func (s *Session) handleDatetime(ctx context.Context, userText string) AgentTurn {
	s.context.PreferredDatetimeText = strings.TrimSpace(userText)

	offered := s.offerer.Offer(ctx, s.context.PreferredDatetimeText)
	s.context.OfferedSlots = offered
	s.state = StateSlotOffer

	if len(offered) == 0 {
		return s.reply("I couldn't find any open advisor slots matching your preference. " +
			"For now, I can place you on a waitlist and an advisor will reach out when a suitable time opens. " +
			"Would you like to be added to the waitlist?")
	}
	return s.reply("Thanks. Based on your preference, here are two available slots:\n\n" +
		formatSlotOptions(offered) + "\n\n" +
		"Please say 'first' or 'option 1', or 'second' or 'option 2'. If neither works, say 'none'.")
}

func (s *Session) handleSlotChoice(ctx context.Context, userText string) AgentTurn {
	lowered := strings.ToLower(strings.TrimSpace(userText))

	// A re-stated preference ("Friday, 10am") means "different slot": re-run
	// the offer instead of parsing an option pick. The length guard keeps
	// bare picks like "1" out of this branch.
	if pref := s.parser.Parse(userText); !pref.IsZero() && len(lowered) > 2 {
		s.context.PreferredDatetimeText = strings.TrimSpace(userText)
		offered := s.offerer.Offer(ctx, s.context.PreferredDatetimeText)
		s.context.OfferedSlots = offered
		if len(offered) == 0 {
			s.state = StateDatetimeCollect
			return s.reply(fmt.Sprintf(
				"I couldn't find any slots for that day. Tell me another day and time that works for you, in %s.", s.tzLabel))
		}
		return s.reply("No problem. Based on your new preference, here are two available slots:\n\n" +
			formatSlotOptions(offered) + "\n\n" +
			"Please say 'first' or 'option 1', or 'second' or 'option 2'. If neither works, say 'none'.")
	}

	// "none"/"neither" must be checked before the "one" substring match.
	if containsAny(lowered, "none", "neither") {
		s.state = StateBookingComplete
		return s.reply("I understand that none of the suggested slots work for you. " +
			"I'll place a note to add you to the waitlist so an advisor can offer alternatives. " +
			"You won't be booked into any slot right now.")
	}

	var idx int
	switch {
	case containsAny(lowered, "first", "1", "one", "option 1", "slot 1"):
		idx = 0
	case containsAny(lowered, "second", "2", "two", "option 2", "slot 2"):
		idx = 1
	default:
		return s.reply("Please choose one of the options by saying 'first' or 'second'. " +
			"If neither works, say 'none'. Or tell me a different day and time (e.g. Friday, 10am).")
	}

	if idx >= len(s.context.OfferedSlots) {
		s.state = StateDatetimeCollect
		return s.reply("Those options seem to have expired. Let me fetch fresh slots.")
	}

	s.context.ChosenSlotIndex = idx
	chosen := s.context.OfferedSlots[idx]
	s.state = StateConfirmation
	return s.reply(fmt.Sprintf(
		"Just to confirm, I have you for:\n- %s\n\nAll times are in %s. Shall I place a tentative hold for this advisor slot?",
		chosen.Label(), s.tzLabel))
}

func (s *Session) handleConfirmation(userText string) AgentTurn {
	lowered := strings.ToLower(userText)
	if containsAny(lowered, "yes", "yeah", "confirm", "go ahead", "book", "sounds good", "ok", "sure") {
		if s.context.Intent != IntentReschedule {
			// Reschedules keep the existing code; only a new booking mints one.
			s.context.BookingCode = s.generate()
		}
		s.state = StateBookingComplete
		return s.reply(s.summarize())
	}

	if containsAny(lowered, "no", "don't", "do not", "change", "different") {
		s.state = StateDatetimeCollect
		return s.reply(fmt.Sprintf(
			"No problem, we won't book that slot. Tell me another day and approximate time that works for you, in %s.", s.tzLabel))
	}

	return s.reply("Please say 'yes' to confirm this slot, or 'no' to choose another time.")
}

// summarize renders the booking-complete recap. Priority: reschedule with a
// chosen slot, then a fresh booking, then bare reschedule/cancel
// acknowledgments, then the not-booked fallback.
func (s *Session) summarize() string {
	if s.context.Intent == IntentReschedule && s.context.ExistingBookingCode != "" {
		if slot, ok := s.context.ChosenSlot(); ok {
			return fmt.Sprintf(
				"Your booking **%s** has been rescheduled to %s.\n\nAll times are in %s. Anything else?",
				s.context.ExistingBookingCode, slot.Label(), s.tzLabel)
		}
	}

	if s.context.BookingCode != "" {
		if slot, ok := s.context.ChosenSlot(); ok {
			topic := s.context.TopicLabel
			if topic == "" {
				topic = "Advisor Q&A"
			}
			secureLink := s.linkBase + "/complete-booking/" + s.context.BookingCode
			return fmt.Sprintf(
				"Your tentative advisor slot is booked.\n\n"+
					"- Topic: %s\n- Slot: %s\n- Booking code: %s\n\n"+
					"Please note: this is a tentative hold. To securely share your contact details and any documents, "+
					"use the secure link we provide:\n%s\n\n"+
					"All times are in %s. You can mention your booking code when you contact support.",
				topic, slot.Label(), s.context.BookingCode, secureLink, s.tzLabel)
		}
	}

	if s.context.Intent == IntentReschedule && s.context.ExistingBookingCode != "" {
		return fmt.Sprintf(
			"Your reschedule request for booking code **%s** has been noted. "+
				"An advisor will reach out with new slot options. Anything else?", s.context.ExistingBookingCode)
	}
	if s.context.Intent == IntentCancel && s.context.ExistingBookingCode != "" {
		return fmt.Sprintf("Cancellation for **%s** has been recorded. Anything else?", s.context.ExistingBookingCode)
	}
	return "You are not currently booked into a specific slot. " +
		"If you'd like, we can look at more times or place you on a waitlist."
}

func formatSlotOptions(offered []slots.Slot) string {
	lines := make([]string, 0, len(offered))
	for i, slot := range offered {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, slot.Label()))
	}
	return strings.Join(lines, "\n")
}
