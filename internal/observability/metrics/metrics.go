package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters for the appointment dialog flow.
type ConversationMetrics struct {
	turnsTotal       *prometheus.CounterVec
	completionsTotal *prometheus.CounterVec
	offersTotal      *prometheus.CounterVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisor",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total dialog turns by resulting state",
		}, []string{"state"}),
		completionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisor",
			Subsystem: "conversation",
			Name:      "completions_total",
			Help:      "Completed bookings, reschedules, and cancellations",
		}, []string{"kind"}),
		offersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisor",
			Subsystem: "conversation",
			Name:      "slot_offers_total",
			Help:      "Slot offers by outcome (offered or waitlist)",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.completionsTotal, m.offersTotal)
	return m
}

func (m *ConversationMetrics) ObserveTurn(state string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(state).Inc()
}

// ObserveCompletion counts a terminal outcome; kind is one of
// "booking", "reschedule", "cancellation".
func (m *ConversationMetrics) ObserveCompletion(kind string) {
	if m == nil {
		return
	}
	m.completionsTotal.WithLabelValues(kind).Inc()
}

func (m *ConversationMetrics) ObserveOffer(matched bool) {
	if m == nil {
		return
	}
	outcome := "waitlist"
	if matched {
		outcome = "offered"
	}
	m.offersTotal.WithLabelValues(outcome).Inc()
}
