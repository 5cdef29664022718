package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestConversationMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConversationMetrics(reg)

	m.ObserveTurn("slot_offer")
	m.ObserveTurn("slot_offer")
	m.ObserveCompletion("booking")
	m.ObserveOffer(true)
	m.ObserveOffer(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.turnsTotal.WithLabelValues("slot_offer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completionsTotal.WithLabelValues("booking")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.offersTotal.WithLabelValues("offered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.offersTotal.WithLabelValues("waitlist")))
}

func TestConversationMetricsNilSafe(t *testing.T) {
	var m *ConversationMetrics
	m.ObserveTurn("greeting")
	m.ObserveCompletion("cancellation")
	m.ObserveOffer(true)
}
