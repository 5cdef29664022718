package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northledger/advisor-agent/internal/slots"
)

func testService(t *testing.T) *Service {
	t.Helper()
	svc, err := newService(nil, Options{CalendarID: "advisor@example.com"}, nil)
	require.NoError(t, err)
	return svc
}

func TestOptionsDefaults(t *testing.T) {
	svc := testService(t)

	assert.Equal(t, "Asia/Kolkata", svc.opts.TimezoneID)
	assert.Equal(t, "IST", svc.opts.TimezoneLabel)
	assert.Equal(t, 14, svc.opts.LookaheadDays)
	assert.Equal(t, 9, svc.opts.BusinessStart)
	assert.Equal(t, 17, svc.opts.BusinessEnd)
	assert.Equal(t, 30, svc.opts.SlotDurationMins)
}

func TestWeekdayAllowed(t *testing.T) {
	svc := testService(t)

	assert.True(t, svc.weekdayAllowed(time.Tuesday))
	assert.True(t, svc.weekdayAllowed(time.Saturday))
	assert.False(t, svc.weekdayAllowed(time.Sunday))
	assert.False(t, svc.weekdayAllowed(time.Monday))
}

func TestUnknownTimezoneRejected(t *testing.T) {
	_, err := newService(nil, Options{CalendarID: "x", TimezoneID: "Mars/Olympus"}, nil)
	assert.Error(t, err)
}

func TestOverlapsAny(t *testing.T) {
	loc := time.UTC
	at := func(h, m int) time.Time { return time.Date(2026, 2, 10, h, m, 0, 0, loc) }
	busy := []interval{{start: at(10, 0), end: at(11, 0)}}

	assert.True(t, overlapsAny(busy, at(10, 0), at(10, 30)))
	assert.True(t, overlapsAny(busy, at(10, 30), at(11, 0)))
	assert.True(t, overlapsAny(busy, at(9, 45), at(10, 15)), "partial overlap at the front")
	assert.False(t, overlapsAny(busy, at(9, 30), at(10, 0)), "touching intervals do not overlap")
	assert.False(t, overlapsAny(busy, at(11, 0), at(11, 30)))
}

func TestHoldSummaryCarriesCode(t *testing.T) {
	summary := holdSummary("SIP/Mandates", "NL-A742")
	assert.Equal(t, "[TENTATIVE] Advisor slot: SIP/Mandates (NL-A742)", summary)
}

func TestSlotTimes(t *testing.T) {
	svc := testService(t)

	start, end, err := svc.slotTimes(slots.Slot{Date: "2026-02-10", Time: "14:00", Timezone: "IST"})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-10T14:00:00", start.Format("2006-01-02T15:04:05"))
	assert.Equal(t, 30*time.Minute, end.Sub(start))
	assert.Equal(t, "Asia/Kolkata", start.Location().String())
}

func TestSlotTimesRejectsGarbage(t *testing.T) {
	svc := testService(t)
	_, _, err := svc.slotTimes(slots.Slot{Date: "someday", Time: "noon"})
	assert.Error(t, err)
}
