package slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Feb 2026: 10=Tue, 11=Wed, 12=Thu, 13=Fri, 14=Sat.
func testSource() *StaticSource {
	return NewStaticSource([]Slot{
		{Date: "2026-02-10", Time: "10:00", Timezone: "IST"},
		{Date: "2026-02-10", Time: "14:00", Timezone: "IST"},
		{Date: "2026-02-11", Time: "11:00", Timezone: "IST"},
		{Date: "2026-02-12", Time: "09:30", Timezone: "IST"},
		{Date: "2026-02-13", Time: "10:00", Timezone: "IST"},
		{Date: "2026-02-13", Time: "15:00", Timezone: "IST"},
		{Date: "2026-02-14", Time: "12:00", Timezone: "IST"},
	})
}

func newTestOfferer(src Source) *Offerer {
	return NewOfferer(src, PreferenceParser{ReferenceYear: 2026}, nil)
}

type failingSource struct{}

func (failingSource) ListOfferableSlots(context.Context) ([]Slot, error) {
	return nil, errors.New("calendar unreachable")
}

func TestOfferNoPreferenceReturnsUpToTwo(t *testing.T) {
	offered := newTestOfferer(testSource()).Offer(context.Background(), "")
	require.Len(t, offered, 2)
	// (date, time) ascending
	assert.Equal(t, "2026-02-10", offered[0].Date)
	assert.Equal(t, "10:00", offered[0].Time)
	assert.Equal(t, "14:00", offered[1].Time)
}

func TestOfferFridayReturnsOnlyFridaySlots(t *testing.T) {
	offered := newTestOfferer(testSource()).Offer(context.Background(), "Friday")
	require.Len(t, offered, 2)
	for _, s := range offered {
		wd, ok := s.Weekday()
		require.True(t, ok)
		assert.Equal(t, time.Friday, wd)
	}
}

func TestOfferWeekdayWithNoSlotsReturnsEmpty(t *testing.T) {
	// No Monday slots in the window; must not substitute another day.
	offered := newTestOfferer(testSource()).Offer(context.Background(), "Monday")
	assert.Empty(t, offered)
}

func TestOfferRanksByTimeDistance(t *testing.T) {
	offered := newTestOfferer(testSource()).Offer(context.Background(), "Friday, 2pm")
	require.Len(t, offered, 2)
	// 15:00 is 60 minutes from 14:00 preference, 10:00 is 240 away.
	assert.Equal(t, "15:00", offered[0].Time)
	assert.Equal(t, "10:00", offered[1].Time)
}

func TestOfferTimeDistanceIsMonotonic(t *testing.T) {
	offered := newTestOfferer(testSource()).Offer(context.Background(), "10am")
	require.Len(t, offered, 2)
	d0 := absDiff(offered[0].Minutes(), 10*60)
	d1 := absDiff(offered[1].Minutes(), 10*60)
	assert.LessOrEqual(t, d0, d1)
}

func TestOfferExplicitDateFilters(t *testing.T) {
	offered := newTestOfferer(testSource()).Offer(context.Background(), "10 Feb, 10am")
	require.Len(t, offered, 2)
	for _, s := range offered {
		assert.Equal(t, "2026-02-10", s.Date)
	}
	assert.Equal(t, "10:00", offered[0].Time)
}

func TestOfferExplicitDateWithNoSlotsReturnsEmpty(t *testing.T) {
	// Feb 20 is inside no entry; must not fall back to weekday matching.
	offered := newTestOfferer(testSource()).Offer(context.Background(), "20 Feb")
	assert.Empty(t, offered)
}

func TestOfferNeverExceedsMax(t *testing.T) {
	var many []Slot
	for day := 10; day <= 14; day++ {
		for hour := 9; hour < 17; hour++ {
			many = append(many, Slot{
				Date:     "2026-02-" + twoDigits(day),
				Time:     twoDigits(hour) + ":00",
				Timezone: "IST",
			})
		}
	}
	offered := newTestOfferer(NewStaticSource(many)).Offer(context.Background(), "anytime works")
	assert.LessOrEqual(t, len(offered), MaxOffers)
}

func TestOfferFailingSourceOffersNothing(t *testing.T) {
	offered := newTestOfferer(failingSource{}).Offer(context.Background(), "Friday")
	assert.Empty(t, offered)
}

func TestFallbackSourceUsesSecondary(t *testing.T) {
	fb := &FallbackSource{Primary: failingSource{}, Secondary: testSource()}
	got, err := fb.ListOfferableSlots(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 7)
}

func TestFallbackSourcePrefersPrimary(t *testing.T) {
	primary := NewStaticSource([]Slot{{Date: "2026-03-03", Time: "10:00", Timezone: "IST"}})
	fb := &FallbackSource{Primary: primary, Secondary: testSource()}
	got, err := fb.ListOfferableSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2026-03-03", got[0].Date)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + string(rune('0'+n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}
