package slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Slot is a single offerable appointment time. Slots are values; the engine
// produces them fresh on every offer computation and never persists them.
type Slot struct {
	Date     string `json:"date"`     // ISO date, YYYY-MM-DD
	Time     string `json:"time"`     // 24-hour HH:MM
	Timezone string `json:"timezone"` // display label, e.g. "IST"
}

// Label renders a human-readable description like
// "Tuesday, Feb 10 at 2:00 PM IST".
func (s Slot) Label() string {
	dt, err := time.Parse("2006-01-02 15:04", s.Date+" "+normalizeClock(s.Time))
	if err != nil {
		return fmt.Sprintf("%s %s %s", s.Date, s.Time, s.Timezone)
	}
	return fmt.Sprintf("%s at %s %s", dt.Format("Monday, Jan 02"), dt.Format("3:04 PM"), s.Timezone)
}

// Weekday returns the slot's day of week. The boolean is false when the date
// does not parse.
func (s Slot) Weekday() (time.Weekday, bool) {
	dt, err := time.Parse("2006-01-02", s.Date)
	if err != nil {
		return time.Sunday, false
	}
	return dt.Weekday(), true
}

// Minutes returns the slot time as minutes since midnight, used for ranking
// against a preferred time. A malformed time counts as midnight.
func (s Slot) Minutes() int {
	parts := strings.SplitN(s.Time, ":", 2)
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	m := 0
	if len(parts) > 1 {
		if v, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			m = v
		}
	}
	return h*60 + m
}

// normalizeClock pads "9:30" to "09:30" so time.Parse accepts it.
func normalizeClock(clock string) string {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return clock
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return clock
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return clock
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}
