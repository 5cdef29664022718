package slots

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Preference is the parsed form of a free-text scheduling preference like
// "Friday, 10am" or "4 Feb at 2pm". All three components are optional and
// independent; an explicit date always carries its weekday with it.
type Preference struct {
	Weekday    time.Weekday
	HasWeekday bool
	Minutes    int // minutes since midnight
	HasTime    bool
	Date       string // YYYY-MM-DD, empty when no explicit date was given
}

// IsZero reports whether nothing was parsed from the text.
func (p Preference) IsZero() bool {
	return !p.HasWeekday && !p.HasTime && p.Date == ""
}

// DefaultReferenceYear resolves "day + month-name" phrases when no year is
// configured. It is deliberately surfaced as configuration because it
// silently expires.
const DefaultReferenceYear = 2026

// PreferenceParser turns free text into a Preference. Parsing is pure and
// deterministic: the same text always yields the same Preference.
type PreferenceParser struct {
	// ReferenceYear is the year used to resolve explicit "4 Feb" style
	// dates. Zero means DefaultReferenceYear.
	ReferenceYear int
}

var weekdayNames = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

var weekdayAbbrevs = []struct {
	abbr string
	day  time.Weekday
}{
	{"mon", time.Monday},
	{"tue", time.Tuesday},
	{"wed", time.Wednesday},
	{"thu", time.Thursday},
	{"fri", time.Friday},
	{"sat", time.Saturday},
	{"sun", time.Sunday},
}

var months = []struct {
	full  string
	abbr  string
	month time.Month
}{
	{"january", "jan", time.January},
	{"february", "feb", time.February},
	{"march", "mar", time.March},
	{"april", "apr", time.April},
	{"may", "may", time.May},
	{"june", "jun", time.June},
	{"july", "jul", time.July},
	{"august", "aug", time.August},
	{"september", "sep", time.September},
	{"october", "oct", time.October},
	{"november", "nov", time.November},
	{"december", "dec", time.December},
}

// dayMonthREs and monthDayREs are indexed parallel to months.
var (
	dayMonthREs []*regexp.Regexp
	monthDayREs []*regexp.Regexp
)

func init() {
	for _, m := range months {
		alt := regexp.QuoteMeta(m.full) + "|" + regexp.QuoteMeta(m.abbr)
		dayMonthREs = append(dayMonthREs, regexp.MustCompile(`(\d{1,2})\s*(?:`+alt+`)\b`))
		monthDayREs = append(monthDayREs, regexp.MustCompile(`(?:`+alt+`)\s*(\d{1,2})\b`))
	}
}

// clockRE matches "10", "10:30", "10am", "2 pm", "14:00" style times. The
// trailing class keeps a bare number from swallowing into a larger token.
var clockRE = regexp.MustCompile(`(?:^|\s)(\d{1,2})\s*:?\s*(\d{2})?\s*(am|pm)?(?:\s|$|,)`)

// bareMeridiemRE is the fallback for times glued to punctuation, e.g. "(10am)".
var bareMeridiemRE = regexp.MustCompile(`\b(\d{1,2})\s*(am|pm)\b`)

// Parse extracts weekday, clock time, and explicit date from free text.
// Priority: an explicit "day month-name" date wins over a weekday mention;
// the clock time is independent of both. Empty or whitespace-only text
// parses to nothing. An unresolvable date (e.g. "31 Feb") is treated as no
// date at all.
func (p PreferenceParser) Parse(text string) Preference {
	pref := Preference{Minutes: -1}
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return pref
	}

	year := p.ReferenceYear
	if year == 0 {
		year = DefaultReferenceYear
	}

	for i, m := range months {
		if day, ok := firstDayMatch(dayMonthREs[i], lowered); ok {
			if date, wd, ok := resolveDate(year, m.month, day); ok {
				pref.Date = date
				pref.Weekday = wd
				pref.HasWeekday = true
				break
			}
		}
		if day, ok := firstDayMatch(monthDayREs[i], lowered); ok {
			if date, wd, ok := resolveDate(year, m.month, day); ok {
				pref.Date = date
				pref.Weekday = wd
				pref.HasWeekday = true
				break
			}
		}
	}

	if pref.Date == "" {
		for _, w := range weekdayNames {
			if strings.Contains(lowered, w.name) {
				pref.Weekday = w.day
				pref.HasWeekday = true
				break
			}
		}
		if !pref.HasWeekday {
			for _, w := range weekdayAbbrevs {
				if strings.Contains(lowered, w.abbr) {
					pref.Weekday = w.day
					pref.HasWeekday = true
					break
				}
			}
		}
	}

	if minutes, ok := parseClock(lowered); ok {
		pref.Minutes = minutes
		pref.HasTime = true
	}

	return pref
}

func firstDayMatch(re *regexp.Regexp, lowered string) (int, bool) {
	m := re.FindStringSubmatch(lowered)
	if m == nil {
		return 0, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}

// resolveDate validates day-of-month against the reference year's calendar.
// time.Date normalizes overflow (Feb 31 -> Mar 3), so a round-trip check is
// required.
func resolveDate(year int, month time.Month, day int) (string, time.Weekday, bool) {
	dt := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if dt.Month() != month || dt.Day() != day {
		return "", time.Sunday, false
	}
	return dt.Format("2006-01-02"), dt.Weekday(), true
}

func parseClock(lowered string) (int, bool) {
	if m := clockRE.FindStringSubmatch(lowered); m != nil {
		h, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		h = applyMeridiem(h, m[3])
		return h*60 + minute, true
	}
	if m := bareMeridiemRE.FindStringSubmatch(lowered); m != nil {
		h, _ := strconv.Atoi(m[1])
		h = applyMeridiem(h, m[2])
		return h * 60, true
	}
	return 0, false
}

// applyMeridiem converts a 12-hour value to 24-hour and clamps to [0,23].
func applyMeridiem(h int, meridiem string) int {
	if meridiem == "pm" && h < 12 {
		h += 12
	} else if meridiem == "am" && h == 12 {
		h = 0
	}
	if h < 0 {
		return 0
	}
	if h > 23 {
		return 23
	}
	return h
}

// String renders the preference for logs.
func (p Preference) String() string {
	var parts []string
	if p.Date != "" {
		parts = append(parts, "date="+p.Date)
	}
	if p.HasWeekday {
		parts = append(parts, "weekday="+p.Weekday.String())
	}
	if p.HasTime {
		parts = append(parts, fmt.Sprintf("time=%02d:%02d", p.Minutes/60, p.Minutes%60))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}
