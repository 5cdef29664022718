package slots

import (
	"context"
	"sort"

	"github.com/northledger/advisor-agent/pkg/logging"
)

// MaxOffers is the number of slots presented to the user at once.
const MaxOffers = 2

// Source supplies all currently offerable slots. It may be a live calendar
// free/busy query or a static fallback list; the Offerer does not care.
type Source interface {
	ListOfferableSlots(ctx context.Context) ([]Slot, error)
}

// Offerer ranks candidate slots against a free-text preference and returns
// the best two. A zero-match day or date is a legitimate "no availability"
// outcome, never an error: callers present a waitlist instead.
type Offerer struct {
	source Source
	parser PreferenceParser
	logger *logging.Logger
}

// NewOfferer builds an Offerer over the given slot source.
func NewOfferer(source Source, parser PreferenceParser, logger *logging.Logger) *Offerer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Offerer{source: source, parser: parser, logger: logger}
}

// Parser exposes the configured preference parser so callers can probe text
// without fetching slots.
func (o *Offerer) Parser() PreferenceParser {
	return o.parser
}

// Offer returns up to MaxOffers slots matching the preference text, best
// match first.
//
// An explicit date filters strictly to that date; a weekday filters strictly
// to that weekday — neither falls back to other days when nothing matches.
// Within the kept set, a preferred time ranks by absolute minute distance
// with (date, time) as tie-break; otherwise slots are in (date, time) order.
func (o *Offerer) Offer(ctx context.Context, preferredText string) []Slot {
	all, err := o.source.ListOfferableSlots(ctx)
	if err != nil {
		// A failing source is the same as an empty one; the conversation
		// degrades to the waitlist branch.
		o.logger.Warn("slot source failed, offering nothing", "error", err)
		return nil
	}

	pref := o.parser.Parse(preferredText)

	if pref.Date != "" {
		onDate := keep(all, func(s Slot) bool { return s.Date == pref.Date })
		if len(onDate) == 0 {
			return nil
		}
		rank(onDate, pref)
		return truncate(onDate)
	}

	if pref.HasWeekday {
		onDay := keep(all, func(s Slot) bool {
			wd, ok := s.Weekday()
			return ok && wd == pref.Weekday
		})
		if len(onDay) == 0 {
			return nil
		}
		rank(onDay, pref)
		return truncate(onDay)
	}

	rank(all, pref)
	return truncate(all)
}

func keep(in []Slot, match func(Slot) bool) []Slot {
	var out []Slot
	for _, s := range in {
		if match(s) {
			out = append(out, s)
		}
	}
	return out
}

func rank(in []Slot, pref Preference) {
	if pref.HasTime {
		sort.SliceStable(in, func(i, j int) bool {
			di, dj := absDiff(in[i].Minutes(), pref.Minutes), absDiff(in[j].Minutes(), pref.Minutes)
			if di != dj {
				return di < dj
			}
			return naturalLess(in[i], in[j])
		})
		return
	}
	sort.SliceStable(in, func(i, j int) bool { return naturalLess(in[i], in[j]) })
}

func naturalLess(a, b Slot) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	return a.Minutes() < b.Minutes()
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func truncate(in []Slot) []Slot {
	if len(in) > MaxOffers {
		return in[:MaxOffers]
	}
	return in
}
