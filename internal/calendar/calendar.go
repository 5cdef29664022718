// Package calendar adapts Google Calendar into the advisor scheduling model:
// it turns free/busy data into offerable slots and carries out the event
// mutations booking completion needs.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/northledger/advisor-agent/internal/booking"
	"github.com/northledger/advisor-agent/internal/slots"
	"github.com/northledger/advisor-agent/pkg/logging"
)

// Options shapes the offerable slot grid.
type Options struct {
	CalendarID       string
	TimezoneID       string // IANA id, e.g. "Asia/Kolkata"
	TimezoneLabel    string // short label shown to users, e.g. "IST"
	LookaheadDays    int
	BusinessStart    int // hour, inclusive
	BusinessEnd      int // hour, exclusive
	SlotDurationMins int
	AllowedWeekdays  []time.Weekday
}

func (o *Options) applyDefaults() {
	if o.TimezoneID == "" {
		o.TimezoneID = "Asia/Kolkata"
	}
	if o.TimezoneLabel == "" {
		o.TimezoneLabel = "IST"
	}
	if o.LookaheadDays <= 0 {
		o.LookaheadDays = 14
	}
	if o.BusinessStart <= 0 {
		o.BusinessStart = 9
	}
	if o.BusinessEnd <= 0 {
		o.BusinessEnd = 17
	}
	if o.SlotDurationMins <= 0 {
		o.SlotDurationMins = 30
	}
	if len(o.AllowedWeekdays) == 0 {
		o.AllowedWeekdays = []time.Weekday{
			time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
		}
	}
}

// Service is the Google Calendar backed slot source and event store. It
// implements slots.Source and booking.Calendar.
type Service struct {
	api    *gcal.Service
	opts   Options
	loc    *time.Location
	logger *logging.Logger
	now    func() time.Time
}

// New builds a Service from a service-account credentials file.
func New(ctx context.Context, credentialsPath string, opts Options, logger *logging.Logger) (*Service, error) {
	if strings.TrimSpace(credentialsPath) == "" {
		return nil, errors.New("calendar: credentials path is required")
	}
	if strings.TrimSpace(opts.CalendarID) == "" {
		return nil, errors.New("calendar: calendar id is required")
	}

	api, err := gcal.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("calendar: failed to create client: %w", err)
	}
	return newService(api, opts, logger)
}

func newService(api *gcal.Service, opts Options, logger *logging.Logger) (*Service, error) {
	opts.applyDefaults()
	loc, err := time.LoadLocation(opts.TimezoneID)
	if err != nil {
		return nil, fmt.Errorf("calendar: unknown timezone %q: %w", opts.TimezoneID, err)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{api: api, opts: opts, loc: loc, logger: logger, now: time.Now}, nil
}

// ListOfferableSlots walks the lookahead window on the business-hours grid and
// returns every slot that is in the future, on an allowed weekday, and free on
// the advisor's calendar.
func (s *Service) ListOfferableSlots(ctx context.Context) ([]slots.Slot, error) {
	now := s.now().In(s.loc)
	windowStart := now
	windowEnd := now.AddDate(0, 0, s.opts.LookaheadDays)

	busy, err := s.busyIntervals(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	step := time.Duration(s.opts.SlotDurationMins) * time.Minute
	var out []slots.Slot
	for day := 0; day <= s.opts.LookaheadDays; day++ {
		date := now.AddDate(0, 0, day)
		if !s.weekdayAllowed(date.Weekday()) {
			continue
		}
		dayStart := time.Date(date.Year(), date.Month(), date.Day(), s.opts.BusinessStart, 0, 0, 0, s.loc)
		dayEnd := time.Date(date.Year(), date.Month(), date.Day(), s.opts.BusinessEnd, 0, 0, 0, s.loc)
		for start := dayStart; start.Before(dayEnd); start = start.Add(step) {
			if !start.After(now) {
				continue
			}
			if overlapsAny(busy, start, start.Add(step)) {
				continue
			}
			out = append(out, slots.Slot{
				Date:     start.Format("2006-01-02"),
				Time:     start.Format("15:04"),
				Timezone: s.opts.TimezoneLabel,
			})
		}
	}
	return out, nil
}

func (s *Service) weekdayAllowed(wd time.Weekday) bool {
	for _, allowed := range s.opts.AllowedWeekdays {
		if wd == allowed {
			return true
		}
	}
	return false
}

type interval struct {
	start time.Time
	end   time.Time
}

func overlapsAny(busy []interval, start, end time.Time) bool {
	for _, b := range busy {
		if start.Before(b.end) && b.start.Before(end) {
			return true
		}
	}
	return false
}

func (s *Service) busyIntervals(ctx context.Context, from, to time.Time) ([]interval, error) {
	req := &gcal.FreeBusyRequest{
		TimeMin:  from.Format(time.RFC3339),
		TimeMax:  to.Format(time.RFC3339),
		TimeZone: s.opts.TimezoneID,
		Items:    []*gcal.FreeBusyRequestItem{{Id: s.opts.CalendarID}},
	}
	resp, err := s.api.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: freebusy query failed: %w", err)
	}

	cal, ok := resp.Calendars[s.opts.CalendarID]
	if !ok {
		return nil, nil
	}
	out := make([]interval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			continue
		}
		out = append(out, interval{start: start.In(s.loc), end: end.In(s.loc)})
	}
	return out, nil
}

// holdSummary is the event title for a tentative hold. The booking code in
// the title is what FindEventByCode matches on later.
func holdSummary(topic, bookingCode string) string {
	return fmt.Sprintf("[TENTATIVE] Advisor slot: %s (%s)", topic, bookingCode)
}

func (s *Service) slotTimes(slot slots.Slot) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", slot.Date+" "+slot.Time, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("calendar: bad slot %s %s: %w", slot.Date, slot.Time, err)
	}
	return start, start.Add(time.Duration(s.opts.SlotDurationMins) * time.Minute), nil
}

// CreateTentativeHold places a tentative event for the slot with the booking
// code embedded in the summary.
func (s *Service) CreateTentativeHold(ctx context.Context, topic, bookingCode string, slot slots.Slot) error {
	start, end, err := s.slotTimes(slot)
	if err != nil {
		return err
	}

	event := &gcal.Event{
		Summary:     holdSummary(topic, bookingCode),
		Description: "Pre-booking placed by the advisor appointment assistant. Contact details arrive via the secure link.",
		Status:      "tentative",
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: s.opts.TimezoneID},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: s.opts.TimezoneID},
	}
	if _, err := s.api.Events.Insert(s.opts.CalendarID, event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar: failed to create hold for %s: %w", bookingCode, err)
	}
	s.logger.Info("tentative hold created", "booking_code", bookingCode, "start", start.Format(time.RFC3339))
	return nil
}

// FindEventByCode scans upcoming events for one whose summary carries the
// booking code. Matching is separator and case insensitive so spoken code
// variants still resolve.
func (s *Service) FindEventByCode(ctx context.Context, bookingCode string) (string, error) {
	want := booking.NormalizeCode(bookingCode)
	if want == "" {
		return "", nil
	}

	now := s.now().In(s.loc)
	call := s.api.Events.List(s.opts.CalendarID).
		TimeMin(now.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250).
		Context(ctx)
	resp, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("calendar: failed to list events: %w", err)
	}

	for _, event := range resp.Items {
		if strings.Contains(booking.NormalizeCode(event.Summary), want) {
			return event.Id, nil
		}
	}
	return "", nil
}

// MoveEvent shifts an existing event to the new slot, keeping its duration.
func (s *Service) MoveEvent(ctx context.Context, eventID string, slot slots.Slot) error {
	start, end, err := s.slotTimes(slot)
	if err != nil {
		return err
	}

	patch := &gcal.Event{
		Start: &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: s.opts.TimezoneID},
		End:   &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: s.opts.TimezoneID},
	}
	if _, err := s.api.Events.Patch(s.opts.CalendarID, eventID, patch).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar: failed to move event %s: %w", eventID, err)
	}
	s.logger.Info("event moved", "event_id", eventID, "start", start.Format(time.RFC3339))
	return nil
}

// DeleteEvent removes a calendar event.
func (s *Service) DeleteEvent(ctx context.Context, eventID string) error {
	if err := s.api.Events.Delete(s.opts.CalendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar: failed to delete event %s: %w", eventID, err)
	}
	s.logger.Info("event deleted", "event_id", eventID)
	return nil
}
