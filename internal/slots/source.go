package slots

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// StaticSource serves a fixed slot list, used as the fallback when no live
// calendar is configured or the live query fails.
type StaticSource struct {
	slots []Slot
}

// NewStaticSource wraps a fixed slot list.
func NewStaticSource(slots []Slot) *StaticSource {
	return &StaticSource{slots: slots}
}

// fallbackFile mirrors the shape of data/fallback_slots.json: one entry per
// date with its offerable times.
type fallbackFile struct {
	AvailableSlots []struct {
		Date     string   `json:"date"`
		Timezone string   `json:"timezone"`
		Times    []string `json:"times"`
	} `json:"available_slots"`
}

// NewStaticSourceFromFile loads the fallback slot list from a JSON file.
func NewStaticSourceFromFile(path, defaultTimezone string) (*StaticSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback slots: %w", err)
	}
	var file fallbackFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse fallback slots: %w", err)
	}

	var out []Slot
	for _, entry := range file.AvailableSlots {
		tz := entry.Timezone
		if tz == "" {
			tz = defaultTimezone
		}
		for _, t := range entry.Times {
			out = append(out, Slot{Date: entry.Date, Time: t, Timezone: tz})
		}
	}
	return &StaticSource{slots: out}, nil
}

// ListOfferableSlots returns a copy of the static list.
func (s *StaticSource) ListOfferableSlots(_ context.Context) ([]Slot, error) {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out, nil
}

// FallbackSource tries a primary source and falls back to a secondary when
// the primary errors or comes back empty. This is how a live calendar source
// is layered over the static list.
type FallbackSource struct {
	Primary   Source
	Secondary Source
}

// ListOfferableSlots queries primary first, secondary on error or empty.
func (f *FallbackSource) ListOfferableSlots(ctx context.Context) ([]Slot, error) {
	if f.Primary != nil {
		out, err := f.Primary.ListOfferableSlots(ctx)
		if err == nil && len(out) > 0 {
			return out, nil
		}
	}
	if f.Secondary == nil {
		return nil, nil
	}
	return f.Secondary.ListOfferableSlots(ctx)
}
