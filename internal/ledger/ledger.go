// Package ledger records pre-bookings in a Google Sheet. The sheet is the
// advisor's working view and the collision backstop for booking codes.
//
// Row layout, columns A through F:
// timestamp, booking code, topic, slot label, status, source.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gsheets "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"

	"github.com/northledger/advisor-agent/internal/booking"
	"github.com/northledger/advisor-agent/pkg/logging"
)

const defaultSheetName = "PreBookings"

// Service is the Google Sheets backed pre-bookings log. It implements
// booking.Ledger.
type Service struct {
	api       *gsheets.Service
	sheetID   string
	sheetName string
	logger    *logging.Logger
	now       func() time.Time
}

// New builds a Service from a service-account credentials file.
func New(ctx context.Context, credentialsPath, sheetID string, logger *logging.Logger) (*Service, error) {
	if strings.TrimSpace(credentialsPath) == "" {
		return nil, errors.New("ledger: credentials path is required")
	}
	if strings.TrimSpace(sheetID) == "" {
		return nil, errors.New("ledger: sheet id is required")
	}

	api, err := gsheets.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("ledger: failed to create client: %w", err)
	}
	return newService(api, sheetID, logger), nil
}

func newService(api *gsheets.Service, sheetID string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		api:       api,
		sheetID:   sheetID,
		sheetName: defaultSheetName,
		logger:    logger,
		now:       time.Now,
	}
}

func buildRow(timestamp, bookingCode, topic, slotLabel, status, source string) []interface{} {
	return []interface{}{timestamp, bookingCode, topic, slotLabel, status, source}
}

// AppendRow adds a new pre-booking row at the bottom of the sheet.
func (s *Service) AppendRow(ctx context.Context, bookingCode, topic, slotLabel, status, source string) error {
	row := buildRow(s.now().UTC().Format(time.RFC3339), bookingCode, topic, slotLabel, status, source)
	vr := &gsheets.ValueRange{Values: [][]interface{}{row}}

	_, err := s.api.Spreadsheets.Values.
		Append(s.sheetID, s.sheetName+"!A:F", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("ledger: failed to append row for %s: %w", bookingCode, err)
	}
	s.logger.Info("ledger row appended", "booking_code", bookingCode, "status", status)
	return nil
}

// UpdateRowForReschedule rewrites the slot label and status of the existing
// row for the booking code. Returns an error when no row matches, so the
// caller can fall back to appending an audit row.
func (s *Service) UpdateRowForReschedule(ctx context.Context, bookingCode, newSlotLabel, newStatus string) error {
	rowIdx, err := s.findRow(ctx, bookingCode)
	if err != nil {
		return err
	}
	if rowIdx < 0 {
		return fmt.Errorf("ledger: no row found for %s", bookingCode)
	}

	rng := fmt.Sprintf("%s!D%d:E%d", s.sheetName, rowIdx+1, rowIdx+1)
	vr := &gsheets.ValueRange{Values: [][]interface{}{{newSlotLabel, newStatus}}}
	_, err = s.api.Spreadsheets.Values.
		Update(s.sheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("ledger: failed to update row for %s: %w", bookingCode, err)
	}
	s.logger.Info("ledger row rescheduled", "booking_code", bookingCode, "slot", newSlotLabel)
	return nil
}

// UpdateRowStatus rewrites only the status column of the existing row.
func (s *Service) UpdateRowStatus(ctx context.Context, bookingCode, newStatus string) error {
	rowIdx, err := s.findRow(ctx, bookingCode)
	if err != nil {
		return err
	}
	if rowIdx < 0 {
		return fmt.Errorf("ledger: no row found for %s", bookingCode)
	}

	rng := fmt.Sprintf("%s!E%d", s.sheetName, rowIdx+1)
	vr := &gsheets.ValueRange{Values: [][]interface{}{{newStatus}}}
	_, err = s.api.Spreadsheets.Values.
		Update(s.sheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("ledger: failed to update status for %s: %w", bookingCode, err)
	}
	s.logger.Info("ledger row status updated", "booking_code", bookingCode, "status", newStatus)
	return nil
}

// findRow returns the zero-based index of the last row whose code column
// matches, or -1. The last match wins so a reschedule after an append-fallback
// touches the freshest row.
func (s *Service) findRow(ctx context.Context, bookingCode string) (int, error) {
	resp, err := s.api.Spreadsheets.Values.
		Get(s.sheetID, s.sheetName+"!B:B").
		Context(ctx).Do()
	if err != nil {
		return -1, fmt.Errorf("ledger: failed to read code column: %w", err)
	}
	return matchRow(resp.Values, bookingCode), nil
}

func matchRow(codeColumn [][]interface{}, bookingCode string) int {
	want := booking.NormalizeCode(bookingCode)
	if want == "" {
		return -1
	}
	found := -1
	for i, row := range codeColumn {
		if len(row) == 0 {
			continue
		}
		cell, ok := row[0].(string)
		if !ok {
			continue
		}
		if booking.NormalizeCode(cell) == want {
			found = i
		}
	}
	return found
}
