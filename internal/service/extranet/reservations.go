package extranet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oshokin/extranet-bot/internal/logger"
)

//nolint:gochecknoglobals // Immutable list of date layouts seen in the reservations table.
var checkInLayouts = []string{
	time.DateOnly,
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, Jan 2, 2006",
	"Mon 2 Jan 2006",
}

// GetReservations scrapes the reservations table.
// With a positive daysAhead only reservations checking in from today to today+daysAhead are kept,
// rows whose check-in date cannot be parsed are always kept.
func (s *ServiceImpl) GetReservations(ctx context.Context, daysAhead int) ([]Reservation, error) {
	if err := s.requireLogin(); err != nil {
		return nil, err
	}

	if err := s.openSection(ctx, SectionReservations); err != nil {
		return nil, err
	}

	if err := s.sleep(ctx, sectionRenderPause); err != nil {
		return nil, err
	}

	if err := s.session.WaitFor(ctx, reservationsTableSelector, tableTimeout); err != nil {
		return nil, fmt.Errorf("reservations table not found: %w", err)
	}

	rows, err := s.session.ExtractRows(ctx, reservationRowSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to extract reservations: %w", err)
	}

	reservations := make([]Reservation, 0, len(rows))
	for _, cells := range rows {
		reservations = append(reservations, reservationFromCells(cells))
	}

	reservations = filterByCheckIn(reservations, s.now(), daysAhead)

	logger.Infof(ctx, "Retrieved %d reservations", len(reservations))

	return reservations, nil
}

// filterByCheckIn keeps reservations checking in within [today, today+daysAhead].
func filterByCheckIn(reservations []Reservation, now time.Time, daysAhead int) []Reservation {
	if daysAhead <= 0 {
		return reservations
	}

	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 0, daysAhead)

	filtered := make([]Reservation, 0, len(reservations))

	for _, reservation := range reservations {
		checkIn, ok := parseCheckIn(reservation.CheckIn)
		if !ok || (!checkIn.Before(from) && !checkIn.After(until)) {
			filtered = append(filtered, reservation)
		}
	}

	return filtered
}

func parseCheckIn(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)

	for _, layout := range checkInLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}
