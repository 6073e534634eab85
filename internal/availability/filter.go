// Package availability decides which tour dates are offered to visitors.
package availability

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/pkordes/tourbook/internal/domain"
)

// Filter returns the records a visitor may book: records whose weekday is in
// excludedWeekdays are dropped, then records whose date is in excludedDates.
// Records with an unparseable AvailableDate are dropped and logged.
//
// The sequence preserves input order, holds no state between iterations and
// can be ranged over any number of times.
func Filter(records []domain.AvailabilityRecord, excludedWeekdays []int, excludedDates []string, log *slog.Logger) iter.Seq[domain.AvailabilityRecord] {
	var weekdays [7]bool
	for _, d := range excludedWeekdays {
		if d >= 0 && d < len(weekdays) {
			weekdays[d] = true
		}
	}
	dates := make(map[string]struct{}, len(excludedDates))
	for _, d := range excludedDates {
		if t, err := domain.ParseDate(d); err == nil {
			dates[t.Format(domain.DateLayout)] = struct{}{}
		}
	}

	return func(yield func(domain.AvailabilityRecord) bool) {
		for _, rec := range records {
			day, err := parseDay(rec.AvailableDate)
			if err != nil {
				log.Warn("availability: dropping record", "tour_id", rec.TourID, "date", rec.AvailableDate, "error", err)
				continue
			}
			if weekdays[day.Weekday()] {
				continue
			}
			if _, excluded := dates[day.Format(domain.DateLayout)]; excluded {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// Offerable applies Filter with the tour's rules and keeps only biddable
// records, collected into a slice.
func Offerable(records []domain.AvailabilityRecord, rules domain.ExclusionRules, log *slog.Logger) []domain.AvailabilityRecord {
	out := []domain.AvailabilityRecord{}
	for rec := range Filter(records, rules.Weekdays, rules.Dates, log) {
		if rec.Biddable() {
			out = append(out, rec)
		}
	}
	return out
}

// IsOfferable reports whether date passes the tour's rules and appears among
// records with open spots. Used to validate a booking before it reaches the
// itinerary.
func IsOfferable(date string, records []domain.AvailabilityRecord, rules domain.ExclusionRules, log *slog.Logger) bool {
	return slices.ContainsFunc(Offerable(records, rules, log), func(r domain.AvailabilityRecord) bool {
		return r.AvailableDate == date
	})
}

// parseDay accepts a bare ISO date or a full RFC 3339 timestamp, since the
// content repository returns either depending on the column type.
func parseDay(s string) (time.Time, error) {
	if t, err := domain.ParseDate(s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrMalformedDate, s)
}
