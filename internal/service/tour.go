// Package service contains the business logic for the tour backend.
// Services resolve translations, enforce booking rules, and orchestrate repo
// and itinerary calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tourbook/internal/availability"
	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/i18n"
	"github.com/pkordes/tourbook/internal/repo"
)

// TourService implements the read side of the tour catalog.
type TourService struct {
	tours    repo.TourRepo
	fallback domain.Locale
	log      *slog.Logger
	now      func() time.Time
}

// NewTourService constructs a TourService. fallback is the locale used when
// a tour has no translation in the requested one.
func NewTourService(tours repo.TourRepo, fallback domain.Locale, log *slog.Logger) *TourService {
	return &TourService{tours: tours, fallback: fallback, log: log, now: time.Now}
}

// Get returns one tour localized to locale.
// Returns domain.ErrNotFound if the tour does not exist or has no usable
// translation.
func (s *TourService) Get(ctx context.Context, id uuid.UUID, locale domain.Locale) (domain.LocalizedTour, error) {
	t, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return domain.LocalizedTour{}, fmt.Errorf("service.TourService.Get: %w", err)
	}
	lt, err := localizeTour(t, locale, s.fallback)
	if err != nil {
		return domain.LocalizedTour{}, fmt.Errorf("service.TourService.Get: %w", err)
	}
	return lt, nil
}

// List returns one page of tours localized to locale. Tours without a usable
// translation are left out of Items but still count toward Total, so page
// boundaries stay stable across locales.
func (s *TourService) List(ctx context.Context, locale domain.Locale, p domain.PageRequest) (domain.Paged[domain.LocalizedTour], error) {
	tours, total, err := s.tours.ListPaged(ctx, p)
	if err != nil {
		return domain.Paged[domain.LocalizedTour]{}, fmt.Errorf("service.TourService.List: %w", err)
	}
	items := make([]domain.LocalizedTour, 0, len(tours))
	for _, t := range tours {
		lt, err := localizeTour(t, locale, s.fallback)
		if err != nil {
			s.log.DebugContext(ctx, "service: skipping untranslated tour", "tour_id", t.ID, "locale", locale)
			continue
		}
		items = append(items, lt)
	}
	return domain.Paged[domain.LocalizedTour]{Items: items, Total: total}, nil
}

// AvailableDates returns the upcoming dates of a tour that a visitor may
// book: open spots, weekday not excluded, date not excluded.
// Returns domain.ErrNotFound if the tour does not exist.
func (s *TourService) AvailableDates(ctx context.Context, id uuid.UUID) ([]domain.AvailabilityRecord, error) {
	t, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.TourService.AvailableDates: %w", err)
	}
	records, err := s.tours.ListAvailability(ctx, id, s.today())
	if err != nil {
		return nil, fmt.Errorf("service.TourService.AvailableDates: %w", err)
	}
	return availability.Offerable(records, t.Exclusions, s.log), nil
}

func (s *TourService) today() time.Time { return startOfDay(s.now()) }

// startOfDay returns midnight UTC of the calendar day of t, the form
// availability dates are stored in.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func localizeTour(t domain.Tour, locale, fallback domain.Locale) (domain.LocalizedTour, error) {
	tr, err := i18n.Resolve(t.Translations, locale, fallback)
	if err != nil {
		return domain.LocalizedTour{}, notDisplayable(err)
	}
	return domain.LocalizedTour{Tour: t, Locale: tr.Locale, Title: tr.Title, Description: tr.Description}, nil
}

// notDisplayable marks a missing translation as a not-found result while
// keeping the underlying cause in the chain.
func notDisplayable(err error) error {
	if errors.Is(err, domain.ErrTranslationMissing) {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	return err
}
