package service_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/repo"
)

// ---- mock repos ------------------------------------------------------------
// Hand-written test doubles: each method is a function field, set only the
// ones a test needs. An unset field panics, which flags unexpected calls.

type mockTourRepo struct {
	getByID          func(ctx context.Context, id uuid.UUID) (domain.Tour, error)
	listPaged        func(ctx context.Context, p domain.PageRequest) ([]domain.Tour, int64, error)
	listAvailability func(ctx context.Context, tourID uuid.UUID, from time.Time) ([]domain.AvailabilityRecord, error)
}

func (m *mockTourRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error) {
	return m.getByID(ctx, id)
}
func (m *mockTourRepo) ListPaged(ctx context.Context, p domain.PageRequest) ([]domain.Tour, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTourRepo) ListAvailability(ctx context.Context, tourID uuid.UUID, from time.Time) ([]domain.AvailabilityRecord, error) {
	return m.listAvailability(ctx, tourID, from)
}

type mockComboRepo struct {
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Combo, error)
	listPaged func(ctx context.Context, p domain.PageRequest) ([]domain.Combo, int64, error)
}

func (m *mockComboRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Combo, error) {
	return m.getByID(ctx, id)
}
func (m *mockComboRepo) ListPaged(ctx context.Context, p domain.PageRequest) ([]domain.Combo, int64, error) {
	return m.listPaged(ctx, p)
}

type mockPostRepo struct {
	getByID        func(ctx context.Context, id uuid.UUID) (domain.Post, error)
	listPaged      func(ctx context.Context, categorySlug string, p domain.PageRequest) ([]domain.Post, int64, error)
	listCategories func(ctx context.Context) ([]domain.Category, error)
}

func (m *mockPostRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Post, error) {
	return m.getByID(ctx, id)
}
func (m *mockPostRepo) ListPaged(ctx context.Context, categorySlug string, p domain.PageRequest) ([]domain.Post, int64, error) {
	return m.listPaged(ctx, categorySlug, p)
}
func (m *mockPostRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return m.listCategories(ctx)
}

// compile-time checks: mocks must satisfy the repo interfaces.
var (
	_ repo.TourRepo  = (*mockTourRepo)(nil)
	_ repo.ComboRepo = (*mockComboRepo)(nil)
	_ repo.PostRepo  = (*mockPostRepo)(nil)
)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// tourFixture is an active tour with pt and en titles, closed on Sundays and
// on 2025-01-15.
func tourFixture() domain.Tour {
	return domain.Tour{
		ID:     uuid.MustParse("6f1c1b8e-7c0a-4d55-9a52-3f4b6a1d2e01"),
		Slug:   "cristo-redentor",
		Price:  100,
		Active: true,
		Exclusions: domain.ExclusionRules{
			Weekdays: []int{0},
			Dates:    []string{"2025-01-15"},
		},
		Translations: []domain.TourTranslation{
			{Locale: domain.LocalePT, Title: "Cristo Redentor", Description: "Vista"},
			{Locale: domain.LocaleEN, Title: "Christ the Redeemer", Description: "View"},
		},
	}
}

// availabilityFixture covers 2025-01-10 (Fri) .. 2025-01-16 (Thu) with
// 2025-01-13 sold out.
func availabilityFixture(tourID uuid.UUID) []domain.AvailabilityRecord {
	var recs []domain.AvailabilityRecord
	for d := 10; d <= 16; d++ {
		rec := domain.AvailabilityRecord{
			TourID:        tourID.String(),
			AvailableDate: time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC).Format(domain.DateLayout),
			TotalSpots:    10,
		}
		if d == 13 {
			rec.SpotsBooked = 10
		}
		recs = append(recs, rec)
	}
	return recs
}

func tourRepoFixture() *mockTourRepo {
	tour := tourFixture()
	return &mockTourRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Tour, error) {
			if id != tour.ID {
				return domain.Tour{}, domain.ErrNotFound
			}
			return tour, nil
		},
		listAvailability: func(_ context.Context, id uuid.UUID, _ time.Time) ([]domain.AvailabilityRecord, error) {
			return availabilityFixture(id), nil
		},
	}
}
