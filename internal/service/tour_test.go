package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/service"
)

// ---- Get -------------------------------------------------------------------

func TestTourService_Get_RequestedLocale(t *testing.T) {
	svc := service.NewTourService(tourRepoFixture(), domain.LocalePT, discardLogger())

	got, err := svc.Get(context.Background(), tourFixture().ID, domain.LocaleEN)

	require.NoError(t, err)
	assert.Equal(t, domain.LocaleEN, got.Locale)
	assert.Equal(t, "Christ the Redeemer", got.Title)
	assert.Equal(t, "cristo-redentor", got.Slug)
}

func TestTourService_Get_FallsBack(t *testing.T) {
	svc := service.NewTourService(tourRepoFixture(), domain.LocalePT, discardLogger())

	got, err := svc.Get(context.Background(), tourFixture().ID, domain.LocaleES)

	require.NoError(t, err)
	assert.Equal(t, domain.LocalePT, got.Locale, "es is missing, pt is the fallback")
	assert.Equal(t, "Cristo Redentor", got.Title)
}

func TestTourService_Get_NoUsableTranslation(t *testing.T) {
	tour := tourFixture()
	tour.Translations = tour.Translations[1:] // en only
	repo := &mockTourRepo{
		getByID: func(context.Context, uuid.UUID) (domain.Tour, error) { return tour, nil },
	}
	svc := service.NewTourService(repo, domain.LocalePT, discardLogger())

	_, err := svc.Get(context.Background(), tour.ID, domain.LocaleES)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrTranslationMissing)
}

func TestTourService_Get_NotFound(t *testing.T) {
	svc := service.NewTourService(tourRepoFixture(), domain.LocalePT, discardLogger())

	_, err := svc.Get(context.Background(), uuid.New(), domain.LocalePT)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- List ------------------------------------------------------------------

func TestTourService_List_SkipsUntranslated(t *testing.T) {
	translated := tourFixture()
	untranslated := tourFixture()
	untranslated.ID = uuid.New()
	untranslated.Translations = nil

	var gotPage domain.PageRequest
	repo := &mockTourRepo{
		listPaged: func(_ context.Context, p domain.PageRequest) ([]domain.Tour, int64, error) {
			gotPage = p
			return []domain.Tour{untranslated, translated}, 2, nil
		},
	}
	svc := service.NewTourService(repo, domain.LocalePT, discardLogger())

	page := domain.PageRequest{Page: 2, Limit: 5}
	got, err := svc.List(context.Background(), domain.LocaleEN, page)

	require.NoError(t, err)
	assert.Equal(t, page, gotPage)
	assert.Equal(t, int64(2), got.Total)
	require.Len(t, got.Items, 1)
	assert.Equal(t, translated.ID, got.Items[0].ID)
}

func TestTourService_List_RepoError(t *testing.T) {
	boom := errors.New("connection reset")
	repo := &mockTourRepo{
		listPaged: func(context.Context, domain.PageRequest) ([]domain.Tour, int64, error) {
			return nil, 0, boom
		},
	}
	svc := service.NewTourService(repo, domain.LocalePT, discardLogger())

	_, err := svc.List(context.Background(), domain.LocalePT, domain.PageRequest{Page: 1, Limit: 12})

	assert.ErrorIs(t, err, boom)
}

// ---- AvailableDates --------------------------------------------------------

func TestTourService_AvailableDates(t *testing.T) {
	repo := tourRepoFixture()
	var from time.Time
	list := repo.listAvailability
	repo.listAvailability = func(ctx context.Context, id uuid.UUID, f time.Time) ([]domain.AvailabilityRecord, error) {
		from = f
		return list(ctx, id, f)
	}
	svc := service.NewTourService(repo, domain.LocalePT, discardLogger())

	got, err := svc.AvailableDates(context.Background(), tourFixture().ID)

	require.NoError(t, err)
	var dates []string
	for _, r := range got {
		dates = append(dates, r.AvailableDate)
	}
	// 12th is a Sunday, 13th is sold out, 15th is an excluded date.
	assert.Equal(t, []string{"2025-01-10", "2025-01-11", "2025-01-14", "2025-01-16"}, dates)
	assert.Zero(t, from.Hour(), "availability starts at midnight today")
}

func TestTourService_AvailableDates_NotFound(t *testing.T) {
	svc := service.NewTourService(tourRepoFixture(), domain.LocalePT, discardLogger())

	_, err := svc.AvailableDates(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
