package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/itinerary"
	"github.com/pkordes/tourbook/internal/service"
)

func TestExportService_Export(t *testing.T) {
	svc, sessions := newItineraryService(t, tourRepoFixture())
	ctx := context.Background()
	first := addRequest("2025-01-10")
	first.Notes = "window seat"
	_, err := svc.Add(ctx, session, first, domain.LocalePT)
	require.NoError(t, err)
	_, err = svc.Add(ctx, session, addRequest("2025-01-11"), domain.LocalePT)
	require.NoError(t, err)

	rows, total, err := service.NewExportService(sessions).Export(ctx, session)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, "Cristo Redentor", rows[0].TourTitle)
	assert.Equal(t, "2025-01-10", rows[0].Date)
	assert.Equal(t, 100.0, rows[0].UnitPrice)
	assert.Equal(t, 50.0, rows[0].ChildPrice)
	assert.Equal(t, 250.0, rows[0].Subtotal)
	assert.Equal(t, "window seat", rows[0].Notes)
	assert.Equal(t, 2, rows[1].Position)
	assert.Equal(t, 500.0, total)
}

func TestExportService_Export_Empty(t *testing.T) {
	_, sessions := newItineraryService(t, tourRepoFixture())

	rows, total, err := service.NewExportService(sessions).Export(context.Background(), session)
	require.NoError(t, err)

	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Zero(t, total)
}

func TestExportService_Export_SessionLoadFailure(t *testing.T) {
	log := discardLogger()
	mirror := itinerary.NewMirror(itinerary.NewMemoryPersister(), log)
	sessions := itinerary.NewSessions(failingLoader{}, mirror, log, 0)

	_, _, err := service.NewExportService(sessions).Export(context.Background(), session)

	assert.Error(t, err)
}
