package service

import (
	"context"
	"fmt"

	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/itinerary"
)

// ExportService flattens a session's itinerary for download.
type ExportService struct {
	sessions *itinerary.Sessions
}

// NewExportService constructs an ExportService over the session registry.
func NewExportService(sessions *itinerary.Sessions) *ExportService {
	return &ExportService{sessions: sessions}
}

// Export returns one ExportRow per line item and the itinerary total.
// On success the slice is never nil.
func (s *ExportService) Export(ctx context.Context, session string) ([]domain.ExportRow, float64, error) {
	store, err := s.sessions.Get(ctx, session)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	items, total := store.Snapshot()
	rows := make([]domain.ExportRow, 0, len(items))
	for i, it := range items {
		rows = append(rows, domain.ExportRow{
			Position:   i + 1,
			TourID:     it.TourID,
			TourTitle:  it.TourTitle,
			Date:       it.Date,
			Adults:     it.Adults,
			Children:   it.Children,
			UnitPrice:  it.Price,
			ChildPrice: domain.ChildPrice(it.Price),
			Subtotal:   it.Subtotal,
			Notes:      it.Notes,
		})
	}
	return rows, total, nil
}
