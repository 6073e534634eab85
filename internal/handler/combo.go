package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/tourbook/internal/domain"
)

// Combo is the API representation of a localized package deal.
type Combo struct {
	ID          uuid.UUID   `json:"id"`
	Slug        string      `json:"slug"`
	Locale      string      `json:"locale"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	ImageURL    *string     `json:"image_url,omitempty"`
	TourIDs     []uuid.UUID `json:"tour_ids"`
}

// ListCombos handles GET /combos.
func (s *Server) ListCombos(w http.ResponseWriter, r *http.Request) {
	p, ok := pageParams(w, r)
	if !ok {
		return
	}
	res, err := s.combos.List(r.Context(), s.locale(r), p)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	data := make([]Combo, len(res.Items))
	for i, c := range res.Items {
		data[i] = comboToResponse(c)
	}
	writeJSON(w, http.StatusOK, ListResponse[Combo]{
		Data:       data,
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: res.Total},
	})
}

// GetCombo handles GET /combos/{id}.
func (s *Server) GetCombo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := s.combos.Get(r.Context(), id, s.locale(r))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, notFoundBody("combo not found"))
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comboToResponse(c))
}

func comboToResponse(c domain.LocalizedCombo) Combo {
	ids := c.TourIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return Combo{
		ID:          c.ID,
		Slug:        c.Slug,
		Locale:      string(c.Locale),
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		ImageURL:    nilIfEmpty(c.ImageURL),
		TourIDs:     ids,
	}
}
