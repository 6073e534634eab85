package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tourbook/internal/domain"
)

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ListResponse is the envelope of every paged list endpoint.
type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Tour is the API representation of a localized tour.
type Tour struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Locale      string    `json:"locale"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ChildPrice  float64   `json:"child_price"`
	Duration    *string   `json:"duration,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
}

// Availability is one bookable date of a tour.
type Availability struct {
	Date      openapi_types.Date `json:"date"`
	SpotsLeft int                `json:"spots_left"`
}

// ListTours handles GET /tours.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=12, max=48).
func (s *Server) ListTours(w http.ResponseWriter, r *http.Request) {
	p, ok := pageParams(w, r)
	if !ok {
		return
	}
	res, err := s.tours.List(r.Context(), s.locale(r), p)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	data := make([]Tour, len(res.Items))
	for i, t := range res.Items {
		data[i] = tourToResponse(t)
	}
	writeJSON(w, http.StatusOK, ListResponse[Tour]{
		Data:       data,
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: res.Total},
	})
}

// GetTour handles GET /tours/{id}.
func (s *Server) GetTour(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	t, err := s.tours.Get(r.Context(), id, s.locale(r))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, notFoundBody("tour not found"))
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tourToResponse(t))
}

// GetTourAvailability handles GET /tours/{id}/availability.
// Lists upcoming dates a visitor may book, in date order.
func (s *Server) GetTourAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	records, err := s.tours.AvailableDates(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, notFoundBody("tour not found"))
			return
		}
		s.internalError(w, r, err)
		return
	}

	out := make([]Availability, 0, len(records))
	for _, rec := range records {
		d, ok := civilDate(rec.AvailableDate)
		if !ok {
			continue
		}
		out = append(out, Availability{Date: d, SpotsLeft: rec.SpotsLeft()})
	}
	writeJSON(w, http.StatusOK, map[string][]Availability{"data": out})
}

// tourToResponse converts a domain.LocalizedTour to the API response type.
// Empty strings become nil pointers for optional JSON fields so they are
// omitted from the response rather than sent as empty strings.
func tourToResponse(t domain.LocalizedTour) Tour {
	return Tour{
		ID:          t.ID,
		Slug:        t.Slug,
		Locale:      string(t.Locale),
		Title:       t.Title,
		Description: t.Description,
		Price:       t.Price,
		ChildPrice:  domain.ChildPrice(t.Price),
		Duration:    nilIfEmpty(t.Duration),
		ImageURL:    nilIfEmpty(t.ImageURL),
	}
}
