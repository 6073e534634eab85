package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tourbook/internal/checkout"
	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/service"
)

// qrSize is the edge length in pixels of the checkout QR code.
const qrSize = 320

// LineItem is the API representation of one booked tour date.
type LineItem struct {
	TourID     string             `json:"tour_id"`
	TourTitle  string             `json:"tour_title"`
	Date       openapi_types.Date `json:"date"`
	Adults     int                `json:"adults"`
	Children   int                `json:"children"`
	Price      float64            `json:"price"`
	ChildPrice float64            `json:"child_price"`
	Subtotal   float64            `json:"subtotal"`
	Notes      *string            `json:"notes,omitempty"`
}

// Itinerary is the body of GET /itinerary.
type Itinerary struct {
	Items []LineItem `json:"items"`
	Total float64    `json:"total"`
}

// AddItemRequest is the body of POST /itinerary/items.
type AddItemRequest struct {
	TourID   uuid.UUID          `json:"tour_id"`
	Date     openapi_types.Date `json:"date"`
	Adults   int                `json:"adults"`
	Children int                `json:"children"`
	Notes    string             `json:"notes"`
}

// UpdateItemRequest is the body of PUT /itinerary/items.
type UpdateItemRequest struct {
	TourID   uuid.UUID          `json:"tour_id"`
	Date     openapi_types.Date `json:"date"`
	Adults   int                `json:"adults"`
	Children int                `json:"children"`
}

// CheckoutRequest is the body of POST /itinerary/checkout.
type CheckoutRequest struct {
	Name    string `json:"name"`
	Hotel   string `json:"hotel"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
}

// CheckoutResponse carries the rendered booking request and its deep link.
type CheckoutResponse struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}

// GetItinerary handles GET /itinerary.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	items, total, err := s.itinerary.Items(r.Context(), session)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	out := Itinerary{Items: make([]LineItem, 0, len(items)), Total: total}
	for _, it := range items {
		out.Items = append(out.Items, lineItemToResponse(it))
	}
	writeJSON(w, http.StatusOK, out)
}

// AddItineraryItem handles POST /itinerary/items.
// Booking the same tour on the same date again replaces the earlier booking.
func (s *Server) AddItineraryItem(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var body AddItemRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.TourID == uuid.Nil || body.Date.IsZero() {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("tour_id and date are required"))
		return
	}

	item, err := s.itinerary.Add(r.Context(), session, service.AddRequest{
		TourID:   body.TourID,
		Date:     body.Date.Format(domain.DateLayout),
		Adults:   body.Adults,
		Children: body.Children,
		Notes:    body.Notes,
	}, s.locale(r))
	if err != nil {
		s.itineraryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lineItemToResponse(item))
}

// UpdateItineraryItem handles PUT /itinerary/items.
func (s *Server) UpdateItineraryItem(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var body UpdateItemRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.TourID == uuid.Nil || body.Date.IsZero() {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("tour_id and date are required"))
		return
	}

	item, err := s.itinerary.UpdateQuantity(r.Context(), session,
		body.TourID.String(), body.Date.Format(domain.DateLayout), body.Adults, body.Children)
	if err != nil {
		s.itineraryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lineItemToResponse(item))
}

// RemoveItineraryItem handles DELETE /itinerary/items?tour_id=&date=.
// Returns 204 whether or not the booking existed.
func (s *Server) RemoveItineraryItem(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var (
		tourID openapi_types.UUID
		date   openapi_types.Date
	)
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "tour_id", q, &tourID); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("tour_id is required and must be a UUID"))
		return
	}
	if err := runtime.BindQueryParameter("form", true, true, "date", q, &date); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("date is required and must be YYYY-MM-DD"))
		return
	}

	if err := s.itinerary.Remove(r.Context(), session, tourID.String(), date.Format(domain.DateLayout)); err != nil {
		s.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearItinerary handles DELETE /itinerary.
func (s *Server) ClearItinerary(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := s.itinerary.Clear(r.Context(), session); err != nil {
		s.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /itinerary/checkout.
// With Accept: image/png the deep link is returned as a QR code instead of JSON.
func (s *Server) Checkout(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var body CheckoutRequest
	if !decodeBody(w, r, &body) {
		return
	}

	res, err := s.itinerary.Checkout(r.Context(), session, domain.Customer{
		Name:    body.Name,
		Hotel:   body.Hotel,
		Contact: body.Contact,
		Email:   body.Email,
	}, s.locale(r))
	if err != nil {
		s.itineraryError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "image/png") {
		png, err := checkout.QRCode(res.Link, qrSize)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
		return
	}
	writeJSON(w, http.StatusOK, CheckoutResponse{Message: res.Message, Link: res.Link})
}

// itineraryError maps service errors of the itinerary endpoints to responses.
func (s *Server) itineraryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrIncompleteCustomerInfo):
		writeJSON(w, http.StatusUnprocessableEntity, incompleteCustomerBody(err))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody("not found"))
	default:
		s.internalError(w, r, err)
	}
}

// lineItemToResponse converts a domain.LineItem to the API type. The date was
// validated on the way in, so a parse failure leaves the zero date.
func lineItemToResponse(it domain.LineItem) LineItem {
	d, _ := civilDate(it.Date)
	return LineItem{
		TourID:     it.TourID,
		TourTitle:  it.TourTitle,
		Date:       d,
		Adults:     it.Adults,
		Children:   it.Children,
		Price:      it.Price,
		ChildPrice: domain.ChildPrice(it.Price),
		Subtotal:   it.Subtotal,
		Notes:      nilIfEmpty(it.Notes),
	}
}
