// Package handler implements the HTTP handlers for the tour API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, tour.go, itinerary.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/service"
)

// TourServicer defines the catalog operations the tour handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TourServicer interface {
	Get(ctx context.Context, id uuid.UUID, locale domain.Locale) (domain.LocalizedTour, error)
	List(ctx context.Context, locale domain.Locale, p domain.PageRequest) (domain.Paged[domain.LocalizedTour], error)
	AvailableDates(ctx context.Context, id uuid.UUID) ([]domain.AvailabilityRecord, error)
}

// ComboServicer defines the operations the combo handlers depend on.
type ComboServicer interface {
	Get(ctx context.Context, id uuid.UUID, locale domain.Locale) (domain.LocalizedCombo, error)
	List(ctx context.Context, locale domain.Locale, p domain.PageRequest) (domain.Paged[domain.LocalizedCombo], error)
}

// PostServicer defines the operations the blog handlers depend on.
type PostServicer interface {
	Get(ctx context.Context, id uuid.UUID, locale domain.Locale) (domain.LocalizedPost, error)
	List(ctx context.Context, categorySlug string, locale domain.Locale, p domain.PageRequest) (domain.Paged[domain.LocalizedPost], error)
	Categories(ctx context.Context, locale domain.Locale) ([]domain.LocalizedCategory, error)
}

// ItineraryServicer defines the per-session booking operations.
type ItineraryServicer interface {
	Items(ctx context.Context, session string) ([]domain.LineItem, float64, error)
	Add(ctx context.Context, session string, req service.AddRequest, locale domain.Locale) (domain.LineItem, error)
	UpdateQuantity(ctx context.Context, session, tourID, date string, adults, children int) (domain.LineItem, error)
	Remove(ctx context.Context, session, tourID, date string) error
	Clear(ctx context.Context, session string) error
	Checkout(ctx context.Context, session string, customer domain.Customer, locale domain.Locale) (service.Checkout, error)
}

// ExportServicer defines the operation the itinerary export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context, session string) ([]domain.ExportRow, float64, error)
}

// Server holds the dependencies of every API endpoint.
// Wire it in main.go via Routes.
type Server struct {
	tours     TourServicer
	combos    ComboServicer
	posts     PostServicer
	itinerary ItineraryServicer
	export    ExportServicer
	fallback  domain.Locale
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// fallback is the locale assumed when no locale middleware ran.
func NewServer(tours TourServicer, combos ComboServicer, posts PostServicer, itinerary ItineraryServicer, export ExportServicer, fallback domain.Locale, log *slog.Logger) *Server {
	return &Server{
		tours:     tours,
		combos:    combos,
		posts:     posts,
		itinerary: itinerary,
		export:    export,
		fallback:  fallback,
		log:       log,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, nil, domain.LocalePT, slog.Default())
}

// Routes returns the API router. checkout middleware (rate limiting) applies
// to POST /itinerary/checkout only. Session and locale middleware are the
// caller's concern; itinerary routes require a session in the context.
func (s *Server) Routes(checkout ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/tours", func(r chi.Router) {
		r.Get("/", s.ListTours)
		r.Get("/{id}", s.GetTour)
		r.Get("/{id}/availability", s.GetTourAvailability)
	})
	r.Route("/combos", func(r chi.Router) {
		r.Get("/", s.ListCombos)
		r.Get("/{id}", s.GetCombo)
	})
	r.Get("/categories", s.ListCategories)
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", s.ListPosts)
		r.Get("/{id}", s.GetPost)
	})

	r.Route("/itinerary", func(r chi.Router) {
		r.Get("/", s.GetItinerary)
		r.Delete("/", s.ClearItinerary)
		r.Post("/items", s.AddItineraryItem)
		r.Put("/items", s.UpdateItineraryItem)
		r.Delete("/items", s.RemoveItineraryItem)
		r.Get("/export", s.ExportItinerary)
		r.With(checkout...).Post("/checkout", s.Checkout)
	})

	return r
}
