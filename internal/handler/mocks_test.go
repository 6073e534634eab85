package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/handler"
	"github.com/pkordes/tourbook/internal/middleware"
	"github.com/pkordes/tourbook/internal/service"
)

// ---- mock servicers --------------------------------------------------------
// Each method is a function field; tests set only what they exercise.

type mockTourServicer struct {
	get            func(ctx context.Context, id uuid.UUID, locale domain.Locale) (domain.LocalizedTour, error)
	list           func(ctx context.Context, locale domain.Locale, p domain.PageRequest) (domain.Paged[domain.LocalizedTour], error)
	availableDates func(ctx context.Context, id uuid.UUID) ([]domain.AvailabilityRecord, error)
}

func (m *mockTourServicer) Get(ctx context.Context, id uuid.UUID, locale domain.Locale) (domain.LocalizedTour, error) {
	return m.get(ctx, id, locale)
}
func (m *mockTourServicer) List(ctx context.Context, locale domain.Locale, p domain.PageRequest) (domain.Paged[domain.LocalizedTour], error) {
	return m.list(ctx, locale, p)
}
func (m *mockTourServicer) AvailableDates(ctx context.Context, id uuid.UUID) ([]domain.AvailabilityRecord, error) {
	return m.availableDates(ctx, id)
}

type mockComboServicer struct {
	get  func(ctx context.Context, id uuid.UUID, locale domain.Locale) (domain.LocalizedCombo, error)
	list func(ctx context.Context, locale domain.Locale, p domain.PageRequest) (domain.Paged[domain.LocalizedCombo], error)
}

func (m *mockComboServicer) Get(ctx context.Context, id uuid.UUID, locale domain.Locale) (domain.LocalizedCombo, error) {
	return m.get(ctx, id, locale)
}
func (m *mockComboServicer) List(ctx context.Context, locale domain.Locale, p domain.PageRequest) (domain.Paged[domain.LocalizedCombo], error) {
	return m.list(ctx, locale, p)
}

type mockPostServicer struct {
	get        func(ctx context.Context, id uuid.UUID, locale domain.Locale) (domain.LocalizedPost, error)
	list       func(ctx context.Context, categorySlug string, locale domain.Locale, p domain.PageRequest) (domain.Paged[domain.LocalizedPost], error)
	categories func(ctx context.Context, locale domain.Locale) ([]domain.LocalizedCategory, error)
}

func (m *mockPostServicer) Get(ctx context.Context, id uuid.UUID, locale domain.Locale) (domain.LocalizedPost, error) {
	return m.get(ctx, id, locale)
}
func (m *mockPostServicer) List(ctx context.Context, categorySlug string, locale domain.Locale, p domain.PageRequest) (domain.Paged[domain.LocalizedPost], error) {
	return m.list(ctx, categorySlug, locale, p)
}
func (m *mockPostServicer) Categories(ctx context.Context, locale domain.Locale) ([]domain.LocalizedCategory, error) {
	return m.categories(ctx, locale)
}

type mockItineraryServicer struct {
	items          func(ctx context.Context, session string) ([]domain.LineItem, float64, error)
	add            func(ctx context.Context, session string, req service.AddRequest, locale domain.Locale) (domain.LineItem, error)
	updateQuantity func(ctx context.Context, session, tourID, date string, adults, children int) (domain.LineItem, error)
	remove         func(ctx context.Context, session, tourID, date string) error
	clear          func(ctx context.Context, session string) error
	checkout       func(ctx context.Context, session string, customer domain.Customer, locale domain.Locale) (service.Checkout, error)
}

func (m *mockItineraryServicer) Items(ctx context.Context, session string) ([]domain.LineItem, float64, error) {
	return m.items(ctx, session)
}
func (m *mockItineraryServicer) Add(ctx context.Context, session string, req service.AddRequest, locale domain.Locale) (domain.LineItem, error) {
	return m.add(ctx, session, req, locale)
}
func (m *mockItineraryServicer) UpdateQuantity(ctx context.Context, session, tourID, date string, adults, children int) (domain.LineItem, error) {
	return m.updateQuantity(ctx, session, tourID, date, adults, children)
}
func (m *mockItineraryServicer) Remove(ctx context.Context, session, tourID, date string) error {
	return m.remove(ctx, session, tourID, date)
}
func (m *mockItineraryServicer) Clear(ctx context.Context, session string) error {
	return m.clear(ctx, session)
}
func (m *mockItineraryServicer) Checkout(ctx context.Context, session string, customer domain.Customer, locale domain.Locale) (service.Checkout, error) {
	return m.checkout(ctx, session, customer, locale)
}

type mockExportServicer struct {
	export func(ctx context.Context, session string) ([]domain.ExportRow, float64, error)
}

func (m *mockExportServicer) Export(ctx context.Context, session string) ([]domain.ExportRow, float64, error) {
	return m.export(ctx, session)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TourServicer      = (*mockTourServicer)(nil)
	_ handler.ComboServicer     = (*mockComboServicer)(nil)
	_ handler.PostServicer      = (*mockPostServicer)(nil)
	_ handler.ItineraryServicer = (*mockItineraryServicer)(nil)
	_ handler.ExportServicer    = (*mockExportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

const testSession = "0b7f9c7e-1d2a-4f3b-8c4d-5e6f7a8b9c0d"

var tourID = uuid.MustParse("6f1c1b8e-7c0a-4d55-9a52-3f4b6a1d2e01")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// deps bundles the mocks a test wires into the Server. Nil fields stay nil.
type deps struct {
	tours     handler.TourServicer
	combos    handler.ComboServicer
	posts     handler.PostServicer
	itinerary handler.ItineraryServicer
	export    handler.ExportServicer
}

// newHTTPHandler wires a Server routed exactly as main.go routes it, with a
// fixed session and the English locale injected ahead of the router.
func newHTTPHandler(d deps) http.Handler {
	srv := handler.NewServer(d.tours, d.combos, d.posts, d.itinerary, d.export, domain.LocalePT, discardLogger())
	routes := srv.Routes()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := middleware.WithSession(r.Context(), testSession)
		ctx = middleware.WithLocale(ctx, domain.LocaleEN)
		routes.ServeHTTP(w, r.WithContext(ctx))
	})
}

func localizedTour() domain.LocalizedTour {
	return domain.LocalizedTour{
		Tour: domain.Tour{
			ID:       tourID,
			Slug:     "christ-the-redeemer",
			Price:    100,
			Duration: "4h",
		},
		Locale:      domain.LocaleEN,
		Title:       "Christ the Redeemer",
		Description: "Up the Corcovado.",
	}
}
