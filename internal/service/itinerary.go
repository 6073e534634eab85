package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tourbook/internal/availability"
	"github.com/pkordes/tourbook/internal/checkout"
	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/i18n"
	"github.com/pkordes/tourbook/internal/itinerary"
	"github.com/pkordes/tourbook/internal/repo"
)

// CheckoutConfig names the messaging channel a finished itinerary is sent to.
type CheckoutConfig struct {
	Host      string // e.g. "wa.me"
	Recipient string // operator phone number
}

// AddRequest is a booking of one tour on one date.
type AddRequest struct {
	TourID   uuid.UUID
	Date     string
	Adults   int
	Children int
	Notes    string
}

// Checkout is the result of a completed checkout.
type Checkout struct {
	Message string
	Link    string
}

// ItineraryService applies booking rules on top of the per-session stores.
type ItineraryService struct {
	sessions *itinerary.Sessions
	tours    repo.TourRepo
	labels   *checkout.LabelSet
	cfg      CheckoutConfig
	fallback domain.Locale
	log      *slog.Logger
	now      func() time.Time
}

// NewItineraryService constructs an ItineraryService.
func NewItineraryService(sessions *itinerary.Sessions, tours repo.TourRepo, labels *checkout.LabelSet, cfg CheckoutConfig, fallback domain.Locale, log *slog.Logger) *ItineraryService {
	return &ItineraryService{
		sessions: sessions,
		tours:    tours,
		labels:   labels,
		cfg:      cfg,
		fallback: fallback,
		log:      log,
		now:      time.Now,
	}
}

// Items returns the line items of a session and their total.
func (s *ItineraryService) Items(ctx context.Context, session string) ([]domain.LineItem, float64, error) {
	store, err := s.sessions.Get(ctx, session)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ItineraryService.Items: %w", err)
	}
	items, total := store.Snapshot()
	return items, total, nil
}

// Add books a tour date into the session's itinerary, replacing an existing
// booking of the same tour and date. The tour title and unit price are
// captured now and never re-fetched.
// Returns domain.ErrValidation for a bad party size, a past date or a date
// that is not offered, domain.ErrNotFound if the tour does not exist.
func (s *ItineraryService) Add(ctx context.Context, session string, req AddRequest, locale domain.Locale) (domain.LineItem, error) {
	if err := validateParty(req.Adults, req.Children); err != nil {
		return domain.LineItem{}, err
	}
	day, err := domain.ParseDate(req.Date)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}
	today := startOfDay(s.now())
	if day.Before(today) {
		return domain.LineItem{}, fmt.Errorf("%w: %s is in the past", domain.ErrValidation, req.Date)
	}

	tour, err := s.tours.GetByID(ctx, req.TourID)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("service.ItineraryService.Add: %w", err)
	}
	records, err := s.tours.ListAvailability(ctx, tour.ID, today)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("service.ItineraryService.Add: %w", err)
	}
	date := day.Format(domain.DateLayout)
	if !availability.IsOfferable(date, records, tour.Exclusions, s.log) {
		return domain.LineItem{}, fmt.Errorf("%w: %s is not available for this tour", domain.ErrValidation, date)
	}

	item := domain.LineItem{
		TourID:    tour.ID.String(),
		TourTitle: tourTitle(tour, locale, s.fallback),
		Date:      date,
		Adults:    req.Adults,
		Children:  req.Children,
		Price:     tour.Price,
		Notes:     strings.TrimSpace(req.Notes),
	}
	store, err := s.sessions.Get(ctx, session)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("service.ItineraryService.Add: %w", err)
	}
	store.AddItem(item)

	stored, _ := store.Get(item.TourID, item.Date)
	return stored, nil
}

// UpdateQuantity changes the party size of an existing booking.
// Returns domain.ErrValidation for a bad party size, domain.ErrNotFound if the
// session has no booking for tourID on date.
func (s *ItineraryService) UpdateQuantity(ctx context.Context, session, tourID, date string, adults, children int) (domain.LineItem, error) {
	if err := validateParty(adults, children); err != nil {
		return domain.LineItem{}, err
	}
	store, err := s.sessions.Get(ctx, session)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("service.ItineraryService.UpdateQuantity: %w", err)
	}
	if _, ok := store.Get(tourID, date); !ok {
		return domain.LineItem{}, fmt.Errorf("service.ItineraryService.UpdateQuantity: %w", domain.ErrNotFound)
	}
	store.UpdateQuantity(tourID, date, adults, children)

	item, ok := store.Get(tourID, date)
	if !ok {
		// removed by a concurrent request
		return domain.LineItem{}, fmt.Errorf("service.ItineraryService.UpdateQuantity: %w", domain.ErrNotFound)
	}
	return item, nil
}

// Remove deletes a booking. Removing an absent booking is not an error.
func (s *ItineraryService) Remove(ctx context.Context, session, tourID, date string) error {
	store, err := s.sessions.Get(ctx, session)
	if err != nil {
		return fmt.Errorf("service.ItineraryService.Remove: %w", err)
	}
	store.RemoveItem(tourID, date)
	return nil
}

// Clear empties the session's itinerary.
func (s *ItineraryService) Clear(ctx context.Context, session string) error {
	store, err := s.sessions.Get(ctx, session)
	if err != nil {
		return fmt.Errorf("service.ItineraryService.Clear: %w", err)
	}
	store.Clear()
	return nil
}

// Checkout renders the booking request for the session, clears the
// itinerary, and returns the message with its deep link.
//
// The message is built before the store is cleared, because it is the last
// reader of the itinerary. On domain.ErrIncompleteCustomerInfo or an empty
// itinerary (domain.ErrValidation) the store is left untouched.
func (s *ItineraryService) Checkout(ctx context.Context, session string, customer domain.Customer, locale domain.Locale) (Checkout, error) {
	store, err := s.sessions.Get(ctx, session)
	if err != nil {
		return Checkout{}, fmt.Errorf("service.ItineraryService.Checkout: %w", err)
	}
	items, total := store.Snapshot()
	if len(items) == 0 {
		return Checkout{}, fmt.Errorf("%w: itinerary is empty", domain.ErrValidation)
	}

	msg, err := checkout.BuildMessage(customer, items, total, s.labels.For(locale))
	if err != nil {
		return Checkout{}, fmt.Errorf("service.ItineraryService.Checkout: %w", err)
	}
	store.Clear()

	s.log.InfoContext(ctx, "itinerary: checkout completed",
		"items", len(items),
		"total", total,
		"locale", locale,
	)
	return Checkout{Message: msg, Link: checkout.DeepLink(s.cfg.Host, s.cfg.Recipient, msg)}, nil
}

// validateParty enforces the party size rules shared by Add and UpdateQuantity.
//   - At least one adult.
//   - Children must not be negative.
func validateParty(adults, children int) error {
	if adults < 1 {
		return fmt.Errorf("%w: adults must be at least 1", domain.ErrValidation)
	}
	if children < 0 {
		return fmt.Errorf("%w: children must not be negative", domain.ErrValidation)
	}
	return nil
}

// tourTitle picks the display title captured into a line item. A tour with
// no translation at all falls back to its slug rather than blocking the booking.
func tourTitle(t domain.Tour, locale, fallback domain.Locale) string {
	tr, err := i18n.Resolve(t.Translations, locale, fallback)
	if err != nil {
		return t.Slug
	}
	return tr.Title
}
