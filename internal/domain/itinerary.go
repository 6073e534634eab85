// Package domain contains the core data types for the tour itinerary backend.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler, itinerary, checkout).
package domain

import "time"

// DateLayout is the ISO calendar date format used for booking dates and
// availability dates throughout the service.
const DateLayout = "2006-01-02"

// ChildPriceFactor is the share of the adult price charged per child.
const ChildPriceFactor = 0.5

// LineItem is one tour booked for one date with a party size.
// The JSON field names are the persisted layout of an itinerary snapshot and
// must not change without a migration of stored snapshots.
type LineItem struct {
	TourID    string  `json:"tourId"`
	TourTitle string  `json:"tourTitle"` // captured at add time, never re-fetched
	Date      string  `json:"date"`      // "2006-01-02"
	Adults    int     `json:"adults"`
	Children  int     `json:"children"`
	Price     float64 `json:"price"` // adult unit price, captured at add time
	Subtotal  float64 `json:"subtotal"`
	Notes     string  `json:"notes,omitempty"`
}

// ItemKey is the natural key of a LineItem.
type ItemKey struct {
	TourID string
	Date   string
}

// Key returns the (tourId, date) pair identifying the item.
func (li LineItem) Key() ItemKey {
	return ItemKey{TourID: li.TourID, Date: li.Date}
}

// Reprice returns a copy of li with Subtotal recomputed from Price, Adults
// and Children. Every code path that changes the party size goes through it.
func (li LineItem) Reprice() LineItem {
	li.Subtotal = Subtotal(li.Price, li.Adults, li.Children)
	return li
}

// Subtotal is the single pricing rule: adults pay the unit price, children
// pay ChildPriceFactor of it.
func Subtotal(price float64, adults, children int) float64 {
	return price * (float64(adults) + float64(children)*ChildPriceFactor)
}

// ChildPrice returns the per-child price for an adult unit price.
func ChildPrice(price float64) float64 {
	return price * ChildPriceFactor
}

// Total sums the subtotals of items. The empty itinerary totals zero.
func Total(items []LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Subtotal
	}
	return total
}

// ParseDate parses an ISO calendar date into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
