package domain

// AvailabilityRecord is a per-date capacity entry for a tour, as read from the
// content repository. AvailableDate is kept as the raw string because the
// repository is not trusted to always return a well-formed date.
type AvailabilityRecord struct {
	TourID        string
	AvailableDate string
	TotalSpots    int
	SpotsBooked   int
}

// Biddable reports whether the date still has open spots.
func (r AvailabilityRecord) Biddable() bool {
	return r.TotalSpots > r.SpotsBooked
}

// SpotsLeft returns the number of open spots, never negative.
func (r AvailabilityRecord) SpotsLeft() int {
	if left := r.TotalSpots - r.SpotsBooked; left > 0 {
		return left
	}
	return 0
}

// ExclusionRules are the per-tour rules that remove dates from the offerable
// set: whole weekdays (0 = Sunday … 6 = Saturday) and specific ISO dates.
type ExclusionRules struct {
	Weekdays []int
	Dates    []string
}
