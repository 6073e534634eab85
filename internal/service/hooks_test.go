package service

import "time"

// SetItineraryClock replaces the clock Add uses to reject past dates.
func SetItineraryClock(s *ItineraryService, now func() time.Time) { s.now = now }
