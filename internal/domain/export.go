package domain

// ExportRow is one line item of an itinerary export, flattened for
// spreadsheets. Position is 1-based and follows insertion order, matching the
// numbering of the checkout message.
type ExportRow struct {
	Position   int
	TourID     string
	TourTitle  string
	Date       string // "2006-01-02"
	Adults     int
	Children   int
	UnitPrice  float64
	ChildPrice float64
	Subtotal   float64
	Notes      string
}
