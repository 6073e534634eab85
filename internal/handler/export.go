package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"position", "tour_id", "tour_title", "date", "adults", "children",
	"unit_price", "child_price", "subtotal", "notes",
}

// ExportRow is one line of the JSON itinerary export.
type ExportRow struct {
	Position   int     `json:"position"`
	TourID     string  `json:"tour_id"`
	TourTitle  string  `json:"tour_title"`
	Date       string  `json:"date"`
	Adults     int     `json:"adults"`
	Children   int     `json:"children"`
	UnitPrice  float64 `json:"unit_price"`
	ChildPrice float64 `json:"child_price"`
	Subtotal   float64 `json:"subtotal"`
	Notes      *string `json:"notes,omitempty"`
}

// ExportResponse is the JSON body of GET /itinerary/export.
type ExportResponse struct {
	Rows  []ExportRow `json:"rows"`
	Total float64     `json:"total"`
}

// ExportItinerary handles GET /itinerary/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportItinerary(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("invalid format"))
		return
	}
	wantCSV := false
	if format != nil {
		switch *format {
		case "csv":
			wantCSV = true
		case "json":
		default:
			writeJSON(w, http.StatusBadRequest, requestBody("format must be csv or json"))
			return
		}
	}

	rows, total, err := s.export.Export(r.Context(), session)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if !wantCSV {
		out := ExportResponse{Rows: make([]ExportRow, 0, len(rows)), Total: total}
		for _, row := range rows {
			out.Rows = append(out.Rows, ExportRow{
				Position:   row.Position,
				TourID:     row.TourID,
				TourTitle:  row.TourTitle,
				Date:       row.Date,
				Adults:     row.Adults,
				Children:   row.Children,
				UnitPrice:  row.UnitPrice,
				ChildPrice: row.ChildPrice,
				Subtotal:   row.Subtotal,
				Notes:      nilIfEmpty(row.Notes),
			})
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write([]string{
			strconv.Itoa(row.Position),
			row.TourID,
			row.TourTitle,
			row.Date,
			strconv.Itoa(row.Adults),
			strconv.Itoa(row.Children),
			money(row.UnitPrice),
			money(row.ChildPrice),
			money(row.Subtotal),
			row.Notes,
		})
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// money formats an amount with two decimals and a dot separator, the form
// spreadsheet imports expect regardless of the visitor's locale.
func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
