package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/middleware"
)

// pathID binds the {name} path parameter as a UUID. On failure it writes a
// 400 and returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("invalid "+name+": must be a UUID"))
		return uuid.Nil, false
	}
	return uuid.UUID(id), true
}

// pageParams binds the optional ?page= and ?limit= query parameters.
// Defaults: page=1, limit=12, max=48.
func pageParams(w http.ResponseWriter, r *http.Request) (domain.PageRequest, bool) {
	var page, limit *int
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("invalid page: must be an integer"))
		return domain.PageRequest{}, false
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("invalid limit: must be an integer"))
		return domain.PageRequest{}, false
	}
	return domain.NewPageRequest(page, limit), true
}

// locale returns the request locale resolved by the locale middleware.
func (s *Server) locale(r *http.Request) domain.Locale {
	return middleware.LocaleFrom(r.Context(), s.fallback)
}

// session returns the itinerary session id set by the session middleware.
// A missing session is a wiring error and yields a 500.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.SessionFrom(r.Context())
	if !ok {
		s.internalError(w, r, errNoSession)
		return "", false
	}
	return id, true
}

// civilDate converts an availability date to the API date type. The
// content repository returns either a bare date or a full timestamp.
func civilDate(s string) (openapi_types.Date, bool) {
	if t, err := domain.ParseDate(s); err == nil {
		return openapi_types.Date{Time: t}, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return openapi_types.Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}, true
	}
	return openapi_types.Date{}, false
}

// nilIfEmpty converts an empty string to a nil pointer.
// Used when mapping domain strings to optional API response fields.
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
