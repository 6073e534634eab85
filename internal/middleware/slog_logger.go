// Package middleware provides HTTP middleware for the tour API server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/tourbook/internal/domain"
)

// sessionLogPrefix is how much of the session id reaches the log. The full id
// is the only credential guarding an itinerary.
const sessionLogPrefix = 8

// requestFields is filled in by middleware running inside NewSlogLogger, so
// the request line can carry what they resolved. A request is served by one
// goroutine, so the fields need no locking.
type requestFields struct {
	session    string
	newSession bool
	locale     domain.Locale
}

type requestFieldsKey struct{}

func requestFieldsFrom(ctx context.Context) *requestFields {
	f, _ := ctx.Value(requestFieldsKey{}).(*requestFields)
	return f
}

// NewSlogLogger returns a middleware that logs each request as a structured
// line via log. Besides method, path, status, size, duration and the chi
// request ID, the line names the itinerary session and the negotiated locale
// when the session and locale middleware ran for the request.
// Server errors are logged at error level.
//
// Wire it after chimiddleware.RequestID and before the session and locale
// middleware.
func NewSlogLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			fields := &requestFields{}
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestFieldsKey{}, fields)))

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("request_id", chimiddleware.GetReqID(r.Context())),
			}
			if fields.session != "" {
				attrs = append(attrs,
					slog.String("session", truncate(fields.session, sessionLogPrefix)),
					slog.Bool("new_session", fields.newSession),
				)
			}
			if fields.locale != "" {
				attrs = append(attrs, slog.String("locale", string(fields.locale)))
			}

			level := slog.LevelInfo
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			log.LogAttrs(r.Context(), level, "request", attrs...)
		})
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
