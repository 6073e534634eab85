package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// SessionCookie holds the id of the visitor's itinerary.
const SessionCookie = "itinerary_session"

// sessionMaxAge keeps the cookie for 30 days.
const sessionMaxAge = 30 * 24 * 60 * 60

type sessionKey struct{}

// NewSessionHandler makes sure every request carries an itinerary session id.
// A missing or malformed cookie is replaced with a fresh random id. The cookie
// is HttpOnly; secure marks it HTTPS-only.
func NewSessionHandler(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookie); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}
			fresh := id == ""
			if fresh {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   sessionMaxAge,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			if f := requestFieldsFrom(r.Context()); f != nil {
				f.session, f.newSession = id, fresh
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), id)))
		})
	}
}

// WithSession returns a copy of ctx carrying the session id.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFrom returns the session id stored by NewSessionHandler.
func SessionFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKey{}).(string)
	return id, ok && id != ""
}
