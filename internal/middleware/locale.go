package middleware

import (
	"context"
	"net/http"

	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/i18n"
)

// LocaleCookie remembers an explicit language choice across requests.
const LocaleCookie = "lang"

type localeKey struct{}

// NewLocaleHandler resolves the request locale and stores it in the context.
// Precedence: ?lang= query parameter, the lang cookie, Accept-Language, then
// the negotiator's fallback. A valid ?lang= is also written to the cookie.
func NewLocaleHandler(n *i18n.Negotiator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := n.Negotiate(r.Header.Get("Accept-Language"))

			if c, err := r.Cookie(LocaleCookie); err == nil {
				if l, ok := n.Parse(c.Value); ok {
					locale = l
				}
			}
			if q := r.URL.Query().Get("lang"); q != "" {
				if l, ok := n.Parse(q); ok {
					locale = l
					http.SetCookie(w, &http.Cookie{
						Name:     LocaleCookie,
						Value:    string(l),
						Path:     "/",
						MaxAge:   365 * 24 * 60 * 60,
						SameSite: http.SameSiteLaxMode,
					})
				}
			}

			w.Header().Set("Content-Language", string(locale))
			if f := requestFieldsFrom(r.Context()); f != nil {
				f.locale = locale
			}
			next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), locale)))
		})
	}
}

// WithLocale returns a copy of ctx carrying locale.
func WithLocale(ctx context.Context, locale domain.Locale) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// LocaleFrom returns the locale stored by NewLocaleHandler, or fallback.
func LocaleFrom(ctx context.Context, fallback domain.Locale) domain.Locale {
	if l, ok := ctx.Value(localeKey{}).(domain.Locale); ok {
		return l
	}
	return fallback
}
