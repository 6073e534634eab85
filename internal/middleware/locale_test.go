package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/i18n"
	"github.com/pkordes/tourbook/internal/middleware"
)

// localeEcho writes the resolved locale as the response body.
var localeEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(middleware.LocaleFrom(r.Context(), "none")))
})

func TestLocaleHandler_Precedence(t *testing.T) {
	h := middleware.NewLocaleHandler(i18n.NewNegotiator(domain.SupportedLocales, domain.LocalePT))(localeEcho)

	cases := []struct {
		name   string
		target string
		cookie string
		accept string
		want   string
	}{
		{"fallback", "/tours", "", "", "pt"},
		{"accept-language", "/tours", "", "es-AR,es;q=0.9", "es"},
		{"unsupported accept-language", "/tours", "", "de-DE", "pt"},
		{"cookie beats header", "/tours", "en", "es", "en"},
		{"query beats cookie", "/tours?lang=es", "en", "", "es"},
		{"invalid query ignored", "/tours?lang=xx", "en", "", "en"},
		{"region stripped", "/tours?lang=pt-BR", "", "en", "pt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middleware.LocaleCookie, Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Body.String())
			assert.Equal(t, tc.want, rec.Header().Get("Content-Language"))
		})
	}
}

func TestLocaleHandler_QueryPersistsCookie(t *testing.T) {
	h := middleware.NewLocaleHandler(i18n.NewNegotiator(domain.SupportedLocales, domain.LocalePT))(localeEcho)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tours?lang=en", nil))

	cookies := rec.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, middleware.LocaleCookie, cookies[0].Name)
		assert.Equal(t, "en", cookies[0].Value)
	}
}

func TestLocaleFrom_Fallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Equal(t, domain.LocaleES, middleware.LocaleFrom(req.Context(), domain.LocaleES))
}
