package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/i18n"
)

var translations = []domain.TourTranslation{
	{Locale: domain.LocalePT, Title: "Pão de Açúcar"},
	{Locale: domain.LocaleEN, Title: "Sugarloaf Mountain"},
}

func TestResolve_Requested(t *testing.T) {
	got, err := i18n.Resolve(translations, domain.LocaleEN, domain.LocalePT)

	require.NoError(t, err)
	assert.Equal(t, "Sugarloaf Mountain", got.Title)
}

func TestResolve_Fallback(t *testing.T) {
	got, err := i18n.Resolve(translations, domain.LocaleES, domain.LocalePT)

	require.NoError(t, err)
	assert.Equal(t, domain.LocalePT, got.Lang())
}

func TestResolve_Missing(t *testing.T) {
	only := []domain.PostTranslation{{Locale: domain.LocaleEN, Title: "Beaches"}}

	_, err := i18n.Resolve(only, domain.LocaleES, domain.LocalePT)

	assert.ErrorIs(t, err, domain.ErrTranslationMissing)
}

func TestResolve_Empty(t *testing.T) {
	_, err := i18n.Resolve([]domain.CategoryTranslation(nil), domain.LocalePT, domain.LocalePT)

	assert.ErrorIs(t, err, domain.ErrTranslationMissing)
}

func TestNegotiator_Negotiate(t *testing.T) {
	n := i18n.NewNegotiator(domain.SupportedLocales, domain.LocalePT)

	cases := map[string]domain.Locale{
		"":                         domain.LocalePT,
		"en-US,en;q=0.9":           domain.LocaleEN,
		"es-AR":                    domain.LocaleES,
		"fr-FR":                    domain.LocalePT,
		"fr;q=0.9, es;q=0.8":       domain.LocaleES,
		"pt-BR,pt;q=0.9,en;q=0.8":  domain.LocalePT,
		"not a valid header ;;q=x": domain.LocalePT,
	}
	for header, want := range cases {
		assert.Equal(t, want, n.Negotiate(header), "Accept-Language %q", header)
	}
}

func TestNegotiator_Parse(t *testing.T) {
	n := i18n.NewNegotiator([]domain.Locale{domain.LocalePT, domain.LocaleEN}, domain.LocalePT)

	got, ok := n.Parse("en-GB")
	assert.True(t, ok)
	assert.Equal(t, domain.LocaleEN, got)

	got, ok = n.Parse("es")
	assert.False(t, ok, "es is not in this negotiator's set")
	assert.Equal(t, domain.LocalePT, got)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "10/01/2025", i18n.FormatDate("2025-01-10", domain.LocalePT))
	assert.Equal(t, "10/01/2025", i18n.FormatDate("2025-01-10", domain.LocaleES))
	assert.Equal(t, "01/10/2025", i18n.FormatDate("2025-01-10", domain.LocaleEN))
	assert.Equal(t, "soon", i18n.FormatDate("soon", domain.LocaleEN))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "250.00", i18n.FormatAmount(250, domain.LocaleEN))
	assert.Equal(t, "250,00", i18n.FormatAmount(250, domain.LocalePT))
	assert.Equal(t, "49,50", i18n.FormatAmount(49.5, domain.LocaleES))
}
