package domain

import "strings"

// Locale is a content language code. Only the base language is kept
// ("pt-BR" and "pt" are the same locale).
type Locale string

// Supported content locales.
const (
	LocalePT Locale = "pt"
	LocaleEN Locale = "en"
	LocaleES Locale = "es"
)

// SupportedLocales lists every locale content can be authored in, in the
// order they are offered to visitors.
var SupportedLocales = []Locale{LocalePT, LocaleEN, LocaleES}

// ParseLocale normalizes s to a supported Locale.
// It returns false when s does not name a supported language.
func ParseLocale(s string) (Locale, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "-_"); i != -1 {
		s = s[:i]
	}
	for _, l := range SupportedLocales {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}
