// Package i18n resolves locales and locale-specific content.
// Every content type (tours, combos, posts, categories) goes through Resolve
// instead of its own find-then-fallback chain.
package i18n

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pkordes/tourbook/internal/domain"
)

// Localized is implemented by every per-locale translation record.
type Localized interface {
	Lang() domain.Locale
}

// Resolve picks the translation for requested, else the one for fallback.
// It returns domain.ErrTranslationMissing when neither exists; callers treat
// the entity as not displayable.
func Resolve[T Localized](translations []T, requested, fallback domain.Locale) (T, error) {
	for _, want := range []domain.Locale{requested, fallback} {
		for _, t := range translations {
			if t.Lang() == want {
				return t, nil
			}
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: requested %q, fallback %q", domain.ErrTranslationMissing, requested, fallback)
}

// Negotiator chooses a supported locale from an Accept-Language header.
type Negotiator struct {
	locales  []domain.Locale
	matcher  language.Matcher
	fallback domain.Locale
}

// NewNegotiator builds a Negotiator over supported with fallback as the
// answer when nothing matches. fallback must be one of supported.
func NewNegotiator(supported []domain.Locale, fallback domain.Locale) *Negotiator {
	// The matcher answers with its first tag when nothing matches, so the
	// fallback goes first.
	ordered := []domain.Locale{fallback}
	for _, l := range supported {
		if l != fallback {
			ordered = append(ordered, l)
		}
	}
	tags := make([]language.Tag, len(ordered))
	for i, l := range ordered {
		tags[i] = language.Make(string(l))
	}
	return &Negotiator{locales: ordered, matcher: language.NewMatcher(tags), fallback: fallback}
}

// Fallback returns the configured fallback locale.
func (n *Negotiator) Fallback() domain.Locale { return n.fallback }

// Negotiate returns the best supported locale for an Accept-Language value.
func (n *Negotiator) Negotiate(acceptLanguage string) domain.Locale {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return n.fallback
	}
	_, idx, conf := n.matcher.Match(prefs...)
	if conf == language.No || idx < 0 || idx >= len(n.locales) {
		return n.fallback
	}
	return n.locales[idx]
}

// Parse returns the supported locale named by s, or the fallback.
func (n *Negotiator) Parse(s string) (domain.Locale, bool) {
	l, ok := domain.ParseLocale(s)
	if !ok {
		return n.fallback, false
	}
	for _, sup := range n.locales {
		if sup == l {
			return l, true
		}
	}
	return n.fallback, false
}

// dateLayouts are the short display formats per locale.
var dateLayouts = map[domain.Locale]string{
	domain.LocalePT: "02/01/2006",
	domain.LocaleES: "02/01/2006",
	domain.LocaleEN: "01/02/2006",
}

// FormatDate renders an ISO calendar date in the display format of locale.
// The date is treated as a civil date, never shifted by a time zone.
// Unparseable input is returned unchanged.
func FormatDate(iso string, locale domain.Locale) string {
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(iso))
	if err != nil {
		return iso
	}
	layout, ok := dateLayouts[locale]
	if !ok {
		layout = domain.DateLayout
	}
	return t.Format(layout)
}

// FormatAmount renders a money amount with two decimals using the number
// conventions of locale (decimal comma for pt and es).
func FormatAmount(amount float64, locale domain.Locale) string {
	p := message.NewPrinter(language.Make(string(locale)))
	return p.Sprintf("%.2f", amount)
}
