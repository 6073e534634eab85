// Package checkout turns an itinerary and a customer contact form into the
// plain-text booking request handed to the messaging channel.
package checkout

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html/atom"

	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/i18n"
)

// strict removes every HTML element from user-supplied text.
var strict = bluemonday.StrictPolicy()

// tagPattern matches an opening or closing tag; group 1 is the element name.
var tagPattern = regexp.MustCompile(`</?([A-Za-z][A-Za-z0-9]*)(?:\s[^<>]*)?/?>`)

// BuildMessage renders the booking request. It returns an error wrapping
// domain.ErrIncompleteCustomerInfo, and no message, when any contact field is
// empty once markup is stripped. Otherwise the output is, in order: heading,
// contact block, one entry per item, grand total.
//
// The result is a pure function of its inputs and contains no HTML; WhatsApp
// bold markers (*text*) are the only markup.
func BuildMessage(customer domain.Customer, items []domain.LineItem, total float64, labels Labels) (string, error) {
	contact := domain.Customer{
		Name:    plain(customer.Name),
		Hotel:   plain(customer.Hotel),
		Contact: plain(customer.Contact),
		Email:   plain(customer.Email),
	}
	if missing := contact.Missing(); len(missing) > 0 {
		return "", fmt.Errorf("%w: missing %s", domain.ErrIncompleteCustomerInfo, strings.Join(missing, ", "))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n\n", labels.Heading)

	for _, f := range []struct{ label, value string }{
		{labels.Customer.Name, contact.Name},
		{labels.Customer.Hotel, contact.Hotel},
		{labels.Customer.Contact, contact.Contact},
		{labels.Customer.Email, contact.Email},
	} {
		fmt.Fprintf(&b, "*%s:* %s\n", f.label, f.value)
	}

	for i, it := range items {
		b.WriteString("\n")
		fmt.Fprintf(&b, "*%d. %s*\n", i+1, plain(it.TourTitle))
		fmt.Fprintf(&b, "%s: %s\n", labels.Item.Date, i18n.FormatDate(it.Date, labels.Locale))
		fmt.Fprintf(&b, "%s: %d x %s\n", labels.Item.Adults, it.Adults, money(it.Price, labels))
		if it.Children > 0 {
			fmt.Fprintf(&b, "%s: %d x %s\n", labels.Item.Children, it.Children, money(domain.ChildPrice(it.Price), labels))
		}
		if notes := plain(it.Notes); notes != "" {
			fmt.Fprintf(&b, "%s: %s\n", labels.Item.Notes, notes)
		}
		fmt.Fprintf(&b, "%s: %s\n", labels.Item.Subtotal, money(it.Subtotal, labels))
	}

	fmt.Fprintf(&b, "\n*%s: %s*", labels.Total, money(total, labels))
	return b.String(), nil
}

func money(amount float64, labels Labels) string {
	return labels.Currency + " " + i18n.FormatAmount(amount, labels.Locale)
}

// plain strips HTML elements from user text and leaves everything else as
// typed. Only tags naming a known HTML element reach the sanitizer; any other
// text, including a bare "<" or ">", is escaped first so it survives.
func plain(s string) string {
	var b strings.Builder
	last := 0
	for _, m := range tagPattern.FindAllStringSubmatchIndex(s, -1) {
		if atom.Lookup([]byte(strings.ToLower(s[m[2]:m[3]]))) == 0 {
			continue
		}
		b.WriteString(html.EscapeString(s[last:m[0]]))
		b.WriteString(s[m[0]:m[1]])
		last = m[1]
	}
	b.WriteString(html.EscapeString(s[last:]))
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(b.String())))
}
