package domain

import "strings"

// Customer is the contact form submitted at checkout.
// All four fields are required before a checkout message is built.
type Customer struct {
	Name    string
	Hotel   string
	Contact string
	Email   string
}

// Missing returns the names of required fields that are empty or
// whitespace-only, in form order. An empty result means the form is complete.
func (c Customer) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", c.Name},
		{"hotel", c.Hotel},
		{"contact", c.Contact},
		{"email", c.Email},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Complete reports whether every required field is filled in.
func (c Customer) Complete() bool {
	return len(c.Missing()) == 0
}
