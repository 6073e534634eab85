package checkout

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/tourbook/internal/domain"
)

//go:embed labels/*.yaml
var labelFS embed.FS

// Labels are the localized captions of a checkout message.
type Labels struct {
	Locale   domain.Locale  `yaml:"locale"`
	Heading  string         `yaml:"heading"`
	Customer CustomerLabels `yaml:"customer"`
	Item     ItemLabels     `yaml:"item"`
	Total    string         `yaml:"total"`
	Currency string         `yaml:"currency"`
}

// CustomerLabels caption the contact block.
type CustomerLabels struct {
	Name    string `yaml:"name"`
	Hotel   string `yaml:"hotel"`
	Contact string `yaml:"contact"`
	Email   string `yaml:"email"`
}

// ItemLabels caption each line item entry.
type ItemLabels struct {
	Date     string `yaml:"date"`
	Adults   string `yaml:"adults"`
	Children string `yaml:"children"`
	Notes    string `yaml:"notes"`
	Subtotal string `yaml:"subtotal"`
}

// LabelSet holds Labels for every supported locale.
type LabelSet struct {
	byLocale map[domain.Locale]Labels
	fallback domain.Locale
}

// LoadLabels parses the embedded label files. fallback must have a file.
func LoadLabels(fallback domain.Locale) (*LabelSet, error) {
	entries, err := fs.ReadDir(labelFS, "labels")
	if err != nil {
		return nil, fmt.Errorf("checkout.LoadLabels: %w", err)
	}
	set := &LabelSet{byLocale: map[domain.Locale]Labels{}, fallback: fallback}
	for _, e := range entries {
		raw, err := labelFS.ReadFile(path.Join("labels", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("checkout.LoadLabels: %s: %w", e.Name(), err)
		}
		var l Labels
		if err := yaml.Unmarshal(raw, &l); err != nil {
			return nil, fmt.Errorf("checkout.LoadLabels: %s: %w", e.Name(), err)
		}
		set.byLocale[l.Locale] = l
	}
	if _, ok := set.byLocale[fallback]; !ok {
		return nil, fmt.Errorf("checkout.LoadLabels: no labels for fallback locale %q", fallback)
	}
	return set, nil
}

// For returns the labels of locale, or the fallback labels.
func (s *LabelSet) For(locale domain.Locale) Labels {
	if l, ok := s.byLocale[locale]; ok {
		return l
	}
	return s.byLocale[s.fallback]
}
