package domain

import (
	"time"

	"github.com/google/uuid"
)

// TourTranslation is the locale-specific text of a tour.
type TourTranslation struct {
	Locale      Locale
	Title       string
	Description string
}

// Lang implements i18n.Localized.
func (t TourTranslation) Lang() Locale { return t.Locale }

// Tour is a guided tour in the catalog.
// Translations holds every authored locale; services resolve exactly one.
type Tour struct {
	ID           uuid.UUID
	Slug         string
	Price        float64
	Duration     string
	ImageURL     string
	Active       bool
	Exclusions   ExclusionRules
	Translations []TourTranslation
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LocalizedTour is a Tour paired with the translation chosen for a request.
type LocalizedTour struct {
	Tour
	Locale      Locale
	Title       string
	Description string
}

// ComboTranslation is the locale-specific text of a combo.
type ComboTranslation struct {
	Locale      Locale
	Title       string
	Description string
}

// Lang implements i18n.Localized.
func (t ComboTranslation) Lang() Locale { return t.Locale }

// Combo is a package deal bundling several tours at one price.
type Combo struct {
	ID           uuid.UUID
	Slug         string
	Price        float64
	ImageURL     string
	TourIDs      []uuid.UUID
	Translations []ComboTranslation
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LocalizedCombo is a Combo with its resolved translation.
type LocalizedCombo struct {
	Combo
	Locale      Locale
	Title       string
	Description string
}

// CategoryTranslation is the locale-specific name of a blog category.
type CategoryTranslation struct {
	Locale Locale
	Name   string
}

// Lang implements i18n.Localized.
func (t CategoryTranslation) Lang() Locale { return t.Locale }

// Category groups blog posts. Identity is its lowercase, hyphenated Slug.
type Category struct {
	ID           uuid.UUID
	Slug         string
	Translations []CategoryTranslation
}

// LocalizedCategory is a Category with its resolved name.
type LocalizedCategory struct {
	Category
	Locale Locale
	Name   string
}

// PostTranslation is the locale-specific text of a blog post.
// Body is Markdown as authored in the admin panel.
type PostTranslation struct {
	Locale  Locale
	Title   string
	Excerpt string
	Body    string
}

// Lang implements i18n.Localized.
func (t PostTranslation) Lang() Locale { return t.Locale }

// Post is a blog article.
type Post struct {
	ID           uuid.UUID
	Slug         string
	CategoryID   *uuid.UUID
	CoverURL     string
	PublishedAt  time.Time
	Translations []PostTranslation
}

// LocalizedPost is a Post with its resolved translation.
// BodyHTML is the rendered, sanitized body.
type LocalizedPost struct {
	Post
	Locale   Locale
	Title    string
	Excerpt  string
	BodyHTML string
}
