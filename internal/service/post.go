package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/i18n"
	"github.com/pkordes/tourbook/internal/repo"
)

// PostService implements the read side of the blog: posts and categories.
// Post bodies are authored in Markdown and served as sanitized HTML.
type PostService struct {
	posts    repo.PostRepo
	fallback domain.Locale
	log      *slog.Logger
	md       goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewPostService constructs a PostService backed by the provided PostRepo.
func NewPostService(posts repo.PostRepo, fallback domain.Locale, log *slog.Logger) *PostService {
	return &PostService{
		posts:    posts,
		fallback: fallback,
		log:      log,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
	}
}

// Get returns one published post localized to locale with its body rendered.
// Returns domain.ErrNotFound if the post is missing, unpublished, or has no
// usable translation.
func (s *PostService) Get(ctx context.Context, id uuid.UUID, locale domain.Locale) (domain.LocalizedPost, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return domain.LocalizedPost{}, fmt.Errorf("service.PostService.Get: %w", err)
	}
	lp, err := s.localize(p, locale, true)
	if err != nil {
		return domain.LocalizedPost{}, fmt.Errorf("service.PostService.Get: %w", err)
	}
	return lp, nil
}

// List returns one page of published posts, optionally restricted to the
// category with slug categorySlug. Bodies are not rendered in listings.
func (s *PostService) List(ctx context.Context, categorySlug string, locale domain.Locale, p domain.PageRequest) (domain.Paged[domain.LocalizedPost], error) {
	posts, total, err := s.posts.ListPaged(ctx, categorySlug, p)
	if err != nil {
		return domain.Paged[domain.LocalizedPost]{}, fmt.Errorf("service.PostService.List: %w", err)
	}
	items := make([]domain.LocalizedPost, 0, len(posts))
	for _, post := range posts {
		lp, err := s.localize(post, locale, false)
		if err != nil {
			s.log.DebugContext(ctx, "service: skipping untranslated post", "post_id", post.ID, "locale", locale)
			continue
		}
		items = append(items, lp)
	}
	return domain.Paged[domain.LocalizedPost]{Items: items, Total: total}, nil
}

// Categories returns every category whose name resolves in locale.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PostService) Categories(ctx context.Context, locale domain.Locale) ([]domain.LocalizedCategory, error) {
	cats, err := s.posts.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PostService.Categories: %w", err)
	}
	out := make([]domain.LocalizedCategory, 0, len(cats))
	for _, c := range cats {
		tr, err := i18n.Resolve(c.Translations, locale, s.fallback)
		if err != nil {
			continue
		}
		out = append(out, domain.LocalizedCategory{Category: c, Locale: tr.Locale, Name: tr.Name})
	}
	return out, nil
}

func (s *PostService) localize(p domain.Post, locale domain.Locale, render bool) (domain.LocalizedPost, error) {
	tr, err := i18n.Resolve(p.Translations, locale, s.fallback)
	if err != nil {
		return domain.LocalizedPost{}, notDisplayable(err)
	}
	lp := domain.LocalizedPost{Post: p, Locale: tr.Locale, Title: tr.Title, Excerpt: tr.Excerpt}
	if render {
		html, err := s.render(tr.Body)
		if err != nil {
			return domain.LocalizedPost{}, err
		}
		lp.BodyHTML = html
	}
	return lp, nil
}

// render converts Markdown to HTML and sanitizes it. Raw HTML in the source
// is dropped by goldmark unless it is marked unsafe, and anything that
// survives still passes through the UGC policy.
func (s *PostService) render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return string(s.policy.SanitizeBytes(buf.Bytes())), nil
}
