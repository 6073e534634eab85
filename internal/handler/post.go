package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/tourbook/internal/domain"
)

// Post is the API representation of a localized blog post.
// BodyHTML is only set on the single-post endpoint.
type Post struct {
	ID          uuid.UUID  `json:"id"`
	Slug        string     `json:"slug"`
	Locale      string     `json:"locale"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	PublishedAt time.Time  `json:"published_at"`
	BodyHTML    *string    `json:"body_html,omitempty"`
}

// Category is the API representation of a localized blog category.
type Category struct {
	ID     uuid.UUID `json:"id"`
	Slug   string    `json:"slug"`
	Locale string    `json:"locale"`
	Name   string    `json:"name"`
}

// ListPosts handles GET /posts.
// Supports ?category=<slug> plus the usual ?page= and ?limit=.
func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	p, ok := pageParams(w, r)
	if !ok {
		return
	}
	var category *string
	if err := runtime.BindQueryParameter("form", true, false, "category", r.URL.Query(), &category); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("invalid category"))
		return
	}
	slug := ""
	if category != nil {
		slug = *category
	}

	res, err := s.posts.List(r.Context(), slug, s.locale(r), p)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	data := make([]Post, len(res.Items))
	for i, post := range res.Items {
		data[i] = postToResponse(post)
	}
	writeJSON(w, http.StatusOK, ListResponse[Post]{
		Data:       data,
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: res.Total},
	})
}

// GetPost handles GET /posts/{id}.
func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	post, err := s.posts.Get(r.Context(), id, s.locale(r))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, notFoundBody("post not found"))
			return
		}
		s.internalError(w, r, err)
		return
	}
	resp := postToResponse(post)
	resp.BodyHTML = &post.BodyHTML
	writeJSON(w, http.StatusOK, resp)
}

// ListCategories handles GET /categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.posts.Categories(r.Context(), s.locale(r))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	data := make([]Category, len(cats))
	for i, c := range cats {
		data[i] = Category{ID: c.ID, Slug: c.Slug, Locale: string(c.Locale), Name: c.Name}
	}
	writeJSON(w, http.StatusOK, map[string][]Category{"data": data})
}

func postToResponse(p domain.LocalizedPost) Post {
	return Post{
		ID:          p.ID,
		Slug:        p.Slug,
		Locale:      string(p.Locale),
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		CategoryID:  p.CategoryID,
		CoverURL:    nilIfEmpty(p.CoverURL),
		PublishedAt: p.PublishedAt,
	}
}
