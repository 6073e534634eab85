package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tourbook/internal/domain"
)

// PostRepo defines the read operations for blog posts and categories.
type PostRepo interface {
	// GetByID retrieves a published post with its translations.
	// Returns domain.ErrNotFound if no published post with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Post, error)

	// ListPaged returns one page of published posts, newest first, and the
	// total count. A non-empty categorySlug restricts the result to that category.
	ListPaged(ctx context.Context, categorySlug string, p domain.PageRequest) ([]domain.Post, int64, error)

	// ListCategories returns every category with its translations, ordered by slug.
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type pgPostRepo struct {
	db db
}

// NewPostRepo constructs a PostRepo backed by the provided db connection.
func NewPostRepo(db db) PostRepo {
	return &pgPostRepo{db: db}
}

const postTranslationsQuery = `
		SELECT post_id, locale, title, excerpt, body
		FROM post_translations
		WHERE post_id = ANY(@ids::uuid[])
		ORDER BY post_id, locale`

func (r *pgPostRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Post, error) {
	const q = `
		SELECT id, slug, category_id, cover_url, published_at
		FROM posts
		WHERE id = @id AND published_at IS NOT NULL AND published_at <= now()`

	p, err := scanPost(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Post{}, fmt.Errorf("repo.PostRepo.GetByID: %w", err)
	}
	tr, err := loadTranslations(ctx, r.db, postTranslationsQuery, []uuid.UUID{p.ID}, scanPostTranslation)
	if err != nil {
		return domain.Post{}, fmt.Errorf("repo.PostRepo.GetByID: translations: %w", err)
	}
	p.Translations = tr[p.ID]
	return p, nil
}

func (r *pgPostRepo) ListPaged(ctx context.Context, categorySlug string, p domain.PageRequest) ([]domain.Post, int64, error) {
	const where = `
		WHERE p.published_at IS NOT NULL AND p.published_at <= now()
		  AND (@category = '' OR c.slug = @category)`

	args := pgx.NamedArgs{"category": categorySlug, "limit": p.Limit, "offset": p.Offset()}

	var total int64
	countQ := `SELECT count(*) FROM posts p LEFT JOIN categories c ON c.id = p.category_id` + where
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.PostRepo.ListPaged: count: %w", err)
	}

	q := `
		SELECT p.id, p.slug, p.category_id, p.cover_url, p.published_at
		FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id` + where + `
		ORDER BY p.published_at DESC, p.slug
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PostRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.PostRepo.ListPaged: scan: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.PostRepo.ListPaged: rows: %w", err)
	}

	ids := make([]uuid.UUID, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}
	tr, err := loadTranslations(ctx, r.db, postTranslationsQuery, ids, scanPostTranslation)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PostRepo.ListPaged: translations: %w", err)
	}
	for i := range posts {
		posts[i].Translations = tr[posts[i].ID]
	}
	return posts, total, nil
}

func (r *pgPostRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, slug FROM categories ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("repo.PostRepo.ListCategories: %w", err)
	}
	defer rows.Close()

	cats := []domain.Category{}
	for rows.Next() {
		var (
			c  domain.Category
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &c.Slug); err != nil {
			return nil, fmt.Errorf("repo.PostRepo.ListCategories: scan: %w", err)
		}
		c.ID = fromPgUUID(id)
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PostRepo.ListCategories: rows: %w", err)
	}

	ids := make([]uuid.UUID, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	const trq = `
		SELECT category_id, locale, name
		FROM category_translations
		WHERE category_id = ANY(@ids::uuid[])
		ORDER BY category_id, locale`
	tr, err := loadTranslations(ctx, r.db, trq, ids, func(s scanner) (uuid.UUID, domain.CategoryTranslation, error) {
		var (
			owner  pgtype.UUID
			t      domain.CategoryTranslation
			locale string
		)
		if err := s.Scan(&owner, &locale, &t.Name); err != nil {
			return uuid.Nil, domain.CategoryTranslation{}, err
		}
		t.Locale = domain.Locale(locale)
		return fromPgUUID(owner), t, nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo.PostRepo.ListCategories: translations: %w", err)
	}
	for i := range cats {
		cats[i].Translations = tr[cats[i].ID]
	}
	return cats, nil
}

func scanPost(s scanner) (domain.Post, error) {
	var (
		p          domain.Post
		id         pgtype.UUID
		categoryID pgtype.UUID
	)
	err := s.Scan(&id, &p.Slug, &categoryID, &p.CoverURL, &p.PublishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, domain.ErrNotFound
		}
		return domain.Post{}, err
	}
	p.ID = fromPgUUID(id)
	if categoryID.Valid {
		cid := fromPgUUID(categoryID)
		p.CategoryID = &cid
	}
	return p, nil
}

func scanPostTranslation(s scanner) (uuid.UUID, domain.PostTranslation, error) {
	var (
		owner  pgtype.UUID
		t      domain.PostTranslation
		locale string
	)
	if err := s.Scan(&owner, &locale, &t.Title, &t.Excerpt, &t.Body); err != nil {
		return uuid.Nil, domain.PostTranslation{}, err
	}
	t.Locale = domain.Locale(locale)
	return fromPgUUID(owner), t, nil
}
