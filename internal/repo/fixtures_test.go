package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tourbook/testutil"
)

// newTestTx opens a transaction against the test database. It is rolled back
// when the test finishes, so fixtures inserted through it never leak.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// mustInsertTour inserts an active tour with one translation per title.
// titles maps locale to title.
func mustInsertTour(t *testing.T, tx pgx.Tx, slug string, price float64, titles map[string]string) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var id uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO tours (slug, price, duration, excluded_weekdays, excluded_dates)
		VALUES (@slug, @price, '8h', '{0}', '{2025-12-25}')
		RETURNING id`,
		pgx.NamedArgs{"slug": slug, "price": price}).Scan(&id)
	require.NoError(t, err, "insert tour")

	for locale, title := range titles {
		_, err := tx.Exec(ctx, `
			INSERT INTO tour_translations (tour_id, locale, title, description)
			VALUES (@id, @locale, @title, 'desc')`,
			pgx.NamedArgs{"id": id, "locale": locale, "title": title})
		require.NoError(t, err, "insert tour translation")
	}
	return id
}

func mustInsertAvailability(t *testing.T, tx pgx.Tx, tourID uuid.UUID, date string, total, booked int) {
	t.Helper()
	_, err := tx.Exec(context.Background(), `
		INSERT INTO tour_availability (tour_id, available_date, total_spots, spots_booked)
		VALUES (@id, @date::date, @total, @booked)`,
		pgx.NamedArgs{"id": tourID, "date": date, "total": total, "booked": booked})
	require.NoError(t, err, "insert availability")
}

func mustInsertCategory(t *testing.T, tx pgx.Tx, slug, ptName string) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var id uuid.UUID
	err := tx.QueryRow(ctx, `INSERT INTO categories (slug) VALUES (@slug) RETURNING id`,
		pgx.NamedArgs{"slug": slug}).Scan(&id)
	require.NoError(t, err, "insert category")

	_, err = tx.Exec(ctx, `
		INSERT INTO category_translations (category_id, locale, name)
		VALUES (@id, 'pt', @name)`,
		pgx.NamedArgs{"id": id, "name": ptName})
	require.NoError(t, err, "insert category translation")
	return id
}

// mustInsertPost inserts a post with a pt translation. A nil publishedAt is a draft.
func mustInsertPost(t *testing.T, tx pgx.Tx, slug string, categoryID *uuid.UUID, publishedAt *time.Time) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var id uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO posts (slug, category_id, published_at)
		VALUES (@slug, @category, @published)
		RETURNING id`,
		pgx.NamedArgs{"slug": slug, "category": categoryID, "published": publishedAt}).Scan(&id)
	require.NoError(t, err, "insert post")

	_, err = tx.Exec(ctx, `
		INSERT INTO post_translations (post_id, locale, title, excerpt, body)
		VALUES (@id, 'pt', @title, 'resumo', '# Olá')`,
		pgx.NamedArgs{"id": id, "title": "Post " + slug})
	require.NoError(t, err, "insert post translation")
	return id
}
