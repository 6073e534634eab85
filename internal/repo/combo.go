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

// ComboRepo defines the read operations for package deals.
type ComboRepo interface {
	// GetByID retrieves an active combo with its translations and tour ids.
	// Returns domain.ErrNotFound if no active combo with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Combo, error)

	// ListPaged returns one page of active combos ordered by slug and the total count.
	ListPaged(ctx context.Context, p domain.PageRequest) ([]domain.Combo, int64, error)
}

type pgComboRepo struct {
	db db
}

// NewComboRepo constructs a ComboRepo backed by the provided db connection.
func NewComboRepo(db db) ComboRepo {
	return &pgComboRepo{db: db}
}

// comboSelect aggregates the member tours in their configured order.
const comboSelect = `
		SELECT c.id, c.slug, c.price, c.image_url, c.created_at, c.updated_at,
		       coalesce(array_agg(ct.tour_id::text ORDER BY ct.position)
		                FILTER (WHERE ct.tour_id IS NOT NULL), '{}')
		FROM combos c
		LEFT JOIN combo_tours ct ON ct.combo_id = c.id`

const comboTranslationsQuery = `
		SELECT combo_id, locale, title, description
		FROM combo_translations
		WHERE combo_id = ANY(@ids::uuid[])
		ORDER BY combo_id, locale`

func (r *pgComboRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Combo, error) {
	q := comboSelect + `
		WHERE c.id = @id AND c.active
		GROUP BY c.id`

	c, err := scanCombo(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Combo{}, fmt.Errorf("repo.ComboRepo.GetByID: %w", err)
	}
	tr, err := loadTranslations(ctx, r.db, comboTranslationsQuery, []uuid.UUID{c.ID}, scanComboTranslation)
	if err != nil {
		return domain.Combo{}, fmt.Errorf("repo.ComboRepo.GetByID: translations: %w", err)
	}
	c.Translations = tr[c.ID]
	return c, nil
}

func (r *pgComboRepo) ListPaged(ctx context.Context, p domain.PageRequest) ([]domain.Combo, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM combos WHERE active`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ComboRepo.ListPaged: count: %w", err)
	}

	q := comboSelect + `
		WHERE c.active
		GROUP BY c.id
		ORDER BY c.slug
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ComboRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	combos := []domain.Combo{}
	for rows.Next() {
		c, err := scanCombo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.ComboRepo.ListPaged: scan: %w", err)
		}
		combos = append(combos, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ComboRepo.ListPaged: rows: %w", err)
	}

	ids := make([]uuid.UUID, len(combos))
	for i, c := range combos {
		ids[i] = c.ID
	}
	tr, err := loadTranslations(ctx, r.db, comboTranslationsQuery, ids, scanComboTranslation)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ComboRepo.ListPaged: translations: %w", err)
	}
	for i := range combos {
		combos[i].Translations = tr[combos[i].ID]
	}
	return combos, total, nil
}

func scanCombo(s scanner) (domain.Combo, error) {
	var (
		c       domain.Combo
		id      pgtype.UUID
		tourIDs []string
	)
	err := s.Scan(&id, &c.Slug, &c.Price, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt, &tourIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Combo{}, domain.ErrNotFound
		}
		return domain.Combo{}, err
	}
	c.ID = fromPgUUID(id)
	for _, raw := range tourIDs {
		tid, err := uuid.Parse(raw)
		if err != nil {
			return domain.Combo{}, fmt.Errorf("tour id %q: %w", raw, err)
		}
		c.TourIDs = append(c.TourIDs, tid)
	}
	return c, nil
}

func scanComboTranslation(s scanner) (uuid.UUID, domain.ComboTranslation, error) {
	var (
		owner  pgtype.UUID
		t      domain.ComboTranslation
		locale string
	)
	if err := s.Scan(&owner, &locale, &t.Title, &t.Description); err != nil {
		return uuid.Nil, domain.ComboTranslation{}, err
	}
	t.Locale = domain.Locale(locale)
	return fromPgUUID(owner), t, nil
}
