package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tourbook/internal/domain"
)

// TourRepo defines the read operations for tours and their availability.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TourRepo interface {
	// GetByID retrieves an active tour with all of its translations.
	// Returns domain.ErrNotFound if no active tour with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error)

	// ListPaged returns one page of active tours ordered by slug, and the
	// total number of active tours.
	ListPaged(ctx context.Context, p domain.PageRequest) ([]domain.Tour, int64, error)

	// ListAvailability returns the tour's availability records dated on or
	// after from that still have open spots, ordered by date ascending.
	ListAvailability(ctx context.Context, tourID uuid.UUID, from time.Time) ([]domain.AvailabilityRecord, error)
}

// pgTourRepo is the Postgres implementation of TourRepo.
type pgTourRepo struct {
	db db
}

// NewTourRepo constructs a TourRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTourRepo(db db) TourRepo {
	return &pgTourRepo{db: db}
}

const tourColumns = `id, slug, price, duration, image_url, active,
		excluded_weekdays, excluded_dates, created_at, updated_at`

const tourTranslationsQuery = `
		SELECT tour_id, locale, title, description
		FROM tour_translations
		WHERE tour_id = ANY(@ids::uuid[])
		ORDER BY tour_id, locale`

// GetByID retrieves a tour by primary key.
func (r *pgTourRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error) {
	q := `
		SELECT ` + tourColumns + `
		FROM tours
		WHERE id = @id AND active`

	tour, err := scanTour(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.GetByID: %w", err)
	}

	tr, err := loadTranslations(ctx, r.db, tourTranslationsQuery, []uuid.UUID{tour.ID}, scanTourTranslation)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.GetByID: translations: %w", err)
	}
	tour.Translations = tr[tour.ID]
	return tour, nil
}

// ListPaged returns one page of active tours ordered by slug.
func (r *pgTourRepo) ListPaged(ctx context.Context, p domain.PageRequest) ([]domain.Tour, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM tours WHERE active`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TourRepo.ListPaged: count: %w", err)
	}

	q := `
		SELECT ` + tourColumns + `
		FROM tours
		WHERE active
		ORDER BY slug
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TourRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	tours := []domain.Tour{}
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TourRepo.ListPaged: scan: %w", err)
		}
		tours = append(tours, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TourRepo.ListPaged: rows: %w", err)
	}

	ids := make([]uuid.UUID, len(tours))
	for i, t := range tours {
		ids[i] = t.ID
	}
	tr, err := loadTranslations(ctx, r.db, tourTranslationsQuery, ids, scanTourTranslation)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TourRepo.ListPaged: translations: %w", err)
	}
	for i := range tours {
		tours[i].Translations = tr[tours[i].ID]
	}
	return tours, total, nil
}

// ListAvailability returns biddable availability rows for a tour.
// The date is returned as text so malformed upstream values surface to the
// availability filter instead of failing the whole query.
func (r *pgTourRepo) ListAvailability(ctx context.Context, tourID uuid.UUID, from time.Time) ([]domain.AvailabilityRecord, error) {
	const q = `
		SELECT tour_id, available_date::text, total_spots, spots_booked
		FROM tour_availability
		WHERE tour_id = @tour_id
		  AND available_date >= @from
		  AND total_spots > spots_booked
		ORDER BY available_date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"tour_id": tourID, "from": from})
	if err != nil {
		return nil, fmt.Errorf("repo.TourRepo.ListAvailability: %w", err)
	}
	defer rows.Close()

	records := []domain.AvailabilityRecord{}
	for rows.Next() {
		var (
			rec domain.AvailabilityRecord
			id  pgtype.UUID
		)
		if err := rows.Scan(&id, &rec.AvailableDate, &rec.TotalSpots, &rec.SpotsBooked); err != nil {
			return nil, fmt.Errorf("repo.TourRepo.ListAvailability: scan: %w", err)
		}
		rec.TourID = fromPgUUID(id).String()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TourRepo.ListAvailability: rows: %w", err)
	}
	return records, nil
}

// scanTour maps a single tours row into a domain.Tour (without translations).
// It handles the UUID, array, and exclusion-date conversions.
func scanTour(s scanner) (domain.Tour, error) {
	var (
		t        domain.Tour
		id       pgtype.UUID
		weekdays []int32
		dates    []time.Time
	)

	err := s.Scan(&id, &t.Slug, &t.Price, &t.Duration, &t.ImageURL, &t.Active,
		&weekdays, &dates, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tour{}, domain.ErrNotFound
		}
		return domain.Tour{}, err
	}

	t.ID = fromPgUUID(id)
	for _, d := range weekdays {
		t.Exclusions.Weekdays = append(t.Exclusions.Weekdays, int(d))
	}
	for _, d := range dates {
		t.Exclusions.Dates = append(t.Exclusions.Dates, d.Format(domain.DateLayout))
	}
	return t, nil
}

func scanTourTranslation(s scanner) (uuid.UUID, domain.TourTranslation, error) {
	var (
		owner  pgtype.UUID
		t      domain.TourTranslation
		locale string
	)
	if err := s.Scan(&owner, &locale, &t.Title, &t.Description); err != nil {
		return uuid.Nil, domain.TourTranslation{}, err
	}
	t.Locale = domain.Locale(locale)
	return fromPgUUID(owner), t, nil
}
