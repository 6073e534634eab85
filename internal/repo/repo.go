// Package repo contains all database access logic for the tour backend.
// Catalog repos are read-only views of the content repository; the admin
// panel owns writes. Each resource has its own file with an interface and a
// Postgres implementation. No business logic lives here — only SQL and type
// mapping.
package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// idStrings converts ids for an `= ANY(@ids::uuid[])` parameter.
func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// loadTranslations runs q with @ids bound to ids and groups the scanned
// translations by owner id. scan must read the owner id first.
func loadTranslations[T any](ctx context.Context, db db, q string, ids []uuid.UUID, scan func(scanner) (uuid.UUID, T, error)) (map[uuid.UUID][]T, error) {
	out := make(map[uuid.UUID][]T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := db.Query(ctx, q, pgx.NamedArgs{"ids": idStrings(ids)})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		owner, t, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out[owner] = append(out[owner], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func fromPgUUID(id pgtype.UUID) uuid.UUID {
	return uuid.UUID(id.Bytes)
}
