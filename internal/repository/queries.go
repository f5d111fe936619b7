package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tradevault/internal/domain"
)

// Queries answers current-state, history and point-in-time reads for one
// entity type. Reads never lock rows, so readers are not serialized by
// in-flight writers beyond the row lock's own window.
type Queries[T any] struct {
	db   *sqlx.DB
	desc Descriptor[T]
}

func NewQueries[T any](db *sqlx.DB, desc Descriptor[T]) *Queries[T] {
	return &Queries[T]{db: db, desc: desc}
}

// Current returns the unique current version for the business key.
func (q *Queries[T]) Current(ctx context.Context, businessID string) (*T, error) {
	var row T
	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE business_id = $1 AND row_current_ind",
		q.desc.Table,
	)
	if err := q.db.GetContext(ctx, &row, query, businessID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: q.desc.Entity, BusinessID: businessID}
		}
		return nil, fmt.Errorf("failed to read current %s: %w", q.desc.Entity, err)
	}
	return &row, nil
}

// History returns every version of the chain, oldest first. A business key
// with zero rows never existed: under the store's invariants an entity
// cannot exist without history, so the empty result is NotFoundError.
func (q *Queries[T]) History(ctx context.Context, businessID string) ([]T, error) {
	var rows []T
	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE business_id = $1 ORDER BY row_effective_at ASC, surrogate_id ASC",
		q.desc.Table,
	)
	if err := q.db.SelectContext(ctx, &rows, query, businessID); err != nil {
		return nil, fmt.Errorf("failed to read %s history: %w", q.desc.Entity, err)
	}
	if len(rows) == 0 {
		return nil, &domain.NotFoundError{Entity: q.desc.Entity, BusinessID: businessID}
	}
	return rows, nil
}

// PointInTime returns the version that was effective at instant t, or
// NotFoundError when t precedes the chain's first version.
func (q *Queries[T]) PointInTime(ctx context.Context, businessID string, t time.Time) (*T, error) {
	var row T
	query := fmt.Sprintf(
		`SELECT * FROM %s
         WHERE business_id = $1
           AND row_effective_at <= $2
           AND (row_expires_at IS NULL OR row_expires_at > $2)`,
		q.desc.Table,
	)
	if err := q.db.GetContext(ctx, &row, query, businessID, t.UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: q.desc.Entity, BusinessID: businessID}
		}
		return nil, fmt.Errorf("failed to read %s at %s: %w", q.desc.Entity, t.Format(time.RFC3339), err)
	}
	return &row, nil
}
