package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"tradevault/internal/domain"
)

// uniqueViolation is the Postgres error code raised when an insert collides
// with the partial unique index on (business_id) WHERE row_current_ind. That
// index is the invariant of record: application code never re-checks it.
const uniqueViolation = "23505"

// Store writes version chains for one entity type. It is the only component
// that mutates the entity's table; all plain reads go through Queries.
type Store[T any] struct {
	db   *sqlx.DB
	desc Descriptor[T]

	insertFirst string
	insertNext  string
}

func NewStore[T any](db *sqlx.DB, desc Descriptor[T]) *Store[T] {
	return &Store[T]{
		db:          db,
		desc:        desc,
		insertFirst: desc.insertQuery(false),
		insertNext:  desc.insertQuery(true),
	}
}

// Create inserts the first version of a new chain and stamps its business
// key, all inside one transaction. The two-step sequence exists because the
// key format depends on the surrogate id the database assigns during the
// insert.
func (s *Store[T]) Create(ctx context.Context, entity *T) (int64, string, error) {
	meta := s.desc.Meta(entity)
	meta.SurrogateID = 0
	meta.BusinessID = nil
	meta.OpID = uuid.New()
	meta.RowCurrentInd = true
	meta.RowEffectiveAt = time.Now().UTC()
	meta.RowExpiresAt = nil

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	surrogateID, err := s.insertVersion(ctx, tx, s.insertFirst, entity)
	if err != nil {
		return 0, "", fmt.Errorf("failed to insert %s: %w", s.desc.Entity, err)
	}

	businessID := domain.FormatBusinessID(s.desc.Prefix, surrogateID)
	stamp := fmt.Sprintf("UPDATE %s SET business_id = $1 WHERE surrogate_id = $2", s.desc.Table)
	if _, err := tx.ExecContext(ctx, stamp, businessID, surrogateID); err != nil {
		return 0, "", fmt.Errorf("failed to stamp business id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, "", fmt.Errorf("failed to commit: %w", err)
	}

	meta.SurrogateID = surrogateID
	meta.BusinessID = &businessID
	return surrogateID, businessID, nil
}

// Update expires the current version and inserts its successor under one
// transaction. The mutator receives a copy of the current payload and edits
// it in place.
func (s *Store[T]) Update(ctx context.Context, businessID string, mutate func(*T) error) (int64, error) {
	return s.replaceCurrent(ctx, businessID, mutate, false)
}

// Close is Update with terminal-state enforcement: the current version must
// not already be terminal, and the mutated version must be. Closing twice is
// a caller bug, never a silent no-op.
func (s *Store[T]) Close(ctx context.Context, businessID string, mutate func(*T) error) (int64, error) {
	return s.replaceCurrent(ctx, businessID, mutate, true)
}

func (s *Store[T]) replaceCurrent(ctx context.Context, businessID string, mutate func(*T) error, closing bool) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Row lock serializes writers on the same business key; the partial
	// unique index is the backstop if isolation semantics let two readers
	// through.
	var current T
	lockQuery := fmt.Sprintf(
		"SELECT * FROM %s WHERE business_id = $1 AND row_current_ind FOR UPDATE",
		s.desc.Table,
	)
	if err := tx.GetContext(ctx, &current, lockQuery, businessID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Under read committed a blocked FOR UPDATE re-evaluates the
			// expired row and skips it. A chain that exists but has no
			// visible current row means a concurrent writer won: retryable.
			var exists bool
			check := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE business_id = $1)", s.desc.Table)
			if checkErr := tx.GetContext(ctx, &exists, check, businessID); checkErr != nil {
				return 0, fmt.Errorf("failed to check %s existence: %w", s.desc.Entity, checkErr)
			}
			if exists {
				return 0, &domain.ConflictError{Entity: s.desc.Entity, BusinessID: businessID}
			}
			return 0, &domain.NotFoundError{Entity: s.desc.Entity, BusinessID: businessID}
		}
		return 0, fmt.Errorf("failed to lock current %s row: %w", s.desc.Entity, err)
	}

	if s.desc.Terminal != nil && s.desc.Terminal(&current) {
		return 0, &domain.ValidationError{
			Entity:     s.desc.Entity,
			BusinessID: businessID,
			Reason:     "current version is terminal, no further transitions",
		}
	}

	next := current
	if err := mutate(&next); err != nil {
		return 0, fmt.Errorf("mutator failed for %s %s: %w", s.desc.Entity, businessID, err)
	}
	if closing {
		if s.desc.Terminal == nil {
			return 0, &domain.ValidationError{
				Entity:     s.desc.Entity,
				BusinessID: businessID,
				Reason:     "entity type has no terminal state",
			}
		}
		if !s.desc.Terminal(&next) {
			return 0, &domain.ValidationError{
				Entity:     s.desc.Entity,
				BusinessID: businessID,
				Reason:     "close must populate all terminal fields",
			}
		}
	}

	// One timestamp for both sides of the boundary keeps version intervals
	// contiguous with no gaps or overlaps.
	now := time.Now().UTC()
	curMeta := s.desc.Meta(&current)
	expire := fmt.Sprintf(
		"UPDATE %s SET row_current_ind = false, row_expires_at = $1 WHERE surrogate_id = $2 AND row_current_ind",
		s.desc.Table,
	)
	if _, err := tx.ExecContext(ctx, expire, now, curMeta.SurrogateID); err != nil {
		return 0, fmt.Errorf("failed to expire %s version: %w", s.desc.Entity, err)
	}

	nextMeta := s.desc.Meta(&next)
	nextMeta.SurrogateID = 0
	nextMeta.BusinessID = &businessID
	nextMeta.OpID = uuid.New()
	nextMeta.RowCurrentInd = true
	nextMeta.RowEffectiveAt = now
	nextMeta.RowExpiresAt = nil

	surrogateID, err := s.insertVersion(ctx, tx, s.insertNext, &next)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, &domain.ConflictError{Entity: s.desc.Entity, BusinessID: businessID}
		}
		return 0, fmt.Errorf("failed to insert %s version: %w", s.desc.Entity, err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return 0, &domain.ConflictError{Entity: s.desc.Entity, BusinessID: businessID}
		}
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	nextMeta.SurrogateID = surrogateID
	return surrogateID, nil
}

func (s *Store[T]) insertVersion(ctx context.Context, tx *sqlx.Tx, query string, entity *T) (int64, error) {
	rows, err := sqlx.NamedQueryContext(ctx, tx, query, entity)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("insert returned no surrogate id")
	}

	var surrogateID int64
	if err := rows.Scan(&surrogateID); err != nil {
		return 0, err
	}
	return surrogateID, rows.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
