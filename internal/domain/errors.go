package domain

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a business key has no current version,
// or no versions at all.
type NotFoundError struct {
	Entity     string
	BusinessID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: not found", e.Entity, e.BusinessID)
}

// ConflictError is returned when a concurrent writer won the race for the
// same business key. The losing caller must re-read and retry.
type ConflictError struct {
	Entity     string
	BusinessID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s: concurrent update conflict, retry", e.Entity, e.BusinessID)
}

func (e *ConflictError) Retryable() bool {
	return true
}

// ValidationError is returned on an illegal state transition or invalid
// input. Never retried.
type ValidationError struct {
	Entity     string
	BusinessID string
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.BusinessID == "" {
		return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s", e.Entity, e.BusinessID, e.Reason)
}

// MigrationError is fatal at startup: schema/write-path drift or a broken
// migration sequence must block rollout, not degrade at runtime.
type MigrationError struct {
	Version uint64
	Entity  string
	Detail  string
}

func (e *MigrationError) Error() string {
	switch {
	case e.Version != 0:
		return fmt.Sprintf("migration %06d: %s", e.Version, e.Detail)
	case e.Entity != "":
		return fmt.Sprintf("migration check for %s: %s", e.Entity, e.Detail)
	default:
		return fmt.Sprintf("migration: %s", e.Detail)
	}
}

// IsRetryable reports whether the caller may retry the failed operation
// from a fresh read.
func IsRetryable(err error) bool {
	var r interface{ Retryable() bool }
	return errors.As(err, &r) && r.Retryable()
}
