package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// VersionRow carries the SCD2 bookkeeping columns shared by every versioned
// entity table. Entity structs embed it anonymously.
//
// SurrogateID identifies one version row and is never reused; BusinessID is
// shared by every version of one logical entity. BusinessID is a pointer
// because a row briefly has no business key between insert and stamp inside
// the creating transaction.
type VersionRow struct {
	SurrogateID    int64      `json:"surrogate_id" db:"surrogate_id"`
	BusinessID     *string    `json:"business_id" db:"business_id"`
	OpID           uuid.UUID  `json:"op_id" db:"op_id"`
	RowCurrentInd  bool       `json:"row_current_ind" db:"row_current_ind"`
	RowEffectiveAt time.Time  `json:"row_effective_at" db:"row_effective_at"`
	RowExpiresAt   *time.Time `json:"row_expires_at,omitempty" db:"row_expires_at"`
}

// Version exposes the bookkeeping columns of any embedding entity struct.
func (v *VersionRow) Version() *VersionRow {
	return v
}

// Key returns the business key, or the empty string while the row is
// still unstamped.
func (v *VersionRow) Key() string {
	if v.BusinessID == nil {
		return ""
	}
	return *v.BusinessID
}

// CoversAt reports whether this version was effective at instant t.
func (v *VersionRow) CoversAt(t time.Time) bool {
	if t.Before(v.RowEffectiveAt) {
		return false
	}
	return v.RowExpiresAt == nil || t.Before(*v.RowExpiresAt)
}

// FormatBusinessID derives the stable business key from the first surrogate
// id of a version chain. Consumers must treat the result as opaque.
func FormatBusinessID(prefix string, surrogateID int64) string {
	return fmt.Sprintf("%s-%d", prefix, surrogateID)
}
