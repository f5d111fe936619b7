package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tradevault/internal/domain"
)

// The golang-migrate schema_migrations table makes re-application a no-op;
// migration_ledger is the richer audit ledger carrying entity scope and the
// lifecycle state machine.
const createLedgerTable = `
CREATE TABLE IF NOT EXISTS migration_ledger (
    id UUID PRIMARY KEY,
    version BIGINT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    entities TEXT NOT NULL,
    state TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// LedgerEntry is one row of the migration audit ledger.
type LedgerEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Version   uint64    `json:"version" db:"version"`
	Name      string    `json:"name" db:"name"`
	Entities  string    `json:"entities" db:"entities"`
	State     State     `json:"state" db:"state"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (m *Migrator) ensureLedger(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createLedgerTable); err != nil {
		return fmt.Errorf("failed to create migration ledger: %w", err)
	}
	return nil
}

// recordDrafted registers a migration in the ledger. Re-registration of a
// known version is a no-op.
func (m *Migrator) recordDrafted(ctx context.Context, mig Migration) error {
	query := `
        INSERT INTO migration_ledger (id, version, name, entities, state)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (version) DO NOTHING`
	_, err := m.db.ExecContext(ctx, query,
		uuid.New(),
		mig.Version,
		mig.Name,
		strings.Join(mig.Entities, ","),
		StateDrafted,
	)
	if err != nil {
		return fmt.Errorf("failed to record migration %06d: %w", mig.Version, err)
	}
	return nil
}

// advanceTo moves a ledger entry forward through the lifecycle. Entries that
// already passed the target state are left alone; anything else must be a
// legal transition.
func (m *Migrator) advanceTo(ctx context.Context, version uint64, to State) error {
	var current State
	err := m.db.GetContext(ctx, &current,
		"SELECT state FROM migration_ledger WHERE version = $1", version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.MigrationError{Version: version, Detail: "not registered in ledger"}
		}
		return fmt.Errorf("failed to read ledger state: %w", err)
	}

	if current == to || current.passed(to) {
		return nil
	}
	next, err := current.Transition(to)
	if err != nil {
		return err
	}

	_, err = m.db.ExecContext(ctx,
		"UPDATE migration_ledger SET state = $1, updated_at = now() WHERE version = $2",
		next, version)
	if err != nil {
		return fmt.Errorf("failed to advance migration %06d to %s: %w", version, to, err)
	}
	return nil
}

// Entries returns the full ledger, oldest first.
func (m *Migrator) Entries(ctx context.Context) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	err := m.db.SelectContext(ctx, &entries,
		"SELECT * FROM migration_ledger ORDER BY version ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration ledger: %w", err)
	}
	return entries, nil
}
