// Package migrate keeps the persistence schema and the code that writes to
// it from drifting apart: it applies the ordered migration scripts, records
// their lifecycle in an audit ledger, and gates startup on the
// schema/write-path synchronization check.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"

	gomigrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"tradevault/internal/domain"
)

type Migrator struct {
	db       *sqlx.DB
	fsys     fs.FS
	manifest *Manifest
}

// New parses and validates the manifest up front so a malformed script set
// fails before anything touches the database.
func New(db *sqlx.DB, fsys fs.FS) (*Migrator, error) {
	manifest, err := LoadManifest(fsys)
	if err != nil {
		return nil, err
	}
	return &Migrator{db: db, fsys: fsys, manifest: manifest}, nil
}

func (m *Migrator) Manifest() *Manifest {
	return m.manifest
}

func (m *Migrator) instance() (*gomigrate.Migrate, error) {
	src, err := iofs.New(m.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}
	driver, err := postgres.WithInstance(m.db.DB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}
	return gomigrate.NewWithInstance("iofs", src, "postgres", driver)
}

// Apply brings the schema up to the latest manifest version. Already-applied
// versions are no-ops via the schema_migrations ledger. Each pending
// migration walks drafted -> applied_locally in the audit ledger.
func (m *Migrator) Apply(ctx context.Context) error {
	if err := m.ensureLedger(ctx); err != nil {
		return err
	}
	for _, mig := range m.manifest.Migrations {
		if err := m.recordDrafted(ctx, mig); err != nil {
			return err
		}
	}

	mg, err := m.instance()
	if err != nil {
		return err
	}

	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, gomigrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		log.Printf("Found dirty database state at version %d, forcing version", version)
		if err := mg.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	if err := mg.Up(); err != nil && !errors.Is(err, gomigrate.ErrNoChange) {
		return &domain.MigrationError{Detail: fmt.Sprintf("apply failed: %v", err)}
	}

	for _, mig := range m.manifest.Migrations {
		if err := m.advanceTo(ctx, mig.Version, StateAppliedLocally); err != nil {
			return err
		}
	}
	return nil
}

// Commit marks every applied-and-verified migration committed. Call only
// after VerifyAll passed.
func (m *Migrator) Commit(ctx context.Context) error {
	for _, mig := range m.manifest.Migrations {
		if err := m.advanceTo(ctx, mig.Version, StateCommitted); err != nil {
			return err
		}
	}
	return nil
}

// Rollback reverts the most recent steps migrations using their explicit
// .down.sql inverses and marks them rolled_back in the ledger. There is no
// derived inverse: a migration without a down script never loads (see
// LoadManifest).
func (m *Migrator) Rollback(ctx context.Context, steps int) error {
	if steps <= 0 {
		return &domain.MigrationError{Detail: "rollback steps must be positive"}
	}

	mg, err := m.instance()
	if err != nil {
		return err
	}
	if err := mg.Steps(-steps); err != nil {
		return &domain.MigrationError{Detail: fmt.Sprintf("rollback failed: %v", err)}
	}

	remaining, _, err := mg.Version()
	if err != nil && !errors.Is(err, gomigrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	for _, mig := range m.manifest.Migrations {
		if mig.Version > uint64(remaining) || errors.Is(err, gomigrate.ErrNilVersion) {
			if err := m.advanceTo(ctx, mig.Version, StateRolledBack); err != nil {
				return err
			}
		}
	}
	return nil
}
