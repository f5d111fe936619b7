package migrate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"tradevault/internal/domain"
	"tradevault/internal/repository"
)

// VerifySynchronization confirms that every column of the live table is
// referenced by the write path for that entity type, and vice versa. The
// historical failure mode this guards against: a migration lands, the
// insert/update statements are not updated, and new columns fill with
// silent NULLs that pass type-checking and break business logic later.
// Drift therefore blocks rollout instead of logging a warning.
func (m *Migrator) VerifySynchronization(ctx context.Context, schema repository.EntitySchema) error {
	var live []string
	query := `
        SELECT column_name FROM information_schema.columns
        WHERE table_schema = current_schema() AND table_name = $1
        ORDER BY ordinal_position`
	if err := m.db.SelectContext(ctx, &live, query, schema.Table); err != nil {
		return fmt.Errorf("failed to read live schema for %s: %w", schema.Table, err)
	}
	if len(live) == 0 {
		return &domain.MigrationError{
			Entity: schema.Entity,
			Detail: fmt.Sprintf("table %s does not exist", schema.Table),
		}
	}

	unreferenced, missing := diffColumns(live, schema.Columns)
	if len(unreferenced) == 0 && len(missing) == 0 {
		return nil
	}

	var parts []string
	if len(unreferenced) > 0 {
		parts = append(parts, fmt.Sprintf("columns not referenced by write path: %s", strings.Join(unreferenced, ", ")))
	}
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("columns referenced but absent from schema: %s", strings.Join(missing, ", ")))
	}
	return &domain.MigrationError{
		Entity: schema.Entity,
		Detail: fmt.Sprintf("table %s drifted from write path: %s", schema.Table, strings.Join(parts, "; ")),
	}
}

// VerifyAll runs the drift check for every entity type and advances the
// ledger entries touching verified tables.
func (m *Migrator) VerifyAll(ctx context.Context, schemas []repository.EntitySchema) error {
	for _, schema := range schemas {
		if err := m.VerifySynchronization(ctx, schema); err != nil {
			return err
		}
		for _, mig := range m.manifest.Touching(schema.Table) {
			if err := m.advanceTo(ctx, mig.Version, StateVerified); err != nil {
				return err
			}
		}
	}
	return nil
}

// diffColumns compares the live column set against the write-path column
// set. Returns live columns the code never references, and referenced
// columns the schema lacks. Both slices come back sorted.
func diffColumns(live, declared []string) (unreferenced, missing []string) {
	liveSet := make(map[string]bool, len(live))
	for _, c := range live {
		liveSet[c] = true
	}
	declaredSet := make(map[string]bool, len(declared))
	for _, c := range declared {
		declaredSet[c] = true
	}

	for _, c := range live {
		if !declaredSet[c] {
			unreferenced = append(unreferenced, c)
		}
	}
	for _, c := range declared {
		if !liveSet[c] {
			missing = append(missing, c)
		}
	}
	sort.Strings(unreferenced)
	sort.Strings(missing)
	return unreferenced, missing
}
