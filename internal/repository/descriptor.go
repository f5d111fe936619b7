package repository

import (
	"fmt"
	"strings"

	"tradevault/internal/domain"
)

// bookkeeping columns present on every versioned table, in schema order.
var versionColumns = []string{
	"surrogate_id",
	"business_id",
	"op_id",
	"row_current_ind",
	"row_effective_at",
	"row_expires_at",
}

// Descriptor maps one entity type onto its SCD2 table. The insert and update
// statements of the version store are generated from PayloadColumns, which is
// what makes schema drift detectable: a column the descriptor does not name
// is a column the write path does not populate.
type Descriptor[T any] struct {
	Entity         string
	Table          string
	Prefix         string
	PayloadColumns []string
	Meta           func(*T) *domain.VersionRow
	Terminal       func(*T) bool
}

// AllColumns returns every column the write path references, bookkeeping
// included. VerifySynchronization compares this set against the live schema.
func (d Descriptor[T]) AllColumns() []string {
	cols := make([]string, 0, len(versionColumns)+len(d.PayloadColumns))
	cols = append(cols, versionColumns...)
	cols = append(cols, d.PayloadColumns...)
	return cols
}

// insertQuery builds the named INSERT statement. The first version of a chain
// is inserted without business_id (stamped afterwards inside the same
// transaction); successor versions carry it.
func (d Descriptor[T]) insertQuery(withBusinessID bool) string {
	cols := []string{"op_id", "row_current_ind", "row_effective_at", "row_expires_at"}
	if withBusinessID {
		cols = append([]string{"business_id"}, cols...)
	}
	cols = append(cols, d.PayloadColumns...)

	params := make([]string, len(cols))
	for i, c := range cols {
		params[i] = ":" + c
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING surrogate_id",
		d.Table,
		strings.Join(cols, ", "),
		strings.Join(params, ", "),
	)
}

// EntitySchema is the write-path column contract of one entity type, consumed
// by the schema drift check.
type EntitySchema struct {
	Entity  string
	Table   string
	Columns []string
}

// Schemas lists the write-path contract of every entity type the store
// manages. New entity types must be added here or the startup drift gate
// will not cover them.
func Schemas() []EntitySchema {
	return []EntitySchema{
		{Entity: positionDescriptor.Entity, Table: positionDescriptor.Table, Columns: positionDescriptor.AllColumns()},
		{Entity: quoteDescriptor.Entity, Table: quoteDescriptor.Table, Columns: quoteDescriptor.AllColumns()},
		{Entity: tradeDescriptor.Entity, Table: tradeDescriptor.Table, Columns: tradeDescriptor.AllColumns()},
	}
}
