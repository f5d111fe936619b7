// Package migrations embeds the ordered schema migration scripts.
//
// Every .up.sql script opens with a manifest header naming the entity
// tables it touches:
//
//	-- entities: positions
//
// The header scopes the schema/write-path synchronization check. A new
// non-nullable column must be introduced as add-column, backfill, not-null,
// index, in that order (see 000004 for the pattern).
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
