package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptor_AllColumns(t *testing.T) {
	cols := positionDescriptor.AllColumns()

	// Bookkeeping first, payload after.
	require.Greater(t, len(cols), len(versionColumns))
	assert.Equal(t, versionColumns, cols[:len(versionColumns)])
	assert.Contains(t, cols, "symbol")
	assert.Contains(t, cols, "strategy")
	assert.Contains(t, cols, "exit_price")
}

func TestDescriptor_InsertQueryReferencesEveryPayloadColumn(t *testing.T) {
	for _, tt := range []struct {
		name    string
		table   string
		payload []string
		first   string
		next    string
	}{
		{"position", positionDescriptor.Table, positionDescriptor.PayloadColumns,
			positionDescriptor.insertQuery(false), positionDescriptor.insertQuery(true)},
		{"quote", quoteDescriptor.Table, quoteDescriptor.PayloadColumns,
			quoteDescriptor.insertQuery(false), quoteDescriptor.insertQuery(true)},
		{"trade", tradeDescriptor.Table, tradeDescriptor.PayloadColumns,
			tradeDescriptor.insertQuery(false), tradeDescriptor.insertQuery(true)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			for _, q := range []string{tt.first, tt.next} {
				assert.Contains(t, q, "INSERT INTO "+tt.table)
				assert.Contains(t, q, "RETURNING surrogate_id")
				for _, col := range tt.payload {
					assert.Contains(t, q, col, "payload column %s must be written", col)
					assert.Contains(t, q, ":"+col, "payload column %s must be bound", col)
				}
			}

			// The chain's first version is stamped after insert; successors
			// carry the business key directly.
			assert.NotContains(t, tt.first, "business_id")
			assert.Contains(t, tt.next, "business_id")
			assert.True(t, strings.Contains(tt.next, ":business_id"))

			// The store must never write surrogate ids itself.
			assert.NotContains(t, tt.first, ":surrogate_id")
			assert.NotContains(t, tt.next, ":surrogate_id")
		})
	}
}

func TestSchemas_CoverEveryEntityType(t *testing.T) {
	schemas := Schemas()
	require.Len(t, schemas, 3)

	byEntity := make(map[string]EntitySchema, len(schemas))
	for _, s := range schemas {
		byEntity[s.Entity] = s
	}

	require.Contains(t, byEntity, "position")
	require.Contains(t, byEntity, "quote")
	require.Contains(t, byEntity, "trade")

	assert.Equal(t, "positions", byEntity["position"].Table)
	assert.Equal(t, "quotes", byEntity["quote"].Table)
	assert.Equal(t, "trades", byEntity["trade"].Table)

	for _, s := range schemas {
		for _, col := range versionColumns {
			assert.Contains(t, s.Columns, col, "%s must declare bookkeeping column %s", s.Entity, col)
		}
	}
}

func TestBusinessKeyPrefixesAreDistinct(t *testing.T) {
	prefixes := map[string]bool{
		positionDescriptor.Prefix: true,
		quoteDescriptor.Prefix:    true,
		tradeDescriptor.Prefix:    true,
	}
	assert.Len(t, prefixes, 3)
}
