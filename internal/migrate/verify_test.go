package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffColumns(t *testing.T) {
	live := []string{"surrogate_id", "business_id", "symbol", "strategy"}
	declared := []string{"surrogate_id", "business_id", "symbol"}

	unreferenced, missing := diffColumns(live, declared)
	assert.Equal(t, []string{"strategy"}, unreferenced,
		"a live column the write path ignores would fill with silent NULLs")
	assert.Empty(t, missing)

	unreferenced, missing = diffColumns(declared, live)
	assert.Empty(t, unreferenced)
	assert.Equal(t, []string{"strategy"}, missing,
		"a declared column the schema lacks would fail every insert")
}

func TestDiffColumns_InSync(t *testing.T) {
	cols := []string{"surrogate_id", "business_id", "symbol"}
	unreferenced, missing := diffColumns(cols, cols)
	assert.Empty(t, unreferenced)
	assert.Empty(t, missing)
}

func TestDiffColumns_SortedOutput(t *testing.T) {
	unreferenced, missing := diffColumns(
		[]string{"zeta", "alpha"},
		[]string{"mid", "beta"},
	)
	assert.Equal(t, []string{"alpha", "zeta"}, unreferenced)
	assert.Equal(t, []string{"beta", "mid"}, missing)
}
