package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBusinessID(t *testing.T) {
	assert.Equal(t, "POS-1", FormatBusinessID("POS", 1))
	assert.Equal(t, "POS-1042", FormatBusinessID("POS", 1042))
	assert.Equal(t, "TRD-7", FormatBusinessID("TRD", 7))
}

func TestVersionRow_Key(t *testing.T) {
	var row VersionRow
	assert.Equal(t, "", row.Key(), "unstamped row has no key")

	id := "QUO-5"
	row.BusinessID = &id
	assert.Equal(t, "QUO-5", row.Key())
}

func TestVersionRow_CoversAt(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	expired := VersionRow{RowEffectiveAt: t0, RowExpiresAt: &t1}
	require.True(t, expired.CoversAt(t0), "interval is closed at the start")
	require.True(t, expired.CoversAt(t0.Add(30*time.Minute)))
	require.False(t, expired.CoversAt(t1), "interval is open at the end")
	require.False(t, expired.CoversAt(t0.Add(-time.Second)))

	current := VersionRow{RowEffectiveAt: t1, RowCurrentInd: true}
	require.True(t, current.CoversAt(t1))
	require.True(t, current.CoversAt(t1.Add(24*time.Hour)))
	require.False(t, current.CoversAt(t0))
}

func TestContiguousIntervals(t *testing.T) {
	// Adjacent versions share the boundary instant: the old version's
	// expiry equals the new version's effective time, and exactly one of
	// them covers that instant.
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	boundary := t0.Add(time.Hour)

	old := VersionRow{RowEffectiveAt: t0, RowExpiresAt: &boundary}
	next := VersionRow{RowEffectiveAt: boundary, RowCurrentInd: true}

	assert.False(t, old.CoversAt(boundary))
	assert.True(t, next.CoversAt(boundary))
}
