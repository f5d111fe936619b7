package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradevault/internal/domain"
)

func TestLifecycleTransitions(t *testing.T) {
	// Forward path.
	assert.True(t, StateDrafted.CanTransition(StateAppliedLocally))
	assert.True(t, StateAppliedLocally.CanTransition(StateVerified))
	assert.True(t, StateVerified.CanTransition(StateCommitted))

	// Rollback and re-application.
	assert.True(t, StateCommitted.CanTransition(StateRolledBack))
	assert.True(t, StateVerified.CanTransition(StateRolledBack))
	assert.True(t, StateRolledBack.CanTransition(StateAppliedLocally))

	// No skipping and no going backwards.
	assert.False(t, StateDrafted.CanTransition(StateCommitted))
	assert.False(t, StateDrafted.CanTransition(StateVerified))
	assert.False(t, StateAppliedLocally.CanTransition(StateCommitted))
	assert.False(t, StateCommitted.CanTransition(StateDrafted))
	assert.False(t, StateRolledBack.CanTransition(StateCommitted))
}

func TestTransition(t *testing.T) {
	next, err := StateDrafted.Transition(StateAppliedLocally)
	require.NoError(t, err)
	assert.Equal(t, StateAppliedLocally, next)

	_, err = StateDrafted.Transition(StateCommitted)
	var migErr *domain.MigrationError
	require.ErrorAs(t, err, &migErr)
	assert.Contains(t, migErr.Detail, "invalid lifecycle transition")
}

func TestPassed(t *testing.T) {
	assert.True(t, StateCommitted.passed(StateAppliedLocally), "repeated Apply is a no-op on committed migrations")
	assert.True(t, StateVerified.passed(StateVerified))
	assert.False(t, StateDrafted.passed(StateAppliedLocally))
	assert.False(t, StateRolledBack.passed(StateAppliedLocally), "rolled back migrations re-enter the forward path")
	assert.False(t, StateCommitted.passed(StateRolledBack), "rollback is never skipped as already-passed")
}
