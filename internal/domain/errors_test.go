package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	conflict := &ConflictError{Entity: "position", BusinessID: "POS-1"}
	assert.True(t, IsRetryable(conflict))
	assert.True(t, IsRetryable(fmt.Errorf("update: %w", conflict)), "retryability survives wrapping")

	assert.False(t, IsRetryable(&NotFoundError{Entity: "position", BusinessID: "POS-1"}))
	assert.False(t, IsRetryable(&ValidationError{Entity: "position", Reason: "closed twice"}))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}

func TestErrorsAsThroughWrap(t *testing.T) {
	wrapped := fmt.Errorf("close position: %w", &ValidationError{
		Entity:     "position",
		BusinessID: "POS-1",
		Reason:     "current version is terminal, no further transitions",
	})

	var validation *ValidationError
	require.True(t, errors.As(wrapped, &validation))
	assert.Equal(t, "POS-1", validation.BusinessID)
}

func TestMigrationErrorMessages(t *testing.T) {
	assert.Equal(t, "migration 000004: duplicate version number",
		(&MigrationError{Version: 4, Detail: "duplicate version number"}).Error())
	assert.Equal(t, "migration check for position: table positions does not exist",
		(&MigrationError{Entity: "position", Detail: "table positions does not exist"}).Error())
	assert.Equal(t, "migration: no migration scripts found",
		(&MigrationError{Detail: "no migration scripts found"}).Error())
}
