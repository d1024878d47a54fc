package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_KindMatching(t *testing.T) {
	err := NewDomainError("assignment", "GetByStudentIDs", ErrPartialData, "2 of 5 batches failed")

	assert.True(t, IsPartialData(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, "assignment.GetByStudentIDs: 2 of 5 batches failed", err.Error())
}

func TestWrapError_PreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapError("store", "Query", ErrServiceUnavailable, "data store is down", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsExternalService(err))
	assert.True(t, IsRetryable(err))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestDomainError_SurvivesFmtWrapping(t *testing.T) {
	err := fmt.Errorf("load signals: %w", ErrStudentNotFound)

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrInvalidStudentID))
	assert.True(t, IsValidation(ErrInvalidJobLimit))
	assert.False(t, IsValidation(ErrStoreUnavailable))
}
