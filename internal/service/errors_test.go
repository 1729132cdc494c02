package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrNotOwned, ErrDocumentNotFound))
	assert.False(t, errors.Is(ErrDocumentNotFound, ErrNotOwned))
}

func TestServiceError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ServiceError
		expected string
	}{
		{
			name:     "with underlying error",
			err:      &ServiceError{Service: "document", Op: "create", Err: errors.New("database connection failed")},
			expected: "document service create operation failed: database connection failed",
		},
		{
			name:     "without underlying error",
			err:      &ServiceError{Service: "document", Op: "get"},
			expected: "document service get operation failed",
		},
		{
			name:     "with sentinel error",
			err:      &ServiceError{Service: "document", Op: "get", Err: ErrNotOwned},
			expected: "document service get operation failed: resource is owned by another user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.Equal(t, tt.err.Err, tt.err.Unwrap())
		})
	}

	wrapped := &ServiceError{Service: "document", Op: "get", Err: ErrNotOwned}
	assert.ErrorIs(t, wrapped, ErrNotOwned)
}
