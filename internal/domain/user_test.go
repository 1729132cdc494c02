package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("normalizes email", func(t *testing.T) {
		u, err := NewUser("  Ada@Example.COM ", "$2a$10$hash")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, u.ID)
		assert.Equal(t, "ada@example.com", u.Email)
		assert.False(t, u.CreatedAt.IsZero())
		assert.Equal(t, u.CreatedAt, u.UpdatedAt)
	})

	tests := []struct {
		name    string
		email   string
		hash    string
		wantErr error
	}{
		{"empty email", "  ", "h", ErrEmptyEmail},
		{"no at sign", "ada.example.com", "h", ErrInvalidEmail},
		{"no domain", "ada@", "h", ErrInvalidEmail},
		{"missing hash", "ada@example.com", "", ErrEmptyHashedPassword},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.email, tc.hash)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"empty", "", ErrEmptyPassword},
		{"too short", "short-pass", ErrPasswordTooShort},
		{"minimum length", strings.Repeat("a", MinPasswordLength), nil},
		{"maximum length", strings.Repeat("a", MaxPasswordLength), nil},
		{"too long", strings.Repeat("a", MaxPasswordLength+1), ErrPasswordTooLong},
		{"multibyte over byte limit", strings.Repeat("é", 40), ErrPasswordTooLong},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tc.password)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
