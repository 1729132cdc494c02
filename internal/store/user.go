package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// UserStore defines the interface for account persistence.
type UserStore interface {
	// Create saves a new user. The password must already be hashed.
	// Returns ErrEmailExists if the email is already registered and
	// ErrInvalidEntity wrapping the validation error if the user is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by normalized email address.
	// Returns ErrUserNotFound if no user has that email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
