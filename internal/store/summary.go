package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// SummaryStore defines the interface for summary persistence.
type SummaryStore interface {
	// Create inserts a new summary. The referenced document must exist and
	// belong to the same user; otherwise ErrDocumentNotFound is returned.
	Create(ctx context.Context, s *domain.Summary) error

	// GetByID retrieves a summary by its unique ID.
	// Returns ErrSummaryNotFound if the summary does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Summary, error)

	// Update replaces the stored artifact and updated_at of an existing
	// summary in a single write, keeping its identity. Returns
	// ErrSummaryNotFound if it does not exist.
	Update(ctx context.Context, s *domain.Summary) error

	// ListByUser returns a page of the user's summaries, newest first, and
	// the total number of summaries the user owns.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Summary, int, error)

	// Delete removes a summary. Returns ErrSummaryNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
