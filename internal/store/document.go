package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// DocumentStore defines the interface for document persistence.
type DocumentStore interface {
	// Create saves a new document. Returns ErrInvalidEntity wrapping the
	// validation error if the document is invalid.
	Create(ctx context.Context, doc *domain.Document) error

	// GetByID retrieves a document including its extracted text.
	// Returns ErrDocumentNotFound if the document does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
}
