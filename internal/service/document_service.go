package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// ErrNilDocumentStore is returned when NewDocumentService gets no store.
var ErrNilDocumentStore = errors.New("document store cannot be nil")

// CreateDocumentParams carries the fields of a new document. Text must
// already be extracted from its source.
type CreateDocumentParams struct {
	Title      string
	SourceType domain.SourceType
	SourceURL  string
	Text       string
}

// DocumentService manages the source documents summaries are generated from.
type DocumentService interface {
	// CreateDocument validates and stores a new document for userID.
	// Validation failures wrap domain.ErrValidation.
	CreateDocument(ctx context.Context, userID uuid.UUID, params CreateDocumentParams) (*domain.Document, error)

	// GetDocument returns one of the caller's documents.
	GetDocument(ctx context.Context, userID, documentID uuid.UUID) (*domain.Document, error)
}

type documentServiceImpl struct {
	documents store.DocumentStore
	logger    *slog.Logger
}

// NewDocumentService creates a DocumentService backed by documents.
func NewDocumentService(documents store.DocumentStore, log *slog.Logger) (DocumentService, error) {
	if documents == nil {
		return nil, ErrNilDocumentStore
	}
	if log == nil {
		log = slog.Default()
	}
	return &documentServiceImpl{
		documents: documents,
		logger:    log.With(slog.String("component", "document_service")),
	}, nil
}

func (s *documentServiceImpl) log(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l.With(slog.String("component", "document_service"))
	}
	return s.logger
}

func (s *documentServiceImpl) CreateDocument(
	ctx context.Context,
	userID uuid.UUID,
	params CreateDocumentParams,
) (*domain.Document, error) {
	doc, err := domain.NewDocument(userID, params.Title, params.SourceType, params.SourceURL, params.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		s.log(ctx).Error("failed to save document",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, &ServiceError{Service: "document", Op: "create", Err: err}
	}

	s.log(ctx).Info("document created",
		slog.String("user_id", userID.String()),
		slog.String("document_id", doc.ID.String()),
		slog.String("source_type", string(doc.SourceType)),
		slog.Int("length", len(doc.ExtractedText)))
	return doc, nil
}

func (s *documentServiceImpl) GetDocument(
	ctx context.Context,
	userID, documentID uuid.UUID,
) (*domain.Document, error) {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, &ServiceError{Service: "document", Op: "get", Err: err}
	}
	if !doc.OwnedBy(userID) {
		s.log(ctx).Warn("document access denied",
			slog.String("user_id", userID.String()),
			slog.String("document_id", documentID.String()))
		return nil, ErrNotOwned
	}
	return doc, nil
}
