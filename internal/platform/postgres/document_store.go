package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// DocumentStore implements store.DocumentStore on PostgreSQL.
type DocumentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates a DocumentStore. If logger is nil, slog.Default() is used.
func NewDocumentStore(db store.DBTX, log *slog.Logger) *DocumentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &DocumentStore{db: db, logger: log.With(slog.String("component", "document_store"))}
}

func (s *DocumentStore) log(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l.With(slog.String("component", "document_store"))
	}
	return s.logger
}

// Create implements store.DocumentStore.Create.
func (s *DocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	log := s.log(ctx)

	if err := doc.Validate(); err != nil {
		log.Warn("document validation failed during create",
			slog.String("error", err.Error()),
			slog.String("document_id", doc.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO documents (id, user_id, title, source_type, source_url, extracted_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.Title,
		string(doc.SourceType),
		sql.NullString{String: doc.SourceURL, Valid: doc.SourceURL != ""},
		doc.ExtractedText,
		doc.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create document",
			slog.String("error", err.Error()),
			slog.String("document_id", doc.ID.String()))
		return MapError(err)
	}

	log.Info("document created",
		slog.String("document_id", doc.ID.String()),
		slog.String("user_id", doc.UserID.String()),
		slog.Int("text_length", len(doc.ExtractedText)))
	return nil
}

// GetByID implements store.DocumentStore.GetByID.
func (s *DocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	query := `
		SELECT id, user_id, title, source_type, source_url, extracted_text, created_at
		FROM documents
		WHERE id = $1
	`
	var (
		doc        domain.Document
		sourceType string
		sourceURL  sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Title,
		&sourceType,
		&sourceURL,
		&doc.ExtractedText,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.log(ctx).Debug("document not found", slog.String("document_id", id.String()))
			return nil, store.ErrDocumentNotFound
		}
		s.log(ctx).Error("failed to get document",
			slog.String("error", err.Error()),
			slog.String("document_id", id.String()))
		return nil, MapError(err)
	}

	doc.SourceType = domain.SourceType(sourceType)
	doc.SourceURL = sourceURL.String
	return &doc, nil
}
