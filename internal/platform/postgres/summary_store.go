package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// SummaryStore implements store.SummaryStore on PostgreSQL. The artifact is
// stored as JSONB in the content column.
type SummaryStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.SummaryStore = (*SummaryStore)(nil)

// NewSummaryStore creates a SummaryStore. If logger is nil, slog.Default() is used.
func NewSummaryStore(db *sql.DB, log *slog.Logger) *SummaryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &SummaryStore{db: db, logger: log.With(slog.String("component", "summary_store"))}
}

func (s *SummaryStore) log(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l.With(slog.String("component", "summary_store"))
	}
	return s.logger
}

const summaryColumns = `id, user_id, document_id, content, model_used, tokens_used, created_at, updated_at`

// Create implements store.SummaryStore.Create. The owning document is locked
// for share while the row is inserted so it cannot be deleted or reassigned
// in between.
func (s *SummaryStore) Create(ctx context.Context, sum *domain.Summary) error {
	log := s.log(ctx).With(slog.String("summary_id", sum.ID.String()))

	if err := sum.Validate(); err != nil {
		log.Warn("summary validation failed during create", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	content, err := json.Marshal(sum.Artifact)
	if err != nil {
		return fmt.Errorf("failed to encode summary content: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var owner uuid.UUID
		err := tx.QueryRowContext(ctx,
			`SELECT user_id FROM documents WHERE id = $1 FOR SHARE`, sum.DocumentID,
		).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != sum.UserID) {
			return store.ErrDocumentNotFound
		}
		if err != nil {
			return MapError(err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO summaries (`+summaryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			sum.ID,
			sum.UserID,
			sum.DocumentID,
			content,
			sum.ModelUsed,
			sum.TokensUsed,
			sum.CreatedAt,
			sum.UpdatedAt,
		)
		return MapError(err)
	})
	if err != nil {
		log.Error("failed to create summary", slog.String("error", err.Error()))
		return err
	}

	log.Info("summary created",
		slog.String("user_id", sum.UserID.String()),
		slog.String("document_id", sum.DocumentID.String()),
		slog.Int("content_bytes", len(content)))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (*domain.Summary, error) {
	var (
		sum     domain.Summary
		content []byte
	)
	if err := row.Scan(
		&sum.ID,
		&sum.UserID,
		&sum.DocumentID,
		&content,
		&sum.ModelUsed,
		&sum.TokensUsed,
		&sum.CreatedAt,
		&sum.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, &sum.Artifact); err != nil {
		return nil, fmt.Errorf("failed to decode summary content: %w", err)
	}
	return &sum, nil
}

// GetByID implements store.SummaryStore.GetByID.
func (s *SummaryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Summary, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+summaryColumns+` FROM summaries WHERE id = $1`, id)
	sum, err := scanSummary(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSummaryNotFound
		}
		s.log(ctx).Error("failed to get summary",
			slog.String("error", err.Error()),
			slog.String("summary_id", id.String()))
		return nil, MapError(err)
	}
	return sum, nil
}

// Update implements store.SummaryStore.Update. Only the content and
// updated_at change.
func (s *SummaryStore) Update(ctx context.Context, sum *domain.Summary) error {
	log := s.log(ctx).With(slog.String("summary_id", sum.ID.String()))

	if err := sum.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	content, err := json.Marshal(sum.Artifact)
	if err != nil {
		return fmt.Errorf("failed to encode summary content: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE summaries SET content = $1, updated_at = $2 WHERE id = $3`,
		content, sum.UpdatedAt, sum.ID,
	)
	if err != nil {
		log.Error("failed to update summary", slog.String("error", err.Error()))
		return MapError(err)
	}
	if err := checkRowsAffected(result, store.ErrSummaryNotFound); err != nil {
		return err
	}

	log.Debug("summary updated", slog.Int("content_bytes", len(content)))
	return nil
}

// ListByUser implements store.SummaryStore.ListByUser.
func (s *SummaryStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Summary, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM summaries WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, MapError(err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+summaryColumns+` FROM summaries
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		s.log(ctx).Error("failed to list summaries",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.Summary, 0, limit)
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}
	return items, total, nil
}

// Delete implements store.SummaryStore.Delete.
func (s *SummaryStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM summaries WHERE id = $1`, id)
	if err != nil {
		s.log(ctx).Error("failed to delete summary",
			slog.String("error", err.Error()),
			slog.String("summary_id", id.String()))
		return MapError(err)
	}
	return checkRowsAffected(result, store.ErrSummaryNotFound)
}
