package summary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// Paging bounds for List.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is one page of a user's summaries.
type Page struct {
	Items []*domain.Summary
	Total int
	Page  int
	Size  int
}

// owned loads a summary and checks the caller owns it.
func (o *Orchestrator) owned(ctx context.Context, userID, summaryID uuid.UUID) (*domain.Summary, error) {
	s, err := o.summaries.GetByID(ctx, summaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load summary: %w", err)
	}
	if !s.OwnedBy(userID) {
		o.log(ctx).Warn("summary access denied",
			slog.String("user_id", userID.String()),
			slog.String("summary_id", summaryID.String()))
		return nil, fmt.Errorf("%w: summary %s", ErrNotOwned, summaryID)
	}
	return s, nil
}

// Get returns one of the caller's summaries.
func (o *Orchestrator) Get(ctx context.Context, userID, summaryID uuid.UUID) (*domain.Summary, error) {
	return o.owned(ctx, userID, summaryID)
}

// List returns the caller's summaries, newest first. Pages count from zero;
// size is clamped to [1, MaxPageSize] and defaults to DefaultPageSize.
func (o *Orchestrator) List(ctx context.Context, userID uuid.UUID, page, size int) (*Page, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)

	items, total, err := o.summaries.ListByUser(ctx, userID, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	return &Page{Items: items, Total: total, Page: page, Size: size}, nil
}

// Delete removes one of the caller's summaries.
func (o *Orchestrator) Delete(ctx context.Context, userID, summaryID uuid.UUID) error {
	if _, err := o.owned(ctx, userID, summaryID); err != nil {
		return err
	}
	if err := o.summaries.Delete(ctx, summaryID); err != nil {
		return fmt.Errorf("failed to delete summary: %w", err)
	}
	o.log(ctx).Info("summary deleted",
		slog.String("user_id", userID.String()),
		slog.String("summary_id", summaryID.String()))
	return nil
}
