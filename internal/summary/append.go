package summary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/backoff"
	"github.com/phrazzld/scry-study/internal/chunking"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
)

// AppendMore asks the model for more content of the given kind and merges it
// into the caller's summary. The summary keeps its identity. If the model's
// result cannot be parsed the stored summary is not written.
func (o *Orchestrator) AppendMore(
	ctx context.Context,
	userID, summaryID uuid.UUID,
	kind generation.Kind,
) (*domain.Summary, error) {
	log := o.log(ctx).With(
		slog.String("user_id", userID.String()),
		slog.String("summary_id", summaryID.String()),
		slog.String("kind", string(kind)),
	)

	kind, err := generation.ParseKind(string(kind))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	current, err := o.owned(ctx, userID, summaryID)
	if err != nil {
		return nil, err
	}

	doc, err := o.documents.GetByID(ctx, current.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	text := chunking.Normalize(doc.ExtractedText)
	if text == "" {
		return nil, ErrEmptyContent
	}
	if len(text) > o.cfg.MaxDocumentChars {
		log.Warn("document text truncated for incremental generation",
			slog.Int("length", len(text)),
			slog.Int("limit", o.cfg.MaxDocumentChars))
		o.metrics.DocumentTruncated()
		text = text[:o.cfg.MaxDocumentChars] + TruncationMarker
	}

	label := labelAppend + "." + string(kind)
	raw, err := backoff.Execute(ctx, o.executor, label, func(ctx context.Context) (string, error) {
		return o.client.GenerateIncrement(ctx, text, kind)
	})
	if err != nil {
		err = o.classify(err)
		o.metrics.AppendFailed(kind, "generation")
		log.Error("incremental generation failed", slog.String("error", err.Error()))
		return nil, err
	}

	merged, err := mergeRaw(current.Artifact, kind, raw)
	if err != nil {
		o.metrics.AppendFailed(kind, "merge")
		log.Error("incremental result could not be merged", slog.String("error", err.Error()))
		return nil, err
	}

	updated := current.WithArtifact(merged)
	if err := o.summaries.Update(ctx, updated); err != nil {
		log.Error("failed to persist merged summary", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}

	o.metrics.AppendCompleted(kind)
	log.Info("summary extended",
		slog.Int("mcqs", len(merged.MCQs)),
		slog.Int("flashcards", len(merged.Flashcards)))
	return updated, nil
}

func mergeRaw(a domain.StudyArtifact, kind generation.Kind, raw string) (domain.StudyArtifact, error) {
	switch kind {
	case generation.KindMCQ:
		mcqs, err := ParseMCQs(raw)
		if err != nil {
			return domain.StudyArtifact{}, err
		}
		return MergeMCQs(a, mcqs), nil
	case generation.KindFlashcard:
		cards, err := ParseFlashcards(raw)
		if err != nil {
			return domain.StudyArtifact{}, err
		}
		return MergeFlashcards(a, cards), nil
	case generation.KindSummary:
		text, err := ParseAlternateSummary(raw)
		if err != nil {
			return domain.StudyArtifact{}, err
		}
		return MergeAlternateSummary(a, text), nil
	default:
		return domain.StudyArtifact{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, kind)
	}
}

// AppendMCQs appends a small batch of additional questions.
func (o *Orchestrator) AppendMCQs(ctx context.Context, userID, summaryID uuid.UUID) (*domain.Summary, error) {
	return o.AppendMore(ctx, userID, summaryID, generation.KindMCQ)
}

// AppendFlashcards appends a batch of additional flashcards.
func (o *Orchestrator) AppendFlashcards(ctx context.Context, userID, summaryID uuid.UUID) (*domain.Summary, error) {
	return o.AppendMore(ctx, userID, summaryID, generation.KindFlashcard)
}

// AppendAlternateSummary appends an alternative executive summary.
func (o *Orchestrator) AppendAlternateSummary(
	ctx context.Context,
	userID, summaryID uuid.UUID,
) (*domain.Summary, error) {
	return o.AppendMore(ctx, userID, summaryID, generation.KindSummary)
}
