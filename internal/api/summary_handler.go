package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/summary"
	"github.com/phrazzld/scry-study/internal/task"
)

// SummaryService is the part of summary.Orchestrator the handlers use.
type SummaryService interface {
	task.Orchestrator
	Get(ctx context.Context, userID, summaryID uuid.UUID) (*domain.Summary, error)
	List(ctx context.Context, userID uuid.UUID, page, size int) (*summary.Page, error)
	Delete(ctx context.Context, userID, summaryID uuid.UUID) error
}

// TaskRunner runs a task to completion on a worker.
type TaskRunner interface {
	Run(ctx context.Context, t task.Task) error
}

// SummaryHandler handles summary generation and lifecycle requests.
// Generation work is run on the task pool so concurrent model calls stay
// bounded; the request waits for its task and is cancelled with it.
type SummaryHandler struct {
	summaries SummaryService
	runner    TaskRunner
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaries SummaryService, runner TaskRunner) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, runner: runner}
}

// GenerateSummary handles POST /api/v1/summaries/generate
func (h *SummaryHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req GenerateSummaryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	documentID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		HandleAPIError(w, r, domain.ErrInvalidID, "")
		return
	}

	t, err := task.NewGenerateSummaryTask(h.summaries, userID, documentID, req.mcqCount())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate summary")
		return
	}
	if err := h.runner.Run(r.Context(), t); err != nil {
		HandleAPIError(w, r, err, "Failed to generate summary")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, summaryToResponse(t.Result()))
}

// AppendMCQs handles POST /api/v1/summaries/{id}/mcqs
func (h *SummaryHandler) AppendMCQs(w http.ResponseWriter, r *http.Request) {
	h.appendMore(w, r, generation.KindMCQ)
}

// AppendFlashcards handles POST /api/v1/summaries/{id}/flashcards
func (h *SummaryHandler) AppendFlashcards(w http.ResponseWriter, r *http.Request) {
	h.appendMore(w, r, generation.KindFlashcard)
}

// AppendContent handles POST /api/v1/summaries/{id}/content, which adds an
// alternate summary.
func (h *SummaryHandler) AppendContent(w http.ResponseWriter, r *http.Request) {
	h.appendMore(w, r, generation.KindSummary)
}

func (h *SummaryHandler) appendMore(w http.ResponseWriter, r *http.Request, kind generation.Kind) {
	userID, summaryID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	t, err := task.NewAppendContentTask(h.summaries, userID, summaryID, kind)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate more content")
		return
	}
	if err := h.runner.Run(r.Context(), t); err != nil {
		HandleAPIError(w, r, err, "Failed to generate more content")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summaryToResponse(t.Result()))
}

// GetSummary handles GET /api/v1/summaries/{id}
func (h *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, summaryID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	s, err := h.summaries.Get(r.Context(), userID, summaryID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get summary")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summaryToResponse(s))
}

// ListSummaries handles GET /api/v1/summaries?page=&size=
func (h *SummaryHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	page, err := queryInt(r, "page", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	size, err := queryInt(r, "size", summary.DefaultPageSize)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	p, err := h.summaries.List(r.Context(), userID, page, size)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list summaries")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(p))
}

// DeleteSummary handles DELETE /api/v1/summaries/{id}
func (h *SummaryHandler) DeleteSummary(w http.ResponseWriter, r *http.Request) {
	userID, summaryID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.summaries.Delete(r.Context(), userID, summaryID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete summary")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
