package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
)

// ErrNilOrchestrator is returned when a task is built without an orchestrator.
var ErrNilOrchestrator = errors.New("orchestrator cannot be nil")

// Orchestrator is the part of summary.Orchestrator the tasks drive.
type Orchestrator interface {
	Generate(ctx context.Context, userID, documentID uuid.UUID, mcqCount int) (*domain.Summary, error)
	AppendMore(ctx context.Context, userID, summaryID uuid.UUID, kind generation.Kind) (*domain.Summary, error)
}

// GenerateSummaryTask generates a study artifact for one document.
type GenerateSummaryTask struct {
	id         uuid.UUID
	orch       Orchestrator
	userID     uuid.UUID
	documentID uuid.UUID
	mcqCount   int

	result *domain.Summary
}

// NewGenerateSummaryTask creates a GenerateSummaryTask.
func NewGenerateSummaryTask(
	orch Orchestrator,
	userID, documentID uuid.UUID,
	mcqCount int,
) (*GenerateSummaryTask, error) {
	if orch == nil {
		return nil, ErrNilOrchestrator
	}
	return &GenerateSummaryTask{
		id:         uuid.New(),
		orch:       orch,
		userID:     userID,
		documentID: documentID,
		mcqCount:   mcqCount,
	}, nil
}

func (t *GenerateSummaryTask) ID() uuid.UUID { return t.id }
func (t *GenerateSummaryTask) Type() string  { return TypeGenerateSummary }

// Execute implements Task.
func (t *GenerateSummaryTask) Execute(ctx context.Context) error {
	s, err := t.orch.Generate(ctx, t.userID, t.documentID, t.mcqCount)
	if err != nil {
		return err
	}
	t.result = s
	return nil
}

// Result returns the generated summary once Execute has succeeded.
func (t *GenerateSummaryTask) Result() *domain.Summary {
	return t.result
}

// AppendContentTask extends an existing summary with more content of one kind.
type AppendContentTask struct {
	id        uuid.UUID
	orch      Orchestrator
	userID    uuid.UUID
	summaryID uuid.UUID
	kind      generation.Kind

	result *domain.Summary
}

// NewAppendContentTask creates an AppendContentTask.
func NewAppendContentTask(
	orch Orchestrator,
	userID, summaryID uuid.UUID,
	kind generation.Kind,
) (*AppendContentTask, error) {
	if orch == nil {
		return nil, ErrNilOrchestrator
	}
	return &AppendContentTask{
		id:        uuid.New(),
		orch:      orch,
		userID:    userID,
		summaryID: summaryID,
		kind:      kind,
	}, nil
}

func (t *AppendContentTask) ID() uuid.UUID { return t.id }
func (t *AppendContentTask) Type() string  { return TypeAppendContent }

// Execute implements Task.
func (t *AppendContentTask) Execute(ctx context.Context) error {
	s, err := t.orch.AppendMore(ctx, t.userID, t.summaryID, t.kind)
	if err != nil {
		return err
	}
	t.result = s
	return nil
}

// Result returns the updated summary once Execute has succeeded.
func (t *AppendContentTask) Result() *domain.Summary {
	return t.result
}
