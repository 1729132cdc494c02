package task

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrchestrator struct {
	mock.Mock
}

func (m *mockOrchestrator) Generate(ctx context.Context, userID, documentID uuid.UUID, mcqCount int) (*domain.Summary, error) {
	args := m.Called(ctx, userID, documentID, mcqCount)
	s, _ := args.Get(0).(*domain.Summary)
	return s, args.Error(1)
}

func (m *mockOrchestrator) AppendMore(
	ctx context.Context,
	userID, summaryID uuid.UUID,
	kind generation.Kind,
) (*domain.Summary, error) {
	args := m.Called(ctx, userID, summaryID, kind)
	s, _ := args.Get(0).(*domain.Summary)
	return s, args.Error(1)
}

func TestGenerateSummaryTask(t *testing.T) {
	t.Parallel()

	orch := &mockOrchestrator{}
	userID, docID := uuid.New(), uuid.New()
	want := &domain.Summary{ID: uuid.New()}
	orch.On("Generate", mock.Anything, userID, docID, 5).Return(want, nil).Once()

	task, err := NewGenerateSummaryTask(orch, userID, docID, 5)
	require.NoError(t, err)
	assert.Equal(t, TypeGenerateSummary, task.Type())
	assert.NotEqual(t, uuid.Nil, task.ID())

	p := NewPool(PoolConfig{MinWorkers: 1, MaxWorkers: 1, QueueSize: 1}, testLogger())
	defer stopPool(t, p)

	require.NoError(t, p.Run(context.Background(), task))
	assert.Same(t, want, task.Result())
	orch.AssertExpectations(t)
}

func TestAppendContentTask(t *testing.T) {
	t.Parallel()

	orch := &mockOrchestrator{}
	userID, summaryID := uuid.New(), uuid.New()
	failure := errors.New("merge failed")
	orch.On("AppendMore", mock.Anything, userID, summaryID, generation.KindFlashcard).Return(nil, failure).Once()

	task, err := NewAppendContentTask(orch, userID, summaryID, generation.KindFlashcard)
	require.NoError(t, err)
	assert.Equal(t, TypeAppendContent, task.Type())

	assert.ErrorIs(t, task.Execute(context.Background()), failure)
	assert.Nil(t, task.Result())
	orch.AssertExpectations(t)
}

func TestTaskConstructorsRejectNilOrchestrator(t *testing.T) {
	t.Parallel()

	_, err := NewGenerateSummaryTask(nil, uuid.New(), uuid.New(), 5)
	assert.ErrorIs(t, err, ErrNilOrchestrator)
	_, err = NewAppendContentTask(nil, uuid.New(), uuid.New(), generation.KindMCQ)
	assert.ErrorIs(t, err, ErrNilOrchestrator)
}
