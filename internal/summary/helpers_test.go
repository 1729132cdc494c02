package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/backoff"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/mocks"
	"github.com/phrazzld/scry-study/internal/platform/memstore"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store  *memstore.Store
	client *mocks.MockGenerationClient
	orch   *Orchestrator
	userID uuid.UUID
}

func fastRetry() backoff.Policy {
	return backoff.Policy{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 2}
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	if cfg.Retry == (backoff.Policy{}) {
		cfg.Retry = fastRetry()
	}
	st := memstore.New()
	client := &mocks.MockGenerationClient{Model: "test-model"}
	orch, err := NewOrchestrator(client, st.Summaries(), st.Documents(), cfg, setupTestLogger())
	require.NoError(t, err)
	return &fixture{store: st, client: client, orch: orch, userID: uuid.New()}
}

func (f *fixture) addDocument(t *testing.T, text string) *domain.Document {
	t.Helper()
	doc, err := domain.NewDocument(f.userID, "Source", domain.SourceTypeText, "", text)
	require.NoError(t, err)
	require.NoError(t, f.store.Documents().Create(context.Background(), doc))
	return doc
}

func (f *fixture) persisted(t *testing.T) int {
	t.Helper()
	_, total, err := f.store.Summaries().ListByUser(context.Background(), f.userID, 100, 0)
	require.NoError(t, err)
	return total
}

func sampleMCQs(prefix string, n int) []domain.MCQ {
	out := make([]domain.MCQ, n)
	for i := range out {
		out[i] = domain.MCQ{
			Question:    fmt.Sprintf("%s question %d?", prefix, i),
			Options:     []string{"A", "B", "C", "D"},
			Answer:      "A",
			Explanation: "because",
		}
	}
	return out
}

func sampleFlashcards(prefix string, n int) []domain.Flashcard {
	out := make([]domain.Flashcard, n)
	for i := range out {
		out[i] = domain.Flashcard{Front: fmt.Sprintf("%s front %d", prefix, i), Back: "back"}
	}
	return out
}

func artifactJSON(t *testing.T, summary string, mcqs int) string {
	t.Helper()
	a := domain.StudyArtifact{
		ExecutiveSummary: summary,
		SectionSummary:   []string{"point"},
		KeyTerms:         []domain.KeyTerm{{Term: "t", Definition: "d"}},
		MCQs:             sampleMCQs("orig", mcqs),
		Flashcards:       sampleFlashcards("orig", 2),
		ExamInsights:     []string{"insight"},
	}
	b, err := json.Marshal(a)
	require.NoError(t, err)
	return string(b)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
