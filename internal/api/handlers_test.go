package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/platform/memstore"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/phrazzld/scry-study/internal/summary"
	"github.com/phrazzld/scry-study/internal/task"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockSummaryService implements SummaryService using testify/mock.
type mockSummaryService struct {
	mock.Mock
}

func (m *mockSummaryService) Generate(
	ctx context.Context,
	userID, documentID uuid.UUID,
	mcqCount int,
) (*domain.Summary, error) {
	args := m.Called(ctx, userID, documentID, mcqCount)
	s, _ := args.Get(0).(*domain.Summary)
	return s, args.Error(1)
}

func (m *mockSummaryService) AppendMore(
	ctx context.Context,
	userID, summaryID uuid.UUID,
	kind generation.Kind,
) (*domain.Summary, error) {
	args := m.Called(ctx, userID, summaryID, kind)
	s, _ := args.Get(0).(*domain.Summary)
	return s, args.Error(1)
}

func (m *mockSummaryService) Get(ctx context.Context, userID, summaryID uuid.UUID) (*domain.Summary, error) {
	args := m.Called(ctx, userID, summaryID)
	s, _ := args.Get(0).(*domain.Summary)
	return s, args.Error(1)
}

func (m *mockSummaryService) List(ctx context.Context, userID uuid.UUID, page, size int) (*summary.Page, error) {
	args := m.Called(ctx, userID, page, size)
	p, _ := args.Get(0).(*summary.Page)
	return p, args.Error(1)
}

func (m *mockSummaryService) Delete(ctx context.Context, userID, summaryID uuid.UUID) error {
	return m.Called(ctx, userID, summaryID).Error(0)
}

// inlineRunner runs tasks on the calling goroutine.
type inlineRunner struct {
	err error
}

func (r inlineRunner) Run(ctx context.Context, t task.Task) error {
	if r.err != nil {
		return r.err
	}
	return t.Execute(ctx)
}

type testServer struct {
	router    http.Handler
	summaries *mockSummaryService
	userID    uuid.UUID
}

func newTestServer(t *testing.T, runner TaskRunner) *testServer {
	t.Helper()

	docs, err := service.NewDocumentService(memstore.New().Documents(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ts := &testServer{summaries: &mockSummaryService{}, userID: uuid.New()}
	if runner == nil {
		runner = inlineRunner{}
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("X-Anonymous") == "" {
				req = req.WithContext(shared.WithUserID(req.Context(), ts.userID))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api/v1", func(r chi.Router) {
		RegisterRoutes(r, NewDocumentHandler(docs), NewSummaryHandler(ts.summaries, runner))
	})
	ts.router = r

	t.Cleanup(func() { ts.summaries.AssertExpectations(t) })
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func sampleSummary(userID uuid.UUID) *domain.Summary {
	artifact := domain.StudyArtifact{
		ExecutiveSummary: "Cells divide.",
		SectionSummary:   []string{"Mitosis"},
		KeyTerms:         []domain.KeyTerm{{Term: "Mitosis", Definition: "Cell division"}},
		MCQs: []domain.MCQ{{
			Question: "What divides?",
			Options:  []string{"Cells", "Rocks", "Stars", "Rivers"},
			Answer:   "Cells",
		}},
		Flashcards:   []domain.Flashcard{{Front: "Mitosis", Back: "Division"}},
		ExamInsights: []string{"Know the phases"},
	}
	s, err := domain.NewSummary(userID, uuid.New(), artifact, "test-model", 120)
	if err != nil {
		panic(err)
	}
	return s
}

func storeNotFound() error {
	return store.ErrSummaryNotFound
}
