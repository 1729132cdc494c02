package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 0, LogLevel: "error"},
		Database: config.DatabaseConfig{Driver: driverMemory},
		Auth:     config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60, BCryptCost: 4},
		LLM: config.LLMConfig{
			GeminiAPIKey:          "unused",
			ModelName:             "test-model",
			RequestTimeoutSeconds: 5,
		},
		Retry:    config.RetryConfig{MaxAttempts: 2, InitialDelayMs: 1, BackoffMultiplier: 2},
		Chunking: config.ChunkingConfig{ChunkSize: 4000, Overlap: 200, MaxChunks: 15, TokenThreshold: 100000},
		Summary:  config.SummaryConfig{MaxDocumentChars: 900000, ChunkConcurrency: 2},
		Task:     config.TaskConfig{MinWorkers: 1, MaxWorkers: 2, QueueSize: 4, IdleTimeoutSeconds: 1},
	}
}

func artifactJSON(t *testing.T, mcqs int) string {
	t.Helper()
	a := domain.StudyArtifact{
		ExecutiveSummary: "Cells divide by mitosis.",
		SectionSummary:   []string{"Mitosis"},
		KeyTerms:         []domain.KeyTerm{{Term: "Mitosis", Definition: "Division"}},
		Flashcards:       []domain.Flashcard{{Front: "Mitosis", Back: "Division"}},
		ExamInsights:     []string{"Phases matter"},
	}
	for i := range mcqs {
		a.MCQs = append(a.MCQs, domain.MCQ{
			Question: fmt.Sprintf("Question %d?", i),
			Options:  []string{"A", "B", "C", "D"},
			Answer:   "A",
		})
	}
	b, err := json.Marshal(a)
	require.NoError(t, err)
	return string(b)
}

type testApp struct {
	app    *application
	server *httptest.Server
	client *mocks.MockGenerationClient
	token  string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	client := &mocks.MockGenerationClient{Model: "test-model"}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	app, err := newApplication(context.Background(), testConfig(), log, withGenerationClient(client))
	require.NoError(t, err)

	server := httptest.NewServer(app.setupRouter())
	t.Cleanup(func() {
		server.Close()
		app.cleanup()
	})

	token, err := app.jwtService.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	return &testApp{app: app, server: server, client: client, token: token}
}

func (ta *testApp) request(t *testing.T, method, path, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, ta.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ta.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ta.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthAndMetrics(t *testing.T) {
	ta := newTestApp(t)

	resp, err := http.Get(ta.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	metricsResp, err := http.Get(ta.server.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	metricsBody, _ := io.ReadAll(metricsResp.Body)
	assert.Equal(t, http.StatusOK, metricsResp.StatusCode)
	assert.Contains(t, string(metricsBody), "scry_study_")
}

func TestRegisterLoginAndUseToken(t *testing.T) {
	ta := newTestApp(t)
	ta.token = ""

	credentials := `{"email":"ada@example.com","password":"correct horse battery"}`

	resp := ta.request(t, http.MethodPost, "/api/v1/auth/register", credentials)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var registered struct {
		UserID uuid.UUID `json:"user_id"`
		Token  string    `json:"token"`
	}
	decode(t, resp, &registered)

	resp = ta.request(t, http.MethodPost, "/api/v1/auth/register", credentials)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = ta.request(t, http.MethodPost, "/api/v1/auth/login",
		`{"email":"ada@example.com","password":"wrong horse battery"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ta.request(t, http.MethodPost, "/api/v1/auth/login", credentials)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loggedIn struct {
		UserID uuid.UUID `json:"user_id"`
		Token  string    `json:"token"`
	}
	decode(t, resp, &loggedIn)
	assert.Equal(t, registered.UserID, loggedIn.UserID)

	claims, err := ta.app.jwtService.ValidateToken(context.Background(), loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, claims.UserID)

	ta.token = loggedIn.Token
	resp = ta.request(t, http.MethodPost, "/api/v1/documents", `{"title":"Cells","text":"Cells divide."}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAPIRequiresToken(t *testing.T) {
	ta := newTestApp(t)

	resp, err := http.Get(ta.server.URL + "/api/v1/summaries")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDocumentToSummaryFlow(t *testing.T) {
	ta := newTestApp(t)

	ta.client.GenerateFn = func(_ context.Context, text string, mcqCount int) (string, error) {
		return artifactJSON(t, mcqCount), nil
	}
	ta.client.GenerateIncrementFn = func(_ context.Context, _ string, kind generation.Kind) (string, error) {
		require.Equal(t, generation.KindMCQ, kind)
		return `[{"question":"Extra?","options":["A","B","C","D"],"answer":"B","explanation":""}]`, nil
	}

	resp := ta.request(t, http.MethodPost, "/api/v1/documents",
		`{"title":"Biology","text":"Cells divide by mitosis. Mitosis has phases."}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var doc struct {
		ID string `json:"id"`
	}
	decode(t, resp, &doc)

	resp = ta.request(t, http.MethodPost, "/api/v1/summaries/generate",
		fmt.Sprintf(`{"document_id":%q,"mcq_count":3}`, doc.ID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID      string               `json:"id"`
		Content domain.StudyArtifact `json:"content"`
	}
	decode(t, resp, &created)
	assert.Len(t, created.Content.MCQs, 3)

	calls := ta.client.GenerateCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 3, calls[0].MCQCount)

	resp = ta.request(t, http.MethodPost, "/api/v1/summaries/"+created.ID+"/mcqs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var appended struct {
		ID      string               `json:"id"`
		Content domain.StudyArtifact `json:"content"`
	}
	decode(t, resp, &appended)
	assert.Equal(t, created.ID, appended.ID)
	require.Len(t, appended.Content.MCQs, 4)
	assert.Equal(t, "Extra?", appended.Content.MCQs[3].Question)

	resp = ta.request(t, http.MethodGet, "/api/v1/summaries", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Total int `json:"total"`
	}
	decode(t, resp, &page)
	assert.Equal(t, 1, page.Total)

	resp = ta.request(t, http.MethodDelete, "/api/v1/summaries/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ta.request(t, http.MethodGet, "/api/v1/summaries/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGenerationFailureSurfacesSafeMessage(t *testing.T) {
	ta := newTestApp(t)
	ta.client.Err = fmt.Errorf("%w: 429 quota exhausted for key AIzaSecret", generation.ErrRateLimited)

	resp := ta.request(t, http.MethodPost, "/api/v1/documents", `{"title":"Biology","text":"Cells divide."}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var doc struct {
		ID string `json:"id"`
	}
	decode(t, resp, &doc)

	resp = ta.request(t, http.MethodPost, "/api/v1/summaries/generate", fmt.Sprintf(`{"document_id":%q}`, doc.ID))
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "failed after 2 attempts")
	assert.False(t, strings.Contains(string(body), "AIza"))
	assert.Len(t, ta.client.GenerateCalls(), 2)
}

func TestNewApplicationRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = "sqlite"

	_, err := newApplication(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)),
		withGenerationClient(&mocks.MockGenerationClient{}))
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestSummaryConfig(t *testing.T) {
	sc := summaryConfig(testConfig())
	assert.Equal(t, 4000, sc.Chunking.ChunkSize)
	assert.Equal(t, 2, sc.Retry.MaxAttempts)
	assert.Equal(t, int64(1_000_000), sc.Retry.InitialDelay.Nanoseconds())
	assert.Equal(t, 100000, sc.TokenThreshold)
}
