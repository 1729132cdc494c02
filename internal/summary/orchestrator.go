package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/backoff"
	"github.com/phrazzld/scry-study/internal/chunking"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"golang.org/x/sync/errgroup"
)

// Generation paths, used in logs and metrics.
const (
	PathDirect  = "direct"
	PathChunked = "chunked"
)

// MinMCQsPerChunk is the floor for questions requested from each chunk.
const MinMCQsPerChunk = 3

// DefaultMaxDocumentChars bounds the text sent with incremental calls.
const DefaultMaxDocumentChars = 900_000

// TruncationMarker is appended to incremental-call text cut at MaxDocumentChars.
const TruncationMarker = "\n\n[Text truncated due to length...]"

// Executor labels for the model calls the orchestrator makes.
const (
	labelDirect    = "generate"
	labelChunk     = "generate.chunk"
	labelSynthesis = "generate.synthesis"
	labelAppend    = "append"
)

// Nil dependency errors
var (
	ErrNilClient    = errors.New("generation client cannot be nil")
	ErrNilSummaries = errors.New("artifact store cannot be nil")
	ErrNilDocuments = errors.New("document source cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")
)

// ArtifactStore persists summaries. It is aligned with store.SummaryStore.
type ArtifactStore interface {
	Create(ctx context.Context, s *domain.Summary) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Summary, error)
	Update(ctx context.Context, s *domain.Summary) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Summary, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DocumentSource gives read access to a summary's originating document.
// It is aligned with store.DocumentStore.
type DocumentSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
}

// Metrics receives orchestration outcomes.
type Metrics interface {
	GenerationCompleted(path string, chunks int, duration time.Duration)
	GenerationFailed(path string, category generation.Category)
	AppendCompleted(kind generation.Kind)
	AppendFailed(kind generation.Kind, reason string)
	DocumentTruncated()
}

type nopMetrics struct{}

func (nopMetrics) GenerationCompleted(string, int, time.Duration) {}
func (nopMetrics) GenerationFailed(string, generation.Category)   {}
func (nopMetrics) AppendCompleted(generation.Kind)                {}
func (nopMetrics) AppendFailed(generation.Kind, string)           {}
func (nopMetrics) DocumentTruncated()                             {}

// Config tunes the orchestrator. Zero values fall back to the defaults.
type Config struct {
	Chunking         chunking.Policy
	Retry            backoff.Policy
	TokenThreshold   int
	MaxDocumentChars int
	ParallelChunks   bool
	ChunkConcurrency int
}

// DefaultConfig returns the default pipeline settings.
func DefaultConfig() Config {
	return Config{
		Chunking:         chunking.DefaultPolicy(),
		Retry:            backoff.DefaultPolicy(),
		TokenThreshold:   chunking.DefaultTokenThreshold,
		MaxDocumentChars: DefaultMaxDocumentChars,
		ChunkConcurrency: 4,
	}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *Orchestrator) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithRetryObserver forwards executor retries to obs.
func WithRetryObserver(obs backoff.Observer) Option {
	return func(o *Orchestrator) { o.retryObserver = obs }
}

// Orchestrator drives generation and incremental merges.
type Orchestrator struct {
	client        generation.Client
	summaries     ArtifactStore
	documents     DocumentSource
	executor      *backoff.Executor
	cfg           Config
	metrics       Metrics
	retryObserver backoff.Observer
	logger        *slog.Logger
}

// NewOrchestrator validates its dependencies and configuration.
func NewOrchestrator(
	client generation.Client,
	summaries ArtifactStore,
	documents DocumentSource,
	cfg Config,
	log *slog.Logger,
	opts ...Option,
) (*Orchestrator, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if summaries == nil {
		return nil, ErrNilSummaries
	}
	if documents == nil {
		return nil, ErrNilDocuments
	}
	if log == nil {
		return nil, ErrNilLogger
	}

	def := DefaultConfig()
	if cfg.Chunking == (chunking.Policy{}) {
		cfg.Chunking = def.Chunking
	}
	if cfg.Retry == (backoff.Policy{}) {
		cfg.Retry = def.Retry
	}
	if cfg.TokenThreshold <= 0 {
		cfg.TokenThreshold = def.TokenThreshold
	}
	if cfg.MaxDocumentChars <= 0 {
		cfg.MaxDocumentChars = def.MaxDocumentChars
	}
	if cfg.ChunkConcurrency <= 0 {
		cfg.ChunkConcurrency = def.ChunkConcurrency
	}
	if err := cfg.Chunking.Validate(); err != nil {
		return nil, err
	}

	o := &Orchestrator{
		client:    client,
		summaries: summaries,
		documents: documents,
		cfg:       cfg,
		metrics:   nopMetrics{},
		logger:    log.With(slog.String("component", "summary_orchestrator")),
	}
	for _, opt := range opts {
		opt(o)
	}

	execOpts := []backoff.Option{
		backoff.WithNonRetryable(
			chunking.ErrInvalidInput,
			generation.ErrInvalidRequest,
			generation.ErrInvalidConfig,
			generation.ErrContentBlocked,
		),
	}
	if o.retryObserver != nil {
		execOpts = append(execOpts, backoff.WithObserver(o.retryObserver))
	}
	executor, err := backoff.NewExecutor(cfg.Retry, log, execOpts...)
	if err != nil {
		return nil, err
	}
	o.executor = executor

	return o, nil
}

func (o *Orchestrator) log(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l.With(slog.String("component", "summary_orchestrator"))
	}
	if id := logger.RequestID(ctx); id != "" {
		return o.logger.With(slog.String("request_id", id))
	}
	return o.logger
}

// Generate produces, parses and persists a study artifact for the caller's
// document, asking the model for mcqCount questions.
func (o *Orchestrator) Generate(
	ctx context.Context,
	userID, documentID uuid.UUID,
	mcqCount int,
) (*domain.Summary, error) {
	log := o.log(ctx).With(
		slog.String("user_id", userID.String()),
		slog.String("document_id", documentID.String()),
	)

	if mcqCount < 1 {
		return nil, fmt.Errorf("%w: mcq count must be at least 1, got %d", ErrInvalidRequest, mcqCount)
	}

	doc, err := o.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if !doc.OwnedBy(userID) {
		log.Warn("document access denied")
		return nil, fmt.Errorf("%w: document %s", ErrNotOwned, documentID)
	}

	text := chunking.Normalize(doc.ExtractedText)
	if text == "" {
		return nil, ErrEmptyContent
	}

	path := PathDirect
	if chunking.ExceedsTokenLimit(text, o.cfg.TokenThreshold) {
		path = PathChunked
	}
	log = log.With(slog.String("path", path), slog.Int("estimated_tokens", chunking.EstimateTokens(text)))
	log.Info("starting summary generation", slog.Int("mcq_count", mcqCount))

	start := time.Now()
	var (
		raw    string
		chunks = 1
	)
	if path == PathDirect {
		raw, err = backoff.Execute(ctx, o.executor, labelDirect, func(ctx context.Context) (string, error) {
			return o.client.Generate(ctx, text, mcqCount)
		})
	} else {
		raw, chunks, err = o.generateChunked(ctx, log, text, mcqCount)
	}
	if err != nil {
		err = o.classify(err)
		var gf *GenerationFailedError
		if errors.As(err, &gf) {
			o.metrics.GenerationFailed(path, gf.Category)
		}
		log.Error("summary generation failed", slog.String("error", err.Error()))
		return nil, err
	}

	artifact, err := ParseArtifact(raw)
	if err != nil {
		o.metrics.GenerationFailed(path, generation.CategoryGeneric)
		log.Error("generation result could not be parsed", slog.String("error", err.Error()))
		return nil, err
	}
	if violations := artifact.Violations(); len(violations) > 0 {
		log.Warn("generated artifact has structural issues",
			slog.Int("violations", len(violations)),
			slog.String("first", violations[0].Error()))
	}

	s, err := domain.NewSummary(userID, doc.ID, artifact, o.client.ModelName(), chunking.EstimateTokens(text))
	if err != nil {
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}
	if err := o.summaries.Create(ctx, s); err != nil {
		log.Error("failed to persist summary", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}

	elapsed := time.Since(start)
	o.metrics.GenerationCompleted(path, chunks, elapsed)
	log.Info("summary generated",
		slog.String("summary_id", s.ID.String()),
		slog.Int("chunks", chunks),
		slog.Int("mcqs", len(artifact.MCQs)),
		slog.Duration("duration", elapsed))
	return s, nil
}

// generateChunked runs one call per chunk and a final synthesis call over
// the combined results. The first chunk that fails aborts the run.
func (o *Orchestrator) generateChunked(
	ctx context.Context,
	log *slog.Logger,
	text string,
	mcqCount int,
) (string, int, error) {
	res, err := chunking.Split(text, o.cfg.Chunking)
	if err != nil {
		return "", 0, err
	}
	if res.Truncated {
		o.metrics.DocumentTruncated()
		log.Warn("document truncated before chunking",
			slog.Int("naive_chunks", res.NaiveCount),
			slog.Int("max_chunks", o.cfg.Chunking.MaxChunks),
			slog.Int("input_length", res.InputLength),
			slog.Int("kept_length", o.cfg.Chunking.MaxLength()))
	}

	n := len(res.Chunks)
	perChunk := max(MinMCQsPerChunk, mcqCount/n)
	log.Info("generating chunk summaries",
		slog.Int("chunks", n),
		slog.Int("mcqs_per_chunk", perChunk),
		slog.Bool("parallel", o.cfg.ParallelChunks))

	results := make([]string, n)
	runChunk := func(ctx context.Context, c chunking.Chunk) error {
		out, err := backoff.Execute(ctx, o.executor, labelChunk, func(ctx context.Context) (string, error) {
			return o.client.Generate(ctx, c.Text, perChunk)
		})
		if err != nil {
			log.Error("chunk generation failed",
				slog.Int("chunk", c.Index+1),
				slog.Int("chunks", n),
				slog.String("error", err.Error()))
			return err
		}
		results[c.Index] = out
		return nil
	}

	if o.cfg.ParallelChunks {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.cfg.ChunkConcurrency)
		for _, c := range res.Chunks {
			g.Go(func() error { return runChunk(gctx, c) })
		}
		if err := g.Wait(); err != nil {
			return "", n, err
		}
	} else {
		for _, c := range res.Chunks {
			if err := runChunk(ctx, c); err != nil {
				return "", n, err
			}
		}
	}

	combined := strings.Join(results, "\n\n")
	out, err := backoff.Execute(ctx, o.executor, labelSynthesis, func(ctx context.Context) (string, error) {
		return o.client.Generate(ctx, combined, mcqCount)
	})
	return out, n, err
}

// classify wraps a failed model call in a GenerationFailedError. Cancellation
// and input errors pass through unchanged.
func (o *Orchestrator) classify(err error) error {
	if errors.Is(err, backoff.ErrCancelled) || errors.Is(err, chunking.ErrInvalidInput) {
		return err
	}
	cause := err
	var exhausted *backoff.RetryExhaustedError
	if errors.As(err, &exhausted) && exhausted.Err != nil {
		cause = exhausted.Err
	}
	return &GenerationFailedError{Category: generation.Classify(cause), Err: err}
}
