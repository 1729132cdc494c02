package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/redact"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Defaults applied when the configured value is out of range.
const (
	DefaultTemperature           = 0.7
	DefaultIncrementTemperature  = 0.8
	DefaultRequestTimeoutSeconds = 120
)

// contentGenerator is the part of the genai SDK the client uses.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Client implements generation.Client using the Gemini API.
type Client struct {
	logger  *slog.Logger
	cfg     config.LLMConfig
	prompts *prompts
	models  contentGenerator
	limiter *rate.Limiter
	timeout time.Duration
}

var _ generation.Client = (*Client)(nil)

// NewClient validates cfg, loads the prompt templates and connects the genai SDK.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	logger = logger.With(slog.String("component", "gemini_client"))

	cfg, err := validateConfig(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}

	p, err := loadPrompts(cfg.PromptTemplateDir)
	if err != nil {
		return nil, err
	}

	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	logger.InfoContext(ctx, "gemini client initialized",
		slog.String("model", cfg.ModelName),
		slog.Int("requests_per_minute", cfg.RequestsPerMinute),
		slog.Int("request_timeout_seconds", cfg.RequestTimeoutSeconds),
		slog.Bool("custom_prompts", cfg.PromptTemplateDir != ""))

	return newClient(logger, cfg, p, sdk.Models), nil
}

func newClient(logger *slog.Logger, cfg config.LLMConfig, p *prompts, models contentGenerator) *Client {
	return &Client{
		logger:  logger,
		cfg:     cfg,
		prompts: p,
		models:  models,
		limiter: newLimiter(cfg.RequestsPerMinute),
		timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}
}

// newLimiter returns a limiter allowing rpm calls per minute, or nil for no limit.
func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
}

// ModelName returns the configured Gemini model.
func (c *Client) ModelName() string {
	return c.cfg.ModelName
}

// Generate asks for a full study artifact with exactly mcqCount questions.
func (c *Client) Generate(ctx context.Context, text string, mcqCount int) (string, error) {
	if text == "" {
		return "", fmt.Errorf("%w: %v", generation.ErrInvalidRequest, ErrEmptyText)
	}
	if mcqCount < 1 {
		return "", fmt.Errorf("%w: mcq count must be at least 1, got %d", generation.ErrInvalidRequest, mcqCount)
	}

	prompt, err := c.prompts.summaryPrompt(text, mcqCount)
	if err != nil {
		return "", err
	}
	return c.call(ctx, "summary", prompt, c.cfg.Temperature, "application/json")
}

// GenerateIncrement asks for more content of one kind. Questions and
// flashcards come back as JSON arrays, an alternate summary as plain text.
func (c *Client) GenerateIncrement(ctx context.Context, text string, kind generation.Kind) (string, error) {
	if text == "" {
		return "", fmt.Errorf("%w: %v", generation.ErrInvalidRequest, ErrEmptyText)
	}

	prompt, err := c.prompts.incrementPrompt(text, kind)
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrInvalidRequest, err)
	}
	mime := "application/json"
	if kind == generation.KindSummary {
		mime = "text/plain"
	}
	return c.call(ctx, string(kind), prompt, c.cfg.IncrementTemperature, mime)
}

func (c *Client) call(ctx context.Context, purpose, prompt string, temperature float64, mime string) (string, error) {
	log := c.logger.With(slog.String("purpose", purpose), slog.String("model", c.cfg.ModelName))

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temp := float32(temperature)
	start := time.Now()
	log.DebugContext(ctx, "calling Gemini API", slog.Int("prompt_length", len(prompt)))

	resp, err := c.models.GenerateContent(callCtx, c.cfg.ModelName, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: mime,
	})
	if err != nil {
		mapped := mapError(ctx, callCtx, err)
		log.WarnContext(ctx, "Gemini API call failed",
			slog.String("error", redact.Error(mapped)),
			slog.Duration("duration", time.Since(start)))
		return "", mapped
	}

	text, err := responseText(resp)
	if err != nil {
		log.WarnContext(ctx, "unusable Gemini response", slog.String("error", err.Error()))
		return "", err
	}

	log.InfoContext(ctx, "Gemini API call succeeded",
		slog.Int("response_length", len(text)),
		slog.Duration("duration", time.Since(start)))
	return text, nil
}
