package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/generation"
)

// validateConfig checks the settings the client cannot work without.
// Out-of-range optional settings are logged and replaced by defaults.
func validateConfig(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (config.LLMConfig, error) {
	if cfg.GeminiAPIKey == "" {
		logger.ErrorContext(ctx, "missing Gemini API key")
		return cfg, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		logger.ErrorContext(ctx, "missing Gemini model name")
		return cfg, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		logger.WarnContext(ctx, "invalid temperature, using default",
			slog.Float64("value", cfg.Temperature),
			slog.Float64("default", DefaultTemperature))
		cfg.Temperature = DefaultTemperature
	}
	if cfg.IncrementTemperature < 0 || cfg.IncrementTemperature > 2 {
		logger.WarnContext(ctx, "invalid increment temperature, using default",
			slog.Float64("value", cfg.IncrementTemperature),
			slog.Float64("default", DefaultIncrementTemperature))
		cfg.IncrementTemperature = DefaultIncrementTemperature
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		logger.WarnContext(ctx, "invalid request timeout, using default",
			slog.Int("value", cfg.RequestTimeoutSeconds),
			slog.Int("default", DefaultRequestTimeoutSeconds))
		cfg.RequestTimeoutSeconds = DefaultRequestTimeoutSeconds
	}
	if cfg.RequestsPerMinute < 0 {
		logger.WarnContext(ctx, "negative requests per minute, disabling throttling",
			slog.Int("value", cfg.RequestsPerMinute))
		cfg.RequestsPerMinute = 0
	}
	return cfg, nil
}
