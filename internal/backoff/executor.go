package backoff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-study/internal/redact"
	"github.com/sethvargo/go-retry"
)

// Observer is notified about retries and exhaustion, typically to feed metrics.
type Observer interface {
	ObserveRetry(label string, attempt int, delay time.Duration)
	ObserveExhausted(label string, attempts int)
}

// Executor runs operations under a Policy.
type Executor struct {
	policy       Policy
	logger       *slog.Logger
	observer     Observer
	nonRetryable []error
}

// Option configures an Executor.
type Option func(*Executor)

// WithObserver sets the retry observer.
func WithObserver(o Observer) Option {
	return func(e *Executor) { e.observer = o }
}

// WithNonRetryable registers sentinel errors that end execution immediately
// when an attempt fails with an error matching one of them.
func WithNonRetryable(errs ...error) Option {
	return func(e *Executor) { e.nonRetryable = append(e.nonRetryable, errs...) }
}

// NewExecutor creates an Executor. The policy is validated here so that a
// misconfiguration fails at startup rather than on the first request.
func NewExecutor(policy Policy, logger *slog.Logger, opts ...Option) (*Executor, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := &Executor{
		policy: policy,
		logger: logger.With("component", "backoff"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Policy returns the executor's policy.
func (e *Executor) Policy() Policy {
	return e.policy
}

func (e *Executor) retryable(err error) bool {
	if IsPermanent(err) {
		return false
	}
	for _, target := range e.nonRetryable {
		if errors.Is(err, target) {
			return false
		}
	}
	return true
}

// Execute invokes op up to the policy's MaxAttempts times, waiting between
// failed attempts. It returns:
//   - op's result on the first success;
//   - the error itself when an attempt fails with a non-retryable error;
//   - *RetryExhaustedError after the last attempt fails;
//   - an error matching ErrCancelled (and the context error) when ctx ends.
func Execute[T any](ctx context.Context, e *Executor, label string, op func(ctx context.Context) (T, error)) (T, error) {
	var (
		result    T
		attempt   int
		lastErr   error
		exhausted bool
	)

	b := retry.BackoffFunc(func() (time.Duration, bool) {
		if attempt >= e.policy.MaxAttempts {
			exhausted = true
			return 0, true
		}
		delay := e.policy.Delay(attempt)
		e.logger.WarnContext(ctx, "operation failed, retrying",
			slog.String("label", label),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", e.policy.MaxAttempts),
			slog.Duration("delay", delay),
			slog.String("error", redact.Error(lastErr)))
		if e.observer != nil {
			e.observer.ObserveRetry(label, attempt, delay)
		}
		return delay, false
	})

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		e.logger.DebugContext(ctx, "executing operation",
			slog.String("label", label),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", e.policy.MaxAttempts))

		v, opErr := op(ctx)
		if opErr == nil {
			result = v
			return nil
		}
		lastErr = opErr
		if ctx.Err() != nil || !e.retryable(opErr) {
			return opErr
		}
		return retry.RetryableError(opErr)
	})

	var zero T
	switch {
	case err == nil:
		return result, nil
	case ctx.Err() != nil:
		e.logger.InfoContext(ctx, "operation cancelled",
			slog.String("label", label),
			slog.Int("attempt", attempt))
		return zero, fmt.Errorf("%w: %s: %w", ErrCancelled, label, ctx.Err())
	case exhausted:
		e.logger.ErrorContext(ctx, "operation failed after all attempts",
			slog.String("label", label),
			slog.Int("attempts", attempt),
			slog.String("error", redact.Error(lastErr)))
		if e.observer != nil {
			e.observer.ObserveExhausted(label, attempt)
		}
		return zero, &RetryExhaustedError{Attempts: attempt, Label: label, Err: lastErr}
	default:
		return zero, unwrapPermanent(err)
	}
}
