package summary

import (
	"errors"
	"fmt"

	"github.com/phrazzld/scry-study/internal/generation"
)

var (
	// ErrEmptyContent is returned when a document normalizes to empty text.
	ErrEmptyContent = errors.New("document has no usable text")

	// ErrNotOwned is returned when the caller does not own the document or summary.
	ErrNotOwned = errors.New("resource belongs to another user")

	// ErrInvalidRequest is returned for arguments that can never succeed,
	// such as a question count below one.
	ErrInvalidRequest = errors.New("invalid summary request")

	// ErrMergeFailed is returned when a model result cannot be merged into an
	// artifact. The stored artifact is left untouched.
	ErrMergeFailed = errors.New("failed to merge generated content")

	// ErrMalformedResult is returned when the final generation result is not a
	// valid artifact. Nothing is persisted.
	ErrMalformedResult = fmt.Errorf("%w: malformed generation result", ErrMergeFailed)
)

// GenerationFailedError is returned when a model call could not be completed,
// after retries where they apply. Err keeps the full chain, so errors.As
// still reaches a *backoff.RetryExhaustedError.
type GenerationFailedError struct {
	Category generation.Category
	Err      error
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("summary generation failed (%s): %v", e.Category, e.Err)
}

func (e *GenerationFailedError) Unwrap() error {
	return e.Err
}
