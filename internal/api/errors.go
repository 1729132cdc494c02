package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/backoff"
	"github.com/phrazzld/scry-study/internal/chunking"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/service/auth"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/phrazzld/scry-study/internal/summary"
	"github.com/phrazzld/scry-study/internal/task"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var genErr *summary.GenerationFailedError
	var validationErrs validator.ValidationErrors

	switch {
	case err == nil:
		return http.StatusInternalServerError

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, summary.ErrNotOwned),
		errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrDocumentNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.As(err, &validationErrs),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, summary.ErrInvalidRequest),
		errors.Is(err, summary.ErrEmptyContent),
		errors.Is(err, chunking.ErrInvalidInput):
		return http.StatusBadRequest

	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	case errors.Is(err, task.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed):
		return http.StatusServiceUnavailable

	// Cancellation is checked before generation failures; a cancelled run
	// is the client's doing, not the model's.
	case errors.Is(err, backoff.ErrCancelled),
		errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout

	case errors.As(err, &genErr):
		switch genErr.Category {
		case generation.CategoryRateLimited:
			return http.StatusTooManyRequests
		case generation.CategoryTimedOut:
			return http.StatusGatewayTimeout
		default:
			return http.StatusBadGateway
		}

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, summary.ErrMergeFailed):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	var genErr *summary.GenerationFailedError
	var retryErr *backoff.RetryExhaustedError
	var validationErrs validator.ValidationErrors

	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"
	case errors.Is(err, store.ErrEmailExists):
		return "An account with this email already exists"

	case errors.Is(err, summary.ErrNotOwned),
		errors.Is(err, service.ErrNotOwned):
		return "You do not have access to this resource"

	case errors.Is(err, service.ErrDocumentNotFound),
		errors.Is(err, store.ErrDocumentNotFound):
		return "Document not found"
	case errors.Is(err, store.ErrSummaryNotFound):
		return "Summary not found"
	case store.IsNotFoundError(err):
		return "Resource not found"

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"
	case errors.Is(err, summary.ErrEmptyContent):
		return "The document has no usable text"
	case errors.Is(err, summary.ErrInvalidRequest):
		return "Invalid summary request"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, chunking.ErrInvalidInput):
		return domainValidationMessage(err)

	case errors.Is(err, generation.ErrContentBlocked):
		return "The content was blocked by the model's safety filters"

	case errors.Is(err, task.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed):
		return "The service is busy. Please try again later."

	case errors.Is(err, backoff.ErrCancelled),
		errors.Is(err, context.Canceled):
		return "The request was cancelled"

	case errors.As(err, &retryErr):
		return fmt.Sprintf("Study material generation failed after %d attempts. Please try again later.",
			retryErr.Attempts)
	case errors.As(err, &genErr):
		switch genErr.Category {
		case generation.CategoryRateLimited:
			return "The model is rate limited. Please try again later."
		case generation.CategoryTimedOut:
			return "The model took too long to respond"
		default:
			return "Study material generation failed"
		}

	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out"

	case errors.Is(err, summary.ErrMergeFailed):
		return "The model returned content that could not be used. Please try again."

	default:
		return "An unexpected error occurred"
	}
}

// domainValidationMessage names the failed field when the error
// comes from domain validation, and falls back to a generic message.
func domainValidationMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyDocumentTitle):
		return "Invalid title: required field"
	case errors.Is(err, domain.ErrEmptyDocumentText):
		return "Invalid text: required field"
	case errors.Is(err, domain.ErrInvalidSourceType):
		return "Invalid source_type: invalid value"
	case errors.Is(err, domain.ErrMissingSourceURL):
		return "Invalid source_url: required for URL documents"
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrEmptyEmail):
		return "Invalid email: must be a valid email address"
	case errors.Is(err, domain.ErrPasswordTooShort):
		return "Invalid password: must be at least 12 characters"
	case errors.Is(err, domain.ErrPasswordTooLong):
		return "Invalid password: must be at most 72 bytes"
	case errors.Is(err, domain.ErrEmptyPassword):
		return "Invalid password: required field"
	default:
		return "Validation error"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", jsonFieldName(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// jsonFieldName converts a Go field name such as MCQCount to its JSON
// spelling mcq_count.
func jsonFieldName(field string) string {
	var b strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "must be a UUID"
	case "url":
		return "must be a URL"
	case "email":
		return "must be a valid email address"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// full error. A non-empty fallback replaces the generic message for errors
// that map to 500.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		msg = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}
