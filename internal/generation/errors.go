package generation

import "errors"

// Common errors returned by generation clients
var (
	// ErrGenerationFailed is returned when generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate study content")

	// ErrInvalidRequest is returned for requests that can never succeed, such as
	// empty text or a non-positive question count. It is not retried.
	ErrInvalidRequest = errors.New("invalid generation request")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is empty
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrRateLimited is returned when the provider rejects a call for quota reasons
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrTimeout is returned when a call does not complete within the request timeout
	ErrTimeout = errors.New("request timeout")

	// ErrInvalidConfig is returned when the client configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
