package chunking

import "errors"

var (
	// ErrInvalidInput is returned when there is no text to work with.
	// It is never worth retrying.
	ErrInvalidInput = errors.New("invalid input: text is empty")

	// ErrInvalidPolicy is returned by NewPolicy for a policy that cannot split text.
	ErrInvalidPolicy = errors.New("invalid chunking policy")
)
