package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyText is returned when there is no text to build a prompt from.
	ErrEmptyText = errors.New("prompt text cannot be empty")

	// ErrUnknownPrompt is returned when no template exists for a generation kind.
	ErrUnknownPrompt = errors.New("no prompt template for generation kind")
)
