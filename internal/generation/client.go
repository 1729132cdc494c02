package generation

import (
	"context"
	"fmt"
	"strings"
)

// Kind selects what an incremental generation call produces.
type Kind string

// Incremental generation kinds.
const (
	KindMCQ       Kind = "MCQ"
	KindFlashcard Kind = "FLASHCARD"
	KindSummary   Kind = "SUMMARY"
)

// ParseKind maps a case-insensitive name onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToUpper(strings.TrimSpace(s))); k {
	case KindMCQ, KindFlashcard, KindSummary:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, s)
	}
}

// Client is the boundary between the orchestration core and the remote
// language model.
type Client interface {
	// Generate produces a complete study artifact for text as raw JSON,
	// asking for exactly mcqCount multiple choice questions.
	Generate(ctx context.Context, text string, mcqCount int) (string, error)

	// GenerateIncrement produces additional content of the given kind: a JSON
	// array of questions for KindMCQ, a JSON array of flashcards for
	// KindFlashcard, and plain text for KindSummary.
	GenerateIncrement(ctx context.Context, text string, kind Kind) (string, error)

	// ModelName identifies the model, recorded alongside stored artifacts.
	ModelName() string
}
