package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/scry-study/internal/domain"
)

// decodeStrict decodes a single JSON value and rejects trailing data.
func decodeStrict(raw string, v any) error {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(raw)))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected trailing data after JSON value")
	}
	return nil
}

func firstByte(raw string) byte {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// ParseArtifact decodes a full study artifact. The result must be a JSON
// object; missing list fields become empty lists.
func ParseArtifact(raw string) (domain.StudyArtifact, error) {
	var a domain.StudyArtifact
	if firstByte(raw) != '{' {
		return a, fmt.Errorf("%w: expected a JSON object", ErrMalformedResult)
	}
	if err := decodeStrict(raw, &a); err != nil {
		return domain.StudyArtifact{}, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}
	return withEmptyLists(a), nil
}

// ParseMCQs decodes a JSON array of questions. Every question needs
// non-blank text, options and a non-blank answer.
func ParseMCQs(raw string) ([]domain.MCQ, error) {
	if firstByte(raw) != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array of questions", ErrMergeFailed)
	}
	var out []domain.MCQ
	if err := decodeStrict(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMergeFailed, err)
	}
	for i, q := range out {
		if blank(q.Question) || len(q.Options) == 0 || blank(q.Answer) {
			return nil, fmt.Errorf("%w: question %d is incomplete", ErrMergeFailed, i)
		}
	}
	return out, nil
}

// ParseFlashcards decodes a JSON array of flashcards. Both sides are required.
func ParseFlashcards(raw string) ([]domain.Flashcard, error) {
	if firstByte(raw) != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array of flashcards", ErrMergeFailed)
	}
	var out []domain.Flashcard
	if err := decodeStrict(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMergeFailed, err)
	}
	for i, f := range out {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("%w: flashcard %d: %v", ErrMergeFailed, i, err)
		}
	}
	return out, nil
}

// ParseAlternateSummary accepts any non-blank text.
func ParseAlternateSummary(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", fmt.Errorf("%w: empty alternate summary", ErrMergeFailed)
	}
	return text, nil
}

func withEmptyLists(a domain.StudyArtifact) domain.StudyArtifact {
	if a.SectionSummary == nil {
		a.SectionSummary = []string{}
	}
	if a.KeyTerms == nil {
		a.KeyTerms = []domain.KeyTerm{}
	}
	if a.MCQs == nil {
		a.MCQs = []domain.MCQ{}
	}
	if a.Flashcards == nil {
		a.Flashcards = []domain.Flashcard{}
	}
	if a.ExamInsights == nil {
		a.ExamInsights = []string{}
	}
	return a
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
