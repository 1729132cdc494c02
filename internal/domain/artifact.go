package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// MCQOptionCount is the number of options every multiple choice question carries.
const MCQOptionCount = 4

// Validation errors for study artifacts.
var (
	ErrEmptyExecutiveSummary = errors.New("executive summary cannot be empty")
	ErrMCQOptionCount        = errors.New("mcq must have exactly 4 options")
	ErrMCQAnswerNotInOptions = errors.New("mcq answer is not one of its options")
	ErrEmptyMCQQuestion      = errors.New("mcq question cannot be empty")
	ErrEmptyFlashcardSide    = errors.New("flashcard front and back cannot be empty")
)

// KeyTerm is a term paired with its definition.
type KeyTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// MCQ is a multiple choice question. Answer is expected to equal one of Options.
type MCQ struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Flashcard is a front/back study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// StudyArtifact is the structured study bundle generated for a document.
// JSON field names follow the contract the generation model is prompted with.
type StudyArtifact struct {
	ExecutiveSummary string      `json:"executiveSummary"`
	SectionSummary   []string    `json:"sectionSummary"`
	KeyTerms         []KeyTerm   `json:"keyTerms"`
	MCQs             []MCQ       `json:"mcqs"`
	Flashcards       []Flashcard `json:"flashcards"`
	ExamInsights     []string    `json:"examInsights"`
}

// Clone returns a deep copy of the artifact so callers can derive a new
// artifact without touching the original.
func (a StudyArtifact) Clone() StudyArtifact {
	out := StudyArtifact{
		ExecutiveSummary: a.ExecutiveSummary,
		SectionSummary:   slices.Clone(a.SectionSummary),
		KeyTerms:         slices.Clone(a.KeyTerms),
		Flashcards:       slices.Clone(a.Flashcards),
		ExamInsights:     slices.Clone(a.ExamInsights),
	}
	if a.MCQs != nil {
		out.MCQs = make([]MCQ, len(a.MCQs))
		for i, q := range a.MCQs {
			q.Options = slices.Clone(q.Options)
			out.MCQs[i] = q
		}
	}
	return out
}

// Validate checks a single question: non-blank, four options, answer among them.
func (q MCQ) Validate() error {
	if isBlank(q.Question) {
		return ErrEmptyMCQQuestion
	}
	if len(q.Options) != MCQOptionCount {
		return ErrMCQOptionCount
	}
	if !slices.Contains(q.Options, q.Answer) {
		return ErrMCQAnswerNotInOptions
	}
	return nil
}

// Validate checks that both sides of the card have non-blank content.
func (f Flashcard) Validate() error {
	if isBlank(f.Front) || isBlank(f.Back) {
		return ErrEmptyFlashcardSide
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ArtifactViolation describes one structural problem found in an artifact.
type ArtifactViolation struct {
	Field string
	Index int
	Err   error
}

func (v ArtifactViolation) Error() string {
	return fmt.Sprintf("%s[%d]: %v", v.Field, v.Index, v.Err)
}

func (v ArtifactViolation) Unwrap() error {
	return v.Err
}

// Violations lists every structural problem in the artifact. Generated
// content is stored as returned by the model, so this is a diagnostic used
// by tests and logging rather than a gate on persistence.
func (a StudyArtifact) Violations() []ArtifactViolation {
	var out []ArtifactViolation
	if isBlank(a.ExecutiveSummary) {
		out = append(out, ArtifactViolation{Field: "executiveSummary", Index: -1, Err: ErrEmptyExecutiveSummary})
	}
	for i, q := range a.MCQs {
		if err := q.Validate(); err != nil {
			out = append(out, ArtifactViolation{Field: "mcqs", Index: i, Err: err})
		}
	}
	for i, f := range a.Flashcards {
		if err := f.Validate(); err != nil {
			out = append(out, ArtifactViolation{Field: "flashcards", Index: i, Err: err})
		}
	}
	return out
}
