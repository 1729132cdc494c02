package summary

import "github.com/phrazzld/scry-study/internal/domain"

// AlternateSummarySeparator sits between the existing executive summary and
// an appended alternate one.
const AlternateSummarySeparator = "\n\n--- Alternative Summary ---\n\n"

// MergeMCQs returns a copy of a with added appended after the existing
// questions. Nothing is deduplicated.
func MergeMCQs(a domain.StudyArtifact, added []domain.MCQ) domain.StudyArtifact {
	out := a.Clone()
	extra := domain.StudyArtifact{MCQs: added}.Clone().MCQs
	out.MCQs = append(out.MCQs, extra...)
	return out
}

// MergeFlashcards returns a copy of a with added appended after the existing cards.
func MergeFlashcards(a domain.StudyArtifact, added []domain.Flashcard) domain.StudyArtifact {
	out := a.Clone()
	out.Flashcards = append(out.Flashcards, added...)
	return out
}

// MergeAlternateSummary returns a copy of a whose executive summary is the
// existing one followed by the separator and text. List fields are untouched.
func MergeAlternateSummary(a domain.StudyArtifact, text string) domain.StudyArtifact {
	out := a.Clone()
	out.ExecutiveSummary = a.ExecutiveSummary + AlternateSummarySeparator + text
	return out
}
