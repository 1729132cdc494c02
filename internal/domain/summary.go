package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Summary
var (
	ErrEmptySummaryID       = errors.New("summary ID cannot be empty")
	ErrEmptySummaryUserID   = errors.New("summary user ID cannot be empty")
	ErrEmptySummaryDocument = errors.New("summary document ID cannot be empty")
	ErrEmptyModelUsed       = errors.New("summary model cannot be empty")
	ErrNegativeTokensUsed   = errors.New("summary token estimate cannot be negative")
)

// Summary is the persisted envelope around a generated StudyArtifact.
// Its identity is stable across the incremental append operations.
type Summary struct {
	ID         uuid.UUID     `json:"id"`
	UserID     uuid.UUID     `json:"user_id"`
	DocumentID uuid.UUID     `json:"document_id"`
	Artifact   StudyArtifact `json:"content"`
	ModelUsed  string        `json:"model_used"`
	TokensUsed int           `json:"tokens_used"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// NewSummary creates a validated Summary for the given document and artifact.
func NewSummary(
	userID, documentID uuid.UUID,
	artifact StudyArtifact,
	modelUsed string,
	tokensUsed int,
) (*Summary, error) {
	now := time.Now().UTC()
	s := &Summary{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: documentID,
		Artifact:   artifact,
		ModelUsed:  modelUsed,
		TokensUsed: tokensUsed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the Summary has valid data.
func (s *Summary) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySummaryID
	}
	if s.UserID == uuid.Nil {
		return ErrEmptySummaryUserID
	}
	if s.DocumentID == uuid.Nil {
		return ErrEmptySummaryDocument
	}
	if s.ModelUsed == "" {
		return ErrEmptyModelUsed
	}
	if s.TokensUsed < 0 {
		return ErrNegativeTokensUsed
	}
	return nil
}

// OwnedBy reports whether userID owns the summary.
func (s *Summary) OwnedBy(userID uuid.UUID) bool {
	return s.UserID == userID
}

// WithArtifact returns a copy of the summary carrying artifact and a fresh
// UpdatedAt. The receiver is left unchanged.
func (s *Summary) WithArtifact(artifact StudyArtifact) *Summary {
	next := *s
	next.Artifact = artifact
	next.UpdatedAt = time.Now().UTC()
	return &next
}
