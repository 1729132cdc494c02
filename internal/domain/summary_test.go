package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSummary(t *testing.T) {
	t.Parallel()

	userID, docID := uuid.New(), uuid.New()

	s, err := NewSummary(userID, docID, sampleArtifact(), "gemini-2.5-flash", 125)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, docID, s.DocumentID)
	assert.Equal(t, 125, s.TokensUsed)
	assert.Equal(t, s.CreatedAt, s.UpdatedAt)
	assert.True(t, s.OwnedBy(userID))

	_, err = NewSummary(uuid.Nil, docID, sampleArtifact(), "m", 0)
	assert.ErrorIs(t, err, ErrEmptySummaryUserID)

	_, err = NewSummary(userID, uuid.Nil, sampleArtifact(), "m", 0)
	assert.ErrorIs(t, err, ErrEmptySummaryDocument)

	_, err = NewSummary(userID, docID, sampleArtifact(), "", 0)
	assert.ErrorIs(t, err, ErrEmptyModelUsed)

	_, err = NewSummary(userID, docID, sampleArtifact(), "m", -1)
	assert.ErrorIs(t, err, ErrNegativeTokensUsed)
}

func TestSummaryWithArtifact(t *testing.T) {
	t.Parallel()

	s, err := NewSummary(uuid.New(), uuid.New(), sampleArtifact(), "m", 1)
	require.NoError(t, err)
	s.UpdatedAt = s.UpdatedAt.Add(-time.Hour)
	before := *s

	next := sampleArtifact()
	next.ExecutiveSummary = "replaced"
	updated := s.WithArtifact(next)

	assert.Equal(t, before, *s, "receiver must not change")
	assert.Equal(t, s.ID, updated.ID)
	assert.Equal(t, "replaced", updated.Artifact.ExecutiveSummary)
	assert.True(t, updated.UpdatedAt.After(s.UpdatedAt))
}
