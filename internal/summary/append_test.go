package summary

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedSummary stores a summary with five questions over a short document.
func seedSummary(t *testing.T, f *fixture, text string) *domain.Summary {
	t.Helper()
	doc := f.addDocument(t, text)
	f.client.Response = artifactJSON(t, "Original summary.", 5)
	s, err := f.orch.Generate(context.Background(), f.userID, doc.ID, 5)
	require.NoError(t, err)
	f.client.Reset()
	f.client.Response = ""
	return s
}

func storedJSON(t *testing.T, f *fixture, id uuid.UUID) string {
	t.Helper()
	s, err := f.store.Summaries().GetByID(context.Background(), id)
	require.NoError(t, err)
	return mustJSON(t, s.Artifact)
}

func TestAppendMCQs(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{})
	s := seedSummary(t, f, "Photosynthesis converts light into chemical energy.")
	f.client.Response = mustJSON(t, sampleMCQs("extra", 4))

	updated, err := f.orch.AppendMCQs(context.Background(), f.userID, s.ID)
	require.NoError(t, err)

	require.Len(t, updated.Artifact.MCQs, 9)
	assert.Equal(t, s.Artifact.MCQs, updated.Artifact.MCQs[:5], "existing questions keep their order")
	assert.Equal(t, sampleMCQs("extra", 4), updated.Artifact.MCQs[5:])
	assert.Equal(t, s.ID, updated.ID)
	assert.Equal(t, s.CreatedAt, updated.CreatedAt)
	assert.Equal(t, s.Artifact.ExecutiveSummary, updated.Artifact.ExecutiveSummary)

	calls := f.client.IncrementCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, generation.KindMCQ, calls[0].Kind)
	assert.Equal(t, "Photosynthesis converts light into chemical energy.", calls[0].Text)

	assert.Equal(t, mustJSON(t, updated.Artifact), storedJSON(t, f, s.ID))
}

func TestAppendFlashcards(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{})
	s := seedSummary(t, f, "Some text about the water cycle.")
	f.client.Response = mustJSON(t, sampleFlashcards("extra", 3))

	updated, err := f.orch.AppendFlashcards(context.Background(), f.userID, s.ID)
	require.NoError(t, err)

	require.Len(t, updated.Artifact.Flashcards, 5)
	assert.Equal(t, s.Artifact.Flashcards, updated.Artifact.Flashcards[:2])
	assert.Equal(t, sampleFlashcards("extra", 3), updated.Artifact.Flashcards[2:])
	assert.Equal(t, s.Artifact.MCQs, updated.Artifact.MCQs)
}

func TestAppendAlternateSummary(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{})
	s := seedSummary(t, f, "Some text about plate tectonics.")
	f.client.Response = "  A different angle on the material.  "

	updated, err := f.orch.AppendAlternateSummary(context.Background(), f.userID, s.ID)
	require.NoError(t, err)

	assert.Equal(t,
		"Original summary."+AlternateSummarySeparator+"A different angle on the material.",
		updated.Artifact.ExecutiveSummary)
	assert.Equal(t, s.Artifact.MCQs, updated.Artifact.MCQs)
	assert.Equal(t, s.Artifact.Flashcards, updated.Artifact.Flashcards)
}

func TestAppendMalformedLeavesStoredArtifactUntouched(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		kind     generation.Kind
		response string
	}{
		{"mcq prose", generation.KindMCQ, "Here are some questions for you!"},
		{"mcq object instead of array", generation.KindMCQ, `{"question":"q"}`},
		{"mcq missing answer", generation.KindMCQ, `[{"question":"q","options":["a"]}]`},
		{"mcq blank question and answer", generation.KindMCQ, `[{"question":"  ","options":["A"],"answer":" "}]`},
		{"mcq blank answer", generation.KindMCQ, `[{"question":"q","options":["A","B","C","D"],"answer":"\t"}]`},
		{"flashcard truncated json", generation.KindFlashcard, `[{"front":"f","back":`},
		{"flashcard blank side", generation.KindFlashcard, `[{"front":"f","back":"   "}]`},
		{"flashcard blank front", generation.KindFlashcard, `[{"front":"\n","back":"b"}]`},
		{"blank alternate summary", generation.KindSummary, "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, Config{})
			s := seedSummary(t, f, "A document.")
			before := storedJSON(t, f, s.ID)
			f.client.Response = tt.response

			_, err := f.orch.AppendMore(context.Background(), f.userID, s.ID, tt.kind)
			assert.ErrorIs(t, err, ErrMergeFailed)
			assert.Equal(t, before, storedJSON(t, f, s.ID))
		})
	}
}

func TestAppendTruncatesLongDocuments(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{MaxDocumentChars: 50})
	s := seedSummary(t, f, strings.Repeat("abcde ", 40))
	f.client.Response = "Alternate."

	_, err := f.orch.AppendAlternateSummary(context.Background(), f.userID, s.ID)
	require.NoError(t, err)

	calls := f.client.IncrementCalls()
	require.Len(t, calls, 1)
	assert.True(t, strings.HasSuffix(calls[0].Text, TruncationMarker))
	assert.Len(t, calls[0].Text, 50+len(TruncationMarker))
}

func TestAppendErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{})
	s := seedSummary(t, f, "A document.")
	ctx := context.Background()

	t.Run("unknown kind", func(t *testing.T) {
		_, err := f.orch.AppendMore(ctx, f.userID, s.ID, generation.Kind("QUIZ"))
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("lowercase kind is accepted", func(t *testing.T) {
		f.client.Response = "Another take."
		defer func() { f.client.Response = "" }()
		_, err := f.orch.AppendMore(ctx, f.userID, s.ID, generation.Kind("summary"))
		assert.NoError(t, err)
	})

	t.Run("another user's summary", func(t *testing.T) {
		_, err := f.orch.AppendMCQs(ctx, uuid.New(), s.ID)
		assert.ErrorIs(t, err, ErrNotOwned)
	})

	t.Run("generation failure", func(t *testing.T) {
		before := storedJSON(t, f, s.ID)
		f.client.Err = errors.New("rate limit exceeded")
		defer func() { f.client.Err = nil }()

		_, err := f.orch.AppendMCQs(ctx, f.userID, s.ID)
		var failed *GenerationFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, generation.CategoryRateLimited, failed.Category)
		assert.Equal(t, before, storedJSON(t, f, s.ID))
	})
}

func TestAppendedArtifactRoundTripsThroughJSON(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{})
	s := seedSummary(t, f, "A document.")
	f.client.Response = mustJSON(t, sampleMCQs("extra", 1))

	updated, err := f.orch.AppendMCQs(context.Background(), f.userID, s.ID)
	require.NoError(t, err)

	var decoded domain.StudyArtifact
	require.NoError(t, json.Unmarshal([]byte(mustJSON(t, updated.Artifact)), &decoded))
	assert.Equal(t, updated.Artifact, decoded)
}
