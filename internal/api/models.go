package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/summary"
)

// DefaultMCQCount is used when a generate request omits mcq_count.
const DefaultMCQCount = 5

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries a bearer token for the registered or logged-in user.
type AuthResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresIn int64     `json:"expires_in"`
}

// CreateDocumentRequest is the body of POST /documents. Text is the already
// extracted content of the source.
type CreateDocumentRequest struct {
	Title      string `json:"title"                 validate:"required,max=500"`
	Text       string `json:"text"                  validate:"required"`
	SourceType string `json:"source_type,omitempty" validate:"omitempty,oneof=TEXT MARKDOWN PDF DOCX PPTX IMAGE URL"`
	SourceURL  string `json:"source_url,omitempty"  validate:"omitempty,url"`
}

// DocumentResponse represents a stored document. The text itself is not echoed.
type DocumentResponse struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	SourceType string    `json:"source_type"`
	SourceURL  string    `json:"source_url,omitempty"`
	Length     int       `json:"length"`
	CreatedAt  time.Time `json:"created_at"`
}

// GenerateSummaryRequest is the body of POST /summaries/generate.
type GenerateSummaryRequest struct {
	DocumentID string `json:"document_id"         validate:"required,uuid"`
	MCQCount   *int   `json:"mcq_count,omitempty" validate:"omitempty,min=1,max=20"`
}

// mcqCount returns the requested count or DefaultMCQCount.
func (r GenerateSummaryRequest) mcqCount() int {
	if r.MCQCount == nil {
		return DefaultMCQCount
	}
	return *r.MCQCount
}

// SummaryResponse represents a summary with its full study artifact.
type SummaryResponse struct {
	ID         uuid.UUID            `json:"id"`
	DocumentID uuid.UUID            `json:"document_id"`
	Content    domain.StudyArtifact `json:"content"`
	ModelUsed  string               `json:"model_used"`
	TokensUsed int                  `json:"tokens_used"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// SummaryListItem is the short form of a summary used in listings.
type SummaryListItem struct {
	ID               uuid.UUID `json:"id"`
	DocumentID       uuid.UUID `json:"document_id"`
	ExecutiveSummary string    `json:"executive_summary"`
	MCQCount         int       `json:"mcq_count"`
	FlashcardCount   int       `json:"flashcard_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SummaryListResponse is one page of summaries.
type SummaryListResponse struct {
	Items []SummaryListItem `json:"items"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
}

func documentToResponse(doc *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:         doc.ID,
		Title:      doc.Title,
		SourceType: string(doc.SourceType),
		SourceURL:  doc.SourceURL,
		Length:     len(doc.ExtractedText),
		CreatedAt:  doc.CreatedAt,
	}
}

func summaryToResponse(s *domain.Summary) SummaryResponse {
	return SummaryResponse{
		ID:         s.ID,
		DocumentID: s.DocumentID,
		Content:    s.Artifact,
		ModelUsed:  s.ModelUsed,
		TokensUsed: s.TokensUsed,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func pageToResponse(p *summary.Page) SummaryListResponse {
	items := make([]SummaryListItem, 0, len(p.Items))
	for _, s := range p.Items {
		items = append(items, SummaryListItem{
			ID:               s.ID,
			DocumentID:       s.DocumentID,
			ExecutiveSummary: s.Artifact.ExecutiveSummary,
			MCQCount:         len(s.Artifact.MCQs),
			FlashcardCount:   len(s.Artifact.Flashcards),
			CreatedAt:        s.CreatedAt,
			UpdatedAt:        s.UpdatedAt,
		})
	}
	return SummaryListResponse{Items: items, Total: p.Total, Page: p.Page, Size: p.Size}
}
