package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SourceType records where a document's text was extracted from.
type SourceType string

// Supported source types. Extraction itself happens upstream of this service.
const (
	SourceTypeText     SourceType = "TEXT"
	SourceTypeMarkdown SourceType = "MARKDOWN"
	SourceTypePDF      SourceType = "PDF"
	SourceTypeDOCX     SourceType = "DOCX"
	SourceTypePPTX     SourceType = "PPTX"
	SourceTypeImage    SourceType = "IMAGE"
	SourceTypeURL      SourceType = "URL"
)

// Common validation errors for Document
var (
	ErrEmptyDocumentID     = errors.New("document ID cannot be empty")
	ErrEmptyDocumentUserID = errors.New("document user ID cannot be empty")
	ErrEmptyDocumentTitle  = errors.New("document title cannot be empty")
	ErrEmptyDocumentText   = errors.New("document text cannot be empty")
	ErrInvalidSourceType   = errors.New("invalid document source type")
	ErrMissingSourceURL    = errors.New("URL documents require a source URL")
)

// Document is a piece of already-extracted source text owned by one user.
type Document struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Title         string     `json:"title"`
	SourceType    SourceType `json:"source_type"`
	SourceURL     string     `json:"source_url,omitempty"`
	ExtractedText string     `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewDocument creates a validated Document with a fresh ID.
// An empty source type defaults to TEXT.
func NewDocument(userID uuid.UUID, title string, sourceType SourceType, sourceURL, text string) (*Document, error) {
	if sourceType == "" {
		sourceType = SourceTypeText
	}
	doc := &Document{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         strings.TrimSpace(title),
		SourceType:    sourceType,
		SourceURL:     sourceURL,
		ExtractedText: text,
		CreatedAt:     time.Now().UTC(),
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks if the Document has valid data.
func (d *Document) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyDocumentID
	}
	if d.UserID == uuid.Nil {
		return ErrEmptyDocumentUserID
	}
	if d.Title == "" {
		return ErrEmptyDocumentTitle
	}
	if strings.TrimSpace(d.ExtractedText) == "" {
		return ErrEmptyDocumentText
	}
	if !isValidSourceType(d.SourceType) {
		return ErrInvalidSourceType
	}
	if d.SourceType == SourceTypeURL && d.SourceURL == "" {
		return ErrMissingSourceURL
	}
	return nil
}

// OwnedBy reports whether userID owns the document.
func (d *Document) OwnedBy(userID uuid.UUID) bool {
	return d.UserID == userID
}

func isValidSourceType(t SourceType) bool {
	switch t {
	case SourceTypeText, SourceTypeMarkdown, SourceTypePDF, SourceTypeDOCX,
		SourceTypePPTX, SourceTypeImage, SourceTypeURL:
		return true
	default:
		return false
	}
}
