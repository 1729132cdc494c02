package api

import (
	"net/http"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/service"
)

// DocumentHandler handles document-related HTTP requests
type DocumentHandler struct {
	documents service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documents service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// CreateDocument handles POST /api/v1/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateDocumentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	doc, err := h.documents.CreateDocument(r.Context(), userID, service.CreateDocumentParams{
		Title:      req.Title,
		SourceType: domain.SourceType(req.SourceType),
		SourceURL:  req.SourceURL,
		Text:       req.Text,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create document")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, documentToResponse(doc))
}

// GetDocument handles GET /api/v1/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	userID, documentID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.documents.GetDocument(r.Context(), userID, documentID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get document")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, documentToResponse(doc))
}
