package api

import (
	"github.com/go-chi/chi/v5"
)

// RegisterAuthRoutes mounts the public account endpoints on r.
func RegisterAuthRoutes(r chi.Router, accounts *AuthHandler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", accounts.Register)
		r.Post("/login", accounts.Login)
	})
}

// RegisterRoutes mounts the document and summary endpoints on r. Callers
// apply authentication before calling it.
func RegisterRoutes(r chi.Router, documents *DocumentHandler, summaries *SummaryHandler) {
	r.Route("/documents", func(r chi.Router) {
		r.Post("/", documents.CreateDocument)
		r.Get("/{id}", documents.GetDocument)
	})

	r.Route("/summaries", func(r chi.Router) {
		r.Get("/", summaries.ListSummaries)
		r.Post("/generate", summaries.GenerateSummary)
		r.Get("/{id}", summaries.GetSummary)
		r.Delete("/{id}", summaries.DeleteSummary)
		r.Post("/{id}/mcqs", summaries.AppendMCQs)
		r.Post("/{id}/flashcards", summaries.AppendFlashcards)
		r.Post("/{id}/content", summaries.AppendContent)
	})
}
