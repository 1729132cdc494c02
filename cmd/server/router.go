package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-study/internal/api"
	apiMiddleware "github.com/phrazzld/scry-study/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	documentHandler := api.NewDocumentHandler(app.documentService)
	summaryHandler := api.NewSummaryHandler(app.orchestrator, app.pool)

	authHandler := api.NewAuthHandler(
		app.userService,
		app.jwtService,
		time.Duration(app.config.Auth.TokenLifetimeMinutes)*time.Minute,
	)

	r.Route("/api/v1", func(r chi.Router) {
		api.RegisterAuthRoutes(r, authHandler)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			api.RegisterRoutes(r, documentHandler, summaryHandler)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
