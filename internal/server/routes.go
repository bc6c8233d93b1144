package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routes builds the chi router with the middleware stack.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// First registered runs first
	r.Use(recoveryMiddleware(s.logger))
	r.Use(corsMiddleware)
	r.Use(correlationIDMiddleware)
	r.Use(sessionMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)

		r.Post("/plan", s.handlePlan)
		r.Post("/explain", s.handleExplain)

		r.Get("/draft", s.handleDraftGet)
		r.Put("/draft", s.handleDraftPut)
		r.Delete("/draft", s.handleDraftDelete)
		r.Get("/share-prompt", s.handleSharePromptGet)
		r.Post("/share-prompt", s.handleSharePromptDismiss)

		r.Post("/feedback", s.handleFeedback)
		r.Post("/email", s.handleEmail)

		r.Post("/report/chart", s.handleReportChart)
		r.Post("/report/pdf", s.handleReportPDF)
	})

	return r
}
