package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const requestTimeout = 15 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(timeoutMiddleware(requestTimeout))
		r.Use(s.learnerMiddleware)

		r.Get("/frameworks", s.handleFrameworks)
		r.Get("/words", s.handleWords)

		r.Post("/journeys", s.handleStartJourney)
		r.Route("/journeys/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetJourney)
			r.Delete("/", s.handleCloseJourney)
			r.Post("/submit", s.handleSubmit)
			r.Post("/skip", s.handleSkip)
			r.Post("/continue", s.handleContinue)
			r.Get("/summary", s.handleSummary)
			r.Post("/events", s.handleClientEvent)
		})

		r.Get("/results", s.handleResults)
		r.Get("/compare", s.handleCompare)
		r.Get("/events", s.handleEvents)

		r.Get("/feedback", s.handleListFeedback)
		r.Post("/feedback", s.handleCreateFeedback)
		r.Get("/feedback/export", s.handleExportFeedback)
		r.Post("/feedback/import", s.handleImportFeedback)
		r.Get("/feedback/{id}", s.handleGetFeedback)
	})
	return r
}
