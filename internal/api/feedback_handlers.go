package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/wordjourney/internal/logger"
	"github.com/vytor/wordjourney/internal/models"
)

func (s *Server) handleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	var item models.FeedbackItem
	if err := decodeJSON(w, r, &item); err != nil {
		handleError(w, r, err)
		return
	}
	saved, err := s.FeedbackService.Submit(r.Context(), learnerFromContext(r.Context()), item)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, saved)
}

func (s *Server) handleGetFeedback(w http.ResponseWriter, r *http.Request) {
	item, err := s.FeedbackService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := s.FeedbackService.List(r.Context(), models.FeedbackFilter{
		Framework: q.Get("framework"),
		WordID:    q.Get("word"),
		StepID:    q.Get("step"),
		Thumb:     q.Get("thumb"),
		Limit:     intParam(r, "limit", 0),
		Offset:    intParam(r, "offset", 0),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"feedback": items})
}

// handleExportFeedback downloads every item as a bare JSON array, the same
// shape handleImportFeedback accepts.
func (s *Server) handleExportFeedback(w http.ResponseWriter, r *http.Request) {
	items, err := s.FeedbackService.Export(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	name := fmt.Sprintf("feedback-%s.json", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	writeJSON(w, r, http.StatusOK, items)
}

func (s *Server) handleImportFeedback(w http.ResponseWriter, r *http.Request) {
	var items []models.FeedbackItem
	if err := decodeJSON(w, r, &items); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("importing %d feedback items", len(items))

	res, err := s.FeedbackService.Import(r.Context(), items)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}
