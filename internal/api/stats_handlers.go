package api

import (
	"net/http"
	"time"

	"github.com/vytor/wordjourney/internal/errors"
	"github.com/vytor/wordjourney/internal/models"
)

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.JourneyRecordFilter{
		LearnerID: learnerFromContext(r.Context()).ID,
		Framework: q.Get("framework"),
		WordID:    q.Get("word"),
		Limit:     intParam(r, "limit", 0),
		Offset:    intParam(r, "offset", 0),
	}
	recs, err := s.StatsService.LearnerResults(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"results": recs})
}

// handleCompare compares frameworks across everyone, or only the caller
// with ?scope=me.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	learnerID := ""
	if r.URL.Query().Get("scope") == "me" {
		learnerID = learnerFromContext(r.Context()).ID
	}
	cmp, err := s.StatsService.CompareFrameworks(r.Context(), learnerID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"frameworks": cmp})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.EventFilter{
		Framework: q.Get("framework"),
		WordID:    q.Get("word"),
		Name:      q.Get("event"),
		Limit:     intParam(r, "limit", 0),
		Offset:    intParam(r, "offset", 0),
	}
	if q.Get("scope") == "me" {
		filter.LearnerID = learnerFromContext(r.Context()).ID
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			handleError(w, r, errors.NewValidationError("since", "must be an RFC 3339 timestamp"))
			return
		}
		filter.Since = &since
	}

	evs, total, err := s.StatsService.Events(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"events": evs, "total": total})
}
