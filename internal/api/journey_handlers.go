package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/wordjourney/internal/logger"
	"github.com/vytor/wordjourney/internal/services"
	"github.com/vytor/wordjourney/internal/step"
)

type startJourneyRequest struct {
	Framework string `json:"framework"`
	Word      string `json:"word"`
}

type clientEventRequest struct {
	Event string         `json:"event"`
	Meta  map[string]any `json:"meta"`
}

func (s *Server) handleStartJourney(w http.ResponseWriter, r *http.Request) {
	var req startJourneyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("start journey request: framework=%s, word=%s", req.Framework, req.Word)

	view, err := s.JourneyService.Start(r.Context(), learnerFromContext(r.Context()), req.Framework, req.Word)
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/journeys/"+view.ID)
	writeJSON(w, r, http.StatusCreated, view)
}

func (s *Server) handleGetJourney(w http.ResponseWriter, r *http.Request) {
	view, err := s.JourneyService.View(r.Context(), learnerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleCloseJourney(w http.ResponseWriter, r *http.Request) {
	if err := s.JourneyService.Close(r.Context(), learnerFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var answer step.Answer
	if err := decodeJSON(w, r, &answer); err != nil {
		handleError(w, r, err)
		return
	}
	res, err := s.JourneyService.Submit(r.Context(), learnerFromContext(r.Context()), chi.URLParam(r, "id"), answer)
	s.writeAction(w, r, res, err)
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	res, err := s.JourneyService.Skip(r.Context(), learnerFromContext(r.Context()), chi.URLParam(r, "id"))
	s.writeAction(w, r, res, err)
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	res, err := s.JourneyService.Continue(r.Context(), learnerFromContext(r.Context()), chi.URLParam(r, "id"))
	s.writeAction(w, r, res, err)
}

func (s *Server) writeAction(w http.ResponseWriter, r *http.Request, res *services.ActionResult, err error) {
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.JourneyService.Summary(r.Context(), learnerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}

func (s *Server) handleClientEvent(w http.ResponseWriter, r *http.Request) {
	var req clientEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.JourneyService.Emit(r.Context(), learnerFromContext(r.Context()), chi.URLParam(r, "id"), req.Event, req.Meta); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
