package api

import (
	"net/http"
)

func (s *Server) handleFrameworks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"frameworks": s.Catalogue.Frameworks()})
}

func (s *Server) handleWords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"words": s.Catalogue.Words()})
}
