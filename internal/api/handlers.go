package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/vytor/wordjourney/internal/errors"
	"github.com/vytor/wordjourney/internal/logger"
	"github.com/vytor/wordjourney/internal/services"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Catalogue       services.Catalogue
	JourneyService  services.JourneyService
	StatsService    services.StatsService
	FeedbackService services.FeedbackService
	// Ready reports whether the store behind the services is reachable.
	Ready func(context.Context) error
	// SecureCookies marks learner cookies Secure; set when served over HTTPS.
	SecureCookies bool
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeJSON reads a size-limited JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}

// intParam parses a non-negative integer query parameter, falling back to def.
func intParam(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	return def
}
