package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/courtside/courtstat/internal/service"
)

// envelope is the uniform response body for every endpoint.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondWithMeta(w http.ResponseWriter, status int, data, meta interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data, Meta: meta})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: true, Message: message})
}

// respondError maps a classified service error onto its status; anything
// else is logged and reported as a generic 500 so internals never leak.
func respondError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var serr *service.Error
	if errors.As(err, &serr) {
		writeJSON(w, serr.Status, envelope{Success: false, Error: serr.Message})
		return
	}

	logger.Error().Err(err).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Error: "internal server error"})
}

// decodeJSON reads a request body into dst, rejecting malformed JSON with
// a 400.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return service.BadRequest("invalid JSON payload")
	}
	return nil
}
