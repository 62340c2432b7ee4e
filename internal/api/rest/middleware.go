package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/courtside/courtstat/internal/auth"
)

// recoveryMiddleware converts handler panics into 500 responses.
func recoveryMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
					writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Error: "internal server error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware emits one structured line per request.
func loggingMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// requireAuth guards a mutating handler behind a bearer token when auth is
// enabled. With auth disabled it is a passthrough.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	if !s.authRequired {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Error: "missing bearer token"})
			return
		}

		if _, err := s.tokens.Verify(token); err != nil {
			if err == auth.ErrInvalidToken {
				writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Error: "invalid token"})
				return
			}
			respondError(w, s.logger, err)
			return
		}
		next(w, r)
	}
}
