package rest

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/courtside/courtstat/internal/service"
)

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, s.logger, service.BadRequest("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	result, err := s.rankings.Get(r.Context(), q.Get("category"), q.Get("league"), limit)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondWithMeta(w, http.StatusOK, result.Rankings, map[string]interface{}{
		"category": result.Category,
		"league":   result.League,
		"limit":    result.Limit,
		"total":    result.Total,
	})
}

func (s *Server) handlePlayerReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.PlayerReport(r.Context(), mux.Vars(r)["playerID"])
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
