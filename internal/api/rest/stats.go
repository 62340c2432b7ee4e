package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/courtside/courtstat/internal/service"
)

func (s *Server) handleGetStat(w http.ResponseWriter, r *http.Request) {
	detail, err := s.stats.Get(r.Context(), mux.Vars(r)["statID"])
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleUpdateStat(w http.ResponseWriter, r *http.Request) {
	var input service.MatchStatsInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, s.logger, err)
		return
	}

	line, err := s.stats.Update(r.Context(), mux.Vars(r)["statID"], input)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, line)
}

func (s *Server) handleDeleteStat(w http.ResponseWriter, r *http.Request) {
	if err := s.stats.Delete(r.Context(), mux.Vars(r)["statID"]); err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "stat row deleted")
}
