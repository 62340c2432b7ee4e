package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/courtside/courtstat/internal/nba"
	"github.com/courtside/courtstat/internal/service"
)

func (s *Server) handleNBASync(w http.ResponseWriter, r *http.Request) {
	result, err := s.syncer.SyncAll(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleNBATeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.syncer.FetchTeams(r.Context())
	if err != nil {
		s.respondUpstreamError(w, err)
		return
	}
	respondWithMeta(w, http.StatusOK, teams, map[string]int{"count": len(teams)})
}

func (s *Server) handleNBAGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.syncer.FetchGames(r.Context())
	if err != nil {
		s.respondUpstreamError(w, err)
		return
	}
	respondWithMeta(w, http.StatusOK, games, map[string]int{"count": len(games)})
}

func (s *Server) handleNBAStats(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.Atoi(r.URL.Query().Get("game_id"))
	if err != nil || gameID <= 0 {
		respondError(w, s.logger, service.BadRequest("game_id must be a positive integer"))
		return
	}

	stats, err := s.syncer.FetchStats(r.Context(), gameID)
	if err != nil {
		s.respondUpstreamError(w, err)
		return
	}
	respondWithMeta(w, http.StatusOK, stats, map[string]int{"count": len(stats)})
}

// respondUpstreamError surfaces an upstream API failure as a 502 instead of
// a generic 500.
func (s *Server) respondUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *nba.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, http.StatusBadGateway, envelope{Success: false, Error: apiErr.Error()})
		return
	}
	respondError(w, s.logger, err)
}
