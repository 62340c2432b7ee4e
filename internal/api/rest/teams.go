package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/courtside/courtstat/internal/service"
)

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.teams.List(r.Context(), r.URL.Query().Get("league"))
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondWithMeta(w, http.StatusOK, teams, map[string]int{"count": len(teams)})
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var input service.CreateTeamInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, s.logger, err)
		return
	}

	team, err := s.teams.Create(r.Context(), input)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, team)
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.teams.Get(r.Context(), mux.Vars(r)["teamID"])
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, team)
}

func (s *Server) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateTeamInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, s.logger, err)
		return
	}

	team, err := s.teams.Update(r.Context(), mux.Vars(r)["teamID"], input)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, team)
}

func (s *Server) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := s.teams.Delete(r.Context(), mux.Vars(r)["teamID"]); err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "team deleted")
}
