package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/courtside/courtstat/internal/service"
)

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	players, err := s.players.List(r.Context(), q.Get("league"), q.Get("team_id"))
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondWithMeta(w, http.StatusOK, players, map[string]int{"count": len(players)})
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var input service.CreatePlayerInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, s.logger, err)
		return
	}

	player, err := s.players.Create(r.Context(), input)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, player)
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := s.players.Get(r.Context(), mux.Vars(r)["playerID"])
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, player)
}

func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var input service.UpdatePlayerInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, s.logger, err)
		return
	}

	player, err := s.players.Update(r.Context(), mux.Vars(r)["playerID"], input)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, player)
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	if err := s.players.Delete(r.Context(), mux.Vars(r)["playerID"]); err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "player deleted")
}
