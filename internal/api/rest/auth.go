package rest

import (
	"net/http"

	"github.com/courtside/courtstat/internal/service"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, s.logger, err)
		return
	}

	result, err := s.auth.Register(r.Context(), input)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, s.logger, err)
		return
	}

	result, err := s.auth.Login(r.Context(), input)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
