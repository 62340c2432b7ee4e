package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/courtside/courtstat/internal/service"
	"github.com/courtside/courtstat/internal/store/repository"
)

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	filter, err := parseMatchFilter(r)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	matches, err := s.matches.List(r.Context(), filter)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondWithMeta(w, http.StatusOK, matches, map[string]int{"count": len(matches)})
}

func parseMatchFilter(r *http.Request) (repository.MatchFilter, error) {
	q := r.URL.Query()
	filter := repository.MatchFilter{
		League: q.Get("league"),
		Status: q.Get("status"),
		TeamID: q.Get("team_id"),
	}

	if raw := q.Get("date_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, service.BadRequest("date_from must be YYYY-MM-DD")
		}
		filter.DateFrom = t
	}
	if raw := q.Get("date_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, service.BadRequest("date_to must be YYYY-MM-DD")
		}
		// Inclusive upper bound.
		filter.DateTo = t.Add(24*time.Hour - time.Nanosecond)
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, service.BadRequest("limit must be a positive integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var input service.CreateMatchInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, s.logger, err)
		return
	}

	match, err := s.matches.Create(r.Context(), input)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, match)
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	match, err := s.matches.Get(r.Context(), mux.Vars(r)["matchID"])
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, match)
}

func (s *Server) handleUpdateMatch(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateMatchInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, s.logger, err)
		return
	}

	match, err := s.matches.Update(r.Context(), mux.Vars(r)["matchID"], input)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, match)
}

func (s *Server) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := s.matches.Delete(r.Context(), mux.Vars(r)["matchID"]); err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "match deleted")
}

func (s *Server) handleVerifyMatch(w http.ResponseWriter, r *http.Request) {
	var input struct {
		AccessCode string `json:"access_code"`
	}
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, s.logger, err)
		return
	}

	if err := s.matches.VerifyAccessCode(r.Context(), mux.Vars(r)["matchID"], input.AccessCode); err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "access code verified")
}

func (s *Server) handleMatchStats(w http.ResponseWriter, r *http.Request) {
	lines, err := s.stats.BoxScore(r.Context(), mux.Vars(r)["matchID"])
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondWithMeta(w, http.StatusOK, lines, map[string]int{"count": len(lines)})
}

func (s *Server) handleRecordStats(w http.ResponseWriter, r *http.Request) {
	var input service.MatchStatsInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, s.logger, err)
		return
	}

	line, err := s.stats.RecordForMatch(r.Context(), mux.Vars(r)["matchID"], input)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, line)
}
