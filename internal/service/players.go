package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtside/courtstat/internal/store"
)

// PlayerService implements player CRUD with roster and league guards.
type PlayerService struct {
	players PlayerStore
	teams   TeamStore
}

// NewPlayerService creates a new player service.
func NewPlayerService(players PlayerStore, teams TeamStore) *PlayerService {
	return &PlayerService{players: players, teams: teams}
}

// PlayerWithTeam is a player joined with their current team, if any.
type PlayerWithTeam struct {
	store.Player
	Team *store.Team `json:"team"`
}

// CreatePlayerInput is the payload for creating a local player.
type CreatePlayerInput struct {
	FirstName    string  `json:"first_name" validate:"required,max=100"`
	LastName     string  `json:"last_name" validate:"required,max=100"`
	JerseyNumber *int    `json:"jersey_number" validate:"omitempty,gte=0,lte=99"`
	Position     *string `json:"position" validate:"omitempty,oneof=PG SG SF PF C"`
	TeamID       *string `json:"team_id"`
	PhotoURL     *string `json:"photo_url" validate:"omitempty,url"`
	Age          *int    `json:"age" validate:"omitempty,gte=0,lte=120"`
}

// UpdatePlayerInput carries the mutable player fields. Absent fields are
// left unchanged.
type UpdatePlayerInput struct {
	FirstName    *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName     *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	JerseyNumber *int    `json:"jersey_number" validate:"omitempty,gte=0,lte=99"`
	Position     *string `json:"position" validate:"omitempty,oneof=PG SG SF PF C"`
	TeamID       *string `json:"team_id"`
	PhotoURL     *string `json:"photo_url" validate:"omitempty,url"`
	Age          *int    `json:"age" validate:"omitempty,gte=0,lte=120"`
}

func (u UpdatePlayerInput) empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.JerseyNumber == nil &&
		u.Position == nil && u.TeamID == nil && u.PhotoURL == nil && u.Age == nil
}

// List returns players with their teams joined, ordered by last name.
func (s *PlayerService) List(ctx context.Context, league, teamID string) ([]*PlayerWithTeam, error) {
	league, err := normalizeLeagueFilter(league)
	if err != nil {
		return nil, err
	}

	players, err := s.players.List(ctx, league, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return s.joinTeams(ctx, players)
}

// joinTeams resolves the distinct team ids for a player set in one batch.
func (s *PlayerService) joinTeams(ctx context.Context, players []*store.Player) ([]*PlayerWithTeam, error) {
	teamIDs := make([]string, 0, len(players))
	seen := make(map[string]bool)
	for _, p := range players {
		if p.TeamID != nil && !seen[*p.TeamID] {
			seen[*p.TeamID] = true
			teamIDs = append(teamIDs, *p.TeamID)
		}
	}

	teams, err := s.teams.GetByIDs(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams for players: %w", err)
	}

	result := make([]*PlayerWithTeam, 0, len(players))
	for _, p := range players {
		pt := &PlayerWithTeam{Player: *p}
		if p.TeamID != nil {
			pt.Team = teams[*p.TeamID]
		}
		result = append(result, pt)
	}
	return result, nil
}

// Create inserts a new locally managed player.
func (s *PlayerService) Create(ctx context.Context, input CreatePlayerInput) (*PlayerWithTeam, error) {
	if verr := validateInput(input); verr != nil {
		return nil, verr
	}

	var team *store.Team
	if input.TeamID != nil {
		var err error
		team, err = s.localTeam(ctx, *input.TeamID)
		if err != nil {
			return nil, err
		}
	}

	player := &store.Player{
		PlayerID:     newLocalID("player"),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		JerseyNumber: input.JerseyNumber,
		Position:     input.Position,
		TeamID:       input.TeamID,
		PhotoURL:     input.PhotoURL,
		League:       store.LeagueLocal,
		Age:          input.Age,
	}
	if err := s.players.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return &PlayerWithTeam{Player: *player, Team: team}, nil
}

// Get fetches a single player with their team.
func (s *PlayerService) Get(ctx context.Context, playerID string) (*PlayerWithTeam, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("player %s not found", playerID)
	}
	if err != nil {
		return nil, err
	}

	pt := &PlayerWithTeam{Player: *player}
	if player.TeamID != nil {
		team, err := s.teams.GetByID(ctx, *player.TeamID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		pt.Team = team
	}
	return pt, nil
}

// Update applies a partial update to a local player. Synced players are
// read-only, and players cannot be transferred onto a synced roster.
func (s *PlayerService) Update(ctx context.Context, playerID string, input UpdatePlayerInput) (*PlayerWithTeam, error) {
	if verr := validateInput(input); verr != nil {
		return nil, verr
	}
	if input.empty() {
		return nil, BadRequest("no fields to update")
	}

	current, err := s.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if current.League == store.LeagueNBA {
		return nil, Forbidden("nba players are read-only")
	}

	player := current.Player
	if input.FirstName != nil {
		player.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		player.LastName = *input.LastName
	}
	if input.JerseyNumber != nil {
		player.JerseyNumber = input.JerseyNumber
	}
	if input.Position != nil {
		player.Position = input.Position
	}
	if input.PhotoURL != nil {
		player.PhotoURL = input.PhotoURL
	}
	if input.Age != nil {
		player.Age = input.Age
	}

	team := current.Team
	if input.TeamID != nil {
		if *input.TeamID == "" {
			player.TeamID = nil
			team = nil
		} else {
			team, err = s.localTeam(ctx, *input.TeamID)
			if err != nil {
				return nil, err
			}
			player.TeamID = input.TeamID
		}
	}

	if err := s.players.Update(ctx, &player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}
	return &PlayerWithTeam{Player: player, Team: team}, nil
}

// Delete removes a local player.
func (s *PlayerService) Delete(ctx context.Context, playerID string) error {
	current, err := s.Get(ctx, playerID)
	if err != nil {
		return err
	}
	if current.League == store.LeagueNBA {
		return Forbidden("nba players are read-only")
	}

	if err := s.players.Delete(ctx, playerID); err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	return nil
}

// localTeam fetches a team and rejects synced rosters as assignment targets.
func (s *PlayerService) localTeam(ctx context.Context, teamID string) (*store.Team, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("team %s not found", teamID)
	}
	if err != nil {
		return nil, err
	}
	if team.League == store.LeagueNBA {
		return nil, Forbidden("cannot assign players to an nba team")
	}
	return team, nil
}
