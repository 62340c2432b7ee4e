package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtside/courtstat/internal/store"
)

// TeamService implements team CRUD with league-ownership guards.
type TeamService struct {
	teams TeamStore
}

// NewTeamService creates a new team service.
func NewTeamService(teams TeamStore) *TeamService {
	return &TeamService{teams: teams}
}

// CreateTeamInput is the payload for creating a local team.
type CreateTeamInput struct {
	Name    string  `json:"name" validate:"required,max=100"`
	LogoURL *string `json:"logo_url" validate:"omitempty,url"`
}

// UpdateTeamInput carries the mutable team fields. Absent fields are left
// unchanged.
type UpdateTeamInput struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=100"`
	LogoURL *string `json:"logo_url" validate:"omitempty,url"`
}

// List returns teams, optionally filtered by league. "all" and "" mean no
// filter.
func (s *TeamService) List(ctx context.Context, league string) ([]*store.Team, error) {
	league, err := normalizeLeagueFilter(league)
	if err != nil {
		return nil, err
	}

	teams, err := s.teams.List(ctx, league)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if teams == nil {
		teams = []*store.Team{}
	}
	return teams, nil
}

// Create inserts a new locally managed team.
func (s *TeamService) Create(ctx context.Context, input CreateTeamInput) (*store.Team, error) {
	if verr := validateInput(input); verr != nil {
		return nil, verr
	}

	team := &store.Team{
		TeamID:  newLocalID("team"),
		Name:    input.Name,
		LogoURL: input.LogoURL,
		League:  store.LeagueLocal,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

// Get fetches a single team.
func (s *TeamService) Get(ctx context.Context, teamID string) (*store.Team, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("team %s not found", teamID)
	}
	if err != nil {
		return nil, err
	}
	return team, nil
}

// Update applies a partial update to a local team. Synced teams are
// read-only.
func (s *TeamService) Update(ctx context.Context, teamID string, input UpdateTeamInput) (*store.Team, error) {
	if verr := validateInput(input); verr != nil {
		return nil, verr
	}
	if input.Name == nil && input.LogoURL == nil {
		return nil, BadRequest("no fields to update")
	}

	team, err := s.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.League == store.LeagueNBA {
		return nil, Forbidden("nba teams are read-only")
	}

	if input.Name != nil {
		team.Name = *input.Name
	}
	if input.LogoURL != nil {
		team.LogoURL = input.LogoURL
	}

	if err := s.teams.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return team, nil
}

// Delete removes a local team.
func (s *TeamService) Delete(ctx context.Context, teamID string) error {
	team, err := s.Get(ctx, teamID)
	if err != nil {
		return err
	}
	if team.League == store.LeagueNBA {
		return Forbidden("nba teams are read-only")
	}

	if err := s.teams.Delete(ctx, teamID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

// normalizeLeagueFilter maps the league query parameter onto a repository
// filter value.
func normalizeLeagueFilter(league string) (string, error) {
	switch league {
	case "", "all":
		return "", nil
	case store.LeagueLocal, store.LeagueNBA:
		return league, nil
	default:
		return "", BadRequest("unknown league %q", league)
	}
}
