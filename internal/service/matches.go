package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/courtside/courtstat/internal/store"
	"github.com/courtside/courtstat/internal/store/repository"
)

// MatchService implements match CRUD and the lifecycle guard.
type MatchService struct {
	matches    MatchStore
	teams      TeamStore
	players    PlayerStore
	stats      StatsStore
	clock      clockwork.Clock
	publishers []Publisher
}

// NewMatchService creates a new match service.
func NewMatchService(
	matches MatchStore,
	teams TeamStore,
	players PlayerStore,
	stats StatsStore,
	clock clockwork.Clock,
	publishers ...Publisher,
) *MatchService {
	return &MatchService{
		matches:    matches,
		teams:      teams,
		players:    players,
		stats:      stats,
		clock:      clock,
		publishers: publishers,
	}
}

// CreateMatchInput is the payload for scheduling a match.
type CreateMatchInput struct {
	HomeTeamID string    `json:"home_team_id" validate:"required"`
	AwayTeamID string    `json:"away_team_id" validate:"required"`
	MatchDate  time.Time `json:"match_date" validate:"required"`
	SheetURL   *string   `json:"sheet_url" validate:"omitempty,url"`
}

// UpdateMatchInput carries the mutable match fields. Absent fields are left
// unchanged.
type UpdateMatchInput struct {
	Status    *string    `json:"status"`
	HomeScore *int       `json:"home_score" validate:"omitempty,gte=0"`
	AwayScore *int       `json:"away_score" validate:"omitempty,gte=0"`
	MatchDate *time.Time `json:"match_date"`
	SheetURL  *string    `json:"sheet_url" validate:"omitempty,url"`
}

func (u UpdateMatchInput) empty() bool {
	return u.Status == nil && u.HomeScore == nil && u.AwayScore == nil &&
		u.MatchDate == nil && u.SheetURL == nil
}

// MatchSummary is a match with both teams joined.
type MatchSummary struct {
	store.Match
	HomeTeam *store.Team `json:"home_team"`
	AwayTeam *store.Team `json:"away_team"`
}

// MatchDetail is a match with its teams and full box score.
type MatchDetail struct {
	MatchSummary
	Stats []*StatLine `json:"stats"`
}

// List returns matches with teams joined, newest first.
func (s *MatchService) List(ctx context.Context, filter repository.MatchFilter) ([]*MatchSummary, error) {
	league, err := normalizeLeagueFilter(filter.League)
	if err != nil {
		return nil, err
	}
	filter.League = league

	if filter.Status != "" && !store.ValidStatus(filter.Status) {
		return nil, BadRequest("unknown status %q", filter.Status)
	}

	matches, err := s.matches.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	teamIDs := make([]string, 0, len(matches)*2)
	seen := make(map[string]bool)
	for _, m := range matches {
		for _, id := range []string{m.HomeTeamID, m.AwayTeamID} {
			if !seen[id] {
				seen[id] = true
				teamIDs = append(teamIDs, id)
			}
		}
	}
	teams, err := s.teams.GetByIDs(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams for matches: %w", err)
	}

	summaries := make([]*MatchSummary, 0, len(matches))
	for _, m := range matches {
		summaries = append(summaries, &MatchSummary{
			Match:    *m,
			HomeTeam: teams[m.HomeTeamID],
			AwayTeam: teams[m.AwayTeamID],
		})
	}
	return summaries, nil
}

// Create schedules a new match between two existing, distinct teams. The
// match starts scheduled with zero scores and a fresh access code.
func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (*MatchSummary, error) {
	if verr := validateInput(input); verr != nil {
		return nil, verr
	}
	if input.HomeTeamID == input.AwayTeamID {
		return nil, BadRequest("home and away teams must differ")
	}

	home, err := s.mustTeam(ctx, input.HomeTeamID)
	if err != nil {
		return nil, err
	}
	away, err := s.mustTeam(ctx, input.AwayTeamID)
	if err != nil {
		return nil, err
	}

	league := store.LeagueLocal
	if home.League == store.LeagueNBA && away.League == store.LeagueNBA {
		league = store.LeagueNBA
	}

	code := generateAccessCode()
	match := &store.Match{
		MatchID:    newLocalID("match"),
		HomeTeamID: input.HomeTeamID,
		AwayTeamID: input.AwayTeamID,
		MatchDate:  input.MatchDate,
		Status:     store.StatusScheduled,
		League:     league,
		AccessCode: &code,
		SheetURL:   input.SheetURL,
	}
	if err := s.matches.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return &MatchSummary{Match: *match, HomeTeam: home, AwayTeam: away}, nil
}

// Get fetches a match with teams and its full box score.
func (s *MatchService) Get(ctx context.Context, matchID string) (*MatchDetail, error) {
	match, err := s.mustMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	teams, err := s.teams.GetByIDs(ctx, []string{match.HomeTeamID, match.AwayTeamID})
	if err != nil {
		return nil, fmt.Errorf("failed to load match teams: %w", err)
	}

	lines, err := s.boxScore(ctx, matchID)
	if err != nil {
		return nil, err
	}

	return &MatchDetail{
		MatchSummary: MatchSummary{
			Match:    *match,
			HomeTeam: teams[match.HomeTeamID],
			AwayTeam: teams[match.AwayTeamID],
		},
		Stats: lines,
	}, nil
}

// boxScore loads a match's stat rows and joins player identity in one batch.
func (s *MatchService) boxScore(ctx context.Context, matchID string) ([]*StatLine, error) {
	rows, err := s.stats.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match stats: %w", err)
	}

	playerIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		playerIDs = append(playerIDs, row.PlayerID)
	}
	players, err := s.players.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load players for stats: %w", err)
	}

	lines := make([]*StatLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, newStatLine(row, players[row.PlayerID]))
	}
	return lines, nil
}

// Update applies the lifecycle guard and writes the accepted mutation.
func (s *MatchService) Update(ctx context.Context, matchID string, input UpdateMatchInput) (*MatchSummary, error) {
	if verr := validateInput(input); verr != nil {
		return nil, verr
	}
	if input.empty() {
		return nil, BadRequest("no fields to update")
	}

	match, err := s.mustMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.League == store.LeagueNBA {
		return nil, Forbidden("nba matches are read-only")
	}

	newStatus := match.Status
	if input.Status != nil {
		if !store.ValidStatus(*input.Status) {
			return nil, BadRequest("unknown status %q", *input.Status)
		}
		if err := validateStatusTransition(match.Status, *input.Status); err != nil {
			return nil, err
		}
		newStatus = *input.Status
	}

	scoreChange := input.HomeScore != nil || input.AwayScore != nil
	if match.Status == store.StatusCompleted && (scoreChange || input.MatchDate != nil || input.SheetURL != nil) {
		return nil, BadRequest("completed matches cannot be modified")
	}
	if input.MatchDate != nil && match.Status != store.StatusScheduled {
		return nil, BadRequest("match date can only change while the match is scheduled")
	}
	if scoreChange && newStatus == store.StatusScheduled {
		return nil, BadRequest("scores cannot change before the match starts")
	}

	statusChanged := newStatus != match.Status
	match.Status = newStatus
	if input.HomeScore != nil {
		match.HomeScore = *input.HomeScore
	}
	if input.AwayScore != nil {
		match.AwayScore = *input.AwayScore
	}
	if input.MatchDate != nil {
		match.MatchDate = *input.MatchDate
	}
	if input.SheetURL != nil {
		match.SheetURL = input.SheetURL
	}

	if err := s.matches.Update(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	if statusChanged || scoreChange {
		eventType := EventScoreUpdate
		if statusChanged {
			eventType = EventStatusChange
		}
		publishAll(ctx, s.publishers, MatchEvent{
			Type:      eventType,
			MatchID:   match.MatchID,
			Status:    match.Status,
			HomeScore: match.HomeScore,
			AwayScore: match.AwayScore,
			At:        s.clock.Now().UTC(),
		})
	}

	teams, err := s.teams.GetByIDs(ctx, []string{match.HomeTeamID, match.AwayTeamID})
	if err != nil {
		return nil, fmt.Errorf("failed to load match teams: %w", err)
	}
	return &MatchSummary{
		Match:    *match,
		HomeTeam: teams[match.HomeTeamID],
		AwayTeam: teams[match.AwayTeamID],
	}, nil
}

// Delete removes a local match and its stat rows.
func (s *MatchService) Delete(ctx context.Context, matchID string) error {
	match, err := s.mustMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if match.League == store.LeagueNBA {
		return Forbidden("nba matches are read-only")
	}

	if err := s.matches.Delete(ctx, matchID); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	return nil
}

// VerifyAccessCode checks a scorer's access code for a match.
func (s *MatchService) VerifyAccessCode(ctx context.Context, matchID, code string) error {
	match, err := s.mustMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if match.AccessCode == nil || code == "" || *match.AccessCode != code {
		return Unauthorized("invalid access code")
	}
	return nil
}

func (s *MatchService) mustMatch(ctx context.Context, matchID string) (*store.Match, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("match %s not found", matchID)
	}
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (s *MatchService) mustTeam(ctx context.Context, teamID string) (*store.Team, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("team %s not found", teamID)
	}
	if err != nil {
		return nil, err
	}
	return team, nil
}

// validateStatusTransition enforces the one-way match lifecycle:
// scheduled -> in_progress -> completed, no skipping, no going back.
// Re-stating the current status is an accepted no-op.
func validateStatusTransition(from, to string) error {
	if from == to {
		return nil
	}
	switch {
	case from == store.StatusScheduled && to == store.StatusInProgress:
		return nil
	case from == store.StatusInProgress && to == store.StatusCompleted:
		return nil
	}
	return BadRequest("invalid status transition %s -> %s", from, to)
}

// generateAccessCode returns a 6-digit scorer access code.
func generateAccessCode() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read only fails when the OS entropy source is broken
		return "000000"
	}
	code := make([]byte, 6)
	for i, b := range buf {
		code[i] = '0' + b%10
	}
	return string(code)
}
