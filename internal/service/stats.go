package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/courtside/courtstat/internal/store"
	"github.com/courtside/courtstat/internal/store/repository"
)

// RankingsInvalidator drops cached ranking results after a stat write.
type RankingsInvalidator interface {
	InvalidateRankings(ctx context.Context)
}

// StatsService implements box-score entry with the live-match guard.
type StatsService struct {
	stats       StatsStore
	matches     MatchStore
	players     PlayerStore
	clock       clockwork.Clock
	invalidator RankingsInvalidator
	publishers  []Publisher
}

// NewStatsService creates a new stats service. invalidator may be nil when
// no ranking cache is wired.
func NewStatsService(
	stats StatsStore,
	matches MatchStore,
	players PlayerStore,
	clock clockwork.Clock,
	invalidator RankingsInvalidator,
	publishers ...Publisher,
) *StatsService {
	return &StatsService{
		stats:       stats,
		matches:     matches,
		players:     players,
		clock:       clock,
		invalidator: invalidator,
		publishers:  publishers,
	}
}

// StatLine is a stat row with its derived values and player identity.
type StatLine struct {
	store.PlayerStats
	TotalRebounds int           `json:"total_rebounds"`
	Rating        int           `json:"rating"`
	Player        *store.Player `json:"player,omitempty"`
}

func newStatLine(s *store.PlayerStats, p *store.Player) *StatLine {
	return &StatLine{
		PlayerStats:   *s,
		TotalRebounds: s.TotalRebounds(),
		Rating:        s.Rating(),
		Player:        p,
	}
}

// StatDetail is a stat line with its match context.
type StatDetail struct {
	StatLine
	Match *store.Match `json:"match"`
}

// Mutation actions for MatchStatsInput.
const (
	ActionUpdate    = "update"
	ActionIncrement = "increment"
)

// MatchStatsInput is the box-score mutation payload. With
// action "increment" only Stat and Value are read; otherwise the stat
// field pointers are applied over the existing row.
type MatchStatsInput struct {
	Action   string `json:"action" validate:"omitempty,oneof=update increment"`
	PlayerID string `json:"player_id"`

	Stat  string   `json:"stat"`
	Value *float64 `json:"value"`

	Points                 *int     `json:"points" validate:"omitempty,gte=0"`
	OffensiveRebounds      *int     `json:"offensive_rebounds" validate:"omitempty,gte=0"`
	DefensiveRebounds      *int     `json:"defensive_rebounds" validate:"omitempty,gte=0"`
	Assists                *int     `json:"assists" validate:"omitempty,gte=0"`
	Steals                 *int     `json:"steals" validate:"omitempty,gte=0"`
	Blocks                 *int     `json:"blocks" validate:"omitempty,gte=0"`
	Turnovers              *int     `json:"turnovers" validate:"omitempty,gte=0"`
	PersonalFouls          *int     `json:"personal_fouls" validate:"omitempty,gte=0"`
	MinutesPlayed          *float64 `json:"minutes_played" validate:"omitempty,gte=0"`
	FieldGoalsMade         *int     `json:"field_goals_made" validate:"omitempty,gte=0"`
	FieldGoalsAttempted    *int     `json:"field_goals_attempted" validate:"omitempty,gte=0"`
	ThreePointersMade      *int     `json:"three_pointers_made" validate:"omitempty,gte=0"`
	ThreePointersAttempted *int     `json:"three_pointers_attempted" validate:"omitempty,gte=0"`
	FreeThrowsMade         *int     `json:"free_throws_made" validate:"omitempty,gte=0"`
	FreeThrowsAttempted    *int     `json:"free_throws_attempted" validate:"omitempty,gte=0"`
}

func (in *MatchStatsInput) apply(s *store.PlayerStats) {
	if in.Points != nil {
		s.Points = *in.Points
	}
	if in.OffensiveRebounds != nil {
		s.OffensiveRebounds = *in.OffensiveRebounds
	}
	if in.DefensiveRebounds != nil {
		s.DefensiveRebounds = *in.DefensiveRebounds
	}
	if in.Assists != nil {
		s.Assists = *in.Assists
	}
	if in.Steals != nil {
		s.Steals = *in.Steals
	}
	if in.Blocks != nil {
		s.Blocks = *in.Blocks
	}
	if in.Turnovers != nil {
		s.Turnovers = *in.Turnovers
	}
	if in.PersonalFouls != nil {
		s.PersonalFouls = *in.PersonalFouls
	}
	if in.MinutesPlayed != nil {
		s.MinutesPlayed = *in.MinutesPlayed
	}
	if in.FieldGoalsMade != nil {
		s.FieldGoalsMade = *in.FieldGoalsMade
	}
	if in.FieldGoalsAttempted != nil {
		s.FieldGoalsAttempted = *in.FieldGoalsAttempted
	}
	if in.ThreePointersMade != nil {
		s.ThreePointersMade = *in.ThreePointersMade
	}
	if in.ThreePointersAttempted != nil {
		s.ThreePointersAttempted = *in.ThreePointersAttempted
	}
	if in.FreeThrowsMade != nil {
		s.FreeThrowsMade = *in.FreeThrowsMade
	}
	if in.FreeThrowsAttempted != nil {
		s.FreeThrowsAttempted = *in.FreeThrowsAttempted
	}
}

// BoxScore returns every stat line for a match with player identity joined.
func (s *StatsService) BoxScore(ctx context.Context, matchID string) ([]*StatLine, error) {
	if _, err := s.mustMatch(ctx, matchID); err != nil {
		return nil, err
	}

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

// RecordForMatch applies a box-score mutation for one player in one match.
func (s *StatsService) RecordForMatch(ctx context.Context, matchID string, input MatchStatsInput) (*StatLine, error) {
	if verr := validateInput(input); verr != nil {
		return nil, verr
	}
	if input.PlayerID == "" {
		return nil, BadRequest("player_id is required")
	}

	match, err := s.guardMutableMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	player, err := s.mustRosteredPlayer(ctx, input.PlayerID, match)
	if err != nil {
		return nil, err
	}

	row, err := s.mutateRow(ctx, match, player, input)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, match, row, EventStatUpdate)
	return newStatLine(row, player), nil
}

// mutateRow routes between the increment and full-update forms, creating
// the zero row on first touch.
func (s *StatsService) mutateRow(ctx context.Context, match *store.Match, player *store.Player, input MatchStatsInput) (*store.PlayerStats, error) {
	existing, err := s.stats.GetByPlayerAndMatch(ctx, player.PlayerID, match.MatchID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load stat row: %w", err)
	}
	if existing == nil {
		existing = &store.PlayerStats{
			StatID:   newLocalID("stat"),
			PlayerID: player.PlayerID,
			MatchID:  match.MatchID,
		}
		if err := s.stats.Upsert(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to create stat row: %w", err)
		}
	}

	if input.Action == ActionIncrement {
		if !repository.IncrementableStat(input.Stat) {
			return nil, BadRequest("unknown stat %q", input.Stat)
		}
		if input.Value == nil {
			return nil, BadRequest("value is required for increment")
		}
		row, err := s.stats.IncrementField(ctx, existing.StatID, input.Stat, *input.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to increment stat: %w", err)
		}
		return row, nil
	}

	input.apply(existing)
	if err := s.stats.Upsert(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to upsert stat row: %w", err)
	}
	return existing, nil
}

// Get fetches a stat row with player and match context.
func (s *StatsService) Get(ctx context.Context, statID string) (*StatDetail, error) {
	row, err := s.mustStat(ctx, statID)
	if err != nil {
		return nil, err
	}

	player, err := s.players.GetByID(ctx, row.PlayerID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	match, err := s.matches.GetByID(ctx, row.MatchID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	return &StatDetail{StatLine: *newStatLine(row, player), Match: match}, nil
}

// Update applies a mutation to an existing stat row by id.
func (s *StatsService) Update(ctx context.Context, statID string, input MatchStatsInput) (*StatLine, error) {
	if verr := validateInput(input); verr != nil {
		return nil, verr
	}

	row, err := s.mustStat(ctx, statID)
	if err != nil {
		return nil, err
	}
	match, err := s.guardMutableMatch(ctx, row.MatchID)
	if err != nil {
		return nil, err
	}

	if input.Action == ActionIncrement {
		if !repository.IncrementableStat(input.Stat) {
			return nil, BadRequest("unknown stat %q", input.Stat)
		}
		if input.Value == nil {
			return nil, BadRequest("value is required for increment")
		}
		row, err = s.stats.IncrementField(ctx, statID, input.Stat, *input.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to increment stat: %w", err)
		}
	} else {
		input.apply(row)
		if err := s.stats.Upsert(ctx, row); err != nil {
			return nil, fmt.Errorf("failed to update stat row: %w", err)
		}
	}

	player, perr := s.players.GetByID(ctx, row.PlayerID)
	if perr != nil && !errors.Is(perr, store.ErrNotFound) {
		return nil, perr
	}

	s.afterWrite(ctx, match, row, EventStatUpdate)
	return newStatLine(row, player), nil
}

// Delete removes a stat row from a still-mutable match.
func (s *StatsService) Delete(ctx context.Context, statID string) error {
	row, err := s.mustStat(ctx, statID)
	if err != nil {
		return err
	}
	match, err := s.guardMutableMatch(ctx, row.MatchID)
	if err != nil {
		return err
	}

	if err := s.stats.Delete(ctx, statID); err != nil {
		return fmt.Errorf("failed to delete stat row: %w", err)
	}

	s.afterWrite(ctx, match, row, EventStatDelete)
	return nil
}

// afterWrite broadcasts the live event and drops stale ranking caches.
func (s *StatsService) afterWrite(ctx context.Context, match *store.Match, row *store.PlayerStats, eventType string) {
	publishAll(ctx, s.publishers, MatchEvent{
		Type:      eventType,
		MatchID:   match.MatchID,
		Status:    match.Status,
		HomeScore: match.HomeScore,
		AwayScore: match.AwayScore,
		PlayerID:  row.PlayerID,
		Stats:     row,
		At:        s.clock.Now().UTC(),
	})
	if s.invalidator != nil {
		s.invalidator.InvalidateRankings(ctx)
	}
}

// guardMutableMatch enforces the stat-entry guard: the match must exist,
// must not be synced, and must not be completed.
func (s *StatsService) guardMutableMatch(ctx context.Context, matchID string) (*store.Match, error) {
	match, err := s.mustMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.League == store.LeagueNBA {
		return nil, Forbidden("nba match stats are read-only")
	}
	if match.Status == store.StatusCompleted {
		return nil, BadRequest("completed matches cannot be modified")
	}
	return match, nil
}

// mustRosteredPlayer checks the player exists and belongs to one of the two
// teams in the match.
func (s *StatsService) mustRosteredPlayer(ctx context.Context, playerID string, match *store.Match) (*store.Player, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("player %s not found", playerID)
	}
	if err != nil {
		return nil, err
	}
	if player.TeamID == nil || (*player.TeamID != match.HomeTeamID && *player.TeamID != match.AwayTeamID) {
		return nil, BadRequest("player %s is not on either team in this match", playerID)
	}
	return player, nil
}

func (s *StatsService) mustMatch(ctx context.Context, matchID string) (*store.Match, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("match %s not found", matchID)
	}
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (s *StatsService) mustStat(ctx context.Context, statID string) (*store.PlayerStats, error) {
	row, err := s.stats.GetByID(ctx, statID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("stat row %s not found", statID)
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}
