package service

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/courtside/courtstat/internal/store"
	"github.com/courtside/courtstat/internal/store/repository"
)

// In-memory stores backing the service tests.

type fakeTeamStore struct {
	teams map[string]*store.Team
}

var _ TeamStore = (*fakeTeamStore)(nil)

func newFakeTeamStore(teams ...*store.Team) *fakeTeamStore {
	f := &fakeTeamStore{teams: make(map[string]*store.Team)}
	for _, t := range teams {
		f.teams[t.TeamID] = t
	}
	return f
}

func (f *fakeTeamStore) Create(_ context.Context, team *store.Team) error {
	f.teams[team.TeamID] = team
	return nil
}

func (f *fakeTeamStore) GetByID(_ context.Context, teamID string) (*store.Team, error) {
	team, ok := f.teams[teamID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return team, nil
}

func (f *fakeTeamStore) GetByIDs(_ context.Context, teamIDs []string) (map[string]*store.Team, error) {
	result := make(map[string]*store.Team)
	for _, id := range teamIDs {
		if team, ok := f.teams[id]; ok {
			result[id] = team
		}
	}
	return result, nil
}

func (f *fakeTeamStore) List(_ context.Context, league string) ([]*store.Team, error) {
	var teams []*store.Team
	for _, t := range f.teams {
		if league == "" || t.League == league {
			teams = append(teams, t)
		}
	}
	return teams, nil
}

func (f *fakeTeamStore) Update(_ context.Context, team *store.Team) error {
	if _, ok := f.teams[team.TeamID]; !ok {
		return store.ErrNotFound
	}
	f.teams[team.TeamID] = team
	return nil
}

func (f *fakeTeamStore) Delete(_ context.Context, teamID string) error {
	if _, ok := f.teams[teamID]; !ok {
		return store.ErrNotFound
	}
	delete(f.teams, teamID)
	return nil
}

type fakePlayerStore struct {
	players map[string]*store.Player
}

var _ PlayerStore = (*fakePlayerStore)(nil)

func newFakePlayerStore(players ...*store.Player) *fakePlayerStore {
	f := &fakePlayerStore{players: make(map[string]*store.Player)}
	for _, p := range players {
		f.players[p.PlayerID] = p
	}
	return f
}

func (f *fakePlayerStore) Create(_ context.Context, player *store.Player) error {
	f.players[player.PlayerID] = player
	return nil
}

func (f *fakePlayerStore) GetByID(_ context.Context, playerID string) (*store.Player, error) {
	player, ok := f.players[playerID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return player, nil
}

func (f *fakePlayerStore) GetByIDs(_ context.Context, playerIDs []string) (map[string]*store.Player, error) {
	result := make(map[string]*store.Player)
	for _, id := range playerIDs {
		if player, ok := f.players[id]; ok {
			result[id] = player
		}
	}
	return result, nil
}

func (f *fakePlayerStore) List(_ context.Context, league, teamID string) ([]*store.Player, error) {
	var players []*store.Player
	for _, p := range f.players {
		if league != "" && p.League != league {
			continue
		}
		if teamID != "" && (p.TeamID == nil || *p.TeamID != teamID) {
			continue
		}
		players = append(players, p)
	}
	return players, nil
}

func (f *fakePlayerStore) Update(_ context.Context, player *store.Player) error {
	if _, ok := f.players[player.PlayerID]; !ok {
		return store.ErrNotFound
	}
	f.players[player.PlayerID] = player
	return nil
}

func (f *fakePlayerStore) Delete(_ context.Context, playerID string) error {
	if _, ok := f.players[playerID]; !ok {
		return store.ErrNotFound
	}
	delete(f.players, playerID)
	return nil
}

type fakeMatchStore struct {
	matches map[string]*store.Match
}

var _ MatchStore = (*fakeMatchStore)(nil)

func newFakeMatchStore(matches ...*store.Match) *fakeMatchStore {
	f := &fakeMatchStore{matches: make(map[string]*store.Match)}
	for _, m := range matches {
		f.matches[m.MatchID] = m
	}
	return f
}

func (f *fakeMatchStore) Create(_ context.Context, match *store.Match) error {
	f.matches[match.MatchID] = match
	return nil
}

func (f *fakeMatchStore) GetByID(_ context.Context, matchID string) (*store.Match, error) {
	match, ok := f.matches[matchID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *match
	return &copied, nil
}

func (f *fakeMatchStore) List(_ context.Context, filter repository.MatchFilter) ([]*store.Match, error) {
	var matches []*store.Match
	for _, m := range f.matches {
		if filter.League != "" && m.League != filter.League {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (f *fakeMatchStore) Update(_ context.Context, match *store.Match) error {
	if _, ok := f.matches[match.MatchID]; !ok {
		return store.ErrNotFound
	}
	copied := *match
	f.matches[match.MatchID] = &copied
	return nil
}

func (f *fakeMatchStore) Delete(_ context.Context, matchID string) error {
	if _, ok := f.matches[matchID]; !ok {
		return store.ErrNotFound
	}
	delete(f.matches, matchID)
	return nil
}

type fakeStatsStore struct {
	rows    map[string]*store.PlayerStats
	aggs    []*repository.PlayerAggregate
	gameLog []*repository.PlayerGameRow
}

var _ StatsStore = (*fakeStatsStore)(nil)

func newFakeStatsStore() *fakeStatsStore {
	return &fakeStatsStore{rows: make(map[string]*store.PlayerStats)}
}

func (f *fakeStatsStore) Upsert(_ context.Context, s *store.PlayerStats) error {
	for _, existing := range f.rows {
		if existing.PlayerID == s.PlayerID && existing.MatchID == s.MatchID {
			s.StatID = existing.StatID
			break
		}
	}
	copied := *s
	f.rows[s.StatID] = &copied
	return nil
}

func (f *fakeStatsStore) IncrementField(_ context.Context, statID, stat string, delta float64) (*store.PlayerStats, error) {
	row, ok := f.rows[statID]
	if !ok {
		return nil, store.ErrNotFound
	}
	clamp := func(cur int) int {
		return int(math.Max(0, float64(cur)+delta))
	}
	switch stat {
	case "points":
		row.Points = clamp(row.Points)
	case "assists":
		row.Assists = clamp(row.Assists)
	case "steals":
		row.Steals = clamp(row.Steals)
	case "defensive_rebounds":
		row.DefensiveRebounds = clamp(row.DefensiveRebounds)
	case "minutes_played":
		row.MinutesPlayed = math.Max(0, row.MinutesPlayed+delta)
	default:
		return nil, fmt.Errorf("unknown stat field %q", stat)
	}
	copied := *row
	return &copied, nil
}

func (f *fakeStatsStore) GetByID(_ context.Context, statID string) (*store.PlayerStats, error) {
	row, ok := f.rows[statID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (f *fakeStatsStore) GetByPlayerAndMatch(_ context.Context, playerID, matchID string) (*store.PlayerStats, error) {
	for _, row := range f.rows {
		if row.PlayerID == playerID && row.MatchID == matchID {
			copied := *row
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStatsStore) ListByMatch(_ context.Context, matchID string) ([]*store.PlayerStats, error) {
	var rows []*store.PlayerStats
	for _, row := range f.rows {
		if row.MatchID == matchID {
			copied := *row
			rows = append(rows, &copied)
		}
	}
	return rows, nil
}

func (f *fakeStatsStore) Delete(_ context.Context, statID string) error {
	if _, ok := f.rows[statID]; !ok {
		return store.ErrNotFound
	}
	delete(f.rows, statID)
	return nil
}

func (f *fakeStatsStore) PlayerGameLog(_ context.Context, playerID string) ([]*repository.PlayerGameRow, error) {
	var log []*repository.PlayerGameRow
	for _, row := range f.gameLog {
		if row.Stats.PlayerID == playerID {
			log = append(log, row)
		}
	}
	return log, nil
}

func (f *fakeStatsStore) LeagueAggregates(_ context.Context, _ string) ([]*repository.PlayerAggregate, error) {
	return f.aggs, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []MatchEvent
}

func (f *fakePublisher) PublishMatchEvent(_ context.Context, event MatchEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) published() []MatchEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]MatchEvent(nil), f.events...)
}

// fakeInvalidator counts rankings-cache invalidations.
type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) InvalidateRankings(context.Context) {
	f.calls++
}
