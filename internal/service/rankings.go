package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/courtside/courtstat/internal/store"
	"github.com/courtside/courtstat/internal/store/repository"
)

// Ranking categories.
const (
	CategoryPoints   = "points"
	CategoryRebounds = "rebounds"
	CategorySteals   = "steals"
	CategoryAssists  = "assists"
	CategoryBlocks   = "blocks"
	CategoryGlobal   = "global"

	// categoryGlobalAlias is accepted on input for callers that spell out
	// the composite column name.
	categoryGlobalAlias = "global_score"
)

var rankingCategories = map[string]bool{
	CategoryPoints:   true,
	CategoryRebounds: true,
	CategoryAssists:  true,
	CategorySteals:   true,
	CategoryBlocks:   true,
	CategoryGlobal:   true,
}

const (
	defaultRankingLimit = 10
	maxRankingLimit     = 100
	rankingsCachePrefix = "rankings:"
)

// RankingsCache stores serialized ranking results under a short TTL.
type RankingsCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	DeleteByPrefix(ctx context.Context, prefix string)
}

// RankingsService computes per-player season lines and category leaderboards.
type RankingsService struct {
	stats    StatsStore
	players  PlayerStore
	teams    TeamStore
	cache    RankingsCache
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewRankingsService creates a new rankings service. cache may be nil.
func NewRankingsService(
	stats StatsStore,
	players PlayerStore,
	teams TeamStore,
	cache RankingsCache,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) *RankingsService {
	return &RankingsService{
		stats:    stats,
		players:  players,
		teams:    teams,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// RankingEntry is one player's position in a category leaderboard: identity,
// season totals, per-game averages and the composite score.
type RankingEntry struct {
	Rank          int           `json:"rank"`
	Player        *store.Player `json:"player"`
	TeamName      string        `json:"team_name"`
	TeamLogo      *string       `json:"team_logo"`
	GamesPlayed   int           `json:"games_played"`
	TotalPoints   int           `json:"total_points"`
	TotalRebounds int           `json:"total_rebounds"`
	TotalAssists  int           `json:"total_assists"`
	TotalSteals   int           `json:"total_steals"`
	TotalBlocks   int           `json:"total_blocks"`
	AvgPoints     float64       `json:"avg_points"`
	AvgRebounds   float64       `json:"avg_rebounds"`
	AvgAssists    float64       `json:"avg_assists"`
	AvgSteals     float64       `json:"avg_steals"`
	AvgBlocks     float64       `json:"avg_blocks"`
	GlobalScore   float64       `json:"global_score"`
}

// RankingsResult is a leaderboard plus the parameters that produced it.
type RankingsResult struct {
	Category string          `json:"category"`
	League   string          `json:"league"`
	Limit    int             `json:"limit"`
	Total    int             `json:"total"`
	Rankings []*RankingEntry `json:"rankings"`
}

// Get returns the leaderboard for a category, serving from cache when a
// fresh copy exists.
func (s *RankingsService) Get(ctx context.Context, category, league string, limit int) (*RankingsResult, error) {
	if category == "" {
		category = CategoryPoints
	}
	if category == categoryGlobalAlias {
		category = CategoryGlobal
	}
	if !rankingCategories[category] {
		return nil, BadRequest("unknown ranking category %q", category)
	}
	league, err := normalizeLeagueFilter(league)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRankingLimit
	}
	if limit > maxRankingLimit {
		limit = maxRankingLimit
	}

	cacheKey := fmt.Sprintf("%s%s:%s:%d", rankingsCachePrefix, category, league, limit)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			var result RankingsResult
			if err := json.Unmarshal(cached, &result); err == nil {
				return &result, nil
			}
			s.logger.Warn().Str("key", cacheKey).Msg("discarding unreadable rankings cache entry")
		}
	}

	aggs, err := s.stats.LeagueAggregates(ctx, league)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	playerIDs := make([]string, 0, len(aggs))
	for _, a := range aggs {
		playerIDs = append(playerIDs, a.PlayerID)
	}
	players, err := s.players.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load ranked players: %w", err)
	}

	teamIDs := make([]string, 0, len(players))
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p.TeamID != nil && !seen[*p.TeamID] {
			seen[*p.TeamID] = true
			teamIDs = append(teamIDs, *p.TeamID)
		}
	}
	teams, err := s.teams.GetByIDs(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load ranked teams: %w", err)
	}

	result := &RankingsResult{
		Category: category,
		League:   league,
		Limit:    limit,
		Rankings: buildRankings(aggs, players, teams, category, limit),
	}
	result.Total = len(result.Rankings)

	if s.cache != nil {
		if payload, err := json.Marshal(result); err == nil {
			s.cache.Set(ctx, cacheKey, payload, s.cacheTTL)
		}
	}
	return result, nil
}

// InvalidateRankings drops every cached leaderboard. Called after any stat
// write.
func (s *RankingsService) InvalidateRankings(ctx context.Context) {
	if s.cache != nil {
		s.cache.DeleteByPrefix(ctx, rankingsCachePrefix)
	}
}

// buildRankings turns raw aggregates into a sorted, ranked leaderboard.
// Averages are rounded to one decimal before the composite score is
// computed, so displayed numbers always reproduce the score. An aggregate
// whose player row cannot be resolved keeps its slot with empty identity
// fields rather than shrinking the list.
func buildRankings(aggs []*repository.PlayerAggregate, players map[string]*store.Player, teams map[string]*store.Team, category string, limit int) []*RankingEntry {
	entries := make([]*RankingEntry, 0, len(aggs))
	for _, a := range aggs {
		player, ok := players[a.PlayerID]
		if !ok {
			player = &store.Player{PlayerID: a.PlayerID, League: store.LeagueLocal}
		}
		e := &RankingEntry{
			Player:        player,
			GamesPlayed:   a.GamesPlayed,
			TotalPoints:   a.TotalPoints,
			TotalRebounds: a.TotalRebounds,
			TotalAssists:  a.TotalAssists,
			TotalSteals:   a.TotalSteals,
			TotalBlocks:   a.TotalBlocks,
			AvgPoints:     round1(a.AvgPoints),
			AvgRebounds:   round1(a.AvgRebounds),
			AvgAssists:    round1(a.AvgAssists),
			AvgSteals:     round1(a.AvgSteals),
			AvgBlocks:     round1(a.AvgBlocks),
		}
		if player.TeamID != nil {
			if team, ok := teams[*player.TeamID]; ok {
				e.TeamName = team.Name
				e.TeamLogo = team.LogoURL
			}
		}
		e.GlobalScore = globalScore(e.AvgPoints, e.AvgRebounds, e.AvgAssists, e.AvgSteals, e.AvgBlocks)
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		vi, vj := categoryValue(entries[i], category), categoryValue(entries[j], category)
		if vi != vj {
			return vi > vj
		}
		return entries[i].Player.PlayerID < entries[j].Player.PlayerID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i, e := range entries {
		e.Rank = i + 1
	}
	return entries
}

func categoryValue(e *RankingEntry, category string) float64 {
	switch category {
	case CategoryRebounds:
		return e.AvgRebounds
	case CategoryAssists:
		return e.AvgAssists
	case CategorySteals:
		return e.AvgSteals
	case CategoryBlocks:
		return e.AvgBlocks
	case CategoryGlobal, categoryGlobalAlias:
		return e.GlobalScore
	default:
		return e.AvgPoints
	}
}

// globalScore weighs the five per-game averages against benchmark values
// of 30 points, 15 rebounds, 10 assists, 3 steals and 3 blocks, each worth
// 20 points of the composite.
func globalScore(pts, reb, ast, stl, blk float64) float64 {
	score := (pts/30)*20 + (reb/15)*20 + (ast/10)*20 + (stl/3)*20 + (blk/3)*20
	return round1(score)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
