package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/courtside/courtstat/internal/store"
)

// ReportService builds per-player performance reports.
type ReportService struct {
	stats   StatsStore
	players PlayerStore
	teams   TeamStore
}

// NewReportService creates a new report service.
func NewReportService(stats StatsStore, players PlayerStore, teams TeamStore) *ReportService {
	return &ReportService{stats: stats, players: players, teams: teams}
}

// ReportTotals sums a player's counting stats across their game log.
type ReportTotals struct {
	Points        int     `json:"points"`
	Rebounds      int     `json:"rebounds"`
	Assists       int     `json:"assists"`
	Steals        int     `json:"steals"`
	Blocks        int     `json:"blocks"`
	Turnovers     int     `json:"turnovers"`
	PersonalFouls int     `json:"personal_fouls"`
	Minutes       float64 `json:"minutes"`
}

// ReportAverages holds per-game averages rounded to one decimal, plus the
// composite score derived from them.
type ReportAverages struct {
	Points      float64 `json:"points"`
	Rebounds    float64 `json:"rebounds"`
	Assists     float64 `json:"assists"`
	Steals      float64 `json:"steals"`
	Blocks      float64 `json:"blocks"`
	GlobalScore float64 `json:"global_score"`
}

// ReportPercentages holds made/attempted totals and whole-number
// percentages. A percentage is 0 when nothing was attempted.
type ReportPercentages struct {
	FieldGoalsMade         int `json:"field_goals_made"`
	FieldGoalsAttempted    int `json:"field_goals_attempted"`
	FieldGoalPct           int `json:"field_goal_pct"`
	ThreePointersMade      int `json:"three_pointers_made"`
	ThreePointersAttempted int `json:"three_pointers_attempted"`
	ThreePointPct          int `json:"three_point_pct"`
	FreeThrowsMade         int `json:"free_throws_made"`
	FreeThrowsAttempted    int `json:"free_throws_attempted"`
	FreeThrowPct           int `json:"free_throw_pct"`
}

// ReportGame is one entry in the chronological points history.
type ReportGame struct {
	MatchID     string    `json:"match_id"`
	Date        time.Time `json:"date"`
	MatchStatus string    `json:"match_status"`
	Points      int       `json:"points"`
	Rebounds    int       `json:"rebounds"`
	Assists     int       `json:"assists"`
	Rating      int       `json:"rating"`
}

// ReportSummary groups the season-wide numbers for one player.
type ReportSummary struct {
	GamesPlayed int               `json:"games_played"`
	Totals      ReportTotals      `json:"totals"`
	Averages    ReportAverages    `json:"averages"`
	Percentages ReportPercentages `json:"percentages"`
}

// PlayerReport is the full performance report for one player.
type PlayerReport struct {
	Player  *store.Player `json:"player"`
	Team    *store.Team   `json:"team"`
	Summary ReportSummary `json:"summary"`
	History []ReportGame  `json:"history"`
}

// PlayerReport builds the report from the player's in-progress and
// completed matches, oldest game first.
func (s *ReportService) PlayerReport(ctx context.Context, playerID string) (*PlayerReport, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("player %s not found", playerID)
	}
	if err != nil {
		return nil, err
	}

	var team *store.Team
	if player.TeamID != nil {
		team, err = s.teams.GetByID(ctx, *player.TeamID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	log, err := s.stats.PlayerGameLog(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game log: %w", err)
	}

	report := &PlayerReport{
		Player:  player,
		Team:    team,
		History: make([]ReportGame, 0, len(log)),
	}
	sum := &report.Summary
	sum.GamesPlayed = len(log)

	for _, row := range log {
		st := &row.Stats
		sum.Totals.Points += st.Points
		sum.Totals.Rebounds += st.TotalRebounds()
		sum.Totals.Assists += st.Assists
		sum.Totals.Steals += st.Steals
		sum.Totals.Blocks += st.Blocks
		sum.Totals.Turnovers += st.Turnovers
		sum.Totals.PersonalFouls += st.PersonalFouls
		sum.Totals.Minutes += st.MinutesPlayed

		sum.Percentages.FieldGoalsMade += st.FieldGoalsMade
		sum.Percentages.FieldGoalsAttempted += st.FieldGoalsAttempted
		sum.Percentages.ThreePointersMade += st.ThreePointersMade
		sum.Percentages.ThreePointersAttempted += st.ThreePointersAttempted
		sum.Percentages.FreeThrowsMade += st.FreeThrowsMade
		sum.Percentages.FreeThrowsAttempted += st.FreeThrowsAttempted

		report.History = append(report.History, ReportGame{
			MatchID:     row.Match.MatchID,
			Date:        row.Match.MatchDate,
			MatchStatus: row.Match.Status,
			Points:      st.Points,
			Rebounds:    st.TotalRebounds(),
			Assists:     st.Assists,
			Rating:      st.Rating(),
		})
	}

	if n := float64(sum.GamesPlayed); n > 0 {
		sum.Averages.Points = round1(float64(sum.Totals.Points) / n)
		sum.Averages.Rebounds = round1(float64(sum.Totals.Rebounds) / n)
		sum.Averages.Assists = round1(float64(sum.Totals.Assists) / n)
		sum.Averages.Steals = round1(float64(sum.Totals.Steals) / n)
		sum.Averages.Blocks = round1(float64(sum.Totals.Blocks) / n)
		sum.Averages.GlobalScore = globalScore(
			sum.Averages.Points, sum.Averages.Rebounds, sum.Averages.Assists,
			sum.Averages.Steals, sum.Averages.Blocks,
		)
	}

	sum.Percentages.FieldGoalPct = shootingPct(sum.Percentages.FieldGoalsMade, sum.Percentages.FieldGoalsAttempted)
	sum.Percentages.ThreePointPct = shootingPct(sum.Percentages.ThreePointersMade, sum.Percentages.ThreePointersAttempted)
	sum.Percentages.FreeThrowPct = shootingPct(sum.Percentages.FreeThrowsMade, sum.Percentages.FreeThrowsAttempted)

	return report, nil
}

// shootingPct is the whole-number percentage of made over attempted,
// 0 when nothing was attempted.
func shootingPct(made, attempted int) int {
	if attempted == 0 {
		return 0
	}
	return int(math.Round(100 * float64(made) / float64(attempted)))
}
