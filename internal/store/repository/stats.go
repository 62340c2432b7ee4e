package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/courtstat/internal/store"
)

// StatsRepository handles box-score persistence.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(database *store.Database) *StatsRepository {
	return &StatsRepository{db: database.DB()}
}

const statColumns = `stat_id, player_id, match_id, points, offensive_rebounds,
	defensive_rebounds, assists, steals, blocks, turnovers, personal_fouls,
	minutes_played, field_goals_made, field_goals_attempted, three_pointers_made,
	three_pointers_attempted, free_throws_made, free_throws_attempted,
	created_at, updated_at`

func scanStats(row rowScanner) (*store.PlayerStats, error) {
	var s store.PlayerStats
	err := row.Scan(
		&s.StatID,
		&s.PlayerID,
		&s.MatchID,
		&s.Points,
		&s.OffensiveRebounds,
		&s.DefensiveRebounds,
		&s.Assists,
		&s.Steals,
		&s.Blocks,
		&s.Turnovers,
		&s.PersonalFouls,
		&s.MinutesPlayed,
		&s.FieldGoalsMade,
		&s.FieldGoalsAttempted,
		&s.ThreePointersMade,
		&s.ThreePointersAttempted,
		&s.FreeThrowsMade,
		&s.FreeThrowsAttempted,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert writes a full box-score row, keyed by (player, match).
func (r *StatsRepository) Upsert(ctx context.Context, s *store.PlayerStats) error {
	query := `
		INSERT INTO player_stats (stat_id, player_id, match_id, points,
			offensive_rebounds, defensive_rebounds, assists, steals, blocks,
			turnovers, personal_fouls, minutes_played, field_goals_made,
			field_goals_attempted, three_pointers_made, three_pointers_attempted,
			free_throws_made, free_throws_attempted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (player_id, match_id) DO UPDATE SET
			points = EXCLUDED.points,
			offensive_rebounds = EXCLUDED.offensive_rebounds,
			defensive_rebounds = EXCLUDED.defensive_rebounds,
			assists = EXCLUDED.assists,
			steals = EXCLUDED.steals,
			blocks = EXCLUDED.blocks,
			turnovers = EXCLUDED.turnovers,
			personal_fouls = EXCLUDED.personal_fouls,
			minutes_played = EXCLUDED.minutes_played,
			field_goals_made = EXCLUDED.field_goals_made,
			field_goals_attempted = EXCLUDED.field_goals_attempted,
			three_pointers_made = EXCLUDED.three_pointers_made,
			three_pointers_attempted = EXCLUDED.three_pointers_attempted,
			free_throws_made = EXCLUDED.free_throws_made,
			free_throws_attempted = EXCLUDED.free_throws_attempted,
			updated_at = NOW()
		RETURNING stat_id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		s.StatID, s.PlayerID, s.MatchID, s.Points,
		s.OffensiveRebounds, s.DefensiveRebounds, s.Assists, s.Steals, s.Blocks,
		s.Turnovers, s.PersonalFouls, s.MinutesPlayed, s.FieldGoalsMade,
		s.FieldGoalsAttempted, s.ThreePointersMade, s.ThreePointersAttempted,
		s.FreeThrowsMade, s.FreeThrowsAttempted,
	).Scan(&s.StatID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert player stats: %w", err)
	}
	return nil
}

// incrementColumns whitelists the stat names accepted by IncrementField.
var incrementColumns = map[string]string{
	"points":                   "points",
	"offensive_rebounds":       "offensive_rebounds",
	"defensive_rebounds":       "defensive_rebounds",
	"assists":                  "assists",
	"steals":                   "steals",
	"blocks":                   "blocks",
	"turnovers":                "turnovers",
	"personal_fouls":           "personal_fouls",
	"minutes_played":           "minutes_played",
	"field_goals_made":         "field_goals_made",
	"field_goals_attempted":    "field_goals_attempted",
	"three_pointers_made":      "three_pointers_made",
	"three_pointers_attempted": "three_pointers_attempted",
	"free_throws_made":         "free_throws_made",
	"free_throws_attempted":    "free_throws_attempted",
}

// IncrementableStat reports whether stat names a column IncrementField accepts.
func IncrementableStat(stat string) bool {
	_, ok := incrementColumns[stat]
	return ok
}

// IncrementField adds delta to a single stat column, clamping at zero so a
// correction can never push a counter negative. Returns the updated row.
func (r *StatsRepository) IncrementField(ctx context.Context, statID, stat string, delta float64) (*store.PlayerStats, error) {
	column, ok := incrementColumns[stat]
	if !ok {
		return nil, fmt.Errorf("unknown stat field %q", stat)
	}

	query := fmt.Sprintf(`
		UPDATE player_stats
		SET %s = GREATEST(0, %s + $2), updated_at = NOW()
		WHERE stat_id = $1
		RETURNING `+statColumns, column, column)

	s, err := scanStats(r.db.QueryRowContext(ctx, query, statID, delta))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to increment %s: %w", column, err)
	}
	return s, nil
}

// GetByID fetches a single stat row.
func (r *StatsRepository) GetByID(ctx context.Context, statID string) (*store.PlayerStats, error) {
	query := `SELECT ` + statColumns + ` FROM player_stats WHERE stat_id = $1`

	s, err := scanStats(r.db.QueryRowContext(ctx, query, statID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}
	return s, nil
}

// GetByPlayerAndMatch fetches the unique row for a (player, match) pair.
func (r *StatsRepository) GetByPlayerAndMatch(ctx context.Context, playerID, matchID string) (*store.PlayerStats, error) {
	query := `SELECT ` + statColumns + ` FROM player_stats WHERE player_id = $1 AND match_id = $2`

	s, err := scanStats(r.db.QueryRowContext(ctx, query, playerID, matchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}
	return s, nil
}

// ListByMatch returns every stat row for a match, best scorers first.
func (r *StatsRepository) ListByMatch(ctx context.Context, matchID string) ([]*store.PlayerStats, error) {
	query := `SELECT ` + statColumns + ` FROM player_stats WHERE match_id = $1 ORDER BY points DESC, player_id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list match stats: %w", err)
	}
	defer rows.Close()

	var stats []*store.PlayerStats
	for rows.Next() {
		s, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Delete removes a stat row.
func (r *StatsRepository) Delete(ctx context.Context, statID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM player_stats WHERE stat_id = $1`, statID)
	if err != nil {
		return fmt.Errorf("failed to delete player stats: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// PlayerGameRow is one stat row joined with its match, for reports.
type PlayerGameRow struct {
	Stats store.PlayerStats
	Match store.Match
}

// PlayerGameLog returns a player's stat rows for in-progress and completed
// matches, oldest first.
func (r *StatsRepository) PlayerGameLog(ctx context.Context, playerID string) ([]*PlayerGameRow, error) {
	query := `
		SELECT s.stat_id, s.player_id, s.match_id, s.points, s.offensive_rebounds,
			s.defensive_rebounds, s.assists, s.steals, s.blocks, s.turnovers,
			s.personal_fouls, s.minutes_played, s.field_goals_made,
			s.field_goals_attempted, s.three_pointers_made, s.three_pointers_attempted,
			s.free_throws_made, s.free_throws_attempted, s.created_at, s.updated_at,
			m.match_id, m.home_team_id, m.away_team_id, m.match_date, m.status,
			m.home_score, m.away_score, m.league, m.nba_game_id, m.access_code,
			m.sheet_url, m.created_at, m.updated_at
		FROM player_stats s
		JOIN matches m ON m.match_id = s.match_id
		WHERE s.player_id = $1 AND m.status IN ('in_progress', 'completed')
		ORDER BY m.match_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player game log: %w", err)
	}
	defer rows.Close()

	var log []*PlayerGameRow
	for rows.Next() {
		var row PlayerGameRow
		s := &row.Stats
		m := &row.Match
		err := rows.Scan(
			&s.StatID, &s.PlayerID, &s.MatchID, &s.Points, &s.OffensiveRebounds,
			&s.DefensiveRebounds, &s.Assists, &s.Steals, &s.Blocks, &s.Turnovers,
			&s.PersonalFouls, &s.MinutesPlayed, &s.FieldGoalsMade,
			&s.FieldGoalsAttempted, &s.ThreePointersMade, &s.ThreePointersAttempted,
			&s.FreeThrowsMade, &s.FreeThrowsAttempted, &s.CreatedAt, &s.UpdatedAt,
			&m.MatchID, &m.HomeTeamID, &m.AwayTeamID, &m.MatchDate, &m.Status,
			&m.HomeScore, &m.AwayScore, &m.League, &m.NBAGameID, &m.AccessCode,
			&m.SheetURL, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game log row: %w", err)
		}
		log = append(log, &row)
	}
	return log, rows.Err()
}

// PlayerAggregate is one player's season totals and per-game averages across
// all recorded rows.
type PlayerAggregate struct {
	PlayerID      string
	GamesPlayed   int
	TotalPoints   int
	TotalRebounds int
	TotalAssists  int
	TotalSteals   int
	TotalBlocks   int
	AvgPoints     float64
	AvgRebounds   float64
	AvgAssists    float64
	AvgSteals     float64
	AvgBlocks     float64
}

// LeagueAggregates computes per-player totals and averages in a single
// grouped query. An empty league aggregates across every player.
func (r *StatsRepository) LeagueAggregates(ctx context.Context, league string) ([]*PlayerAggregate, error) {
	query := `
		SELECT s.player_id,
			COUNT(*) AS games_played,
			COALESCE(SUM(s.points), 0) AS total_points,
			COALESCE(SUM(s.offensive_rebounds + s.defensive_rebounds), 0) AS total_rebounds,
			COALESCE(SUM(s.assists), 0) AS total_assists,
			COALESCE(SUM(s.steals), 0) AS total_steals,
			COALESCE(SUM(s.blocks), 0) AS total_blocks,
			AVG(s.points) AS avg_points,
			AVG(s.offensive_rebounds + s.defensive_rebounds) AS avg_rebounds,
			AVG(s.assists) AS avg_assists,
			AVG(s.steals) AS avg_steals,
			AVG(s.blocks) AS avg_blocks
		FROM player_stats s
	`
	args := []interface{}{}
	if league != "" {
		query += ` JOIN players p ON p.player_id = s.player_id WHERE p.league = $1`
		args = append(args, league)
	}
	query += ` GROUP BY s.player_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate player stats: %w", err)
	}
	defer rows.Close()

	var aggs []*PlayerAggregate
	for rows.Next() {
		var a PlayerAggregate
		err := rows.Scan(
			&a.PlayerID, &a.GamesPlayed,
			&a.TotalPoints, &a.TotalRebounds, &a.TotalAssists, &a.TotalSteals, &a.TotalBlocks,
			&a.AvgPoints, &a.AvgRebounds, &a.AvgAssists, &a.AvgSteals, &a.AvgBlocks,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		aggs = append(aggs, &a)
	}
	return aggs, rows.Err()
}
