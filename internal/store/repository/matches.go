package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/courtside/courtstat/internal/store"
)

// MatchRepository handles match persistence.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new match repository.
func NewMatchRepository(database *store.Database) *MatchRepository {
	return &MatchRepository{db: database.DB()}
}

// MatchFilter narrows a match listing. Zero values are ignored.
type MatchFilter struct {
	League   string
	Status   string
	TeamID   string
	DateFrom time.Time
	DateTo   time.Time
	Limit    int
}

const matchColumns = `match_id, home_team_id, away_team_id, match_date, status,
	home_score, away_score, league, nba_game_id, access_code, sheet_url,
	created_at, updated_at`

func scanMatch(row rowScanner) (*store.Match, error) {
	var m store.Match
	err := row.Scan(
		&m.MatchID,
		&m.HomeTeamID,
		&m.AwayTeamID,
		&m.MatchDate,
		&m.Status,
		&m.HomeScore,
		&m.AwayScore,
		&m.League,
		&m.NBAGameID,
		&m.AccessCode,
		&m.SheetURL,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new match.
func (r *MatchRepository) Create(ctx context.Context, match *store.Match) error {
	query := `
		INSERT INTO matches (match_id, home_team_id, away_team_id, match_date, status,
			home_score, away_score, league, nba_game_id, access_code, sheet_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		match.MatchID, match.HomeTeamID, match.AwayTeamID, match.MatchDate,
		match.Status, match.HomeScore, match.AwayScore, match.League,
		match.NBAGameID, match.AccessCode, match.SheetURL,
	).Scan(&match.CreatedAt, &match.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

// Upsert inserts a match or refreshes the synced fields when the id exists.
func (r *MatchRepository) Upsert(ctx context.Context, match *store.Match) error {
	query := `
		INSERT INTO matches (match_id, home_team_id, away_team_id, match_date, status,
			home_score, away_score, league, nba_game_id, access_code, sheet_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (match_id) DO UPDATE SET
			match_date = EXCLUDED.match_date,
			status = EXCLUDED.status,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		match.MatchID, match.HomeTeamID, match.AwayTeamID, match.MatchDate,
		match.Status, match.HomeScore, match.AwayScore, match.League,
		match.NBAGameID, match.AccessCode, match.SheetURL,
	).Scan(&match.CreatedAt, &match.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}
	return nil
}

// GetByID fetches a single match.
func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (*store.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE match_id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, matchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return match, nil
}

// List returns matches ordered by date descending, newest first.
func (r *MatchRepository) List(ctx context.Context, filter MatchFilter) ([]*store.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE 1=1`
	args := []interface{}{}

	if filter.League != "" {
		args = append(args, filter.League)
		query += fmt.Sprintf(` AND league = $%d`, len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.TeamID != "" {
		args = append(args, filter.TeamID)
		query += fmt.Sprintf(` AND (home_team_id = $%d OR away_team_id = $%d)`, len(args), len(args))
	}
	if !filter.DateFrom.IsZero() {
		args = append(args, filter.DateFrom)
		query += fmt.Sprintf(` AND match_date >= $%d`, len(args))
	}
	if !filter.DateTo.IsZero() {
		args = append(args, filter.DateTo)
		query += fmt.Sprintf(` AND match_date <= $%d`, len(args))
	}
	query += ` ORDER BY match_date DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []*store.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// Update writes the mutable match fields.
func (r *MatchRepository) Update(ctx context.Context, match *store.Match) error {
	query := `
		UPDATE matches
		SET match_date = $2, status = $3, home_score = $4, away_score = $5,
			sheet_url = $6, updated_at = NOW()
		WHERE match_id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		match.MatchID, match.MatchDate, match.Status,
		match.HomeScore, match.AwayScore, match.SheetURL,
	).Scan(&match.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}
	return nil
}

// Delete removes a match. Its stat rows cascade at the schema level.
func (r *MatchRepository) Delete(ctx context.Context, matchID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE match_id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
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
