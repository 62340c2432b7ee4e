package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/courtside/courtstat/internal/store"
)

// TeamRepository handles team persistence.
type TeamRepository struct {
	db *sql.DB
}

// NewTeamRepository creates a new team repository.
func NewTeamRepository(database *store.Database) *TeamRepository {
	return &TeamRepository{db: database.DB()}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTeam(row rowScanner) (*store.Team, error) {
	var t store.Team
	err := row.Scan(
		&t.TeamID,
		&t.Name,
		&t.LogoURL,
		&t.League,
		&t.NBATeamID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const teamColumns = `team_id, name, logo_url, league, nba_team_id, created_at, updated_at`

// Create inserts a new team.
func (r *TeamRepository) Create(ctx context.Context, team *store.Team) error {
	query := `
		INSERT INTO teams (team_id, name, logo_url, league, nba_team_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		team.TeamID, team.Name, team.LogoURL, team.League, team.NBATeamID,
	).Scan(&team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

// Upsert inserts a team or updates it in place when the id already exists.
// Synced teams carry deterministic ids, so re-running a sync is idempotent.
func (r *TeamRepository) Upsert(ctx context.Context, team *store.Team) error {
	query := `
		INSERT INTO teams (team_id, name, logo_url, league, nba_team_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (team_id) DO UPDATE SET
			name = EXCLUDED.name,
			logo_url = EXCLUDED.logo_url,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		team.TeamID, team.Name, team.LogoURL, team.League, team.NBATeamID,
	).Scan(&team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}
	return nil
}

// GetByID fetches a single team.
func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (*store.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE team_id = $1`

	team, err := scanTeam(r.db.QueryRowContext(ctx, query, teamID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// List returns teams ordered by name, optionally filtered by league.
// An empty league returns every team.
func (r *TeamRepository) List(ctx context.Context, league string) ([]*store.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams`
	args := []interface{}{}
	if league != "" {
		query += ` WHERE league = $1`
		args = append(args, league)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*store.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// GetByIDs fetches several teams in one round trip, keyed by id.
func (r *TeamRepository) GetByIDs(ctx context.Context, teamIDs []string) (map[string]*store.Team, error) {
	result := make(map[string]*store.Team, len(teamIDs))
	if len(teamIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + teamColumns + ` FROM teams WHERE team_id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(teamIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get teams by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		result[team.TeamID] = team
	}
	return result, rows.Err()
}

// Update writes the mutable team fields.
func (r *TeamRepository) Update(ctx context.Context, team *store.Team) error {
	query := `
		UPDATE teams
		SET name = $2, logo_url = $3, updated_at = NOW()
		WHERE team_id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, team.TeamID, team.Name, team.LogoURL).Scan(&team.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}
	return nil
}

// Delete removes a team.
func (r *TeamRepository) Delete(ctx context.Context, teamID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE team_id = $1`, teamID)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
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
