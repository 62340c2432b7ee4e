package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/courtside/courtstat/internal/store"
)

// PlayerRepository handles player persistence.
type PlayerRepository struct {
	db *sql.DB
}

// NewPlayerRepository creates a new player repository.
func NewPlayerRepository(database *store.Database) *PlayerRepository {
	return &PlayerRepository{db: database.DB()}
}

const playerColumns = `player_id, first_name, last_name, jersey_number, position, team_id,
	photo_url, league, age, nba_player_id, created_at, updated_at`

func scanPlayer(row rowScanner) (*store.Player, error) {
	var p store.Player
	err := row.Scan(
		&p.PlayerID,
		&p.FirstName,
		&p.LastName,
		&p.JerseyNumber,
		&p.Position,
		&p.TeamID,
		&p.PhotoURL,
		&p.League,
		&p.Age,
		&p.NBAPlayerID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new player.
func (r *PlayerRepository) Create(ctx context.Context, player *store.Player) error {
	query := `
		INSERT INTO players (player_id, first_name, last_name, jersey_number, position,
			team_id, photo_url, league, age, nba_player_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		player.PlayerID, player.FirstName, player.LastName, player.JerseyNumber,
		player.Position, player.TeamID, player.PhotoURL, player.League,
		player.Age, player.NBAPlayerID,
	).Scan(&player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// Upsert inserts a player or refreshes the synced fields when the id exists.
func (r *PlayerRepository) Upsert(ctx context.Context, player *store.Player) error {
	query := `
		INSERT INTO players (player_id, first_name, last_name, jersey_number, position,
			team_id, photo_url, league, age, nba_player_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (player_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			jersey_number = EXCLUDED.jersey_number,
			position = EXCLUDED.position,
			team_id = EXCLUDED.team_id,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		player.PlayerID, player.FirstName, player.LastName, player.JerseyNumber,
		player.Position, player.TeamID, player.PhotoURL, player.League,
		player.Age, player.NBAPlayerID,
	).Scan(&player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

// GetByID fetches a single player.
func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (*store.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE player_id = $1`

	player, err := scanPlayer(r.db.QueryRowContext(ctx, query, playerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// GetByIDs fetches several players in one round trip, keyed by id.
func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) (map[string]*store.Player, error) {
	result := make(map[string]*store.Player, len(playerIDs))
	if len(playerIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + playerColumns + ` FROM players WHERE player_id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(playerIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get players by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		result[player.PlayerID] = player
	}
	return result, rows.Err()
}

// List returns players ordered by last name then first name. Empty filter
// values are ignored.
func (r *PlayerRepository) List(ctx context.Context, league, teamID string) ([]*store.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE 1=1`
	args := []interface{}{}

	if league != "" {
		args = append(args, league)
		query += fmt.Sprintf(` AND league = $%d`, len(args))
	}
	if teamID != "" {
		args = append(args, teamID)
		query += fmt.Sprintf(` AND team_id = $%d`, len(args))
	}
	query += ` ORDER BY last_name ASC, first_name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*store.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

// Update writes the mutable player fields.
func (r *PlayerRepository) Update(ctx context.Context, player *store.Player) error {
	query := `
		UPDATE players
		SET first_name = $2, last_name = $3, jersey_number = $4, position = $5,
			team_id = $6, photo_url = $7, age = $8, updated_at = NOW()
		WHERE player_id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		player.PlayerID, player.FirstName, player.LastName, player.JerseyNumber,
		player.Position, player.TeamID, player.PhotoURL, player.Age,
	).Scan(&player.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	return nil
}

// Delete removes a player.
func (r *PlayerRepository) Delete(ctx context.Context, playerID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE player_id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
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
