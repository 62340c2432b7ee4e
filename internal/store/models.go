package store

import (
	"time"
)

// League tags. Entities tagged "nba" are owned by the external sync
// process and are read-only to local editing endpoints.
const (
	LeagueLocal = "local"
	LeagueNBA   = "nba"
)

// Match lifecycle states.
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is one of the three match lifecycle states.
func ValidStatus(s string) bool {
	return s == StatusScheduled || s == StatusInProgress || s == StatusCompleted
}

// Positions recognized for players.
var Positions = []string{"PG", "SG", "SF", "PF", "C"}

// ValidPosition reports whether p is a recognized position code.
func ValidPosition(p string) bool {
	for _, v := range Positions {
		if p == v {
			return true
		}
	}
	return false
}

// Team represents a basketball team, either locally managed or synced
// from the NBA API.
type Team struct {
	TeamID    string    `json:"id" db:"team_id"`
	Name      string    `json:"name" db:"name"`
	LogoURL   *string   `json:"logo_url" db:"logo_url"`
	League    string    `json:"league" db:"league"`
	NBATeamID *int      `json:"nba_team_id,omitempty" db:"nba_team_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Player belongs to at most one team at a time.
type Player struct {
	PlayerID     string    `json:"id" db:"player_id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	JerseyNumber *int      `json:"jersey_number" db:"jersey_number"`
	Position     *string   `json:"position" db:"position"`
	TeamID       *string   `json:"team_id" db:"team_id"`
	PhotoURL     *string   `json:"photo_url" db:"photo_url"`
	League       string    `json:"league" db:"league"`
	Age          *int      `json:"age" db:"age"`
	NBAPlayerID  *int      `json:"nba_player_id,omitempty" db:"nba_player_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Match is a single game between two teams.
type Match struct {
	MatchID    string    `json:"id" db:"match_id"`
	HomeTeamID string    `json:"home_team_id" db:"home_team_id"`
	AwayTeamID string    `json:"away_team_id" db:"away_team_id"`
	MatchDate  time.Time `json:"match_date" db:"match_date"`
	Status     string    `json:"status" db:"status"`
	HomeScore  int       `json:"home_score" db:"home_score"`
	AwayScore  int       `json:"away_score" db:"away_score"`
	League     string    `json:"league" db:"league"`
	NBAGameID  *int      `json:"nba_game_id,omitempty" db:"nba_game_id"`
	AccessCode *string   `json:"-" db:"access_code"`
	SheetURL   *string   `json:"sheet_url,omitempty" db:"sheet_url"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// PlayerStats is the box-score row for one player in one match.
// At most one row exists per (player, match) pair.
type PlayerStats struct {
	StatID                 string    `json:"id" db:"stat_id"`
	PlayerID               string    `json:"player_id" db:"player_id"`
	MatchID                string    `json:"match_id" db:"match_id"`
	Points                 int       `json:"points" db:"points"`
	OffensiveRebounds      int       `json:"offensive_rebounds" db:"offensive_rebounds"`
	DefensiveRebounds      int       `json:"defensive_rebounds" db:"defensive_rebounds"`
	Assists                int       `json:"assists" db:"assists"`
	Steals                 int       `json:"steals" db:"steals"`
	Blocks                 int       `json:"blocks" db:"blocks"`
	Turnovers              int       `json:"turnovers" db:"turnovers"`
	PersonalFouls          int       `json:"personal_fouls" db:"personal_fouls"`
	MinutesPlayed          float64   `json:"minutes_played" db:"minutes_played"`
	FieldGoalsMade         int       `json:"field_goals_made" db:"field_goals_made"`
	FieldGoalsAttempted    int       `json:"field_goals_attempted" db:"field_goals_attempted"`
	ThreePointersMade      int       `json:"three_pointers_made" db:"three_pointers_made"`
	ThreePointersAttempted int       `json:"three_pointers_attempted" db:"three_pointers_attempted"`
	FreeThrowsMade         int       `json:"free_throws_made" db:"free_throws_made"`
	FreeThrowsAttempted    int       `json:"free_throws_attempted" db:"free_throws_attempted"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}

// TotalRebounds is derived, never stored.
func (s *PlayerStats) TotalRebounds() int {
	return s.OffensiveRebounds + s.DefensiveRebounds
}

// Rating is the additive efficiency score for one box-score row:
// positive contributions minus missed shots, turnovers and fouls.
func (s *PlayerStats) Rating() int {
	missedFG := s.FieldGoalsAttempted - s.FieldGoalsMade
	missed3P := s.ThreePointersAttempted - s.ThreePointersMade
	missedFT := s.FreeThrowsAttempted - s.FreeThrowsMade

	return (s.Points + s.TotalRebounds() + s.Assists + s.Steals + s.Blocks) -
		(missedFG + missed3P + missedFT + s.Turnovers + s.PersonalFouls)
}

// User is an operator account for the dashboard.
type User struct {
	UserID       string    `json:"id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
