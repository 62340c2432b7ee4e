package service

import (
	"fmt"

	"github.com/google/uuid"
)

// Locally created rows get a random id; synced rows get a deterministic one
// derived from the external id so re-syncing upserts in place.

func newLocalID(kind string) string {
	return fmt.Sprintf("local-%s-%s", kind, uuid.NewString())
}

// NBATeamID builds the deterministic id for a synced team.
func NBATeamID(externalID int) string {
	return fmt.Sprintf("nba-team-%d", externalID)
}

// NBAPlayerID builds the deterministic id for a synced player.
func NBAPlayerID(externalID int) string {
	return fmt.Sprintf("nba-player-%d", externalID)
}

// NBAGameID builds the deterministic id for a synced match.
func NBAGameID(externalID int) string {
	return fmt.Sprintf("nba-game-%d", externalID)
}

// NBAStatID builds the deterministic id for a synced stat row.
func NBAStatID(gameID, playerID int) string {
	return fmt.Sprintf("nba-stat-%d-%d", gameID, playerID)
}
