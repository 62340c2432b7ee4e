package service

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/courtstat/internal/store"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestMatchStatsInputApplyIsPartial(t *testing.T) {
	row := store.PlayerStats{
		Points:        12,
		Assists:       4,
		MinutesPlayed: 20.5,
	}

	input := MatchStatsInput{
		Points:            intPtr(15),
		DefensiveRebounds: intPtr(6),
	}
	input.apply(&row)

	assert.Equal(t, 15, row.Points)
	assert.Equal(t, 6, row.DefensiveRebounds)
	// Untouched fields keep their values.
	assert.Equal(t, 4, row.Assists)
	assert.Equal(t, 20.5, row.MinutesPlayed)
}

func TestMatchStatsInputApplyAllFields(t *testing.T) {
	var row store.PlayerStats
	input := MatchStatsInput{
		Points:                 intPtr(30),
		OffensiveRebounds:      intPtr(2),
		DefensiveRebounds:      intPtr(8),
		Assists:                intPtr(7),
		Steals:                 intPtr(3),
		Blocks:                 intPtr(1),
		Turnovers:              intPtr(2),
		PersonalFouls:          intPtr(4),
		MinutesPlayed:          floatPtr(36.5),
		FieldGoalsMade:         intPtr(11),
		FieldGoalsAttempted:    intPtr(20),
		ThreePointersMade:      intPtr(4),
		ThreePointersAttempted: intPtr(9),
		FreeThrowsMade:         intPtr(4),
		FreeThrowsAttempted:    intPtr(5),
	}
	input.apply(&row)

	assert.Equal(t, 30, row.Points)
	assert.Equal(t, 10, row.TotalRebounds())
	assert.Equal(t, 36.5, row.MinutesPlayed)
	assert.Equal(t, 20, row.FieldGoalsAttempted)
}

func TestStatsInputValidationRejectsNegatives(t *testing.T) {
	input := MatchStatsInput{Points: intPtr(-3)}
	err := validateInput(input)
	assert.Error(t, err)
	assert.Equal(t, 400, err.Status)
}

func TestStatsInputValidationRejectsUnknownAction(t *testing.T) {
	input := MatchStatsInput{Action: "decrement"}
	err := validateInput(input)
	assert.Error(t, err)
}

type statsFixture struct {
	svc         *StatsService
	stats       *fakeStatsStore
	pub         *fakePublisher
	invalidator *fakeInvalidator
}

// newStatsFixture wires a stats service over an in-progress local match
// ("m1") with one rostered home player ("p-home"), plus an off-roster
// player ("p-free"), an nba match ("m-nba") and a completed match
// ("m-done").
func newStatsFixture() *statsFixture {
	homeID, awayID := "t-home", "t-away"
	players := newFakePlayerStore(
		&store.Player{PlayerID: "p-home", FirstName: "Ava", LastName: "Sloan", TeamID: &homeID, League: store.LeagueLocal},
		&store.Player{PlayerID: "p-free", FirstName: "Noor", LastName: "Haddad", League: store.LeagueLocal},
	)
	matches := newFakeMatchStore(
		&store.Match{MatchID: "m1", HomeTeamID: homeID, AwayTeamID: awayID, Status: store.StatusInProgress, League: store.LeagueLocal},
		&store.Match{MatchID: "m-nba", HomeTeamID: homeID, AwayTeamID: awayID, Status: store.StatusInProgress, League: store.LeagueNBA},
		&store.Match{MatchID: "m-done", HomeTeamID: homeID, AwayTeamID: awayID, Status: store.StatusCompleted, League: store.LeagueLocal},
	)

	f := &statsFixture{
		stats:       newFakeStatsStore(),
		pub:         &fakePublisher{},
		invalidator: &fakeInvalidator{},
	}
	f.svc = NewStatsService(f.stats, matches, players, clockwork.NewFakeClock(), f.invalidator, f.pub)
	return f
}

func TestRecordForMatchGuards(t *testing.T) {
	tests := []struct {
		name       string
		matchID    string
		playerID   string
		wantStatus int
	}{
		{name: "unknown match", matchID: "m-missing", playerID: "p-home", wantStatus: 404},
		{name: "synced match is read-only", matchID: "m-nba", playerID: "p-home", wantStatus: 403},
		{name: "completed match is immutable", matchID: "m-done", playerID: "p-home", wantStatus: 400},
		{name: "unknown player", matchID: "m1", playerID: "p-missing", wantStatus: 404},
		{name: "player on neither roster", matchID: "m1", playerID: "p-free", wantStatus: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStatsFixture()

			_, err := f.svc.RecordForMatch(context.Background(), tt.matchID, MatchStatsInput{
				PlayerID: tt.playerID,
				Points:   intPtr(12),
			})
			var serr *Error
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.wantStatus, serr.Status)
			assert.Empty(t, f.pub.published())
			assert.Zero(t, f.invalidator.calls)
		})
	}
}

func TestRecordForMatchUpsertRoundTrip(t *testing.T) {
	f := newStatsFixture()
	ctx := context.Background()

	line, err := f.svc.RecordForMatch(ctx, "m1", MatchStatsInput{
		PlayerID:            "p-home",
		Points:              intPtr(21),
		DefensiveRebounds:   intPtr(5),
		Assists:             intPtr(4),
		FieldGoalsMade:      intPtr(8),
		FieldGoalsAttempted: intPtr(15),
	})
	require.NoError(t, err)
	assert.Equal(t, 21, line.Points)
	assert.Equal(t, 5, line.TotalRebounds)
	// 21+5+4 positive, 7 missed field goals against.
	assert.Equal(t, 23, line.Rating)
	require.NotNil(t, line.Player)
	assert.Equal(t, "p-home", line.Player.PlayerID)

	// A second write for the same (player, match) pair lands on the same row.
	again, err := f.svc.RecordForMatch(ctx, "m1", MatchStatsInput{
		PlayerID: "p-home",
		Points:   intPtr(25),
	})
	require.NoError(t, err)
	assert.Equal(t, line.StatID, again.StatID)
	assert.Equal(t, 25, again.Points)
	assert.Equal(t, 5, again.TotalRebounds, "untouched fields survive the partial update")

	events := f.pub.published()
	require.Len(t, events, 2)
	assert.Equal(t, EventStatUpdate, events[0].Type)
	assert.Equal(t, 2, f.invalidator.calls)
}

func TestRecordForMatchIncrementClampsAtZero(t *testing.T) {
	f := newStatsFixture()
	ctx := context.Background()

	line, err := f.svc.RecordForMatch(ctx, "m1", MatchStatsInput{
		Action:   ActionIncrement,
		PlayerID: "p-home",
		Stat:     "points",
		Value:    floatPtr(-5),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, line.Points, "a correction can never push a counter negative")

	line, err = f.svc.RecordForMatch(ctx, "m1", MatchStatsInput{
		Action:   ActionIncrement,
		PlayerID: "p-home",
		Stat:     "points",
		Value:    floatPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, line.Points)
}

func TestShootingPct(t *testing.T) {
	assert.Equal(t, 0, shootingPct(0, 0))
	assert.Equal(t, 50, shootingPct(5, 10))
	assert.Equal(t, 33, shootingPct(1, 3))
	assert.Equal(t, 67, shootingPct(2, 3))
	assert.Equal(t, 100, shootingPct(7, 7))
}
