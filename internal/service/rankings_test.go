package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/courtstat/internal/store"
	"github.com/courtside/courtstat/internal/store/repository"
)

func testAggregates() ([]*repository.PlayerAggregate, map[string]*store.Player, map[string]*store.Team) {
	aggs := []*repository.PlayerAggregate{
		{PlayerID: "p1", GamesPlayed: 3, TotalPoints: 75, TotalRebounds: 24, TotalAssists: 18, TotalSteals: 5, TotalBlocks: 2, AvgPoints: 25.04, AvgRebounds: 8.0, AvgAssists: 6.0, AvgSteals: 1.5, AvgBlocks: 0.5},
		{PlayerID: "p2", GamesPlayed: 2, TotalPoints: 37, TotalRebounds: 24, TotalAssists: 4, TotalSteals: 1, TotalBlocks: 4, AvgPoints: 18.36, AvgRebounds: 12.0, AvgAssists: 2.0, AvgSteals: 0.5, AvgBlocks: 2.0},
		{PlayerID: "p3", GamesPlayed: 4, TotalPoints: 100, TotalRebounds: 20, TotalAssists: 36, TotalSteals: 8, TotalBlocks: 0, AvgPoints: 25.0, AvgRebounds: 5.0, AvgAssists: 9.0, AvgSteals: 2.0, AvgBlocks: 0.0},
	}
	teamID := "t1"
	teams := map[string]*store.Team{
		teamID: {TeamID: teamID, Name: "Hawks", League: store.LeagueLocal},
	}
	players := make(map[string]*store.Player)
	for _, a := range aggs {
		players[a.PlayerID] = &store.Player{PlayerID: a.PlayerID, LastName: a.PlayerID, TeamID: &teamID}
	}
	return aggs, players, teams
}

func TestBuildRankingsSortsByCategory(t *testing.T) {
	aggs, players, teams := testAggregates()

	entries := buildRankings(aggs, players, teams, CategoryRebounds, 10)
	require.Len(t, entries, 3)
	assert.Equal(t, "p2", entries[0].Player.PlayerID)
	assert.Equal(t, "p1", entries[1].Player.PlayerID)
	assert.Equal(t, "p3", entries[2].Player.PlayerID)
}

func TestBuildRankingsTieBreaksByPlayerID(t *testing.T) {
	aggs, players, teams := testAggregates()

	// p1 rounds to 25.0, tying p3; the lower player id wins the tie.
	entries := buildRankings(aggs, players, teams, CategoryPoints, 10)
	require.Len(t, entries, 3)
	assert.Equal(t, 25.0, entries[0].AvgPoints)
	assert.Equal(t, 25.0, entries[1].AvgPoints)
	assert.Equal(t, "p1", entries[0].Player.PlayerID)
	assert.Equal(t, "p3", entries[1].Player.PlayerID)
}

func TestBuildRankingsRanksAreContiguous(t *testing.T) {
	aggs, players, teams := testAggregates()

	entries := buildRankings(aggs, players, teams, CategoryGlobal, 10)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
}

func TestBuildRankingsAppliesLimit(t *testing.T) {
	aggs, players, teams := testAggregates()

	entries := buildRankings(aggs, players, teams, CategoryPoints, 2)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestBuildRankingsKeepsUnresolvedPlayers(t *testing.T) {
	aggs, players, teams := testAggregates()
	delete(players, "p2")

	// A stat row whose player cannot be resolved keeps its leaderboard
	// slot with empty identity fields instead of shrinking the list.
	entries := buildRankings(aggs, players, teams, CategoryPoints, 10)
	require.Len(t, entries, 3)

	var orphan *RankingEntry
	for _, e := range entries {
		if e.Player.PlayerID == "p2" {
			orphan = e
		}
	}
	require.NotNil(t, orphan)
	assert.Empty(t, orphan.Player.FirstName)
	assert.Empty(t, orphan.Player.LastName)
	assert.Empty(t, orphan.TeamName)
	assert.Equal(t, 2, orphan.GamesPlayed)
	assert.Equal(t, 18.4, orphan.AvgPoints)
}

func TestBuildRankingsCarriesTotalsAndTeam(t *testing.T) {
	aggs, players, teams := testAggregates()

	entries := buildRankings(aggs, players, teams, CategoryPoints, 10)
	byID := make(map[string]*RankingEntry)
	for _, e := range entries {
		byID[e.Player.PlayerID] = e
	}

	assert.Equal(t, 75, byID["p1"].TotalPoints)
	assert.Equal(t, 24, byID["p1"].TotalRebounds)
	assert.Equal(t, 18, byID["p1"].TotalAssists)
	assert.Equal(t, 5, byID["p1"].TotalSteals)
	assert.Equal(t, 2, byID["p1"].TotalBlocks)
	assert.Equal(t, "Hawks", byID["p1"].TeamName)
}

func TestBuildRankingsRoundsAverages(t *testing.T) {
	aggs, players, teams := testAggregates()

	entries := buildRankings(aggs, players, teams, CategoryPoints, 10)
	byID := make(map[string]*RankingEntry)
	for _, e := range entries {
		byID[e.Player.PlayerID] = e
	}
	assert.Equal(t, 25.0, byID["p1"].AvgPoints)
	assert.Equal(t, 18.4, byID["p2"].AvgPoints)
}

func rankingsServiceFixture() *RankingsService {
	aggs, playersByID, teamsByID := testAggregates()

	stats := newFakeStatsStore()
	stats.aggs = aggs
	players := newFakePlayerStore()
	for _, p := range playersByID {
		players.players[p.PlayerID] = p
	}
	teams := newFakeTeamStore()
	for _, tm := range teamsByID {
		teams.teams[tm.TeamID] = tm
	}
	return NewRankingsService(stats, players, teams, nil, 0, zerolog.Nop())
}

func TestRankingsGetGlobalCategory(t *testing.T) {
	svc := rankingsServiceFixture()

	result, err := svc.Get(context.Background(), "global", "", 0)
	require.NoError(t, err)
	assert.Equal(t, CategoryGlobal, result.Category)
	assert.Equal(t, 3, result.Total)
	require.NotEmpty(t, result.Rankings)
	for i := 1; i < len(result.Rankings); i++ {
		assert.GreaterOrEqual(t, result.Rankings[i-1].GlobalScore, result.Rankings[i].GlobalScore)
	}

	// The spelled-out column name is accepted and normalized.
	aliased, err := svc.Get(context.Background(), "global_score", "", 0)
	require.NoError(t, err)
	assert.Equal(t, CategoryGlobal, aliased.Category)
	assert.Equal(t, result.Rankings[0].Player.PlayerID, aliased.Rankings[0].Player.PlayerID)
}

func TestRankingsGetRejectsUnknownCategory(t *testing.T) {
	svc := rankingsServiceFixture()

	_, err := svc.Get(context.Background(), "dunks", "", 0)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 400, serr.Status)
}

func TestCategoryValueGlobal(t *testing.T) {
	entry := &RankingEntry{AvgPoints: 10, GlobalScore: 42.5}

	assert.Equal(t, 42.5, categoryValue(entry, CategoryGlobal))
	assert.Equal(t, 42.5, categoryValue(entry, "global_score"))
	assert.Equal(t, 10.0, categoryValue(entry, CategoryPoints))
}

func TestRankingCategoriesAcceptGlobal(t *testing.T) {
	assert.True(t, rankingCategories[CategoryGlobal])
	assert.False(t, rankingCategories["global_score"], "the alias is normalized before lookup")
}

func TestGlobalScore(t *testing.T) {
	tests := []struct {
		name                    string
		pts, reb, ast, stl, blk float64
		want                    float64
	}{
		{name: "zero line", want: 0},
		{name: "benchmark averages hit 100", pts: 30, reb: 15, ast: 10, stl: 3, blk: 3, want: 100},
		{name: "half benchmarks", pts: 15, reb: 7.5, ast: 5, stl: 1.5, blk: 1.5, want: 50},
		{name: "scoring only", pts: 30, want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, globalScore(tt.pts, tt.reb, tt.ast, tt.stl, tt.blk))
		})
	}
}

func TestGlobalScoreMonotonicInPoints(t *testing.T) {
	prev := -1.0
	for pts := 0.0; pts <= 40; pts += 5 {
		score := globalScore(pts, 5, 5, 1, 1)
		assert.Greater(t, score, prev, fmt.Sprintf("score should grow with points (pts=%v)", pts))
		prev = score
	}
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 1.2, round1(1.24))
	assert.Equal(t, 1.3, round1(1.25))
	assert.Equal(t, -1.2, round1(-1.24))
	assert.Equal(t, 0.0, round1(0))
}
