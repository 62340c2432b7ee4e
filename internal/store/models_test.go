package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusScheduled))
	assert.True(t, ValidStatus(StatusInProgress))
	assert.True(t, ValidStatus(StatusCompleted))
	assert.False(t, ValidStatus("cancelled"))
	assert.False(t, ValidStatus(""))
}

func TestValidPosition(t *testing.T) {
	for _, p := range Positions {
		assert.True(t, ValidPosition(p), p)
	}
	assert.False(t, ValidPosition("G"))
	assert.False(t, ValidPosition(""))
}

func TestPlayerStatsRating(t *testing.T) {
	tests := []struct {
		name  string
		stats PlayerStats
		want  int
	}{
		{
			name: "all zeroes",
			want: 0,
		},
		{
			name: "positive contributions only",
			stats: PlayerStats{
				Points:            20,
				OffensiveRebounds: 3,
				DefensiveRebounds: 7,
				Assists:           5,
				Steals:            2,
				Blocks:            1,
			},
			want: 38,
		},
		{
			name: "misses and turnovers subtract",
			stats: PlayerStats{
				Points:                 10,
				FieldGoalsMade:         4,
				FieldGoalsAttempted:    10, // 6 missed
				ThreePointersMade:      1,
				ThreePointersAttempted: 4, // 3 missed
				FreeThrowsMade:         1,
				FreeThrowsAttempted:    2, // 1 missed
				Turnovers:              3,
				PersonalFouls:          2,
			},
			want: 10 - 6 - 3 - 1 - 3 - 2,
		},
		{
			name: "bad night goes negative",
			stats: PlayerStats{
				Points:              2,
				FieldGoalsMade:      1,
				FieldGoalsAttempted: 9,
				Turnovers:           4,
			},
			want: 2 - 8 - 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stats.Rating())
		})
	}
}

func TestPlayerStatsTotalRebounds(t *testing.T) {
	s := PlayerStats{OffensiveRebounds: 4, DefensiveRebounds: 9}
	assert.Equal(t, 13, s.TotalRebounds())
}
