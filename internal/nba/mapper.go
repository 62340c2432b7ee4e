package nba

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/courtside/courtstat/internal/service"
	"github.com/courtside/courtstat/internal/store"
)

// positionMap collapses the upstream's hybrid position codes onto the five
// canonical positions.
var positionMap = map[string]string{
	"G":   "PG",
	"F":   "SF",
	"C":   "C",
	"G-F": "SG",
	"F-G": "SF",
	"F-C": "PF",
	"C-F": "C",
	"PG":  "PG",
	"SG":  "SG",
	"SF":  "SF",
	"PF":  "PF",
}

// MapPosition translates an upstream position code. Unknown codes map to
// no position.
func MapPosition(code string) *string {
	mapped, ok := positionMap[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil
	}
	return &mapped
}

// ParseMinutes converts an upstream "MM:SS" minutes string to fractional
// minutes. Bare minute counts and blanks are handled too.
func ParseMinutes(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	parts := strings.SplitN(raw, ":", 2)
	minutes, err := strconv.Atoi(parts[0])
	if err != nil || minutes < 0 {
		return 0
	}
	if len(parts) == 1 {
		return float64(minutes)
	}

	seconds, err := strconv.Atoi(parts[1])
	if err != nil || seconds < 0 {
		return float64(minutes)
	}
	return float64(minutes) + float64(seconds)/60
}

// MapGameStatus translates the upstream status/period pair onto the match
// lifecycle.
func MapGameStatus(status string, period int) string {
	if status == "Final" {
		return store.StatusCompleted
	}
	if period > 0 {
		return store.StatusInProgress
	}
	return store.StatusScheduled
}

// MapTeam converts an upstream franchise to a synced team row.
func MapTeam(t Team) *store.Team {
	externalID := t.ID
	return &store.Team{
		TeamID:    service.NBATeamID(t.ID),
		Name:      t.FullName,
		League:    store.LeagueNBA,
		NBATeamID: &externalID,
	}
}

// MapPlayer converts an upstream roster entry to a synced player row.
func MapPlayer(p Player) *store.Player {
	externalID := p.ID
	player := &store.Player{
		PlayerID:    service.NBAPlayerID(p.ID),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Position:    MapPosition(p.Position),
		League:      store.LeagueNBA,
		NBAPlayerID: &externalID,
	}
	if jersey, err := strconv.Atoi(strings.TrimSpace(p.JerseyNumber)); err == nil && jersey >= 0 && jersey <= 99 {
		player.JerseyNumber = &jersey
	}
	if p.Team != nil {
		teamID := service.NBATeamID(p.Team.ID)
		player.TeamID = &teamID
	}
	return player
}

// MapGame converts an upstream game to a synced match row.
func MapGame(g Game) (*store.Match, error) {
	date, err := parseGameDate(g.Date)
	if err != nil {
		return nil, err
	}

	externalID := g.ID
	return &store.Match{
		MatchID:    service.NBAGameID(g.ID),
		HomeTeamID: service.NBATeamID(g.HomeTeam.ID),
		AwayTeamID: service.NBATeamID(g.VisitorTeam.ID),
		MatchDate:  date,
		Status:     MapGameStatus(g.Status, g.Period),
		HomeScore:  g.HomeTeamScore,
		AwayScore:  g.VisitorTeamScore,
		League:     store.LeagueNBA,
		NBAGameID:  &externalID,
	}, nil
}

// MapStat converts an upstream box-score entry to a synced stat row.
func MapStat(s Stat) *store.PlayerStats {
	oreb, dreb := s.Oreb, s.Dreb
	// Some seasons only report total rebounds.
	if oreb == 0 && dreb == 0 && s.Reb > 0 {
		dreb = s.Reb
	}

	return &store.PlayerStats{
		StatID:                 service.NBAStatID(s.Game.ID, s.Player.ID),
		PlayerID:               service.NBAPlayerID(s.Player.ID),
		MatchID:                service.NBAGameID(s.Game.ID),
		Points:                 s.Pts,
		OffensiveRebounds:      oreb,
		DefensiveRebounds:      dreb,
		Assists:                s.Ast,
		Steals:                 s.Stl,
		Blocks:                 s.Blk,
		Turnovers:              s.Turnover,
		PersonalFouls:          s.Pf,
		MinutesPlayed:          ParseMinutes(s.Min),
		FieldGoalsMade:         s.Fgm,
		FieldGoalsAttempted:    s.Fga,
		ThreePointersMade:      s.Fg3m,
		ThreePointersAttempted: s.Fg3a,
		FreeThrowsMade:         s.Ftm,
		FreeThrowsAttempted:    s.Fta,
	}
}

// parseGameDate accepts both the date-only and RFC 3339 formats the
// upstream has used.
func parseGameDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable game date %q", raw)
}
