package nba

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/courtside/courtstat/internal/store"
	"github.com/courtside/courtstat/internal/store/repository"
)

// gameWindow is how far back a sync looks for games.
const gameWindow = 7 * 24 * time.Hour

// Syncer pulls teams, recent games and box scores from the upstream API
// into the local store.
type Syncer struct {
	client  *Client
	teams   *repository.TeamRepository
	players *repository.PlayerRepository
	matches *repository.MatchRepository
	stats   *repository.StatsRepository
	clock   clockwork.Clock
	logger  zerolog.Logger
}

// NewSyncer creates a syncer.
func NewSyncer(
	client *Client,
	teams *repository.TeamRepository,
	players *repository.PlayerRepository,
	matches *repository.MatchRepository,
	stats *repository.StatsRepository,
	clock clockwork.Clock,
	logger zerolog.Logger,
) *Syncer {
	return &Syncer{
		client:  client,
		teams:   teams,
		players: players,
		matches: matches,
		stats:   stats,
		clock:   clock,
		logger:  logger,
	}
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	TeamsSynced   int      `json:"teams_synced"`
	GamesSynced   int      `json:"games_synced"`
	PlayersSynced int      `json:"players_synced"`
	StatsSynced   int      `json:"stats_synced"`
	Skipped       []string `json:"skipped,omitempty"`
	StartedAt     string   `json:"started_at"`
}

// SyncAll runs a full sync: teams first, then games from the last seven
// days, then box scores for completed games. An upstream failure on one
// step is recorded and the remaining steps still run; re-running a sync is
// idempotent because every row id derives from the upstream id.
func (s *Syncer) SyncAll(ctx context.Context) (*SyncResult, error) {
	now := s.clock.Now().UTC()
	result := &SyncResult{StartedAt: now.Format(time.RFC3339)}

	s.syncTeams(ctx, result)
	games := s.syncGames(ctx, now, result)
	s.syncStats(ctx, games, result)

	s.logger.Info().
		Int("teams", result.TeamsSynced).
		Int("games", result.GamesSynced).
		Int("players", result.PlayersSynced).
		Int("stats", result.StatsSynced).
		Strs("skipped", result.Skipped).
		Msg("nba sync finished")
	return result, nil
}

func (s *Syncer) syncTeams(ctx context.Context, result *SyncResult) {
	teams, err := s.client.ListTeams(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("skipping team sync")
		result.Skipped = append(result.Skipped, "teams")
		return
	}

	for _, t := range teams {
		team := MapTeam(t)
		if err := s.teams.Upsert(ctx, team); err != nil {
			s.logger.Warn().Err(err).Str("team", team.TeamID).Msg("failed to upsert team")
			continue
		}
		result.TeamsSynced++
	}
}

func (s *Syncer) syncGames(ctx context.Context, now time.Time, result *SyncResult) []Game {
	games, err := s.client.ListGames(ctx, now.Add(-gameWindow), now)
	if err != nil {
		s.logger.Warn().Err(err).Msg("skipping game sync")
		result.Skipped = append(result.Skipped, "games")
		return nil
	}

	synced := make([]Game, 0, len(games))
	for _, g := range games {
		match, err := MapGame(g)
		if err != nil {
			s.logger.Warn().Err(err).Int("game", g.ID).Msg("failed to map game")
			continue
		}
		if err := s.matches.Upsert(ctx, match); err != nil {
			s.logger.Warn().Err(err).Str("match", match.MatchID).Msg("failed to upsert match")
			continue
		}
		result.GamesSynced++
		synced = append(synced, g)
	}
	return synced
}

func (s *Syncer) syncStats(ctx context.Context, games []Game, result *SyncResult) {
	seenPlayers := make(map[int]bool)

	for _, g := range games {
		if MapGameStatus(g.Status, g.Period) != store.StatusCompleted {
			continue
		}

		stats, err := s.client.ListStats(ctx, g.ID)
		if err != nil {
			s.logger.Warn().Err(err).Int("game", g.ID).Msg("skipping stat sync for game")
			result.Skipped = append(result.Skipped, fmt.Sprintf("stats:%d", g.ID))
			continue
		}

		for _, st := range stats {
			// Players arrive embedded in stat rows, so upsert them on
			// first sight before their box score.
			if !seenPlayers[st.Player.ID] {
				p := st.Player
				if p.Team == nil {
					p.Team = &st.Team
				}
				if err := s.players.Upsert(ctx, MapPlayer(p)); err != nil {
					s.logger.Warn().Err(err).Int("player", st.Player.ID).Msg("failed to upsert player")
					continue
				}
				seenPlayers[st.Player.ID] = true
				result.PlayersSynced++
			}

			if err := s.stats.Upsert(ctx, MapStat(st)); err != nil {
				s.logger.Warn().Err(err).Int("game", g.ID).Int("player", st.Player.ID).Msg("failed to upsert stat row")
				continue
			}
			result.StatsSynced++
		}
	}
}

// FetchTeams proxies a team listing without writing anything.
func (s *Syncer) FetchTeams(ctx context.Context) ([]Team, error) {
	return s.client.ListTeams(ctx)
}

// FetchGames proxies the last seven days of games without writing anything.
func (s *Syncer) FetchGames(ctx context.Context) ([]Game, error) {
	now := s.clock.Now().UTC()
	return s.client.ListGames(ctx, now.Add(-gameWindow), now)
}

// FetchStats proxies one game's box score without writing anything.
func (s *Syncer) FetchStats(ctx context.Context, gameID int) ([]Stat, error) {
	return s.client.ListStats(ctx, gameID)
}
