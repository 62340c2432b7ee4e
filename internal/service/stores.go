package service

import (
	"context"

	"github.com/courtside/courtstat/internal/store"
	"github.com/courtside/courtstat/internal/store/repository"
)

// Narrow persistence interfaces, satisfied by the repository types. Services
// depend on these so business rules can be tested against in-memory fakes.

// TeamStore persists teams.
type TeamStore interface {
	Create(ctx context.Context, team *store.Team) error
	GetByID(ctx context.Context, teamID string) (*store.Team, error)
	GetByIDs(ctx context.Context, teamIDs []string) (map[string]*store.Team, error)
	List(ctx context.Context, league string) ([]*store.Team, error)
	Update(ctx context.Context, team *store.Team) error
	Delete(ctx context.Context, teamID string) error
}

// PlayerStore persists players.
type PlayerStore interface {
	Create(ctx context.Context, player *store.Player) error
	GetByID(ctx context.Context, playerID string) (*store.Player, error)
	GetByIDs(ctx context.Context, playerIDs []string) (map[string]*store.Player, error)
	List(ctx context.Context, league, teamID string) ([]*store.Player, error)
	Update(ctx context.Context, player *store.Player) error
	Delete(ctx context.Context, playerID string) error
}

// MatchStore persists matches.
type MatchStore interface {
	Create(ctx context.Context, match *store.Match) error
	GetByID(ctx context.Context, matchID string) (*store.Match, error)
	List(ctx context.Context, filter repository.MatchFilter) ([]*store.Match, error)
	Update(ctx context.Context, match *store.Match) error
	Delete(ctx context.Context, matchID string) error
}

// StatsStore persists box-score rows and serves aggregates.
type StatsStore interface {
	Upsert(ctx context.Context, s *store.PlayerStats) error
	IncrementField(ctx context.Context, statID, stat string, delta float64) (*store.PlayerStats, error)
	GetByID(ctx context.Context, statID string) (*store.PlayerStats, error)
	GetByPlayerAndMatch(ctx context.Context, playerID, matchID string) (*store.PlayerStats, error)
	ListByMatch(ctx context.Context, matchID string) ([]*store.PlayerStats, error)
	Delete(ctx context.Context, statID string) error
	PlayerGameLog(ctx context.Context, playerID string) ([]*repository.PlayerGameRow, error)
	LeagueAggregates(ctx context.Context, league string) ([]*repository.PlayerAggregate, error)
}

// UserStore persists operator accounts.
type UserStore interface {
	Create(ctx context.Context, user *store.User) error
	GetByEmail(ctx context.Context, email string) (*store.User, error)
}
