package service

import (
	"context"
	"time"

	"github.com/courtside/courtstat/internal/store"
)

// Match event types pushed to live subscribers.
const (
	EventStatusChange = "status_change"
	EventScoreUpdate  = "score_update"
	EventStatUpdate   = "stat_update"
	EventStatDelete   = "stat_delete"
)

// MatchEvent is a single live update for one match.
type MatchEvent struct {
	Type      string             `json:"type"`
	MatchID   string             `json:"match_id"`
	Status    string             `json:"status,omitempty"`
	HomeScore int                `json:"home_score"`
	AwayScore int                `json:"away_score"`
	PlayerID  string             `json:"player_id,omitempty"`
	Stats     *store.PlayerStats `json:"stats,omitempty"`
	At        time.Time          `json:"at"`
}

// Publisher pushes match events to a delivery channel (websocket hub,
// redis stream).
type Publisher interface {
	PublishMatchEvent(ctx context.Context, event MatchEvent) error
}

// publishAll fans an event out to every publisher, ignoring delivery
// failures. Live updates are best effort and never fail the write.
func publishAll(ctx context.Context, publishers []Publisher, event MatchEvent) {
	for _, p := range publishers {
		_ = p.PublishMatchEvent(ctx, event)
	}
}
