package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/courtside/courtstat/internal/service"
)

// maxStreamLen caps each per-match stream so long games don't grow
// unbounded.
const maxStreamLen = 1000

// RedisStream appends match events to per-match redis streams so other
// consumers (scoreboard displays, archivers) can replay a match.
type RedisStream struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisStream connects to redis and verifies the connection.
func NewRedisStream(redisURL string, logger zerolog.Logger) (*RedisStream, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStream{client: client, logger: logger}, nil
}

// PublishMatchEvent appends one event to the match's stream.
func (p *RedisStream) PublishMatchEvent(ctx context.Context, event service.MatchEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal match event: %w", err)
	}

	stream := "match:" + event.MatchID + ":events"
	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":    event.Type,
			"payload": payload,
		},
	}).Err()
	if err != nil {
		p.logger.Warn().Err(err).Str("stream", stream).Msg("failed to publish match event")
		return fmt.Errorf("failed to publish match event: %w", err)
	}
	return nil
}

// Close closes the redis connection.
func (p *RedisStream) Close() error {
	return p.client.Close()
}
