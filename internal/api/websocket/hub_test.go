package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/courtstat/internal/service"
)

func newHubClient(hub *Hub, room string) *Client {
	return &Client{hub: hub, room: room, send: make(chan []byte, 16)}
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload := <-c.send:
		return payload
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

func TestHubDeliversToSubscribedRoom(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	subscriber := newHubClient(hub, "match-1")
	other := newHubClient(hub, "match-2")
	hub.register <- subscriber
	hub.register <- other

	event := service.MatchEvent{Type: service.EventScoreUpdate, MatchID: "match-1", HomeScore: 52, AwayScore: 48}
	require.NoError(t, hub.PublishMatchEvent(ctx, event))

	var got service.MatchEvent
	require.NoError(t, json.Unmarshal(receive(t, subscriber), &got))
	assert.Equal(t, service.EventScoreUpdate, got.Type)
	assert.Equal(t, 52, got.HomeScore)

	select {
	case payload := <-other.send:
		t.Fatalf("client in another room received %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubPublishAfterShutdownDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	cancel()
	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	// Well past the broadcast buffer size; each publish must return
	// immediately now that nothing drains the queue.
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := 0; i < 200; i++ {
			event := service.MatchEvent{Type: service.EventScoreUpdate, MatchID: "match-1"}
			assert.NoError(t, hub.PublishMatchEvent(context.Background(), event))
		}
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("publish blocked after hub shutdown")
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := newHubClient(hub, "match-1")
	hub.register <- client
	hub.unregister <- client

	select {
	case _, open := <-client.send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}
