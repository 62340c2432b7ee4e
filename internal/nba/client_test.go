package nba

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key", zerolog.Nop())
}

func TestListTeamsSendsRawAPIKey(t *testing.T) {
	var gotAuth string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"data":[{"id":1,"full_name":"Atlanta Hawks"}],"meta":{"next_cursor":null}}`)
	})

	teams, err := client.ListTeams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Atlanta Hawks", teams[0].FullName)
	// The upstream API wants the bare key, not "Bearer <key>".
	assert.Equal(t, "test-key", gotAuth)
}

func TestListTeamsFollowsCursor(t *testing.T) {
	var calls int
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprint(w, `{"data":[{"id":1}],"meta":{"next_cursor":25}}`)
		case "25":
			fmt.Fprint(w, `{"data":[{"id":2}],"meta":{"next_cursor":null}}`)
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	})

	teams, err := client.ListTeams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, teams, 2)
	assert.Equal(t, 1, teams[0].ID)
	assert.Equal(t, 2, teams[1].ID)
}

func TestListGamesSendsDateWindow(t *testing.T) {
	var query map[string][]string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		fmt.Fprint(w, `{"data":[],"meta":{"next_cursor":null}}`)
	})

	start := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	_, err := client.ListGames(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, []string{"2026-08-18"}, query["start_date"])
	assert.Equal(t, []string{"2026-08-25"}, query["end_date"])
	assert.Equal(t, []string{"100"}, query["per_page"])
}

func TestListStatsSendsGameID(t *testing.T) {
	var query map[string][]string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		fmt.Fprint(w, `{"data":[{"pts":12,"player":{"id":5},"game":{"id":77}}],"meta":{"next_cursor":null}}`)
	})

	stats, err := client.ListStats(context.Background(), 77)
	require.NoError(t, err)
	assert.Equal(t, []string{"77"}, query["game_ids[]"])
	require.Len(t, stats, 1)
	assert.Equal(t, 12, stats[0].Pts)
}

func TestClientReturnsAPIErrorOnUpstreamFailure(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.ListTeams(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "/teams", apiErr.Endpoint)
}

func TestClientRejectsMalformedJSON(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":`)
	})

	_, err := client.ListTeams(context.Background())
	assert.Error(t, err)
}
