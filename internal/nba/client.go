package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production NBA statistics API.
const DefaultBaseURL = "https://api.balldontlie.io/v1"

const perPage = 100

// APIError is a non-2xx response from the upstream API.
type APIError struct {
	Endpoint   string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("nba api: %s returned status %d", e.Endpoint, e.StatusCode)
}

// Client fetches teams, games and box scores from the upstream API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates an API client. baseURL falls back to DefaultBaseURL.
func NewClient(baseURL, apiKey string, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// ListTeams fetches every franchise.
func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	var teams []Team
	err := c.paginate(ctx, "/teams", url.Values{}, func(body []byte) (*int, error) {
		var page teamsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to decode teams response: %w", err)
		}
		teams = append(teams, page.Data...)
		return page.Meta.NextCursor, nil
	})
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// ListGames fetches games within a date window, inclusive.
func (c *Client) ListGames(ctx context.Context, start, end time.Time) ([]Game, error) {
	params := url.Values{}
	params.Set("start_date", start.Format("2006-01-02"))
	params.Set("end_date", end.Format("2006-01-02"))

	var games []Game
	err := c.paginate(ctx, "/games", params, func(body []byte) (*int, error) {
		var page gamesResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to decode games response: %w", err)
		}
		games = append(games, page.Data...)
		return page.Meta.NextCursor, nil
	})
	if err != nil {
		return nil, err
	}
	return games, nil
}

// ListStats fetches the box score for one game.
func (c *Client) ListStats(ctx context.Context, gameID int) ([]Stat, error) {
	params := url.Values{}
	params.Set("game_ids[]", strconv.Itoa(gameID))

	var stats []Stat
	err := c.paginate(ctx, "/stats", params, func(body []byte) (*int, error) {
		var page statsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to decode stats response: %w", err)
		}
		stats = append(stats, page.Data...)
		return page.Meta.NextCursor, nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// paginate walks an endpoint's cursor pagination, handing each page body to
// decode and following the returned cursor until it runs out.
func (c *Client) paginate(ctx context.Context, endpoint string, params url.Values, decode func([]byte) (*int, error)) error {
	params.Set("per_page", strconv.Itoa(perPage))
	cursor := (*int)(nil)

	for {
		if cursor != nil {
			params.Set("cursor", strconv.Itoa(*cursor))
		}

		body, err := c.get(ctx, endpoint, params)
		if err != nil {
			return err
		}

		next, err := decode(body)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		cursor = next
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		// The upstream API expects the raw key, not a Bearer scheme.
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().Str("endpoint", endpoint).Int("status", resp.StatusCode).Msg("upstream request failed")
		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}
	return body, nil
}
