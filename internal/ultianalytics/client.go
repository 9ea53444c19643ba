// Package ultianalytics provides a minimal client for the ultianalytics.com
// team REST API.
package ultianalytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// DefaultBaseURL is the public ultianalytics host.
const DefaultBaseURL = "https://www.ultianalytics.com"

// StatusError is a non-200 response.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("GET %s: HTTP %d", e.Path, e.Code) }

// Client talks to the ultianalytics REST API through a circuit breaker: after
// repeated transport failures or 5xx responses it fails fast until the
// service recovers.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewClient returns a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ultianalytics",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// Client errors say nothing about the health of the service.
		IsSuccessful: func(err error) bool {
			var se *StatusError
			return err == nil || (errors.As(err, &se) && se.Code < 500)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: cb,
	}
}

// Game is one entry of a team's game list.
type Game struct {
	GameID     string `json:"gameId"`
	Opponent   string `json:"opponentName"`
	Tournament string `json:"tournamentName"`
	Timestamp  string `json:"timestamp"`
	OurScore   int    `json:"ours"`
	TheirScore int    `json:"theirs"`
}

// get fetches path and returns the whole body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	body, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, &StatusError{Path: path, Code: resp.StatusCode}
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}

// Games lists the games recorded for a team.
func (c *Client) Games(ctx context.Context, teamID string) ([]Game, error) {
	body, err := c.get(ctx, "/rest/view/team/"+teamID+"/games")
	if err != nil {
		return nil, err
	}
	var games []Game
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, fmt.Errorf("decode games: %w", err)
	}
	return games, nil
}

// ExportCSV downloads the team's play-by-play export in the format the
// events importer reads.
func (c *Client) ExportCSV(ctx context.Context, teamID string) ([]byte, error) {
	return c.get(ctx, "/rest/view/team/"+teamID+"/stats/export")
}

// State reports the breaker state, e.g. "closed" or "open".
func (c *Client) State() string { return c.breaker.State().String() }
