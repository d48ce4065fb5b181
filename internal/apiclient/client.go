// Package apiclient is the HTTP client for the monitoring service API, used
// by remote observers such as cmd/monitor.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Vixylora/Blast-Hackathon/internal/models"
	"github.com/Vixylora/Blast-Hackathon/internal/monitor"
)

// Client talks to the service's HTTP surface with bearer auth.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the service at baseURL. token may be empty when
// the server runs without auth.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// FetchLatest implements monitor.Fetcher against GET /sensor-data/latest.
// A 404 maps to monitor.ErrNoData: the server is reachable, nothing ingested.
func (c *Client) FetchLatest(ctx context.Context) (models.SensorReading, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/sensor-data/latest", nil)
	if err != nil {
		return models.SensorReading{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.SensorReading{}, fmt.Errorf("failed to fetch latest reading: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var reading models.SensorReading
		if err := json.NewDecoder(resp.Body).Decode(&reading); err != nil {
			return models.SensorReading{}, fmt.Errorf("failed to decode latest reading: %w", err)
		}
		return reading, nil
	case http.StatusNotFound:
		return models.SensorReading{}, monitor.ErrNoData
	default:
		return models.SensorReading{}, fmt.Errorf("unexpected status %d from latest endpoint", resp.StatusCode)
	}
}

// AppendEvent posts a transition event to POST /log-event. The server stamps
// the stored timestamp.
func (c *Client) AppendEvent(ctx context.Context, entry models.EventLogEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/log-event", payload)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from log-event endpoint", resp.StatusCode)
	}
	return nil
}

var _ monitor.Fetcher = (*Client)(nil)
