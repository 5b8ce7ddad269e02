package debrid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mediasync/models"
)

const apiBaseURL = "https://api.real-debrid.com/rest/1.0"

// Client queries the Real-Debrid API for the account's torrent slot usage.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		token:      token,
		baseURL:    apiBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ActiveCount returns the account's concurrent torrent limit and the number
// of currently active torrents.
func (c *Client) ActiveCount(ctx context.Context) (models.CapacityUsage, error) {
	url := c.baseURL + "/torrents/activeCount"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.CapacityUsage{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.CapacityUsage{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.CapacityUsage{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var usage models.CapacityUsage
	if err := json.NewDecoder(resp.Body).Decode(&usage); err != nil {
		return models.CapacityUsage{}, fmt.Errorf("decode response: %w", err)
	}
	return usage, nil
}
