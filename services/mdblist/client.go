package mdblist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"

	"mediasync/models"
)

const apiBaseURL = "https://api.mdblist.com"

// Client fetches curated list contents from the MDBList API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    apiBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchListItems returns the items of a list in unified form, so movie and
// show entries carry the cross-service TMDB identifier. Rate limiting and
// server errors are retried with exponential backoff before giving up.
func (c *Client) FetchListItems(ctx context.Context, listID string) ([]models.ListItem, error) {
	url := fmt.Sprintf("%s/lists/%s/items?apikey=%s&unified=true", c.baseURL, listID, c.apiKey)

	var items []models.ListItem
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("create request: %w", err))
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("http request: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				log.Printf("[mdblist] rate limited or server error for list %s: status %d", listID, resp.StatusCode)
				return fmt.Errorf("status %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("unexpected status: %d", resp.StatusCode))
			}

			items = items[:0]
			if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return items, nil
}
