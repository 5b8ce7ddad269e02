package sonarr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"mediasync/config"
)

// ErrNotFound is returned when a TMDB lookup produces no results.
var ErrNotFound = errors.New("series not found")

// Client talks to a Sonarr v3 instance.
type Client struct {
	baseURL    string
	port       int
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg config.ArrSettings) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		port:       cfg.Port,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// seriesResource is the subset of Sonarr's series resource the sync needs.
// Lookups keyed by TMDB ID still add by TVDB ID, which only the lookup
// response carries.
type seriesResource struct {
	Title  string `json:"title"`
	TMDBID int64  `json:"tmdbId"`
	TVDBID int64  `json:"tvdbId"`
}

type addOptions struct {
	Monitor                      string `json:"monitor"`
	SearchForMissingEpisodes     bool   `json:"searchForMissingEpisodes"`
	SearchForCutoffUnmetEpisodes bool   `json:"searchForCutoffUnmetEpisodes"`
}

type addSeriesPayload struct {
	Title            string     `json:"title"`
	TVDBID           int64      `json:"tvdbId"`
	QualityProfileID int        `json:"qualityProfileId"`
	RootFolderPath   string     `json:"rootFolderPath"`
	AddOptions       addOptions `json:"addOptions"`
	Monitored        bool       `json:"monitored"`
}

func (c *Client) apiURL(path string) string {
	if c.port > 0 {
		return fmt.Sprintf("%s:%d%s", c.baseURL, c.port, path)
	}
	return c.baseURL + path
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-Api-Key", c.apiKey)
	return c.httpClient.Do(req)
}

// ExistingIDs returns the TMDB IDs of every series already in the library.
func (c *Client) ExistingIDs(ctx context.Context) (map[int64]struct{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL("/api/v3/series"), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var series []seriesResource
	if err := json.NewDecoder(resp.Body).Decode(&series); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	ids := make(map[int64]struct{}, len(series))
	for _, s := range series {
		if s.TMDBID != 0 {
			ids[s.TMDBID] = struct{}{}
		}
	}
	return ids, nil
}

// lookup resolves a TMDB ID to the first matching Sonarr series resource.
func (c *Client) lookup(ctx context.Context, tmdbID int64) (seriesResource, error) {
	term := url.QueryEscape(fmt.Sprintf("tmdb:%d", tmdbID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL("/api/v3/series/lookup?term="+term), nil)
	if err != nil {
		return seriesResource{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return seriesResource{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return seriesResource{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var results []seriesResource
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return seriesResource{}, fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return seriesResource{}, ErrNotFound
	}
	return results[0], nil
}

// Add looks up a series by TMDB ID and queues it fully monitored with the
// list's placement parameters.
func (c *Client) Add(ctx context.Context, tmdbID int64, list config.ListConfig) (string, error) {
	series, err := c.lookup(ctx, tmdbID)
	if err != nil {
		return "", fmt.Errorf("lookup series %d: %w", tmdbID, err)
	}

	payload := addSeriesPayload{
		Title:            series.Title,
		TVDBID:           series.TVDBID,
		QualityProfileID: list.QualityProfileID,
		RootFolderPath:   list.RootFolderPath,
		AddOptions: addOptions{
			Monitor:                      "all",
			SearchForMissingEpisodes:     true,
			SearchForCutoffUnmetEpisodes: true,
		},
		Monitored: true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL("/api/v3/series"), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return series.Title, nil
}
