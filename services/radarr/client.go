package radarr

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
var ErrNotFound = errors.New("movie not found")

// Client talks to a Radarr v3 instance.
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

// movieResource is the subset of Radarr's movie resource the sync needs.
type movieResource struct {
	Title  string `json:"title"`
	TMDBID int64  `json:"tmdbId"`
}

type addOptions struct {
	Monitor        string `json:"monitor"`
	SearchForMovie bool   `json:"searchForMovie"`
}

type addMoviePayload struct {
	TMDBID           int64      `json:"tmdbId"`
	QualityProfileID int        `json:"qualityProfileId"`
	RootFolderPath   string     `json:"rootFolderPath"`
	AddOptions       addOptions `json:"addOptions"`
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

// ExistingIDs returns the TMDB IDs of every movie already in the library.
func (c *Client) ExistingIDs(ctx context.Context) (map[int64]struct{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL("/api/v3/movie"), nil)
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

	var movies []movieResource
	if err := json.NewDecoder(resp.Body).Decode(&movies); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	ids := make(map[int64]struct{}, len(movies))
	for _, m := range movies {
		if m.TMDBID != 0 {
			ids[m.TMDBID] = struct{}{}
		}
	}
	return ids, nil
}

// lookup resolves a TMDB ID to the first matching Radarr movie resource.
func (c *Client) lookup(ctx context.Context, tmdbID int64) (movieResource, error) {
	term := url.QueryEscape(fmt.Sprintf("tmdb:%d", tmdbID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL("/api/v3/movie/lookup?term="+term), nil)
	if err != nil {
		return movieResource{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return movieResource{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return movieResource{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var results []movieResource
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return movieResource{}, fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return movieResource{}, ErrNotFound
	}
	return results[0], nil
}

// Add looks up a movie by TMDB ID and queues it with the list's placement
// parameters. The returned title is whatever Radarr knows the movie as.
func (c *Client) Add(ctx context.Context, tmdbID int64, list config.ListConfig) (string, error) {
	looked, err := c.lookup(ctx, tmdbID)
	if err != nil {
		return "", fmt.Errorf("lookup movie %d: %w", tmdbID, err)
	}

	payload := addMoviePayload{
		TMDBID:           tmdbID,
		QualityProfileID: list.QualityProfileID,
		RootFolderPath:   list.RootFolderPath,
		AddOptions:       addOptions{Monitor: "movieOnly", SearchForMovie: true},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL("/api/v3/movie"), bytes.NewReader(body))
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
	return looked.Title, nil
}
