package sonarr

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"mediasync/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func testClient(rt roundTripFunc) *Client {
	c := NewClient(config.ArrSettings{BaseURL: "http://sonarr", Port: 8989, APIKey: "secret"})
	c.httpClient = &http.Client{Transport: rt}
	return c
}

func TestExistingIDs(t *testing.T) {
	c := testClient(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, "secret", req.Header.Get("X-Api-Key"))
		require.Equal(t, "/api/v3/series", req.URL.Path)
		return jsonResponse(http.StatusOK, `[
			{"title": "Breaking Bad", "tmdbId": 1396, "tvdbId": 81189},
			{"title": "Legacy import", "tmdbId": 0, "tvdbId": 70336}
		]`), nil
	})

	ids, err := c.ExistingIDs(context.Background())
	require.NoError(t, err)
	require.Len(t, ids, 1)
	require.Contains(t, ids, int64(1396))
}

func TestAddSeries(t *testing.T) {
	var posted addSeriesPayload
	c := testClient(func(req *http.Request) (*http.Response, error) {
		switch {
		case req.Method == http.MethodGet && req.URL.Path == "/api/v3/series/lookup":
			require.Equal(t, "tmdb:1396", req.URL.Query().Get("term"))
			return jsonResponse(http.StatusOK, `[{"title": "Breaking Bad", "tmdbId": 1396, "tvdbId": 81189}]`), nil
		case req.Method == http.MethodPost && req.URL.Path == "/api/v3/series":
			require.NoError(t, json.NewDecoder(req.Body).Decode(&posted))
			return jsonResponse(http.StatusCreated, `{"id": 7}`), nil
		default:
			t.Fatalf("unexpected request %s %s", req.Method, req.URL)
			return nil, nil
		}
	})

	title, err := c.Add(context.Background(), 1396, config.ListConfig{
		ID:               "9",
		Name:             "Top Shows",
		QualityProfileID: 6,
		RootFolderPath:   "/tv",
	})
	require.NoError(t, err)
	require.Equal(t, "Breaking Bad", title)
	require.Equal(t, "Breaking Bad", posted.Title)
	require.Equal(t, int64(81189), posted.TVDBID)
	require.Equal(t, 6, posted.QualityProfileID)
	require.Equal(t, "/tv", posted.RootFolderPath)
	require.True(t, posted.Monitored)
	require.Equal(t, "all", posted.AddOptions.Monitor)
	require.True(t, posted.AddOptions.SearchForMissingEpisodes)
	require.True(t, posted.AddOptions.SearchForCutoffUnmetEpisodes)
}

func TestAddSeriesLookupEmpty(t *testing.T) {
	c := testClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	_, err := c.Add(context.Background(), 424242, config.ListConfig{ID: "9"})
	require.ErrorIs(t, err, ErrNotFound)
}
