package radarr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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
	c := NewClient(config.ArrSettings{BaseURL: "http://radarr", Port: 7878, APIKey: "secret"})
	c.httpClient = &http.Client{Transport: rt}
	return c
}

func TestExistingIDs(t *testing.T) {
	c := testClient(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, "secret", req.Header.Get("X-Api-Key"))
		require.Equal(t, "radarr:7878", req.URL.Host)
		require.Equal(t, "/api/v3/movie", req.URL.Path)
		return jsonResponse(http.StatusOK, `[
			{"title": "The Matrix", "tmdbId": 603},
			{"title": "Untagged import", "tmdbId": 0},
			{"title": "Heat", "tmdbId": 949}
		]`), nil
	})

	ids, err := c.ExistingIDs(context.Background())
	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.Contains(t, ids, int64(603))
	require.Contains(t, ids, int64(949))
}

func TestAddMovie(t *testing.T) {
	var posted addMoviePayload
	c := testClient(func(req *http.Request) (*http.Response, error) {
		switch {
		case req.Method == http.MethodGet && req.URL.Path == "/api/v3/movie/lookup":
			require.Equal(t, "tmdb:603", req.URL.Query().Get("term"))
			return jsonResponse(http.StatusOK, `[{"title": "The Matrix", "tmdbId": 603}]`), nil
		case req.Method == http.MethodPost && req.URL.Path == "/api/v3/movie":
			require.NoError(t, json.NewDecoder(req.Body).Decode(&posted))
			return jsonResponse(http.StatusCreated, `{"id": 1}`), nil
		default:
			t.Fatalf("unexpected request %s %s", req.Method, req.URL)
			return nil, nil
		}
	})

	title, err := c.Add(context.Background(), 603, config.ListConfig{
		ID:               "42",
		Name:             "Trending",
		QualityProfileID: 4,
		RootFolderPath:   "/movies",
	})
	require.NoError(t, err)
	require.Equal(t, "The Matrix", title)
	require.Equal(t, int64(603), posted.TMDBID)
	require.Equal(t, 4, posted.QualityProfileID)
	require.Equal(t, "/movies", posted.RootFolderPath)
	require.Equal(t, "movieOnly", posted.AddOptions.Monitor)
	require.True(t, posted.AddOptions.SearchForMovie)
}

func TestAddMovieLookupEmpty(t *testing.T) {
	c := testClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	_, err := c.Add(context.Background(), 999999, config.ListConfig{ID: "42"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApiURLWithoutPort(t *testing.T) {
	c := NewClient(config.ArrSettings{BaseURL: "https://radarr.example.com", APIKey: "secret"})
	require.Equal(t, "https://radarr.example.com/api/v3/movie", c.apiURL("/api/v3/movie"))
}

func TestAddMoviePostFailure(t *testing.T) {
	c := testClient(func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodGet {
			return jsonResponse(http.StatusOK, `[{"title": "The Matrix", "tmdbId": 603}]`), nil
		}
		return jsonResponse(http.StatusBadRequest, `[{"errorMessage": "already exists"}]`), nil
	})

	_, err := c.Add(context.Background(), 603, config.ListConfig{ID: "42"})
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotFound))
}
