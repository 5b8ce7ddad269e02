package debrid

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
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

func TestActiveCount(t *testing.T) {
	c := NewClient("test-token")
	c.httpClient = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if got := req.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("Authorization header = %q, want bearer token", got)
			}
			if req.URL.Path != "/rest/1.0/torrents/activeCount" {
				t.Errorf("unexpected path %q", req.URL.Path)
			}
			return jsonResponse(http.StatusOK, `{"nb": 5, "limit": 20}`), nil
		}),
	}

	usage, err := c.ActiveCount(context.Background())
	if err != nil {
		t.Fatalf("ActiveCount returned error: %v", err)
	}
	if usage.Limit != 20 || usage.Active != 5 {
		t.Errorf("usage = %+v, want limit 20 active 5", usage)
	}
}

func TestActiveCountUnauthorized(t *testing.T) {
	c := NewClient("bad-token")
	c.httpClient = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusUnauthorized, `{"error":"bad_token"}`), nil
		}),
	}

	if _, err := c.ActiveCount(context.Background()); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
