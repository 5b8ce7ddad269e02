package models

// MediaType distinguishes the two kinds of items a curated list can carry.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeShow  MediaType = "show"
)

// ListItem is a single entry from a curated list in unified form. The ID is
// the cross-service TMDB identifier used for dedup against the libraries.
type ListItem struct {
	ID        int64     `json:"id"`
	MediaType MediaType `json:"mediatype"`
	Title     string    `json:"title"`
	Rank      int       `json:"rank,omitempty"`
}

// CapacityUsage is the live download-slot figure reported by the debrid
// provider: the account-wide concurrent limit and how many slots are busy.
type CapacityUsage struct {
	Limit  int `json:"limit"`
	Active int `json:"nb"`
}

// RunSummary is the outcome of a single sync invocation.
type RunSummary struct {
	RunID        string `json:"runId"`
	BlackoutName string `json:"blackoutName,omitempty"`
	MoviesAdded  int    `json:"moviesAdded"`
	ShowsAdded   int    `json:"showsAdded"`
}

// Skipped reports whether the run was suppressed by a blackout period.
func (s RunSummary) Skipped() bool {
	return s.BlackoutName != ""
}
