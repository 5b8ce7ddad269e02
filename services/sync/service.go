// Package sync decides what a single invocation of the job actually does:
// whether to run at all, how many movies to queue, and which single show (if
// any) to queue, based on blackout windows, live download capacity and the
// hourly list rotation.
package sync

import (
	"context"
	"fmt"
	"log"
	"time"

	"mediasync/config"
	"mediasync/models"
	"mediasync/services/capacity"
	"mediasync/services/schedule"
)

// ListProvider fetches the contents of a curated list.
type ListProvider interface {
	FetchListItems(ctx context.Context, listID string) ([]models.ListItem, error)
}

// Library is a destination media library (Radarr for movies, Sonarr for
// shows): membership by TMDB ID plus queuing an add.
type Library interface {
	ExistingIDs(ctx context.Context) (map[int64]struct{}, error)
	Add(ctx context.Context, tmdbID int64, list config.ListConfig) (string, error)
}

// CapacitySource reports the shared download-slot usage the allocation is
// computed from.
type CapacitySource interface {
	ActiveCount(ctx context.Context) (models.CapacityUsage, error)
}

// Service runs one sync cycle.
type Service struct {
	cfg      config.Settings
	lists    ListProvider
	movies   Library
	shows    Library
	capacity CapacitySource

	// now is injected so blackout and rotation decisions are testable
	// against fixed timestamps.
	now func() time.Time
}

func NewService(cfg config.Settings, lists ListProvider, movies, shows Library, usage CapacitySource) *Service {
	return &Service{
		cfg:      cfg,
		lists:    lists,
		movies:   movies,
		shows:    shows,
		capacity: usage,
		now:      time.Now,
	}
}

// Run executes one sync cycle. A matched blackout period aborts the run with
// no side effects and no error; a capacity-source failure or malformed
// blackout configuration is fatal. Individual list fetches and library adds
// that fail only skip that list or item for this cycle.
func (s *Service) Run(ctx context.Context) (models.RunSummary, error) {
	var sum models.RunSummary

	now := s.now()
	name, matched, err := schedule.ActivePeriod(now, s.cfg.BlackoutPeriods)
	if err != nil {
		return sum, fmt.Errorf("evaluate blackout periods: %w", err)
	}
	if matched {
		sum.BlackoutName = name
		log.Printf("[sync] Blackout period %q active, skipping run", name)
		return sum, nil
	}

	usage, err := s.capacity.ActiveCount(ctx)
	if err != nil {
		return sum, fmt.Errorf("query download capacity: %w", err)
	}

	alloc := capacity.Allocate(usage.Limit, usage.Active)
	log.Printf("[sync] Download capacity - limit %d, active %d, movie slots %d, shows allowed %t",
		usage.Limit, usage.Active, alloc.MovieSlots, alloc.ShowsAllowed)

	hour := now.Hour()

	if alloc.MovieSlots > 0 {
		sum.MoviesAdded = s.syncMovies(ctx, hour, alloc.MovieSlots)
	} else {
		log.Printf("[sync] No capacity for movies")
	}

	sum.ShowsAdded = s.syncShows(ctx, hour, alloc.ShowsAllowed)

	log.Printf("[sync] Added %d movies and %d shows", sum.MoviesAdded, sum.ShowsAdded)
	return sum, nil
}

// syncMovies walks the movie lists in rotated order, queuing items that are
// not yet in the library until the slot budget is spent.
func (s *Service) syncMovies(ctx context.Context, hour, slots int) int {
	lists := s.cfg.Movies
	start, err := schedule.StartIndex(hour, len(lists))
	if err != nil {
		log.Printf("[sync] No movie lists configured")
		return 0
	}
	log.Printf("[sync] Processing movies starting from list index %d", start)

	existing, err := s.movies.ExistingIDs(ctx)
	if err != nil {
		log.Printf("[sync] Failed to get existing movies, skipping movie sync: %v", err)
		return 0
	}
	log.Printf("[sync] Found %d existing movies in library", len(existing))

	added := 0
	for i := 0; i < len(lists) && added < slots; i++ {
		list := lists[(start+i)%len(lists)]

		items, err := s.lists.FetchListItems(ctx, list.ID)
		if err != nil {
			log.Printf("[sync] Failed to fetch list %s, skipping: %v", list.Name, err)
			continue
		}
		log.Printf("[sync] Fetched %d items from list %s", len(items), list.Name)

		for _, item := range items {
			if added >= slots {
				break
			}
			if item.MediaType != models.MediaTypeMovie || item.ID == 0 {
				continue
			}
			if _, ok := existing[item.ID]; ok {
				continue
			}

			title, err := s.movies.Add(ctx, item.ID, list)
			if err != nil {
				log.Printf("[sync] Failed to add movie %d: %v", item.ID, err)
				continue
			}
			// dedup against later lists in the same run
			existing[item.ID] = struct{}{}
			added++
			log.Printf("[sync] Added movie: %s", title)
		}
	}
	return added
}

// syncShows picks a single show list for this cycle and queues at most one
// show from it. Shows deliberately advance one list and one item per run; if
// every item of the selected list is already present, nothing is added and no
// other list is consulted.
func (s *Service) syncShows(ctx context.Context, hour int, allowed bool) int {
	if !allowed {
		log.Printf("[sync] Insufficient capacity for shows, skipping")
		return 0
	}

	lists := s.cfg.Shows
	idx, err := schedule.StartIndex(hour, len(lists))
	if err != nil {
		log.Printf("[sync] No show lists configured")
		return 0
	}
	list := lists[idx]
	log.Printf("[sync] Processing shows from list %s", list.Name)

	items, err := s.lists.FetchListItems(ctx, list.ID)
	if err != nil {
		log.Printf("[sync] Failed to fetch list %s, skipping show sync: %v", list.Name, err)
		return 0
	}

	existing, err := s.shows.ExistingIDs(ctx)
	if err != nil {
		log.Printf("[sync] Failed to get existing series, skipping show sync: %v", err)
		return 0
	}
	log.Printf("[sync] Found %d existing series in library", len(existing))

	for _, item := range items {
		if item.MediaType != models.MediaTypeShow || item.ID == 0 {
			continue
		}
		if _, ok := existing[item.ID]; ok {
			continue
		}

		title, err := s.shows.Add(ctx, item.ID, list)
		if err != nil {
			log.Printf("[sync] Failed to add series %d: %v", item.ID, err)
			continue
		}
		log.Printf("[sync] Added series: %s", title)
		return 1
	}

	log.Printf("[sync] No new shows in list %s this cycle", list.Name)
	return 0
}
