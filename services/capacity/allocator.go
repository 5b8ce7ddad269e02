// Package capacity splits the debrid account's remaining download slots
// between movie and show additions.
package capacity

// A show add pulls in a whole season pack, so shows require a larger
// remaining-slot margin than a single movie.
const showSlotFloor = 10

// Allocation is the per-run slot budget.
type Allocation struct {
	MovieSlots   int
	ShowsAllowed bool
}

// Allocate computes the movie slot budget and show permission from the
// account limit and the currently active download count. Half of the limit
// is held back as a standing buffer. The external service may already be
// over-committed (active > limit); everything clamps to zero, never negative.
func Allocate(limit, active int) Allocation {
	halfDownload := limit / 2
	downloadLeft := limit - active
	if downloadLeft < 0 {
		downloadLeft = 0
	}
	movieSlots := downloadLeft - halfDownload
	if movieSlots < 0 {
		movieSlots = 0
	}
	return Allocation{
		MovieSlots:   movieSlots,
		ShowsAllowed: downloadLeft >= showSlotFloor,
	}
}
