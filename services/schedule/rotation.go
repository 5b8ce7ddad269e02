package schedule

import "errors"

const hoursPerDay = 24

// ErrNoLists is returned when a rotation index is requested over an empty
// list collection.
var ErrNoLists = errors.New("no lists configured")

// StartIndex picks the list to start from this cycle: the local hour of day
// modulo the number of configured lists. Hours at or past 24 are reduced to
// the hour of day first, so the same wall-clock hour always selects the same
// index. It is a pure function of the hour, so consecutive hourly runs walk
// the lists fairly without any stored state.
func StartIndex(hour, listCount int) (int, error) {
	if listCount <= 0 {
		return 0, ErrNoLists
	}
	return (hour % hoursPerDay) % listCount, nil
}
