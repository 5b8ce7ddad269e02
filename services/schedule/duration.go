package schedule

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
	"unicode"
)

// Seconds per unit. A year is a fixed 365 days; calendar arithmetic is
// deliberately not modeled.
var unitSeconds = map[rune]int64{
	's': 1,
	'm': 60,
	'h': 3600,
	'd': 86400,
	'w': 604800,
	'y': 31536000,
}

var errEmptyDuration = errors.New("empty duration")

// Largest total representable as a time.Duration without wrapping negative.
const maxSeconds = math.MaxInt64 / int64(time.Second)

// ParseDuration converts a composite duration string like "1d 2h 30m" into a
// time.Duration. Each token is a non-negative integer followed by one unit
// letter from s, m, h, d, w, y. Tokens may be separated by whitespace and are
// summed; a unit may appear at most once. Anything else is an error.
func ParseDuration(text string) (time.Duration, error) {
	runes := []rune(text)
	seen := make(map[rune]bool)
	var total int64
	i := 0
	tokens := 0

	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}
		start := i
		for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
			i++
		}
		if i == start {
			return 0, fmt.Errorf("parse duration %q: unexpected character %q", text, runes[i])
		}
		if i >= len(runes) {
			return 0, fmt.Errorf("parse duration %q: missing unit after %q", text, string(runes[start:i]))
		}
		unit := runes[i]
		mult, ok := unitSeconds[unit]
		if !ok {
			return 0, fmt.Errorf("parse duration %q: unknown unit %q", text, unit)
		}
		if seen[unit] {
			return 0, fmt.Errorf("parse duration %q: duplicate unit %q", text, unit)
		}
		seen[unit] = true
		i++

		value, err := strconv.ParseInt(string(runes[start:i-1]), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse duration %q: %w", text, err)
		}
		if value > (maxSeconds-total)/mult {
			return 0, fmt.Errorf("parse duration %q: exceeds maximum representable span", text)
		}
		total += value * mult
		tokens++
	}

	if tokens == 0 {
		return 0, fmt.Errorf("parse duration %q: %w", text, errEmptyDuration)
	}
	return time.Duration(total) * time.Second, nil
}
