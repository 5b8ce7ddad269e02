package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"mediasync/config"
)

const minutesPerDay = 24 * 60

// Absolute-instant layouts accepted for once periods. The zoneless layout is
// interpreted in the local time of the supplied clock.
var onceLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

// ActivePeriod reports the first enabled blackout period containing now.
// A malformed enabled period is a configuration error and is returned rather
// than skipped: silently ignoring a quiet window would defeat its purpose.
func ActivePeriod(now time.Time, periods []config.BlackoutPeriod) (string, bool, error) {
	for _, p := range periods {
		if !p.Enabled {
			continue
		}
		match, err := periodContains(now, p)
		if err != nil {
			return "", false, fmt.Errorf("blackout period %q: %w", p.Name, err)
		}
		if match {
			return p.Name, true, nil
		}
	}
	return "", false, nil
}

// ValidatePeriods checks the window definition of every enabled period
// without evaluating it, so configuration errors surface at startup instead
// of mid-run.
func ValidatePeriods(periods []config.BlackoutPeriod) error {
	for _, p := range periods {
		if !p.Enabled {
			continue
		}
		var err error
		switch p.Recurring {
		case config.RecurringDaily:
			_, _, err = dailyWindow(p)
		case config.RecurringOnce:
			_, _, err = onceWindow(p, time.Local)
		default:
			err = fmt.Errorf("unknown recurrence %q", p.Recurring)
		}
		if err != nil {
			return fmt.Errorf("blackout period %q: %w", p.Name, err)
		}
	}
	return nil
}

func periodContains(now time.Time, p config.BlackoutPeriod) (bool, error) {
	switch p.Recurring {
	case config.RecurringOnce:
		start, end, err := onceWindow(p, now.Location())
		if err != nil {
			return false, err
		}
		return !now.Before(start) && now.Before(end), nil

	case config.RecurringDaily:
		startMin, endMin, err := dailyWindow(p)
		if err != nil {
			return false, err
		}
		t := now.Hour()*60 + now.Minute()
		if startMin <= endMin {
			return startMin <= t && t < endMin, nil
		}
		// window crosses midnight, e.g. 23:00-06:00
		return t >= startMin || t < endMin, nil

	default:
		return false, fmt.Errorf("unknown recurrence %q", p.Recurring)
	}
}

// dailyWindow resolves a daily period to start/end minutes of day. The end is
// either the explicit end time or the start plus the duration, rolled past
// midnight when needed.
func dailyWindow(p config.BlackoutPeriod) (int, int, error) {
	startMin, err := parseClock(p.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("startTime: %w", err)
	}

	hasEnd := p.EndTime != ""
	hasDur := p.Duration != ""
	if hasEnd == hasDur {
		return 0, 0, fmt.Errorf("exactly one of endTime or duration is required")
	}

	if hasEnd {
		endMin, err := parseClock(p.EndTime)
		if err != nil {
			return 0, 0, fmt.Errorf("endTime: %w", err)
		}
		return startMin, endMin, nil
	}

	d, err := ParseDuration(p.Duration)
	if err != nil {
		return 0, 0, err
	}
	durMin := int(d / time.Minute)
	if d%time.Minute != 0 {
		durMin++
	}
	// a duration of a full day or more wraps onto the start, leaving an
	// empty window that never blocks
	if durMin <= 0 || durMin >= minutesPerDay {
		return 0, 0, fmt.Errorf("duration %q must be positive and shorter than 24h", p.Duration)
	}
	endMin := (startMin + durMin) % minutesPerDay
	return startMin, endMin, nil
}

// onceWindow resolves a once period to an absolute [start, end) window.
func onceWindow(p config.BlackoutPeriod, loc *time.Location) (time.Time, time.Time, error) {
	start, err := parseInstant(p.Start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}

	hasEnd := p.End != ""
	hasDur := p.Duration != ""
	if hasEnd == hasDur {
		return time.Time{}, time.Time{}, fmt.Errorf("exactly one of end or duration is required")
	}

	if hasEnd {
		end, err := parseInstant(p.End, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
		}
		return start, end, nil
	}

	d, err := ParseDuration(p.Duration)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(d), nil
}

// parseClock parses "HH:MM" into minutes of day.
func parseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}

func parseInstant(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing instant")
	}
	var lastErr error
	for _, layout := range onceLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
