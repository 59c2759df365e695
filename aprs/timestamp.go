package aprs

import (
	"fmt"
	"time"
)

// Length of every timestamp encoding: six digits and a format marker.
const timestampLen = 7

// A decoded timestamp may be at most this far after the reference instant.
const maxFutureSkew = 24 * time.Hour

// parseTimestamp converts one of the three 7-byte timestamp encodings into an
// absolute instant relative to now:
//
//	DDHHMMz  day, hour, minute in UTC
//	DDHHMM/  day, hour, minute in local time (loc)
//	HHMMSSh  hour, minute, second in UTC
func parseTimestamp(field []byte, now time.Time, loc *time.Location) (time.Time, error) {
	if len(field) < timestampLen {
		return time.Time{}, fmt.Errorf("%w: %q too short", ErrInvalidTimestamp, field)
	}
	field = field[:timestampLen]

	var n [3]int
	for i := 0; i < 3; i++ {
		hi, lo := field[2*i], field[2*i+1]
		if !isDigit(hi) || !isDigit(lo) {
			return time.Time{}, fmt.Errorf("%w: %q has non-digit fields", ErrInvalidTimestamp, field)
		}
		n[i] = int(hi-'0')*10 + int(lo-'0')
	}

	if loc == nil {
		loc = time.UTC
	}

	switch field[6] {
	case 'z':
		return resolveDayTime(n[0], n[1], n[2], now, time.UTC)
	case '/':
		return resolveDayTime(n[0], n[1], n[2], now, loc)
	case 'h':
		return resolveTimeOfDay(n[0], n[1], n[2], now)
	}
	return time.Time{}, fmt.Errorf("%w: unknown marker %q", ErrInvalidTimestamp, field[6])
}

// resolveDayTime picks the month (current or previous, in loc) whose
// instant for the given day/hour/minute is closest to now without being
// more than a day after it.
func resolveDayTime(day, hour, minute int, now time.Time, loc *time.Location) (time.Time, error) {
	if day < 1 || day > 31 || hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("%w: day %d hour %d minute %d out of range", ErrInvalidTimestamp, day, hour, minute)
	}

	ref := now.In(loc)
	var candidates []time.Time
	for _, offset := range []int{0, -1} {
		t := time.Date(ref.Year(), ref.Month()+time.Month(offset), day, hour, minute, 0, 0, loc)
		if t.Day() != day {
			// Day does not exist in that month.
			continue
		}
		candidates = append(candidates, t)
	}

	return closest(candidates, now, fmt.Sprintf("day %d", day))
}

// resolveTimeOfDay attaches an hour/minute/second to the UTC day (previous,
// current or next) that puts it closest to now.
func resolveTimeOfDay(hour, minute, second int, now time.Time) (time.Time, error) {
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("%w: hour %d minute %d second %d out of range", ErrInvalidTimestamp, hour, minute, second)
	}

	ref := now.UTC()
	var candidates []time.Time
	for _, offset := range []int{-1, 0, 1} {
		candidates = append(candidates, time.Date(ref.Year(), ref.Month(), ref.Day()+offset, hour, minute, second, 0, time.UTC))
	}

	return closest(candidates, now, "time of day")
}

func closest(candidates []time.Time, now time.Time, what string) (time.Time, error) {
	var best time.Time
	var bestDistance time.Duration
	found := false

	for _, t := range candidates {
		if t.Sub(now) > maxFutureSkew {
			continue
		}
		distance := t.Sub(now)
		if distance < 0 {
			distance = -distance
		}
		if !found || distance < bestDistance {
			best, bestDistance, found = t, distance, true
		}
	}

	if !found {
		return time.Time{}, fmt.Errorf("%w: no plausible instant for %s", ErrInvalidTimestamp, what)
	}
	return best.UTC(), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
