// Package timegrid works with the shop's local wall-clock strings. Dates are
// "2006-01-02" calendar days and times are "15:04" local times; nothing here
// converts between time zones.
package timegrid

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

func ValidDate(date string) bool {
	parsed, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	// Reject normalized inputs like "2026-02-30".
	return parsed.Format(DateLayout) == date
}

func ValidTime(t string) bool {
	parsed, err := time.Parse(TimeLayout, t)
	if err != nil {
		return false
	}
	return parsed.Format(TimeLayout) == t
}

// Minutes returns the minutes-since-midnight value of a wall-clock string.
func Minutes(t string) (int, error) {
	parsed, err := time.Parse(TimeLayout, t)
	if err != nil {
		return 0, fmt.Errorf("invalid wall-clock time %q: %w", t, err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

func FromMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func AddMinutes(t string, delta int) (string, error) {
	m, err := Minutes(t)
	if err != nil {
		return "", err
	}
	return FromMinutes(m + delta), nil
}

// Before reports a < b for wall-clock strings. Both must be valid.
func Before(a, b string) bool {
	ma, errA := Minutes(a)
	mb, errB := Minutes(b)
	if errA != nil || errB != nil {
		return false
	}
	return ma < mb
}

// Generate builds the day's slot start times from opening through closing
// inclusive. Opening 09:00, closing 17:00 at 30-minute steps yields 17
// starts, 17:00 included.
func Generate(opening, closing string, intervalMin int) ([]string, error) {
	if intervalMin <= 0 {
		return nil, fmt.Errorf("slot interval must be positive, got %d", intervalMin)
	}

	start, err := Minutes(opening)
	if err != nil {
		return nil, err
	}

	end, err := Minutes(closing)
	if err != nil {
		return nil, err
	}

	if end < start {
		return nil, fmt.Errorf("closing time %s precedes opening time %s", closing, opening)
	}

	var slots []string
	for m := start; m <= end; m += intervalMin {
		slots = append(slots, FromMinutes(m))
	}

	return slots, nil
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return Before(aStart, bEnd) && Before(bStart, aEnd)
}
