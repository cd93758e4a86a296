package pricing

import (
	"fmt"
	"time"
)

// SeasonRange is an inclusive, annually recurring date range. Ranges may wrap
// the year end (e.g. Dec 1 – Feb 28).
type SeasonRange struct {
	StartMonth time.Month `json:"start_month"`
	StartDay   int        `json:"start_day"`
	EndMonth   time.Month `json:"end_month"`
	EndDay     int        `json:"end_day"`
}

// contains reports whether the given month/day falls inside the range.
func (r SeasonRange) contains(month time.Month, day int) bool {
	start := int(r.StartMonth)*100 + r.StartDay
	end := int(r.EndMonth)*100 + r.EndDay
	point := int(month)*100 + day

	if start <= end {
		return point >= start && point <= end
	}
	// Wrapping range, e.g. Dec 1 – Feb 28.
	return point >= start || point <= end
}

// Season is a named recurring period with a pricing multiplier.
type Season struct {
	Name       string        `json:"name"`
	Multiplier float64       `json:"multiplier"`
	Ranges     []SeasonRange `json:"ranges"`
}

// Contains reports whether the date falls inside any of the season's ranges.
func (s Season) Contains(date time.Time) bool {
	for _, r := range s.Ranges {
		if r.contains(date.Month(), date.Day()) {
			return true
		}
	}
	return false
}

// ResolveSeason returns the active season for the travel date by range
// containment, first match wins. When no season matches, the default
// multiplier 1.0 applies and ok is false; this is never an error.
func (c *Catalog) ResolveSeason(date time.Time) (Season, bool) {
	for _, s := range c.Seasons {
		if s.Contains(date) {
			return s, true
		}
	}
	return Season{Name: "", Multiplier: 1.0}, false
}

// seasonsOverlap checks two seasons for any shared calendar day, scanning a
// leap year so Feb 29 is covered. Returns the first overlapping day found.
func seasonsOverlap(a, b Season) (bool, string) {
	// 2024 is a leap year; every month/day combination exists in it.
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 366; d++ {
		day := start.AddDate(0, 0, d)
		if a.Contains(day) && b.Contains(day) {
			return true, fmt.Sprintf("%s %d", day.Month(), day.Day())
		}
	}
	return false, ""
}
