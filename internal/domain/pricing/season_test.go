package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSeasonRangeContains(t *testing.T) {
	plain := SeasonRange{StartMonth: time.March, StartDay: 1, EndMonth: time.April, EndDay: 30}
	assert.True(t, plain.contains(time.March, 1))
	assert.True(t, plain.contains(time.April, 30))
	assert.False(t, plain.contains(time.May, 1))
	assert.False(t, plain.contains(time.February, 28))
}

func TestSeasonRangeWrapsYearEnd(t *testing.T) {
	wrap := SeasonRange{StartMonth: time.December, StartDay: 1, EndMonth: time.February, EndDay: 29}

	assert.True(t, wrap.contains(time.December, 25))
	assert.True(t, wrap.contains(time.January, 15))
	assert.True(t, wrap.contains(time.February, 29))
	assert.False(t, wrap.contains(time.March, 1))
	assert.False(t, wrap.contains(time.November, 30))
}

func TestResolveSeasonFirstMatchWins(t *testing.T) {
	catalog := &Catalog{
		Seasons: []Season{
			{Name: "first", Multiplier: 1.2, Ranges: []SeasonRange{
				{StartMonth: time.July, StartDay: 1, EndMonth: time.August, EndDay: 31},
			}},
			{Name: "second", Multiplier: 1.5, Ranges: []SeasonRange{
				{StartMonth: time.August, StartDay: 1, EndMonth: time.September, EndDay: 30},
			}},
		},
	}

	season, ok := catalog.ResolveSeason(date(2026, time.August, 10))
	assert.True(t, ok)
	assert.Equal(t, "first", season.Name)
	assert.Equal(t, 1.2, season.Multiplier)
}

func TestResolveSeasonDefaultsToNeutralMultiplier(t *testing.T) {
	catalog := &Catalog{
		Seasons: []Season{
			{Name: "peak", Multiplier: 1.2, Ranges: []SeasonRange{
				{StartMonth: time.December, StartDay: 1, EndMonth: time.February, EndDay: 29},
			}},
		},
	}

	season, ok := catalog.ResolveSeason(date(2026, time.June, 15))
	assert.False(t, ok)
	assert.Empty(t, season.Name)
	assert.Equal(t, 1.0, season.Multiplier)
}

func TestDefaultCatalogSeasonsCoverWholeYear(t *testing.T) {
	catalog := DefaultCatalog()

	// Every day of a leap year resolves to exactly one named season.
	start := date(2024, time.January, 1)
	for d := 0; d < 366; d++ {
		day := start.AddDate(0, 0, d)
		season, ok := catalog.ResolveSeason(day)
		assert.True(t, ok, "no season for %s", day.Format("Jan 2"))
		assert.NotEmpty(t, season.Name)
	}
}
