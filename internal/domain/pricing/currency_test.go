package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertUSDIsIdentity(t *testing.T) {
	catalog := DefaultCatalog()

	got, err := catalog.Convert(123456, "USD")
	require.NoError(t, err)
	assert.Equal(t, int64(123456), got)
}

func TestConvertRoundsToNearestCent(t *testing.T) {
	catalog := &Catalog{CurrencyRates: map[string]float64{"USD": 1, "EUR": 0.92}}

	// 101 * 0.92 = 92.92 -> 93
	got, err := catalog.Convert(101, "EUR")
	require.NoError(t, err)
	assert.Equal(t, int64(93), got)
}

func TestConvertAppliesConfiguredRate(t *testing.T) {
	catalog := &Catalog{CurrencyRates: map[string]float64{"USD": 1, "LKR": 325}}

	got, err := catalog.Convert(25000, "LKR")
	require.NoError(t, err)
	assert.Equal(t, int64(8125000), got)
}

func TestConvertRoundTripsWithinOneCent(t *testing.T) {
	catalog := DefaultCatalog()
	amounts := []int64{1, 99, 101, 185000, 1234567}

	for code, rate := range catalog.CurrencyRates {
		for _, amount := range amounts {
			converted, err := catalog.Convert(amount, code)
			require.NoError(t, err)

			back := int64(math.Round(float64(converted) / rate))
			assert.InDelta(t, amount, back, 1, "%s %d", code, amount)
		}
	}
}

func TestConvertUnsupportedCurrency(t *testing.T) {
	catalog := DefaultCatalog()

	_, err := catalog.Convert(1000, "JPY")
	require.ErrorIs(t, err, ErrUnsupportedCurrency)
}
