package quote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/recharge-travels/service-quotes/internal/domain/pricing"
	"github.com/recharge-travels/service-quotes/pkg/domain"
)

// calcCatalog builds a small catalog with predictable numbers. Colombo to
// "beach" is an unknown pair, so each leg resolves to the 75 km default and a
// round trip is 150 km.
func calcCatalog() *pricing.Catalog {
	return &pricing.Catalog{
		Destinations: map[string]pricing.Destination{
			"colombo": {ID: "colombo", Name: "Colombo"},
			"beach":   {ID: "beach", Name: "Beach"},
			"temple": {
				ID: "temple", Name: "Temple",
				EntranceFeeAdultCents: 1000,
				EntranceFeeChildCents: 500,
			},
		},
		Vehicles: map[string]pricing.Vehicle{
			"sedan": {
				ID: "sedan", Name: "Sedan",
				PerDayCents:      5000,
				ExtraKmRateCents: 20,
				IncludedKmPerDay: 100,
			},
		},
		Tiers: map[string]pricing.AccommodationTier{
			"standard": {ID: "standard", Name: "Standard", NightlyRateCents: 4000},
		},
		Activities: map[string]pricing.Activity{
			"safari":  {ID: "safari", Name: "Safari", PricePerPersonCents: 3000},
			"cooking": {ID: "cooking", Name: "Cooking Class", PricePerPersonCents: 2000, ChildPriced: true},
		},
		Services: map[string]pricing.AdditionalService{
			"guide":          {ID: "guide", Name: "Guide", PriceCents: 1500, PerDay: true},
			"simCard":        {ID: "simCard", Name: "SIM Card", PriceCents: 1000},
			"airportPickup":  {ID: "airportPickup", Name: "Airport Pickup", PriceCents: 3500},
			"airportDropoff": {ID: "airportDropoff", Name: "Airport Drop-off", PriceCents: 3500},
		},
		CurrencyRates: map[string]float64{"USD": 1, "AUD": 3.5},
		Payment:       pricing.PaymentTerms{DepositPercent: 0.20, BalanceDueDays: 30},
		Policy: pricing.Policy{
			OccupancyPerRoom:  2,
			DefaultLegKm:      75,
			AverageSpeedKmh:   40,
			QuoteValidityDays: 7,
		},
	}
}

func newTestCalculator(catalog *pricing.Catalog, now time.Time) *Calculator {
	resolver := pricing.NewRouteResolver(catalog, nil, nil, 0, zap.NewNop())
	return NewCalculator(catalog, resolver).WithClock(func() time.Time { return now })
}

var testNow = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

func baseSelection() TripSelection {
	return TripSelection{
		Destinations: []string{"beach"},
		StartDate:    testNow.AddDate(0, 0, 10),
		Days:         3,
		Adults:       2,
	}
}

func TestComputeVehicleOnlyWithinAllowance(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.VehicleID = "sedan"

	// 150 km round trip against 300 km included: rental only.
	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), q.SubtotalCents)
	assert.Equal(t, int64(15000), q.TotalUSDCents)
	assert.Equal(t, 150.0, q.DistanceKm)
	require.Len(t, q.LineItems, 1)
	assert.Equal(t, LineItemVehicle, q.LineItems[0].Kind)
}

func TestComputeChargesExtraMileage(t *testing.T) {
	catalog := calcCatalog()
	catalog.Policy.DefaultLegKm = 200 // 400 km round trip
	calc := newTestCalculator(catalog, testNow)

	sel := baseSelection()
	sel.VehicleID = "sedan"

	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)

	// 400 km - 300 km included = 100 km at 20 cents.
	require.Len(t, q.LineItems, 2)
	assert.Equal(t, LineItemExtraKm, q.LineItems[1].Kind)
	assert.Equal(t, int64(2000), q.LineItems[1].SubtotalCents)
	assert.Equal(t, int64(17000), q.TotalUSDCents)
}

func TestComputeAccommodationRoomsRoundUp(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.Adults = 3
	sel.Nights = 4
	sel.AccommodationTierID = "standard"

	// 3 travelers at 2 per room -> 2 rooms x 4 nights x $40.
	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, int64(32000), q.TotalUSDCents)
	require.Len(t, q.LineItems, 1)
	assert.Equal(t, LineItemAccommodation, q.LineItems[0].Kind)
	assert.Equal(t, 8.0, q.LineItems[0].Quantity)
}

func TestComputeDayTripSkipsAccommodation(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.Nights = 0
	sel.AccommodationTierID = "standard"

	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)
	assert.Empty(t, q.LineItems)
	assert.Zero(t, q.TotalUSDCents)
}

func TestComputeEntranceFeesPerHead(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.Destinations = []string{"temple"}
	sel.Adults = 2
	sel.Children = 1

	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)

	// 2 adults x $10 + 1 child x $5.
	assert.Equal(t, int64(2500), q.TotalUSDCents)
	require.Len(t, q.LineItems, 2)
	assert.Equal(t, LineItemEntranceFee, q.LineItems[0].Kind)
}

func TestComputeActivityChildPricing(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.Adults = 2
	sel.Children = 2
	sel.ActivityIDs = []string{"safari", "cooking"}

	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)

	// Safari bills adults only: 2 x $30. Cooking bills everyone: 4 x $20.
	assert.Equal(t, int64(6000), q.LineItems[0].SubtotalCents)
	assert.Equal(t, int64(8000), q.LineItems[1].SubtotalCents)
}

func TestComputeServicesFlatAndPerDay(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.Days = 5
	sel.ServiceIDs = []string{"guide", "simCard"}

	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)

	// Guide runs per day: 5 x $15. SIM card is flat.
	assert.Equal(t, int64(7500), q.LineItems[0].SubtotalCents)
	assert.Equal(t, int64(1000), q.LineItems[1].SubtotalCents)
}

func TestComputeAirportTransfers(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.VehicleID = "sedan"
	sel.AirportPickup = true
	sel.AirportDropoff = true

	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, int64(15000+3500+3500), q.TotalUSDCents)
}

func TestComputeAirportTransfersWithoutVehicle(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.AirportPickup = true
	sel.AirportDropoff = true

	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, int64(3500+3500), q.TotalUSDCents)
	assert.Len(t, q.LineItems, 2)
	for _, item := range q.LineItems {
		assert.Equal(t, LineItemTransfer, item.Kind)
	}
}

func TestComputeSeasonMultiplierOnWholeSubtotal(t *testing.T) {
	catalog := calcCatalog()
	catalog.Vehicles["sedan"] = pricing.Vehicle{
		ID: "sedan", Name: "Sedan", PerDayCents: 100000, IncludedKmPerDay: 1000,
	}
	catalog.Seasons = []pricing.Season{{
		Name: "peak", Multiplier: 1.2,
		Ranges: []pricing.SeasonRange{{StartMonth: time.June, StartDay: 1, EndMonth: time.June, EndDay: 30}},
	}}
	catalog.DiscountRules = []pricing.DiscountRule{
		{Name: "Group", Kind: pricing.DiscountGroupSize, Threshold: 2, Percent: 0.10},
	}
	calc := newTestCalculator(catalog, testNow)

	sel := baseSelection()
	sel.Days = 1
	sel.VehicleID = "sedan"
	sel.StartDate = time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	// $1000 x 1.2 season, then 10% off: $1080.
	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), q.SubtotalCents)
	assert.Equal(t, "peak", q.SeasonName)
	assert.Equal(t, int64(120000), q.SeasonAdjustedCents)
	assert.Equal(t, int64(108000), q.TotalUSDCents)
	require.Len(t, q.Discounts, 1)
	assert.Equal(t, int64(12000), q.Discounts[0].AmountCents)
}

func TestComputeDiscountsApplySequentially(t *testing.T) {
	catalog := calcCatalog()
	catalog.Vehicles["sedan"] = pricing.Vehicle{
		ID: "sedan", Name: "Sedan", PerDayCents: 100000, IncludedKmPerDay: 1000,
	}
	catalog.DiscountRules = []pricing.DiscountRule{
		{Name: "Group", Kind: pricing.DiscountGroupSize, Threshold: 2, Percent: 0.10},
		{Name: "Returning", Kind: pricing.DiscountReturning, Percent: 0.05},
	}
	calc := newTestCalculator(catalog, testNow)

	sel := baseSelection()
	sel.Days = 1
	sel.VehicleID = "sedan"
	sel.ReturningCustomer = true

	// 100000 -> 90000 -> 85500, not 85000.
	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, int64(85500), q.TotalUSDCents)
}

func TestComputeOneDiscountPerKind(t *testing.T) {
	catalog := calcCatalog()
	catalog.DiscountRules = []pricing.DiscountRule{
		{Name: "Group 15+", Kind: pricing.DiscountGroupSize, Threshold: 15, Percent: 0.10},
		{Name: "Group 10+", Kind: pricing.DiscountGroupSize, Threshold: 10, Percent: 0.08},
		{Name: "Group 6+", Kind: pricing.DiscountGroupSize, Threshold: 6, Percent: 0.05},
	}
	calc := newTestCalculator(catalog, testNow)

	sel := baseSelection()
	sel.Adults = 16
	sel.VehicleID = "sedan"

	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)
	require.Len(t, q.Discounts, 1)
	assert.Equal(t, "Group 15+", q.Discounts[0].Name)
}

func TestComputeTotalNeverGoesNegative(t *testing.T) {
	catalog := calcCatalog()
	catalog.DiscountRules = []pricing.DiscountRule{
		{Name: "Everything", Kind: pricing.DiscountGroupSize, Threshold: 1, Percent: 1.0},
		{Name: "More", Kind: pricing.DiscountReturning, Percent: 0.5},
	}
	calc := newTestCalculator(catalog, testNow)

	sel := baseSelection()
	sel.VehicleID = "sedan"
	sel.ReturningCustomer = true

	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)
	assert.Zero(t, q.TotalUSDCents)
	require.Len(t, q.Discounts, 2)
	assert.Zero(t, q.Discounts[1].AmountCents)
}

func TestComputeEarlyBirdUsesLeadDays(t *testing.T) {
	catalog := calcCatalog()
	catalog.DiscountRules = []pricing.DiscountRule{
		{Name: "Early Bird", Kind: pricing.DiscountEarlyBird, Threshold: 60, Percent: 0.05},
	}
	calc := newTestCalculator(catalog, testNow)

	sel := baseSelection()
	sel.VehicleID = "sedan"
	sel.StartDate = testNow.AddDate(0, 0, 59)

	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)
	assert.Empty(t, q.Discounts)

	sel.StartDate = testNow.AddDate(0, 0, 61)
	q, err = calc.Compute(context.Background(), sel)
	require.NoError(t, err)
	require.Len(t, q.Discounts, 1)
}

func TestComputeCurrencyConversion(t *testing.T) {
	catalog := calcCatalog()
	catalog.Vehicles["sedan"] = pricing.Vehicle{
		ID: "sedan", Name: "Sedan", PerDayCents: 25000, IncludedKmPerDay: 1000,
	}
	calc := newTestCalculator(catalog, testNow)

	sel := baseSelection()
	sel.Days = 1
	sel.VehicleID = "sedan"
	sel.Currency = "aud"

	// $250 at 3.5 -> 875.00 in AUD; USD totals unchanged.
	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, "AUD", q.Currency)
	assert.Equal(t, 3.5, q.CurrencyRate)
	assert.Equal(t, int64(25000), q.TotalUSDCents)
	assert.Equal(t, int64(87500), q.DisplayTotalCents)
}

func TestComputeUnsupportedCurrency(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.Currency = "JPY"

	_, err := calc.Compute(context.Background(), sel)
	require.ErrorIs(t, err, pricing.ErrUnsupportedCurrency)
}

func TestComputeUnknownDestination(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.Destinations = []string{"narnia"}

	_, err := calc.Compute(context.Background(), sel)
	require.ErrorIs(t, err, pricing.ErrUnknownDestination)
}

func TestComputeUnknownVehicle(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.VehicleID = "rocket"

	_, err := calc.Compute(context.Background(), sel)
	require.ErrorIs(t, err, pricing.ErrUnknownLineItem)
}

func TestComputeInvalidTripDuration(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.VehicleID = "sedan"
	sel.Days = 0

	_, err := calc.Compute(context.Background(), sel)
	require.ErrorIs(t, err, pricing.ErrInvalidTripDuration)
}

func TestComputeRejectsNegativeDays(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.Days = -5
	sel.ServiceIDs = []string{"guide"}

	_, err := calc.Compute(context.Background(), sel)
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestComputeRequiresAnAdult(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.Adults = 0

	_, err := calc.Compute(context.Background(), sel)
	require.Error(t, err)
}

func TestComputeDepositSplit(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.VehicleID = "sedan"

	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), q.DepositCents)
	assert.Equal(t, q.TotalUSDCents, q.DepositCents+q.BalanceCents)
	assert.Equal(t, 30, q.BalanceDueDays)
}

func TestComputeIsDeterministic(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	sel := baseSelection()
	sel.VehicleID = "sedan"
	sel.Nights = 2
	sel.AccommodationTierID = "standard"
	sel.ActivityIDs = []string{"safari"}

	first, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)
	second, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)

	// Quote numbers are random; everything priced must match exactly.
	assert.Equal(t, first.LineItems, second.LineItems)
	assert.Equal(t, first.TotalUSDCents, second.TotalUSDCents)
	assert.Equal(t, first.DepositCents, second.DepositCents)
	assert.NotEqual(t, first.QuoteNumber, second.QuoteNumber)
}

func TestComputeValidityWindow(t *testing.T) {
	calc := newTestCalculator(calcCatalog(), testNow)

	q, err := calc.Compute(context.Background(), baseSelection())
	require.NoError(t, err)
	assert.Equal(t, testNow, q.GeneratedAt)
	assert.Equal(t, testNow.AddDate(0, 0, 7), q.ValidUntil)
}

func TestComputePerPersonAndPerDay(t *testing.T) {
	catalog := calcCatalog()
	catalog.Vehicles["sedan"] = pricing.Vehicle{
		ID: "sedan", Name: "Sedan", PerDayCents: 30000, IncludedKmPerDay: 1000,
	}
	calc := newTestCalculator(catalog, testNow)

	sel := baseSelection()
	sel.Days = 3
	sel.Adults = 2
	sel.Children = 1
	sel.VehicleID = "sedan"

	q, err := calc.Compute(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, int64(90000), q.TotalUSDCents)
	assert.Equal(t, int64(30000), q.PerPersonCents)
	assert.Equal(t, int64(30000), q.PerDayCents)
}
