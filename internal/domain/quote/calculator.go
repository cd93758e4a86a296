package quote

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/recharge-travels/service-quotes/internal/domain/pricing"
)

// Calculator computes quotes against an injected read-only catalog. Each
// computation is a stateless single pass over the selection; concurrent
// computations share nothing but the catalog.
type Calculator struct {
	catalog *pricing.Catalog
	routes  *pricing.RouteResolver
	now     func() time.Time
}

// NewCalculator builds a Calculator. The route resolver is required; the
// clock defaults to UTC wall time and is injectable for tests.
func NewCalculator(catalog *pricing.Catalog, routes *pricing.RouteResolver) *Calculator {
	return &Calculator{
		catalog: catalog,
		routes:  routes,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the calculator's clock.
func (c *Calculator) WithClock(now func() time.Time) *Calculator {
	c.now = now
	return c
}

// Compute runs the full pricing pipeline and returns an immutable Quote.
// Caller-input errors (unknown IDs, invalid duration, unsupported currency)
// propagate unchanged; route lookup failures degrade inside the resolver and
// never fail the quote.
func (c *Calculator) Compute(ctx context.Context, sel TripSelection) (*Quote, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	route, err := c.routes.TotalRoute(ctx, sel.Destinations)
	if err != nil {
		return nil, err
	}

	var items []LineItem

	vehicleItems, err := c.vehicleItems(sel, route.DistanceKm)
	if err != nil {
		return nil, err
	}
	items = append(items, vehicleItems...)
	items = append(items, c.transferItems(sel)...)

	accommodationItems, err := c.accommodationItems(sel)
	if err != nil {
		return nil, err
	}
	items = append(items, accommodationItems...)

	items = append(items, c.entranceFeeItems(sel)...)

	activityItems, err := c.activityItems(sel)
	if err != nil {
		return nil, err
	}
	items = append(items, activityItems...)

	serviceItems, err := c.serviceItems(sel)
	if err != nil {
		return nil, err
	}
	items = append(items, serviceItems...)

	var subtotal int64
	for _, it := range items {
		subtotal += it.SubtotalCents
	}

	season, _ := c.catalog.ResolveSeason(sel.StartDate)
	adjusted := roundCents(float64(subtotal) * season.Multiplier)

	now := c.now()
	discounts, total := c.applyDiscounts(sel, adjusted, now)

	currency := sel.DisplayCurrency()
	rate, ok := c.catalog.Rate(currency)
	if !ok {
		return nil, fmt.Errorf("%w: %s", pricing.ErrUnsupportedCurrency, currency)
	}
	displayTotal, err := c.catalog.Convert(total, currency)
	if err != nil {
		return nil, err
	}

	deposit := roundCents(float64(total) * c.catalog.Payment.DepositPercent)

	travelers := sel.Travelers()
	var perPerson, perDay int64
	if travelers > 0 {
		perPerson = roundCents(float64(total) / float64(travelers))
	}
	if sel.Days > 0 {
		perDay = roundCents(float64(total) / float64(sel.Days))
	}

	number, err := generateQuoteNumber()
	if err != nil {
		return nil, err
	}

	return &Quote{
		QuoteNumber:         number,
		LineItems:           items,
		SubtotalCents:       subtotal,
		SeasonName:          season.Name,
		SeasonMultiplier:    season.Multiplier,
		SeasonAdjustedCents: adjusted,
		Discounts:           discounts,
		TotalUSDCents:       total,
		DepositCents:        deposit,
		BalanceCents:        total - deposit,
		BalanceDueDays:      c.catalog.Payment.BalanceDueDays,
		Currency:            currency,
		CurrencyRate:        rate,
		DisplayTotalCents:   displayTotal,
		PerPersonCents:      perPerson,
		PerDayCents:         perDay,
		Travelers:           travelers,
		Days:                sel.Days,
		Nights:              sel.Nights,
		DistanceKm:          route.DistanceKm,
		DurationMinutes:     route.DurationMinutes,
		GeneratedAt:         now,
		ValidUntil:          now.AddDate(0, 0, c.catalog.Policy.QuoteValidityDays),
	}, nil
}

// vehicleItems prices the rental plus any mileage beyond the daily allowance.
func (c *Calculator) vehicleItems(sel TripSelection, totalKm float64) ([]LineItem, error) {
	if sel.VehicleID == "" {
		return nil, nil
	}
	vehicle, ok := c.catalog.Vehicle(sel.VehicleID)
	if !ok {
		return nil, fmt.Errorf("%w: vehicle %s", pricing.ErrUnknownLineItem, sel.VehicleID)
	}
	if sel.Days < 1 {
		return nil, fmt.Errorf("%w: %d days", pricing.ErrInvalidTripDuration, sel.Days)
	}

	items := []LineItem{{
		Kind:           LineItemVehicle,
		Label:          fmt.Sprintf("%s - %d days", vehicle.Name, sel.Days),
		UnitPriceCents: vehicle.PerDayCents,
		Quantity:       float64(sel.Days),
		SubtotalCents:  vehicle.PerDayCents * int64(sel.Days),
	}}

	extraKm := totalKm - vehicle.IncludedKmPerDay*float64(sel.Days)
	if extraKm > 0 {
		items = append(items, LineItem{
			Kind:           LineItemExtraKm,
			Label:          fmt.Sprintf("Extra mileage (%.0f km)", extraKm),
			UnitPriceCents: vehicle.ExtraKmRateCents,
			Quantity:       extraKm,
			SubtotalCents:  roundCents(extraKm * float64(vehicle.ExtraKmRateCents)),
		})
	}

	return items, nil
}

// transferItems adds airport pickup and drop-off when toggled on the
// selection. The services are catalog entries; a catalog without them simply
// prices the toggles at nothing.
func (c *Calculator) transferItems(sel TripSelection) []LineItem {
	var items []LineItem
	if sel.AirportPickup {
		if svc, ok := c.catalog.Service("airportPickup"); ok {
			items = append(items, LineItem{
				Kind:           LineItemTransfer,
				Label:          svc.Name,
				UnitPriceCents: svc.PriceCents,
				Quantity:       1,
				SubtotalCents:  svc.PriceCents,
			})
		}
	}
	if sel.AirportDropoff {
		if svc, ok := c.catalog.Service("airportDropoff"); ok {
			items = append(items, LineItem{
				Kind:           LineItemTransfer,
				Label:          svc.Name,
				UnitPriceCents: svc.PriceCents,
				Quantity:       1,
				SubtotalCents:  svc.PriceCents,
			})
		}
	}
	return items
}

// accommodationItems prices rooms for the stay. Rooms follow the
// occupancy-per-room policy, rounded up. Zero nights is a valid day trip.
func (c *Calculator) accommodationItems(sel TripSelection) ([]LineItem, error) {
	if sel.AccommodationTierID == "" || sel.Nights == 0 {
		return nil, nil
	}
	tier, ok := c.catalog.Tier(sel.AccommodationTierID)
	if !ok {
		return nil, fmt.Errorf("%w: accommodation tier %s", pricing.ErrUnknownLineItem, sel.AccommodationTierID)
	}

	rooms := roomsNeeded(sel.Travelers(), c.catalog.Policy.OccupancyPerRoom)
	quantity := rooms * sel.Nights
	return []LineItem{{
		Kind:           LineItemAccommodation,
		Label:          fmt.Sprintf("%s - %d room(s) x %d nights", tier.Name, rooms, sel.Nights),
		UnitPriceCents: tier.NightlyRateCents,
		Quantity:       float64(quantity),
		SubtotalCents:  tier.NightlyRateCents * int64(quantity),
	}}, nil
}

func roomsNeeded(travelers, occupancy int) int {
	if travelers <= 0 {
		return 0
	}
	if occupancy < 1 {
		occupancy = 1
	}
	return (travelers + occupancy - 1) / occupancy
}

// entranceFeeItems adds per-destination entrance fees for adults and
// children. Destination IDs were already validated by the route resolver.
func (c *Calculator) entranceFeeItems(sel TripSelection) []LineItem {
	var items []LineItem
	for _, id := range sel.Destinations {
		dest, ok := c.catalog.Destination(id)
		if !ok {
			continue
		}
		if dest.EntranceFeeAdultCents > 0 && sel.Adults > 0 {
			items = append(items, LineItem{
				Kind:           LineItemEntranceFee,
				Label:          dest.Name + " - Adults",
				UnitPriceCents: dest.EntranceFeeAdultCents,
				Quantity:       float64(sel.Adults),
				SubtotalCents:  dest.EntranceFeeAdultCents * int64(sel.Adults),
			})
		}
		if dest.EntranceFeeChildCents > 0 && sel.Children > 0 {
			items = append(items, LineItem{
				Kind:           LineItemEntranceFee,
				Label:          dest.Name + " - Children",
				UnitPriceCents: dest.EntranceFeeChildCents,
				Quantity:       float64(sel.Children),
				SubtotalCents:  dest.EntranceFeeChildCents * int64(sel.Children),
			})
		}
	}
	return items
}

// activityItems prices selected activities per person. Children count only
// for activities flagged child-priced.
func (c *Calculator) activityItems(sel TripSelection) ([]LineItem, error) {
	var items []LineItem
	for _, id := range sel.ActivityIDs {
		activity, ok := c.catalog.Activity(id)
		if !ok {
			return nil, fmt.Errorf("%w: activity %s", pricing.ErrUnknownLineItem, id)
		}
		pax := sel.Adults
		if activity.ChildPriced {
			pax += sel.Children
		}
		items = append(items, LineItem{
			Kind:           LineItemActivity,
			Label:          activity.Name,
			UnitPriceCents: activity.PricePerPersonCents,
			Quantity:       float64(pax),
			SubtotalCents:  activity.PricePerPersonCents * int64(pax),
		})
	}
	return items, nil
}

// serviceItems prices additional services, flat or per day.
func (c *Calculator) serviceItems(sel TripSelection) ([]LineItem, error) {
	var items []LineItem
	for _, id := range sel.ServiceIDs {
		svc, ok := c.catalog.Service(id)
		if !ok {
			return nil, fmt.Errorf("%w: service %s", pricing.ErrUnknownLineItem, id)
		}
		quantity := 1
		if svc.PerDay {
			quantity = sel.Days
		}
		items = append(items, LineItem{
			Kind:           LineItemService,
			Label:          svc.Name,
			UnitPriceCents: svc.PriceCents,
			Quantity:       float64(quantity),
			SubtotalCents:  svc.PriceCents * int64(quantity),
		})
	}
	return items, nil
}

// applyDiscounts evaluates rules in catalog order against the running total.
// Each qualifying rule reduces the current total, at most one rule per kind.
// The total never goes below zero; the rule that would cross zero has its
// amount capped.
func (c *Calculator) applyDiscounts(sel TripSelection, subtotal int64, now time.Time) ([]AppliedDiscount, int64) {
	leadDays := int(math.Floor(sel.StartDate.Sub(now).Hours() / 24))
	travelers := sel.Travelers()

	running := subtotal
	var applied []AppliedDiscount
	appliedKinds := make(map[pricing.DiscountKind]bool)

	for _, rule := range c.catalog.DiscountRules {
		if appliedKinds[rule.Kind] {
			continue
		}
		qualifies := false
		switch rule.Kind {
		case pricing.DiscountGroupSize:
			qualifies = travelers >= rule.Threshold
		case pricing.DiscountEarlyBird:
			qualifies = leadDays >= rule.Threshold
		case pricing.DiscountLongStay:
			qualifies = sel.Days >= rule.Threshold
		case pricing.DiscountReturning:
			qualifies = sel.ReturningCustomer
		}
		if !qualifies {
			continue
		}

		amount := roundCents(float64(running) * rule.Percent)
		if amount > running {
			amount = running
		}
		running -= amount
		applied = append(applied, AppliedDiscount{
			Name:        rule.Name,
			Percent:     rule.Percent,
			AmountCents: amount,
		})
		appliedKinds[rule.Kind] = true
	}
	return applied, running
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
