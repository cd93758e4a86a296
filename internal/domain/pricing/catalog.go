package pricing

import (
	"fmt"
	"sort"
	"strings"
)

// Destination is immutable reference data for a named place.
type Destination struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Region                string  `json:"region"`
	DistanceFromColomboKm float64 `json:"distance_from_colombo_km"`
	EntranceFeeAdultCents int64   `json:"entrance_fee_adult_cents"`
	EntranceFeeChildCents int64   `json:"entrance_fee_child_cents"`
	SuggestedDurationDays float64 `json:"suggested_duration_days"`
}

// Vehicle is a class of transport with per-day and extra-km pricing.
type Vehicle struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	MaxPassengers    int     `json:"max_passengers"`
	MaxLuggage       int     `json:"max_luggage"`
	PerDayCents      int64   `json:"per_day_cents"`
	ExtraKmRateCents int64   `json:"extra_km_rate_cents"`
	IncludedKmPerDay float64 `json:"included_km_per_day"`
}

// AccommodationTier is a lodging grade with a flat nightly per-room rate.
type AccommodationTier struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	NightlyRateCents int64  `json:"nightly_rate_cents"`
}

// Activity is an optional bookable add-on priced per person.
type Activity struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Category            string `json:"category"`
	PricePerPersonCents int64  `json:"price_per_person_cents"`
	// ChildPriced marks activities where children are billed alongside adults.
	ChildPriced   bool   `json:"child_priced"`
	Duration      string `json:"duration"`
	DestinationID string `json:"destination_id,omitempty"`
}

// AdditionalService is a paid extra, priced flat or per day.
type AdditionalService struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"price_cents"`
	PerDay      bool   `json:"per_day"`
	Description string `json:"description"`
}

// DiscountKind identifies the qualifying condition of a discount rule.
type DiscountKind string

const (
	DiscountGroupSize DiscountKind = "group_size"
	DiscountEarlyBird DiscountKind = "early_bird"
	DiscountLongStay  DiscountKind = "long_stay"
	DiscountReturning DiscountKind = "returning_customer"
)

// DiscountRule maps a qualifying condition to a percentage reduction.
// Rules are evaluated in catalog order; at most one rule per kind applies,
// so tiered group rules must be listed highest threshold first.
type DiscountRule struct {
	Name      string       `json:"name"`
	Kind      DiscountKind `json:"kind"`
	Threshold int          `json:"threshold"`
	Percent   float64      `json:"percent"`
}

// PaymentTerms controls deposit and balance computation on a quote.
type PaymentTerms struct {
	DepositPercent float64 `json:"deposit_percent"`
	BalanceDueDays int     `json:"balance_due_days"`
}

// Policy holds cross-cutting pricing policy knobs.
type Policy struct {
	// OccupancyPerRoom is the number of travelers per room, rounded up.
	OccupancyPerRoom int `json:"occupancy_per_room"`
	// DefaultLegKm is the conservative estimate used when a route pair is
	// unknown and the external lookup is unavailable or fails.
	DefaultLegKm float64 `json:"default_leg_km"`
	// AverageSpeedKmh converts tabulated distances into duration estimates.
	AverageSpeedKmh float64 `json:"average_speed_kmh"`
	// QuoteValidityDays is how long an issued quote remains valid.
	QuoteValidityDays int `json:"quote_validity_days"`
}

// Catalog is the read-only pricing configuration the quote engine computes
// against. It is constructed once (from defaults or admin-managed data) and
// injected; the engine never mutates it.
type Catalog struct {
	Destinations   map[string]Destination
	Vehicles       map[string]Vehicle
	Tiers          map[string]AccommodationTier
	Activities     map[string]Activity
	Services       map[string]AdditionalService
	Seasons        []Season
	DiscountRules  []DiscountRule
	CurrencyRates  map[string]float64
	RouteDistances map[string]float64
	Payment        PaymentTerms
	Policy         Policy
}

// routeKey normalizes a destination pair into an order-independent map key.
func routeKey(from, to string) string {
	if from > to {
		from, to = to, from
	}
	return from + "|" + to
}

// Destination looks up a destination by ID.
func (c *Catalog) Destination(id string) (Destination, bool) {
	d, ok := c.Destinations[id]
	return d, ok
}

// Vehicle looks up a vehicle class by ID.
func (c *Catalog) Vehicle(id string) (Vehicle, bool) {
	v, ok := c.Vehicles[id]
	return v, ok
}

// Tier looks up an accommodation tier by ID.
func (c *Catalog) Tier(id string) (AccommodationTier, bool) {
	t, ok := c.Tiers[id]
	return t, ok
}

// Activity looks up an activity by ID.
func (c *Catalog) Activity(id string) (Activity, bool) {
	a, ok := c.Activities[id]
	return a, ok
}

// Service looks up an additional service by ID.
func (c *Catalog) Service(id string) (AdditionalService, bool) {
	s, ok := c.Services[id]
	return s, ok
}

// RouteDistanceKm returns the tabulated distance between two destinations,
// in either direction.
func (c *Catalog) RouteDistanceKm(from, to string) (float64, bool) {
	km, ok := c.RouteDistances[routeKey(from, to)]
	return km, ok
}

// Rate returns the USD exchange rate for a currency code.
func (c *Catalog) Rate(currency string) (float64, bool) {
	rate, ok := c.CurrencyRates[strings.ToUpper(currency)]
	return rate, ok
}

// SortedDestinations returns destinations ordered by ID for stable listings.
func (c *Catalog) SortedDestinations() []Destination {
	out := make([]Destination, 0, len(c.Destinations))
	for _, d := range c.Destinations {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Validate checks config-authoring invariants: positive rates, known
// references, and non-overlapping season ranges. Overlap is an authoring
// error, not a runtime decision; at runtime the first matching season wins.
func (c *Catalog) Validate() error {
	for id, v := range c.Vehicles {
		if v.PerDayCents <= 0 {
			return fmt.Errorf("vehicle %s: per-day rate must be positive", id)
		}
		if v.ExtraKmRateCents < 0 || v.IncludedKmPerDay < 0 {
			return fmt.Errorf("vehicle %s: distance pricing must be non-negative", id)
		}
	}
	for id, t := range c.Tiers {
		if t.NightlyRateCents <= 0 {
			return fmt.Errorf("tier %s: nightly rate must be positive", id)
		}
	}
	for id, a := range c.Activities {
		if a.PricePerPersonCents < 0 {
			return fmt.Errorf("activity %s: price must be non-negative", id)
		}
		if a.DestinationID != "" {
			if _, ok := c.Destinations[a.DestinationID]; !ok {
				return fmt.Errorf("activity %s: unknown destination %s", id, a.DestinationID)
			}
		}
	}
	for _, rule := range c.DiscountRules {
		if rule.Percent < 0 || rule.Percent > 1 {
			return fmt.Errorf("discount %s: percent must be in [0,1]", rule.Name)
		}
	}
	if rate, ok := c.CurrencyRates["USD"]; !ok || rate != 1 {
		return fmt.Errorf("currency table must anchor USD at rate 1")
	}
	if c.Policy.OccupancyPerRoom < 1 {
		return fmt.Errorf("occupancy per room must be at least 1")
	}

	for i := range c.Seasons {
		for j := i + 1; j < len(c.Seasons); j++ {
			if overlap, day := seasonsOverlap(c.Seasons[i], c.Seasons[j]); overlap {
				return fmt.Errorf("seasons %s and %s overlap at %s",
					c.Seasons[i].Name, c.Seasons[j].Name, day)
			}
		}
	}
	return nil
}
