package pricing

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// RouteEstimate is a resolved leg or itinerary: driving distance and an
// estimated duration.
type RouteEstimate struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes int     `json:"duration_minutes"`
}

// RouteProvider answers distance queries for destination pairs missing from
// the catalog table, typically against an external maps API.
type RouteProvider interface {
	DrivingDistanceKm(ctx context.Context, from, to Destination) (float64, error)
}

// RouteCache stores provider results so repeat pairs skip the network.
// Implementations must treat misses as (0, false), never as an error.
type RouteCache interface {
	GetDistance(ctx context.Context, from, to string) (float64, bool)
	SetDistance(ctx context.Context, from, to string, km float64)
}

// RouteResolver resolves distances between catalog destinations. Tabulated
// pairs win; unknown pairs go to the provider behind a bounded timeout, and
// provider failures degrade to the catalog's conservative default leg
// estimate rather than failing the quote.
type RouteResolver struct {
	catalog  *Catalog
	provider RouteProvider
	cache    RouteCache
	timeout  time.Duration
	log      *zap.Logger
}

// NewRouteResolver builds a resolver. provider and cache may be nil, in which
// case unknown pairs fall straight through to the default estimate.
func NewRouteResolver(catalog *Catalog, provider RouteProvider, cache RouteCache, timeout time.Duration, log *zap.Logger) *RouteResolver {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &RouteResolver{
		catalog:  catalog,
		provider: provider,
		cache:    cache,
		timeout:  timeout,
		log:      log,
	}
}

// Resolve returns the distance and duration estimate between two destinations.
// Both IDs must exist in the catalog.
func (r *RouteResolver) Resolve(ctx context.Context, fromID, toID string) (RouteEstimate, error) {
	from, ok := r.catalog.Destination(fromID)
	if !ok {
		return RouteEstimate{}, fmt.Errorf("%w: %s", ErrUnknownDestination, fromID)
	}
	to, ok := r.catalog.Destination(toID)
	if !ok {
		return RouteEstimate{}, fmt.Errorf("%w: %s", ErrUnknownDestination, toID)
	}
	if fromID == toID {
		return RouteEstimate{}, nil
	}

	if km, ok := r.catalog.RouteDistanceKm(fromID, toID); ok {
		return r.estimate(km), nil
	}
	return r.estimate(r.lookupKm(ctx, from, to)), nil
}

// TotalRoute sums the round trip Colombo -> itinerary -> Colombo.
func (r *RouteResolver) TotalRoute(ctx context.Context, itinerary []string) (RouteEstimate, error) {
	if len(itinerary) == 0 {
		return RouteEstimate{}, nil
	}
	hops := make([]string, 0, len(itinerary)+2)
	hops = append(hops, "colombo")
	hops = append(hops, itinerary...)
	hops = append(hops, "colombo")

	var total RouteEstimate
	for i := 1; i < len(hops); i++ {
		if hops[i-1] == hops[i] {
			continue
		}
		leg, err := r.Resolve(ctx, hops[i-1], hops[i])
		if err != nil {
			return RouteEstimate{}, err
		}
		total.DistanceKm += leg.DistanceKm
		total.DurationMinutes += leg.DurationMinutes
	}
	return total, nil
}

// lookupKm consults the cache, then the provider. Any failure substitutes the
// default leg estimate; the quote proceeds.
func (r *RouteResolver) lookupKm(ctx context.Context, from, to Destination) float64 {
	if r.cache != nil {
		if km, ok := r.cache.GetDistance(ctx, from.ID, to.ID); ok {
			return km
		}
	}
	if r.provider == nil {
		return r.catalog.Policy.DefaultLegKm
	}

	pctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	km, err := r.provider.DrivingDistanceKm(pctx, from, to)
	if err != nil || km <= 0 {
		if err == nil {
			err = ErrRouteLookupFailed
		}
		r.log.Warn("route lookup failed, using default leg estimate",
			zap.String("from", from.ID),
			zap.String("to", to.ID),
			zap.Float64("default_km", r.catalog.Policy.DefaultLegKm),
			zap.Error(err))
		return r.catalog.Policy.DefaultLegKm
	}

	if r.cache != nil {
		r.cache.SetDistance(ctx, from.ID, to.ID, km)
	}
	return km
}

func (r *RouteResolver) estimate(km float64) RouteEstimate {
	speed := r.catalog.Policy.AverageSpeedKmh
	if speed <= 0 {
		speed = 40
	}
	return RouteEstimate{
		DistanceKm:      km,
		DurationMinutes: int(math.Round(km / speed * 60)),
	}
}
