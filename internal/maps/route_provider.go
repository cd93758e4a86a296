// Package maps backs the pricing route resolver with the Google Maps
// Directions API for destination pairs missing from the catalog table.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"github.com/recharge-travels/service-quotes/internal/domain/pricing"
)

// RouteProvider queries Google Maps for driving distances between
// destinations.
type RouteProvider struct {
	client *maps.Client
	region string
}

// NewRouteProvider creates a provider with the given API key, biased to
// Sri Lanka.
func NewRouteProvider(apiKey string) (*RouteProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteProvider{client: client, region: "LK"}, nil
}

// DrivingDistanceKm returns the driving distance between two destinations.
func (p *RouteProvider) DrivingDistanceKm(ctx context.Context, from, to pricing.Destination) (float64, error) {
	r := &maps.DirectionsRequest{
		Origin:      from.Name + ", Sri Lanka",
		Destination: to.Name + ", Sri Lanka",
		Mode:        maps.TravelModeDriving,
		Region:      p.region,
	}

	routes, _, err := p.client.Directions(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, fmt.Errorf("no route found between %s and %s", from.ID, to.ID)
	}

	var meters int
	for _, leg := range routes[0].Legs {
		meters += leg.Distance.Meters
	}
	return float64(meters) / 1000, nil
}
