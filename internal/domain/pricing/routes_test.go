package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	km    float64
	err   error
	calls int
}

func (p *fakeProvider) DrivingDistanceKm(ctx context.Context, from, to Destination) (float64, error) {
	p.calls++
	return p.km, p.err
}

type memoryCache struct {
	entries map[string]float64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]float64)}
}

func (c *memoryCache) key(from, to string) string {
	if from > to {
		from, to = to, from
	}
	return from + "|" + to
}

func (c *memoryCache) GetDistance(ctx context.Context, from, to string) (float64, bool) {
	km, ok := c.entries[c.key(from, to)]
	return km, ok
}

func (c *memoryCache) SetDistance(ctx context.Context, from, to string, km float64) {
	c.entries[c.key(from, to)] = km
}

func routeTestCatalog() *Catalog {
	return &Catalog{
		Destinations: map[string]Destination{
			"colombo":  {ID: "colombo", Name: "Colombo"},
			"kandy":    {ID: "kandy", Name: "Kandy"},
			"sigiriya": {ID: "sigiriya", Name: "Sigiriya"},
			"remote":   {ID: "remote", Name: "Remote"},
		},
		RouteDistances: map[string]float64{
			routeKey("colombo", "kandy"):    120,
			routeKey("kandy", "sigiriya"):   85,
			routeKey("colombo", "sigiriya"): 170,
		},
		Policy: Policy{DefaultLegKm: 50, AverageSpeedKmh: 40},
	}
}

func TestResolveUsesTabulatedDistance(t *testing.T) {
	provider := &fakeProvider{km: 999}
	r := NewRouteResolver(routeTestCatalog(), provider, nil, 0, zap.NewNop())

	est, err := r.Resolve(context.Background(), "colombo", "kandy")
	require.NoError(t, err)
	assert.Equal(t, 120.0, est.DistanceKm)
	assert.Equal(t, 180, est.DurationMinutes)
	assert.Zero(t, provider.calls, "tabulated pairs must not hit the provider")
}

func TestResolveUnknownDestination(t *testing.T) {
	r := NewRouteResolver(routeTestCatalog(), nil, nil, 0, zap.NewNop())

	_, err := r.Resolve(context.Background(), "colombo", "narnia")
	require.ErrorIs(t, err, ErrUnknownDestination)
	assert.Contains(t, err.Error(), "narnia")
}

func TestResolveSameDestinationIsZero(t *testing.T) {
	r := NewRouteResolver(routeTestCatalog(), nil, nil, 0, zap.NewNop())

	est, err := r.Resolve(context.Background(), "kandy", "kandy")
	require.NoError(t, err)
	assert.Zero(t, est.DistanceKm)
	assert.Zero(t, est.DurationMinutes)
}

func TestResolveUnknownPairUsesProviderAndCaches(t *testing.T) {
	provider := &fakeProvider{km: 210}
	cache := newMemoryCache()
	r := NewRouteResolver(routeTestCatalog(), provider, cache, time.Second, zap.NewNop())

	est, err := r.Resolve(context.Background(), "colombo", "remote")
	require.NoError(t, err)
	assert.Equal(t, 210.0, est.DistanceKm)
	assert.Equal(t, 1, provider.calls)

	// Second resolve hits the cache.
	est, err = r.Resolve(context.Background(), "colombo", "remote")
	require.NoError(t, err)
	assert.Equal(t, 210.0, est.DistanceKm)
	assert.Equal(t, 1, provider.calls)
}

func TestResolveProviderFailureFallsBackToDefault(t *testing.T) {
	provider := &fakeProvider{err: errors.New("quota exceeded")}
	r := NewRouteResolver(routeTestCatalog(), provider, nil, time.Second, zap.NewNop())

	est, err := r.Resolve(context.Background(), "kandy", "remote")
	require.NoError(t, err, "a failed lookup degrades, it never fails the quote")
	assert.Equal(t, 50.0, est.DistanceKm)
}

func TestResolveNoProviderFallsBackToDefault(t *testing.T) {
	r := NewRouteResolver(routeTestCatalog(), nil, nil, 0, zap.NewNop())

	est, err := r.Resolve(context.Background(), "kandy", "remote")
	require.NoError(t, err)
	assert.Equal(t, 50.0, est.DistanceKm)
}

func TestTotalRouteRoundTripsFromColombo(t *testing.T) {
	r := NewRouteResolver(routeTestCatalog(), nil, nil, 0, zap.NewNop())

	// colombo -> kandy -> sigiriya -> colombo = 120 + 85 + 170
	est, err := r.TotalRoute(context.Background(), []string{"kandy", "sigiriya"})
	require.NoError(t, err)
	assert.Equal(t, 375.0, est.DistanceKm)
}

func TestTotalRouteSkipsRepeatedHops(t *testing.T) {
	r := NewRouteResolver(routeTestCatalog(), nil, nil, 0, zap.NewNop())

	est, err := r.TotalRoute(context.Background(), []string{"kandy", "kandy"})
	require.NoError(t, err)
	assert.Equal(t, 240.0, est.DistanceKm)
}

func TestTotalRouteEmptyItinerary(t *testing.T) {
	r := NewRouteResolver(routeTestCatalog(), nil, nil, 0, zap.NewNop())

	est, err := r.TotalRoute(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, est.DistanceKm)
}
