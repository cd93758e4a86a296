package application

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/recharge-travels/service-quotes/internal/domain/pricing"
	"github.com/recharge-travels/service-quotes/internal/domain/quote"
)

// CatalogDTO is the reference data the quote wizard renders: destinations,
// vehicle classes, accommodation tiers, add-ons and supported currencies.
type CatalogDTO struct {
	Destinations []pricing.Destination       `json:"destinations"`
	Vehicles     []pricing.Vehicle           `json:"vehicles"`
	Tiers        []pricing.AccommodationTier `json:"accommodation_tiers"`
	Activities   []pricing.Activity          `json:"activities"`
	Services     []pricing.AdditionalService `json:"services"`
	Currencies   []string                    `json:"currencies"`
	Payment      pricing.PaymentTerms        `json:"payment_terms"`
}

// QuoteService prices trip selections and exposes the pricing catalog.
type QuoteService struct {
	catalog    *pricing.Catalog
	calculator *quote.Calculator
	logger     *zap.Logger
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(catalog *pricing.Catalog, calculator *quote.Calculator, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		catalog:    catalog,
		calculator: calculator,
		logger:     logger,
	}
}

// ComputeQuote prices a trip selection without persisting anything.
func (s *QuoteService) ComputeQuote(ctx context.Context, sel quote.TripSelection) (*quote.Quote, error) {
	q, err := s.calculator.Compute(ctx, sel)
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote computed",
		zap.String("quote_number", q.QuoteNumber),
		zap.Int64("total_usd_cents", q.TotalUSDCents),
		zap.Int("travelers", q.Travelers),
		zap.Int("days", q.Days),
	)
	return q, nil
}

// GetCatalog returns the pricing reference data in stable order.
func (s *QuoteService) GetCatalog() CatalogDTO {
	vehicles := make([]pricing.Vehicle, 0, len(s.catalog.Vehicles))
	for _, v := range s.catalog.Vehicles {
		vehicles = append(vehicles, v)
	}
	sort.Slice(vehicles, func(i, j int) bool { return vehicles[i].PerDayCents < vehicles[j].PerDayCents })

	tiers := make([]pricing.AccommodationTier, 0, len(s.catalog.Tiers))
	for _, t := range s.catalog.Tiers {
		tiers = append(tiers, t)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].NightlyRateCents < tiers[j].NightlyRateCents })

	activities := make([]pricing.Activity, 0, len(s.catalog.Activities))
	for _, a := range s.catalog.Activities {
		activities = append(activities, a)
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].ID < activities[j].ID })

	services := make([]pricing.AdditionalService, 0, len(s.catalog.Services))
	for _, svc := range s.catalog.Services {
		services = append(services, svc)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })

	currencies := make([]string, 0, len(s.catalog.CurrencyRates))
	for code := range s.catalog.CurrencyRates {
		currencies = append(currencies, code)
	}
	sort.Strings(currencies)

	return CatalogDTO{
		Destinations: s.catalog.SortedDestinations(),
		Vehicles:     vehicles,
		Tiers:        tiers,
		Activities:   activities,
		Services:     services,
		Currencies:   currencies,
		Payment:      s.catalog.Payment,
	}
}
