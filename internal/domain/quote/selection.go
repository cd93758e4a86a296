package quote

import (
	"strings"
	"time"

	"github.com/recharge-travels/service-quotes/pkg/domain"
)

// TripSelection is the full set of wizard selections a quote is computed
// from. Every selectable field is explicit; the HTTP layer rejects unknown
// fields at binding time.
type TripSelection struct {
	Destinations []string  `json:"destinations"`
	StartDate    time.Time `json:"start_date"`
	Days         int       `json:"days"`
	Nights       int       `json:"nights"`

	Adults   int `json:"adults"`
	Children int `json:"children"`

	VehicleID           string `json:"vehicle_id"`
	AccommodationTierID string `json:"accommodation_tier_id"`

	ActivityIDs []string `json:"activity_ids"`
	ServiceIDs  []string `json:"service_ids"`

	AirportPickup  bool `json:"airport_pickup"`
	AirportDropoff bool `json:"airport_dropoff"`

	ReturningCustomer bool   `json:"returning_customer"`
	Currency          string `json:"currency"`
}

// Travelers returns the total head count.
func (s TripSelection) Travelers() int {
	return s.Adults + s.Children
}

// DisplayCurrency returns the requested currency code, defaulting to USD.
func (s TripSelection) DisplayCurrency() string {
	if s.Currency == "" {
		return "USD"
	}
	return strings.ToUpper(s.Currency)
}

// Validate checks structural invariants that do not depend on the catalog.
// Catalog-dependent checks (unknown IDs, trip duration) live in the
// calculator so they carry the pricing error taxonomy.
func (s TripSelection) Validate() error {
	if s.Adults < 1 {
		return domain.NewValidationError("at least one adult traveler is required")
	}
	if s.Children < 0 {
		return domain.NewValidationError("children cannot be negative")
	}
	if s.Days < 0 {
		return domain.NewValidationError("days cannot be negative")
	}
	if s.Nights < 0 {
		return domain.NewValidationError("nights cannot be negative")
	}
	if s.StartDate.IsZero() {
		return domain.NewValidationError("start date is required")
	}
	return nil
}
