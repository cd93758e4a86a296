package quote

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const quoteNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// LineItemKind classifies a priced component of a quote.
type LineItemKind string

const (
	LineItemVehicle       LineItemKind = "vehicle"
	LineItemExtraKm       LineItemKind = "extra_km"
	LineItemTransfer      LineItemKind = "transfer"
	LineItemAccommodation LineItemKind = "accommodation"
	LineItemEntranceFee   LineItemKind = "entrance_fee"
	LineItemActivity      LineItemKind = "activity"
	LineItemService       LineItemKind = "service"
)

// LineItem is one priced component of a quote.
type LineItem struct {
	Kind           LineItemKind `json:"kind"`
	Label          string       `json:"label"`
	UnitPriceCents int64        `json:"unit_price_cents"`
	Quantity       float64      `json:"quantity"`
	SubtotalCents  int64        `json:"subtotal_cents"`
}

// AppliedDiscount records one discount rule that qualified, with the amount
// actually deducted (possibly capped on the rule that crossed zero).
type AppliedDiscount struct {
	Name        string  `json:"name"`
	Percent     float64 `json:"percent"`
	AmountCents int64   `json:"amount_cents"`
}

// Quote is an immutable computed pricing result for one set of trip
// selections. A new Quote replaces the old one whenever inputs change; a
// persisted Quote is a historical artifact that later pricing-table changes
// never alter. All monetary fields are USD cents except DisplayTotalCents.
type Quote struct {
	QuoteNumber string `json:"quote_number"`

	LineItems     []LineItem `json:"line_items"`
	SubtotalCents int64      `json:"subtotal_cents"`

	SeasonName          string  `json:"season_name"`
	SeasonMultiplier    float64 `json:"season_multiplier"`
	SeasonAdjustedCents int64   `json:"season_adjusted_cents"`

	Discounts      []AppliedDiscount `json:"discounts"`
	TotalUSDCents  int64             `json:"total_usd_cents"`
	DepositCents   int64             `json:"deposit_cents"`
	BalanceCents   int64             `json:"balance_cents"`
	BalanceDueDays int               `json:"balance_due_days"`

	Currency          string  `json:"currency"`
	CurrencyRate      float64 `json:"currency_rate"`
	DisplayTotalCents int64   `json:"display_total_cents"`

	PerPersonCents int64 `json:"per_person_cents"`
	PerDayCents    int64 `json:"per_day_cents"`

	Travelers       int     `json:"travelers"`
	Days            int     `json:"days"`
	Nights          int     `json:"nights"`
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes int     `json:"duration_minutes"`

	GeneratedAt time.Time `json:"generated_at"`
	ValidUntil  time.Time `json:"valid_until"`
}

// generateQuoteNumber creates a quote number in the format "QT-XXXXXX".
func generateQuoteNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(quoteNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate quote number: %w", err)
		}
		result[i] = quoteNumberChars[n.Int64()]
	}
	return "QT-" + string(result), nil
}
