package driver

import "math"

// CommissionSettings controls how driver trip revenue is split with the
// platform. Percentages are fractions in [0,1]; monetary values are USD
// cents.
type CommissionSettings struct {
	PlatformFeeCents  int64   `json:"platform_fee_cents"`
	CommissionPercent float64 `json:"commission_percent"`

	CompletionBonusPercent float64 `json:"completion_bonus_percent"`
	RatingBonusPercent     float64 `json:"rating_bonus_percent"`
	BatchBonusPercent      float64 `json:"batch_bonus_percent"`
	ReferralBonusCents     int64   `json:"referral_bonus_cents"`

	RatingBonusThreshold float64 `json:"rating_bonus_threshold"`
	BatchBonusThreshold  int     `json:"batch_bonus_threshold"`

	MinPayoutCents  int64  `json:"min_payout_cents"`
	PayoutFrequency string `json:"payout_frequency"`
	PayoutHoldDays  int    `json:"payout_hold_days"`
}

// DefaultCommissionSettings returns the platform defaults: a fixed fee plus
// 10% commission per trip, weekly payouts with a 3 day hold.
func DefaultCommissionSettings() CommissionSettings {
	return CommissionSettings{
		PlatformFeeCents:       300,
		CommissionPercent:      0.10,
		CompletionBonusPercent: 0.05,
		RatingBonusPercent:     0.03,
		BatchBonusPercent:      0.02,
		ReferralBonusCents:     500,
		RatingBonusThreshold:   4.8,
		BatchBonusThreshold:    10,
		MinPayoutCents:         5000,
		PayoutFrequency:        "weekly",
		PayoutHoldDays:         3,
	}
}

// TripSplit is the revenue split for one completed trip.
type TripSplit struct {
	PlatformFeeCents    int64 `json:"platform_fee_cents"`
	CommissionCents     int64 `json:"commission_cents"`
	DriverEarningsCents int64 `json:"driver_earnings_cents"`
}

// SplitTrip computes the platform fee, commission, and driver earnings for a
// single trip. Driver earnings never go below zero.
func SplitTrip(amountCents int64, settings CommissionSettings) TripSplit {
	fee := settings.PlatformFeeCents
	commission := int64(math.Round(float64(amountCents) * settings.CommissionPercent))
	earnings := amountCents - fee - commission
	if earnings < 0 {
		earnings = 0
	}
	return TripSplit{
		PlatformFeeCents:    fee,
		CommissionCents:     commission,
		DriverEarningsCents: earnings,
	}
}

// DriverStats feeds bonus eligibility for a settlement period.
type DriverStats struct {
	CompletionRate float64 `json:"completion_rate"`
	AverageRating  float64 `json:"average_rating"`
}

// PeriodEarnings is the full commission calculation over a settlement period.
type PeriodEarnings struct {
	GrossCents           int64 `json:"gross_cents"`
	TripCount            int   `json:"trip_count"`
	PlatformFeesCents    int64 `json:"platform_fees_cents"`
	CommissionCents      int64 `json:"commission_cents"`
	CompletionBonusCents int64 `json:"completion_bonus_cents"`
	RatingBonusCents     int64 `json:"rating_bonus_cents"`
	BatchBonusCents      int64 `json:"batch_bonus_cents"`
	TotalBonusesCents    int64 `json:"total_bonuses_cents"`
	TotalDeductionsCents int64 `json:"total_deductions_cents"`
	NetCents             int64 `json:"net_cents"`
}

// ComputePeriodEarnings aggregates completed trip amounts into a settlement
// calculation. The net never goes below zero.
func ComputePeriodEarnings(tripAmountsCents []int64, stats DriverStats, settings CommissionSettings) PeriodEarnings {
	var gross int64
	for _, amount := range tripAmountsCents {
		gross += amount
	}
	trips := len(tripAmountsCents)

	fees := int64(trips) * settings.PlatformFeeCents
	commission := int64(math.Round(float64(gross) * settings.CommissionPercent))

	var completionBonus, ratingBonus, batchBonus int64
	if stats.CompletionRate >= 1.0 {
		completionBonus = int64(math.Round(float64(gross) * settings.CompletionBonusPercent))
	}
	if stats.AverageRating >= settings.RatingBonusThreshold {
		ratingBonus = int64(math.Round(float64(gross) * settings.RatingBonusPercent))
	}
	if trips >= settings.BatchBonusThreshold {
		batchBonus = int64(math.Round(float64(gross) * settings.BatchBonusPercent))
	}

	bonuses := completionBonus + ratingBonus + batchBonus
	deductions := fees + commission
	net := gross - deductions + bonuses
	if net < 0 {
		net = 0
	}

	return PeriodEarnings{
		GrossCents:           gross,
		TripCount:            trips,
		PlatformFeesCents:    fees,
		CommissionCents:      commission,
		CompletionBonusCents: completionBonus,
		RatingBonusCents:     ratingBonus,
		BatchBonusCents:      batchBonus,
		TotalBonusesCents:    bonuses,
		TotalDeductionsCents: deductions,
		NetCents:             net,
	}
}
