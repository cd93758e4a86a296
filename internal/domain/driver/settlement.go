package driver

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/recharge-travels/service-quotes/pkg/domain"
)

// SettlementStatus is the payout state of a settlement record.
type SettlementStatus string

const (
	SettlementPending SettlementStatus = "pending"
	SettlementPaid    SettlementStatus = "paid"
	SettlementFailed  SettlementStatus = "failed"
)

// IsValid returns true for a recognized settlement status.
func (s SettlementStatus) IsValid() bool {
	switch s {
	case SettlementPending, SettlementPaid, SettlementFailed:
		return true
	}
	return false
}

// Settlement is one driver's payout record for a settlement period.
type Settlement struct {
	ID               uuid.UUID        `json:"id"`
	DriverID         uuid.UUID        `json:"driver_id"`
	SettlementPeriod string           `json:"settlement_period"`
	PeriodStart      time.Time        `json:"period_start"`
	PeriodEnd        time.Time        `json:"period_end"`
	Earnings         PeriodEarnings   `json:"earnings"`
	ReferralBonus    int64            `json:"referral_bonus_cents"`
	NetPayoutCents   int64            `json:"net_payout_cents"`
	Status           SettlementStatus `json:"status"`
	PaidAt           *time.Time       `json:"paid_at,omitempty"`
	PaymentMethod    string           `json:"payment_method,omitempty"`
	BankReference    string           `json:"bank_reference,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// SettlementPeriodLabel formats a period identifier like "2026-08-W3", week
// number within the month from the period start.
func SettlementPeriodLabel(periodStart time.Time) string {
	week := (periodStart.Day()-1)/7 + 1
	return fmt.Sprintf("%04d-%02d-W%d", periodStart.Year(), int(periodStart.Month()), week)
}

// NewSettlement builds a pending settlement from a period calculation.
func NewSettlement(driverID uuid.UUID, periodStart, periodEnd time.Time, earnings PeriodEarnings, referralBonusCents int64) (*Settlement, error) {
	if driverID == uuid.Nil {
		return nil, domain.NewValidationError("driver ID is required")
	}
	if periodEnd.Before(periodStart) {
		return nil, domain.NewValidationError("period end must not precede period start")
	}
	now := time.Now().UTC()
	return &Settlement{
		ID:               uuid.New(),
		DriverID:         driverID,
		SettlementPeriod: SettlementPeriodLabel(periodStart),
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		Earnings:         earnings,
		ReferralBonus:    referralBonusCents,
		NetPayoutCents:   earnings.NetCents + referralBonusCents,
		Status:           SettlementPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// MeetsMinimumPayout reports whether the payout clears the configured floor.
func (s *Settlement) MeetsMinimumPayout(settings CommissionSettings) bool {
	return s.NetPayoutCents >= settings.MinPayoutCents
}

// MarkPaid records a completed payout.
func (s *Settlement) MarkPaid(method, bankReference, notes string) error {
	if s.Status != SettlementPending {
		return domain.NewInvalidStateError(string(s.Status), string(SettlementPaid))
	}
	now := time.Now().UTC()
	s.Status = SettlementPaid
	s.PaidAt = &now
	s.PaymentMethod = method
	s.BankReference = bankReference
	s.Notes = notes
	s.UpdatedAt = now
	return nil
}

// MarkFailed records a failed payout attempt; the settlement stays payable.
func (s *Settlement) MarkFailed(notes string) error {
	if s.Status != SettlementPending {
		return domain.NewInvalidStateError(string(s.Status), string(SettlementFailed))
	}
	s.Status = SettlementFailed
	s.Notes = notes
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Requeue returns a failed settlement to pending for another attempt.
func (s *Settlement) Requeue() error {
	if s.Status != SettlementFailed {
		return domain.NewInvalidStateError(string(s.Status), string(SettlementPending))
	}
	s.Status = SettlementPending
	s.UpdatedAt = time.Now().UTC()
	return nil
}
