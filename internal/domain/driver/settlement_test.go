package driver

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recharge-travels/service-quotes/pkg/domain"
)

func newTestSettlement(t *testing.T) *Settlement {
	t.Helper()
	earnings := ComputePeriodEarnings([]int64{50000, 30000}, DriverStats{CompletionRate: 1.0}, DefaultCommissionSettings())
	s, err := NewSettlement(uuid.New(), day(2026, 8, 17), day(2026, 8, 23), earnings, 500)
	require.NoError(t, err)
	return s
}

func TestSettlementPeriodLabel(t *testing.T) {
	assert.Equal(t, "2026-08-W1", SettlementPeriodLabel(day(2026, 8, 1)))
	assert.Equal(t, "2026-08-W1", SettlementPeriodLabel(day(2026, 8, 7)))
	assert.Equal(t, "2026-08-W2", SettlementPeriodLabel(day(2026, 8, 8)))
	assert.Equal(t, "2026-08-W3", SettlementPeriodLabel(day(2026, 8, 17)))
	assert.Equal(t, "2026-12-W5", SettlementPeriodLabel(day(2026, 12, 31)))
}

func TestNewSettlement(t *testing.T) {
	s := newTestSettlement(t)

	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, "2026-08-W3", s.SettlementPeriod)
	assert.Equal(t, SettlementPending, s.Status)
	assert.Equal(t, s.Earnings.NetCents+500, s.NetPayoutCents)
	assert.Nil(t, s.PaidAt)

	var validationErr *domain.ValidationError
	_, err := NewSettlement(uuid.Nil, day(2026, 8, 17), day(2026, 8, 23), PeriodEarnings{}, 0)
	require.ErrorAs(t, err, &validationErr)

	_, err = NewSettlement(uuid.New(), day(2026, 8, 23), day(2026, 8, 17), PeriodEarnings{}, 0)
	require.ErrorAs(t, err, &validationErr)
}

func TestSettlementMeetsMinimumPayout(t *testing.T) {
	settings := DefaultCommissionSettings()

	s := newTestSettlement(t)
	assert.True(t, s.MeetsMinimumPayout(settings))

	s.NetPayoutCents = settings.MinPayoutCents
	assert.True(t, s.MeetsMinimumPayout(settings))

	s.NetPayoutCents = settings.MinPayoutCents - 1
	assert.False(t, s.MeetsMinimumPayout(settings))
}

func TestSettlementMarkPaid(t *testing.T) {
	s := newTestSettlement(t)

	require.NoError(t, s.MarkPaid("bank_transfer", "TRX-4471", "paid in weekly run"))
	assert.Equal(t, SettlementPaid, s.Status)
	require.NotNil(t, s.PaidAt)
	assert.Equal(t, "bank_transfer", s.PaymentMethod)
	assert.Equal(t, "TRX-4471", s.BankReference)

	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, s.MarkPaid("bank_transfer", "TRX-4472", ""), &stateErr)
}

func TestSettlementFailAndRequeue(t *testing.T) {
	s := newTestSettlement(t)

	require.NoError(t, s.MarkFailed("bank account rejected"))
	assert.Equal(t, SettlementFailed, s.Status)
	assert.Equal(t, "bank account rejected", s.Notes)

	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, s.MarkPaid("bank_transfer", "", ""), &stateErr)
	require.ErrorAs(t, s.MarkFailed("again"), &stateErr)

	require.NoError(t, s.Requeue())
	assert.Equal(t, SettlementPending, s.Status)
	require.NoError(t, s.MarkPaid("bank_transfer", "TRX-4473", "second attempt"))

	require.ErrorAs(t, s.Requeue(), &stateErr, "only failed settlements can be requeued")
}

func TestSettlementStatusIsValid(t *testing.T) {
	for _, status := range []SettlementStatus{SettlementPending, SettlementPaid, SettlementFailed} {
		assert.True(t, status.IsValid(), string(status))
	}
	assert.False(t, SettlementStatus("refunded").IsValid())
}
