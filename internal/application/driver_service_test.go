package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	driverDomain "github.com/recharge-travels/service-quotes/internal/domain/driver"
	"github.com/recharge-travels/service-quotes/pkg/domain"
)

type fakeAvailabilityRepo struct {
	days     map[string]*driverDomain.DayAvailability
	periods  map[uuid.UUID]*driverDomain.BlockedPeriod
	settings map[uuid.UUID]driverDomain.AvailabilitySettings
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{
		days:     make(map[string]*driverDomain.DayAvailability),
		periods:  make(map[uuid.UUID]*driverDomain.BlockedPeriod),
		settings: make(map[uuid.UUID]driverDomain.AvailabilitySettings),
	}
}

func dayKey(driverID uuid.UUID, date time.Time) string {
	return driverID.String() + "|" + date.Format("2006-01-02")
}

func (r *fakeAvailabilityRepo) FindDay(_ context.Context, driverID uuid.UUID, date time.Time) (*driverDomain.DayAvailability, error) {
	return r.days[dayKey(driverID, date)], nil
}

func (r *fakeAvailabilityRepo) FindRange(_ context.Context, driverID uuid.UUID, start, end time.Time) ([]*driverDomain.DayAvailability, error) {
	var out []*driverDomain.DayAvailability
	for _, d := range r.days {
		if d.DriverID == driverID && !d.Date.Before(start) && !d.Date.After(end) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) SaveDay(_ context.Context, day *driverDomain.DayAvailability) error {
	r.days[dayKey(day.DriverID, day.Date)] = day
	return nil
}

func (r *fakeAvailabilityRepo) SaveDays(ctx context.Context, days []*driverDomain.DayAvailability) error {
	for _, d := range days {
		if err := r.SaveDay(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeAvailabilityRepo) FindBlockedPeriods(_ context.Context, driverID uuid.UUID) ([]*driverDomain.BlockedPeriod, error) {
	var out []*driverDomain.BlockedPeriod
	for _, p := range r.periods {
		if p.DriverID == driverID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) SaveBlockedPeriod(_ context.Context, period *driverDomain.BlockedPeriod) error {
	r.periods[period.ID] = period
	return nil
}

func (r *fakeAvailabilityRepo) DeleteBlockedPeriod(_ context.Context, id uuid.UUID) (*driverDomain.BlockedPeriod, error) {
	period, ok := r.periods[id]
	if !ok {
		return nil, domain.NewNotFoundError("blocked period", id.String())
	}
	delete(r.periods, id)
	return period, nil
}

func (r *fakeAvailabilityRepo) FindSettings(_ context.Context, driverID uuid.UUID) (driverDomain.AvailabilitySettings, error) {
	if s, ok := r.settings[driverID]; ok {
		return s, nil
	}
	return driverDomain.DefaultAvailabilitySettings(driverID), nil
}

func (r *fakeAvailabilityRepo) SaveSettings(_ context.Context, settings driverDomain.AvailabilitySettings) error {
	r.settings[settings.DriverID] = settings
	return nil
}

type fakeSettlementRepo struct {
	byID map[uuid.UUID]*driverDomain.Settlement
}

func newFakeSettlementRepo() *fakeSettlementRepo {
	return &fakeSettlementRepo{byID: make(map[uuid.UUID]*driverDomain.Settlement)}
}

func (r *fakeSettlementRepo) FindByID(_ context.Context, id uuid.UUID) (*driverDomain.Settlement, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("settlement", id.String())
	}
	return s, nil
}

func (r *fakeSettlementRepo) FindByDriverID(_ context.Context, driverID uuid.UUID, limit int) ([]*driverDomain.Settlement, error) {
	var out []*driverDomain.Settlement
	for _, s := range r.byID {
		if s.DriverID == driverID {
			out = append(out, s)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeSettlementRepo) FindPending(_ context.Context) ([]*driverDomain.Settlement, error) {
	var out []*driverDomain.Settlement
	for _, s := range r.byID {
		if s.Status == driverDomain.SettlementPending {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSettlementRepo) Save(_ context.Context, settlement *driverDomain.Settlement) error {
	r.byID[settlement.ID] = settlement
	return nil
}

func (r *fakeSettlementRepo) Update(_ context.Context, settlement *driverDomain.Settlement) error {
	r.byID[settlement.ID] = settlement
	return nil
}

func newTestDriverService(availability *fakeAvailabilityRepo, settlements *fakeSettlementRepo) *DriverService {
	svc := NewDriverService(availability, settlements, driverDomain.DefaultCommissionSettings(), zap.NewNop())
	// A Tuesday at noon.
	return svc.WithClock(func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	})
}

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGetCalendar_SynthesizesMissingDays(t *testing.T) {
	ctx := context.Background()
	availability := newFakeAvailabilityRepo()
	svc := newTestDriverService(availability, newFakeSettlementRepo())
	driverID := uuid.New()

	// Monday the 7th carries a real booking record.
	booked := driverDomain.NewDayAvailability(driverID, utcDate(2026, 9, 7))
	require.NoError(t, booked.BookSlots([]driverDomain.TimeSlot{driverDomain.SlotFullDay}, uuid.New()))
	require.NoError(t, availability.SaveDay(ctx, booked))

	// Monday the 7th through Sunday the 13th.
	calendar, err := svc.GetCalendar(ctx, driverID, utcDate(2026, 9, 7), utcDate(2026, 9, 13))
	require.NoError(t, err)
	require.Len(t, calendar, 7)

	assert.Equal(t, driverDomain.StatusBooked, calendar[0].FullDayStatus)
	for _, day := range calendar[1:6] {
		assert.Equal(t, driverDomain.StatusAvailable, day.FullDayStatus, day.Date.String())
	}
	sunday := calendar[6]
	assert.True(t, sunday.Blocked)
	assert.Equal(t, "outside working days", sunday.BlockReason)
}

func TestGetCalendar_AppliesBlockedPeriods(t *testing.T) {
	ctx := context.Background()
	availability := newFakeAvailabilityRepo()
	svc := newTestDriverService(availability, newFakeSettlementRepo())
	driverID := uuid.New()

	period, err := driverDomain.NewBlockedPeriod(driverID, utcDate(2026, 9, 8), utcDate(2026, 9, 9), driverDomain.BlockVacation, "")
	require.NoError(t, err)
	require.NoError(t, availability.SaveBlockedPeriod(ctx, period))

	calendar, err := svc.GetCalendar(ctx, driverID, utcDate(2026, 9, 7), utcDate(2026, 9, 10))
	require.NoError(t, err)
	require.Len(t, calendar, 4)

	assert.False(t, calendar[0].Blocked)
	assert.True(t, calendar[1].Blocked)
	assert.Equal(t, "vacation", calendar[1].BlockReason)
	assert.True(t, calendar[2].Blocked)
	assert.False(t, calendar[3].Blocked)
}

func TestGetCalendar_RejectsInvertedRange(t *testing.T) {
	svc := newTestDriverService(newFakeAvailabilityRepo(), newFakeSettlementRepo())

	_, err := svc.GetCalendar(context.Background(), uuid.New(), utcDate(2026, 9, 10), utcDate(2026, 9, 7))
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCheckAvailability_Service(t *testing.T) {
	ctx := context.Background()
	availability := newFakeAvailabilityRepo()
	svc := newTestDriverService(availability, newFakeSettlementRepo())
	driverID := uuid.New()

	t.Run("rejects unknown slot names", func(t *testing.T) {
		_, err := svc.CheckAvailability(ctx, driverID, utcDate(2026, 9, 10), []driverDomain.TimeSlot{"midnight"})
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("unrecorded day defaults to available", func(t *testing.T) {
		check, err := svc.CheckAvailability(ctx, driverID, utcDate(2026, 9, 10), []driverDomain.TimeSlot{driverDomain.SlotMorning})
		require.NoError(t, err)
		assert.True(t, check.Available)
	})

	t.Run("blocked period covers unrecorded day", func(t *testing.T) {
		blockedDriver := uuid.New()
		period, err := driverDomain.NewBlockedPeriod(blockedDriver, utcDate(2026, 9, 10), utcDate(2026, 9, 11), driverDomain.BlockMaintenance, "")
		require.NoError(t, err)
		require.NoError(t, availability.SaveBlockedPeriod(ctx, period))

		check, err := svc.CheckAvailability(ctx, blockedDriver, utcDate(2026, 9, 10), []driverDomain.TimeSlot{driverDomain.SlotMorning})
		require.NoError(t, err)
		assert.False(t, check.Available)
		assert.Equal(t, "driver has blocked this period", check.Reason)
	})
}

func TestBookAndReleaseSlots(t *testing.T) {
	ctx := context.Background()
	availability := newFakeAvailabilityRepo()
	svc := newTestDriverService(availability, newFakeSettlementRepo())
	driverID := uuid.New()
	bookingID := uuid.New()
	start := utcDate(2026, 9, 10)

	require.NoError(t, svc.BookSlots(ctx, driverID, bookingID, start, 3, []driverDomain.TimeSlot{driverDomain.SlotFullDay}))

	for i := 0; i < 3; i++ {
		day, err := availability.FindDay(ctx, driverID, start.AddDate(0, 0, i))
		require.NoError(t, err)
		require.NotNil(t, day)
		assert.Equal(t, driverDomain.StatusBooked, day.FullDayStatus)
		require.NotNil(t, day.BookingID)
		assert.Equal(t, bookingID, *day.BookingID)
	}

	var conflictErr *domain.ConflictError
	err := svc.BookSlots(ctx, driverID, uuid.New(), start.AddDate(0, 0, 2), 2, []driverDomain.TimeSlot{driverDomain.SlotMorning})
	require.ErrorAs(t, err, &conflictErr)

	require.NoError(t, svc.ReleaseSlots(ctx, driverID, start, 3, []driverDomain.TimeSlot{driverDomain.SlotFullDay}))
	day, err := availability.FindDay(ctx, driverID, start)
	require.NoError(t, err)
	assert.Equal(t, driverDomain.StatusAvailable, day.FullDayStatus)
	assert.Nil(t, day.BookingID)
}

func TestBlockAndUnblockPeriod(t *testing.T) {
	ctx := context.Background()
	availability := newFakeAvailabilityRepo()
	svc := newTestDriverService(availability, newFakeSettlementRepo())
	driverID := uuid.New()

	period, err := svc.BlockPeriod(ctx, driverID, BlockPeriodRequest{
		StartDate: utcDate(2026, 9, 10),
		EndDate:   utcDate(2026, 9, 12),
		Reason:    driverDomain.BlockVacation,
	})
	require.NoError(t, err)

	day, err := availability.FindDay(ctx, driverID, utcDate(2026, 9, 11))
	require.NoError(t, err)
	require.NotNil(t, day)
	assert.True(t, day.Blocked)
	assert.Equal(t, "vacation", day.BlockReason)

	t.Run("other drivers cannot unblock", func(t *testing.T) {
		other, err := svc.BlockPeriod(ctx, driverID, BlockPeriodRequest{
			StartDate: utcDate(2026, 10, 1),
			EndDate:   utcDate(2026, 10, 2),
			Reason:    driverDomain.BlockPersonal,
		})
		require.NoError(t, err)

		var forbiddenErr *domain.ForbiddenError
		require.ErrorAs(t, svc.UnblockPeriod(ctx, uuid.New(), other.ID), &forbiddenErr)
	})

	require.NoError(t, svc.UnblockPeriod(ctx, driverID, period.ID))
	day, err = availability.FindDay(ctx, driverID, utcDate(2026, 9, 11))
	require.NoError(t, err)
	assert.False(t, day.Blocked)
	assert.Equal(t, driverDomain.StatusAvailable, day.FullDayStatus)
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	availability := newFakeAvailabilityRepo()
	svc := newTestDriverService(availability, newFakeSettlementRepo())
	driverID := uuid.New()

	settings := driverDomain.DefaultAvailabilitySettings(driverID)
	settings.WorkingDays = []time.Weekday{time.Saturday, time.Sunday}
	settings.MaxBookingsPerDay = 1

	saved, err := svc.UpdateSettings(ctx, settings)
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, saved.WorkingDays)
	assert.Equal(t, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC), saved.UpdatedAt)

	loaded, err := svc.GetSettings(ctx, driverID)
	require.NoError(t, err)
	assert.Equal(t, saved.WorkingDays, loaded.WorkingDays)

	var validationErr *domain.ValidationError
	settings.WorkingDays = nil
	_, err = svc.UpdateSettings(ctx, settings)
	require.ErrorAs(t, err, &validationErr)

	settings.WorkingDays = []time.Weekday{time.Monday}
	settings.MaxBookingsPerDay = 0
	_, err = svc.UpdateSettings(ctx, settings)
	require.ErrorAs(t, err, &validationErr)
}

func TestSettlementLifecycle(t *testing.T) {
	ctx := context.Background()
	settlements := newFakeSettlementRepo()
	svc := newTestDriverService(newFakeAvailabilityRepo(), settlements)
	driverID := uuid.New()

	created, err := svc.CreateSettlement(ctx, driverID, CreateSettlementRequest{
		PeriodStart:        utcDate(2026, 8, 17),
		PeriodEnd:          utcDate(2026, 8, 23),
		TripAmountsCents:   []int64{50000, 30000},
		Stats:              driverDomain.DriverStats{CompletionRate: 1.0, AverageRating: 4.9},
		ReferralBonusCents: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-08-W3", created.SettlementPeriod)
	assert.Equal(t, driverDomain.SettlementPending, created.Status)
	assert.Equal(t, created.Earnings.NetCents+500, created.NetPayoutCents)

	pending, err := svc.GetPendingSettlements(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	paid, err := svc.PaySettlement(ctx, created.ID, "bank_transfer", "TRX-9001", "weekly run")
	require.NoError(t, err)
	assert.Equal(t, driverDomain.SettlementPaid, paid.Status)
	assert.Equal(t, "TRX-9001", paid.BankReference)

	pending, err = svc.GetPendingSettlements(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPaySettlement_BelowMinimumPayout(t *testing.T) {
	ctx := context.Background()
	settlements := newFakeSettlementRepo()
	svc := newTestDriverService(newFakeAvailabilityRepo(), settlements)

	created, err := svc.CreateSettlement(ctx, uuid.New(), CreateSettlementRequest{
		PeriodStart:      utcDate(2026, 8, 17),
		PeriodEnd:        utcDate(2026, 8, 23),
		TripAmountsCents: []int64{4000},
	})
	require.NoError(t, err)
	require.Less(t, created.NetPayoutCents, driverDomain.DefaultCommissionSettings().MinPayoutCents)

	var validationErr *domain.ValidationError
	_, err = svc.PaySettlement(ctx, created.ID, "bank_transfer", "", "")
	require.ErrorAs(t, err, &validationErr)

	stored, err := settlements.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, driverDomain.SettlementPending, stored.Status, "rejected payout stays queued")
}

func TestFailSettlement(t *testing.T) {
	ctx := context.Background()
	settlements := newFakeSettlementRepo()
	svc := newTestDriverService(newFakeAvailabilityRepo(), settlements)

	created, err := svc.CreateSettlement(ctx, uuid.New(), CreateSettlementRequest{
		PeriodStart:      utcDate(2026, 8, 17),
		PeriodEnd:        utcDate(2026, 8, 23),
		TripAmountsCents: []int64{80000},
	})
	require.NoError(t, err)

	failed, err := svc.FailSettlement(ctx, created.ID, "bank account closed")
	require.NoError(t, err)
	assert.Equal(t, driverDomain.SettlementFailed, failed.Status)
	assert.Equal(t, "bank account closed", failed.Notes)

	_, err = svc.FailSettlement(ctx, uuid.New(), "missing")
	var notFoundErr *domain.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}
