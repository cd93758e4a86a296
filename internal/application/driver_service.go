package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	driverDomain "github.com/recharge-travels/service-quotes/internal/domain/driver"
	"github.com/recharge-travels/service-quotes/pkg/domain"
)

// BlockPeriodRequest marks a span of days as unavailable for a driver.
type BlockPeriodRequest struct {
	StartDate   time.Time                    `json:"start_date" binding:"required"`
	EndDate     time.Time                    `json:"end_date" binding:"required"`
	Reason      driverDomain.BlockReasonKind `json:"reason" binding:"required"`
	Description string                       `json:"description"`
}

// CreateSettlementRequest builds one payout settlement for a driver period.
type CreateSettlementRequest struct {
	PeriodStart        time.Time                `json:"period_start" binding:"required"`
	PeriodEnd          time.Time                `json:"period_end" binding:"required"`
	TripAmountsCents   []int64                  `json:"trip_amounts_cents"`
	Stats              driverDomain.DriverStats `json:"stats"`
	ReferralBonusCents int64                    `json:"referral_bonus_cents"`
}

// DriverService manages driver calendars and payout settlements.
type DriverService struct {
	availability driverDomain.AvailabilityRepository
	settlements  driverDomain.SettlementRepository
	commission   driverDomain.CommissionSettings
	logger       *zap.Logger
	now          func() time.Time
}

// NewDriverService creates a new DriverService.
func NewDriverService(
	availability driverDomain.AvailabilityRepository,
	settlements driverDomain.SettlementRepository,
	commission driverDomain.CommissionSettings,
	logger *zap.Logger,
) *DriverService {
	return &DriverService{
		availability: availability,
		settlements:  settlements,
		commission:   commission,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *DriverService) WithClock(now func() time.Time) *DriverService {
	s.now = now
	return s
}

// --- Availability ---

// GetCalendar returns one day record per date in [start, end]. Days without
// an explicit record are synthesized from the driver's settings and blocked
// periods so the caller always sees a complete calendar.
func (s *DriverService) GetCalendar(ctx context.Context, driverID uuid.UUID, start, end time.Time) ([]*driverDomain.DayAvailability, error) {
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		return nil, domain.NewValidationError("end date must not be before start date")
	}

	recorded, err := s.availability.FindRange(ctx, driverID, start, end)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]*driverDomain.DayAvailability, len(recorded))
	for _, day := range recorded {
		byDate[day.Date.Format("2006-01-02")] = day
	}

	settings, err := s.availability.FindSettings(ctx, driverID)
	if err != nil {
		return nil, err
	}
	periods, err := s.availability.FindBlockedPeriods(ctx, driverID)
	if err != nil {
		return nil, err
	}

	var calendar []*driverDomain.DayAvailability
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if day, ok := byDate[date.Format("2006-01-02")]; ok {
			calendar = append(calendar, day)
			continue
		}
		day := driverDomain.NewDayAvailability(driverID, date)
		if !settings.WorksOn(date.Weekday()) {
			day.Block("outside working days")
		}
		for _, p := range periods {
			if p.Covers(date) {
				day.Block(string(p.Reason))
				break
			}
		}
		calendar = append(calendar, day)
	}
	return calendar, nil
}

// CheckAvailability reports whether the driver can take the requested slots
// on a date.
func (s *DriverService) CheckAvailability(ctx context.Context, driverID uuid.UUID, date time.Time, slots []driverDomain.TimeSlot) (driverDomain.AvailabilityCheck, error) {
	for _, slot := range slots {
		if !slot.IsValid() {
			return driverDomain.AvailabilityCheck{}, domain.NewValidationError(fmt.Sprintf("invalid time slot: %s", slot))
		}
	}

	date = dateOnly(date)
	day, err := s.availability.FindDay(ctx, driverID, date)
	if err != nil {
		return driverDomain.AvailabilityCheck{}, err
	}
	settings, err := s.availability.FindSettings(ctx, driverID)
	if err != nil {
		return driverDomain.AvailabilityCheck{}, err
	}

	if day == nil {
		periods, err := s.availability.FindBlockedPeriods(ctx, driverID)
		if err != nil {
			return driverDomain.AvailabilityCheck{}, err
		}
		for _, p := range periods {
			if p.Covers(date) {
				return driverDomain.AvailabilityCheck{Available: false, Reason: "driver has blocked this period"}, nil
			}
		}
	}

	return driverDomain.CheckAvailability(day, settings, s.now(), date, slots), nil
}

// BookSlots reserves the given slots across each trip day for a booking.
func (s *DriverService) BookSlots(ctx context.Context, driverID, bookingID uuid.UUID, start time.Time, days int, slots []driverDomain.TimeSlot) error {
	if days < 1 {
		return domain.NewValidationError("trip must span at least one day")
	}

	start = dateOnly(start)
	updated := make([]*driverDomain.DayAvailability, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		day, err := s.availability.FindDay(ctx, driverID, date)
		if err != nil {
			return err
		}
		if day == nil {
			day = driverDomain.NewDayAvailability(driverID, date)
		}
		if err := day.BookSlots(slots, bookingID); err != nil {
			return err
		}
		updated = append(updated, day)
	}

	if err := s.availability.SaveDays(ctx, updated); err != nil {
		return err
	}
	s.logger.Info("driver slots booked",
		zap.String("driver_id", driverID.String()),
		zap.String("booking_id", bookingID.String()),
		zap.Int("days", days),
	)
	return nil
}

// ReleaseSlots frees previously booked slots, e.g. after a cancellation.
func (s *DriverService) ReleaseSlots(ctx context.Context, driverID uuid.UUID, start time.Time, days int, slots []driverDomain.TimeSlot) error {
	start = dateOnly(start)
	var updated []*driverDomain.DayAvailability
	for i := 0; i < days; i++ {
		day, err := s.availability.FindDay(ctx, driverID, start.AddDate(0, 0, i))
		if err != nil {
			return err
		}
		if day == nil {
			continue
		}
		day.ReleaseSlots(slots)
		updated = append(updated, day)
	}
	if len(updated) == 0 {
		return nil
	}
	return s.availability.SaveDays(ctx, updated)
}

// BlockPeriod records a blocked period and closes every day it covers.
func (s *DriverService) BlockPeriod(ctx context.Context, driverID uuid.UUID, req BlockPeriodRequest) (*driverDomain.BlockedPeriod, error) {
	period, err := driverDomain.NewBlockedPeriod(driverID, dateOnly(req.StartDate), dateOnly(req.EndDate), req.Reason, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.availability.SaveBlockedPeriod(ctx, period); err != nil {
		return nil, err
	}

	var days []*driverDomain.DayAvailability
	for _, date := range period.Dates() {
		day, err := s.availability.FindDay(ctx, driverID, date)
		if err != nil {
			return nil, err
		}
		if day == nil {
			day = driverDomain.NewDayAvailability(driverID, date)
		}
		day.Block(string(period.Reason))
		days = append(days, day)
	}
	if err := s.availability.SaveDays(ctx, days); err != nil {
		return nil, err
	}

	s.logger.Info("driver period blocked",
		zap.String("driver_id", driverID.String()),
		zap.Time("start", period.StartDate),
		zap.Time("end", period.EndDate),
		zap.String("reason", string(period.Reason)),
	)
	return period, nil
}

// UnblockPeriod removes a blocked period and reopens days it had closed.
// Days holding an active booking are left untouched.
func (s *DriverService) UnblockPeriod(ctx context.Context, driverID, periodID uuid.UUID) error {
	period, err := s.availability.DeleteBlockedPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	if period.DriverID != driverID {
		return domain.NewForbiddenError("blocked period does not belong to this driver")
	}

	var days []*driverDomain.DayAvailability
	for _, date := range period.Dates() {
		day, err := s.availability.FindDay(ctx, driverID, date)
		if err != nil {
			return err
		}
		if day == nil || day.BookingID != nil {
			continue
		}
		day.Unblock()
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil
	}
	return s.availability.SaveDays(ctx, days)
}

// GetBlockedPeriods lists a driver's blocked periods.
func (s *DriverService) GetBlockedPeriods(ctx context.Context, driverID uuid.UUID) ([]*driverDomain.BlockedPeriod, error) {
	return s.availability.FindBlockedPeriods(ctx, driverID)
}

// GetSettings returns a driver's availability settings, defaults included.
func (s *DriverService) GetSettings(ctx context.Context, driverID uuid.UUID) (driverDomain.AvailabilitySettings, error) {
	return s.availability.FindSettings(ctx, driverID)
}

// UpdateSettings replaces a driver's availability settings.
func (s *DriverService) UpdateSettings(ctx context.Context, settings driverDomain.AvailabilitySettings) (driverDomain.AvailabilitySettings, error) {
	if len(settings.WorkingDays) == 0 {
		return driverDomain.AvailabilitySettings{}, domain.NewValidationError("at least one working day is required")
	}
	if settings.MaxBookingsPerDay < 1 {
		return driverDomain.AvailabilitySettings{}, domain.NewValidationError("max bookings per day must be at least 1")
	}
	settings.UpdatedAt = s.now().UTC()
	if err := s.availability.SaveSettings(ctx, settings); err != nil {
		return driverDomain.AvailabilitySettings{}, err
	}
	return settings, nil
}

// --- Settlements ---

// CreateSettlement computes period earnings from completed trip amounts and
// records a pending settlement.
func (s *DriverService) CreateSettlement(ctx context.Context, driverID uuid.UUID, req CreateSettlementRequest) (*driverDomain.Settlement, error) {
	earnings := driverDomain.ComputePeriodEarnings(req.TripAmountsCents, req.Stats, s.commission)
	settlement, err := driverDomain.NewSettlement(driverID, req.PeriodStart, req.PeriodEnd, earnings, req.ReferralBonusCents)
	if err != nil {
		return nil, err
	}

	if err := s.settlements.Save(ctx, settlement); err != nil {
		return nil, fmt.Errorf("failed to save settlement: %w", err)
	}

	s.logger.Info("settlement created",
		zap.String("driver_id", driverID.String()),
		zap.String("period", settlement.SettlementPeriod),
		zap.Int64("net_payout_cents", settlement.NetPayoutCents),
	)
	return settlement, nil
}

// GetDriverSettlements lists a driver's settlements, newest period first.
func (s *DriverService) GetDriverSettlements(ctx context.Context, driverID uuid.UUID, limit int) ([]*driverDomain.Settlement, error) {
	return s.settlements.FindByDriverID(ctx, driverID, limit)
}

// GetPendingSettlements lists unpaid settlements, oldest first (admin).
func (s *DriverService) GetPendingSettlements(ctx context.Context) ([]*driverDomain.Settlement, error) {
	return s.settlements.FindPending(ctx)
}

// PaySettlement marks a pending settlement as paid out. Payouts below the
// configured minimum are rejected and stay queued for a later period.
func (s *DriverService) PaySettlement(ctx context.Context, settlementID uuid.UUID, method, bankReference, notes string) (*driverDomain.Settlement, error) {
	settlement, err := s.settlements.FindByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	if !settlement.MeetsMinimumPayout(s.commission) {
		return nil, domain.NewValidationError(fmt.Sprintf(
			"net payout %d cents is below the minimum of %d cents",
			settlement.NetPayoutCents, s.commission.MinPayoutCents,
		))
	}
	if err := settlement.MarkPaid(method, bankReference, notes); err != nil {
		return nil, err
	}
	if err := s.settlements.Update(ctx, settlement); err != nil {
		return nil, err
	}

	s.logger.Info("settlement paid",
		zap.String("settlement_id", settlement.ID.String()),
		zap.String("driver_id", settlement.DriverID.String()),
		zap.Int64("net_payout_cents", settlement.NetPayoutCents),
	)
	return settlement, nil
}

// FailSettlement records a payout failure so it can be requeued.
func (s *DriverService) FailSettlement(ctx context.Context, settlementID uuid.UUID, notes string) (*driverDomain.Settlement, error) {
	settlement, err := s.settlements.FindByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if err := settlement.MarkFailed(notes); err != nil {
		return nil, err
	}
	if err := s.settlements.Update(ctx, settlement); err != nil {
		return nil, err
	}
	return settlement, nil
}

// CommissionSettings exposes the active commission configuration.
func (s *DriverService) CommissionSettings() driverDomain.CommissionSettings {
	return s.commission
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
