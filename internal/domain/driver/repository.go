package driver

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AvailabilityRepository defines persistence for driver calendars.
type AvailabilityRepository interface {
	// FindDay retrieves one driver day, or nil when none is recorded.
	FindDay(ctx context.Context, driverID uuid.UUID, date time.Time) (*DayAvailability, error)

	// FindRange retrieves recorded days in [start, end] inclusive.
	FindRange(ctx context.Context, driverID uuid.UUID, start, end time.Time) ([]*DayAvailability, error)

	// SaveDay upserts one driver day.
	SaveDay(ctx context.Context, day *DayAvailability) error

	// SaveDays upserts a batch of driver days.
	SaveDays(ctx context.Context, days []*DayAvailability) error

	// FindBlockedPeriods lists a driver's blocked periods, newest first.
	FindBlockedPeriods(ctx context.Context, driverID uuid.UUID) ([]*BlockedPeriod, error)

	// SaveBlockedPeriod persists a blocked period.
	SaveBlockedPeriod(ctx context.Context, period *BlockedPeriod) error

	// DeleteBlockedPeriod removes a blocked period by ID.
	DeleteBlockedPeriod(ctx context.Context, id uuid.UUID) (*BlockedPeriod, error)

	// FindSettings retrieves a driver's availability settings, or defaults.
	FindSettings(ctx context.Context, driverID uuid.UUID) (AvailabilitySettings, error)

	// SaveSettings upserts a driver's availability settings.
	SaveSettings(ctx context.Context, settings AvailabilitySettings) error
}

// SettlementRepository defines persistence for payout settlements.
type SettlementRepository interface {
	// FindByID retrieves a settlement by its identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Settlement, error)

	// FindByDriverID lists a driver's settlements, newest period first.
	FindByDriverID(ctx context.Context, driverID uuid.UUID, limit int) ([]*Settlement, error)

	// FindPending lists pending settlements, oldest first.
	FindPending(ctx context.Context) ([]*Settlement, error)

	// Save persists a new settlement.
	Save(ctx context.Context, settlement *Settlement) error

	// Update persists changes to an existing settlement.
	Update(ctx context.Context, settlement *Settlement) error
}
