package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	driverDomain "github.com/recharge-travels/service-quotes/internal/domain/driver"
	"github.com/recharge-travels/service-quotes/pkg/domain"
)

// AvailabilityModel is the GORM model for the driver_availability table.
// One row per driver per calendar day.
type AvailabilityModel struct {
	DriverID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Date          time.Time       `gorm:"type:date;primaryKey"`
	Slots         json.RawMessage `gorm:"type:jsonb;not null"`
	FullDayStatus string          `gorm:"not null;size:20"`
	BookingID     *uuid.UUID      `gorm:"type:uuid"`
	Blocked       bool            `gorm:"not null;default:false"`
	BlockReason   string          `gorm:"size:200"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (AvailabilityModel) TableName() string {
	return "driver_availability"
}

// BlockedPeriodModel is the GORM model for the driver_blocked_periods table.
type BlockedPeriodModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID    uuid.UUID `gorm:"type:uuid;index;not null"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	Reason      string    `gorm:"not null;size:30"`
	Description string    `gorm:"size:500"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BlockedPeriodModel) TableName() string {
	return "driver_blocked_periods"
}

// AvailabilitySettingsModel is the GORM model for per-driver policy.
type AvailabilitySettingsModel struct {
	DriverID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DefaultAvailability string          `gorm:"not null;size:20"`
	WorkingDays         json.RawMessage `gorm:"type:jsonb;not null"`
	StartTime           string          `gorm:"not null;size:5"`
	EndTime             string          `gorm:"not null;size:5"`
	MaxBookingsPerDay   int             `gorm:"not null"`
	AdvanceBookingDays  int             `gorm:"not null"`
	MinimumNoticeHours  int             `gorm:"not null"`
	AutoConfirm         bool            `gorm:"not null;default:false"`
	UpdatedAt           time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (AvailabilitySettingsModel) TableName() string {
	return "driver_availability_settings"
}

// GormAvailabilityRepository is the GORM-based implementation of
// AvailabilityRepository.
type GormAvailabilityRepository struct {
	db *gorm.DB
}

// NewGormAvailabilityRepository creates a new GormAvailabilityRepository.
func NewGormAvailabilityRepository(db *gorm.DB) *GormAvailabilityRepository {
	return &GormAvailabilityRepository{db: db}
}

// FindDay retrieves one driver day, or nil when none is recorded.
func (r *GormAvailabilityRepository) FindDay(ctx context.Context, driverID uuid.UUID, date time.Time) (*driverDomain.DayAvailability, error) {
	var model AvailabilityModel
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND date = ?", driverID, date.Format("2006-01-02")).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find availability day: %w", err)
	}
	return toDomainDay(&model)
}

// FindRange retrieves recorded days in [start, end] inclusive.
func (r *GormAvailabilityRepository) FindRange(ctx context.Context, driverID uuid.UUID, start, end time.Time) ([]*driverDomain.DayAvailability, error) {
	var models []AvailabilityModel
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND date BETWEEN ? AND ?", driverID, start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("date ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find availability range: %w", err)
	}

	days := make([]*driverDomain.DayAvailability, len(models))
	for i, m := range models {
		day, err := toDomainDay(&m)
		if err != nil {
			return nil, err
		}
		days[i] = day
	}
	return days, nil
}

// SaveDay upserts one driver day.
func (r *GormAvailabilityRepository) SaveDay(ctx context.Context, day *driverDomain.DayAvailability) error {
	model, err := toAvailabilityModel(day)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save availability day: %w", err)
	}
	return nil
}

// SaveDays upserts a batch of driver days in one transaction.
func (r *GormAvailabilityRepository) SaveDays(ctx context.Context, days []*driverDomain.DayAvailability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, day := range days {
			model, err := toAvailabilityModel(day)
			if err != nil {
				return err
			}
			if err := tx.Save(model).Error; err != nil {
				return fmt.Errorf("failed to save availability day: %w", err)
			}
		}
		return nil
	})
}

// FindBlockedPeriods lists a driver's blocked periods, newest first.
func (r *GormAvailabilityRepository) FindBlockedPeriods(ctx context.Context, driverID uuid.UUID) ([]*driverDomain.BlockedPeriod, error) {
	var models []BlockedPeriodModel
	err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("start_date DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find blocked periods: %w", err)
	}

	periods := make([]*driverDomain.BlockedPeriod, len(models))
	for i, m := range models {
		periods[i] = &driverDomain.BlockedPeriod{
			ID:          m.ID,
			DriverID:    m.DriverID,
			StartDate:   m.StartDate,
			EndDate:     m.EndDate,
			Reason:      driverDomain.BlockReasonKind(m.Reason),
			Description: m.Description,
			CreatedAt:   m.CreatedAt,
		}
	}
	return periods, nil
}

// SaveBlockedPeriod persists a blocked period.
func (r *GormAvailabilityRepository) SaveBlockedPeriod(ctx context.Context, period *driverDomain.BlockedPeriod) error {
	model := &BlockedPeriodModel{
		ID:          period.ID,
		DriverID:    period.DriverID,
		StartDate:   period.StartDate,
		EndDate:     period.EndDate,
		Reason:      string(period.Reason),
		Description: period.Description,
		CreatedAt:   period.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save blocked period: %w", err)
	}
	return nil
}

// DeleteBlockedPeriod removes a blocked period and returns it.
func (r *GormAvailabilityRepository) DeleteBlockedPeriod(ctx context.Context, id uuid.UUID) (*driverDomain.BlockedPeriod, error) {
	var model BlockedPeriodModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("BlockedPeriod", id.String())
		}
		return nil, fmt.Errorf("failed to find blocked period: %w", err)
	}
	if err := r.db.WithContext(ctx).Delete(&BlockedPeriodModel{}, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to delete blocked period: %w", err)
	}
	return &driverDomain.BlockedPeriod{
		ID:          model.ID,
		DriverID:    model.DriverID,
		StartDate:   model.StartDate,
		EndDate:     model.EndDate,
		Reason:      driverDomain.BlockReasonKind(model.Reason),
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
	}, nil
}

// FindSettings retrieves a driver's availability settings; defaults apply
// when none are stored.
func (r *GormAvailabilityRepository) FindSettings(ctx context.Context, driverID uuid.UUID) (driverDomain.AvailabilitySettings, error) {
	var model AvailabilitySettingsModel
	err := r.db.WithContext(ctx).Where("driver_id = ?", driverID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return driverDomain.DefaultAvailabilitySettings(driverID), nil
		}
		return driverDomain.AvailabilitySettings{}, fmt.Errorf("failed to find availability settings: %w", err)
	}

	var workingDays []time.Weekday
	if err := json.Unmarshal(model.WorkingDays, &workingDays); err != nil {
		return driverDomain.AvailabilitySettings{}, fmt.Errorf("failed to unmarshal working days: %w", err)
	}

	return driverDomain.AvailabilitySettings{
		DriverID:            model.DriverID,
		DefaultAvailability: driverDomain.AvailabilityStatus(model.DefaultAvailability),
		WorkingDays:         workingDays,
		StartTime:           model.StartTime,
		EndTime:             model.EndTime,
		MaxBookingsPerDay:   model.MaxBookingsPerDay,
		AdvanceBookingDays:  model.AdvanceBookingDays,
		MinimumNoticeHours:  model.MinimumNoticeHours,
		AutoConfirm:         model.AutoConfirm,
		UpdatedAt:           model.UpdatedAt,
	}, nil
}

// SaveSettings upserts a driver's availability settings.
func (r *GormAvailabilityRepository) SaveSettings(ctx context.Context, settings driverDomain.AvailabilitySettings) error {
	workingDays, err := json.Marshal(settings.WorkingDays)
	if err != nil {
		return fmt.Errorf("failed to marshal working days: %w", err)
	}
	model := &AvailabilitySettingsModel{
		DriverID:            settings.DriverID,
		DefaultAvailability: string(settings.DefaultAvailability),
		WorkingDays:         workingDays,
		StartTime:           settings.StartTime,
		EndTime:             settings.EndTime,
		MaxBookingsPerDay:   settings.MaxBookingsPerDay,
		AdvanceBookingDays:  settings.AdvanceBookingDays,
		MinimumNoticeHours:  settings.MinimumNoticeHours,
		AutoConfirm:         settings.AutoConfirm,
		UpdatedAt:           settings.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save availability settings: %w", err)
	}
	return nil
}

// --- Conversion Helpers ---

func toAvailabilityModel(day *driverDomain.DayAvailability) (*AvailabilityModel, error) {
	slots, err := json.Marshal(day.Slots)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal slots: %w", err)
	}
	return &AvailabilityModel{
		DriverID:      day.DriverID,
		Date:          day.Date,
		Slots:         slots,
		FullDayStatus: string(day.FullDayStatus),
		BookingID:     day.BookingID,
		Blocked:       day.Blocked,
		BlockReason:   day.BlockReason,
		UpdatedAt:     time.Now().UTC(),
	}, nil
}

func toDomainDay(m *AvailabilityModel) (*driverDomain.DayAvailability, error) {
	var slots driverDomain.SlotStates
	if err := json.Unmarshal(m.Slots, &slots); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slots: %w", err)
	}
	return &driverDomain.DayAvailability{
		DriverID:      m.DriverID,
		Date:          m.Date,
		Slots:         slots,
		FullDayStatus: driverDomain.AvailabilityStatus(m.FullDayStatus),
		BookingID:     m.BookingID,
		Blocked:       m.Blocked,
		BlockReason:   m.BlockReason,
	}, nil
}
