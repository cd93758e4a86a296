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

// SettlementModel is the GORM model for the driver_payment_settlements table.
type SettlementModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DriverID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	SettlementPeriod string          `gorm:"not null;size:20;index"`
	PeriodStart      time.Time       `gorm:"not null;index"`
	PeriodEnd        time.Time       `gorm:"not null"`
	Earnings         json.RawMessage `gorm:"type:jsonb;not null"`
	ReferralBonus    int64           `gorm:"not null;default:0"`
	NetPayoutCents   int64           `gorm:"not null"`
	Status           string          `gorm:"not null;size:20;index"`
	PaidAt           *time.Time      `gorm:""`
	PaymentMethod    string          `gorm:"size:50"`
	BankReference    string          `gorm:"size:100"`
	Notes            string          `gorm:"size:500"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (SettlementModel) TableName() string {
	return "driver_payment_settlements"
}

// GormSettlementRepository is the GORM-based implementation of
// SettlementRepository.
type GormSettlementRepository struct {
	db *gorm.DB
}

// NewGormSettlementRepository creates a new GormSettlementRepository.
func NewGormSettlementRepository(db *gorm.DB) *GormSettlementRepository {
	return &GormSettlementRepository{db: db}
}

// FindByID retrieves a settlement by its identifier.
func (r *GormSettlementRepository) FindByID(ctx context.Context, id uuid.UUID) (*driverDomain.Settlement, error) {
	var model SettlementModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Settlement", id.String())
		}
		return nil, fmt.Errorf("failed to find settlement: %w", err)
	}
	return toDomainSettlement(&model)
}

// FindByDriverID lists a driver's settlements, newest period first.
func (r *GormSettlementRepository) FindByDriverID(ctx context.Context, driverID uuid.UUID, limit int) ([]*driverDomain.Settlement, error) {
	if limit <= 0 {
		limit = 12
	}
	var models []SettlementModel
	err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("period_start DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find driver settlements: %w", err)
	}
	return toDomainSettlements(models)
}

// FindPending lists pending settlements, oldest first.
func (r *GormSettlementRepository) FindPending(ctx context.Context) ([]*driverDomain.Settlement, error) {
	var models []SettlementModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(driverDomain.SettlementPending)).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending settlements: %w", err)
	}
	return toDomainSettlements(models)
}

// Save persists a new settlement.
func (r *GormSettlementRepository) Save(ctx context.Context, settlement *driverDomain.Settlement) error {
	model, err := toSettlementModel(settlement)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save settlement: %w", err)
	}
	return nil
}

// Update persists changes to an existing settlement.
func (r *GormSettlementRepository) Update(ctx context.Context, settlement *driverDomain.Settlement) error {
	model, err := toSettlementModel(settlement)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&SettlementModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":         model.Status,
			"paid_at":        model.PaidAt,
			"payment_method": model.PaymentMethod,
			"bank_reference": model.BankReference,
			"notes":          model.Notes,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update settlement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Settlement", model.ID.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toSettlementModel(s *driverDomain.Settlement) (*SettlementModel, error) {
	earnings, err := json.Marshal(s.Earnings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal earnings: %w", err)
	}
	return &SettlementModel{
		ID:               s.ID,
		DriverID:         s.DriverID,
		SettlementPeriod: s.SettlementPeriod,
		PeriodStart:      s.PeriodStart,
		PeriodEnd:        s.PeriodEnd,
		Earnings:         earnings,
		ReferralBonus:    s.ReferralBonus,
		NetPayoutCents:   s.NetPayoutCents,
		Status:           string(s.Status),
		PaidAt:           s.PaidAt,
		PaymentMethod:    s.PaymentMethod,
		BankReference:    s.BankReference,
		Notes:            s.Notes,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}, nil
}

func toDomainSettlement(m *SettlementModel) (*driverDomain.Settlement, error) {
	var earnings driverDomain.PeriodEarnings
	if err := json.Unmarshal(m.Earnings, &earnings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal earnings: %w", err)
	}
	return &driverDomain.Settlement{
		ID:               m.ID,
		DriverID:         m.DriverID,
		SettlementPeriod: m.SettlementPeriod,
		PeriodStart:      m.PeriodStart,
		PeriodEnd:        m.PeriodEnd,
		Earnings:         earnings,
		ReferralBonus:    m.ReferralBonus,
		NetPayoutCents:   m.NetPayoutCents,
		Status:           driverDomain.SettlementStatus(m.Status),
		PaidAt:           m.PaidAt,
		PaymentMethod:    m.PaymentMethod,
		BankReference:    m.BankReference,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}, nil
}

func toDomainSettlements(models []SettlementModel) ([]*driverDomain.Settlement, error) {
	settlements := make([]*driverDomain.Settlement, len(models))
	for i, m := range models {
		s, err := toDomainSettlement(&m)
		if err != nil {
			return nil, err
		}
		settlements[i] = s
	}
	return settlements, nil
}
