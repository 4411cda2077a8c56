package repository

import (
	"context"

	"dealerdesk/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MaintenanceRepository interface {
	Create(ctx context.Context, record *model.MaintenanceRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MaintenanceRecord, error)
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID, page, limit int) ([]model.MaintenanceRecord, int64, error)
	SumCostByVehicle(ctx context.Context, vehicleID uuid.UUID) (decimal.Decimal, error)
	Update(ctx context.Context, record *model.MaintenanceRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type maintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) Create(ctx context.Context, record *model.MaintenanceRecord) error {
	return GetDB(ctx, r.db).Create(record).Error
}

func (r *maintenanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MaintenanceRecord, error) {
	var record model.MaintenanceRecord
	if err := GetDB(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *maintenanceRepository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID, page, limit int) ([]model.MaintenanceRecord, int64, error) {
	var records []model.MaintenanceRecord
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.MaintenanceRecord{}).Where("vehicle_id = ?", vehicleID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("vehicle_id = ?", vehicleID).Order("service_date desc").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// SumCostByVehicle aggregates in SQL so the total never depends on pagination
func (r *maintenanceRepository) SumCostByVehicle(ctx context.Context, vehicleID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := GetDB(ctx, r.db).Model(&model.MaintenanceRecord{}).
		Select("COALESCE(SUM(cost), 0) as total").
		Where("vehicle_id = ?", vehicleID).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *maintenanceRepository) Update(ctx context.Context, record *model.MaintenanceRecord) error {
	return GetDB(ctx, r.db).Save(record).Error
}

func (r *maintenanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.MaintenanceRecord{}).Error
}
