package repository

import (
	"context"

	"dealerdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OutboundRepository interface {
	Create(ctx context.Context, record *model.OutboundRecord) error
	FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) (*model.OutboundRecord, error)
	FindByVehicleIDWithVehicle(ctx context.Context, vehicleID uuid.UUID) (*model.OutboundRecord, error)
	List(ctx context.Context, deliveryStatus string, page, limit int) ([]model.OutboundRecord, int64, error)
	Update(ctx context.Context, record *model.OutboundRecord) error
}

type outboundRepository struct {
	db *gorm.DB
}

func NewOutboundRepository(db *gorm.DB) OutboundRepository {
	return &outboundRepository{db: db}
}

func (r *outboundRepository) Create(ctx context.Context, record *model.OutboundRecord) error {
	return GetDB(ctx, r.db).Create(record).Error
}

func (r *outboundRepository) FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) (*model.OutboundRecord, error) {
	var record model.OutboundRecord
	if err := GetDB(ctx, r.db).First(&record, "vehicle_id = ?", vehicleID).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *outboundRepository) FindByVehicleIDWithVehicle(ctx context.Context, vehicleID uuid.UUID) (*model.OutboundRecord, error) {
	var record model.OutboundRecord
	if err := GetDB(ctx, r.db).Preload("Vehicle").Preload("Vehicle.Images").First(&record, "vehicle_id = ?", vehicleID).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *outboundRepository) List(ctx context.Context, deliveryStatus string, page, limit int) ([]model.OutboundRecord, int64, error) {
	var records []model.OutboundRecord
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.OutboundRecord{})
	if deliveryStatus != "" {
		query = query.Where("delivery_status = ?", deliveryStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetchQuery := db.Preload("Vehicle")
	if deliveryStatus != "" {
		fetchQuery = fetchQuery.Where("delivery_status = ?", deliveryStatus)
	}
	if err := fetchQuery.Order("created_at desc").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *outboundRepository) Update(ctx context.Context, record *model.OutboundRecord) error {
	return GetDB(ctx, r.db).Save(record).Error
}
