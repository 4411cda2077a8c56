package repository

import (
	"context"

	"dealerdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.PaymentSlot, error)
	FindByIdentity(ctx context.Context, vehicleID uuid.UUID, slotNumber, paymentType string) (*model.PaymentSlot, error)
	Create(ctx context.Context, slot *model.PaymentSlot) error
	Update(ctx context.Context, slot *model.PaymentSlot) error
	Delete(ctx context.Context, vehicleID uuid.UUID, slotNumber, paymentType string) (int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.PaymentSlot, error) {
	var slots []model.PaymentSlot
	if err := GetDB(ctx, r.db).
		Where("vehicle_id = ?", vehicleID).
		Order("payment_type asc, slot_number asc").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *paymentRepository) FindByIdentity(ctx context.Context, vehicleID uuid.UUID, slotNumber, paymentType string) (*model.PaymentSlot, error) {
	var slot model.PaymentSlot
	err := GetDB(ctx, r.db).
		First(&slot, "vehicle_id = ? AND slot_number = ? AND payment_type = ?", vehicleID, slotNumber, paymentType).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *paymentRepository) Create(ctx context.Context, slot *model.PaymentSlot) error {
	return GetDB(ctx, r.db).Create(slot).Error
}

func (r *paymentRepository) Update(ctx context.Context, slot *model.PaymentSlot) error {
	return GetDB(ctx, r.db).Save(slot).Error
}

// Delete returns the affected row count so the service can distinguish a
// missing slot from a successful removal.
func (r *paymentRepository) Delete(ctx context.Context, vehicleID uuid.UUID, slotNumber, paymentType string) (int64, error) {
	result := GetDB(ctx, r.db).
		Where("vehicle_id = ? AND slot_number = ? AND payment_type = ?", vehicleID, slotNumber, paymentType).
		Delete(&model.PaymentSlot{})
	return result.RowsAffected, result.Error
}
