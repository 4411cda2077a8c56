package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dealerdesk/internal/model"
	"dealerdesk/internal/repository"
	ws "dealerdesk/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type PaymentSlotRequest struct {
	SlotNumber    string `json:"slot_number" binding:"required"`
	PaymentType   string `json:"payment_type" binding:"required"`
	AmountPaid    string `json:"amount_paid" binding:"required"`
	DateOfPayment string `json:"date_of_payment" binding:"required"` // yyyy-mm-dd
	PaymentMode   string `json:"payment_mode" binding:"required"`
	PaymentRemark string `json:"payment_remark"`
}

// BatchPaymentRequest mirrors the legacy batch contract: one call upserting
// several slots for a vehicle at once.
type BatchPaymentRequest struct {
	VehicleID    string               `json:"vehicle_id"`
	PaymentSlots []PaymentSlotRequest `json:"payment_slots" binding:"required,min=1,dive"`
}

type PaymentSlotResponse struct {
	ID            string `json:"id"`
	VehicleID     string `json:"vehicle_id"`
	SlotNumber    string `json:"slot_number"`
	PaymentType   string `json:"payment_type"`
	AmountPaid    string `json:"amount_paid"`
	DateOfPayment string `json:"date_of_payment"`
	PaymentMode   string `json:"payment_mode"`
	PaymentRemark string `json:"payment_remark"`
	Created       bool   `json:"created"` // true when the upsert inserted a new slot
}

// --- Interface ---

type PaymentService interface {
	ListPayments(ctx context.Context, vehicleID string) ([]PaymentSlotResponse, error)
	UpsertPayment(ctx context.Context, userID, vehicleID string, req PaymentSlotRequest) (PaymentSlotResponse, error)
	BatchUpsertPayments(ctx context.Context, userID string, req BatchPaymentRequest) ([]PaymentSlotResponse, error)
	DeletePayment(ctx context.Context, userID, vehicleID, slotNumber, paymentType string) error
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	vehicleRepo repository.VehicleRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	vehicleRepo repository.VehicleRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		vehicleRepo: vehicleRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

// --- Implementation ---

func (s *paymentService) ListPayments(ctx context.Context, vehicleID string) ([]PaymentSlotResponse, error) {
	vid, err := uuid.Parse(vehicleID)
	if err != nil {
		return nil, fmt.Errorf("invalid vehicle id: %w", err)
	}

	slots, err := s.paymentRepo.ListByVehicle(ctx, vid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}

	result := make([]PaymentSlotResponse, 0, len(slots))
	for _, slot := range slots {
		result = append(result, toPaymentResponse(slot, false))
	}
	return result, nil
}

// UpsertPayment creates or replaces the slot identified by
// (vehicle_id, slot_number, payment_type). The surrogate row id is preserved
// on update so references stay stable.
func (s *paymentService) UpsertPayment(ctx context.Context, userID, vehicleID string, req PaymentSlotRequest) (PaymentSlotResponse, error) {
	vid, err := uuid.Parse(vehicleID)
	if err != nil {
		return PaymentSlotResponse{}, fmt.Errorf("invalid vehicle id: %w", err)
	}

	if _, err := s.vehicleRepo.FindByID(ctx, vid); err != nil {
		return PaymentSlotResponse{}, fmt.Errorf("vehicle not found: %w", err)
	}

	var result PaymentSlotResponse
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var upsertErr error
		result, upsertErr = s.upsertOne(txCtx, userID, vid, req)
		return upsertErr
	})
	if err != nil {
		return PaymentSlotResponse{}, err
	}

	s.notify(vid, result.SlotNumber, result.PaymentType)
	return result, nil
}

// BatchUpsertPayments applies all slots in one transaction: either the whole
// batch lands or none of it does.
func (s *paymentService) BatchUpsertPayments(ctx context.Context, userID string, req BatchPaymentRequest) ([]PaymentSlotResponse, error) {
	vid, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("invalid vehicle id: %w", err)
	}

	if _, err := s.vehicleRepo.FindByID(ctx, vid); err != nil {
		return nil, fmt.Errorf("vehicle not found: %w", err)
	}

	results := make([]PaymentSlotResponse, 0, len(req.PaymentSlots))
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for _, slotReq := range req.PaymentSlots {
			result, upsertErr := s.upsertOne(txCtx, userID, vid, slotReq)
			if upsertErr != nil {
				return upsertErr
			}
			results = append(results, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(vid, "", "")
	return results, nil
}

func (s *paymentService) DeletePayment(ctx context.Context, userID, vehicleID, slotNumber, paymentType string) error {
	vid, err := uuid.Parse(vehicleID)
	if err != nil {
		return fmt.Errorf("invalid vehicle id: %w", err)
	}

	if !model.ValidPaymentType(paymentType) {
		return FieldErrors{"payment_type": "must be purchase or selling"}
	}

	affected, err := s.paymentRepo.Delete(ctx, vid, slotNumber, paymentType)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("payment slot not found: %w", gorm.ErrRecordNotFound)
	}

	s.logAudit(ctx, userID, model.ActionDeletePayment, vid, slotNumber, paymentType, "")
	s.notify(vid, slotNumber, paymentType)
	return nil
}

// --- Helpers ---

func (s *paymentService) upsertOne(ctx context.Context, userID string, vehicleID uuid.UUID, req PaymentSlotRequest) (PaymentSlotResponse, error) {
	fields := FieldErrors{}

	if !model.ValidSlotNumber(req.SlotNumber) {
		fields["slot_number"] = fmt.Sprintf("must be one of Slot 1 through Slot %d", model.MaxPaymentSlots)
	}
	if !model.ValidPaymentType(req.PaymentType) {
		fields["payment_type"] = "must be purchase or selling"
	}
	if !model.ValidPaymentMode(req.PaymentMode) {
		fields["payment_mode"] = "must be one of cash, bank_transfer, cheque, upi, credit_card, debit_card"
	}

	amount, err := decimal.NewFromString(req.AmountPaid)
	if err != nil {
		fields["amount_paid"] = "must be a decimal number"
	} else if amount.IsNegative() {
		fields["amount_paid"] = "must not be negative"
	}

	paymentDate, err := time.Parse(dateLayout, req.DateOfPayment)
	if err != nil {
		fields["date_of_payment"] = "must be a yyyy-mm-dd date"
	}

	if err := fields.ErrIfAny(); err != nil {
		return PaymentSlotResponse{}, err
	}

	existing, err := s.paymentRepo.FindByIdentity(ctx, vehicleID, req.SlotNumber, req.PaymentType)
	switch {
	case err == nil:
		existing.AmountPaid = amount
		existing.DateOfPayment = paymentDate
		existing.PaymentMode = req.PaymentMode
		existing.PaymentRemark = req.PaymentRemark
		if updateErr := s.paymentRepo.Update(ctx, existing); updateErr != nil {
			return PaymentSlotResponse{}, fmt.Errorf("failed to update payment: %w", updateErr)
		}
		s.logAudit(ctx, userID, model.ActionUpsertPayment, vehicleID, req.SlotNumber, req.PaymentType, amount.StringFixed(2))
		return toPaymentResponse(*existing, false), nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		slot := model.PaymentSlot{
			VehicleID:     vehicleID,
			SlotNumber:    req.SlotNumber,
			PaymentType:   req.PaymentType,
			AmountPaid:    amount,
			DateOfPayment: paymentDate,
			PaymentMode:   req.PaymentMode,
			PaymentRemark: req.PaymentRemark,
		}
		if createErr := s.paymentRepo.Create(ctx, &slot); createErr != nil {
			return PaymentSlotResponse{}, fmt.Errorf("failed to create payment: %w", createErr)
		}
		s.logAudit(ctx, userID, model.ActionUpsertPayment, vehicleID, req.SlotNumber, req.PaymentType, amount.StringFixed(2))
		return toPaymentResponse(slot, true), nil

	default:
		return PaymentSlotResponse{}, fmt.Errorf("failed to look up payment slot: %w", err)
	}
}

func (s *paymentService) logAudit(ctx context.Context, userID, action string, vehicleID uuid.UUID, slotNumber, paymentType, amount string) {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}

	details, _ := json.Marshal(map[string]string{
		"vehicle_id":   vehicleID.String(),
		"slot_number":  slotNumber,
		"payment_type": paymentType,
		"amount_paid":  amount,
	})

	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:   uid,
		Action:   action,
		EntityID: vehicleID.String(),
		Details:  string(details),
	})
}

func (s *paymentService) notify(vehicleID uuid.UUID, slotNumber, paymentType string) {
	if s.hub == nil {
		return
	}
	_ = s.hub.BroadcastJSON(OutboundEvent{
		Event: "payments.changed",
		Data: map[string]interface{}{
			"vehicle_id":   vehicleID.String(),
			"slot_number":  slotNumber,
			"payment_type": paymentType,
		},
	})
}

// --- Mapping ---

func toPaymentResponse(slot model.PaymentSlot, created bool) PaymentSlotResponse {
	return PaymentSlotResponse{
		ID:            slot.ID.String(),
		VehicleID:     slot.VehicleID.String(),
		SlotNumber:    slot.SlotNumber,
		PaymentType:   slot.PaymentType,
		AmountPaid:    slot.AmountPaid.StringFixed(2),
		DateOfPayment: slot.DateOfPayment.Format(dateLayout),
		PaymentMode:   slot.PaymentMode,
		PaymentRemark: slot.PaymentRemark,
		Created:       created,
	}
}
