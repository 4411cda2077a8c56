package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dealerdesk/internal/model"
	"dealerdesk/internal/repository"
	ws "dealerdesk/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// --- DTOs ---

type CreateOutboundRequest struct {
	BuyersName              string `json:"buyers_name" binding:"required"`
	BuyersContactDetails    string `json:"buyers_contact_details" binding:"required"`
	BuyersAddress           string `json:"buyers_address"`
	OutboundDate            string `json:"outbound_date"`             // yyyy-mm-dd, defaults to today
	EstimatedDeliveryDate   string `json:"estimated_delivery_date"`   // yyyy-mm-dd, optional
	VehicleCurrentCondition string `json:"vehicle_current_condition" binding:"required"`
	Notes                   string `json:"notes"`
	DeliveryStatus          string `json:"delivery_status"` // defaults to Pending
	OtherExpense            string `json:"other_expense"`   // decimal string, defaults to 0
	SellingPrice            string `json:"selling_price" binding:"required"`
}

// UpdateOutboundRequest carries partial edits: nil pointers leave fields untouched
type UpdateOutboundRequest struct {
	BuyersName              *string `json:"buyers_name"`
	BuyersContactDetails    *string `json:"buyers_contact_details"`
	BuyersAddress           *string `json:"buyers_address"`
	OutboundDate            *string `json:"outbound_date"`
	EstimatedDeliveryDate   *string `json:"estimated_delivery_date"`
	VehicleCurrentCondition *string `json:"vehicle_current_condition"`
	Notes                   *string `json:"notes"`
	DeliveryStatus          *string `json:"delivery_status"`
	OtherExpense            *string `json:"other_expense"`
	SellingPrice            *string `json:"selling_price"`
}

type OutboundVehicleInfo struct {
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	LicensePlate string   `json:"license_plate"`
	ImageURLs    []string `json:"image_urls"`
}

type OutboundResponse struct {
	ID                      string               `json:"id"`
	VehicleID               string               `json:"vehicle_id"`
	Vehicle                 *OutboundVehicleInfo `json:"vehicle,omitempty"`
	BuyersName              string               `json:"buyers_name"`
	BuyersContactDetails    string               `json:"buyers_contact_details"`
	BuyersAddress           string               `json:"buyers_address"`
	OutboundDate            string               `json:"outbound_date"`
	EstimatedDeliveryDate   *string              `json:"estimated_delivery_date"`
	VehicleCurrentCondition string               `json:"vehicle_current_condition"`
	Notes                   string               `json:"notes"`
	DeliveryStatus          string               `json:"delivery_status"`
	OtherExpense            string               `json:"other_expense"`
	SellingPrice            string               `json:"selling_price"`
	CreatedAt               string               `json:"created_at"`
	UpdatedAt               string               `json:"updated_at"`
}

// OutboundEvent is the websocket payload broadcast on sale/delivery changes
type OutboundEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// --- Interface ---

type OutboundService interface {
	CreateOutbound(ctx context.Context, userID, vehicleID string, req CreateOutboundRequest) (OutboundResponse, error)
	UpdateOutbound(ctx context.Context, userID, vehicleID string, req UpdateOutboundRequest) (OutboundResponse, error)
	GetOutbound(ctx context.Context, vehicleID string) (OutboundResponse, error)
	ListOutbound(ctx context.Context, deliveryStatus string, page, limit int) ([]OutboundResponse, int64, error)
}

type outboundService struct {
	outboundRepo repository.OutboundRepository
	vehicleRepo  repository.VehicleRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewOutboundService(
	outboundRepo repository.OutboundRepository,
	vehicleRepo repository.VehicleRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) OutboundService {
	return &outboundService{
		outboundRepo: outboundRepo,
		vehicleRepo:  vehicleRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

// --- Implementation ---

func (s *outboundService) CreateOutbound(ctx context.Context, userID, vehicleID string, req CreateOutboundRequest) (OutboundResponse, error) {
	vid, err := uuid.Parse(vehicleID)
	if err != nil {
		return OutboundResponse{}, fmt.Errorf("invalid vehicle id: %w", err)
	}

	fields := FieldErrors{}

	if req.BuyersName == "" {
		fields["buyers_name"] = "buyer's name is required"
	}
	if req.BuyersContactDetails == "" {
		fields["buyers_contact_details"] = "buyer's contact details are required"
	}

	condition := model.NormalizeCondition(req.VehicleCurrentCondition)
	if !model.ValidCondition(condition) {
		fields["vehicle_current_condition"] = "must be one of Excellent, Good, Bad, Worse"
	}

	deliveryStatus := req.DeliveryStatus
	if deliveryStatus == "" {
		deliveryStatus = model.DeliveryPending
	}
	if !model.ValidDeliveryStatus(deliveryStatus) {
		fields["delivery_status"] = "must be one of Pending, Dispatched, Delivered, In Transit, Cancelled"
	}

	otherExpense := decimal.Zero
	if req.OtherExpense != "" {
		otherExpense, err = decimal.NewFromString(req.OtherExpense)
		if err != nil {
			fields["other_expense"] = "must be a decimal number"
		} else if otherExpense.IsNegative() {
			fields["other_expense"] = "must not be negative"
		}
	}

	sellingPrice, err := decimal.NewFromString(req.SellingPrice)
	if err != nil {
		fields["selling_price"] = "must be a decimal number"
	} else if sellingPrice.IsNegative() {
		fields["selling_price"] = "must not be negative"
	}

	outboundDate := time.Now()
	if req.OutboundDate != "" {
		outboundDate, err = time.Parse(dateLayout, req.OutboundDate)
		if err != nil {
			fields["outbound_date"] = "must be a yyyy-mm-dd date"
		}
	}

	var estimatedDelivery *time.Time
	if req.EstimatedDeliveryDate != "" {
		parsed, err := time.Parse(dateLayout, req.EstimatedDeliveryDate)
		if err != nil {
			fields["estimated_delivery_date"] = "must be a yyyy-mm-dd date"
		} else {
			estimatedDelivery = &parsed
		}
	}

	if err := fields.ErrIfAny(); err != nil {
		return OutboundResponse{}, err
	}

	record := model.OutboundRecord{
		VehicleID:               vid,
		BuyersName:              req.BuyersName,
		BuyersContactDetails:    req.BuyersContactDetails,
		BuyersAddress:           req.BuyersAddress,
		OutboundDate:            outboundDate,
		EstimatedDeliveryDate:   estimatedDelivery,
		VehicleCurrentCondition: condition,
		Notes:                   req.Notes,
		DeliveryStatus:          deliveryStatus,
		OtherExpense:            otherExpense,
		SellingPrice:            sellingPrice.Round(2),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		vehicle, findErr := s.vehicleRepo.FindByID(txCtx, vid)
		if findErr != nil {
			return fmt.Errorf("vehicle not found: %w", findErr)
		}

		if vehicle.Status != model.VehicleStatusInStock {
			return ErrVehicleAlreadySold
		}

		if createErr := s.outboundRepo.Create(txCtx, &record); createErr != nil {
			return fmt.Errorf("failed to create outbound record: %w", createErr)
		}

		if statusErr := s.vehicleRepo.UpdateStatus(txCtx, vid, model.VehicleStatusSold); statusErr != nil {
			return fmt.Errorf("failed to mark vehicle as sold: %w", statusErr)
		}

		s.logAudit(txCtx, userID, model.ActionCreateOutbound, &record)
		return nil
	})
	if err != nil {
		return OutboundResponse{}, err
	}

	reloaded, err := s.outboundRepo.FindByVehicleIDWithVehicle(ctx, vid)
	if err != nil {
		return OutboundResponse{}, fmt.Errorf("failed to reload outbound record: %w", err)
	}

	s.notify("outbound.created", reloaded)
	return toOutboundResponse(*reloaded), nil
}

func (s *outboundService) UpdateOutbound(ctx context.Context, userID, vehicleID string, req UpdateOutboundRequest) (OutboundResponse, error) {
	vid, err := uuid.Parse(vehicleID)
	if err != nil {
		return OutboundResponse{}, fmt.Errorf("invalid vehicle id: %w", err)
	}

	record, err := s.outboundRepo.FindByVehicleID(ctx, vid)
	if err != nil {
		return OutboundResponse{}, fmt.Errorf("outbound record not found: %w", err)
	}

	fields := FieldErrors{}

	if req.BuyersName != nil {
		if *req.BuyersName == "" {
			fields["buyers_name"] = "buyer's name must not be empty"
		} else {
			record.BuyersName = *req.BuyersName
		}
	}
	if req.BuyersContactDetails != nil {
		if *req.BuyersContactDetails == "" {
			fields["buyers_contact_details"] = "buyer's contact details must not be empty"
		} else {
			record.BuyersContactDetails = *req.BuyersContactDetails
		}
	}
	if req.BuyersAddress != nil {
		record.BuyersAddress = *req.BuyersAddress
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}
	if req.VehicleCurrentCondition != nil {
		condition := model.NormalizeCondition(*req.VehicleCurrentCondition)
		if !model.ValidCondition(condition) {
			fields["vehicle_current_condition"] = "must be one of Excellent, Good, Bad, Worse"
		} else {
			record.VehicleCurrentCondition = condition
		}
	}
	if req.DeliveryStatus != nil {
		if !model.ValidDeliveryStatus(*req.DeliveryStatus) {
			fields["delivery_status"] = "must be one of Pending, Dispatched, Delivered, In Transit, Cancelled"
		} else {
			record.DeliveryStatus = *req.DeliveryStatus
		}
	}
	if req.OtherExpense != nil {
		amount, parseErr := decimal.NewFromString(*req.OtherExpense)
		if parseErr != nil || amount.IsNegative() {
			fields["other_expense"] = "must be a non-negative decimal number"
		} else {
			record.OtherExpense = amount
		}
	}
	if req.SellingPrice != nil {
		price, parseErr := decimal.NewFromString(*req.SellingPrice)
		if parseErr != nil || price.IsNegative() {
			fields["selling_price"] = "must be a non-negative decimal number"
		} else {
			record.SellingPrice = price.Round(2)
		}
	}
	if req.OutboundDate != nil {
		parsed, parseErr := time.Parse(dateLayout, *req.OutboundDate)
		if parseErr != nil {
			fields["outbound_date"] = "must be a yyyy-mm-dd date"
		} else {
			record.OutboundDate = parsed
		}
	}
	if req.EstimatedDeliveryDate != nil {
		if *req.EstimatedDeliveryDate == "" {
			record.EstimatedDeliveryDate = nil
		} else {
			parsed, parseErr := time.Parse(dateLayout, *req.EstimatedDeliveryDate)
			if parseErr != nil {
				fields["estimated_delivery_date"] = "must be a yyyy-mm-dd date"
			} else {
				record.EstimatedDeliveryDate = &parsed
			}
		}
	}

	if err := fields.ErrIfAny(); err != nil {
		return OutboundResponse{}, err
	}

	if err := s.outboundRepo.Update(ctx, record); err != nil {
		return OutboundResponse{}, fmt.Errorf("failed to update outbound record: %w", err)
	}

	s.logAudit(ctx, userID, model.ActionUpdateOutbound, record)

	reloaded, err := s.outboundRepo.FindByVehicleIDWithVehicle(ctx, vid)
	if err != nil {
		return OutboundResponse{}, fmt.Errorf("failed to reload outbound record: %w", err)
	}

	s.notify("outbound.updated", reloaded)
	return toOutboundResponse(*reloaded), nil
}

func (s *outboundService) GetOutbound(ctx context.Context, vehicleID string) (OutboundResponse, error) {
	vid, err := uuid.Parse(vehicleID)
	if err != nil {
		return OutboundResponse{}, fmt.Errorf("invalid vehicle id: %w", err)
	}

	record, err := s.outboundRepo.FindByVehicleIDWithVehicle(ctx, vid)
	if err != nil {
		return OutboundResponse{}, fmt.Errorf("outbound record not found: %w", err)
	}

	return toOutboundResponse(*record), nil
}

func (s *outboundService) ListOutbound(ctx context.Context, deliveryStatus string, page, limit int) ([]OutboundResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	records, total, err := s.outboundRepo.List(ctx, deliveryStatus, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch outbound records: %w", err)
	}

	result := make([]OutboundResponse, 0, len(records))
	for _, r := range records {
		result = append(result, toOutboundResponse(r))
	}
	return result, total, nil
}

// --- Helpers ---

func (s *outboundService) logAudit(ctx context.Context, userID, action string, record *model.OutboundRecord) {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}

	details, _ := json.Marshal(map[string]string{
		"vehicle_id":      record.VehicleID.String(),
		"buyers_name":     record.BuyersName,
		"delivery_status": record.DeliveryStatus,
		"selling_price":   record.SellingPrice.StringFixed(2),
	})

	// Audit failures must not fail the sale itself
	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   record.VehicleID.String(),
		EntityName: record.BuyersName,
		Details:    string(details),
	})
}

func (s *outboundService) notify(event string, record *model.OutboundRecord) {
	if s.hub == nil {
		return
	}
	_ = s.hub.BroadcastJSON(OutboundEvent{
		Event: event,
		Data: map[string]interface{}{
			"vehicle_id":      record.VehicleID.String(),
			"delivery_status": record.DeliveryStatus,
			"buyers_name":     record.BuyersName,
		},
	})
}

// --- Mapping ---

func toOutboundResponse(record model.OutboundRecord) OutboundResponse {
	resp := OutboundResponse{
		ID:                      record.ID.String(),
		VehicleID:               record.VehicleID.String(),
		BuyersName:              record.BuyersName,
		BuyersContactDetails:    record.BuyersContactDetails,
		BuyersAddress:           record.BuyersAddress,
		OutboundDate:            record.OutboundDate.Format(dateLayout),
		VehicleCurrentCondition: record.VehicleCurrentCondition,
		Notes:                   record.Notes,
		DeliveryStatus:          record.DeliveryStatus,
		OtherExpense:            record.OtherExpense.StringFixed(2),
		SellingPrice:            record.SellingPrice.StringFixed(2),
		CreatedAt:               record.CreatedAt.Format(time.RFC3339),
		UpdatedAt:               record.UpdatedAt.Format(time.RFC3339),
	}

	if record.EstimatedDeliveryDate != nil {
		d := record.EstimatedDeliveryDate.Format(dateLayout)
		resp.EstimatedDeliveryDate = &d
	}
	if record.Vehicle != nil {
		info := OutboundVehicleInfo{
			Make:         record.Vehicle.Make,
			Model:        record.Vehicle.Model,
			LicensePlate: record.Vehicle.LicensePlate,
		}
		for _, img := range record.Vehicle.Images {
			info.ImageURLs = append(info.ImageURLs, img.URL)
		}
		resp.Vehicle = &info
	}

	return resp
}
