package service

import (
	"context"
	"fmt"
	"time"

	"dealerdesk/internal/model"
	"dealerdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateMaintenanceRequest struct {
	Description string `json:"description" binding:"required"`
	Cost        string `json:"cost" binding:"required"`
	ServiceDate string `json:"service_date" binding:"required"` // yyyy-mm-dd
}

type UpdateMaintenanceRequest struct {
	Description *string `json:"description"`
	Cost        *string `json:"cost"`
	ServiceDate *string `json:"service_date"`
}

type MaintenanceResponse struct {
	ID          string `json:"id"`
	VehicleID   string `json:"vehicle_id"`
	Description string `json:"description"`
	Cost        string `json:"cost"`
	ServiceDate string `json:"service_date"`
	CreatedAt   string `json:"created_at"`
}

// --- Interface ---

type MaintenanceService interface {
	ListByVehicle(ctx context.Context, vehicleID string, page, limit int) ([]MaintenanceResponse, int64, error)
	Create(ctx context.Context, userID, vehicleID string, req CreateMaintenanceRequest) (MaintenanceResponse, error)
	Update(ctx context.Context, userID, id string, req UpdateMaintenanceRequest) (MaintenanceResponse, error)
	Delete(ctx context.Context, userID, id string) error
}

type maintenanceService struct {
	maintenanceRepo repository.MaintenanceRepository
	vehicleRepo     repository.VehicleRepository
	auditRepo       repository.AuditRepository
}

func NewMaintenanceService(
	maintenanceRepo repository.MaintenanceRepository,
	vehicleRepo repository.VehicleRepository,
	auditRepo repository.AuditRepository,
) MaintenanceService {
	return &maintenanceService{
		maintenanceRepo: maintenanceRepo,
		vehicleRepo:     vehicleRepo,
		auditRepo:       auditRepo,
	}
}

// --- Implementation ---

func (s *maintenanceService) ListByVehicle(ctx context.Context, vehicleID string, page, limit int) ([]MaintenanceResponse, int64, error) {
	vid, err := uuid.Parse(vehicleID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid vehicle id: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	records, total, err := s.maintenanceRepo.ListByVehicle(ctx, vid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch maintenance records: %w", err)
	}

	result := make([]MaintenanceResponse, 0, len(records))
	for _, r := range records {
		result = append(result, toMaintenanceResponse(r))
	}
	return result, total, nil
}

func (s *maintenanceService) Create(ctx context.Context, userID, vehicleID string, req CreateMaintenanceRequest) (MaintenanceResponse, error) {
	vid, err := uuid.Parse(vehicleID)
	if err != nil {
		return MaintenanceResponse{}, fmt.Errorf("invalid vehicle id: %w", err)
	}

	if _, err := s.vehicleRepo.FindByID(ctx, vid); err != nil {
		return MaintenanceResponse{}, fmt.Errorf("vehicle not found: %w", err)
	}

	cost, serviceDate, err := parseMaintenanceFields(req.Cost, req.ServiceDate)
	if err != nil {
		return MaintenanceResponse{}, err
	}

	record := model.MaintenanceRecord{
		VehicleID:   vid,
		Description: req.Description,
		Cost:        cost,
		ServiceDate: serviceDate,
	}

	if err := s.maintenanceRepo.Create(ctx, &record); err != nil {
		return MaintenanceResponse{}, fmt.Errorf("failed to create maintenance record: %w", err)
	}

	s.logAudit(ctx, userID, model.ActionCreateMaintenance, &record)
	return toMaintenanceResponse(record), nil
}

func (s *maintenanceService) Update(ctx context.Context, userID, id string, req UpdateMaintenanceRequest) (MaintenanceResponse, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return MaintenanceResponse{}, fmt.Errorf("invalid maintenance id: %w", err)
	}

	record, err := s.maintenanceRepo.FindByID(ctx, rid)
	if err != nil {
		return MaintenanceResponse{}, fmt.Errorf("maintenance record not found: %w", err)
	}

	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.Cost != nil {
		cost, parseErr := decimal.NewFromString(*req.Cost)
		if parseErr != nil || cost.IsNegative() {
			return MaintenanceResponse{}, FieldErrors{"cost": "must be a non-negative decimal number"}
		}
		record.Cost = cost
	}
	if req.ServiceDate != nil {
		parsed, parseErr := time.Parse(dateLayout, *req.ServiceDate)
		if parseErr != nil {
			return MaintenanceResponse{}, FieldErrors{"service_date": "must be a yyyy-mm-dd date"}
		}
		record.ServiceDate = parsed
	}

	if err := s.maintenanceRepo.Update(ctx, record); err != nil {
		return MaintenanceResponse{}, fmt.Errorf("failed to update maintenance record: %w", err)
	}

	s.logAudit(ctx, userID, model.ActionUpdateMaintenance, record)
	return toMaintenanceResponse(*record), nil
}

func (s *maintenanceService) Delete(ctx context.Context, userID, id string) error {
	rid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid maintenance id: %w", err)
	}

	record, err := s.maintenanceRepo.FindByID(ctx, rid)
	if err != nil {
		return fmt.Errorf("maintenance record not found: %w", err)
	}

	if err := s.maintenanceRepo.Delete(ctx, rid); err != nil {
		return fmt.Errorf("failed to delete maintenance record: %w", err)
	}

	s.logAudit(ctx, userID, model.ActionDeleteMaintenance, record)
	return nil
}

// --- Helpers ---

func parseMaintenanceFields(costStr, dateStr string) (decimal.Decimal, time.Time, error) {
	fields := FieldErrors{}

	cost, err := decimal.NewFromString(costStr)
	if err != nil {
		fields["cost"] = "must be a decimal number"
	} else if cost.IsNegative() {
		fields["cost"] = "must not be negative"
	}

	serviceDate, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		fields["service_date"] = "must be a yyyy-mm-dd date"
	}

	if err := fields.ErrIfAny(); err != nil {
		return decimal.Zero, time.Time{}, err
	}
	return cost, serviceDate, nil
}

func (s *maintenanceService) logAudit(ctx context.Context, userID, action string, record *model.MaintenanceRecord) {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}

	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   record.VehicleID.String(),
		EntityName: record.Description,
		Details:    fmt.Sprintf(`{"cost":"%s"}`, record.Cost.StringFixed(2)),
	})
}

// --- Mapping ---

func toMaintenanceResponse(r model.MaintenanceRecord) MaintenanceResponse {
	return MaintenanceResponse{
		ID:          r.ID.String(),
		VehicleID:   r.VehicleID.String(),
		Description: r.Description,
		Cost:        r.Cost.StringFixed(2),
		ServiceDate: r.ServiceDate.Format(dateLayout),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}
