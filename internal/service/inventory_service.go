package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dealerdesk/internal/model"
	"dealerdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateVehicleRequest struct {
	Make          string   `json:"make" binding:"required"`
	Model         string   `json:"model" binding:"required"`
	LicensePlate  string   `json:"license_plate" binding:"required"`
	PurchasePrice string   `json:"purchase_price" binding:"required"`
	ImageURLs     []string `json:"image_urls"`
}

type UpdateVehicleRequest struct {
	Make          *string `json:"make"`
	Model         *string `json:"model"`
	LicensePlate  *string `json:"license_plate"`
	PurchasePrice *string `json:"purchase_price"`
}

type VehicleResponse struct {
	ID            string   `json:"id"`
	Make          string   `json:"make"`
	Model         string   `json:"model"`
	LicensePlate  string   `json:"license_plate"`
	PurchasePrice string   `json:"purchase_price"`
	Status        string   `json:"status"`
	ImageURLs     []string `json:"image_urls"`
	CreatedAt     string   `json:"created_at"`
}

// --- Interface ---

type InventoryService interface {
	ListLiveInventory(ctx context.Context, page, limit int) ([]VehicleResponse, int64, error)
	GetVehicle(ctx context.Context, id string) (VehicleResponse, error)
	CreateVehicle(ctx context.Context, userID string, req CreateVehicleRequest) (VehicleResponse, error)
	UpdateVehicle(ctx context.Context, userID, id string, req UpdateVehicleRequest) (VehicleResponse, error)
	DeleteVehicle(ctx context.Context, userID, id string) error
}

type inventoryService struct {
	vehicleRepo repository.VehicleRepository
	auditRepo   repository.AuditRepository
}

func NewInventoryService(vehicleRepo repository.VehicleRepository, auditRepo repository.AuditRepository) InventoryService {
	return &inventoryService{
		vehicleRepo: vehicleRepo,
		auditRepo:   auditRepo,
	}
}

// --- Implementation ---

// ListLiveInventory returns only vehicles still in stock — the selection
// source for the sale wizard.
func (s *inventoryService) ListLiveInventory(ctx context.Context, page, limit int) ([]VehicleResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	vehicles, total, err := s.vehicleRepo.ListByStatus(ctx, model.VehicleStatusInStock, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch live inventory: %w", err)
	}

	result := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		result = append(result, toVehicleResponse(v))
	}
	return result, total, nil
}

func (s *inventoryService) GetVehicle(ctx context.Context, id string) (VehicleResponse, error) {
	vid, err := uuid.Parse(id)
	if err != nil {
		return VehicleResponse{}, fmt.Errorf("invalid vehicle id: %w", err)
	}

	vehicle, err := s.vehicleRepo.FindByIDWithImages(ctx, vid)
	if err != nil {
		return VehicleResponse{}, fmt.Errorf("vehicle not found: %w", err)
	}
	return toVehicleResponse(*vehicle), nil
}

func (s *inventoryService) CreateVehicle(ctx context.Context, userID string, req CreateVehicleRequest) (VehicleResponse, error) {
	price, err := decimal.NewFromString(req.PurchasePrice)
	if err != nil {
		return VehicleResponse{}, FieldErrors{"purchase_price": "must be a decimal number"}
	}
	if price.IsNegative() {
		return VehicleResponse{}, FieldErrors{"purchase_price": "must not be negative"}
	}

	vehicle := model.Vehicle{
		Make:          req.Make,
		Model:         req.Model,
		LicensePlate:  req.LicensePlate,
		PurchasePrice: price,
		Status:        model.VehicleStatusInStock,
	}
	for _, url := range req.ImageURLs {
		vehicle.Images = append(vehicle.Images, model.VehicleImage{URL: url})
	}

	if err := s.vehicleRepo.Create(ctx, &vehicle); err != nil {
		return VehicleResponse{}, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.logAudit(ctx, userID, model.ActionCreateVehicle, &vehicle)
	return toVehicleResponse(vehicle), nil
}

func (s *inventoryService) UpdateVehicle(ctx context.Context, userID, id string, req UpdateVehicleRequest) (VehicleResponse, error) {
	vid, err := uuid.Parse(id)
	if err != nil {
		return VehicleResponse{}, fmt.Errorf("invalid vehicle id: %w", err)
	}

	vehicle, err := s.vehicleRepo.FindByIDWithImages(ctx, vid)
	if err != nil {
		return VehicleResponse{}, fmt.Errorf("vehicle not found: %w", err)
	}

	if req.Make != nil {
		vehicle.Make = *req.Make
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.LicensePlate != nil {
		vehicle.LicensePlate = *req.LicensePlate
	}
	if req.PurchasePrice != nil {
		price, parseErr := decimal.NewFromString(*req.PurchasePrice)
		if parseErr != nil || price.IsNegative() {
			return VehicleResponse{}, FieldErrors{"purchase_price": "must be a non-negative decimal number"}
		}
		vehicle.PurchasePrice = price
	}

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return VehicleResponse{}, fmt.Errorf("failed to update vehicle: %w", err)
	}

	s.logAudit(ctx, userID, model.ActionUpdateVehicle, vehicle)
	return toVehicleResponse(*vehicle), nil
}

func (s *inventoryService) DeleteVehicle(ctx context.Context, userID, id string) error {
	vid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid vehicle id: %w", err)
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, vid)
	if err != nil {
		return fmt.Errorf("vehicle not found: %w", err)
	}

	// Sold vehicles keep their history; only stock can be removed
	if vehicle.Status != model.VehicleStatusInStock {
		return fmt.Errorf("cannot delete a vehicle with status %s", vehicle.Status)
	}

	if err := s.vehicleRepo.Delete(ctx, vid); err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	s.logAudit(ctx, userID, model.ActionDeleteVehicle, vehicle)
	return nil
}

// --- Helpers ---

func (s *inventoryService) logAudit(ctx context.Context, userID, action string, vehicle *model.Vehicle) {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}

	details, _ := json.Marshal(map[string]string{
		"license_plate": vehicle.LicensePlate,
		"make":          vehicle.Make,
		"model":         vehicle.Model,
	})

	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   vehicle.ID.String(),
		EntityName: vehicle.Make + " " + vehicle.Model,
		Details:    string(details),
	})
}

// --- Mapping ---

func toVehicleResponse(v model.Vehicle) VehicleResponse {
	resp := VehicleResponse{
		ID:            v.ID.String(),
		Make:          v.Make,
		Model:         v.Model,
		LicensePlate:  v.LicensePlate,
		PurchasePrice: v.PurchasePrice.StringFixed(2),
		Status:        v.Status,
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
	}
	for _, img := range v.Images {
		resp.ImageURLs = append(resp.ImageURLs, img.URL)
	}
	return resp
}
