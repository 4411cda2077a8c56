package service

import (
	"context"
	"fmt"

	"dealerdesk/internal/repository"

	"github.com/google/uuid"
)

// CostDetailsResponse is the derived acquisition cost for a vehicle. It is
// recomputed on every fetch and never persisted: purchase price comes from the
// vehicle row, maintenance total from a SUM over its workshop records.
type CostDetailsResponse struct {
	VehicleID            string `json:"vehicle_id"`
	PurchasePrice        string `json:"purchase_price"`
	TotalMaintenanceCost string `json:"total_maintenance_cost"`
	TotalCost            string `json:"total_cost"`
}

type CostService interface {
	GetVehicleCost(ctx context.Context, vehicleID string) (CostDetailsResponse, error)
}

type costService struct {
	vehicleRepo     repository.VehicleRepository
	maintenanceRepo repository.MaintenanceRepository
}

func NewCostService(vehicleRepo repository.VehicleRepository, maintenanceRepo repository.MaintenanceRepository) CostService {
	return &costService{
		vehicleRepo:     vehicleRepo,
		maintenanceRepo: maintenanceRepo,
	}
}

// GetVehicleCost fails whole when either source fails: callers must never see
// a partial total presented as final.
func (s *costService) GetVehicleCost(ctx context.Context, vehicleID string) (CostDetailsResponse, error) {
	id, err := uuid.Parse(vehicleID)
	if err != nil {
		return CostDetailsResponse{}, fmt.Errorf("invalid vehicle id: %w", err)
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		return CostDetailsResponse{}, fmt.Errorf("vehicle not found: %w", err)
	}

	maintenanceTotal, err := s.maintenanceRepo.SumCostByVehicle(ctx, id)
	if err != nil {
		return CostDetailsResponse{}, fmt.Errorf("failed to sum maintenance costs: %w", err)
	}

	totalCost := vehicle.PurchasePrice.Add(maintenanceTotal)

	return CostDetailsResponse{
		VehicleID:            vehicle.ID.String(),
		PurchasePrice:        vehicle.PurchasePrice.StringFixed(2),
		TotalMaintenanceCost: maintenanceTotal.StringFixed(2),
		TotalCost:            totalCost.StringFixed(2),
	}, nil
}
