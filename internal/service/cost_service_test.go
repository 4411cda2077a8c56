package service

import (
	"context"
	"errors"
	"testing"

	"dealerdesk/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVehicleCost(t *testing.T) {
	vehicleRepo := newMockVehicleRepo()
	maintenanceRepo := newMockMaintenanceRepo()

	vehicle := vehicleRepo.add(model.Vehicle{
		Make: "Toyota", Model: "Corolla", LicensePlate: "KA-01-1234",
		PurchasePrice: decimal.NewFromInt(500000),
		Status:        model.VehicleStatusInStock,
	})
	maintenanceRepo.sums[vehicle.ID] = decimal.NewFromInt(50000)

	svc := NewCostService(vehicleRepo, maintenanceRepo)

	res, err := svc.GetVehicleCost(context.Background(), vehicle.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "500000.00", res.PurchasePrice)
	assert.Equal(t, "50000.00", res.TotalMaintenanceCost)
	assert.Equal(t, "550000.00", res.TotalCost)
}

func TestGetVehicleCostNoMaintenance(t *testing.T) {
	vehicleRepo := newMockVehicleRepo()
	maintenanceRepo := newMockMaintenanceRepo()

	vehicle := vehicleRepo.add(model.Vehicle{
		Make: "Honda", Model: "City", LicensePlate: "KA-02-9999",
		PurchasePrice: decimal.RequireFromString("712345.50"),
		Status:        model.VehicleStatusInStock,
	})

	svc := NewCostService(vehicleRepo, maintenanceRepo)

	res, err := svc.GetVehicleCost(context.Background(), vehicle.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "0.00", res.TotalMaintenanceCost)
	assert.Equal(t, "712345.50", res.TotalCost)
}

func TestGetVehicleCostFailsWholeOnPartialData(t *testing.T) {
	vehicleRepo := newMockVehicleRepo()
	maintenanceRepo := newMockMaintenanceRepo()

	vehicle := vehicleRepo.add(model.Vehicle{
		Make: "Toyota", Model: "Corolla", LicensePlate: "KA-01-1234",
		PurchasePrice: decimal.NewFromInt(500000),
		Status:        model.VehicleStatusInStock,
	})
	maintenanceRepo.sumErr = errRepoDown

	svc := NewCostService(vehicleRepo, maintenanceRepo)

	res, err := svc.GetVehicleCost(context.Background(), vehicle.ID.String())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errRepoDown))
	// The purchase price is known, but no partial total leaks out.
	assert.Empty(t, res.TotalCost)
	assert.Empty(t, res.PurchasePrice)
}

func TestGetVehicleCostUnknownVehicle(t *testing.T) {
	svc := NewCostService(newMockVehicleRepo(), newMockMaintenanceRepo())

	_, err := svc.GetVehicleCost(context.Background(), "b3b9c1d0-0000-0000-0000-000000000000")
	require.Error(t, err)

	_, err = svc.GetVehicleCost(context.Background(), "not-a-uuid")
	require.Error(t, err)
}
