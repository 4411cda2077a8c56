package outbound

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// CostDetails is the derived acquisition cost of a vehicle: purchase price
// plus the summed maintenance spend.
type CostDetails struct {
	VehicleID            string
	PurchasePrice        decimal.Decimal
	TotalMaintenanceCost decimal.Decimal
	TotalCost            decimal.Decimal
}

type costDetailsWire struct {
	VehicleID            string `json:"vehicle_id"`
	PurchasePrice        string `json:"purchase_price"`
	TotalMaintenanceCost string `json:"total_maintenance_cost"`
	TotalCost            string `json:"total_cost"`
}

// CostAggregator fetches cost details for a vehicle. It holds no state of its
// own; every call is a fresh derive on the backend.
type CostAggregator struct {
	client *Client
}

func NewCostAggregator(client *Client) *CostAggregator {
	return &CostAggregator{client: client}
}

// FetchCost returns the vehicle's cost details. On any failure the zero
// CostDetails is returned together with ErrCostUnavailable: callers price
// against a total cost of 0 until a later fetch succeeds, never against a
// partially-fetched figure.
func (a *CostAggregator) FetchCost(ctx context.Context, vehicleID string) (CostDetails, error) {
	var wire costDetailsWire
	if err := a.client.do(ctx, http.MethodGet, "/dealership/vehicle-cost/"+vehicleID+"/", nil, &wire); err != nil {
		return CostDetails{}, fmt.Errorf("%w: %v", ErrCostUnavailable, err)
	}

	details := CostDetails{VehicleID: wire.VehicleID}
	var err error
	if details.PurchasePrice, err = decimal.NewFromString(wire.PurchasePrice); err != nil {
		return CostDetails{}, fmt.Errorf("%w: bad purchase_price %q", ErrCostUnavailable, wire.PurchasePrice)
	}
	if details.TotalMaintenanceCost, err = decimal.NewFromString(wire.TotalMaintenanceCost); err != nil {
		return CostDetails{}, fmt.Errorf("%w: bad total_maintenance_cost %q", ErrCostUnavailable, wire.TotalMaintenanceCost)
	}
	if details.TotalCost, err = decimal.NewFromString(wire.TotalCost); err != nil {
		return CostDetails{}, fmt.Errorf("%w: bad total_cost %q", ErrCostUnavailable, wire.TotalCost)
	}
	return details, nil
}
