package outbound

import (
	"context"
	"net/http"
	"strconv"
)

type liveInventoryWire struct {
	Vehicles []VehicleSummary `json:"vehicles"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// ListLiveInventory fetches the vehicles still available for sale, for the
// wizard's selection stage.
func (c *Client) ListLiveInventory(ctx context.Context, page, limit int) ([]VehicleSummary, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var wire liveInventoryWire
	path := "/dealership/live-inventory/?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, 0, err
	}
	return wire.Vehicles, wire.Total, nil
}
