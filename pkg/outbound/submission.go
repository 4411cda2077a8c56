package outbound

import (
	"context"
	"net/http"
	"sync"

	"github.com/shopspring/decimal"
)

// OutboundDraft is the assembled sale data posted on final submit.
type OutboundDraft struct {
	BuyersName              string          `json:"buyers_name"`
	BuyersContactDetails    string          `json:"buyers_contact_details"`
	BuyersAddress           string          `json:"buyers_address"`
	OutboundDate            string          `json:"outbound_date,omitempty"`
	EstimatedDeliveryDate   string          `json:"estimated_delivery_date,omitempty"`
	VehicleCurrentCondition string          `json:"vehicle_current_condition"`
	Notes                   string          `json:"notes"`
	DeliveryStatus          string          `json:"delivery_status"`
	OtherExpense            decimal.Decimal `json:"other_expense"`
	SellingPrice            decimal.Decimal `json:"selling_price"`
}

// outboundDraftWire carries the decimals as strings, matching the backend.
type outboundDraftWire struct {
	BuyersName              string `json:"buyers_name"`
	BuyersContactDetails    string `json:"buyers_contact_details"`
	BuyersAddress           string `json:"buyers_address"`
	OutboundDate            string `json:"outbound_date,omitempty"`
	EstimatedDeliveryDate   string `json:"estimated_delivery_date,omitempty"`
	VehicleCurrentCondition string `json:"vehicle_current_condition"`
	Notes                   string `json:"notes"`
	DeliveryStatus          string `json:"delivery_status,omitempty"`
	OtherExpense            string `json:"other_expense"`
	SellingPrice            string `json:"selling_price"`
}

func (d OutboundDraft) wire() outboundDraftWire {
	return outboundDraftWire{
		BuyersName:              d.BuyersName,
		BuyersContactDetails:    d.BuyersContactDetails,
		BuyersAddress:           d.BuyersAddress,
		OutboundDate:            d.OutboundDate,
		EstimatedDeliveryDate:   d.EstimatedDeliveryDate,
		VehicleCurrentCondition: d.VehicleCurrentCondition,
		Notes:                   d.Notes,
		DeliveryStatus:          d.DeliveryStatus,
		OtherExpense:            d.OtherExpense.StringFixed(2),
		SellingPrice:            d.SellingPrice.StringFixed(2),
	}
}

// OutboundRecord mirrors the backend's persisted sale record.
type OutboundRecord struct {
	ID                      string  `json:"id"`
	VehicleID               string  `json:"vehicle_id"`
	BuyersName              string  `json:"buyers_name"`
	BuyersContactDetails    string  `json:"buyers_contact_details"`
	BuyersAddress           string  `json:"buyers_address"`
	OutboundDate            string  `json:"outbound_date"`
	EstimatedDeliveryDate   *string `json:"estimated_delivery_date"`
	VehicleCurrentCondition string  `json:"vehicle_current_condition"`
	Notes                   string  `json:"notes"`
	DeliveryStatus          string  `json:"delivery_status"`
	OtherExpense            string  `json:"other_expense"`
	SellingPrice            string  `json:"selling_price"`
}

// SubmissionService performs the outbound create and update calls. One submit
// per vehicle at a time: a second Submit while the first is in flight is
// refused with ErrSubmitInFlight instead of issuing a duplicate create.
type SubmissionService struct {
	client *Client

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewSubmissionService(client *Client) *SubmissionService {
	return &SubmissionService{client: client, inFlight: make(map[string]bool)}
}

func (s *SubmissionService) begin(vehicleID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[vehicleID] {
		return false
	}
	s.inFlight[vehicleID] = true
	return true
}

func (s *SubmissionService) end(vehicleID string) {
	s.mu.Lock()
	delete(s.inFlight, vehicleID)
	s.mu.Unlock()
}

// Submit creates the outbound record for the vehicle. Exactly one create call
// is made per invocation and failures are never retried here.
func (s *SubmissionService) Submit(ctx context.Context, vehicleID string, draft OutboundDraft) (*OutboundRecord, error) {
	if !s.begin(vehicleID) {
		return nil, ErrSubmitInFlight
	}
	defer s.end(vehicleID)

	var record OutboundRecord
	err := s.client.do(ctx, http.MethodPost, "/dealership/outbound-vehicle/"+vehicleID+"/", draft.wire(), &record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// OutboundPatch carries partial edits to an existing record; nil fields are
// left untouched by the backend.
type OutboundPatch struct {
	BuyersName              *string `json:"buyers_name,omitempty"`
	BuyersContactDetails    *string `json:"buyers_contact_details,omitempty"`
	BuyersAddress           *string `json:"buyers_address,omitempty"`
	OutboundDate            *string `json:"outbound_date,omitempty"`
	EstimatedDeliveryDate   *string `json:"estimated_delivery_date,omitempty"`
	VehicleCurrentCondition *string `json:"vehicle_current_condition,omitempty"`
	Notes                   *string `json:"notes,omitempty"`
	DeliveryStatus          *string `json:"delivery_status,omitempty"`
	OtherExpense            *string `json:"other_expense,omitempty"`
	SellingPrice            *string `json:"selling_price,omitempty"`
}

// Update patches an existing outbound record.
func (s *SubmissionService) Update(ctx context.Context, vehicleID string, patch OutboundPatch) (*OutboundRecord, error) {
	if !s.begin(vehicleID) {
		return nil, ErrSubmitInFlight
	}
	defer s.end(vehicleID)

	var record OutboundRecord
	err := s.client.do(ctx, http.MethodPatch, "/dealership/outbound/update/"+vehicleID+"/", patch, &record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Fetch loads the outbound record for a vehicle. A NotFoundError simply means
// the vehicle has not been sold yet.
func (s *SubmissionService) Fetch(ctx context.Context, vehicleID string) (*OutboundRecord, error) {
	var record OutboundRecord
	err := s.client.do(ctx, http.MethodGet, "/dealership/outbound-vehicle/"+vehicleID+"/", nil, &record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
