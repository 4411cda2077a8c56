package outbound

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

// WizardState is the stage of the outbound sale flow.
type WizardState int

const (
	StateSelectVehicle WizardState = iota
	StateBuyerInfo
	StatePricingAndSubmit
	StateDone
)

func (s WizardState) String() string {
	switch s {
	case StateSelectVehicle:
		return "SelectVehicle"
	case StateBuyerInfo:
		return "BuyerInfo"
	case StatePricingAndSubmit:
		return "PricingAndSubmit"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

var (
	ErrNoVehicleSelected = errors.New("no vehicle selected")
	ErrBuyerInfoMissing  = errors.New("buyers_name and buyers_contact_details are required")
	ErrWizardFinished    = errors.New("wizard already finished")
)

// VehicleSummary is the display slice of a vehicle picked in stage one.
type VehicleSummary struct {
	ID           string `json:"id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	LicensePlate string `json:"license_plate"`
}

// BuyerForm is the typed state of the buyer/delivery stage. Dates stay as
// yyyy-mm-dd strings until submit; the backend validates the layout.
type BuyerForm struct {
	BuyersName              string
	BuyersContactDetails    string
	BuyersAddress           string
	OutboundDate            string
	EstimatedDeliveryDate   string
	VehicleCurrentCondition string
}

// PricingForm is the typed state of the pricing stage.
type PricingForm struct {
	Pricing        PricingInput
	DeliveryStatus string
	Notes          string
	OtherExpense   decimal.Decimal
}

// Wizard drives the three-stage outbound sale: pick a vehicle, capture buyer
// and delivery details, then price and submit. Back navigation keeps entered
// data; Cancel throws it all away. Nothing is persisted before the final
// submit succeeds.
type Wizard struct {
	mu sync.Mutex

	state   WizardState
	vehicle *VehicleSummary
	buyer   BuyerForm
	pricing PricingForm
	costs   CostDetails
	costErr error

	costAggregator *CostAggregator
	submitter      *SubmissionService
}

func NewWizard(costAggregator *CostAggregator, submitter *SubmissionService) *Wizard {
	return &Wizard{
		state:          StateSelectVehicle,
		costAggregator: costAggregator,
		submitter:      submitter,
	}
}

func (w *Wizard) State() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// SelectVehicle picks the vehicle and moves to the buyer stage.
func (w *Wizard) SelectVehicle(v VehicleSummary) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateDone {
		return ErrWizardFinished
	}
	if w.state != StateSelectVehicle {
		return errors.New("vehicle already selected; go back first")
	}
	if v.ID == "" {
		return ErrNoVehicleSelected
	}
	w.vehicle = &v
	w.state = StateBuyerInfo
	return nil
}

func (w *Wizard) Vehicle() *VehicleSummary {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.vehicle
}

// SetBuyer records the buyer form. Allowed in BuyerInfo and when revisiting
// from the pricing stage.
func (w *Wizard) SetBuyer(form BuyerForm) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateBuyerInfo && w.state != StatePricingAndSubmit {
		return errors.New("buyer details can only be edited after a vehicle is selected")
	}
	w.buyer = form
	return nil
}

func (w *Wizard) Buyer() BuyerForm {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buyer
}

// Next moves forward one stage. The transition is refused, not just hidden,
// when its guard fails: a vehicle must be selected before BuyerInfo, and the
// buyer's name and contact details must be filled before PricingAndSubmit.
func (w *Wizard) Next(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateSelectVehicle:
		if w.vehicle == nil {
			return ErrNoVehicleSelected
		}
		w.state = StateBuyerInfo
		return nil
	case StateBuyerInfo:
		if w.buyer.BuyersName == "" || w.buyer.BuyersContactDetails == "" {
			return ErrBuyerInfoMissing
		}
		w.state = StatePricingAndSubmit
		w.refreshCostsLocked(ctx)
		return nil
	case StatePricingAndSubmit:
		return errors.New("use Submit to finish")
	default:
		return ErrWizardFinished
	}
}

// refreshCostsLocked loads the cost details for the pricing stage. On failure
// the stage prices against zero cost and keeps the error visible.
func (w *Wizard) refreshCostsLocked(ctx context.Context) {
	if w.costAggregator == nil || w.vehicle == nil {
		return
	}
	w.costs, w.costErr = w.costAggregator.FetchCost(ctx, w.vehicle.ID)
}

// RefreshCosts retries the cost fetch, e.g. after an earlier failure.
func (w *Wizard) RefreshCosts(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StatePricingAndSubmit {
		return errors.New("costs are only loaded on the pricing stage")
	}
	w.refreshCostsLocked(ctx)
	return w.costErr
}

// Costs returns the current cost details and the error from the last fetch.
// When the error is non-nil the details are all zero.
func (w *Wizard) Costs() (CostDetails, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.costs, w.costErr
}

// SetPricing records the pricing-stage form.
func (w *Wizard) SetPricing(form PricingForm) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StatePricingAndSubmit {
		return errors.New("pricing can only be edited on the pricing stage")
	}
	w.pricing = form
	return nil
}

func (w *Wizard) Pricing() PricingForm {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pricing
}

// SellingPrice is the live derived price under the current pricing mode.
func (w *Wizard) SellingPrice() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pricing.Pricing.SellingPrice(w.costs.TotalCost)
}

// Back steps to the previous stage. Entered data is preserved so moving
// forward again restores it exactly.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case StateBuyerInfo:
		w.state = StateSelectVehicle
		return nil
	case StatePricingAndSubmit:
		w.state = StateBuyerInfo
		return nil
	default:
		return errors.New("cannot go back from " + w.state.String())
	}
}

// Cancel abandons the run and discards everything entered.
func (w *Wizard) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = StateSelectVehicle
	w.vehicle = nil
	w.buyer = BuyerForm{}
	w.pricing = PricingForm{}
	w.costs = CostDetails{}
	w.costErr = nil
}

// Submit validates the assembled data and performs the create. The guards run
// before any network call: a run with missing buyer details never reaches the
// backend. On failure the wizard stays on the pricing stage with all data
// intact; Done is only entered after a confirmed success.
func (w *Wizard) Submit(ctx context.Context) (*OutboundRecord, error) {
	w.mu.Lock()
	if w.state == StateDone {
		w.mu.Unlock()
		return nil, ErrWizardFinished
	}
	if w.state != StatePricingAndSubmit {
		w.mu.Unlock()
		return nil, errors.New("submit is only available on the pricing stage")
	}
	if w.vehicle == nil {
		w.mu.Unlock()
		return nil, ErrNoVehicleSelected
	}
	if w.buyer.BuyersName == "" || w.buyer.BuyersContactDetails == "" {
		w.mu.Unlock()
		return nil, ErrBuyerInfoMissing
	}

	draft := OutboundDraft{
		BuyersName:              w.buyer.BuyersName,
		BuyersContactDetails:    w.buyer.BuyersContactDetails,
		BuyersAddress:           w.buyer.BuyersAddress,
		OutboundDate:            w.buyer.OutboundDate,
		EstimatedDeliveryDate:   w.buyer.EstimatedDeliveryDate,
		VehicleCurrentCondition: w.buyer.VehicleCurrentCondition,
		Notes:                   w.pricing.Notes,
		DeliveryStatus:          w.pricing.DeliveryStatus,
		OtherExpense:            w.pricing.OtherExpense,
		SellingPrice:            w.pricing.Pricing.SellingPrice(w.costs.TotalCost),
	}
	vehicleID := w.vehicle.ID
	w.mu.Unlock()

	record, err := w.submitter.Submit(ctx, vehicleID, draft)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.state = StateDone
	w.mu.Unlock()
	return record, nil
}
