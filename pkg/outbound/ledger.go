package outbound

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Payment sides, matching the backend's enumeration.
const (
	PaymentTypePurchase = "purchase"
	PaymentTypeSelling  = "selling"
)

// PaymentSlot is one installment against a vehicle's purchase or sale side.
// (SlotNumber, PaymentType) is the functional key within a vehicle.
type PaymentSlot struct {
	SlotNumber    string
	PaymentType   string
	AmountPaid    decimal.Decimal
	DateOfPayment string
	PaymentMode   string
	PaymentRemark string
}

type paymentSlotWire struct {
	SlotNumber    string `json:"slot_number"`
	PaymentType   string `json:"payment_type"`
	AmountPaid    string `json:"amount_paid"`
	DateOfPayment string `json:"date_of_payment"`
	PaymentMode   string `json:"payment_mode"`
	PaymentRemark string `json:"payment_remark"`
}

func (s PaymentSlot) wire() paymentSlotWire {
	return paymentSlotWire{
		SlotNumber:    s.SlotNumber,
		PaymentType:   s.PaymentType,
		AmountPaid:    s.AmountPaid.StringFixed(2),
		DateOfPayment: s.DateOfPayment,
		PaymentMode:   s.PaymentMode,
		PaymentRemark: s.PaymentRemark,
	}
}

func slotFromWire(w paymentSlotWire) (PaymentSlot, error) {
	amount, err := decimal.NewFromString(w.AmountPaid)
	if err != nil {
		return PaymentSlot{}, err
	}
	return PaymentSlot{
		SlotNumber:    w.SlotNumber,
		PaymentType:   w.PaymentType,
		AmountPaid:    amount,
		DateOfPayment: w.DateOfPayment,
		PaymentMode:   w.PaymentMode,
		PaymentRemark: w.PaymentRemark,
	}, nil
}

// StatusMessage is a transient outcome notice shown after a mutation. It
// clears itself after the ledger's status interval.
type StatusMessage struct {
	Text    string
	IsError bool
}

// ConfirmFunc gates a destructive action; returning false aborts it.
type ConfirmFunc func(slot PaymentSlot) bool

const defaultStatusTTL = 4 * time.Second

// PaymentLedger tracks the payment slots of one vehicle. Mutations go to the
// backend first; the local list is then reconciled by the (slot number,
// payment type) key rather than re-fetched, so an update replaces its entry
// in place and a create appends.
type PaymentLedger struct {
	client    *Client
	vehicleID string
	confirm   ConfirmFunc
	statusTTL time.Duration

	mu          sync.Mutex
	slots       []PaymentSlot
	status      *StatusMessage
	statusTimer *time.Timer
}

type LedgerOption func(*PaymentLedger)

// WithConfirm installs the delete confirmation callback.
func WithConfirm(confirm ConfirmFunc) LedgerOption {
	return func(l *PaymentLedger) { l.confirm = confirm }
}

// WithStatusTTL overrides how long status messages stay visible.
func WithStatusTTL(ttl time.Duration) LedgerOption {
	return func(l *PaymentLedger) { l.statusTTL = ttl }
}

func NewPaymentLedger(client *Client, vehicleID string, opts ...LedgerOption) *PaymentLedger {
	l := &PaymentLedger{
		client:    client,
		vehicleID: vehicleID,
		statusTTL: defaultStatusTTL,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Slots returns a copy of the held slot list.
func (l *PaymentLedger) Slots() []PaymentSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]PaymentSlot, len(l.slots))
	copy(out, l.slots)
	return out
}

// Status returns the current transient message, nil once it has cleared.
func (l *PaymentLedger) Status() *StatusMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

func (l *PaymentLedger) setStatus(text string, isError bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.statusTimer != nil {
		l.statusTimer.Stop()
	}
	l.status = &StatusMessage{Text: text, IsError: isError}
	l.statusTimer = time.AfterFunc(l.statusTTL, func() {
		l.mu.Lock()
		l.status = nil
		l.mu.Unlock()
	})
}

// Refresh replaces the held list with the backend's.
func (l *PaymentLedger) Refresh(ctx context.Context) error {
	var wires []paymentSlotWire
	path := "/dealership/payments/" + l.vehicleID + "/"
	if err := l.client.do(ctx, http.MethodGet, path, nil, &wires); err != nil {
		if errors.Is(err, ErrStaleResponse) {
			return err
		}
		l.setStatus("failed to load payments: "+err.Error(), true)
		return err
	}

	slots := make([]PaymentSlot, 0, len(wires))
	for _, w := range wires {
		slot, err := slotFromWire(w)
		if err != nil {
			l.setStatus("failed to load payments: "+err.Error(), true)
			return err
		}
		slots = append(slots, slot)
	}

	l.mu.Lock()
	l.slots = slots
	l.mu.Unlock()
	return nil
}

// Upsert creates or updates one slot and merges the confirmed result into the
// held list by its (slot number, payment type) key. The list only changes
// after the backend accepts the slot.
func (l *PaymentLedger) Upsert(ctx context.Context, slot PaymentSlot) error {
	path := "/dealership/payments/" + l.vehicleID + "/" + url.PathEscape(slot.SlotNumber) + "/"

	var wire paymentSlotWire
	if err := l.client.do(ctx, http.MethodPut, path, slot.wire(), &wire); err != nil {
		if errors.Is(err, ErrStaleResponse) {
			return err
		}
		l.setStatus("failed to save payment: "+err.Error(), true)
		return err
	}

	saved, err := slotFromWire(wire)
	if err != nil {
		l.setStatus("failed to save payment: "+err.Error(), true)
		return err
	}

	l.mu.Lock()
	l.mergeLocked(saved)
	l.mu.Unlock()

	l.setStatus("payment saved", false)
	return nil
}

// mergeLocked replaces the entry matching saved's key or appends it.
func (l *PaymentLedger) mergeLocked(saved PaymentSlot) {
	for i, existing := range l.slots {
		if existing.SlotNumber == saved.SlotNumber && existing.PaymentType == saved.PaymentType {
			l.slots[i] = saved
			return
		}
	}
	l.slots = append(l.slots, saved)
}

// Delete removes a slot, asking the confirm callback first when one is set.
// Deleting a slot the backend does not have surfaces the not-found error; the
// held list is untouched in that case.
func (l *PaymentLedger) Delete(ctx context.Context, slotNumber, paymentType string) error {
	l.mu.Lock()
	var target *PaymentSlot
	for i := range l.slots {
		if l.slots[i].SlotNumber == slotNumber && l.slots[i].PaymentType == paymentType {
			target = &l.slots[i]
			break
		}
	}
	var confirmSlot PaymentSlot
	if target != nil {
		confirmSlot = *target
	} else {
		confirmSlot = PaymentSlot{SlotNumber: slotNumber, PaymentType: paymentType}
	}
	l.mu.Unlock()

	if l.confirm != nil && !l.confirm(confirmSlot) {
		return nil
	}

	path := "/dealership/payments/" + l.vehicleID + "/" + url.PathEscape(slotNumber) +
		"/?payment_type=" + url.QueryEscape(paymentType)
	if err := l.client.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		if errors.Is(err, ErrStaleResponse) {
			return err
		}
		l.setStatus("failed to delete payment: "+err.Error(), true)
		return err
	}

	l.mu.Lock()
	kept := l.slots[:0]
	for _, s := range l.slots {
		if s.SlotNumber == slotNumber && s.PaymentType == paymentType {
			continue
		}
		kept = append(kept, s)
	}
	l.slots = kept
	l.mu.Unlock()

	l.setStatus("payment deleted", false)
	return nil
}

// BatchUpsert posts several slots in one call and merges each confirmed slot
// into the held list.
func (l *PaymentLedger) BatchUpsert(ctx context.Context, slots []PaymentSlot) error {
	if len(slots) == 0 {
		return &ValidationError{Fields: map[string]string{"payment_slots": "at least one slot is required"}}
	}

	wires := make([]paymentSlotWire, 0, len(slots))
	for _, s := range slots {
		wires = append(wires, s.wire())
	}
	body := map[string]interface{}{
		"vehicle_id":    l.vehicleID,
		"payment_slots": wires,
	}

	var saved []paymentSlotWire
	path := "/dealership/payments/" + l.vehicleID + "/"
	if err := l.client.do(ctx, http.MethodPost, path, body, &saved); err != nil {
		if errors.Is(err, ErrStaleResponse) {
			return err
		}
		l.setStatus("failed to save payments: "+err.Error(), true)
		return err
	}

	l.mu.Lock()
	for _, w := range saved {
		if slot, err := slotFromWire(w); err == nil {
			l.mergeLocked(slot)
		}
	}
	l.mu.Unlock()

	l.setStatus("payments saved", false)
	return nil
}
