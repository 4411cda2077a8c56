package outbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ledgerBackend keeps slots in memory keyed by (slot number, payment type),
// mirroring the real payments endpoints.
type ledgerBackend struct {
	srv   *httptest.Server
	slots map[string]paymentSlotWire
}

func ledgerKey(slotNumber, paymentType string) string {
	return slotNumber + "|" + paymentType
}

func newLedgerBackend(t *testing.T) *ledgerBackend {
	t.Helper()
	b := &ledgerBackend{slots: make(map[string]paymentSlotWire)}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/dealership/payments/v-1/") {
			writeEnvelope(w, 404, envelope{Status: "error", StatusCode: 404, Error: "not found"})
			return
		}

		switch r.Method {
		case http.MethodGet:
			out := make([]paymentSlotWire, 0, len(b.slots))
			for _, s := range b.slots {
				out = append(out, s)
			}
			raw, _ := json.Marshal(out)
			writeEnvelope(w, 200, envelope{Status: "success", StatusCode: 200, Data: raw})
		case http.MethodPost:
			var batch struct {
				VehicleID    string            `json:"vehicle_id"`
				PaymentSlots []paymentSlotWire `json:"payment_slots"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
			out := make([]paymentSlotWire, 0, len(batch.PaymentSlots))
			for _, slot := range batch.PaymentSlots {
				b.slots[ledgerKey(slot.SlotNumber, slot.PaymentType)] = slot
				out = append(out, slot)
			}
			raw, _ := json.Marshal(out)
			writeEnvelope(w, 200, envelope{Status: "success", StatusCode: 200, Data: raw})
		case http.MethodPut:
			var slot paymentSlotWire
			require.NoError(t, json.NewDecoder(r.Body).Decode(&slot))
			// The path segment is the contract for the slot number.
			parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
			slotNumber, err := url.PathUnescape(parts[len(parts)-1])
			require.NoError(t, err)
			slot.SlotNumber = slotNumber

			key := ledgerKey(slot.SlotNumber, slot.PaymentType)
			_, existed := b.slots[key]
			b.slots[key] = slot
			raw, _ := json.Marshal(slot)
			status := 200
			if !existed {
				status = 201
			}
			writeEnvelope(w, status, envelope{Status: "success", StatusCode: status, Data: raw})
		case http.MethodDelete:
			parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
			slotNumber, err := url.PathUnescape(parts[len(parts)-1])
			require.NoError(t, err)
			key := ledgerKey(slotNumber, r.URL.Query().Get("payment_type"))
			if _, ok := b.slots[key]; !ok {
				writeEnvelope(w, 404, envelope{Status: "error", StatusCode: 404, Error: "payment slot not found"})
				return
			}
			delete(b.slots, key)
			writeEnvelope(w, 200, envelope{Status: "success", StatusCode: 200})
		}
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func newTestLedger(b *ledgerBackend, opts ...LedgerOption) *PaymentLedger {
	client := NewClient(b.srv.URL, NewSessionContext("tok", nil))
	return NewPaymentLedger(client, "v-1", opts...)
}

func testSlot(slotNumber, paymentType, amount string) PaymentSlot {
	return PaymentSlot{
		SlotNumber:    slotNumber,
		PaymentType:   paymentType,
		AmountPaid:    dec(amount),
		DateOfPayment: "2026-01-15",
		PaymentMode:   "bank_transfer",
	}
}

func TestLedgerUpsertAppendsThenUpdatesInPlace(t *testing.T) {
	backend := newLedgerBackend(t)
	ledger := newTestLedger(backend)
	ctx := context.Background()

	require.NoError(t, ledger.Upsert(ctx, testSlot("Slot 1", PaymentTypeSelling, "100000")))
	require.NoError(t, ledger.Upsert(ctx, testSlot("Slot 2", PaymentTypeSelling, "50000")))
	require.Len(t, ledger.Slots(), 2)

	// Same (slot number, payment type) key: the entry is replaced in place
	// and the list length is unchanged.
	require.NoError(t, ledger.Upsert(ctx, testSlot("Slot 1", PaymentTypeSelling, "120000")))
	slots := ledger.Slots()
	require.Len(t, slots, 2)
	assert.Equal(t, "Slot 1", slots[0].SlotNumber)
	assert.Equal(t, "120000.00", slots[0].AmountPaid.StringFixed(2))

	// Same slot number on the other side is a different key.
	require.NoError(t, ledger.Upsert(ctx, testSlot("Slot 1", PaymentTypePurchase, "90000")))
	assert.Len(t, ledger.Slots(), 3)
}

func TestLedgerDeleteRemovesSlot(t *testing.T) {
	backend := newLedgerBackend(t)
	ledger := newTestLedger(backend)
	ctx := context.Background()

	require.NoError(t, ledger.Upsert(ctx, testSlot("Slot 1", PaymentTypeSelling, "100000")))
	require.NoError(t, ledger.Upsert(ctx, testSlot("Slot 2", PaymentTypeSelling, "50000")))

	require.NoError(t, ledger.Delete(ctx, "Slot 1", PaymentTypeSelling))
	slots := ledger.Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, "Slot 2", slots[0].SlotNumber)

	// A fresh list from the backend agrees.
	require.NoError(t, ledger.Refresh(ctx))
	require.Len(t, ledger.Slots(), 1)
}

func TestLedgerDeleteMissingSlotIsErrorNotCrash(t *testing.T) {
	backend := newLedgerBackend(t)
	ledger := newTestLedger(backend)
	ctx := context.Background()

	require.NoError(t, ledger.Upsert(ctx, testSlot("Slot 1", PaymentTypeSelling, "100000")))

	err := ledger.Delete(ctx, "Slot 9", PaymentTypeSelling)
	assert.True(t, IsNotFound(err))
	assert.Len(t, ledger.Slots(), 1, "the held list is untouched on failure")
}

func TestLedgerDeleteGatedOnConfirm(t *testing.T) {
	backend := newLedgerBackend(t)

	var asked []string
	ledger := newTestLedger(backend, WithConfirm(func(slot PaymentSlot) bool {
		asked = append(asked, slot.SlotNumber)
		return slot.SlotNumber != "Slot 1"
	}))
	ctx := context.Background()

	require.NoError(t, ledger.Upsert(ctx, testSlot("Slot 1", PaymentTypeSelling, "100000")))
	require.NoError(t, ledger.Upsert(ctx, testSlot("Slot 2", PaymentTypeSelling, "50000")))

	// Declined: no call happens, nothing changes.
	require.NoError(t, ledger.Delete(ctx, "Slot 1", PaymentTypeSelling))
	assert.Len(t, ledger.Slots(), 2)

	// Accepted: the slot goes away.
	require.NoError(t, ledger.Delete(ctx, "Slot 2", PaymentTypeSelling))
	assert.Len(t, ledger.Slots(), 1)

	assert.Equal(t, []string{"Slot 1", "Slot 2"}, asked)
}

func TestLedgerStatusMessagesAutoClear(t *testing.T) {
	backend := newLedgerBackend(t)
	ledger := newTestLedger(backend, WithStatusTTL(30*time.Millisecond))
	ctx := context.Background()

	require.NoError(t, ledger.Upsert(ctx, testSlot("Slot 1", PaymentTypeSelling, "100000")))

	status := ledger.Status()
	require.NotNil(t, status)
	assert.False(t, status.IsError)

	assert.Eventually(t, func() bool { return ledger.Status() == nil },
		time.Second, 10*time.Millisecond, "status message must clear on its own")
}

func TestLedgerErrorSurfacesAsStatus(t *testing.T) {
	backend := newLedgerBackend(t)
	ledger := newTestLedger(backend, WithStatusTTL(time.Minute))
	ctx := context.Background()

	err := ledger.Delete(ctx, "Slot 3", PaymentTypeSelling)
	require.Error(t, err)

	status := ledger.Status()
	require.NotNil(t, status)
	assert.True(t, status.IsError)
	assert.Contains(t, status.Text, "failed to delete payment")
}

func TestLedgerBatchUpsertMergesAll(t *testing.T) {
	backend := newLedgerBackend(t)
	ledger := newTestLedger(backend)
	ctx := context.Background()

	err := ledger.BatchUpsert(ctx, nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	require.NoError(t, ledger.Upsert(ctx, testSlot("Slot 1", PaymentTypeSelling, "100000")))

	// The batch updates Slot 1 in place and appends the rest.
	require.NoError(t, ledger.BatchUpsert(ctx, []PaymentSlot{
		testSlot("Slot 1", PaymentTypeSelling, "110000"),
		testSlot("Slot 2", PaymentTypeSelling, "40000"),
		testSlot("Slot 1", PaymentTypePurchase, "90000"),
	}))

	slots := ledger.Slots()
	require.Len(t, slots, 3)
	assert.Equal(t, "110000.00", slots[0].AmountPaid.StringFixed(2))
}
