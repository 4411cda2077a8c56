package outbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionRefusesConcurrentSubmitForSameVehicle(t *testing.T) {
	var creates int64
	var enterOnce sync.Once
	entered := make(chan struct{})
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&creates, 1)
		enterOnce.Do(func() { close(entered) })
		<-release
		raw, _ := json.Marshal(OutboundRecord{ID: "o-1", VehicleID: "v-1"})
		writeEnvelope(w, 201, envelope{Status: "success", StatusCode: 201, Data: raw})
	}))
	defer srv.Close()

	svc := NewSubmissionService(NewClient(srv.URL, NewSessionContext("tok", nil)))
	draft := OutboundDraft{
		BuyersName:              "Asha Rao",
		BuyersContactDetails:    "9999900000",
		VehicleCurrentCondition: "Good",
		SellingPrice:            decimal.NewFromInt(605000),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = svc.Submit(context.Background(), "v-1", draft)
	}()

	<-entered // first submit is now in flight

	_, err := svc.Submit(context.Background(), "v-1", draft)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.EqualValues(t, 1, atomic.LoadInt64(&creates), "the refused submit must not reach the backend")

	// Once the first completes, the vehicle is free again.
	_, err = svc.Submit(context.Background(), "v-1", draft)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt64(&creates))
}

func TestSubmissionUpdatePatchesRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/dealership/outbound/update/v-1/", r.URL.Path)

		var patch OutboundPatch
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		require.NotNil(t, patch.DeliveryStatus)
		assert.Nil(t, patch.BuyersName, "unset fields stay off the wire")

		raw, _ := json.Marshal(OutboundRecord{ID: "o-1", VehicleID: "v-1", DeliveryStatus: *patch.DeliveryStatus})
		writeEnvelope(w, 200, envelope{Status: "success", StatusCode: 200, Data: raw})
	}))
	defer srv.Close()

	svc := NewSubmissionService(NewClient(srv.URL, NewSessionContext("tok", nil)))

	status := "Delivered"
	record, err := svc.Update(context.Background(), "v-1", OutboundPatch{DeliveryStatus: &status})
	require.NoError(t, err)
	assert.Equal(t, "Delivered", record.DeliveryStatus)
}

func TestSubmissionFetchMissingRecordIsBenign(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 404, envelope{Status: "error", StatusCode: 404, Error: "outbound record not found"})
	}))
	defer srv.Close()

	svc := NewSubmissionService(NewClient(srv.URL, NewSessionContext("tok", nil)))

	record, err := svc.Fetch(context.Background(), "v-unsold")
	assert.Nil(t, record)
	assert.True(t, IsNotFound(err), "a vehicle without a sale is not a fatal condition")
}

func TestSubmissionDraftWireFormatsDecimals(t *testing.T) {
	draft := OutboundDraft{
		OtherExpense: decimal.RequireFromString("1234.5"),
		SellingPrice: decimal.RequireFromString("605000"),
	}
	wire := draft.wire()
	assert.Equal(t, "1234.50", wire.OtherExpense)
	assert.Equal(t, "605000.00", wire.SellingPrice)
}
