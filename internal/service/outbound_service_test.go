package service

import (
	"context"
	"errors"
	"testing"

	"dealerdesk/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outboundFixture struct {
	svc          OutboundService
	vehicleRepo  *mockVehicleRepo
	outboundRepo *mockOutboundRepo
	auditRepo    *mockAuditRepo
	txManager    *mockTxManager
	vehicle      *model.Vehicle
}

func newOutboundFixture(t *testing.T) *outboundFixture {
	t.Helper()
	f := &outboundFixture{
		vehicleRepo:  newMockVehicleRepo(),
		outboundRepo: newMockOutboundRepo(),
		auditRepo:    &mockAuditRepo{},
		txManager:    &mockTxManager{},
	}
	f.vehicle = f.vehicleRepo.add(model.Vehicle{
		Make:          "Toyota",
		Model:         "Corolla",
		LicensePlate:  "KA-01-1234",
		PurchasePrice: decimal.NewFromInt(500000),
		Status:        model.VehicleStatusInStock,
	})
	f.svc = NewOutboundService(f.outboundRepo, f.vehicleRepo, f.auditRepo, f.txManager, nil)
	return f
}

func validCreateRequest() CreateOutboundRequest {
	return CreateOutboundRequest{
		BuyersName:              "Asha Rao",
		BuyersContactDetails:    "9999900000",
		BuyersAddress:           "12 MG Road",
		OutboundDate:            "2026-08-20",
		VehicleCurrentCondition: model.ConditionGood,
		DeliveryStatus:          model.DeliveryPending,
		SellingPrice:            "605000",
	}
}

func TestCreateOutbound(t *testing.T) {
	f := newOutboundFixture(t)
	ctx := context.Background()

	res, err := f.svc.CreateOutbound(ctx, "", f.vehicle.ID.String(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, f.vehicle.ID.String(), res.VehicleID)
	assert.Equal(t, "Asha Rao", res.BuyersName)
	assert.Equal(t, "605000.00", res.SellingPrice)
	assert.Equal(t, model.DeliveryPending, res.DeliveryStatus)
	assert.Equal(t, "2026-08-20", res.OutboundDate)

	// The sale flips the vehicle out of stock inside the same transaction.
	assert.Equal(t, model.VehicleStatusSold, f.vehicle.Status)
	assert.Equal(t, 1, f.txManager.calls)
	require.Len(t, f.auditRepo.entries, 1)
	assert.Equal(t, model.ActionCreateOutbound, f.auditRepo.entries[0].Action)
}

func TestCreateOutboundValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *CreateOutboundRequest)
		wantField string
	}{
		{"missing name", func(r *CreateOutboundRequest) { r.BuyersName = "" }, "buyers_name"},
		{"missing contact", func(r *CreateOutboundRequest) { r.BuyersContactDetails = "" }, "buyers_contact_details"},
		{"unknown condition", func(r *CreateOutboundRequest) { r.VehicleCurrentCondition = "Mint" }, "vehicle_current_condition"},
		{"unknown delivery status", func(r *CreateOutboundRequest) { r.DeliveryStatus = "Shipped" }, "delivery_status"},
		{"bad selling price", func(r *CreateOutboundRequest) { r.SellingPrice = "lots" }, "selling_price"},
		{"negative selling price", func(r *CreateOutboundRequest) { r.SellingPrice = "-1" }, "selling_price"},
		{"bad other expense", func(r *CreateOutboundRequest) { r.OtherExpense = "-10" }, "other_expense"},
		{"bad outbound date", func(r *CreateOutboundRequest) { r.OutboundDate = "20/08/2026" }, "outbound_date"},
		{"bad estimated delivery", func(r *CreateOutboundRequest) { r.EstimatedDeliveryDate = "soon" }, "estimated_delivery_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOutboundFixture(t)
			req := validCreateRequest()
			tt.mutate(&req)

			_, err := f.svc.CreateOutbound(context.Background(), "", f.vehicle.ID.String(), req)

			var fields FieldErrors
			require.ErrorAs(t, err, &fields)
			assert.Contains(t, fields, tt.wantField)

			// Validation failures never reach the database.
			assert.Equal(t, 0, f.txManager.calls)
			assert.Equal(t, model.VehicleStatusInStock, f.vehicle.Status)
		})
	}
}

func TestCreateOutboundNormalizesLegacyCondition(t *testing.T) {
	tests := []struct {
		legacy string
		want   string
	}{
		{"Yes", model.ConditionGood},
		{"No", model.ConditionBad},
	}

	for _, tt := range tests {
		t.Run(tt.legacy, func(t *testing.T) {
			f := newOutboundFixture(t)
			req := validCreateRequest()
			req.VehicleCurrentCondition = tt.legacy

			res, err := f.svc.CreateOutbound(context.Background(), "", f.vehicle.ID.String(), req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.VehicleCurrentCondition)
		})
	}
}

func TestCreateOutboundRefusesSoldVehicle(t *testing.T) {
	f := newOutboundFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateOutbound(ctx, "", f.vehicle.ID.String(), validCreateRequest())
	require.NoError(t, err)

	_, err = f.svc.CreateOutbound(ctx, "", f.vehicle.ID.String(), validCreateRequest())
	assert.ErrorIs(t, err, ErrVehicleAlreadySold)
}

func TestCreateOutboundDefaults(t *testing.T) {
	f := newOutboundFixture(t)

	req := validCreateRequest()
	req.OutboundDate = ""
	req.DeliveryStatus = ""
	req.OtherExpense = ""

	res, err := f.svc.CreateOutbound(context.Background(), "", f.vehicle.ID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryPending, res.DeliveryStatus)
	assert.Equal(t, "0.00", res.OtherExpense)
	assert.NotEmpty(t, res.OutboundDate)
}

func TestCreateOutboundRollsBackOnCreateFailure(t *testing.T) {
	f := newOutboundFixture(t)
	f.outboundRepo.createErr = errRepoDown

	_, err := f.svc.CreateOutbound(context.Background(), "", f.vehicle.ID.String(), validCreateRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errRepoDown))
}

func TestCreateOutboundAuditFailureIsNotFatal(t *testing.T) {
	f := newOutboundFixture(t)
	f.auditRepo.logErr = errRepoDown

	_, err := f.svc.CreateOutbound(context.Background(), "", f.vehicle.ID.String(), validCreateRequest())
	assert.NoError(t, err)
}

func TestUpdateOutbound(t *testing.T) {
	f := newOutboundFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateOutbound(ctx, "", f.vehicle.ID.String(), validCreateRequest())
	require.NoError(t, err)

	status := model.DeliveryDelivered
	notes := "handed over"
	res, err := f.svc.UpdateOutbound(ctx, "", f.vehicle.ID.String(), UpdateOutboundRequest{
		DeliveryStatus: &status,
		Notes:          &notes,
	})
	require.NoError(t, err)

	assert.Equal(t, model.DeliveryDelivered, res.DeliveryStatus)
	assert.Equal(t, "handed over", res.Notes)
	// Untouched fields survive the partial update.
	assert.Equal(t, "Asha Rao", res.BuyersName)
	assert.Equal(t, "605000.00", res.SellingPrice)
}

func TestUpdateOutboundRejectsEmptyRequiredFields(t *testing.T) {
	f := newOutboundFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateOutbound(ctx, "", f.vehicle.ID.String(), validCreateRequest())
	require.NoError(t, err)

	empty := ""
	_, err = f.svc.UpdateOutbound(ctx, "", f.vehicle.ID.String(), UpdateOutboundRequest{BuyersName: &empty})

	var fields FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "buyers_name")
}

func TestUpdateOutboundMissingRecord(t *testing.T) {
	f := newOutboundFixture(t)

	notes := "anything"
	_, err := f.svc.UpdateOutbound(context.Background(), "", f.vehicle.ID.String(), UpdateOutboundRequest{Notes: &notes})
	require.Error(t, err)
}

func TestGetOutbound(t *testing.T) {
	f := newOutboundFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetOutbound(ctx, f.vehicle.ID.String())
	require.Error(t, err, "unsold vehicle has no outbound record")

	_, err = f.svc.CreateOutbound(ctx, "", f.vehicle.ID.String(), validCreateRequest())
	require.NoError(t, err)

	res, err := f.svc.GetOutbound(ctx, f.vehicle.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", res.BuyersName)
}

func TestListOutboundFiltersByDeliveryStatus(t *testing.T) {
	f := newOutboundFixture(t)
	ctx := context.Background()

	second := f.vehicleRepo.add(model.Vehicle{
		Make: "Honda", Model: "City", LicensePlate: "KA-02-9999",
		PurchasePrice: decimal.NewFromInt(700000),
		Status:        model.VehicleStatusInStock,
	})

	_, err := f.svc.CreateOutbound(ctx, "", f.vehicle.ID.String(), validCreateRequest())
	require.NoError(t, err)

	req := validCreateRequest()
	req.DeliveryStatus = model.DeliveryDispatched
	_, err = f.svc.CreateOutbound(ctx, "", second.ID.String(), req)
	require.NoError(t, err)

	all, total, err := f.svc.ListOutbound(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.EqualValues(t, 2, total)

	dispatched, total, err := f.svc.ListOutbound(ctx, model.DeliveryDispatched, 1, 10)
	require.NoError(t, err)
	require.Len(t, dispatched, 1)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, second.ID.String(), dispatched[0].VehicleID)
}

func TestCreateOutboundInvalidVehicleID(t *testing.T) {
	f := newOutboundFixture(t)

	_, err := f.svc.CreateOutbound(context.Background(), "", "not-a-uuid", validCreateRequest())
	require.Error(t, err)

	_, err = f.svc.CreateOutbound(context.Background(), "", uuid.NewString(), validCreateRequest())
	require.Error(t, err, "unknown vehicle is rejected inside the transaction")
}
