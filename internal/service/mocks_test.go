package service

import (
	"context"
	"errors"

	"dealerdesk/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Hand-written repository fakes backed by in-memory maps. They run every
// callback inline, so the services under test see the same control flow as
// against a real database.

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockVehicleRepo struct {
	vehicles map[uuid.UUID]*model.Vehicle
	findErr  error
}

func newMockVehicleRepo() *mockVehicleRepo {
	return &mockVehicleRepo{vehicles: make(map[uuid.UUID]*model.Vehicle)}
}

func (m *mockVehicleRepo) add(v model.Vehicle) *model.Vehicle {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	m.vehicles[v.ID] = &v
	return &v
}

func (m *mockVehicleRepo) Create(ctx context.Context, vehicle *model.Vehicle) error {
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	m.vehicles[vehicle.ID] = vehicle
	return nil
}

func (m *mockVehicleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	v, ok := m.vehicles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (m *mockVehicleRepo) FindByIDWithImages(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	return m.FindByID(ctx, id)
}

func (m *mockVehicleRepo) ListByStatus(ctx context.Context, status string, page, limit int) ([]model.Vehicle, int64, error) {
	var out []model.Vehicle
	for _, v := range m.vehicles {
		if v.Status == status {
			out = append(out, *v)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockVehicleRepo) Update(ctx context.Context, vehicle *model.Vehicle) error {
	m.vehicles[vehicle.ID] = vehicle
	return nil
}

func (m *mockVehicleRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	v, ok := m.vehicles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Status = status
	return nil
}

func (m *mockVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.vehicles, id)
	return nil
}

type mockOutboundRepo struct {
	records   map[uuid.UUID]*model.OutboundRecord
	createErr error
}

func newMockOutboundRepo() *mockOutboundRepo {
	return &mockOutboundRepo{records: make(map[uuid.UUID]*model.OutboundRecord)}
}

func (m *mockOutboundRepo) Create(ctx context.Context, record *model.OutboundRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.records[record.VehicleID]; exists {
		return gorm.ErrDuplicatedKey
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	m.records[record.VehicleID] = record
	return nil
}

func (m *mockOutboundRepo) FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) (*model.OutboundRecord, error) {
	r, ok := m.records[vehicleID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (m *mockOutboundRepo) FindByVehicleIDWithVehicle(ctx context.Context, vehicleID uuid.UUID) (*model.OutboundRecord, error) {
	return m.FindByVehicleID(ctx, vehicleID)
}

func (m *mockOutboundRepo) List(ctx context.Context, deliveryStatus string, page, limit int) ([]model.OutboundRecord, int64, error) {
	var out []model.OutboundRecord
	for _, r := range m.records {
		if deliveryStatus == "" || r.DeliveryStatus == deliveryStatus {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockOutboundRepo) Update(ctx context.Context, record *model.OutboundRecord) error {
	m.records[record.VehicleID] = record
	return nil
}

type paymentKey struct {
	vehicleID   uuid.UUID
	slotNumber  string
	paymentType string
}

type mockPaymentRepo struct {
	slots map[paymentKey]*model.PaymentSlot
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{slots: make(map[paymentKey]*model.PaymentSlot)}
}

func (m *mockPaymentRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.PaymentSlot, error) {
	var out []model.PaymentSlot
	for k, s := range m.slots {
		if k.vehicleID == vehicleID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) FindByIdentity(ctx context.Context, vehicleID uuid.UUID, slotNumber, paymentType string) (*model.PaymentSlot, error) {
	s, ok := m.slots[paymentKey{vehicleID, slotNumber, paymentType}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (m *mockPaymentRepo) Create(ctx context.Context, slot *model.PaymentSlot) error {
	key := paymentKey{slot.VehicleID, slot.SlotNumber, slot.PaymentType}
	if _, exists := m.slots[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	m.slots[key] = slot
	return nil
}

func (m *mockPaymentRepo) Update(ctx context.Context, slot *model.PaymentSlot) error {
	m.slots[paymentKey{slot.VehicleID, slot.SlotNumber, slot.PaymentType}] = slot
	return nil
}

func (m *mockPaymentRepo) Delete(ctx context.Context, vehicleID uuid.UUID, slotNumber, paymentType string) (int64, error) {
	key := paymentKey{vehicleID, slotNumber, paymentType}
	if _, ok := m.slots[key]; !ok {
		return 0, nil
	}
	delete(m.slots, key)
	return 1, nil
}

type mockMaintenanceRepo struct {
	records map[uuid.UUID]*model.MaintenanceRecord
	sums    map[uuid.UUID]decimal.Decimal
	sumErr  error
}

func newMockMaintenanceRepo() *mockMaintenanceRepo {
	return &mockMaintenanceRepo{
		records: make(map[uuid.UUID]*model.MaintenanceRecord),
		sums:    make(map[uuid.UUID]decimal.Decimal),
	}
}

func (m *mockMaintenanceRepo) Create(ctx context.Context, record *model.MaintenanceRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	m.records[record.ID] = record
	return nil
}

func (m *mockMaintenanceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MaintenanceRecord, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (m *mockMaintenanceRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID, page, limit int) ([]model.MaintenanceRecord, int64, error) {
	var out []model.MaintenanceRecord
	for _, r := range m.records {
		if r.VehicleID == vehicleID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockMaintenanceRepo) SumCostByVehicle(ctx context.Context, vehicleID uuid.UUID) (decimal.Decimal, error) {
	if m.sumErr != nil {
		return decimal.Zero, m.sumErr
	}
	return m.sums[vehicleID], nil
}

func (m *mockMaintenanceRepo) Update(ctx context.Context, record *model.MaintenanceRecord) error {
	m.records[record.ID] = record
	return nil
}

func (m *mockMaintenanceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.records, id)
	return nil
}

type mockAuditRepo struct {
	entries []model.AuditLog
	logErr  error
}

func (m *mockAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	if m.logErr != nil {
		return m.logErr
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	return m.entries, int64(len(m.entries)), nil
}

var errRepoDown = errors.New("repository unavailable")
