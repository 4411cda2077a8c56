package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VehicleCondition enum constants
const (
	ConditionExcellent = "Excellent"
	ConditionGood      = "Good"
	ConditionBad       = "Bad"
	ConditionWorse     = "Worse"
)

// DeliveryStatus enum constants
const (
	DeliveryPending    = "Pending"
	DeliveryDispatched = "Dispatched"
	DeliveryDelivered  = "Delivered"
	DeliveryInTransit  = "In Transit"
	DeliveryCancelled  = "Cancelled"
)

// ValidCondition reports whether the condition value is one of the accepted
// enum members. Legacy records used Yes/No; NormalizeCondition maps those.
func ValidCondition(c string) bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionBad, ConditionWorse:
		return true
	}
	return false
}

// NormalizeCondition maps the legacy Yes/No condition values onto the current
// enum (Yes meant roadworthy, No meant not).
func NormalizeCondition(c string) string {
	switch c {
	case "Yes":
		return ConditionGood
	case "No":
		return ConditionBad
	}
	return c
}

// ValidDeliveryStatus reports whether the status value is a known member
func ValidDeliveryStatus(s string) bool {
	switch s {
	case DeliveryPending, DeliveryDispatched, DeliveryDelivered, DeliveryInTransit, DeliveryCancelled:
		return true
	}
	return false
}

// OutboundRecord is the sale record created when a vehicle leaves inventory.
// At most one exists per vehicle; it is created once by the sale wizard's final
// submit and mutable afterward through the update endpoint.
type OutboundRecord struct {
	ID                      uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VehicleID               uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"vehicle_id"`
	Vehicle                 *Vehicle        `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	BuyersName              string          `gorm:"type:varchar(255);not null" json:"buyers_name"`
	BuyersContactDetails    string          `gorm:"type:varchar(255);not null" json:"buyers_contact_details"`
	BuyersAddress           string          `gorm:"type:text" json:"buyers_address"`
	OutboundDate            time.Time       `gorm:"not null" json:"outbound_date"`
	EstimatedDeliveryDate   *time.Time      `json:"estimated_delivery_date"`
	VehicleCurrentCondition string          `gorm:"type:varchar(20);not null" json:"vehicle_current_condition"`
	Notes                   string          `gorm:"type:text" json:"notes"`
	DeliveryStatus          string          `gorm:"type:varchar(20);not null;default:'Pending';index" json:"delivery_status"`
	OtherExpense            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"other_expense"`
	SellingPrice            decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"selling_price"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}
