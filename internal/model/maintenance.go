package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaintenanceRecord is one workshop job booked against a vehicle. The sum of
// costs per vehicle feeds the total acquisition cost used for pricing.
type MaintenanceRecord struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VehicleID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	Vehicle     *Vehicle        `gorm:"foreignKey:VehicleID" json:"-"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Cost        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cost"`
	ServiceDate time.Time       `gorm:"not null" json:"service_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
