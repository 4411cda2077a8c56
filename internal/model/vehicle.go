package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VehicleStatus enum constants
const (
	VehicleStatusInStock = "IN_STOCK"
	VehicleStatusSold    = "SOLD"
)

// Vehicle represents a unit in dealership inventory. Lifecycle is owned by the
// inventory side; the outbound workflow only reads it and flips its status on sale.
type Vehicle struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Make          string          `gorm:"type:varchar(100);not null" json:"make"`
	Model         string          `gorm:"type:varchar(100);not null" json:"model"`
	LicensePlate  string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"license_plate"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"purchase_price"`
	Status        string          `gorm:"type:varchar(20);not null;default:'IN_STOCK';index" json:"status"` // IN_STOCK, SOLD
	Images        []VehicleImage  `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// VehicleImage stores one hosted image URL for a vehicle
type VehicleImage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VehicleID uuid.UUID `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
