package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateVehicle     = "CREATE_VEHICLE"
	ActionUpdateVehicle     = "UPDATE_VEHICLE"
	ActionDeleteVehicle     = "DELETE_VEHICLE"
	ActionCreateMaintenance = "CREATE_MAINTENANCE"
	ActionUpdateMaintenance = "UPDATE_MAINTENANCE"
	ActionDeleteMaintenance = "DELETE_MAINTENANCE"

	// Outbound sale workflow actions
	ActionCreateOutbound = "CREATE_OUTBOUND"
	ActionUpdateOutbound = "UPDATE_OUTBOUND"
	ActionUpsertPayment  = "UPSERT_PAYMENT"
	ActionDeletePayment  = "DELETE_PAYMENT"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated job
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/plate)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
