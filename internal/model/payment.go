package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType enum constants — which side of the vehicle's lifecycle the
// installment settles: money owed to the seller (purchase) or owed by the
// buyer (selling).
const (
	PaymentTypePurchase = "purchase"
	PaymentTypeSelling  = "selling"
)

// PaymentMode enum constants
const (
	PaymentModeCash         = "cash"
	PaymentModeBankTransfer = "bank_transfer"
	PaymentModeCheque       = "cheque"
	PaymentModeUPI          = "upi"
	PaymentModeCreditCard   = "credit_card"
	PaymentModeDebitCard    = "debit_card"
)

// MaxPaymentSlots bounds the slot enumeration ("Slot 1".."Slot 10")
const MaxPaymentSlots = 10

// ValidPaymentType reports whether t is purchase or selling
func ValidPaymentType(t string) bool {
	return t == PaymentTypePurchase || t == PaymentTypeSelling
}

// ValidPaymentMode reports whether m is a known payment mode
func ValidPaymentMode(m string) bool {
	switch m {
	case PaymentModeCash, PaymentModeBankTransfer, PaymentModeCheque,
		PaymentModeUPI, PaymentModeCreditCard, PaymentModeDebitCard:
		return true
	}
	return false
}

// ValidSlotNumber reports whether s is within the bounded slot enumeration
func ValidSlotNumber(s string) bool {
	for i := 1; i <= MaxPaymentSlots; i++ {
		if s == fmt.Sprintf("Slot %d", i) {
			return true
		}
	}
	return false
}

// PaymentSlot is one discrete installment against a vehicle. The functional
// identity key is (vehicle_id, slot_number, payment_type); writes are upserts
// on that key, so the surrogate id never leaks into the contract.
type PaymentSlot struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VehicleID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_payment_identity" json:"vehicle_id"`
	Vehicle       *Vehicle        `gorm:"foreignKey:VehicleID" json:"-"`
	SlotNumber    string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_payment_identity" json:"slot_number"`
	PaymentType   string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_payment_identity" json:"payment_type"` // purchase, selling
	AmountPaid    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"amount_paid"`
	DateOfPayment time.Time       `gorm:"not null" json:"date_of_payment"`
	PaymentMode   string          `gorm:"type:varchar(20);not null" json:"payment_mode"`
	PaymentRemark string          `gorm:"type:text" json:"payment_remark"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
