package models

import "time"

const (
	LogTypeUsed     = "used"
	LogTypeAdjusted = "adjusted"
)

// EquipmentLog is the append-only audit trail of inventory deltas, one row
// per mutation with attribution.
type EquipmentLog struct {
	ID          int       `json:"id" db:"id"`
	EquipmentID int       `json:"equipment_id" db:"equipment_id"`
	UserID      *int      `json:"user_id,omitempty" db:"user_id"`
	Quantity    int       `json:"quantity" db:"quantity"` // signed delta
	Type        string    `json:"type" db:"type"`
	Notes       string    `json:"notes" db:"notes"`
	Date        time.Time `json:"date" db:"date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Joined fields (not always populated).
	EquipmentName string `json:"equipment_name,omitempty" db:"equipment_name"`
	EquipmentSKU  string `json:"equipment_sku,omitempty" db:"equipment_sku"`
	Username      string `json:"username,omitempty" db:"username"`
}
