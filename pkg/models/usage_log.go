package models

import (
	"encoding/json"
	"time"
)

// UsageModifier is an ad-hoc equipment line attached to a single usage
// event, outside the assembly's fixed definition.
type UsageModifier struct {
	EquipmentID int `json:"equipment_id"`
	Quantity    int `json:"quantity"`
}

// AssemblyUsageLog records that a user consumed a multiple of an approved
// assembly. Deleting it restores every inventory counter it touched.
type AssemblyUsageLog struct {
	ID           int             `json:"id" db:"id"`
	AssemblyID   int             `json:"assembly_id" db:"assembly_id"`
	UserID       int             `json:"user_id" db:"user_id"`
	Quantity     int             `json:"quantity" db:"quantity"`
	Modifiers    []UsageModifier `json:"modifiers" db:"-"`
	ModifiersRaw []byte          `json:"-" db:"modifiers"`
	Date         time.Time       `json:"date" db:"date"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`

	// Joined fields (not always populated).
	AssemblyName string `json:"assembly_name,omitempty" db:"assembly_name"`
	Username     string `json:"username,omitempty" db:"username"`
}

func (l *AssemblyUsageLog) LoadFromDB() {
	if len(l.ModifiersRaw) > 0 {
		_ = json.Unmarshal(l.ModifiersRaw, &l.Modifiers)
	}
	if l.Modifiers == nil {
		l.Modifiers = []UsageModifier{}
	}
}
