package models

import (
	"github.com/shopspring/decimal"
)

// Equipment is a catalog line owned by the BoxHero sync; it is never
// created or edited locally.
type Equipment struct {
	ID           int             `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	SKU          string          `json:"sku" db:"sku"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" db:"price_per_unit"`
	UnitType     string          `json:"unit_type" db:"unit_type"`
	IsArchived   bool            `json:"is_archived" db:"is_archived"`
	BoxHeroID    *string         `json:"boxhero_id,omitempty" db:"boxhero_id"`

	// Joined from inventory (not always populated).
	Quantity int `json:"quantity" db:"quantity"`
}

// Inventory is the single mutable counter behind an equipment line.
type Inventory struct {
	EquipmentID int `json:"equipment_id" db:"equipment_id"`
	Quantity    int `json:"quantity" db:"quantity"`
}
