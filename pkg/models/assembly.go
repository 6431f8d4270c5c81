package models

import (
	"time"

	"github.com/GabeCabrera/crewkit-sub001/pkg/metadata"
	"github.com/lib/pq"
)

// Assembly is a reusable bundle of equipment lines subject to an approval
// workflow before it can be consumed.
type Assembly struct {
	ID         int             `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	Status     metadata.Status `json:"status" db:"status"`
	StatusNote string          `json:"status_note,omitempty" db:"status_note"`
	Categories []string        `json:"categories" db:"-"`
	CreatedBy  User            `json:"created_by"`
	Items      []AssemblyItem  `json:"items,omitempty"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

type AssemblyItem struct {
	ID          int `json:"id" db:"id"`
	AssemblyID  int `json:"assembly_id" db:"assembly_id"`
	EquipmentID int `json:"equipment_id" db:"equipment_id"`
	Quantity    int `json:"quantity" db:"quantity"`

	// Joined from equipment (not always populated).
	EquipmentName string `json:"equipment_name,omitempty" db:"equipment_name"`
	EquipmentSKU  string `json:"equipment_sku,omitempty" db:"equipment_sku"`
}

type FlatAssemblyRecord struct {
	ID              int            `db:"assembly_id"`
	Name            string         `db:"assembly_name"`
	Status          string         `db:"status"`
	StatusNote      string         `db:"status_note"`
	Categories      pq.StringArray `db:"categories"`
	CreatedAt       time.Time      `db:"created_at"`
	CreatedByID     int            `db:"created_by_id"`
	CreatedByName   string         `db:"created_by_username"`
	CreatedByFull   string         `db:"created_by_fullname"`
	CreatedByRole   string         `db:"created_by_role"`
	CreatedByTeamID *int           `db:"created_by_team_id"`
}

func (fa *FlatAssemblyRecord) TransformToAssembly() Assembly {
	return Assembly{
		ID:         fa.ID,
		Name:       fa.Name,
		Status:     metadata.Status(fa.Status),
		StatusNote: fa.StatusNote,
		Categories: fa.Categories,
		CreatedAt:  fa.CreatedAt,
		CreatedBy: User{
			ID:       fa.CreatedByID,
			Username: fa.CreatedByName,
			Fullname: fa.CreatedByFull,
			Role:     fa.CreatedByRole,
			TeamID:   fa.CreatedByTeamID,
		},
	}
}
