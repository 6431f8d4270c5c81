package usage

import "github.com/GabeCabrera/crewkit-sub001/pkg/models"

type RecordUsageRequest struct {
	AssemblyID int                    `json:"assembly_id" binding:"required"`
	Quantity   int                    `json:"quantity" binding:"required"`
	Modifiers  []models.UsageModifier `json:"modifiers"`
	Date       string                 `json:"date"` // YYYY-MM-DD, defaults to today
}
