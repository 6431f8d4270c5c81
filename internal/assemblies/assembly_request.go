package assemblies

type AssemblyItemRequest struct {
	EquipmentID int `json:"equipment_id" binding:"required"`
	Quantity    int `json:"quantity" binding:"required"`
}

type CreateAssemblyRequest struct {
	Name       string                `json:"name" binding:"required"`
	Categories []string              `json:"categories"`
	Items      []AssemblyItemRequest `json:"items" binding:"required"`
}

type UpdateAssemblyRequest struct {
	Name       *string               `json:"name"`
	Categories []string              `json:"categories"`
	Items      []AssemblyItemRequest `json:"items"`
}

type RejectAssemblyRequest struct {
	Reason string `json:"reason" binding:"required"`
}
