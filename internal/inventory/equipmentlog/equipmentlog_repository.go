package equipmentlog

import (
	"fmt"

	"github.com/GabeCabrera/crewkit-sub001/internal/repository"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// EquipmentLogRepository appends and reads the inventory delta audit
// trail. Rows are never updated or deleted.
type EquipmentLogRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *EquipmentLogRepository {
	return &EquipmentLogRepository{repository: r}
}

// Append writes one audit row inside the caller's transaction so the delta
// and its log entry commit together.
func (r *EquipmentLogRepository) Append(tx *goqu.TxDatabase, entry models.EquipmentLog) error {
	query := tx.Insert("equipment_logs").
		Rows(goqu.Record{
			"equipment_id": entry.EquipmentID,
			"user_id":      entry.UserID,
			"quantity":     entry.Quantity,
			"type":         entry.Type,
			"notes":        entry.Notes,
			"date":         entry.Date,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert equipment log: %w", err)
	}

	return nil
}

type ListFilter struct {
	EquipmentID *int
	Type        string
	From        string // YYYY-MM-DD
	To          string
}

func (r *EquipmentLogRepository) GetLogs(filter ListFilter, page, limit int) ([]models.EquipmentLog, int, error) {
	base := r.repository.GoquDBWrapper.
		From(goqu.T("equipment_logs").As("l")).
		LeftJoin(
			goqu.T("equipment").As("e"),
			goqu.On(goqu.Ex{"l.equipment_id": goqu.I("e.id")}),
		).
		LeftJoin(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"l.user_id": goqu.I("u.id")}),
		)

	conditions := make([]goqu.Expression, 0, 4)
	if filter.EquipmentID != nil {
		conditions = append(conditions, goqu.I("l.equipment_id").Eq(*filter.EquipmentID))
	}
	if filter.Type != "" {
		conditions = append(conditions, goqu.I("l.type").Eq(filter.Type))
	}
	if filter.From != "" {
		conditions = append(conditions, goqu.I("l.date").Gte(filter.From))
	}
	if filter.To != "" {
		conditions = append(conditions, goqu.I("l.date").Lte(filter.To))
	}
	if len(conditions) > 0 {
		base = base.Where(conditions...)
	}

	var totalCount int
	if _, err := base.Select(goqu.COUNT("*")).Executor().ScanVal(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count equipment logs: %w", err)
	}

	query := base.
		Select(
			goqu.I("l.id").As("id"),
			goqu.I("l.equipment_id").As("equipment_id"),
			goqu.I("l.user_id").As("user_id"),
			goqu.I("l.quantity").As("quantity"),
			goqu.I("l.type").As("type"),
			goqu.I("l.notes").As("notes"),
			goqu.I("l.date").As("date"),
			goqu.I("l.created_at").As("created_at"),
			goqu.COALESCE(goqu.I("e.name"), "").As("equipment_name"),
			goqu.COALESCE(goqu.I("e.sku"), "").As("equipment_sku"),
			goqu.COALESCE(goqu.I("u.username"), "").As("username"),
		).
		Order(goqu.I("l.created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint((page - 1) * limit))

	var logs []models.EquipmentLog
	if err := query.Executor().ScanStructs(&logs); err != nil {
		return nil, 0, fmt.Errorf("error executing SQL statement: %w", err)
	}

	if logs == nil {
		logs = []models.EquipmentLog{}
	}

	return logs, totalCount, nil
}
