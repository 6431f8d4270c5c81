package metrics

import (
	"fmt"
	"time"

	"github.com/GabeCabrera/crewkit-sub001/internal/repository"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
)

// EquipmentUsageRow is the per-equipment aggregate of USED ledger entries
// inside a window. Quantities are stored negative on consumption, so the
// sum is flipped here.
type EquipmentUsageRow struct {
	EquipmentID   int             `db:"equipment_id"`
	EquipmentName string          `db:"equipment_name"`
	SKU           string          `db:"sku"`
	UnitsUsed     int             `db:"units_used"`
	PricePerUnit  decimal.Decimal `db:"price_per_unit"`
}

// AssemblyUsageRow is the per-assembly aggregate of the usage ledger
// inside a window.
type AssemblyUsageRow struct {
	AssemblyID   int    `db:"assembly_id"`
	AssemblyName string `db:"assembly_name"`
	UseCount     int    `db:"use_count"`
	TotalUnits   int    `db:"total_units"`
}

type MetricsRepository interface {
	GetEquipmentUsage(from *time.Time) ([]EquipmentUsageRow, error)
	GetAssemblyUsage(from *time.Time) ([]AssemblyUsageRow, error)
}

type metricsRepository struct {
	repo *repository.Repository
}

func NewRepository(r *repository.Repository) MetricsRepository {
	return &metricsRepository{repo: r}
}

func (r *metricsRepository) GetEquipmentUsage(from *time.Time) ([]EquipmentUsageRow, error) {
	query := r.repo.GoquDBWrapper.
		Select(
			goqu.I("el.equipment_id").As("equipment_id"),
			goqu.COALESCE(goqu.I("e.name"), "").As("equipment_name"),
			goqu.COALESCE(goqu.I("e.sku"), "").As("sku"),
			goqu.L("COALESCE(SUM(-el.quantity), 0)").As("units_used"),
			goqu.COALESCE(goqu.I("e.price_per_unit"), 0).As("price_per_unit"),
		).
		From(goqu.T("equipment_logs").As("el")).
		LeftJoin(
			goqu.T("equipment").As("e"),
			goqu.On(goqu.Ex{"el.equipment_id": goqu.I("e.id")}),
		).
		Where(goqu.Ex{"el.type": models.LogTypeUsed}).
		GroupBy(goqu.I("el.equipment_id"), goqu.I("e.name"), goqu.I("e.sku"), goqu.I("e.price_per_unit"))

	if from != nil {
		query = query.Where(goqu.I("el.date").Gte(*from))
	}

	var rows []EquipmentUsageRow
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}

func (r *metricsRepository) GetAssemblyUsage(from *time.Time) ([]AssemblyUsageRow, error) {
	query := r.repo.GoquDBWrapper.
		Select(
			goqu.I("ul.assembly_id").As("assembly_id"),
			goqu.COALESCE(goqu.I("a.name"), "").As("assembly_name"),
			goqu.COUNT(goqu.I("ul.id")).As("use_count"),
			goqu.L("COALESCE(SUM(ul.quantity), 0)").As("total_units"),
		).
		From(goqu.T("assembly_usage_logs").As("ul")).
		LeftJoin(
			goqu.T("assemblies").As("a"),
			goqu.On(goqu.Ex{"ul.assembly_id": goqu.I("a.id")}),
		).
		GroupBy(goqu.I("ul.assembly_id"), goqu.I("a.name"))

	if from != nil {
		query = query.Where(goqu.I("ul.date").Gte(*from))
	}

	var rows []AssemblyUsageRow
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}
