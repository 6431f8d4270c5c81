package equipment

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/GabeCabrera/crewkit-sub001/internal/repository"
	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
)

type EquipmentRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *EquipmentRepository {
	return &EquipmentRepository{repository: r}
}

// CatalogLine is one item from the external inventory system, ready to be
// upserted into the local catalog.
type CatalogLine struct {
	BoxHeroID    string
	Name         string
	SKU          string
	PricePerUnit decimal.Decimal
	UnitType     string
	Quantity     int
}

func (r *EquipmentRepository) getEquipmentQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("e.id").As("id"),
			goqu.I("e.name").As("name"),
			goqu.I("e.sku").As("sku"),
			goqu.I("e.price_per_unit").As("price_per_unit"),
			goqu.I("e.unit_type").As("unit_type"),
			goqu.I("e.is_archived").As("is_archived"),
			goqu.I("e.boxhero_id").As("boxhero_id"),
			goqu.COALESCE(goqu.I("i.quantity"), 0).As("quantity"),
		).
		From(goqu.T("equipment").As("e")).
		LeftJoin(
			goqu.T("inventory").As("i"),
			goqu.On(goqu.Ex{"e.id": goqu.I("i.equipment_id")}),
		)
}

func (r *EquipmentRepository) GetEquipmentList(includeArchived bool, page, limit int) ([]models.Equipment, int, error) {
	query := r.getEquipmentQuery()
	countQuery := r.repository.GoquDBWrapper.From(goqu.T("equipment").As("e")).Select(goqu.COUNT("*"))

	if !includeArchived {
		query = query.Where(goqu.Ex{"e.is_archived": false})
		countQuery = countQuery.Where(goqu.Ex{"e.is_archived": false})
	}

	var totalCount int
	if _, err := countQuery.Executor().ScanVal(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count equipment: %w", err)
	}

	query = query.
		Order(goqu.I("e.name").Asc()).
		Limit(uint(limit)).
		Offset(uint((page - 1) * limit))

	var equipment []models.Equipment
	if err := query.Executor().ScanStructs(&equipment); err != nil {
		return nil, 0, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return equipment, totalCount, nil
}

func (r *EquipmentRepository) GetEquipment(id int) (*models.Equipment, error) {
	var eq models.Equipment
	found, err := r.getEquipmentQuery().
		Where(goqu.Ex{"e.id": id}).
		Executor().
		ScanStruct(&eq)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, &custom_error.NotFoundError{Resource: "equipment", ID: id}
	}

	return &eq, nil
}

func (r *EquipmentRepository) GetEquipmentBySKU(sku string) (*models.Equipment, error) {
	var eq models.Equipment
	found, err := r.getEquipmentQuery().
		Where(goqu.Ex{"e.sku": sku}).
		Executor().
		ScanStruct(&eq)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, sql.ErrNoRows
	}

	return &eq, nil
}

// UpsertFromCatalog inserts or refreshes one catalog line keyed by SKU and
// reports the equipment id and whether the row is new.
func (r *EquipmentRepository) UpsertFromCatalog(tx *goqu.TxDatabase, line CatalogLine) (int, bool, error) {
	var existingID int
	found, err := tx.Select("id").
		From("equipment").
		Where(goqu.Ex{"sku": line.SKU}).
		Executor().
		ScanVal(&existingID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up equipment by sku: %w", err)
	}

	if found {
		_, err := tx.Update("equipment").
			Set(goqu.Record{
				"name":           line.Name,
				"price_per_unit": line.PricePerUnit,
				"unit_type":      line.UnitType,
				"boxhero_id":     line.BoxHeroID,
				"is_archived":    false,
			}).
			Where(goqu.Ex{"id": existingID}).
			Executor().
			Exec()
		if err != nil {
			return 0, false, fmt.Errorf("failed to update equipment %d: %w", existingID, err)
		}
		return existingID, false, nil
	}

	var newID int
	query := tx.Insert("equipment").
		Rows(goqu.Record{
			"name":           line.Name,
			"sku":            line.SKU,
			"price_per_unit": line.PricePerUnit,
			"unit_type":      line.UnitType,
			"boxhero_id":     line.BoxHeroID,
			"is_archived":    false,
		}).
		Returning("id")
	if _, err := query.Executor().ScanVal(&newID); err != nil {
		return 0, false, fmt.Errorf("failed to insert equipment record: %w", err)
	}

	return newID, true, nil
}

// ArchiveMissing flags equipment whose BoxHero id was not part of the last
// synced catalog. Returns the archived ids.
func (r *EquipmentRepository) ArchiveMissing(tx *goqu.TxDatabase, seenBoxHeroIDs []string) ([]int, error) {
	query := tx.Update("equipment").
		Set(goqu.Record{"is_archived": true}).
		Where(goqu.C("boxhero_id").IsNotNull()).
		Where(goqu.C("is_archived").Eq(false))

	if len(seenBoxHeroIDs) > 0 {
		query = query.Where(goqu.C("boxhero_id").NotIn(seenBoxHeroIDs))
	}

	var archived []int
	if err := query.Returning("id").Executor().ScanVals(&archived); err != nil {
		return nil, fmt.Errorf("failed to archive missing equipment: %w", err)
	}

	return archived, nil
}

// GetUnitPrices resolves unit prices for a set of equipment ids in one
// query. Unknown ids are simply absent from the result.
func (r *EquipmentRepository) GetUnitPrices(ids []int) (map[int]decimal.Decimal, error) {
	prices := make(map[int]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	type priceRow struct {
		ID           int             `db:"id"`
		PricePerUnit decimal.Decimal `db:"price_per_unit"`
	}

	var rows []priceRow
	query := r.repository.GoquDBWrapper.
		Select("id", "price_per_unit").
		From("equipment").
		Where(goqu.C("id").In(ids))
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("failed to fetch unit prices: %w", err)
	}

	for _, row := range rows {
		prices[row.ID] = row.PricePerUnit
	}

	return prices, nil
}

// EquipmentExists is used to validate usage modifier lines before any
// inventory is touched.
func (r *EquipmentRepository) EquipmentExists(id int) (bool, string, error) {
	var name string
	found, err := r.repository.GoquDBWrapper.
		Select("name").
		From("equipment").
		Where(goqu.Ex{"id": id}).
		Executor().
		ScanVal(&name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, "", fmt.Errorf("failed to check equipment %d: %w", id, err)
	}

	return found, name, nil
}
