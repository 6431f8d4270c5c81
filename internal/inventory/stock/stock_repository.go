package stock

import (
	"fmt"

	"github.com/GabeCabrera/crewkit-sub001/internal/repository"
	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"

	"github.com/doug-martin/goqu/v9"
)

// StockRepository owns the inventory counters. All mutations are
// conditional single statements so a counter can never go negative, and
// every caller runs inside a transaction.
type StockRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *StockRepository {
	return &StockRepository{repository: r}
}

// Decrease consumes quantity units, failing without mutation when the
// counter would go negative.
func (r *StockRepository) Decrease(tx *goqu.TxDatabase, equipmentID int, equipmentName string, quantity int) error {
	updateResult, err := tx.Update("inventory").
		Set(goqu.Record{"quantity": goqu.L("quantity - ?", quantity)}).
		Where(goqu.Ex{"equipment_id": equipmentID}).
		Where(goqu.C("quantity").Gte(quantity)).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to decrease inventory for equipment %d: %w", equipmentID, err)
	}

	rowsAffected, err := updateResult.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &custom_error.InsufficientInventoryError{
			EquipmentID:   equipmentID,
			EquipmentName: equipmentName,
			Requested:     quantity,
		}
	}

	return nil
}

// Increase restores quantity units to the counter.
func (r *StockRepository) Increase(tx *goqu.TxDatabase, equipmentID int, quantity int) error {
	updateResult, err := tx.Update("inventory").
		Set(goqu.Record{"quantity": goqu.L("quantity + ?", quantity)}).
		Where(goqu.Ex{"equipment_id": equipmentID}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to increase inventory for equipment %d: %w", equipmentID, err)
	}

	rowsAffected, err := updateResult.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no inventory counter for equipment %d", equipmentID)
	}

	return nil
}

// GetQuantity reads the counter inside the transaction, locking the row so
// concurrent syncs serialize.
func (r *StockRepository) GetQuantity(tx *goqu.TxDatabase, equipmentID int) (int, error) {
	var quantity int
	found, err := tx.Select("quantity").
		From("inventory").
		Where(goqu.Ex{"equipment_id": equipmentID}).
		ForUpdate(goqu.Wait).
		Executor().
		ScanVal(&quantity)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch inventory for equipment %d: %w", equipmentID, err)
	}
	if !found {
		return 0, &custom_error.NotFoundError{Resource: "inventory", ID: equipmentID}
	}

	return quantity, nil
}

// SetQuantity pins the counter to an externally reported stock level,
// creating the row when the equipment is new.
func (r *StockRepository) SetQuantity(tx *goqu.TxDatabase, equipmentID int, quantity int) error {
	query := tx.Insert("inventory").
		Rows(goqu.Record{
			"equipment_id": equipmentID,
			"quantity":     quantity,
		}).
		OnConflict(goqu.DoUpdate("equipment_id", goqu.Record{"quantity": quantity}))

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to set inventory for equipment %d: %w", equipmentID, err)
	}

	return nil
}
