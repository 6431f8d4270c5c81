package boxhero

import (
	"errors"
	"fmt"
	"time"

	"github.com/GabeCabrera/crewkit-sub001/internal/inventory/equipment"
	"github.com/GabeCabrera/crewkit-sub001/internal/repository"
	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

type Catalog interface {
	GetAllItems() ([]Item, error)
}

type EquipmentStore interface {
	UpsertFromCatalog(tx *goqu.TxDatabase, line equipment.CatalogLine) (int, bool, error)
	ArchiveMissing(tx *goqu.TxDatabase, seenBoxHeroIDs []string) ([]int, error)
}

type StockStore interface {
	GetQuantity(tx *goqu.TxDatabase, equipmentID int) (int, error)
	SetQuantity(tx *goqu.TxDatabase, equipmentID int, quantity int) error
}

type LogStore interface {
	Append(tx *goqu.TxDatabase, entry models.EquipmentLog) error
}

type txRunner func(fn func(tx *goqu.TxDatabase) error) error

// SyncService pulls the external catalog and reconciles the local
// equipment and inventory tables against it in one transaction.
type SyncService struct {
	catalog   Catalog
	equipment EquipmentStore
	stock     StockStore
	logs      LogStore
	runInTx   txRunner
	logger    *zap.Logger
	now       func() time.Time
}

func NewSyncService(r *repository.Repository, catalog Catalog, equipmentStore EquipmentStore, stock StockStore, logs LogStore, logger *zap.Logger) *SyncService {
	return &SyncService{
		catalog:   catalog,
		equipment: equipmentStore,
		stock:     stock,
		logs:      logs,
		runInTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(r.GoquDBWrapper, fn)
		},
		logger: logger,
		now:    time.Now,
	}
}

// Sync reconciles the full catalog. userID attributes the adjustment log
// rows; a nil userID marks a scheduled system run.
func (s *SyncService) Sync(userID *int) (*SyncResult, error) {
	items, err := s.catalog.GetAllItems()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	result := &SyncResult{ItemsSeen: len(items), ArchivedIDs: []int{}}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	err = s.runInTx(func(tx *goqu.TxDatabase) error {
		seen := make([]string, 0, len(items))

		for _, item := range items {
			if item.SKU == "" {
				s.logger.Warn("skipping catalog item without sku", zap.String("boxheroID", item.ID))
				continue
			}
			seen = append(seen, item.ID)

			equipmentID, created, err := s.equipment.UpsertFromCatalog(tx, equipment.CatalogLine{
				BoxHeroID:    item.ID,
				Name:         item.Name,
				SKU:          item.SKU,
				PricePerUnit: item.Price,
				UnitType:     item.Unit,
				Quantity:     item.Quantity,
			})
			if err != nil {
				return err
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}

			current := 0
			if !created {
				current, err = s.stock.GetQuantity(tx, equipmentID)
				if err != nil {
					var notFound *custom_error.NotFoundError
					if !errors.As(err, &notFound) {
						return err
					}
					// equipment existed before inventory tracking started
					current = 0
				}
			}
			if current == item.Quantity {
				continue
			}

			if err := s.stock.SetQuantity(tx, equipmentID, item.Quantity); err != nil {
				return err
			}
			if err := s.logs.Append(tx, models.EquipmentLog{
				EquipmentID: equipmentID,
				UserID:      userID,
				Quantity:    item.Quantity - current,
				Type:        models.LogTypeAdjusted,
				Notes:       fmt.Sprintf("Catalog sync: stock set to %d (was %d)", item.Quantity, current),
				Date:        today,
			}); err != nil {
				return err
			}
			result.Adjusted++
		}

		archived, err := s.equipment.ArchiveMissing(tx, seen)
		if err != nil {
			return err
		}
		result.ArchivedIDs = archived

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("catalog sync finished",
		zap.Int("itemsSeen", result.ItemsSeen),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("adjusted", result.Adjusted),
		zap.Int("archived", len(result.ArchivedIDs)),
	)

	return result, nil
}
