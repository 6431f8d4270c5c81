package usage

import (
	"fmt"
	"time"

	"github.com/GabeCabrera/crewkit-sub001/internal/repository"
	"github.com/GabeCabrera/crewkit-sub001/pkg/metadata"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"
	"github.com/GabeCabrera/crewkit-sub001/pkg/roles"

	"github.com/doug-martin/goqu/v9"
)

// ValidationError maps to a 400 at the request boundary.
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

// ForbiddenError maps to a 403 at the request boundary.
type ForbiddenError struct {
	message string
}

func (e *ForbiddenError) Error() string {
	return e.message
}

type AssemblyStore interface {
	GetAssembly(id int) (*models.Assembly, error)
}

type EquipmentStore interface {
	EquipmentExists(id int) (bool, string, error)
}

type StockStore interface {
	Decrease(tx *goqu.TxDatabase, equipmentID int, equipmentName string, quantity int) error
	Increase(tx *goqu.TxDatabase, equipmentID int, quantity int) error
}

type LogStore interface {
	Append(tx *goqu.TxDatabase, entry models.EquipmentLog) error
}

type txRunner func(fn func(tx *goqu.TxDatabase) error) error

// UsageService is the assembly usage ledger: consuming an approved assembly
// decrements every constituent counter, deleting a usage log restores them.
// Both directions run in a single transaction so no partial write survives
// an insufficient line.
type UsageService struct {
	usageRepo  UsageRepository
	assemblies AssemblyStore
	equipment  EquipmentStore
	stock      StockStore
	logs       LogStore
	runInTx    txRunner
	now        func() time.Time
}

func NewUsageService(r *repository.Repository, usageRepo UsageRepository, assemblies AssemblyStore, equipment EquipmentStore, stock StockStore, logs LogStore) *UsageService {
	return &UsageService{
		usageRepo:  usageRepo,
		assemblies: assemblies,
		equipment:  equipment,
		stock:      stock,
		logs:       logs,
		runInTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(r.GoquDBWrapper, fn)
		},
		now: time.Now,
	}
}

type consumeLine struct {
	equipmentID int
	name        string
	quantity    int
	modifier    bool
}

// RecordUsage consumes inventory for one usage of an approved assembly.
func (s *UsageService) RecordUsage(req RecordUsageRequest, userID int) (*models.AssemblyUsageLog, error) {
	if req.Quantity < 1 {
		return nil, &ValidationError{message: "usage quantity must be at least 1"}
	}

	assembly, err := s.assemblies.GetAssembly(req.AssemblyID)
	if err != nil {
		return nil, err
	}

	if assembly.Status != metadata.StatusApproved {
		return nil, &ValidationError{
			message: fmt.Sprintf("assembly %q is %s, only approved assemblies can be used", assembly.Name, assembly.Status),
		}
	}

	date, err := s.resolveDate(req.Date)
	if err != nil {
		return nil, err
	}

	// All lines are resolved and validated before any counter is touched.
	lines := make([]consumeLine, 0, len(assembly.Items)+len(req.Modifiers))
	for _, item := range assembly.Items {
		lines = append(lines, consumeLine{
			equipmentID: item.EquipmentID,
			name:        item.EquipmentName,
			quantity:    item.Quantity * req.Quantity,
		})
	}
	for _, modifier := range req.Modifiers {
		if modifier.Quantity <= 0 {
			return nil, &ValidationError{message: "modifier quantity must be positive"}
		}
		exists, name, err := s.equipment.EquipmentExists(modifier.EquipmentID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, &ValidationError{
				message: fmt.Sprintf("unknown equipment %d in modifiers", modifier.EquipmentID),
			}
		}
		lines = append(lines, consumeLine{
			equipmentID: modifier.EquipmentID,
			name:        name,
			quantity:    modifier.Quantity,
			modifier:    true,
		})
	}

	usageLog := models.AssemblyUsageLog{
		AssemblyID:   assembly.ID,
		AssemblyName: assembly.Name,
		UserID:       userID,
		Quantity:     req.Quantity,
		Modifiers:    req.Modifiers,
		Date:         date,
	}

	err = s.runInTx(func(tx *goqu.TxDatabase) error {
		for _, line := range lines {
			if err := s.stock.Decrease(tx, line.equipmentID, line.name, line.quantity); err != nil {
				return err
			}

			notes := fmt.Sprintf("Used for assembly %q", assembly.Name)
			if line.modifier {
				notes = fmt.Sprintf("Used as modifier with assembly %q", assembly.Name)
			}

			if err := s.logs.Append(tx, models.EquipmentLog{
				EquipmentID: line.equipmentID,
				UserID:      &userID,
				Quantity:    -line.quantity,
				Type:        models.LogTypeUsed,
				Notes:       notes,
				Date:        date,
			}); err != nil {
				return err
			}
		}

		logID, err := s.usageRepo.InsertUsageLog(tx, usageLog)
		if err != nil {
			return err
		}
		usageLog.ID = logID

		return nil
	})
	if err != nil {
		return nil, err
	}

	usageLog.CreatedAt = s.now()
	if usageLog.Modifiers == nil {
		usageLog.Modifiers = []models.UsageModifier{}
	}

	return &usageLog, nil
}

// DeleteUsage reverses a recorded usage: every decrement gets a matching
// increment and adjustment log row, then the usage log itself goes away.
func (s *UsageService) DeleteUsage(logID int, actorID int, actorRole roles.Role) error {
	usageLog, err := s.usageRepo.GetUsageLog(logID)
	if err != nil {
		return err
	}

	if !roles.CanDeleteUsageLog(actorRole, usageLog.UserID == actorID, usageLog.Date, s.now()) {
		return &ForbiddenError{message: "you are not allowed to delete this usage log"}
	}

	assembly, err := s.assemblies.GetAssembly(usageLog.AssemblyID)
	if err != nil {
		return err
	}

	return s.runInTx(func(tx *goqu.TxDatabase) error {
		restore := func(equipmentID, quantity int, notes string) error {
			if err := s.stock.Increase(tx, equipmentID, quantity); err != nil {
				return err
			}
			return s.logs.Append(tx, models.EquipmentLog{
				EquipmentID: equipmentID,
				UserID:      &actorID,
				Quantity:    quantity,
				Type:        models.LogTypeAdjusted,
				Notes:       notes,
				Date:        usageLog.Date,
			})
		}

		for _, item := range assembly.Items {
			notes := fmt.Sprintf("Restored after deleting usage of assembly %q", assembly.Name)
			if err := restore(item.EquipmentID, item.Quantity*usageLog.Quantity, notes); err != nil {
				return err
			}
		}

		for _, modifier := range usageLog.Modifiers {
			notes := fmt.Sprintf("Restored modifier after deleting usage of assembly %q", assembly.Name)
			if err := restore(modifier.EquipmentID, modifier.Quantity, notes); err != nil {
				return err
			}
		}

		// The ledger row goes last, after every counter is back.
		return s.usageRepo.DeleteUsageLog(tx, logID)
	})
}

func (s *UsageService) GetUsageLogs(filter ListFilter, page, limit int) ([]models.AssemblyUsageLog, int, error) {
	return s.usageRepo.GetUsageLogs(filter, page, limit)
}

func (s *UsageService) resolveDate(raw string) (time.Time, error) {
	if raw == "" {
		now := s.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}

	date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, &ValidationError{message: "date must be formatted YYYY-MM-DD"}
	}
	return date, nil
}
