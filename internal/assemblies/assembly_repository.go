package assemblies

import (
	"fmt"

	"github.com/GabeCabrera/crewkit-sub001/internal/repository"
	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/metadata"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type AssemblyRepository interface {
	PersistAssembly(req CreateAssemblyRequest, createdByID int) (*models.Assembly, error)
	GetAssembly(id int) (*models.Assembly, error)
	GetAssemblies(filter ListFilter, page, limit int) ([]models.Assembly, int, error)
	UpdateAssembly(id int, req UpdateAssemblyRequest) error
	UpdateStatus(id int, status metadata.Status, note string) error
	DeleteAssembly(id int) error
}

type assemblyRepository struct {
	repo *repository.Repository
}

func NewRepository(r *repository.Repository) AssemblyRepository {
	return &assemblyRepository{repo: r}
}

func (r *assemblyRepository) PersistAssembly(req CreateAssemblyRequest, createdByID int) (*models.Assembly, error) {
	var assemblyID int

	err := repository.WithTransaction(r.repo.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		query := tx.Insert("assemblies").
			Rows(goqu.Record{
				"name":          req.Name,
				"status":        metadata.StatusDraft,
				"categories":    pq.StringArray(req.Categories),
				"created_by_id": createdByID,
			}).
			Returning("id")

		if _, err := query.Executor().ScanVal(&assemblyID); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return custom_error.WrapDBError("Assembly name already registered", string(pqErr.Code))
			}
			return fmt.Errorf("failed to insert assembly record: %w", err)
		}

		return insertAssemblyItems(tx, assemblyID, req.Items)
	})
	if err != nil {
		return nil, err
	}

	return r.GetAssembly(assemblyID)
}

func insertAssemblyItems(tx *goqu.TxDatabase, assemblyID int, items []AssemblyItemRequest) error {
	var records []goqu.Record
	for _, item := range items {
		records = append(records, goqu.Record{
			"assembly_id":  assemblyID,
			"equipment_id": item.EquipmentID,
			"quantity":     item.Quantity,
		})
	}

	if _, err := tx.Insert("assembly_items").Rows(records).Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert assembly items: %w", err)
	}

	return nil
}

func (r *assemblyRepository) getAssemblyQuery() *goqu.SelectDataset {
	return r.repo.GoquDBWrapper.
		Select(
			goqu.I("a.id").As("assembly_id"),
			goqu.I("a.name").As("assembly_name"),
			goqu.I("a.status").As("status"),
			goqu.I("a.status_note").As("status_note"),
			goqu.I("a.categories").As("categories"),
			goqu.I("a.created_at").As("created_at"),
			goqu.I("u.id").As("created_by_id"),
			goqu.I("u.username").As("created_by_username"),
			goqu.I("u.fullname").As("created_by_fullname"),
			goqu.I("u.role").As("created_by_role"),
			goqu.I("u.team_id").As("created_by_team_id"),
		).
		From(goqu.T("assemblies").As("a")).
		LeftJoin(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"a.created_by_id": goqu.I("u.id")}),
		)
}

func (r *assemblyRepository) GetAssembly(id int) (*models.Assembly, error) {
	var flat models.FlatAssemblyRecord

	found, err := r.getAssemblyQuery().
		Where(goqu.Ex{"a.id": id}).
		Executor().
		ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, &custom_error.NotFoundError{Resource: "assembly", ID: id}
	}

	assembly := flat.TransformToAssembly()

	items, err := r.getAssemblyItems(id)
	if err != nil {
		return nil, err
	}
	assembly.Items = items

	return &assembly, nil
}

func (r *assemblyRepository) getAssemblyItems(assemblyID int) ([]models.AssemblyItem, error) {
	var items []models.AssemblyItem

	query := r.repo.GoquDBWrapper.
		Select(
			goqu.I("ai.id").As("id"),
			goqu.I("ai.assembly_id").As("assembly_id"),
			goqu.I("ai.equipment_id").As("equipment_id"),
			goqu.I("ai.quantity").As("quantity"),
			goqu.I("e.name").As("equipment_name"),
			goqu.I("e.sku").As("equipment_sku"),
		).
		From(goqu.T("assembly_items").As("ai")).
		LeftJoin(
			goqu.T("equipment").As("e"),
			goqu.On(goqu.Ex{"ai.equipment_id": goqu.I("e.id")}),
		).
		Where(goqu.Ex{"ai.assembly_id": assemblyID}).
		Order(goqu.I("ai.id").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	if items == nil {
		items = []models.AssemblyItem{}
	}

	return items, nil
}

type ListFilter struct {
	Status   string
	Category string
	OwnerID  *int
}

func (r *assemblyRepository) GetAssemblies(filter ListFilter, page, limit int) ([]models.Assembly, int, error) {
	base := r.getAssemblyQuery()
	countQuery := r.repo.GoquDBWrapper.From(goqu.T("assemblies").As("a")).Select(goqu.COUNT("*"))

	conditions := make([]goqu.Expression, 0, 3)
	if filter.Status != "" {
		conditions = append(conditions, goqu.I("a.status").Eq(filter.Status))
	}
	if filter.Category != "" {
		conditions = append(conditions, goqu.L("? = ANY(a.categories)", filter.Category))
	}
	if filter.OwnerID != nil {
		conditions = append(conditions, goqu.I("a.created_by_id").Eq(*filter.OwnerID))
	}
	if len(conditions) > 0 {
		base = base.Where(conditions...)
		countQuery = countQuery.Where(conditions...)
	}

	var totalCount int
	if _, err := countQuery.Executor().ScanVal(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count assemblies: %w", err)
	}

	var flatRecords []models.FlatAssemblyRecord
	query := base.
		Order(goqu.I("a.created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint((page - 1) * limit))

	if err := query.Executor().ScanStructs(&flatRecords); err != nil {
		return nil, 0, fmt.Errorf("error executing SQL statement: %w", err)
	}

	assemblies := make([]models.Assembly, 0, len(flatRecords))
	for _, flat := range flatRecords {
		assemblies = append(assemblies, flat.TransformToAssembly())
	}

	return assemblies, totalCount, nil
}

func (r *assemblyRepository) UpdateAssembly(id int, req UpdateAssemblyRequest) error {
	return repository.WithTransaction(r.repo.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		updates := goqu.Record{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Categories != nil {
			updates["categories"] = pq.StringArray(req.Categories)
		}

		if len(updates) > 0 {
			result, err := tx.Update("assemblies").
				Set(updates).
				Where(goqu.Ex{"id": id}).
				Executor().
				Exec()
			if err != nil {
				return fmt.Errorf("failed to update assembly %d: %w", id, err)
			}
			rowsAffected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to check rows affected: %w", err)
			}
			if rowsAffected == 0 {
				return &custom_error.NotFoundError{Resource: "assembly", ID: id}
			}
		}

		if req.Items != nil {
			if _, err := tx.Delete("assembly_items").Where(goqu.Ex{"assembly_id": id}).Executor().Exec(); err != nil {
				return fmt.Errorf("failed to clear assembly items: %w", err)
			}
			return insertAssemblyItems(tx, id, req.Items)
		}

		return nil
	})
}

// UpdateStatus moves the workflow state. The note carries the rejection
// reason and is cleared on every other transition.
func (r *assemblyRepository) UpdateStatus(id int, status metadata.Status, note string) error {
	result, err := r.repo.GoquDBWrapper.
		Update("assemblies").
		Set(goqu.Record{"status": status, "status_note": note}).
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to update assembly %d status: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &custom_error.NotFoundError{Resource: "assembly", ID: id}
	}

	return nil
}

func (r *assemblyRepository) DeleteAssembly(id int) error {
	return repository.WithTransaction(r.repo.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		if _, err := tx.Delete("assembly_items").Where(goqu.Ex{"assembly_id": id}).Executor().Exec(); err != nil {
			return fmt.Errorf("failed to delete assembly items: %w", err)
		}

		result, err := tx.Delete("assemblies").Where(goqu.Ex{"id": id}).Executor().Exec()
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return custom_error.WrapDBError("Assembly has usage logs and cannot be deleted", string(pqErr.Code))
			}
			return fmt.Errorf("failed to delete assembly %d: %w", id, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return &custom_error.NotFoundError{Resource: "assembly", ID: id}
		}

		return nil
	})
}
