package usage

import (
	"encoding/json"
	"fmt"

	"github.com/GabeCabrera/crewkit-sub001/internal/repository"
	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type UsageRepository interface {
	InsertUsageLog(tx *goqu.TxDatabase, log models.AssemblyUsageLog) (int, error)
	GetUsageLog(id int) (*models.AssemblyUsageLog, error)
	GetUsageLogs(filter ListFilter, page, limit int) ([]models.AssemblyUsageLog, int, error)
	DeleteUsageLog(tx *goqu.TxDatabase, id int) error
}

type usageRepository struct {
	repo *repository.Repository
}

func NewRepository(r *repository.Repository) UsageRepository {
	return &usageRepository{repo: r}
}

func (r *usageRepository) InsertUsageLog(tx *goqu.TxDatabase, log models.AssemblyUsageLog) (int, error) {
	modifiers := log.Modifiers
	if modifiers == nil {
		modifiers = []models.UsageModifier{}
	}
	modifiersJSON, err := json.Marshal(modifiers)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal usage modifiers: %w", err)
	}

	query := tx.Insert("assembly_usage_logs").
		Rows(goqu.Record{
			"assembly_id": log.AssemblyID,
			"user_id":     log.UserID,
			"quantity":    log.Quantity,
			"modifiers":   modifiersJSON,
			"date":        log.Date,
		}).
		Returning("id")

	var logID int
	if _, err := query.Executor().ScanVal(&logID); err != nil {
		return 0, fmt.Errorf("failed to insert usage log record: %w", err)
	}

	return logID, nil
}

func (r *usageRepository) getUsageLogQuery() *goqu.SelectDataset {
	return r.repo.GoquDBWrapper.
		Select(
			goqu.I("ul.id").As("id"),
			goqu.I("ul.assembly_id").As("assembly_id"),
			goqu.I("ul.user_id").As("user_id"),
			goqu.I("ul.quantity").As("quantity"),
			goqu.I("ul.modifiers").As("modifiers"),
			goqu.I("ul.date").As("date"),
			goqu.I("ul.created_at").As("created_at"),
			goqu.COALESCE(goqu.I("a.name"), "").As("assembly_name"),
			goqu.COALESCE(goqu.I("u.username"), "").As("username"),
		).
		From(goqu.T("assembly_usage_logs").As("ul")).
		LeftJoin(
			goqu.T("assemblies").As("a"),
			goqu.On(goqu.Ex{"ul.assembly_id": goqu.I("a.id")}),
		).
		LeftJoin(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"ul.user_id": goqu.I("u.id")}),
		)
}

func (r *usageRepository) GetUsageLog(id int) (*models.AssemblyUsageLog, error) {
	var log models.AssemblyUsageLog

	found, err := r.getUsageLogQuery().
		Where(goqu.Ex{"ul.id": id}).
		Executor().
		ScanStruct(&log)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, &custom_error.NotFoundError{Resource: "usage log", ID: id}
	}

	log.LoadFromDB()
	return &log, nil
}

type ListFilter struct {
	UserID     *int
	AssemblyID *int
	From       string // YYYY-MM-DD
	To         string
}

func (r *usageRepository) GetUsageLogs(filter ListFilter, page, limit int) ([]models.AssemblyUsageLog, int, error) {
	conditions := make([]goqu.Expression, 0, 4)
	if filter.UserID != nil {
		conditions = append(conditions, goqu.I("ul.user_id").Eq(*filter.UserID))
	}
	if filter.AssemblyID != nil {
		conditions = append(conditions, goqu.I("ul.assembly_id").Eq(*filter.AssemblyID))
	}
	if filter.From != "" {
		conditions = append(conditions, goqu.I("ul.date").Gte(filter.From))
	}
	if filter.To != "" {
		conditions = append(conditions, goqu.I("ul.date").Lte(filter.To))
	}

	countQuery := r.repo.GoquDBWrapper.From(goqu.T("assembly_usage_logs").As("ul")).Select(goqu.COUNT("*"))
	query := r.getUsageLogQuery()
	if len(conditions) > 0 {
		countQuery = countQuery.Where(conditions...)
		query = query.Where(conditions...)
	}

	var totalCount int
	if _, err := countQuery.Executor().ScanVal(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count usage logs: %w", err)
	}

	query = query.
		Order(goqu.I("ul.created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint((page - 1) * limit))

	var logs []models.AssemblyUsageLog
	if err := query.Executor().ScanStructs(&logs); err != nil {
		return nil, 0, fmt.Errorf("error executing SQL statement: %w", err)
	}

	for i := range logs {
		logs[i].LoadFromDB()
	}

	if logs == nil {
		logs = []models.AssemblyUsageLog{}
	}

	return logs, totalCount, nil
}

func (r *usageRepository) DeleteUsageLog(tx *goqu.TxDatabase, id int) error {
	result, err := tx.Delete("assembly_usage_logs").
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to delete usage log %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &custom_error.NotFoundError{Resource: "usage log", ID: id}
	}

	return nil
}
