package reports

import (
	"fmt"
	"time"

	"github.com/GabeCabrera/crewkit-sub001/internal/repository"
	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type ReportRepository interface {
	PersistReport(report *models.EndOfDayReport) error
	GetReport(id int) (*models.EndOfDayReport, error)
	GetReports(filter ListFilter, page, limit int) ([]models.EndOfDayReport, int, error)
	GetTeamUsageLogs(teamID int, date time.Time) ([]models.AssemblyUsageLog, error)
}

type reportRepository struct {
	repo *repository.Repository
}

func NewRepository(r *repository.Repository) ReportRepository {
	return &reportRepository{repo: r}
}

func (r *reportRepository) PersistReport(report *models.EndOfDayReport) error {
	workers := make(pq.Int64Array, 0, len(report.WorkersPresent))
	for _, id := range report.WorkersPresent {
		workers = append(workers, int64(id))
	}

	query := r.repo.GoquDBWrapper.Insert("eod_reports").
		Rows(goqu.Record{
			"date":            report.Date,
			"team_id":         report.TeamID,
			"workers_present": workers,
			"usage_count":     report.UsageCount,
			"total_cost":      report.TotalCost,
			"notes":           report.Notes,
			"created_by_id":   report.CreatedByID,
		}).
		Returning("id", "created_at")

	if _, err := query.Executor().ScanStruct(report); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return custom_error.WrapDBError("A report for this team and date already exists", string(pqErr.Code))
			case "23503":
				return custom_error.WrapDBError("Team does not exist", string(pqErr.Code))
			}
		}
		return fmt.Errorf("failed to insert end-of-day report: %w", err)
	}

	return nil
}

func (r *reportRepository) getReportQuery() *goqu.SelectDataset {
	return r.repo.GoquDBWrapper.
		Select(
			goqu.I("r.id").As("id"),
			goqu.I("r.date").As("date"),
			goqu.I("r.team_id").As("team_id"),
			goqu.COALESCE(goqu.I("t.name"), "").As("team_name"),
			goqu.I("r.workers_present").As("workers_present"),
			goqu.I("r.usage_count").As("usage_count"),
			goqu.I("r.total_cost").As("total_cost"),
			goqu.I("r.notes").As("notes"),
			goqu.I("r.created_by_id").As("created_by_id"),
			goqu.I("r.created_at").As("created_at"),
		).
		From(goqu.T("eod_reports").As("r")).
		LeftJoin(
			goqu.T("teams").As("t"),
			goqu.On(goqu.Ex{"r.team_id": goqu.I("t.id")}),
		)
}

func (r *reportRepository) GetReport(id int) (*models.EndOfDayReport, error) {
	var record models.FlatEODReportRecord

	found, err := r.getReportQuery().
		Where(goqu.Ex{"r.id": id}).
		Executor().
		ScanStruct(&record)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, &custom_error.NotFoundError{Resource: "end-of-day report", ID: id}
	}

	report := record.TransformToReport()
	return &report, nil
}

type ListFilter struct {
	TeamID *int
	From   string // YYYY-MM-DD
	To     string
}

func (r *reportRepository) GetReports(filter ListFilter, page, limit int) ([]models.EndOfDayReport, int, error) {
	conditions := make([]goqu.Expression, 0, 3)
	if filter.TeamID != nil {
		conditions = append(conditions, goqu.I("r.team_id").Eq(*filter.TeamID))
	}
	if filter.From != "" {
		conditions = append(conditions, goqu.I("r.date").Gte(filter.From))
	}
	if filter.To != "" {
		conditions = append(conditions, goqu.I("r.date").Lte(filter.To))
	}

	countQuery := r.repo.GoquDBWrapper.From(goqu.T("eod_reports").As("r")).Select(goqu.COUNT("*"))
	query := r.getReportQuery()
	if len(conditions) > 0 {
		countQuery = countQuery.Where(conditions...)
		query = query.Where(conditions...)
	}

	var totalCount int
	if _, err := countQuery.Executor().ScanVal(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count end-of-day reports: %w", err)
	}

	query = query.
		Order(goqu.I("r.date").Desc(), goqu.I("r.team_id").Asc()).
		Limit(uint(limit)).
		Offset(uint((page - 1) * limit))

	var records []models.FlatEODReportRecord
	if err := query.Executor().ScanStructs(&records); err != nil {
		return nil, 0, fmt.Errorf("error executing SQL statement: %w", err)
	}

	reports := make([]models.EndOfDayReport, 0, len(records))
	for i := range records {
		reports = append(reports, records[i].TransformToReport())
	}

	return reports, totalCount, nil
}

// GetTeamUsageLogs returns the team's ledger entries for a single day,
// the raw material for report totals.
func (r *reportRepository) GetTeamUsageLogs(teamID int, date time.Time) ([]models.AssemblyUsageLog, error) {
	query := r.repo.GoquDBWrapper.
		Select(
			goqu.I("ul.id").As("id"),
			goqu.I("ul.assembly_id").As("assembly_id"),
			goqu.I("ul.user_id").As("user_id"),
			goqu.I("ul.quantity").As("quantity"),
			goqu.I("ul.modifiers").As("modifiers"),
			goqu.I("ul.date").As("date"),
			goqu.I("ul.created_at").As("created_at"),
		).
		From(goqu.T("assembly_usage_logs").As("ul")).
		Join(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"ul.user_id": goqu.I("u.id")}),
		).
		Where(goqu.Ex{
			"u.team_id": teamID,
			"ul.date":   date,
		})

	var logs []models.AssemblyUsageLog
	if err := query.Executor().ScanStructs(&logs); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	for i := range logs {
		logs[i].LoadFromDB()
	}

	return logs, nil
}
