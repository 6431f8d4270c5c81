package reports

import (
	"time"

	"github.com/GabeCabrera/crewkit-sub001/pkg/models"

	"github.com/shopspring/decimal"
)

type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

type AssemblySource interface {
	GetAssembly(id int) (*models.Assembly, error)
}

type PriceSource interface {
	GetUnitPrices(ids []int) (map[int]decimal.Decimal, error)
}

type CreateReportRequest struct {
	Date           string `json:"date" binding:"required"`
	TeamID         int    `json:"team_id" binding:"required"`
	WorkersPresent []int  `json:"workers_present"`
	Notes          string `json:"notes"`
}

type ReportService struct {
	reports    ReportRepository
	assemblies AssemblySource
	prices     PriceSource
}

func NewReportService(reports ReportRepository, assemblies AssemblySource, prices PriceSource) *ReportService {
	return &ReportService{
		reports:    reports,
		assemblies: assemblies,
		prices:     prices,
	}
}

// CreateReport computes the day's totals from the team's usage ledger and
// persists the report. Totals are never taken from the client.
func (s *ReportService) CreateReport(req CreateReportRequest, actorID int) (*models.EndOfDayReport, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, &ValidationError{message: "date must be formatted YYYY-MM-DD"}
	}

	logs, err := s.reports.GetTeamUsageLogs(req.TeamID, date)
	if err != nil {
		return nil, err
	}

	totalCost, err := s.computeTotalCost(logs)
	if err != nil {
		return nil, err
	}

	report := &models.EndOfDayReport{
		Date:           date,
		TeamID:         req.TeamID,
		WorkersPresent: req.WorkersPresent,
		UsageCount:     len(logs),
		TotalCost:      totalCost,
		Notes:          req.Notes,
		CreatedByID:    actorID,
	}
	if report.WorkersPresent == nil {
		report.WorkersPresent = []int{}
	}

	if err := s.reports.PersistReport(report); err != nil {
		return nil, err
	}

	return report, nil
}

func (s *ReportService) GetReport(id int) (*models.EndOfDayReport, error) {
	return s.reports.GetReport(id)
}

func (s *ReportService) GetReports(filter ListFilter, page, limit int) ([]models.EndOfDayReport, int, error) {
	return s.reports.GetReports(filter, page, limit)
}

func (s *ReportService) computeTotalCost(logs []models.AssemblyUsageLog) (decimal.Decimal, error) {
	assemblyCache := make(map[int]*models.Assembly)
	equipmentIDs := make(map[int]struct{})

	for _, log := range logs {
		assembly, ok := assemblyCache[log.AssemblyID]
		if !ok {
			var err error
			assembly, err = s.assemblies.GetAssembly(log.AssemblyID)
			if err != nil {
				return decimal.Zero, err
			}
			assemblyCache[log.AssemblyID] = assembly
		}
		for _, item := range assembly.Items {
			equipmentIDs[item.EquipmentID] = struct{}{}
		}
		for _, modifier := range log.Modifiers {
			equipmentIDs[modifier.EquipmentID] = struct{}{}
		}
	}

	ids := make([]int, 0, len(equipmentIDs))
	for id := range equipmentIDs {
		ids = append(ids, id)
	}

	prices, err := s.prices.GetUnitPrices(ids)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, log := range logs {
		assembly := assemblyCache[log.AssemblyID]
		for _, item := range assembly.Items {
			lineQty := decimal.NewFromInt(int64(item.Quantity * log.Quantity))
			total = total.Add(prices[item.EquipmentID].Mul(lineQty))
		}
		for _, modifier := range log.Modifiers {
			lineQty := decimal.NewFromInt(int64(modifier.Quantity))
			total = total.Add(prices[modifier.EquipmentID].Mul(lineQty))
		}
	}

	return total, nil
}
