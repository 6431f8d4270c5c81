package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PeriodDay  = "day"
	PeriodWeek = "week"
	PeriodAll  = "all"

	topListSize = 10
)

type EquipmentMetric struct {
	EquipmentID   int             `json:"equipment_id"`
	EquipmentName string          `json:"equipment_name"`
	SKU           string          `json:"sku"`
	UnitsUsed     int             `json:"units_used"`
	TotalCost     decimal.Decimal `json:"total_cost"`
}

type AssemblyMetric struct {
	AssemblyID   int    `json:"assembly_id"`
	AssemblyName string `json:"assembly_name"`
	UseCount     int    `json:"use_count"`
	TotalUnits   int    `json:"total_units"`
}

type MetricsSummary struct {
	Period             string            `json:"period"`
	From               *time.Time        `json:"from,omitempty"`
	TopEquipmentByUse  []EquipmentMetric `json:"top_equipment_by_use"`
	TopEquipmentByCost []EquipmentMetric `json:"top_equipment_by_cost"`
	TopAssemblies      []AssemblyMetric  `json:"top_assemblies"`
	TotalCost          decimal.Decimal   `json:"total_cost"`
	AverageCostPerDay  decimal.Decimal   `json:"average_cost_per_day"`
}

type MetricsService struct {
	repo MetricsRepository
	now  func() time.Time
}

func NewMetricsService(repo MetricsRepository) *MetricsService {
	return &MetricsService{repo: repo, now: time.Now}
}

// GetSummary aggregates the ledger for the requested window. "day" covers
// the current calendar day, "week" the last 7 days, "all" everything.
func (s *MetricsService) GetSummary(period string) (*MetricsSummary, error) {
	from, days, err := s.resolveWindow(period)
	if err != nil {
		return nil, err
	}

	equipmentRows, err := s.repo.GetEquipmentUsage(from)
	if err != nil {
		return nil, err
	}
	assemblyRows, err := s.repo.GetAssemblyUsage(from)
	if err != nil {
		return nil, err
	}

	equipment := make([]EquipmentMetric, 0, len(equipmentRows))
	totalCost := decimal.Zero
	for _, row := range equipmentRows {
		cost := row.PricePerUnit.Mul(decimal.NewFromInt(int64(row.UnitsUsed)))
		totalCost = totalCost.Add(cost)
		equipment = append(equipment, EquipmentMetric{
			EquipmentID:   row.EquipmentID,
			EquipmentName: row.EquipmentName,
			SKU:           row.SKU,
			UnitsUsed:     row.UnitsUsed,
			TotalCost:     cost,
		})
	}

	assemblies := make([]AssemblyMetric, 0, len(assemblyRows))
	for _, row := range assemblyRows {
		assemblies = append(assemblies, AssemblyMetric{
			AssemblyID:   row.AssemblyID,
			AssemblyName: row.AssemblyName,
			UseCount:     row.UseCount,
			TotalUnits:   row.TotalUnits,
		})
	}

	byUse := make([]EquipmentMetric, len(equipment))
	copy(byUse, equipment)
	sort.SliceStable(byUse, func(i, j int) bool {
		return byUse[i].UnitsUsed > byUse[j].UnitsUsed
	})

	byCost := make([]EquipmentMetric, len(equipment))
	copy(byCost, equipment)
	sort.SliceStable(byCost, func(i, j int) bool {
		return byCost[i].TotalCost.GreaterThan(byCost[j].TotalCost)
	})

	sort.SliceStable(assemblies, func(i, j int) bool {
		return assemblies[i].UseCount > assemblies[j].UseCount
	})

	summary := &MetricsSummary{
		Period:             period,
		From:               from,
		TopEquipmentByUse:  truncate(byUse),
		TopEquipmentByCost: truncate(byCost),
		TopAssemblies:      truncateAssemblies(assemblies),
		TotalCost:          totalCost,
		AverageCostPerDay:  decimal.Zero,
	}
	if days > 0 {
		summary.AverageCostPerDay = totalCost.Div(decimal.NewFromInt(int64(days))).Round(2)
	}

	return summary, nil
}

func (s *MetricsService) resolveWindow(period string) (*time.Time, int, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	switch period {
	case "", PeriodAll:
		return nil, 0, nil
	case PeriodDay:
		return &today, 1, nil
	case PeriodWeek:
		from := today.AddDate(0, 0, -6)
		return &from, 7, nil
	default:
		return nil, 0, fmt.Errorf("unknown period %q, want day, week or all", period)
	}
}

func truncate(metrics []EquipmentMetric) []EquipmentMetric {
	if len(metrics) > topListSize {
		return metrics[:topListSize]
	}
	return metrics
}

func truncateAssemblies(metrics []AssemblyMetric) []AssemblyMetric {
	if len(metrics) > topListSize {
		return metrics[:topListSize]
	}
	return metrics
}
