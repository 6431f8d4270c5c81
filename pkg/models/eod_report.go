package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// EndOfDayReport is the once-per-team-per-day summary; uniqueness on
// (date, team_id) is enforced by the database.
type EndOfDayReport struct {
	ID             int             `json:"id" db:"id"`
	Date           time.Time       `json:"date" db:"date"`
	TeamID         int             `json:"team_id" db:"team_id"`
	WorkersPresent []int           `json:"workers_present" db:"-"`
	UsageCount     int             `json:"usage_count" db:"usage_count"`
	TotalCost      decimal.Decimal `json:"total_cost" db:"total_cost"`
	Notes          string          `json:"notes" db:"notes"`
	CreatedByID    int             `json:"created_by_id" db:"created_by_id"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`

	// Joined fields (not always populated).
	TeamName string `json:"team_name,omitempty" db:"team_name"`
}

type FlatEODReportRecord struct {
	ID             int             `db:"id"`
	Date           time.Time       `db:"date"`
	TeamID         int             `db:"team_id"`
	TeamName       string          `db:"team_name"`
	WorkersPresent pq.Int64Array   `db:"workers_present"`
	UsageCount     int             `db:"usage_count"`
	TotalCost      decimal.Decimal `db:"total_cost"`
	Notes          string          `db:"notes"`
	CreatedByID    int             `db:"created_by_id"`
	CreatedAt      time.Time       `db:"created_at"`
}

func (fr *FlatEODReportRecord) TransformToReport() EndOfDayReport {
	workers := make([]int, 0, len(fr.WorkersPresent))
	for _, id := range fr.WorkersPresent {
		workers = append(workers, int(id))
	}

	return EndOfDayReport{
		ID:             fr.ID,
		Date:           fr.Date,
		TeamID:         fr.TeamID,
		TeamName:       fr.TeamName,
		WorkersPresent: workers,
		UsageCount:     fr.UsageCount,
		TotalCost:      fr.TotalCost,
		Notes:          fr.Notes,
		CreatedByID:    fr.CreatedByID,
		CreatedAt:      fr.CreatedAt,
	}
}
