// Package health is the port for the platform step-data provider. The core
// never talks to a health store directly; it asks a Source for totals and
// breakdowns and treats missing data as zero.
package health

import (
	"context"
	"database/sql"
	"time"

	"github.com/strideapp/stride-cli/internal/model"
	"github.com/strideapp/stride-cli/internal/service"
)

type Source interface {
	// CurrentSteps is the authoritative running total for a calendar day.
	CurrentSteps(ctx context.Context, day string) (int, error)
	HourlySteps(ctx context.Context, day string) ([24]int, error)
	DayTotals(ctx context.Context, from, to time.Time) ([]model.DaySteps, error)
}

// StoreSource serves health queries from the local step_samples table, which
// the steps commands keep fed.
type StoreSource struct {
	db *sql.DB
}

func NewStoreSource(db *sql.DB) *StoreSource {
	return &StoreSource{db: db}
}

func (s *StoreSource) CurrentSteps(_ context.Context, day string) (int, error) {
	return service.DayTotal(s.db, day)
}

func (s *StoreSource) HourlySteps(_ context.Context, day string) ([24]int, error) {
	return service.HourlySteps(s.db, day)
}

func (s *StoreSource) DayTotals(_ context.Context, from, to time.Time) ([]model.DaySteps, error) {
	return service.RangeDayTotals(s.db, from, to)
}
