package tracker_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/strideapp/stride-cli/internal/db"
	"github.com/strideapp/stride-cli/internal/model"
	"github.com/strideapp/stride-cli/internal/tracker"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqldb, err := db.Open(filepath.Join(t.TempDir(), "stride.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })
	require.NoError(t, db.ApplyMigrations(sqldb))
	return sqldb
}

func newMockAt(t *testing.T, instant time.Time) *clock.Mock {
	t.Helper()
	mock := clock.NewMock()
	mock.Set(instant)
	return mock
}

func newActivityClock(t *testing.T, sqldb *sql.DB, c clock.Clock) *tracker.ActivityClock {
	t.Helper()
	activity, err := tracker.NewActivityClock(sqldb, c, zap.NewNop())
	require.NoError(t, err)
	return activity
}

// fixedSource serves a single running total for every day queried.
type fixedSource struct {
	steps int
}

func (f *fixedSource) CurrentSteps(context.Context, string) (int, error) {
	return f.steps, nil
}

func (f *fixedSource) HourlySteps(context.Context, string) ([24]int, error) {
	var out [24]int
	out[12] = f.steps
	return out, nil
}

func (f *fixedSource) DayTotals(_ context.Context, from, to time.Time) ([]model.DaySteps, error) {
	return []model.DaySteps{{Date: from.Format("2006-01-02"), Steps: f.steps}}, nil
}
