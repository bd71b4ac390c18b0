package service_test

import (
	"testing"
	"time"

	"github.com/strideapp/stride-cli/internal/service"
)

func TestRecordStepsUpsertsHourBucket(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if err := service.RecordSteps(db, service.RecordStepsInput{Day: "2026-03-02", Hour: 9, Steps: 400, Source: "health"}); err != nil {
		t.Fatalf("record steps: %v", err)
	}
	if err := service.RecordSteps(db, service.RecordStepsInput{Day: "2026-03-02", Hour: 9, Steps: 650, Source: "health"}); err != nil {
		t.Fatalf("replay same hour: %v", err)
	}

	hours, err := service.HourlySteps(db, "2026-03-02")
	if err != nil {
		t.Fatalf("hourly steps: %v", err)
	}
	if hours[9] != 650 {
		t.Fatalf("expected replayed hour to win with 650, got %d", hours[9])
	}

	total, err := service.DayTotal(db, "2026-03-02")
	if err != nil {
		t.Fatalf("day total: %v", err)
	}
	if total != 650 {
		t.Fatalf("expected day total 650, got %d", total)
	}
}

func TestRecordStepsValidation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if err := service.RecordSteps(db, service.RecordStepsInput{Day: "2026-03-02", Hour: 24, Steps: 10}); err == nil {
		t.Fatalf("expected hour 24 to be rejected")
	}
	if err := service.RecordSteps(db, service.RecordStepsInput{Day: "2026-03-02", Hour: 5, Steps: -1}); err == nil {
		t.Fatalf("expected negative steps to be rejected")
	}
	if err := service.RecordSteps(db, service.RecordStepsInput{Day: "not-a-date", Hour: 5, Steps: 1}); err == nil {
		t.Fatalf("expected bad date to be rejected")
	}
}

func TestDayTotalMissingDataIsZero(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	total, err := service.DayTotal(db, "2026-07-04")
	if err != nil {
		t.Fatalf("day total for empty day: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected zero for a day without samples, got %d", total)
	}
}

func TestRangeDayTotalsFillsGaps(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if err := service.RecordSteps(db, service.RecordStepsInput{Day: "2026-03-01", Hour: 8, Steps: 1000}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := service.RecordSteps(db, service.RecordStepsInput{Day: "2026-03-03", Hour: 10, Steps: 2000}); err != nil {
		t.Fatalf("record: %v", err)
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)
	days, err := service.RangeDayTotals(db, from, to)
	if err != nil {
		t.Fatalf("range day totals: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if days[0].Steps != 1000 || days[1].Steps != 0 || days[2].Steps != 2000 {
		t.Fatalf("unexpected totals: %+v", days)
	}
}

func TestWeekdayAverages(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	// 2026-03-02 and 2026-03-09 are Mondays.
	for _, sample := range []struct {
		day   string
		steps int
	}{
		{"2026-03-02", 6000},
		{"2026-03-09", 8000},
		{"2026-03-03", 5000},
	} {
		if err := service.RecordSteps(db, service.RecordStepsInput{Day: sample.day, Hour: 12, Steps: sample.steps}); err != nil {
			t.Fatalf("record %s: %v", sample.day, err)
		}
	}

	averages, err := service.WeekdayAverages(db)
	if err != nil {
		t.Fatalf("weekday averages: %v", err)
	}
	if len(averages) != 7 {
		t.Fatalf("expected 7 weekday rows, got %d", len(averages))
	}

	monday := averages[time.Monday]
	if monday.ObservedDays != 2 || monday.AverageSteps != 7000 {
		t.Fatalf("expected monday average 7000 over 2 days, got %+v", monday)
	}
	sunday := averages[time.Sunday]
	if sunday.ObservedDays != 0 || sunday.AverageSteps != 0 {
		t.Fatalf("expected empty sunday, got %+v", sunday)
	}
}
