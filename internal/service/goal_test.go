package service_test

import (
	"testing"

	"github.com/strideapp/stride-cli/internal/service"
)

func TestGoalVersioningByEffectiveDate(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if err := service.SetGoal(db, service.SetGoalInput{Steps: 8000, EffectiveDate: "2026-01-01"}); err != nil {
		t.Fatalf("set first goal: %v", err)
	}
	if err := service.SetGoal(db, service.SetGoalInput{Steps: 12000, EffectiveDate: "2026-02-01"}); err != nil {
		t.Fatalf("set second goal: %v", err)
	}

	january, err := service.CurrentGoal(db, "2026-01-15")
	if err != nil {
		t.Fatalf("current january goal: %v", err)
	}
	if january == nil || january.Steps != 8000 {
		t.Fatalf("expected january goal 8000 steps, got %+v", january)
	}

	february, err := service.CurrentGoal(db, "2026-02-10")
	if err != nil {
		t.Fatalf("current february goal: %v", err)
	}
	if february == nil || february.Steps != 12000 {
		t.Fatalf("expected february goal 12000 steps, got %+v", february)
	}

	before, err := service.CurrentGoal(db, "2025-12-31")
	if err != nil {
		t.Fatalf("goal before any entry: %v", err)
	}
	if before != nil {
		t.Fatalf("expected no goal before first effective date, got %+v", before)
	}
}

func TestSetGoalOverwritesSameEffectiveDate(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if err := service.SetGoal(db, service.SetGoalInput{Steps: 9000, EffectiveDate: "2026-03-01"}); err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if err := service.SetGoal(db, service.SetGoalInput{Steps: 9500, EffectiveDate: "2026-03-01"}); err != nil {
		t.Fatalf("overwrite goal: %v", err)
	}

	goal, err := service.CurrentGoal(db, "2026-03-01")
	if err != nil {
		t.Fatalf("current goal: %v", err)
	}
	if goal == nil || goal.Steps != 9500 {
		t.Fatalf("expected overwritten goal 9500, got %+v", goal)
	}

	history, err := service.GoalHistory(db)
	if err != nil {
		t.Fatalf("goal history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected single history row for same effective date, got %d", len(history))
	}
}

func TestSetGoalRejectsNonPositiveSteps(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if err := service.SetGoal(db, service.SetGoalInput{Steps: 0}); err == nil {
		t.Fatalf("expected zero-step goal to be rejected")
	}
	if err := service.SetGoal(db, service.SetGoalInput{Steps: -100}); err == nil {
		t.Fatalf("expected negative goal to be rejected")
	}
}

func TestTargetStepsForDateDefault(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	target, err := service.TargetStepsForDate(db, "2026-04-01")
	if err != nil {
		t.Fatalf("target steps: %v", err)
	}
	if target != service.DefaultGoalSteps {
		t.Fatalf("expected default goal %d, got %d", service.DefaultGoalSteps, target)
	}
}
