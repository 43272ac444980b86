package search

import (
	"testing"

	"github.com/nordatc/shiftplan/internal/config"
	apperrors "github.com/nordatc/shiftplan/pkg/errors"
	"github.com/nordatc/shiftplan/pkg/model"
)

func TestFindOptimalVacationLength_BestWithinRange(t *testing.T) {
	employees := []*model.Employee{
		model.NewEmployee("A", "A", []string{"X"}, 37, 48),
		model.NewEmployee("B", "B", []string{"X"}, 37, 48),
	}
	reqs := []model.CoverageRequirement{
		{DayType: model.Weekday, Shift: "S", Required: 1, Skill: model.SpecificSkill("X")},
	}
	start := model.NewDate(2026, 6, 29)
	cfg := config.DefaultSchedulerConfig()

	result := FindOptimalVacationLength(employees, reqs, reqs, start, 5, 7, 14, cfg, nil)

	if result.Best.TargetDays < 7 || result.Best.TargetDays > 14 {
		t.Errorf("Best.TargetDays = %d, out of [7,14]", result.Best.TargetDays)
	}
	if len(result.Attempts) == 0 {
		t.Error("expected at least one attempt to be recorded")
	}
	if result.Err != nil {
		t.Errorf("expected no error when a length qualifies, got %v", result.Err)
	}
}

func TestFindOptimalVacationLength_NoQualifyingLength(t *testing.T) {
	// Hard caps of 20h/week cannot absorb the estimated load at any
	// candidate length, so every attempt carries violations.
	employees := []*model.Employee{
		model.NewEmployee("A", "A", []string{"X"}, 20, 20),
		model.NewEmployee("B", "B", []string{"X"}, 20, 20),
	}
	reqs := []model.CoverageRequirement{
		{DayType: model.Weekday, Shift: "S", Required: 1, Skill: model.SpecificSkill("X")},
	}
	start := model.NewDate(2026, 6, 29)
	cfg := config.DefaultSchedulerConfig()

	result := FindOptimalVacationLength(employees, reqs, reqs, start, 2, 5, 7, cfg, nil)

	if result.Err == nil {
		t.Fatal("expected a no-feasible-solution error when every attempt violates the hard cap")
	}
	if !apperrors.Is(result.Err, apperrors.CodeNoFeasibleSolution) {
		t.Errorf("error code = %v, want %v", result.Err.Code, apperrors.CodeNoFeasibleSolution)
	}
	if result.Best.MaxHoursViolations == 0 {
		t.Error("Best should carry the least-bad attempt, which still has violations")
	}
}
