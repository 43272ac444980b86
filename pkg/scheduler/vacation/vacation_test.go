package vacation

import (
	"reflect"
	"testing"

	"github.com/nordatc/shiftplan/internal/config"
	"github.com/nordatc/shiftplan/pkg/model"
)

func makeEmployees(n int, skill string) []*model.Employee {
	emps := make([]*model.Employee, n)
	for i := 0; i < n; i++ {
		name := string(rune('A' + i))
		var skills []string
		if skill != "" {
			skills = []string{skill}
		}
		emps[i] = model.NewEmployee(model.EmployeeID(name), name, skills, 37, 48)
	}
	return emps
}

func TestPlanVacations_TrivialCoverage(t *testing.T) {
	employees := makeEmployees(4, "A")
	reqs := []model.CoverageRequirement{
		{DayType: model.Weekday, Shift: "S", Required: 2, Skill: model.SpecificSkill("A")},
	}
	weekend := []model.CoverageRequirement{
		{DayType: model.Weekend, Shift: "S", Required: 2, Skill: model.SpecificSkill("A")},
	}
	start := model.NewDate(2026, 6, 29) // Monday
	cfg := config.DefaultSchedulerConfig()

	result, diag := PlanVacations(employees, reqs, weekend, start, 2, 7, cfg, nil)

	if diag.FallbackUsed {
		t.Fatalf("did not expect fallback: %+v", diag)
	}
	if diag.BlockLength != 7 {
		t.Errorf("BlockLength = %d, want 7", diag.BlockLength)
	}
	for _, e := range employees {
		if len(result[e.ID]) != 7 {
			t.Errorf("employee %s got block of length %d, want 7", e.ID, len(result[e.ID]))
		}
	}
}

func TestPlanVacations_SkillScarcity(t *testing.T) {
	var employees []*model.Employee
	employees = append(employees, model.NewEmployee("C1", "C1", []string{"CRITICAL"}, 37, 48))
	employees = append(employees, model.NewEmployee("C2", "C2", []string{"CRITICAL"}, 37, 48))
	for i := 0; i < 8; i++ {
		name := "P" + string(rune('0'+i))
		employees = append(employees, model.NewEmployee(model.EmployeeID(name), name, nil, 37, 48))
	}

	reqs := []model.CoverageRequirement{
		{DayType: model.Weekday, Shift: "S", Required: 2, Skill: model.SpecificSkill("CRITICAL")},
	}
	weekend := reqs
	start := model.NewDate(2026, 6, 29)
	cfg := config.DefaultSchedulerConfig()

	result, diag := PlanVacations(employees, reqs, weekend, start, 2, 7, cfg, nil)

	if len(diag.Unplaced) != 2 {
		t.Fatalf("expected 2 unplaced critical employees, got %d: %v", len(diag.Unplaced), diag.Unplaced)
	}
	if len(result["C1"]) != 0 || len(result["C2"]) != 0 {
		t.Error("critical employees should remain unplaced")
	}
}

func TestPlanVacations_TwoHalfStructure(t *testing.T) {
	employees := makeEmployees(4, "A")
	reqs := []model.CoverageRequirement{
		{DayType: model.Weekday, Shift: "S", Required: 2, Skill: model.SpecificSkill("A")},
	}
	weekend := []model.CoverageRequirement{
		{DayType: model.Weekend, Shift: "S", Required: 2, Skill: model.SpecificSkill("A")},
	}
	start := model.NewDate(2026, 6, 29)
	cfg := config.DefaultSchedulerConfig()

	result, diag := PlanVacations(employees, reqs, weekend, start, 2, 7, cfg, nil)
	if diag.FallbackUsed {
		t.Fatal("expected the main branch to succeed")
	}

	midpoint := start.Add(7)
	firstHalf, secondHalf := 0, 0
	for _, block := range result {
		if len(block) == 0 {
			continue
		}
		last := block[len(block)-1]
		if last.Before(midpoint) {
			firstHalf++
		} else if !block[0].Before(midpoint) {
			secondHalf++
		} else {
			t.Errorf("block %s..%s straddles the midpoint %s", block[0], last, midpoint)
		}
	}
	if firstHalf != 2 || secondHalf != 2 {
		t.Errorf("group split = %d first-half, %d second-half blocks, want 2/2", firstHalf, secondHalf)
	}
}

func TestPlanVacations_BlocksAreContiguous(t *testing.T) {
	employees := makeEmployees(6, "")
	reqs := []model.CoverageRequirement{
		{DayType: model.Weekday, Shift: "S", Required: 2, Skill: model.AnySkill()},
	}
	start := model.NewDate(2026, 6, 29)
	cfg := config.DefaultSchedulerConfig()

	result, _ := PlanVacations(employees, reqs, reqs, start, 4, 10, cfg, nil)
	for id, block := range result {
		for i := 1; i < len(block); i++ {
			if block[i].Sub(block[i-1]) != 1 {
				t.Errorf("employee %s: block not contiguous at %s", id, block[i])
			}
		}
	}
}

func TestPlanVacations_Deterministic(t *testing.T) {
	employees := makeEmployees(8, "A")
	reqs := []model.CoverageRequirement{
		{DayType: model.Weekday, Shift: "S", Required: 3, Skill: model.SpecificSkill("A")},
	}
	start := model.NewDate(2026, 6, 29)
	cfg := config.DefaultSchedulerConfig()

	first, _ := PlanVacations(employees, reqs, reqs, start, 3, 7, cfg, nil)
	second, _ := PlanVacations(employees, reqs, reqs, start, 3, 7, cfg, nil)

	if !reflect.DeepEqual(first, second) {
		t.Error("two runs with identical inputs and seed diverged")
	}
}

func TestPlanVacations_TargetBeyondCapacityClampsToHalfPeriod(t *testing.T) {
	employees := makeEmployees(4, "")
	reqs := []model.CoverageRequirement{
		{DayType: model.Weekday, Shift: "S", Required: 1, Skill: model.AnySkill()},
	}
	start := model.NewDate(2026, 6, 29)
	cfg := config.DefaultSchedulerConfig()

	result, diag := PlanVacations(employees, reqs, reqs, start, 2, 30, cfg, nil)
	if diag.FallbackUsed {
		t.Fatal("expected the main branch to succeed")
	}
	if diag.BlockLength != 7 {
		t.Errorf("BlockLength = %d, want 7 (half of a 14-day period)", diag.BlockLength)
	}
	for id, block := range result {
		if len(block) != 7 {
			t.Errorf("employee %s got %d days, want 7", id, len(block))
		}
	}
}
