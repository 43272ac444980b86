package csvio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/nordatc/shiftplan/pkg/errors"
	"github.com/nordatc/shiftplan/pkg/model"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEmployees(t *testing.T) {
	path := writeTemp(t, "employees.csv", "id,name,weekly_target_hours,max_hours_per_week,skills\n"+
		"1,\"Alice Smith\",37,48,\"CRITICAL;RADAR\"\n"+
		"2,Bob,37,48,\n")

	employees, err := LoadEmployees(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(employees) != 2 {
		t.Fatalf("got %d employees, want 2", len(employees))
	}
	if employees[0].Name != "Alice Smith" {
		t.Errorf("Name = %q, want Alice Smith", employees[0].Name)
	}
	if !employees[0].HasSkill("CRITICAL") || !employees[0].HasSkill("RADAR") {
		t.Error("expected Alice to carry both skills")
	}
	if len(employees[1].Skills) != 0 {
		t.Errorf("expected Bob to have no skills, got %v", employees[1].Skills)
	}
}

func TestLoadShifts(t *testing.T) {
	path := writeTemp(t, "shifts.csv", "id,name,start,end,cat\n1,FD,07:00,15:15,Day\n")
	shifts, err := LoadShifts(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(shifts) != 1 || shifts[0].Category != model.Day {
		t.Fatalf("got %+v", shifts)
	}
}

func TestLoadCoverage_SentinelAnySkill(t *testing.T) {
	path := writeTemp(t, "coverage.csv", "type,shift_id,required,required_skill\nweekday,FD,2,None\nweekend,FD,1,CRITICAL\n")
	reqs, err := LoadCoverage(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(reqs) != 2 {
		t.Fatalf("got %d reqs", len(reqs))
	}
	if !reqs[0].Skill.IsAny() {
		t.Error("expected first requirement to parse None as Any")
	}
	if reqs[1].Skill.Tag() != "CRITICAL" {
		t.Errorf("got skill %q", reqs[1].Skill.Tag())
	}
	weekday, weekend := SplitByDayType(reqs)
	if len(weekday) != 1 || len(weekend) != 1 {
		t.Errorf("split = %d weekday, %d weekend, want 1/1", len(weekday), len(weekend))
	}
}

func TestWriteAssignments(t *testing.T) {
	emp := model.NewEmployee("1", "Alice", []string{"CRITICAL"}, 37, 48)
	dates := model.Period(model.NewDate(2026, 6, 1), 1)

	vacations := model.VacationAssignment{
		emp.ID: {dates[0]},
	}
	assignment := model.ShiftAssignment{
		{Employee: emp.ID, Date: dates[1]}: model.ShiftID("FD"),
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteAssignments(path, []*model.Employee{emp}, dates, vacations, assignment); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(raw)
	if !strings.Contains(content, "1,"+dates[0].String()+",vacation") {
		t.Errorf("expected vacation row for day 0, got:\n%s", content)
	}
	if !strings.Contains(content, "1,"+dates[1].String()+",FD") {
		t.Errorf("expected shift row for day 1, got:\n%s", content)
	}
	if !strings.Contains(content, "1,"+dates[2].String()+",off") {
		t.Errorf("expected off row for day 2, got:\n%s", content)
	}
}

func TestLoadEmployees_CollectsRowErrors(t *testing.T) {
	path := writeTemp(t, "employees.csv", "id,name,weekly_target_hours,max_hours_per_week,skills\n"+
		"1,Alice,not-a-number,48,\n"+
		"2,Bob\n"+
		"3,Carol,37,48,CRITICAL\n")

	_, err := LoadEmployees(path)
	if err == nil {
		t.Fatal("expected an error for the malformed rows")
	}
	if !apperrors.Is(err, apperrors.CodeValidationFail) {
		t.Fatalf("error code = %v, want %v", err, apperrors.CodeValidationFail)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatal("expected an *AppError")
	}
	if len(appErr.Fields) != 2 {
		t.Errorf("expected both bad rows reported, got fields %v", appErr.Fields)
	}
}
