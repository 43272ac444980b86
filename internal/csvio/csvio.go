// Package csvio loads employees, shifts, and coverage requirements from CSV
// files, the external adapter the core scheduler never touches directly.
// Skills are semicolon-joined within a single column; the required-skill
// column uses the sentinel "None" for any-skill rows.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/nordatc/shiftplan/pkg/errors"
	"github.com/nordatc/shiftplan/pkg/model"
)

// LoadEmployees reads employees.csv: id,name,weekly_target_hours,max_hours_per_week,skills
// where skills is a semicolon-separated list. Row-level problems are collected
// across the whole file and reported together rather than failing on the first.
func LoadEmployees(path string) ([]*model.Employee, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	var employees []*model.Employee
	ve := &apperrors.ValidationErrors{}
	for i, row := range records {
		if i == 0 {
			continue
		}
		rowField := fmt.Sprintf("row %d", i+1)
		if len(row) < 5 {
			ve.Add(rowField, fmt.Sprintf("expected 5 columns, got %d", len(row)))
			continue
		}
		target, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			ve.Add(rowField, "weekly_target_hours: "+err.Error())
			continue
		}
		max, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil {
			ve.Add(rowField, "max_hours_per_week: "+err.Error())
			continue
		}
		skills := splitSkills(row[4])
		employees = append(employees, model.NewEmployee(
			model.EmployeeID(strings.TrimSpace(row[0])),
			unquote(row[1]),
			skills,
			target,
			max,
		))
	}
	if ve.HasErrors() {
		return nil, ve.ToAppError()
	}
	return employees, nil
}

// LoadShifts reads shifts.csv: id,name,start,end,category
func LoadShifts(path string) ([]*model.Shift, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	var shifts []*model.Shift
	for i, row := range records {
		if i == 0 {
			continue
		}
		if len(row) < 5 {
			return nil, fmt.Errorf("shifts.csv row %d: expected 5 columns, got %d", i+1, len(row))
		}
		shifts = append(shifts, &model.Shift{
			ID:       model.ShiftID(strings.TrimSpace(row[0])),
			Name:     unquote(row[1]),
			Start:    strings.TrimSpace(row[2]),
			End:      strings.TrimSpace(row[3]),
			Category: model.ShiftCategory(strings.ToLower(strings.TrimSpace(row[4]))),
		})
	}
	return shifts, nil
}

// LoadCoverage reads coverage.csv: type,shift_id,required,required_skill
// where required_skill is a skill tag or the sentinel "None".
func LoadCoverage(path string) ([]model.CoverageRequirement, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	var reqs []model.CoverageRequirement
	for i, row := range records {
		if i == 0 {
			continue
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("coverage.csv row %d: expected 4 columns, got %d", i+1, len(row))
		}
		required, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("coverage.csv row %d: required: %w", i+1, err)
		}
		dayType := model.Weekday
		if strings.EqualFold(strings.TrimSpace(unquote(row[0])), "weekend") {
			dayType = model.Weekend
		}
		reqs = append(reqs, model.CoverageRequirement{
			DayType:  dayType,
			Shift:    model.ShiftID(strings.TrimSpace(unquote(row[1]))),
			Required: required,
			Skill:    model.ParseRequiredSkill(unquote(row[3])),
		})
	}
	return reqs, nil
}

// SplitByDayType partitions a flat coverage list into weekday and weekend
// requirement lists, the shape plan_vacations and assign_shifts consume.
func SplitByDayType(reqs []model.CoverageRequirement) (weekday, weekend []model.CoverageRequirement) {
	for _, r := range reqs {
		if r.DayType == model.Weekend {
			weekend = append(weekend, r)
		} else {
			weekday = append(weekday, r)
		}
	}
	return weekday, weekend
}

func splitSkills(field string) []string {
	field = unquote(field)
	parts := strings.Split(field, ";")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// WriteAssignments renders the final vacation and shift assignment to a CSV
// with one row per employee per date: employee_id,date,status, where status
// is "vacation", a shift ID, or "off".
func WriteAssignments(path string, employees []*model.Employee, dates []model.Date, vacations model.VacationAssignment, shifts model.ShiftAssignment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"employee_id", "date", "status"}); err != nil {
		return err
	}

	onVacation := make(map[model.EmployeeID]map[model.Date]bool, len(vacations))
	for emp, block := range vacations {
		set := make(map[model.Date]bool, len(block))
		for _, d := range block {
			set[d] = true
		}
		onVacation[emp] = set
	}

	for _, e := range employees {
		for _, d := range dates {
			status := "off"
			if onVacation[e.ID][d] {
				status = "vacation"
			} else if shiftID, ok := shifts[model.AssignmentKey{Employee: e.ID, Date: d}]; ok {
				status = string(shiftID)
			}
			if err := w.Write([]string{string(e.ID), d.String(), status}); err != nil {
				return err
			}
		}
	}
	return w.Error()
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var records [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		records = append(records, row)
	}
	return records, nil
}
