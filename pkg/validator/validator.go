// Package validator checks a finished schedule against the invariants the
// vacation allocator, shift assigner, and rebalancer are required to
// preserve.
package validator

import (
	"fmt"
	"sort"

	apperrors "github.com/nordatc/shiftplan/pkg/errors"
	"github.com/nordatc/shiftplan/pkg/model"
	"github.com/nordatc/shiftplan/pkg/scheduler/shift"
)

// ViolationType names which invariant was broken.
type ViolationType string

const (
	ViolationVacationShiftOverlap ViolationType = "vacation_shift_overlap"
	ViolationSlotCount            ViolationType = "slot_count"
	ViolationSkillShortfall       ViolationType = "skill_shortfall"
	ViolationHourCap              ViolationType = "hour_cap"
	ViolationNonContiguousBlock   ViolationType = "non_contiguous_block"
)

// Violation describes a single broken invariant.
type Violation struct {
	Type    ViolationType
	Date    model.Date
	Shift   model.ShiftID
	Subject model.EmployeeID
	Message string
}

// Err maps the violation onto the module's error taxonomy: a shift landing
// on a vacation day is a per-employee schedule conflict, everything else a
// broken scheduling constraint.
func (v Violation) Err() *apperrors.AppError {
	if v.Type == ViolationVacationShiftOverlap {
		return apperrors.ScheduleConflict(string(v.Subject), v.Date.String(), v.Message)
	}
	return apperrors.ConstraintViolation(string(v.Type), v.Message)
}

// Checker runs the invariant suite against a finished schedule.
type Checker struct {
	Employees       []*model.Employee
	Vacations       model.VacationAssignment
	Assignment      model.ShiftAssignment
	CoverageWeekday []model.CoverageRequirement
	CoverageWeekend []model.CoverageRequirement
	Dates           []model.Date
}

// CheckAll runs every invariant check and returns every violation found.
func (c *Checker) CheckAll(state *shift.WorkState) []Violation {
	var v []Violation
	v = append(v, c.CheckVacationShiftExclusion()...)
	v = append(v, c.CheckSlotCounts()...)
	v = append(v, c.CheckSkillSatisfaction()...)
	v = append(v, c.CheckVacationContiguity()...)
	if state != nil {
		v = append(v, c.CheckHourCaps(state)...)
	}
	return v
}

// CheckVacationShiftExclusion verifies I2: nobody works on a vacation day.
// I1 (at most one shift per employee per day) holds by construction, since
// model.ShiftAssignment is keyed by (employee, date).
func (c *Checker) CheckVacationShiftExclusion() []Violation {
	var violations []Violation
	for emp, block := range c.Vacations {
		for _, d := range block {
			if shiftID, ok := c.Assignment[model.AssignmentKey{Employee: emp, Date: d}]; ok {
				violations = append(violations, Violation{
					Type:    ViolationVacationShiftOverlap,
					Date:    d,
					Shift:   shiftID,
					Subject: emp,
					Message: fmt.Sprintf("employee %s assigned shift %s while on vacation", emp, shiftID),
				})
			}
		}
	}
	return violations
}

// CheckSlotCounts verifies I3: the number of employees assigned to a shift
// on a date matches that day's required head-count for the shift.
func (c *Checker) CheckSlotCounts() []Violation {
	var violations []Violation
	for _, date := range c.Dates {
		reqs := c.CoverageWeekday
		if date.DayType() == model.Weekend {
			reqs = c.CoverageWeekend
		}
		required := make(map[model.ShiftID]int)
		for _, r := range reqs {
			required[r.Shift] += r.Required
		}
		assigned := make(map[model.ShiftID]int)
		for _, e := range c.Employees {
			if s, ok := c.Assignment[model.AssignmentKey{Employee: e.ID, Date: date}]; ok {
				assigned[s]++
			}
		}
		for shiftID, need := range required {
			if assigned[shiftID] != need {
				violations = append(violations, Violation{
					Type:    ViolationSlotCount,
					Date:    date,
					Shift:   shiftID,
					Message: fmt.Sprintf("%s on %s: required %d, assigned %d", shiftID, date, need, assigned[shiftID]),
				})
			}
		}
	}
	return violations
}

// CheckSkillSatisfaction verifies I4: for every skilled requirement, at
// least as many assigned employees carry the skill as required.
func (c *Checker) CheckSkillSatisfaction() []Violation {
	var violations []Violation
	empByID := make(map[model.EmployeeID]*model.Employee, len(c.Employees))
	for _, e := range c.Employees {
		empByID[e.ID] = e
	}

	for _, date := range c.Dates {
		reqs := c.CoverageWeekday
		if date.DayType() == model.Weekend {
			reqs = c.CoverageWeekend
		}
		for _, req := range reqs {
			if req.Skill.IsAny() {
				continue
			}
			have := 0
			for _, e := range c.Employees {
				if c.Assignment[model.AssignmentKey{Employee: e.ID, Date: date}] != req.Shift {
					continue
				}
				if e.HasSkill(req.Skill.Tag()) {
					have++
				}
			}
			if have < req.Required {
				violations = append(violations, Violation{
					Type:    ViolationSkillShortfall,
					Date:    date,
					Shift:   req.Shift,
					Message: fmt.Sprintf("%s on %s: needs %d with skill %s, has %d", req.Shift, date, req.Required, req.Skill, have),
				})
			}
		}
	}
	return violations
}

// CheckHourCaps verifies I5: no employee's per-week hours exceed their hard
// cap. This is checked post-rebalance; the tiered assigner may legitimately
// breach it via Tier 3.
func (c *Checker) CheckHourCaps(state *shift.WorkState) []Violation {
	var violations []Violation
	for _, e := range c.Employees {
		for key, hours := range state.HoursPerWeek {
			if key.Employee != e.ID {
				continue
			}
			if hours > e.MaxHoursPerWeek {
				violations = append(violations, Violation{
					Type:    ViolationHourCap,
					Subject: e.ID,
					Message: fmt.Sprintf("employee %s has %.1f hours in week of %s, cap is %.1f", e.ID, hours, key.WeekStart, e.MaxHoursPerWeek),
				})
			}
		}
	}
	return violations
}

// CheckVacationContiguity verifies I6: every non-empty block is a
// contiguous date range.
func (c *Checker) CheckVacationContiguity() []Violation {
	var violations []Violation
	for emp, block := range c.Vacations {
		if len(block) == 0 {
			continue
		}
		sorted := append([]model.Date(nil), block...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
		for i := 1; i < len(sorted); i++ {
			if sorted[i].Sub(sorted[i-1]) != 1 {
				violations = append(violations, Violation{
					Type:    ViolationNonContiguousBlock,
					Subject: emp,
					Message: fmt.Sprintf("employee %s vacation block is not contiguous around %s", emp, sorted[i]),
				})
				break
			}
		}
	}
	return violations
}
