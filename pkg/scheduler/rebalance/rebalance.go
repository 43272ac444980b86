// Package rebalance implements the post-assignment local-search pass that
// transfers shifts from over-loaded to under-loaded employees without
// breaching hour caps or skill requirements.
package rebalance

import (
	"math"
	"sort"
	"time"

	"github.com/nordatc/shiftplan/internal/config"
	"github.com/nordatc/shiftplan/pkg/logger"
	"github.com/nordatc/shiftplan/pkg/model"
	"github.com/nordatc/shiftplan/pkg/schedrand"
	"github.com/nordatc/shiftplan/pkg/scheduler/shift"
)

// Diagnostics summarizes how the rebalance passes went.
type Diagnostics struct {
	PassesRun      int
	TotalTransfers int
}

type pair struct {
	date    model.Date
	shiftID model.ShiftID
}

// Rebalance returns a new shift assignment with shifts moved from busy to
// idle employees, plus the WorkState updated to match. The input assignment
// and state are not mutated; a working copy is returned.
func Rebalance(
	assignment model.ShiftAssignment,
	state *shift.WorkState,
	employees []*model.Employee,
	vacations model.VacationAssignment,
	coverageWeekday, coverageWeekend []model.CoverageRequirement,
	shifts []*model.Shift,
	cfg config.SchedulerConfig,
	log *logger.SchedulerLogger,
) (model.ShiftAssignment, *shift.WorkState, Diagnostics) {
	t0 := time.Now()

	result := cloneAssignment(assignment)
	st := state.Clone()

	shiftHours := make(map[model.ShiftID]float64, len(shifts))
	for _, s := range shifts {
		shiftHours[s.ID] = s.DurationHours()
	}
	onVacation := vacationIndex(vacations)

	working := 0
	totalShifts := 0
	for _, e := range employees {
		if st.ShiftCounts[e.ID] > 0 {
			working++
			totalShifts += st.ShiftCounts[e.ID]
		}
	}

	var diag Diagnostics
	if working == 0 {
		return result, st, diag
	}

	avg := float64(totalShifts) / float64(working)
	minTarget := int(math.Floor(avg)) - 1
	maxTarget := int(math.Floor(avg)) + 2

	if log != nil {
		log.StartRebalance("", working)
	}

	for passIndex := 0; passIndex < cfg.RebalanceMaxPasses; passIndex++ {
		adjust := 2 - passIndex/10
		if adjust < 0 {
			adjust = 0
		}
		maxTargetP := maxTarget + adjust
		minTargetP := minTarget - adjust

		over := overloaded(employees, st, maxTargetP)
		under := underloaded(employees, st, minTargetP)
		if len(over) == 0 || len(under) == 0 {
			break
		}

		transfers := 0
		enforceTarget := passIndex < cfg.RebalanceTargetEnforcedPasses

		for _, overEmp := range over {
			if st.ShiftCounts[overEmp.ID] <= maxTargetP {
				continue
			}
			pairs := assignedPairsFor(result, overEmp.ID)
			if passIndex >= 1 {
				src := schedrand.NewAttempt(cfg.RandomSeedBase, passIndex)
				src.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
			}

			for _, p := range pairs {
				if st.ShiftCounts[overEmp.ID] <= maxTargetP {
					break
				}

				reqs := coverageWeekday
				if p.date.DayType() == model.Weekend {
					reqs = coverageWeekend
				}
				skillNeeded := skillNeededFor(reqs, p.shiftID)
				weekStart := p.date.WeekStart()
				hours := shiftHours[p.shiftID]

				for _, underEmp := range under {
					if !eligible(underEmp, p.date, weekStart, hours, skillNeeded, result, onVacation, st, enforceTarget) {
						continue
					}

					delete(result, model.AssignmentKey{Employee: overEmp.ID, Date: p.date})
					result[model.AssignmentKey{Employee: underEmp.ID, Date: p.date}] = p.shiftID
					st.Adjust(overEmp.ID, weekStart, -hours, -1)
					st.Adjust(underEmp.ID, weekStart, hours, 1)
					transfers++
					break
				}
			}
		}

		diag.PassesRun++
		diag.TotalTransfers += transfers
		if log != nil {
			log.RebalancePass(passIndex, transfers)
		}
		if transfers == 0 {
			break
		}
	}

	if log != nil {
		log.RebalanceComplete("", diag.PassesRun, diag.TotalTransfers, time.Since(t0))
	}

	return result, st, diag
}

func overloaded(employees []*model.Employee, st *shift.WorkState, maxTargetP int) []*model.Employee {
	var out []*model.Employee
	for _, e := range employees {
		if st.ShiftCounts[e.ID] > maxTargetP {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return st.ShiftCounts[out[i].ID]-maxTargetP > st.ShiftCounts[out[j].ID]-maxTargetP
	})
	return out
}

func underloaded(employees []*model.Employee, st *shift.WorkState, minTargetP int) []*model.Employee {
	var out []*model.Employee
	for _, e := range employees {
		if st.ShiftCounts[e.ID] < minTargetP {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return minTargetP-st.ShiftCounts[out[i].ID] > minTargetP-st.ShiftCounts[out[j].ID]
	})
	return out
}

func assignedPairsFor(assignment model.ShiftAssignment, emp model.EmployeeID) []pair {
	var out []pair
	for key, shiftID := range assignment {
		if key.Employee == emp {
			out = append(out, pair{date: key.Date, shiftID: shiftID})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].date.Equal(out[j].date) {
			return out[i].date.Before(out[j].date)
		}
		return out[i].shiftID < out[j].shiftID
	})
	return out
}

func skillNeededFor(reqs []model.CoverageRequirement, shiftID model.ShiftID) model.RequiredSkill {
	for _, r := range reqs {
		if r.Shift == shiftID && !r.Skill.IsAny() {
			return r.Skill
		}
	}
	return model.AnySkill()
}

func eligible(
	emp *model.Employee,
	date, weekStart model.Date,
	hours float64,
	skillNeeded model.RequiredSkill,
	assignment model.ShiftAssignment,
	onVacation map[model.Date]map[model.EmployeeID]bool,
	st *shift.WorkState,
	enforceTarget bool,
) bool {
	if onVacation[date][emp.ID] {
		return false
	}
	if _, already := assignment[model.AssignmentKey{Employee: emp.ID, Date: date}]; already {
		return false
	}
	if !skillNeeded.IsAny() && !emp.HasSkill(skillNeeded.Tag()) {
		return false
	}
	weekHours := st.WeekHours(emp.ID, weekStart)
	if weekHours+hours > emp.MaxHoursPerWeek {
		return false
	}
	if enforceTarget && weekHours+hours > emp.WeeklyTargetHours {
		return false
	}
	return true
}

func vacationIndex(vacations model.VacationAssignment) map[model.Date]map[model.EmployeeID]bool {
	idx := make(map[model.Date]map[model.EmployeeID]bool)
	for emp, block := range vacations {
		for _, d := range block {
			if idx[d] == nil {
				idx[d] = make(map[model.EmployeeID]bool)
			}
			idx[d][emp] = true
		}
	}
	return idx
}

func cloneAssignment(a model.ShiftAssignment) model.ShiftAssignment {
	out := make(model.ShiftAssignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
