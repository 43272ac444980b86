// Package shift implements the tiered shift assigner: for every date it
// fills each coverage slot by walking candidates through three escalating
// tiers, graceful degradation, and reports what it could not fill.
package shift

import (
	"sort"
	"time"

	"github.com/nordatc/shiftplan/internal/config"
	"github.com/nordatc/shiftplan/pkg/logger"
	"github.com/nordatc/shiftplan/pkg/model"
	"github.com/nordatc/shiftplan/pkg/scheduler/coverage"
)

// UnfilledSlot is a coverage slot no candidate, even in Tier 3, could fill.
type UnfilledSlot struct {
	Date    model.Date
	Shift   model.ShiftID
	Skill   model.RequiredSkill
	Missing int
}

// Tier3Use records a single occurrence of a candidate being pulled from the
// emergency tier.
type Tier3Use struct {
	Date     model.Date
	Shift    model.ShiftID
	Employee model.EmployeeID
}

// Diagnostics reports the non-fatal conditions encountered while assigning.
type Diagnostics struct {
	Unfilled  []UnfilledSlot
	Tier3Uses []Tier3Use
}

// AssignShifts fills every coverage slot on every date, in chronological
// order, for every employee not on vacation that day.
func AssignShifts(
	employees []*model.Employee,
	vacations model.VacationAssignment,
	coverageWeekday, coverageWeekend []model.CoverageRequirement,
	dates []model.Date,
	shifts []*model.Shift,
	cfg config.SchedulerConfig,
	log *logger.SchedulerLogger,
) (model.ShiftAssignment, *WorkState, Diagnostics) {
	t0 := time.Now()
	if log != nil {
		log.StartShiftAssignment("", len(employees), len(dates))
	}

	result := make(model.ShiftAssignment)
	state := NewWorkState()
	var diag Diagnostics

	shiftByID := make(map[model.ShiftID]*model.Shift, len(shifts))
	for _, s := range shifts {
		shiftByID[s.ID] = s
	}

	onVacation := vacationIndex(vacations)

	for _, date := range dates {
		reqs := coverageWeekday
		if date.DayType() == model.Weekend {
			reqs = coverageWeekend
		}
		weekStart := date.WeekStart()

		available := make([]*model.Employee, 0, len(employees))
		for _, e := range employees {
			if !onVacation[date][e.ID] {
				available = append(available, e)
			}
		}
		assignedToday := make(map[model.EmployeeID]bool)

		for _, shiftID := range shiftIDsIn(reqs) {
			shiftReqs := filterByShift(reqs, shiftID)
			shiftHours := model.DefaultShiftDurationHours
			if sh, ok := shiftByID[shiftID]; ok {
				shiftHours = sh.DurationHours()
			}

			skillNeeds := coverage.SkillNeeds(shiftReqs)
			totalNeeded := coverage.TotalNeeded(shiftReqs)
			specificSum := 0
			for _, n := range skillNeeds {
				specificSum += n
			}
			residualAny := totalNeeded - specificSum

			for _, skill := range sortedSkillKeys(skillNeeds) {
				needed := skillNeeds[skill]
				filled := fillSlot(available, assignedToday, state, cfg, date, shiftID, model.SpecificSkill(skill), needed, shiftHours, weekStart, result, &diag, log)
				if filled < needed {
					diag.Unfilled = append(diag.Unfilled, UnfilledSlot{Date: date, Shift: shiftID, Skill: model.SpecificSkill(skill), Missing: needed - filled})
				}
			}
			if residualAny > 0 {
				filled := fillSlot(available, assignedToday, state, cfg, date, shiftID, model.AnySkill(), residualAny, shiftHours, weekStart, result, &diag, log)
				if filled < residualAny {
					diag.Unfilled = append(diag.Unfilled, UnfilledSlot{Date: date, Shift: shiftID, Skill: model.AnySkill(), Missing: residualAny - filled})
				}
			}
		}
	}

	if log != nil {
		log.ShiftAssignmentComplete("", len(result), len(diag.Unfilled), time.Since(t0))
	}

	return result, state, diag
}

// fillSlot assigns up to needed candidates to (date, shiftID) filtered by
// skill, following the three-tier search, and returns how many it placed.
func fillSlot(
	available []*model.Employee,
	assignedToday map[model.EmployeeID]bool,
	state *WorkState,
	cfg config.SchedulerConfig,
	date model.Date,
	shiftID model.ShiftID,
	skill model.RequiredSkill,
	needed int,
	shiftHours float64,
	weekStart model.Date,
	result model.ShiftAssignment,
	diag *Diagnostics,
	log *logger.SchedulerLogger,
) int {
	if needed <= 0 {
		return 0
	}

	candidates := make([]*model.Employee, 0, len(available))
	for _, e := range available {
		if assignedToday[e.ID] {
			continue
		}
		if !skill.IsAny() && !e.HasSkill(skill.Tag()) {
			continue
		}
		candidates = append(candidates, e)
	}

	tier1, tier2, tier3 := classify(candidates, state, cfg, weekStart, shiftHours)
	sortTier(tier1, state, weekStart, shiftHours)
	sortTier(tier2, state, weekStart, shiftHours)
	sortTier(tier3, state, weekStart, shiftHours)

	ordered := make([]*model.Employee, 0, len(tier1)+len(tier2)+len(tier3))
	ordered = append(ordered, tier1...)
	ordered = append(ordered, tier2...)
	ordered = append(ordered, tier3...)

	tierOf := make(map[model.EmployeeID]int, len(ordered))
	for _, e := range tier1 {
		tierOf[e.ID] = 1
	}
	for _, e := range tier2 {
		tierOf[e.ID] = 2
	}
	for _, e := range tier3 {
		tierOf[e.ID] = 3
	}

	filled := 0
	for _, e := range ordered {
		if filled >= needed {
			break
		}
		result[model.AssignmentKey{Employee: e.ID, Date: date}] = shiftID
		assignedToday[e.ID] = true
		state.RecordAssignment(e.ID, date, weekStart, shiftHours)
		if tierOf[e.ID] == 3 {
			diag.Tier3Uses = append(diag.Tier3Uses, Tier3Use{Date: date, Shift: shiftID, Employee: e.ID})
			if log != nil {
				log.TierEscalation(date.String(), string(shiftID), 3)
			}
		}
		filled++
	}
	return filled
}

func classify(candidates []*model.Employee, state *WorkState, cfg config.SchedulerConfig, weekStart model.Date, shiftHours float64) (tier1, tier2, tier3 []*model.Employee) {
	for _, e := range candidates {
		weekHours := state.WeekHours(e.ID, weekStart)
		consecutive := state.ConsecutiveWorkDays[e.ID]
		switch {
		case weekHours+shiftHours <= e.WeeklyTargetHours && consecutive < cfg.MaxConsecutiveWorkDays:
			tier1 = append(tier1, e)
		case weekHours+shiftHours <= e.MaxHoursPerWeek && consecutive < cfg.MaxConsecutiveWorkDays:
			tier2 = append(tier2, e)
		default:
			tier3 = append(tier3, e)
		}
	}
	return
}

func sortTier(tier []*model.Employee, state *WorkState, weekStart model.Date, shiftHours float64) {
	sort.SliceStable(tier, func(i, j int) bool {
		a, b := tier[i], tier[j]
		aExceed := state.WeekHours(a.ID, weekStart)+shiftHours > a.WeeklyTargetHours
		bExceed := state.WeekHours(b.ID, weekStart)+shiftHours > b.WeeklyTargetHours
		if aExceed != bExceed {
			return !aExceed && bExceed
		}
		aWeek, bWeek := state.WeekHours(a.ID, weekStart), state.WeekHours(b.ID, weekStart)
		if aWeek != bWeek {
			return aWeek < bWeek
		}
		if state.ShiftCounts[a.ID] != state.ShiftCounts[b.ID] {
			return state.ShiftCounts[a.ID] < state.ShiftCounts[b.ID]
		}
		if state.TotalHours[a.ID] != state.TotalHours[b.ID] {
			return state.TotalHours[a.ID] < state.TotalHours[b.ID]
		}
		return a.Name < b.Name
	})
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

func shiftIDsIn(reqs []model.CoverageRequirement) []model.ShiftID {
	seen := make(map[model.ShiftID]bool)
	var ids []model.ShiftID
	for _, r := range reqs {
		if !seen[r.Shift] {
			seen[r.Shift] = true
			ids = append(ids, r.Shift)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func filterByShift(reqs []model.CoverageRequirement, shiftID model.ShiftID) []model.CoverageRequirement {
	var out []model.CoverageRequirement
	for _, r := range reqs {
		if r.Shift == shiftID {
			out = append(out, r)
		}
	}
	return out
}

func sortedSkillKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
