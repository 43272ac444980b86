// Package vacation implements the vacation block allocator: it splits the
// roster into two balanced halves and searches, from the longest length
// down, for an equal-length consecutive vacation block that keeps coverage
// feasible on every day. The first length at which at least one employee can
// be placed wins; employees with no feasible block at that length stay
// unplaced (empty block).
package vacation

import (
	"sort"
	"time"

	"github.com/nordatc/shiftplan/internal/config"
	"github.com/nordatc/shiftplan/pkg/logger"
	"github.com/nordatc/shiftplan/pkg/model"
	"github.com/nordatc/shiftplan/pkg/schedrand"
	"github.com/nordatc/shiftplan/pkg/scheduler/coverage"
)

// Diagnostics reports how a PlanVacations run arrived at its result.
type Diagnostics struct {
	// BlockLength is the winning equal-length block size, or 0 if the
	// fallback branch had to be taken.
	BlockLength int
	// Spread is max-min block length across placed employees.
	Spread int
	// FallbackUsed is true when no (L, attempt) pair in the main branch
	// managed to place anyone and the best-effort fallback ran instead.
	FallbackUsed bool
	// Unplaced lists employees who received an empty block.
	Unplaced []model.EmployeeID
}

type group int

const (
	groupA group = iota
	groupB
)

type member struct {
	emp   *model.Employee
	group group
}

// PlanVacations assigns each employee a single consecutive vacation block.
func PlanVacations(
	employees []*model.Employee,
	coverageWeekday, coverageWeekend []model.CoverageRequirement,
	start model.Date,
	numWeeks, targetDays int,
	cfg config.SchedulerConfig,
	log *logger.SchedulerLogger,
) (model.VacationAssignment, Diagnostics) {
	t0 := time.Now()
	periodLength := 7 * numWeeks
	dates := model.Period(start, numWeeks)

	if log != nil {
		log.StartVacationPlan("", len(employees), periodLength, targetDays)
	}

	result := make(model.VacationAssignment, len(employees))
	for _, e := range employees {
		result[e.ID] = nil
	}

	members := buildGroups(employees)
	mid := periodLength / 2
	maxBlock := mid
	if periodLength-mid < maxBlock {
		maxBlock = periodLength - mid
	}

	reqFor := requirementsFunc(coverageWeekday, coverageWeekend)

	topL := targetDays
	if maxBlock < topL {
		topL = maxBlock
	}

	var diag Diagnostics
	found := false

	for l := topL; l >= 1 && !found; l-- {
		var best model.VacationAssignment
		bestPlaced := -1
		attempts := attemptCount(cfg)

		for attempt := 0; attempt < attempts; attempt++ {
			ordered := orderMembers(members, attempt, cfg.RandomSeedBase)
			candidate, placed := placeEqualLength(ordered, dates, l, mid, periodLength, reqFor)
			if placed > bestPlaced {
				bestPlaced = placed
				best = candidate
			}
		}

		if bestPlaced > 0 {
			for id, block := range best {
				result[id] = block
			}
			diag.BlockLength = l
			diag.Spread = 0
			found = true
		}
	}

	if !found {
		diag.FallbackUsed = true
		if log != nil {
			log.VacationFallback("", len(employees))
		}
		result, diag.Spread = fallbackPlace(members, dates, mid, periodLength, targetDays, cfg.VacationFallbackMinBlockDays, reqFor)
	}

	for _, e := range employees {
		if len(result[e.ID]) == 0 {
			diag.Unplaced = append(diag.Unplaced, e.ID)
		}
	}
	sort.Slice(diag.Unplaced, func(i, j int) bool { return diag.Unplaced[i] < diag.Unplaced[j] })

	if log != nil {
		log.VacationPlanComplete("", diag.BlockLength, diag.Spread, time.Since(t0))
	}

	return result, diag
}

func attemptCount(cfg config.SchedulerConfig) int {
	if cfg.VacationMinAttempts < 20 {
		return 20
	}
	return cfg.VacationMinAttempts
}

func buildGroups(employees []*model.Employee) []member {
	sorted := make([]*model.Employee, len(employees))
	copy(sorted, employees)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WeeklyTargetHours > sorted[j].WeeklyTargetHours
	})

	members := make([]member, len(sorted))
	for i, e := range sorted {
		g := groupA
		if i%2 == 1 {
			g = groupB
		}
		members[i] = member{emp: e, group: g}
	}
	return members
}

// orderMembers reorders each group's members per the attempt index: attempt
// 0 sorts by name ascending, attempt 1 by name descending, attempt 2 and
// beyond shuffle deterministically with seed = base XOR attempt.
func orderMembers(members []member, attempt int, seedBase uint64) []member {
	var a, b []member
	for _, m := range members {
		if m.group == groupA {
			a = append(a, m)
		} else {
			b = append(b, m)
		}
	}

	switch {
	case attempt == 0:
		sortByNameAsc(a)
		sortByNameAsc(b)
	case attempt == 1:
		sortByNameDesc(a)
		sortByNameDesc(b)
	default:
		src := schedrand.NewAttempt(seedBase, attempt)
		src.Shuffle(len(a), func(i, j int) { a[i], a[j] = a[j], a[i] })
		src.Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })
	}

	ordered := make([]member, 0, len(members))
	ordered = append(ordered, a...)
	ordered = append(ordered, b...)
	return ordered
}

func sortByNameAsc(m []member) {
	sort.SliceStable(m, func(i, j int) bool { return m[i].emp.Name < m[j].emp.Name })
}

func sortByNameDesc(m []member) {
	sort.SliceStable(m, func(i, j int) bool { return m[i].emp.Name > m[j].emp.Name })
}

type reqFunc func(d model.Date) []model.CoverageRequirement

func requirementsFunc(weekday, weekend []model.CoverageRequirement) reqFunc {
	return func(d model.Date) []model.CoverageRequirement {
		if d.DayType() == model.Weekend {
			return weekend
		}
		return weekday
	}
}

// placeEqualLength runs one attempt's ordered placement pass for a fixed
// block length l, returning the resulting per-employee blocks and how many
// employees were successfully placed.
func placeEqualLength(ordered []member, dates []model.Date, l, mid, periodLength int, reqFor reqFunc) (model.VacationAssignment, int) {
	allEmployees := make([]*model.Employee, 0, len(ordered))
	for _, m := range ordered {
		allEmployees = append(allEmployees, m.emp)
	}

	vacationers := make([]map[model.EmployeeID]bool, periodLength)
	for i := range vacationers {
		vacationers[i] = make(map[model.EmployeeID]bool)
	}

	maxVacationOn := make([]int, periodLength)
	for i, d := range dates {
		maxVacationOn[i] = len(allEmployees) - coverage.TotalNeeded(reqFor(d))
	}

	result := make(model.VacationAssignment, len(ordered))
	placed := 0

	for _, m := range ordered {
		var lo, hi int
		if m.group == groupA {
			lo, hi = 0, mid-l
		} else {
			lo, hi = mid, periodLength-l
		}
		if hi < lo {
			result[m.emp.ID] = nil
			continue
		}

		start := -1
		for s := lo; s <= hi; s++ {
			if feasibleBlock(m.emp, s, l, dates, vacationers, maxVacationOn, allEmployees, reqFor) {
				start = s
				break
			}
		}

		if start < 0 {
			result[m.emp.ID] = nil
			continue
		}

		block := make([]model.Date, l)
		for i := 0; i < l; i++ {
			day := start + i
			block[i] = dates[day]
			vacationers[day][m.emp.ID] = true
		}
		result[m.emp.ID] = block
		placed++
	}

	return result, placed
}

func feasibleBlock(
	emp *model.Employee,
	start, l int,
	dates []model.Date,
	vacationers []map[model.EmployeeID]bool,
	maxVacationOn []int,
	allEmployees []*model.Employee,
	reqFor reqFunc,
) bool {
	for day := start; day < start+l; day++ {
		if len(vacationers[day]) >= maxVacationOn[day] {
			return false
		}
		available := make([]*model.Employee, 0, len(allEmployees))
		for _, e := range allEmployees {
			if e.ID == emp.ID {
				continue
			}
			if vacationers[day][e.ID] {
				continue
			}
			available = append(available, e)
		}
		if !coverage.Feasible(available, reqFor(dates[day])) {
			return false
		}
	}
	return true
}

// fallbackPlace runs the best-effort, single-pass placement used when no
// equal-length block could be found for anyone: each member is placed
// greedily with its own block length, searched downward from targetDays to
// minBlock, first fit wins.
func fallbackPlace(
	members []member,
	dates []model.Date,
	mid, periodLength, targetDays, minBlock int,
	reqFor reqFunc,
) (model.VacationAssignment, int) {
	var a, b []member
	for _, m := range members {
		if m.group == groupA {
			a = append(a, m)
		} else {
			b = append(b, m)
		}
	}
	sortByNameAsc(a)
	sortByNameAsc(b)

	allEmployees := make([]*model.Employee, 0, len(members))
	for _, m := range members {
		allEmployees = append(allEmployees, m.emp)
	}

	vacationers := make([]map[model.EmployeeID]bool, periodLength)
	for i := range vacationers {
		vacationers[i] = make(map[model.EmployeeID]bool)
	}
	maxVacationOn := make([]int, periodLength)
	for i, d := range dates {
		maxVacationOn[i] = len(allEmployees) - coverage.TotalNeeded(reqFor(d))
	}

	result := make(model.VacationAssignment, len(members))
	minLen, maxLen := -1, -1

	place := func(group []member, lo, hiExclusive int) {
		for _, m := range group {
			placedHere := false
			for l := targetDays; l >= minBlock && !placedHere; l-- {
				segHi := hiExclusive - l
				if segHi < lo {
					continue
				}
				for s := lo; s <= segHi; s++ {
					if feasibleBlock(m.emp, s, l, dates, vacationers, maxVacationOn, allEmployees, reqFor) {
						block := make([]model.Date, l)
						for i := 0; i < l; i++ {
							day := s + i
							block[i] = dates[day]
							vacationers[day][m.emp.ID] = true
						}
						result[m.emp.ID] = block
						if minLen < 0 || l < minLen {
							minLen = l
						}
						if l > maxLen {
							maxLen = l
						}
						placedHere = true
						break
					}
				}
			}
			if !placedHere {
				result[m.emp.ID] = nil
			}
		}
	}

	place(a, 0, mid)
	place(b, mid, periodLength)

	spread := 0
	if minLen >= 0 {
		spread = maxLen - minLen
	}
	return result, spread
}
