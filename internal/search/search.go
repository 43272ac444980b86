// Package search runs the vacation allocator with varying target block
// sizes, walking from the longest candidate length down to the shortest
// acceptable one, to find the longest block size that does not force any
// employee over their hard weekly hour cap.
package search

import (
	"fmt"

	"github.com/nordatc/shiftplan/internal/config"
	apperrors "github.com/nordatc/shiftplan/pkg/errors"
	"github.com/nordatc/shiftplan/pkg/logger"
	"github.com/nordatc/shiftplan/pkg/model"
	"github.com/nordatc/shiftplan/pkg/scheduler/vacation"
)

// Attempt is one target-length trial and its outcome.
type Attempt struct {
	TargetDays         int
	Vacation           model.VacationAssignment
	VacationDiag       vacation.Diagnostics
	MaxHoursViolations int
	AchievedMin        int
	AchievedMax        int
	AchievedMeanX10    int // mean*10, integer to stay a pure comparison key
}

// Result is the outcome of searching the [minDays, maxDays] range.
type Result struct {
	Best     Attempt
	Attempts []Attempt

	// Err is non-nil when no candidate length kept every employee within
	// their hard weekly cap; Best then carries the least-bad attempt.
	Err *apperrors.AppError
}

// FindOptimalVacationLength tests target block lengths from maxDays down to
// minDays and returns the longest one under which no employee's rough
// estimated weekly hours would exceed their hard cap once days off are
// accounted for. If none qualifies, it returns the attempt with the fewest
// violations, preferring the larger achieved average on ties.
func FindOptimalVacationLength(
	employees []*model.Employee,
	coverageWeekday, coverageWeekend []model.CoverageRequirement,
	start model.Date,
	numWeeks, minDays, maxDays int,
	cfg config.SchedulerConfig,
	log *logger.SchedulerLogger,
) Result {
	var attempts []Attempt

	for target := maxDays; target >= minDays; target-- {
		vac, diag := vacation.PlanVacations(employees, coverageWeekday, coverageWeekend, start, numWeeks, target, cfg, log)
		attempt := evaluate(vac, diag, employees, numWeeks, target)
		attempts = append(attempts, attempt)

		if attempt.MaxHoursViolations == 0 {
			return Result{Best: attempt, Attempts: attempts}
		}
	}

	best := attempts[0]
	for _, a := range attempts[1:] {
		if a.MaxHoursViolations < best.MaxHoursViolations ||
			(a.MaxHoursViolations == best.MaxHoursViolations && a.AchievedMeanX10 > best.AchievedMeanX10) {
			best = a
		}
	}
	err := apperrors.NoFeasibleSolution(fmt.Sprintf(
		"no vacation length in [%d, %d] keeps every employee within max weekly hours", minDays, maxDays))
	return Result{Best: best, Attempts: attempts, Err: err}
}

// evaluate mirrors the reference optimizer's rough estimate: working_days *
// model.DefaultShiftDurationHours / num_weeks, compared against each
// employee's hard cap. It is intentionally an estimate, not a re-run of the
// tiered assigner, matching the original script's cheap pre-check.
func evaluate(vac model.VacationAssignment, diag vacation.Diagnostics, employees []*model.Employee, numWeeks, target int) Attempt {
	totalDays := numWeeks * 7
	minDays, maxDaysAchieved := -1, -1
	sum := 0

	violations := 0
	for _, e := range employees {
		vacationDays := len(vac[e.ID])
		if minDays < 0 || vacationDays < minDays {
			minDays = vacationDays
		}
		if vacationDays > maxDaysAchieved {
			maxDaysAchieved = vacationDays
		}
		sum += vacationDays

		workingDays := totalDays - vacationDays
		if workingDays <= 0 {
			continue
		}
		estimatedWeekly := float64(workingDays) * model.DefaultShiftDurationHours / float64(numWeeks)
		if estimatedWeekly > e.MaxHoursPerWeek {
			violations++
		}
	}

	meanX10 := 0
	if len(employees) > 0 {
		meanX10 = sum * 10 / len(employees)
	}

	return Attempt{
		TargetDays:         target,
		Vacation:           vac,
		VacationDiag:       diag,
		MaxHoursViolations: violations,
		AchievedMin:        minDays,
		AchievedMax:        maxDaysAchieved,
		AchievedMeanX10:    meanX10,
	}
}
