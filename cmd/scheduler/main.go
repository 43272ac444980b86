// Command scheduler is the CLI entry point for the shift-planning engine.
// It reads employees/shifts/coverage CSVs, searches for the longest workable
// vacation block length, plans vacations, assigns shifts, rebalances the
// result, and prints a statistics summary, optionally persisting the run.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/nordatc/shiftplan/internal/config"
	"github.com/nordatc/shiftplan/internal/csvio"
	"github.com/nordatc/shiftplan/internal/runlog"
	"github.com/nordatc/shiftplan/internal/search"
	"github.com/nordatc/shiftplan/internal/store"
	apperrors "github.com/nordatc/shiftplan/pkg/errors"
	"github.com/nordatc/shiftplan/pkg/logger"
	"github.com/nordatc/shiftplan/pkg/model"
	"github.com/nordatc/shiftplan/pkg/scheduler/rebalance"
	"github.com/nordatc/shiftplan/pkg/scheduler/shift"
	"github.com/nordatc/shiftplan/pkg/stats"
	"github.com/nordatc/shiftplan/pkg/validator"
)

// Build info, injected via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	employeesPath := flag.String("employees", "employees.csv", "path to employees CSV")
	shiftsPath := flag.String("shifts", "shifts.csv", "path to shifts CSV")
	coveragePath := flag.String("coverage", "coverage.csv", "path to coverage CSV")
	startDate := flag.String("start", "", "period start date, YYYY-MM-DD")
	numWeeks := flag.Int("weeks", 2, "period length in weeks")
	minDays := flag.Int("min-vacation-days", 5, "shortest acceptable vacation block length")
	maxDays := flag.Int("max-vacation-days", 7, "longest candidate vacation block length")
	outputPath := flag.String("output", "", "path to write the final per-employee-per-date assignment CSV (optional)")
	persist := flag.Bool("persist", false, "save the run summary to the database")
	showRun := flag.String("show-run", "", "print a previously saved run summary by ID and exit")
	flag.Parse()

	logger.Init(logger.Config{
		Level:  os.Getenv("APP_LOG_LEVEL"),
		Format: "console",
	})

	fmt.Printf("ShiftPlan scheduling engine v%s\n", Version)
	fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Msg("failed to load configuration")
		os.Exit(1)
	}

	if *showRun != "" {
		showSavedRun(cfg, *showRun)
		return
	}

	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		logger.WithError(apperrors.InvalidInput("start", err.Error())).Str("start", *startDate).Msg("invalid start date")
		os.Exit(1)
	}
	period := model.DateFromTime(start)

	run := runlog.New()
	schedLog := logger.NewSchedulerLogger()

	employees, err := csvio.LoadEmployees(*employeesPath)
	if err != nil {
		logger.WithError(apperrors.Wrap(err, apperrors.CodeInvalidInput, "load employees")).Msg("failed to load employees")
		os.Exit(1)
	}
	shifts, err := csvio.LoadShifts(*shiftsPath)
	if err != nil {
		logger.WithError(apperrors.Wrap(err, apperrors.CodeInvalidInput, "load shifts")).Msg("failed to load shifts")
		os.Exit(1)
	}
	coverageAll, err := csvio.LoadCoverage(*coveragePath)
	if err != nil {
		logger.WithError(apperrors.Wrap(err, apperrors.CodeInvalidInput, "load coverage")).Msg("failed to load coverage requirements")
		os.Exit(1)
	}
	coverageWeekday, coverageWeekend := csvio.SplitByDayType(coverageAll)

	logger.Info().
		Str("run_id", run.String()).
		Int("employees", len(employees)).
		Int("shifts", len(shifts)).
		Int("weeks", *numWeeks).
		Msg("starting scheduling run")

	searchResult := search.FindOptimalVacationLength(
		employees, coverageWeekday, coverageWeekend, period,
		*numWeeks, *minDays, *maxDays, cfg.Scheduler, schedLog,
	)
	if searchResult.Err != nil {
		logger.WithError(searchResult.Err).Msg("no vacation length satisfies weekly hour caps; proceeding with least-bad attempt")
	}
	vacations := searchResult.Best.Vacation
	vacDiag := searchResult.Best.VacationDiag

	if len(vacDiag.Unplaced) > 0 {
		logger.Warn().
			Int("count", len(vacDiag.Unplaced)).
			Msg("some employees could not be given a vacation block")
	}

	dates := model.Period(period, *numWeeks)
	assignment, workState, shiftDiag := shift.AssignShifts(
		employees, vacations, coverageWeekday, coverageWeekend, dates, shifts,
		cfg.Scheduler, schedLog,
	)
	for _, u := range shiftDiag.Unfilled {
		schedLog.UnfilledSlot(u.Date.String(), string(u.Shift), u.Skill.String(), u.Missing)
	}

	assignment, workState, rebalanceDiag := rebalance.Rebalance(
		assignment, workState, employees, vacations,
		coverageWeekday, coverageWeekend, shifts, cfg.Scheduler, schedLog,
	)

	checker := &validator.Checker{
		Employees:       employees,
		Vacations:       vacations,
		Assignment:      assignment,
		CoverageWeekday: coverageWeekday,
		CoverageWeekend: coverageWeekend,
		Dates:           dates,
	}
	for _, v := range checker.CheckAll(workState) {
		logger.WithError(v.Err()).Msg("schedule violates an invariant")
	}

	summary := stats.Summarize(
		vacations, employees, workState, searchResult.Best.TargetDays,
		len(shiftDiag.Unfilled), len(shiftDiag.Tier3Uses),
	)
	if summary.UnfilledSlots > 0 {
		unfilledErr := apperrors.New(apperrors.CodeUnfilledSlot, "coverage slots left unfilled").
			WithField("count", summary.UnfilledSlots)
		logger.WithError(unfilledErr).Msg("schedule has coverage gaps")
	}

	logger.Info().
		Int("rebalance_passes", rebalanceDiag.PassesRun).
		Int("rebalance_transfers", rebalanceDiag.TotalTransfers).
		Int("unfilled_slots", summary.UnfilledSlots).
		Int("tier3_uses", summary.Tier3Uses).
		Msg("scheduling run complete")

	printSummary(summary)

	if *outputPath != "" {
		if err := csvio.WriteAssignments(*outputPath, employees, dates, vacations, assignment); err != nil {
			logger.WithError(err).Msg("failed to export the assignment CSV")
			os.Exit(1)
		}
		logger.Info().Str("path", *outputPath).Msg("assignment exported")
	}

	if *persist {
		db, err := store.New(&cfg.Database)
		if err != nil {
			logger.WithError(err).Msg("failed to connect to the schedule store")
			os.Exit(1)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := store.SaveRun(ctx, db, store.RunRecord{
			ID:        run.ID,
			StartedAt: run.StartedAt,
			Summary:   summary,
		}); err != nil {
			logger.WithError(err).Msg("failed to save the run summary")
			os.Exit(1)
		}
		logger.Info().Str("run_id", run.String()).Msg("run summary saved")
	}
}

func printSummary(summary stats.Summary) {
	fmt.Printf("Vacation days: min=%d max=%d mean=%.1f\n", summary.Vacation.Min, summary.Vacation.Max, summary.Vacation.Mean)
	fmt.Printf("Shift counts:  min=%.0f max=%.0f mean=%.1f\n", summary.ShiftCounts.Min, summary.ShiftCounts.Max, summary.ShiftCounts.Mean)
	fmt.Printf("Total hours:   min=%.1f max=%.1f mean=%.1f\n", summary.TotalHours.Min, summary.TotalHours.Max, summary.TotalHours.Mean)
	fmt.Printf("Fairness:      shift gini=%.3f workload gini=%.3f variance=%.1f\n",
		summary.Fairness.ShiftGini, summary.Fairness.WorkloadGini, summary.Fairness.WorkloadVariance)
	fmt.Printf("Unfilled slots: %d, Tier-3 uses: %d\n", summary.UnfilledSlots, summary.Tier3Uses)
}

// showSavedRun loads one persisted run by ID and prints its summary.
func showSavedRun(cfg *config.Config, rawID string) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		logger.WithError(apperrors.InvalidInput("show-run", err.Error())).Msg("invalid run ID")
		os.Exit(1)
	}

	db, err := store.New(&cfg.Database)
	if err != nil {
		logger.WithError(err).Msg("failed to connect to the schedule store")
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	record, err := store.LoadRun(ctx, db, id)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			logger.WithError(err).Str("run_id", rawID).Msg("no saved run with that ID")
		} else {
			logger.WithError(err).Msg("failed to load the saved run")
		}
		os.Exit(1)
	}

	fmt.Printf("Run %s, started %s\n", record.ID, record.StartedAt.Format(time.RFC3339))
	printSummary(record.Summary)
}
