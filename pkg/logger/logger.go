// Package logger provides the module's shared structured-logging setup.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Level is the zerolog level alias used throughout the module.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config controls where and how log lines are written.
type Config struct {
	Level      string `json:"level"`
	Format     string `json:"format"` // json/console
	Output     string `json:"output"` // stdout/stderr/file
	FilePath   string `json:"file_path,omitempty"`
	TimeFormat string `json:"time_format,omitempty"`
}

// DefaultConfig returns sane console-logging defaults.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	}
}

// Init configures the package-global logger. Only the first call takes effect.
func Init(cfg Config) {
	once.Do(func() {
		level := parseLevel(cfg.Level)
		zerolog.SetGlobalLevel(level)

		var output io.Writer
		switch cfg.Output {
		case "stderr":
			output = os.Stderr
		case "file":
			if cfg.FilePath != "" {
				f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err == nil {
					output = f
				} else {
					output = os.Stdout
				}
			} else {
				output = os.Stdout
			}
		default:
			output = os.Stdout
		}

		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{
				Out:        output,
				TimeFormat: cfg.TimeFormat,
			}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the package logger, initializing it with defaults on first use.
func Get() *zerolog.Logger {
	// Init runs its body only once, so this is a no-op after an explicit Init.
	Init(DefaultConfig())
	return &logger
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event { return Get().Debug() }

// Info starts an info-level event.
func Info() *zerolog.Event { return Get().Info() }

// Warn starts a warn-level event.
func Warn() *zerolog.Event { return Get().Warn() }

// Error starts an error-level event.
func Error() *zerolog.Event { return Get().Error() }

// WithError starts an error-level event carrying err.
func WithError(err error) *zerolog.Event { return Get().Error().Err(err) }

// SchedulerLogger is the component logger used by the vacation allocator, shift
// assigner, and rebalancer.
type SchedulerLogger struct {
	base *zerolog.Logger
}

// NewSchedulerLogger creates a logger tagged with component=scheduler.
func NewSchedulerLogger() *SchedulerLogger {
	l := Get().With().Str("component", "scheduler").Logger()
	return &SchedulerLogger{base: &l}
}

// StartVacationPlan logs the start of a vacation-block allocation run.
func (l *SchedulerLogger) StartVacationPlan(runID string, employees, periodDays, targetDays int) {
	l.base.Info().
		Str("run_id", runID).
		Int("employees", employees).
		Int("period_days", periodDays).
		Int("target_days", targetDays).
		Msg("starting vacation block allocation")
}

// VacationFallback logs that the allocator fell back to best-effort placement.
func (l *SchedulerLogger) VacationFallback(runID string, unplaced int) {
	l.base.Warn().
		Str("run_id", runID).
		Int("unplaced", unplaced).
		Msg("vacation allocator fell back to best-effort placement")
}

// VacationPlanComplete logs the outcome of a vacation-block allocation run.
func (l *SchedulerLogger) VacationPlanComplete(runID string, blockLength, spread int, duration time.Duration) {
	l.base.Info().
		Str("run_id", runID).
		Int("block_length", blockLength).
		Int("spread", spread).
		Dur("duration", duration).
		Msg("vacation block allocation complete")
}

// StartShiftAssignment logs the start of a per-date shift assignment run.
func (l *SchedulerLogger) StartShiftAssignment(runID string, employees, days int) {
	l.base.Info().
		Str("run_id", runID).
		Int("employees", employees).
		Int("days", days).
		Msg("starting shift assignment")
}

// TierEscalation logs that a slot needed to dip into a weaker candidate tier.
func (l *SchedulerLogger) TierEscalation(date, shift string, tier int) {
	l.base.Warn().
		Str("date", date).
		Str("shift", shift).
		Int("tier", tier).
		Msg("slot filled from a degraded candidate tier")
}

// UnfilledSlot logs a coverage slot that could not be filled even in tier 3.
func (l *SchedulerLogger) UnfilledSlot(date, shift, skill string, missing int) {
	l.base.Warn().
		Str("date", date).
		Str("shift", shift).
		Str("skill", skill).
		Int("missing", missing).
		Msg("coverage slot left unfilled")
}

// ShiftAssignmentComplete logs the outcome of a shift assignment run.
func (l *SchedulerLogger) ShiftAssignmentComplete(runID string, assignments, unfilled int, duration time.Duration) {
	l.base.Info().
		Str("run_id", runID).
		Int("assignments", assignments).
		Int("unfilled", unfilled).
		Dur("duration", duration).
		Msg("shift assignment complete")
}

// StartRebalance logs the start of the post-assignment rebalancing passes.
func (l *SchedulerLogger) StartRebalance(runID string, working int) {
	l.base.Info().
		Str("run_id", runID).
		Int("working_employees", working).
		Msg("starting rebalance passes")
}

// RebalancePass logs one completed rebalance pass.
func (l *SchedulerLogger) RebalancePass(pass, transfers int) {
	l.base.Debug().
		Int("pass", pass).
		Int("transfers", transfers).
		Msg("rebalance pass complete")
}

// RebalanceComplete logs the overall rebalance outcome.
func (l *SchedulerLogger) RebalanceComplete(runID string, passes, totalTransfers int, duration time.Duration) {
	l.base.Info().
		Str("run_id", runID).
		Int("passes", passes).
		Int("total_transfers", totalTransfers).
		Dur("duration", duration).
		Msg("rebalance complete")
}
