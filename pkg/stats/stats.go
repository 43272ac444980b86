// Package stats computes the vacation-distribution and shift/hour fairness
// metrics reported after a scheduling run.
package stats

import (
	"sort"

	"github.com/nordatc/shiftplan/pkg/model"
	"github.com/nordatc/shiftplan/pkg/scheduler/shift"
)

// VacationStats summarizes how vacation days were distributed.
type VacationStats struct {
	Min             int
	Max             int
	Mean            float64
	AtOrAboveTarget int
}

// WorkloadStats summarizes shift-count or hour distribution among working
// employees.
type WorkloadStats struct {
	Min  float64
	Max  float64
	Mean float64
}

// FairnessMetrics reports how evenly shifts and hours are spread across the
// working employees.
type FairnessMetrics struct {
	ShiftGini        float64
	WorkloadGini     float64
	WorkloadVariance float64
}

// Summary is the full statistical report handed back to callers.
type Summary struct {
	Vacation      VacationStats
	ShiftCounts   WorkloadStats
	TotalHours    WorkloadStats
	Fairness      FairnessMetrics
	UnfilledSlots int
	Tier3Uses     int
}

// Summarize derives the report from the final vacation assignment and the
// per-employee work state; the unfilled-slot and tier-3 counts are passed
// through as given.
func Summarize(
	vacations model.VacationAssignment,
	employees []*model.Employee,
	state *shift.WorkState,
	targetVacationDays int,
	unfilledSlots int,
	tier3Uses int,
) Summary {
	var summary Summary
	summary.UnfilledSlots = unfilledSlots
	summary.Tier3Uses = tier3Uses
	summary.Vacation = vacationStats(vacations, employees, targetVacationDays)
	summary.ShiftCounts = shiftCountStats(employees, state)
	summary.TotalHours = hourStats(employees, state)
	summary.Fairness = fairnessMetrics(employees, state)
	return summary
}

func fairnessMetrics(employees []*model.Employee, state *shift.WorkState) FairnessMetrics {
	var counts, hours []float64
	for _, e := range employees {
		if state.ShiftCounts[e.ID] > 0 {
			counts = append(counts, float64(state.ShiftCounts[e.ID]))
			hours = append(hours, state.TotalHours[e.ID])
		}
	}

	m := FairnessMetrics{
		ShiftGini:    Gini(counts),
		WorkloadGini: Gini(hours),
	}
	if len(hours) > 0 {
		sum := 0.0
		for _, h := range hours {
			sum += h
		}
		m.WorkloadVariance = Variance(hours, sum/float64(len(hours)))
	}
	return m
}

func vacationStats(vacations model.VacationAssignment, employees []*model.Employee, target int) VacationStats {
	if len(employees) == 0 {
		return VacationStats{}
	}

	counts := make([]int, len(employees))
	for i, e := range employees {
		counts[i] = len(vacations[e.ID])
	}

	stat := VacationStats{Min: counts[0], Max: counts[0]}
	sum := 0
	for _, c := range counts {
		if c < stat.Min {
			stat.Min = c
		}
		if c > stat.Max {
			stat.Max = c
		}
		sum += c
		if c >= target {
			stat.AtOrAboveTarget++
		}
	}
	stat.Mean = float64(sum) / float64(len(counts))
	return stat
}

func shiftCountStats(employees []*model.Employee, state *shift.WorkState) WorkloadStats {
	var counts []float64
	for _, e := range employees {
		if state.ShiftCounts[e.ID] > 0 {
			counts = append(counts, float64(state.ShiftCounts[e.ID]))
		}
	}
	return workloadStats(counts)
}

func hourStats(employees []*model.Employee, state *shift.WorkState) WorkloadStats {
	var hours []float64
	for _, e := range employees {
		if state.ShiftCounts[e.ID] > 0 {
			hours = append(hours, state.TotalHours[e.ID])
		}
	}
	return workloadStats(hours)
}

func workloadStats(values []float64) WorkloadStats {
	if len(values) == 0 {
		return WorkloadStats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return WorkloadStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: sum / float64(len(sorted)),
	}
}

// Gini computes the Gini coefficient of values (0 = perfectly equal; the
// maximum, (n-1)/n, is reached when one of n values holds the whole total).
// Used to gauge workload fairness across employees.
func Gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sum := 0.0
	weightedSum := 0.0
	for i, v := range sorted {
		sum += v
		weightedSum += float64(i+1) * v
	}
	if sum == 0 {
		return 0
	}
	return (2*weightedSum - float64(n+1)*sum) / (float64(n) * sum)
}

// Variance computes the population variance of values around mean.
func Variance(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}
