package shift

import "github.com/nordatc/shiftplan/pkg/model"

// WeekKey identifies one employee's Monday-anchored week bucket.
type WeekKey struct {
	Employee  model.EmployeeID
	WeekStart model.Date
}

// WorkState holds the mutable per-employee bookkeeping tables the tiered
// assigner and the rebalancer both read and update. The scheduler owns one
// instance per run; it is not shared across runs.
type WorkState struct {
	HoursPerWeek        map[WeekKey]float64
	ShiftCounts         map[model.EmployeeID]int
	TotalHours          map[model.EmployeeID]float64
	ConsecutiveWorkDays map[model.EmployeeID]int
	LastWorkDate        map[model.EmployeeID]model.Date
	hasLastWork         map[model.EmployeeID]bool
}

// NewWorkState returns an empty state table set.
func NewWorkState() *WorkState {
	return &WorkState{
		HoursPerWeek:        make(map[WeekKey]float64),
		ShiftCounts:         make(map[model.EmployeeID]int),
		TotalHours:          make(map[model.EmployeeID]float64),
		ConsecutiveWorkDays: make(map[model.EmployeeID]int),
		LastWorkDate:        make(map[model.EmployeeID]model.Date),
		hasLastWork:         make(map[model.EmployeeID]bool),
	}
}

// WeekHours returns the accumulated hours for emp in the week starting at
// weekStart.
func (s *WorkState) WeekHours(emp model.EmployeeID, weekStart model.Date) float64 {
	return s.HoursPerWeek[WeekKey{Employee: emp, WeekStart: weekStart}]
}

// RecordAssignment updates every table after assigning emp to a shift of
// the given duration on date, whose Monday-anchored week starts at
// weekStart.
func (s *WorkState) RecordAssignment(emp model.EmployeeID, date model.Date, weekStart model.Date, hours float64) {
	key := WeekKey{Employee: emp, WeekStart: weekStart}
	s.HoursPerWeek[key] += hours
	s.TotalHours[emp] += hours
	s.ShiftCounts[emp]++

	if s.hasLastWork[emp] && s.LastWorkDate[emp].Equal(date.Add(-1)) {
		s.ConsecutiveWorkDays[emp]++
	} else {
		s.ConsecutiveWorkDays[emp] = 1
	}
	s.LastWorkDate[emp] = date
	s.hasLastWork[emp] = true
}

// Adjust applies a raw hours/count delta to emp's week bucket, used by the
// rebalancer when it moves a shift between employees without touching
// consecutive-day bookkeeping.
func (s *WorkState) Adjust(emp model.EmployeeID, weekStart model.Date, hoursDelta float64, countDelta int) {
	key := WeekKey{Employee: emp, WeekStart: weekStart}
	s.HoursPerWeek[key] += hoursDelta
	s.TotalHours[emp] += hoursDelta
	s.ShiftCounts[emp] += countDelta
}

// Clone returns an independent copy of the state tables.
func (s *WorkState) Clone() *WorkState {
	out := NewWorkState()
	for k, v := range s.HoursPerWeek {
		out.HoursPerWeek[k] = v
	}
	for k, v := range s.ShiftCounts {
		out.ShiftCounts[k] = v
	}
	for k, v := range s.TotalHours {
		out.TotalHours[k] = v
	}
	for k, v := range s.ConsecutiveWorkDays {
		out.ConsecutiveWorkDays[k] = v
	}
	for k, v := range s.LastWorkDate {
		out.LastWorkDate[k] = v
	}
	for k, v := range s.hasLastWork {
		out.hasLastWork[k] = v
	}
	return out
}

// RemoveAssignment reverses RecordAssignment's hour and count bookkeeping.
// It does not attempt to repair ConsecutiveWorkDays/LastWorkDate, which the
// rebalancer does not depend on once the initial assignment pass is done.
func (s *WorkState) RemoveAssignment(emp model.EmployeeID, weekStart model.Date, hours float64) {
	key := WeekKey{Employee: emp, WeekStart: weekStart}
	s.HoursPerWeek[key] -= hours
	s.TotalHours[emp] -= hours
	s.ShiftCounts[emp]--
}
