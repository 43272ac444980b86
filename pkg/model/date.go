// Package model defines the core data types of the scheduling engine.
package model

import "time"

// Date is a calendar day, stored at day granularity (UTC, time-of-day truncated).
type Date struct {
	t time.Time
}

// NewDate builds a Date from a year/month/day triple.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateFromTime truncates t to day granularity.
func DateFromTime(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Add returns the date n days after d (n may be negative).
func (d Date) Add(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Sub returns the number of days between d and other (d - other).
func (d Date) Sub(other Date) int {
	return int(d.t.Sub(other.t).Hours() / 24)
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// Equal reports whether d and other name the same day.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// Weekday returns the day of week, Monday=0 ... Sunday=6, per spec.
func (d Date) Weekday() int {
	// time.Weekday has Sunday=0; shift so Monday=0.
	return (int(d.t.Weekday()) + 6) % 7
}

// IsWeekend reports whether d falls on Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == 5 || wd == 6
}

// DayType returns the coverage day-type bucket for d.
func (d Date) DayType() DayType {
	if d.IsWeekend() {
		return Weekend
	}
	return Weekday
}

// WeekStart returns the Monday that starts d's ISO week.
func (d Date) WeekStart() Date {
	return d.Add(-d.Weekday())
}

// String renders d as YYYY-MM-DD.
func (d Date) String() string {
	return d.t.Format("2006-01-02")
}

// Period returns the n consecutive dates starting at start, in order.
func Period(start Date, numWeeks int) []Date {
	n := numWeeks * 7
	dates := make([]Date, n)
	for i := 0; i < n; i++ {
		dates[i] = start.Add(i)
	}
	return dates
}
