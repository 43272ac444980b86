package model

// VacationAssignment maps an employee to their (possibly empty) vacation block.
// A non-empty block is always a contiguous run of dates in ascending order.
type VacationAssignment map[EmployeeID][]Date

// AssignmentKey identifies one employee's shift on one date.
type AssignmentKey struct {
	Employee EmployeeID
	Date     Date
}

// ShiftAssignment maps (employee, date) to the shift they work. Absence of a key
// means unassigned on that date (vacation or simply not scheduled).
type ShiftAssignment map[AssignmentKey]ShiftID
