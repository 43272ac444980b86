// Package coverage answers whether a candidate set of employees can satisfy
// a day's coverage requirements. The shift-duration helper lives on the
// model type as model.Shift.DurationHours.
package coverage

import "github.com/nordatc/shiftplan/pkg/model"

// SkillNeeds sums the required head-count per non-Any skill across a day's
// coverage requirements.
func SkillNeeds(requirements []model.CoverageRequirement) map[string]int {
	needs := make(map[string]int)
	for _, req := range requirements {
		if req.Skill.IsAny() {
			continue
		}
		needs[req.Skill.Tag()] += req.Required
	}
	return needs
}

// TotalNeeded sums the required head-count across all of a day's requirements.
func TotalNeeded(requirements []model.CoverageRequirement) int {
	total := 0
	for _, req := range requirements {
		total += req.Required
	}
	return total
}

// Feasible reports whether the given available employees can in principle
// satisfy requirements. It is a necessary, not sufficient, check: it ignores
// the conjunction between skill slots on the same day, so an employee
// counted toward one skill's pool is not excluded from another's. The
// vacation allocator depends on this permissiveness to find solutions at
// all, so the approximation is kept deliberately.
func Feasible(available []*model.Employee, requirements []model.CoverageRequirement) bool {
	if len(available) < TotalNeeded(requirements) {
		return false
	}

	needs := SkillNeeds(requirements)
	if len(needs) == 0 {
		return true
	}

	have := make(map[string]int, len(needs))
	for _, emp := range available {
		for skill := range needs {
			if emp.HasSkill(skill) {
				have[skill]++
			}
		}
	}

	for skill, need := range needs {
		if have[skill] < need {
			return false
		}
	}
	return true
}
