package triage

import "strings"

// Priority tags understood by the urgency mapper.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Urgency scores per priority.
const (
	UrgencyHigh   = 95
	UrgencyMedium = 70
	UrgencyLow    = 35
)

var categoryIndex = [...]string{
	DeptCatering,
	DeptCleanliness,
	DeptCoach,
	DeptElectrical,
	DeptGeneral,
	DeptMaintenance,
	DeptMedical,
	DeptSecurity,
	DeptTicketing,
	DeptWater,
}

// UrgencyForPriority maps a priority tag to a score. Anything other than
// high or medium scores as low.
func UrgencyForPriority(priority string) int {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case PriorityHigh:
		return UrgencyHigh
	case PriorityMedium:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// PriorityForDepartment returns the fallback priority of a department.
func PriorityForDepartment(department string) string {
	switch department {
	case DeptMedical, DeptSecurity:
		return PriorityHigh
	case DeptElectrical, DeptCoach, DeptMaintenance, DeptWater:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// DepartmentForIndex maps a classifier category index onto a department.
func DepartmentForIndex(idx int) (string, bool) {
	if idx < 0 || idx >= len(categoryIndex) {
		return "", false
	}
	return categoryIndex[idx], true
}
