// Package triage holds the deterministic department and urgency rules used
// when the external classifier cannot give a usable answer.
package triage

import "strings"

// Department labels.
const (
	DeptCatering    = "Catering"
	DeptCleanliness = "Cleanliness"
	DeptCoach       = "Coach"
	DeptElectrical  = "Electrical"
	DeptGeneral     = "General"
	DeptMaintenance = "Maintenance"
	DeptMedical     = "Medical"
	DeptSecurity    = "Security"
	DeptTicketing   = "Ticketing"
	DeptWater       = "Water"
)

type keywordRule struct {
	department string
	keywords   []string
}

// Order matters: the first rule with a hit wins.
var keywordRules = []keywordRule{
	{DeptSecurity, []string{"security", "theft", "steal", "snatch", "rob", "fight", "harass", "unsafe", "police", "rpf", "sos"}},
	{DeptMedical, []string{"medical", "doctor", "ambulance", "heart attack", "injury", "blood", "faint", "poison"}},
	{DeptWater, []string{"water", "no water", "drinking", "tap", "toilet water"}},
	{DeptCleanliness, []string{"clean", "dirty", "toilet", "restroom", "sanitation", "garbage", "smell"}},
	{DeptCatering, []string{"food", "catering", "meal", "vendor"}},
	{DeptElectrical, []string{"light", "fan", "charging", "socket", "electric", "power"}},
	{DeptCoach, []string{"coach", "berth", "seat", "window", "door", "ac"}},
	{DeptTicketing, []string{"ticket", "refund", "pnr", "reservation", "booking"}},
	{DeptMaintenance, []string{"repair", "maintenance", "broken", "damage", "leak"}},
}

// InferDepartment classifies complaint text by keyword membership.
// Blank text and texts without any hit map to General.
func InferDepartment(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return DeptGeneral
	}
	for _, rule := range keywordRules {
		if containsAny(normalized, rule.keywords) {
			return rule.department
		}
	}
	return DeptGeneral
}

// IsGeneral reports whether a department label carries no routing signal.
func IsGeneral(department string) bool {
	d := strings.TrimSpace(department)
	return d == "" || strings.EqualFold(d, DeptGeneral)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
