package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "PENDING"
	ComplaintStatusInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintStatusResolved   ComplaintStatus = "RESOLVED"
	ComplaintStatusUnknown    ComplaintStatus = "UNKNOWN"
)

// ParseStatus maps free-form input onto a known status, case-insensitively.
func ParseStatus(raw string) ComplaintStatus {
	switch ComplaintStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case ComplaintStatusPending:
		return ComplaintStatusPending
	case ComplaintStatusInProgress:
		return ComplaintStatusInProgress
	case ComplaintStatusResolved:
		return ComplaintStatusResolved
	default:
		return ComplaintStatusUnknown
	}
}

// IsResolved reports whether the status is RESOLVED in any casing.
func (s ComplaintStatus) IsResolved() bool {
	return strings.EqualFold(string(s), string(ComplaintStatusResolved))
}

// DefaultCategory is stored when the filer leaves the category blank.
const DefaultCategory = "GENERAL"

// Urgency bounds.
const (
	MinUrgency = 0
	MaxUrgency = 100
)

// Complaint is the aggregate for a filed grievance.
type Complaint struct {
	ID              string
	Reference       string
	PassengerName   string
	PassengerPhone  *string
	CreatedBy       *string
	Text            string
	TrainNumber     *string
	IncidentAt      *time.Time
	Category        string
	Department      *string
	UrgencyScore    int
	Status          ComplaintStatus
	Station         *string
	PreviousStation *string
	NextStation     *string
	AssignedTo      *string
	Remarks         *string
	ResolvedBy      *string
	ResolvedByRole  *string
	Provenance      json.RawMessage
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DepartmentOrEmpty returns the department label or "".
func (c *Complaint) DepartmentOrEmpty() string {
	if c == nil || c.Department == nil {
		return ""
	}
	return *c.Department
}

// ClampUrgency bounds a score to the allowed range.
func ClampUrgency(score int) int {
	if score < MinUrgency {
		return MinUrgency
	}
	if score > MaxUrgency {
		return MaxUrgency
	}
	return score
}
