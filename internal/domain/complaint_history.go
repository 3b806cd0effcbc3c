package domain

import "time"

// ComplaintHistory is an immutable audit trail entry for a status transition.
type ComplaintHistory struct {
	ID          string
	ComplaintID string
	OldStatus   ComplaintStatus
	NewStatus   ComplaintStatus
	UpdatedBy   string
	UpdatedAt   time.Time
}
