// Package lifecycle applies status transitions, assignment and remark edits
// to a complaint in memory. Persisting the result is the caller's job.
package lifecycle

import (
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/identity"
)

// ErrActorUnresolved is returned when a transition has no known actor.
var ErrActorUnresolved = errors.New("acting identity could not be resolved")

// timestampStep is the smallest increment the store keeps.
const timestampStep = time.Microsecond

// Touch advances UpdatedAt so it strictly increases and never precedes CreatedAt.
func Touch(c *domain.Complaint, now time.Time) {
	now = now.Truncate(timestampStep)
	floor := c.UpdatedAt
	if c.CreatedAt.After(floor) {
		floor = c.CreatedAt
	}
	if !now.After(floor) {
		now = floor.Add(timestampStep)
	}
	c.UpdatedAt = now
}

// Transition moves c to target on behalf of actor and returns the audit entry
// to append. An entry is produced even when the status does not change.
func Transition(c *domain.Complaint, target domain.ComplaintStatus, actor *domain.Identity, now time.Time) (*domain.ComplaintHistory, error) {
	if actor == nil {
		return nil, ErrActorUnresolved
	}
	old := c.Status
	c.Status = target
	if target.IsResolved() {
		name := identity.ActorName(actor)
		role := string(actor.Role)
		c.ResolvedBy = &name
		c.ResolvedByRole = &role
	} else {
		c.ResolvedBy = nil
		c.ResolvedByRole = nil
	}
	Touch(c, now)

	return &domain.ComplaintHistory{
		ComplaintID: c.ID,
		OldStatus:   old,
		NewStatus:   target,
		UpdatedBy:   actor.Username,
		UpdatedAt:   c.UpdatedAt,
	}, nil
}

// Assign hands c to assignee. Remarks are replaced only when non-blank and a
// PENDING complaint moves to IN_PROGRESS.
func Assign(c *domain.Complaint, assignee string, remarks *string, now time.Time) {
	name := strings.TrimSpace(assignee)
	c.AssignedTo = &name
	if remarks != nil && strings.TrimSpace(*remarks) != "" {
		r := *remarks
		c.Remarks = &r
	}
	if c.Status == domain.ComplaintStatusPending {
		c.Status = domain.ComplaintStatusInProgress
	}
	Touch(c, now)
}

// UpdateRemarks overwrites the staff remarks; a blank value clears them.
func UpdateRemarks(c *domain.Complaint, remarks string, now time.Time) {
	if strings.TrimSpace(remarks) == "" {
		c.Remarks = nil
	} else {
		c.Remarks = &remarks
	}
	Touch(c, now)
}
