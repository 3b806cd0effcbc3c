package dto

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	ComplaintText   string     `json:"complaintText"`
	PassengerName   string     `json:"passengerName"`
	PassengerPhone  *string    `json:"passengerPhone"`
	TrainNumber     *string    `json:"trainNumber"`
	IncidentTime    *time.Time `json:"incidentTime"`
	Station         *string    `json:"station"`
	PreviousStation *string    `json:"previousStation"`
	NextStation     *string    `json:"nextStation"`
	Category        string     `json:"category"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	NewStatus string `json:"newStatus"`
}

// UpdateRemarksRequest payload.
type UpdateRemarksRequest struct {
	Remarks string `json:"remarks"`
}

// ComplaintResponse is the staff-facing view of a complaint.
type ComplaintResponse struct {
	ID              string                 `json:"id"`
	Reference       string                 `json:"reference"`
	PassengerName   string                 `json:"passengerName"`
	PassengerPhone  *string                `json:"passengerPhone,omitempty"`
	CreatedBy       *string                `json:"createdBy,omitempty"`
	ComplaintText   string                 `json:"complaintText"`
	TrainNumber     *string                `json:"trainNumber,omitempty"`
	IncidentTime    *time.Time             `json:"incidentTime,omitempty"`
	Category        string                 `json:"category"`
	Department      *string                `json:"department,omitempty"`
	UrgencyScore    int                    `json:"urgencyScore"`
	Status          domain.ComplaintStatus `json:"status"`
	Station         *string                `json:"station,omitempty"`
	PreviousStation *string                `json:"previousStation,omitempty"`
	NextStation     *string                `json:"nextStation,omitempty"`
	AssignedTo      *string                `json:"assignedTo,omitempty"`
	Remarks         *string                `json:"remarks,omitempty"`
	ResolvedBy      *string                `json:"resolvedBy,omitempty"`
	ResolvedByRole  *string                `json:"resolvedByRole,omitempty"`
	AIMetadata      json.RawMessage        `json:"aiMetadata,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// TrackingResponse is the public view returned by reference lookups.
type TrackingResponse struct {
	Reference    string                 `json:"reference"`
	Status       domain.ComplaintStatus `json:"status"`
	Category     string                 `json:"category"`
	Department   *string                `json:"department,omitempty"`
	UrgencyScore int                    `json:"urgencyScore"`
	Station      *string                `json:"station,omitempty"`
	AssignedTo   *string                `json:"assignedTo,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

// HistoryEntryResponse describes one audit record.
type HistoryEntryResponse struct {
	ID          string                 `json:"id"`
	ComplaintID string                 `json:"complaintId"`
	OldStatus   domain.ComplaintStatus `json:"oldStatus"`
	NewStatus   domain.ComplaintStatus `json:"newStatus"`
	UpdatedBy   string                 `json:"updatedBy"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// NewComplaintResponse maps the domain model.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:              c.ID,
		Reference:       c.Reference,
		PassengerName:   c.PassengerName,
		PassengerPhone:  c.PassengerPhone,
		CreatedBy:       c.CreatedBy,
		ComplaintText:   c.Text,
		TrainNumber:     c.TrainNumber,
		IncidentTime:    c.IncidentAt,
		Category:        c.Category,
		Department:      c.Department,
		UrgencyScore:    c.UrgencyScore,
		Status:          c.Status,
		Station:         c.Station,
		PreviousStation: c.PreviousStation,
		NextStation:     c.NextStation,
		AssignedTo:      c.AssignedTo,
		Remarks:         c.Remarks,
		ResolvedBy:      c.ResolvedBy,
		ResolvedByRole:  c.ResolvedByRole,
		AIMetadata:      c.Provenance,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// NewComplaintList maps a slice, never returning nil.
func NewComplaintList(complaints []domain.Complaint) []ComplaintResponse {
	items := make([]ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, NewComplaintResponse(&complaints[i]))
	}
	return items
}

// NewTrackingResponse maps the public subset.
func NewTrackingResponse(c *domain.Complaint) TrackingResponse {
	return TrackingResponse{
		Reference:    c.Reference,
		Status:       c.Status,
		Category:     c.Category,
		Department:   c.Department,
		UrgencyScore: c.UrgencyScore,
		Station:      c.Station,
		AssignedTo:   c.AssignedTo,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// NewHistoryList maps audit entries.
func NewHistoryList(entries []domain.ComplaintHistory) []HistoryEntryResponse {
	items := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryEntryResponse{
			ID:          e.ID,
			ComplaintID: e.ComplaintID,
			OldStatus:   e.OldStatus,
			NewStatus:   e.NewStatus,
			UpdatedBy:   e.UpdatedBy,
			UpdatedAt:   e.UpdatedAt,
		})
	}
	return items
}
