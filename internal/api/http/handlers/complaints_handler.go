package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintService is the application surface the handlers drive.
type ComplaintService interface {
	CreateComplaint(ctx context.Context, input service.CreateComplaintInput, caller *string) (*domain.Complaint, error)
	ListAll(ctx context.Context, caller *string) ([]domain.Complaint, error)
	ListMine(ctx context.Context, caller *string) ([]domain.Complaint, error)
	ListByStation(ctx context.Context, station string) ([]domain.Complaint, error)
	ListByDepartment(ctx context.Context, department string) ([]domain.Complaint, error)
	ListByAssignee(ctx context.Context, assignee string) ([]domain.Complaint, error)
	GetComplaint(ctx context.Context, id string) (*domain.Complaint, error)
	TrackByReference(ctx context.Context, reference string) (*domain.Complaint, error)
	ListHistory(ctx context.Context, id string) ([]domain.ComplaintHistory, error)
	Assign(ctx context.Context, id, assignee string, remarks *string) (*domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, caller *string) (*domain.Complaint, error)
	UpdateRemarks(ctx context.Context, id, remarks string) (*domain.Complaint, error)
}

// ComplaintsHandler serves complaint endpoints.
type ComplaintsHandler struct {
	service ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// CreateComplaint POST /complaints.
func (h *ComplaintsHandler) CreateComplaint(c *fiber.Ctx) error {
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.ComplaintText) == "" {
		return apperrors.NewValidationError("complaintText required", map[string]any{"field": "complaintText"})
	}

	input := service.CreateComplaintInput{
		Text:            req.ComplaintText,
		PassengerName:   req.PassengerName,
		PassengerPhone:  req.PassengerPhone,
		TrainNumber:     req.TrainNumber,
		IncidentAt:      req.IncidentTime,
		Station:         req.Station,
		PreviousStation: req.PreviousStation,
		NextStation:     req.NextStation,
		Category:        req.Category,
	}
	complaint, err := h.service.CreateComplaint(c.UserContext(), input, auth.CallerFromContext(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// ListComplaints GET /complaints.
func (h *ComplaintsHandler) ListComplaints(c *fiber.Ctx) error {
	complaints, err := h.service.ListAll(c.UserContext(), auth.CallerFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintList(complaints)})
}

// ListMine GET /complaints/my.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	complaints, err := h.service.ListMine(c.UserContext(), auth.CallerFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintList(complaints)})
}

// ListByStation GET /complaints/station/:station?. The station may also be
// passed as ?station=.
func (h *ComplaintsHandler) ListByStation(c *fiber.Ctx) error {
	station := pathParam(c, "station")
	if station == "" {
		station = c.Query("station")
	}
	complaints, err := h.service.ListByStation(c.UserContext(), station)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintList(complaints)})
}

// ListByDepartment GET /complaints/department/:department.
func (h *ComplaintsHandler) ListByDepartment(c *fiber.Ctx) error {
	complaints, err := h.service.ListByDepartment(c.UserContext(), pathParam(c, "department"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintList(complaints)})
}

// ListByAssignee GET /complaints/assigned-to/:staffName.
func (h *ComplaintsHandler) ListByAssignee(c *fiber.Ctx) error {
	complaints, err := h.service.ListByAssignee(c.UserContext(), pathParam(c, "staffName"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintList(complaints)})
}

// GetComplaint GET /complaints/:id.
func (h *ComplaintsHandler) GetComplaint(c *fiber.Ctx) error {
	complaint, err := h.service.GetComplaint(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// ListHistory GET /complaints/:id/history.
func (h *ComplaintsHandler) ListHistory(c *fiber.Ctx) error {
	entries, err := h.service.ListHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewHistoryList(entries)})
}

// Assign PATCH /complaints/:id/assign?staffName=&remarks=.
func (h *ComplaintsHandler) Assign(c *fiber.Ctx) error {
	staffName := strings.TrimSpace(c.Query("staffName"))
	if staffName == "" {
		return apperrors.NewValidationError("staffName required", map[string]any{"field": "staffName"})
	}
	var remarks *string
	if raw := c.Query("remarks"); raw != "" {
		remarks = &raw
	}
	complaint, err := h.service.Assign(c.UserContext(), c.Params("id"), staffName, remarks)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// UpdateStatus PATCH /complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status := domain.ParseStatus(req.NewStatus)
	if status == domain.ComplaintStatusUnknown {
		return apperrors.NewValidationError("unknown status", map[string]any{"newStatus": req.NewStatus})
	}
	complaint, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), status, auth.CallerFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// UpdateRemarks PATCH /complaints/:id/remarks.
func (h *ComplaintsHandler) UpdateRemarks(c *fiber.Ctx) error {
	var req dto.UpdateRemarksRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.service.UpdateRemarks(c.UserContext(), c.Params("id"), req.Remarks)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// Track GET /track/:reference.
func (h *ComplaintsHandler) Track(c *fiber.Ctx) error {
	complaint, err := h.service.TrackByReference(c.UserContext(), c.Params("reference"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTrackingResponse(complaint)})
}

func pathParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
