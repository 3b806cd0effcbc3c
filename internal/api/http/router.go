package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Complaints     *handlers.ComplaintsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Get("/track/:reference", cfg.Complaints.Track)

	complaints := app.Group("/complaints", cfg.AuthMiddleware.Handle)
	complaints.Post("/", cfg.Complaints.CreateComplaint)
	complaints.Get("/", cfg.Complaints.ListComplaints)
	complaints.Get("/my", cfg.Complaints.ListMine)
	complaints.Get("/my-complaints", cfg.Complaints.ListMine)
	complaints.Get("/station/:station?", cfg.Complaints.ListByStation)
	complaints.Get("/department/:department", cfg.Complaints.ListByDepartment)
	complaints.Get("/assigned-to/:staffName", cfg.Complaints.ListByAssignee)
	complaints.Get("/:id", cfg.Complaints.GetComplaint)
	complaints.Get("/:id/history", cfg.Complaints.ListHistory)
	complaints.Patch("/:id/assign", cfg.Complaints.Assign)
	complaints.Patch("/:id/status", auth.RequireAuthenticated(), cfg.Complaints.UpdateStatus)
	complaints.Patch("/:id/remarks", cfg.Complaints.UpdateRemarks)
}
