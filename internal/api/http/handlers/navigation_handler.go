package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mahajanautomation/crm-backend/internal/api/dto"
	"github.com/mahajanautomation/crm-backend/internal/auth"
	"github.com/mahajanautomation/crm-backend/internal/domain"
	"github.com/mahajanautomation/crm-backend/internal/service"
	apperrors "github.com/mahajanautomation/crm-backend/pkg/util"
)

// NavigationHandler answers route resolution and serves the dashboard.
type NavigationHandler struct {
	reports *service.ReportService
}

// NewNavigationHandler constructs handler.
func NewNavigationHandler(reportService *service.ReportService) *NavigationHandler {
	return &NavigationHandler{reports: reportService}
}

// Resolve handles GET /api/navigation/resolve?path=. Anonymous callers are sent to the login
// screen and callers lacking the role to the dashboard.
func (h *NavigationHandler) Resolve(c *fiber.Ctx) error {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		return apperrors.NewValidationError("path required", map[string]any{"path": "is required"})
	}
	requested := domain.Route(path)
	target := auth.ResolveRoute(auth.CurrentUser(c), requested)
	return c.JSON(fiber.Map{"data": dto.RouteResolution{
		Requested: requested,
		Target:    target,
		Allowed:   target == requested,
	}})
}

// Dashboard handles GET /api/dashboard.
func (h *NavigationHandler) Dashboard(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	dashboard, err := h.reports.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Greeting:    "Welcome back, " + user.Name,
		Summary:     summaryResponse(dashboard.Summary),
		RecentLeads: leadResponses(dashboard.RecentLeads, user),
		Navigation:  auth.Navigation(user.Role),
	}})
}
