package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mahajanautomation/crm-backend/internal/api/dto"
	"github.com/mahajanautomation/crm-backend/internal/auth"
	"github.com/mahajanautomation/crm-backend/internal/domain"
	"github.com/mahajanautomation/crm-backend/internal/service"
	apperrors "github.com/mahajanautomation/crm-backend/pkg/util"
)

// ReportsHandler exposes report summary, preview and CSV export.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Summary GET /api/reports/summary.
func (h *ReportsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summaryResponse(*summary)})
}

// Preview GET /api/reports/preview lists what an export with the same query would contain.
func (h *ReportsHandler) Preview(c *fiber.Ctx) error {
	filter, err := parseReportFilter(c)
	if err != nil {
		return err
	}
	selection, err := h.service.Select(c.UserContext(), filter)
	if err != nil {
		return err
	}
	user := auth.CurrentUser(c)
	resp := dto.ReportPreviewResponse{Type: selection.Kind, Count: selection.Len()}
	if selection.Kind == domain.ReportLeads {
		resp.Leads = leadResponses(selection.Leads, user)
	} else {
		resp.Proposals = proposalResponses(selection.Proposals, user)
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Export GET /api/reports/export streams the CSV as an attachment.
func (h *ReportsHandler) Export(c *fiber.Ctx) error {
	filter, err := parseReportFilter(c)
	if err != nil {
		return err
	}
	file, err := h.service.Export(c.UserContext(), filter)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Set("X-Report-Rows", strconv.Itoa(file.Rows))
	return c.Send(file.Content)
}

func parseReportFilter(c *fiber.Ctx) (service.ReportFilter, error) {
	details := map[string]any{}
	filter := service.ReportFilter{
		Kind:      domain.ReportKind(strings.TrimSpace(c.Query("type", string(domain.ReportLeads)))),
		CreatedBy: strings.TrimSpace(c.Query("created_by")),
		Status:    strings.TrimSpace(c.Query("status")),
	}
	filter.From, filter.To = parseDateRange(c, details)
	if len(details) > 0 {
		return filter, apperrors.NewValidationError("invalid report filter", details)
	}
	return filter, nil
}
