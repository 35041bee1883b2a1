package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mahajanautomation/crm-backend/internal/domain"
	"github.com/mahajanautomation/crm-backend/internal/repository"
	"github.com/mahajanautomation/crm-backend/internal/timeutil"
	apperrors "github.com/mahajanautomation/crm-backend/pkg/util"
)

// parseDateRange reads from/to as YYYY-MM-DD calendar days in IST. Both bounds are
// inclusive: from starts at midnight and to runs to the end of its day.
func parseDateRange(c *fiber.Ctx, details map[string]any) (from, to *time.Time) {
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		day, err := timeutil.ParseDateInIST(raw)
		if err != nil {
			details["from"] = "must be a YYYY-MM-DD date"
		} else {
			start := timeutil.StartOfDay(day)
			from = &start
		}
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		day, err := timeutil.ParseDateInIST(raw)
		if err != nil {
			details["to"] = "must be a YYYY-MM-DD date"
		} else {
			end := timeutil.EndOfDay(day)
			to = &end
		}
	}
	return from, to
}

func parseLeadFilter(c *fiber.Ctx) (repository.LeadFilter, error) {
	details := map[string]any{}
	filter := repository.LeadFilter{
		Status:      domain.LeadStatus(strings.TrimSpace(c.Query("status"))),
		Source:      domain.LeadSource(strings.TrimSpace(c.Query("source"))),
		Application: strings.TrimSpace(c.Query("application")),
		AssignedTo:  strings.TrimSpace(c.Query("assigned_to")),
		CreatedBy:   strings.TrimSpace(c.Query("created_by")),
		Search:      c.Query("search"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		details["status"] = "is not a lead status"
	}
	if filter.Source != "" && !filter.Source.Valid() {
		details["source"] = "is not a lead source"
	}
	filter.CreatedFrom, filter.CreatedTo = parseDateRange(c, details)
	if len(details) > 0 {
		return filter, apperrors.NewValidationError("invalid filter", details)
	}
	return filter, nil
}

func parseProposalFilter(c *fiber.Ctx) (repository.ProposalFilter, error) {
	details := map[string]any{}
	filter := repository.ProposalFilter{
		Status:     domain.ProposalStatus(strings.TrimSpace(c.Query("status"))),
		LeadID:     strings.TrimSpace(c.Query("lead_id")),
		TemplateID: strings.TrimSpace(c.Query("template_id")),
		CreatedBy:  strings.TrimSpace(c.Query("created_by")),
		Search:     c.Query("search"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		details["status"] = "is not a proposal status"
	}
	filter.CreatedFrom, filter.CreatedTo = parseDateRange(c, details)
	if len(details) > 0 {
		return filter, apperrors.NewValidationError("invalid filter", details)
	}
	return filter, nil
}

func parseSparePartFilter(c *fiber.Ctx) (repository.SparePartFilter, error) {
	filter := repository.SparePartFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Brand:    strings.TrimSpace(c.Query("brand")),
		Search:   c.Query("search"),
	}
	if raw := strings.TrimSpace(c.Query("in_stock")); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid filter", map[string]any{"in_stock": "must be true or false"})
		}
		filter.InStock = &inStock
	}
	return filter, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"body": err.Error()})
	}
	return nil
}
