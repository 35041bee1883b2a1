package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mahajanautomation/crm-backend/internal/api/dto"
	"github.com/mahajanautomation/crm-backend/internal/auth"
	"github.com/mahajanautomation/crm-backend/internal/service"
)

// LeadsHandler exposes the lead lifecycle.
type LeadsHandler struct {
	service *service.LeadService
}

// NewLeadsHandler constructs handler.
func NewLeadsHandler(leadService *service.LeadService) *LeadsHandler {
	return &LeadsHandler{service: leadService}
}

// List GET /api/leads.
func (h *LeadsHandler) List(c *fiber.Ctx) error {
	filter, err := parseLeadFilter(c)
	if err != nil {
		return err
	}
	leads, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": leadResponses(leads, auth.CurrentUser(c))})
}

// Get GET /api/leads/:id.
func (h *LeadsHandler) Get(c *fiber.Ctx) error {
	lead, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": leadResponse(lead, auth.CurrentUser(c))})
}

// Create POST /api/leads.
func (h *LeadsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateLeadRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user := auth.CurrentUser(c)
	lead, err := h.service.Create(c.UserContext(), user, service.LeadInput{
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Application:   req.Application,
		Status:        req.Status,
		Source:        req.Source,
		AssignedTo:    req.AssignedTo,
		SpareParts:    req.SpareParts,
		Attachments:   req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": leadResponse(lead, user)})
}

// Update PUT /api/leads/:id. An unknown id is a silent no-op.
func (h *LeadsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateLeadRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user := auth.CurrentUser(c)
	lead, err := h.service.Update(c.UserContext(), user, c.Params("id"), service.LeadPatch{
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Application:   req.Application,
		Status:        req.Status,
		Source:        req.Source,
		AssignedTo:    req.AssignedTo,
		SpareParts:    req.SpareParts,
		Attachments:   req.Attachments,
	})
	if err != nil {
		return err
	}
	if lead == nil {
		return c.SendStatus(http.StatusNoContent)
	}
	return c.JSON(fiber.Map{"data": leadResponse(lead, user)})
}

// Delete DELETE /api/leads/:id.
func (h *LeadsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), auth.CurrentUser(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddMemo POST /api/leads/:id/memos.
func (h *LeadsHandler) AddMemo(c *fiber.Ctx) error {
	var req dto.CreateMemoRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	memo, err := h.service.AddMemo(c.UserContext(), auth.CurrentUser(c), c.Params("id"), service.MemoInput{
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": memo})
}

// AddFollowUp POST /api/leads/:id/follow-ups.
func (h *LeadsHandler) AddFollowUp(c *fiber.Ctx) error {
	var req dto.CreateFollowUpRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	followUp, err := h.service.AddFollowUp(c.UserContext(), auth.CurrentUser(c), c.Params("id"), service.FollowUpInput{
		Content:     req.Content,
		Type:        req.Type,
		ScheduledAt: req.ScheduledAt,
		CompletedAt: req.CompletedAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": followUp})
}
