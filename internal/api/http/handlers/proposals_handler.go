package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mahajanautomation/crm-backend/internal/api/dto"
	"github.com/mahajanautomation/crm-backend/internal/auth"
	"github.com/mahajanautomation/crm-backend/internal/service"
)

// ProposalsHandler exposes the proposal lifecycle.
type ProposalsHandler struct {
	service *service.ProposalService
}

// NewProposalsHandler constructs handler.
func NewProposalsHandler(proposalService *service.ProposalService) *ProposalsHandler {
	return &ProposalsHandler{service: proposalService}
}

// List GET /api/proposals.
func (h *ProposalsHandler) List(c *fiber.Ctx) error {
	filter, err := parseProposalFilter(c)
	if err != nil {
		return err
	}
	proposals, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": proposalResponses(proposals, auth.CurrentUser(c))})
}

// Get GET /api/proposals/:id.
func (h *ProposalsHandler) Get(c *fiber.Ctx) error {
	proposal, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": proposalResponse(proposal, auth.CurrentUser(c))})
}

// Create POST /api/proposals.
func (h *ProposalsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProposalRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user := auth.CurrentUser(c)
	proposal, err := h.service.Create(c.UserContext(), user, service.ProposalInput{
		LeadID:      req.LeadID,
		TemplateID:  req.TemplateID,
		Title:       req.Title,
		Robot:       req.Robot,
		Controller:  req.Controller,
		Reach:       req.Reach,
		Payload:     req.Payload,
		Brand:       req.Brand,
		Cost:        req.Cost,
		Status:      req.Status,
		SpareParts:  req.SpareParts,
		Attachments: req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": proposalResponse(proposal, user)})
}

// Update PUT /api/proposals/:id. An unknown id is a silent no-op.
func (h *ProposalsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateProposalRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user := auth.CurrentUser(c)
	proposal, err := h.service.Update(c.UserContext(), user, c.Params("id"), service.ProposalPatch{
		LeadID:      req.LeadID,
		TemplateID:  req.TemplateID,
		Title:       req.Title,
		Robot:       req.Robot,
		Controller:  req.Controller,
		Reach:       req.Reach,
		Payload:     req.Payload,
		Brand:       req.Brand,
		Cost:        req.Cost,
		Status:      req.Status,
		SpareParts:  req.SpareParts,
		Attachments: req.Attachments,
	})
	if err != nil {
		return err
	}
	if proposal == nil {
		return c.SendStatus(http.StatusNoContent)
	}
	return c.JSON(fiber.Map{"data": proposalResponse(proposal, user)})
}

// Delete DELETE /api/proposals/:id.
func (h *ProposalsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), auth.CurrentUser(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
