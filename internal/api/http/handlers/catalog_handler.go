package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mahajanautomation/crm-backend/internal/api/dto"
	"github.com/mahajanautomation/crm-backend/internal/service"
)

// SparePartsHandler exposes the spare part catalog.
type SparePartsHandler struct {
	service *service.SparePartService
}

// NewSparePartsHandler constructs handler.
func NewSparePartsHandler(partService *service.SparePartService) *SparePartsHandler {
	return &SparePartsHandler{service: partService}
}

// List GET /api/spare-parts.
func (h *SparePartsHandler) List(c *fiber.Ctx) error {
	filter, err := parseSparePartFilter(c)
	if err != nil {
		return err
	}
	parts, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.SparePartResponse, 0, len(parts))
	for i := range parts {
		items = append(items, sparePartResponse(&parts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/spare-parts/:id.
func (h *SparePartsHandler) Get(c *fiber.Ctx) error {
	part, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sparePartResponse(part)})
}

// Create POST /api/spare-parts.
func (h *SparePartsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSparePartRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	part, err := h.service.Create(c.UserContext(), service.SparePartInput{
		Name:        req.Name,
		PartNumber:  req.PartNumber,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		Price:       req.Price,
		InStock:     req.InStock,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": sparePartResponse(part)})
}

// Update PUT /api/spare-parts/:id.
func (h *SparePartsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateSparePartRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	part, err := h.service.Update(c.UserContext(), c.Params("id"), service.SparePartPatch{
		Name:        req.Name,
		PartNumber:  req.PartNumber,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		Price:       req.Price,
		InStock:     req.InStock,
	})
	if err != nil {
		return err
	}
	if part == nil {
		return c.SendStatus(http.StatusNoContent)
	}
	return c.JSON(fiber.Map{"data": sparePartResponse(part)})
}

// Delete DELETE /api/spare-parts/:id.
func (h *SparePartsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// TemplatesHandler exposes proposal templates.
type TemplatesHandler struct {
	service *service.TemplateService
}

// NewTemplatesHandler constructs handler.
func NewTemplatesHandler(templateService *service.TemplateService) *TemplatesHandler {
	return &TemplatesHandler{service: templateService}
}

// List GET /api/proposal-templates.
func (h *TemplatesHandler) List(c *fiber.Ctx) error {
	templates, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TemplateResponse, 0, len(templates))
	for i := range templates {
		items = append(items, templateResponse(&templates[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/proposal-templates/:id.
func (h *TemplatesHandler) Get(c *fiber.Ctx) error {
	template, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": templateResponse(template)})
}

// Create POST /api/proposal-templates.
func (h *TemplatesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTemplateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	template, err := h.service.Create(c.UserContext(), service.TemplateInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": templateResponse(template)})
}

// Update PUT /api/proposal-templates/:id.
func (h *TemplatesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTemplateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	template, err := h.service.Update(c.UserContext(), c.Params("id"), service.TemplatePatch(req))
	if err != nil {
		return err
	}
	if template == nil {
		return c.SendStatus(http.StatusNoContent)
	}
	return c.JSON(fiber.Map{"data": templateResponse(template)})
}

// SetDefault POST /api/proposal-templates/:id/default.
func (h *TemplatesHandler) SetDefault(c *fiber.Ctx) error {
	template, err := h.service.SetDefault(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": templateResponse(template)})
}

// Delete DELETE /api/proposal-templates/:id.
func (h *TemplatesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
