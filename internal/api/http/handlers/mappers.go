package handlers

import (
	"encoding/json"

	"github.com/mahajanautomation/crm-backend/internal/api/dto"
	"github.com/mahajanautomation/crm-backend/internal/auth"
	"github.com/mahajanautomation/crm-backend/internal/domain"
	"github.com/mahajanautomation/crm-backend/internal/service"
)

func leadResponse(lead *domain.Lead, viewer *domain.User) dto.LeadResponse {
	resp := dto.LeadResponse{
		ID:            lead.ID,
		CompanyName:   lead.CompanyName,
		ContactPerson: lead.ContactPerson,
		Email:         lead.Email,
		Phone:         lead.Phone,
		Application:   lead.Application,
		Status:        lead.Status,
		Source:        lead.Source,
		AssignedTo:    lead.AssignedTo,
		SpareParts:    nonNil(lead.SpareParts),
		Memos:         nonNil(lead.Memos),
		Attachments:   nonNil(lead.Attachments),
		FollowUps:     nonNil(lead.FollowUps),
		CreatedBy:     lead.CreatedBy,
		CreatedAt:     lead.CreatedAt,
		UpdatedAt:     lead.UpdatedAt,
	}
	if viewer != nil {
		resp.Permissions = &dto.Permissions{
			CanEdit:   auth.CanEditLead(viewer, lead),
			CanDelete: auth.CanDeleteLead(viewer, lead),
		}
	}
	return resp
}

func leadResponses(leads []domain.Lead, viewer *domain.User) []dto.LeadResponse {
	items := make([]dto.LeadResponse, 0, len(leads))
	for i := range leads {
		items = append(items, leadResponse(&leads[i], viewer))
	}
	return items
}

func proposalResponse(proposal *domain.Proposal, viewer *domain.User) dto.ProposalResponse {
	resp := dto.ProposalResponse{
		ID:          proposal.ID,
		LeadID:      proposal.LeadID,
		TemplateID:  proposal.TemplateID,
		Title:       proposal.Title,
		Robot:       proposal.Robot,
		Controller:  proposal.Controller,
		Reach:       proposal.Reach,
		Payload:     proposal.Payload,
		Brand:       proposal.Brand,
		Cost:        json.Number(proposal.Cost.String()),
		Status:      proposal.Status,
		SpareParts:  nonNil(proposal.SpareParts),
		Attachments: nonNil(proposal.Attachments),
		History:     nonNil(proposal.History),
		CreatedBy:   proposal.CreatedBy,
		CreatedAt:   proposal.CreatedAt,
		UpdatedAt:   proposal.UpdatedAt,
	}
	if viewer != nil {
		resp.Permissions = &dto.Permissions{
			CanEdit:   auth.CanEditProposal(viewer, proposal),
			CanDelete: auth.CanDeleteProposal(viewer, proposal),
		}
	}
	return resp
}

func proposalResponses(proposals []domain.Proposal, viewer *domain.User) []dto.ProposalResponse {
	items := make([]dto.ProposalResponse, 0, len(proposals))
	for i := range proposals {
		items = append(items, proposalResponse(&proposals[i], viewer))
	}
	return items
}

func sparePartResponse(part *domain.SparePart) dto.SparePartResponse {
	return dto.SparePartResponse{
		ID:          part.ID,
		Name:        part.Name,
		PartNumber:  part.PartNumber,
		Description: part.Description,
		Brand:       part.Brand,
		Category:    part.Category,
		Price:       json.Number(part.Price.String()),
		InStock:     part.InStock,
		CreatedAt:   part.CreatedAt,
		UpdatedAt:   part.UpdatedAt,
	}
}

func templateResponse(template *domain.ProposalTemplate) dto.TemplateResponse {
	return dto.TemplateResponse{
		ID:            template.ID,
		Name:          template.Name,
		HeaderContent: template.HeaderContent,
		FooterContent: template.FooterContent,
		LogoURL:       template.LogoURL,
		IsDefault:     template.IsDefault,
		CreatedAt:     template.CreatedAt,
		UpdatedAt:     template.UpdatedAt,
	}
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func summaryResponse(summary service.Summary) dto.SummaryResponse {
	return dto.SummaryResponse(summary)
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
