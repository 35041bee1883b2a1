package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mahajanautomation/crm-backend/internal/domain"
)

// CreateProposalRequest payload. Cost accepts a JSON number or numeric string.
type CreateProposalRequest struct {
	LeadID      string                  `json:"lead_id"`
	TemplateID  string                  `json:"template_id"`
	Title       string                  `json:"title"`
	Robot       string                  `json:"robot"`
	Controller  string                  `json:"controller"`
	Reach       string                  `json:"reach"`
	Payload     string                  `json:"payload"`
	Brand       string                  `json:"brand"`
	Cost        decimal.Decimal         `json:"cost"`
	Status      domain.ProposalStatus   `json:"status"`
	SpareParts  []string                `json:"spare_parts"`
	Attachments []domain.FileAttachment `json:"attachments"`
}

// UpdateProposalRequest payload. Omitted fields are left unchanged.
type UpdateProposalRequest struct {
	LeadID      *string                  `json:"lead_id"`
	TemplateID  *string                  `json:"template_id"`
	Title       *string                  `json:"title"`
	Robot       *string                  `json:"robot"`
	Controller  *string                  `json:"controller"`
	Reach       *string                  `json:"reach"`
	Payload     *string                  `json:"payload"`
	Brand       *string                  `json:"brand"`
	Cost        *decimal.Decimal         `json:"cost"`
	Status      *domain.ProposalStatus   `json:"status"`
	SpareParts  *[]string                `json:"spare_parts"`
	Attachments *[]domain.FileAttachment `json:"attachments"`
}

// ProposalResponse represents a proposal.
type ProposalResponse struct {
	ID          string                   `json:"id"`
	LeadID      string                   `json:"lead_id"`
	TemplateID  string                   `json:"template_id"`
	Title       string                   `json:"title"`
	Robot       string                   `json:"robot"`
	Controller  string                   `json:"controller"`
	Reach       string                   `json:"reach"`
	Payload     string                   `json:"payload"`
	Brand       string                   `json:"brand"`
	Cost        json.Number              `json:"cost"`
	Status      domain.ProposalStatus    `json:"status"`
	SpareParts  []string                 `json:"spare_parts"`
	Attachments []domain.FileAttachment  `json:"attachments"`
	History     []domain.ProposalHistory `json:"history"`
	CreatedBy   string                   `json:"created_by"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
	Permissions *Permissions             `json:"permissions,omitempty"`
}
