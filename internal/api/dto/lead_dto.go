package dto

import (
	"time"

	"github.com/mahajanautomation/crm-backend/internal/domain"
)

// Permissions tells the client which record actions the caller may take.
type Permissions struct {
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

// CreateLeadRequest payload.
type CreateLeadRequest struct {
	CompanyName   string                  `json:"company_name"`
	ContactPerson string                  `json:"contact_person"`
	Email         string                  `json:"email"`
	Phone         string                  `json:"phone"`
	Application   string                  `json:"application"`
	Status        domain.LeadStatus       `json:"status"`
	Source        domain.LeadSource       `json:"source"`
	AssignedTo    *string                 `json:"assigned_to"`
	SpareParts    []string                `json:"spare_parts"`
	Attachments   []domain.FileAttachment `json:"attachments"`
}

// UpdateLeadRequest payload. Omitted fields are left unchanged.
type UpdateLeadRequest struct {
	CompanyName   *string                  `json:"company_name"`
	ContactPerson *string                  `json:"contact_person"`
	Email         *string                  `json:"email"`
	Phone         *string                  `json:"phone"`
	Application   *string                  `json:"application"`
	Status        *domain.LeadStatus       `json:"status"`
	Source        *domain.LeadSource       `json:"source"`
	AssignedTo    *string                  `json:"assigned_to"`
	SpareParts    *[]string                `json:"spare_parts"`
	Attachments   *[]domain.FileAttachment `json:"attachments"`
}

// CreateMemoRequest payload.
type CreateMemoRequest struct {
	Content  string              `json:"content"`
	Category domain.MemoCategory `json:"category"`
}

// CreateFollowUpRequest payload.
type CreateFollowUpRequest struct {
	Content     string              `json:"content"`
	Type        domain.FollowUpType `json:"type"`
	ScheduledAt *time.Time          `json:"scheduled_at"`
	CompletedAt *time.Time          `json:"completed_at"`
}

// LeadResponse represents a lead with its owned memos and follow-ups.
type LeadResponse struct {
	ID            string                  `json:"id"`
	CompanyName   string                  `json:"company_name"`
	ContactPerson string                  `json:"contact_person"`
	Email         string                  `json:"email"`
	Phone         string                  `json:"phone"`
	Application   string                  `json:"application"`
	Status        domain.LeadStatus       `json:"status"`
	Source        domain.LeadSource       `json:"source"`
	AssignedTo    *string                 `json:"assigned_to"`
	SpareParts    []string                `json:"spare_parts"`
	Memos         []domain.Memo           `json:"memos"`
	Attachments   []domain.FileAttachment `json:"attachments"`
	FollowUps     []domain.FollowUp       `json:"follow_ups"`
	CreatedBy     string                  `json:"created_by"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
	Permissions   *Permissions            `json:"permissions,omitempty"`
}
