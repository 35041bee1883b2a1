package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProposalStatus enumerates proposal lifecycle states.
type ProposalStatus string

const (
	ProposalStatusDraft       ProposalStatus = "draft"
	ProposalStatusSent        ProposalStatus = "sent"
	ProposalStatusAccepted    ProposalStatus = "accepted"
	ProposalStatusRejected    ProposalStatus = "rejected"
	ProposalStatusNegotiating ProposalStatus = "negotiating"
)

// ProposalStatuses lists proposal statuses in display order.
var ProposalStatuses = []ProposalStatus{
	ProposalStatusDraft,
	ProposalStatusSent,
	ProposalStatusAccepted,
	ProposalStatusRejected,
	ProposalStatusNegotiating,
}

// Valid reports whether s is a known proposal status.
func (s ProposalStatus) Valid() bool {
	for _, candidate := range ProposalStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Active reports whether the proposal is still open for the customer.
func (s ProposalStatus) Active() bool {
	return s == ProposalStatusDraft || s == ProposalStatusSent || s == ProposalStatusNegotiating
}

// ProposalHistory is a loosely typed revision note. Nothing writes it yet.
type ProposalHistory struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	Changes   string    `json:"changes"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Proposal is a robot-cell quotation drafted for a lead.
type Proposal struct {
	ID          string
	LeadID      string
	TemplateID  string
	Title       string
	Robot       string
	Controller  string
	Reach       string
	Payload     string
	Brand       string
	Cost        decimal.Decimal
	Status      ProposalStatus
	SpareParts  []string
	Attachments []FileAttachment
	History     []ProposalHistory
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy of the proposal.
func (p Proposal) Clone() Proposal {
	out := p
	out.SpareParts = cloneStrings(p.SpareParts)
	out.Attachments = cloneAttachments(p.Attachments)
	out.History = make([]ProposalHistory, len(p.History))
	copy(out.History, p.History)
	return out
}
