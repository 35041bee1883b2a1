package domain

import "time"

// LeadStatus enumerates pipeline stages for a lead.
type LeadStatus string

const (
	LeadStatusNew          LeadStatus = "new"
	LeadStatusContacted    LeadStatus = "contacted"
	LeadStatusProposalSent LeadStatus = "proposal_sent"
	LeadStatusNegotiation  LeadStatus = "negotiation"
	LeadStatusWon          LeadStatus = "won"
	LeadStatusCancelled    LeadStatus = "cancelled"
	LeadStatusHold         LeadStatus = "hold"
)

// LeadStatuses lists lead statuses in pipeline order.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusProposalSent,
	LeadStatusNegotiation,
	LeadStatusWon,
	LeadStatusCancelled,
	LeadStatusHold,
}

// Valid reports whether s is a known lead status.
func (s LeadStatus) Valid() bool {
	for _, candidate := range LeadStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// LeadSource enumerates intake channels.
type LeadSource string

const (
	LeadSourceWebsite  LeadSource = "website"
	LeadSourceEmail    LeadSource = "email"
	LeadSourcePhone    LeadSource = "phone"
	LeadSourceReferral LeadSource = "referral"
	LeadSourceOther    LeadSource = "other"
)

// Valid reports whether s is a known lead source.
func (s LeadSource) Valid() bool {
	switch s {
	case LeadSourceWebsite, LeadSourceEmail, LeadSourcePhone, LeadSourceReferral, LeadSourceOther:
		return true
	}
	return false
}

// Applications offered by the sales team.
var Applications = []string{
	"Material & Warehouse Material Handling",
	"Fluid Dispensing System",
	"Foundry Automation System",
	"Vision System",
	"Robotic AGV / AMR",
	"Robotic 3D Manufacturing",
	"Robots In Assembly lines",
	"Welding Automation",
}

// MemoCategory classifies lead memos.
type MemoCategory string

const (
	MemoCategorySpare           MemoCategory = "spare"
	MemoCategoryProject         MemoCategory = "project"
	MemoCategoryServiceProvided MemoCategory = "service_provided"
	MemoCategoryKeyAccount      MemoCategory = "key_account"
)

// Valid reports whether c is a known memo category.
func (c MemoCategory) Valid() bool {
	switch c {
	case MemoCategorySpare, MemoCategoryProject, MemoCategoryServiceProvided, MemoCategoryKeyAccount:
		return true
	}
	return false
}

// FollowUpType classifies follow-up activity.
type FollowUpType string

const (
	FollowUpCall    FollowUpType = "call"
	FollowUpEmail   FollowUpType = "email"
	FollowUpMeeting FollowUpType = "meeting"
	FollowUpNote    FollowUpType = "note"
)

// Valid reports whether t is a known follow-up type.
func (t FollowUpType) Valid() bool {
	switch t {
	case FollowUpCall, FollowUpEmail, FollowUpMeeting, FollowUpNote:
		return true
	}
	return false
}

// Memo is an append-only note owned by a lead.
type Memo struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	Category  MemoCategory `json:"category"`
	CreatedBy string       `json:"created_by"`
	CreatedAt time.Time    `json:"created_at"`
}

// FollowUp is an append-only activity record owned by a lead.
type FollowUp struct {
	ID          string       `json:"id"`
	Content     string       `json:"content"`
	Type        FollowUpType `json:"type"`
	ScheduledAt *time.Time   `json:"scheduled_at,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	CreatedBy   string       `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Lead is a sales opportunity captured from an intake channel.
type Lead struct {
	ID            string
	CompanyName   string
	ContactPerson string
	Email         string
	Phone         string
	Application   string
	Status        LeadStatus
	Source        LeadSource
	AssignedTo    *string
	SpareParts    []string
	Memos         []Memo
	Attachments   []FileAttachment
	FollowUps     []FollowUp
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Clone returns a deep copy so callers never share slices with a stored record.
func (l Lead) Clone() Lead {
	out := l
	if l.AssignedTo != nil {
		assigned := *l.AssignedTo
		out.AssignedTo = &assigned
	}
	out.SpareParts = cloneStrings(l.SpareParts)
	out.Memos = make([]Memo, len(l.Memos))
	copy(out.Memos, l.Memos)
	out.Attachments = cloneAttachments(l.Attachments)
	out.FollowUps = make([]FollowUp, len(l.FollowUps))
	copy(out.FollowUps, l.FollowUps)
	return out
}

// IsAssignedTo reports whether the lead is assigned to userID.
func (l *Lead) IsAssignedTo(userID string) bool {
	return l.AssignedTo != nil && *l.AssignedTo == userID
}
