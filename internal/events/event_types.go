package events

import (
	"time"

	"github.com/mahajanautomation/crm-backend/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeadCreated           EventType = "lead_created"
	EventLeadAssigned          EventType = "lead_assigned"
	EventLeadStatusChanged     EventType = "lead_status_changed"
	EventLeadDeleted           EventType = "lead_deleted"
	EventMemoAdded             EventType = "memo_added"
	EventFollowUpAdded         EventType = "follow_up_added"
	EventFollowUpDue           EventType = "follow_up_due"
	EventProposalCreated       EventType = "proposal_created"
	EventProposalStatusChanged EventType = "proposal_status_changed"
	EventProposalDeleted       EventType = "proposal_deleted"
)

// AllEventTypes lists every event type a service may publish.
var AllEventTypes = []EventType{
	EventLeadCreated,
	EventLeadAssigned,
	EventLeadStatusChanged,
	EventLeadDeleted,
	EventMemoAdded,
	EventFollowUpAdded,
	EventFollowUpDue,
	EventProposalCreated,
	EventProposalStatusChanged,
	EventProposalDeleted,
}

// Actor identifies who triggered an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// ActorOf builds an Actor from a user; nil yields an empty actor.
func ActorOf(user *domain.User) Actor {
	if user == nil {
		return Actor{}
	}
	return Actor{UserID: user.ID, Role: user.Role}
}

// Event represents a domain event emitted by services after a successful mutation.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// LeadCreatedPayload payload.
type LeadCreatedPayload struct {
	CompanyName string            `json:"company_name"`
	Source      domain.LeadSource `json:"source"`
	AssignedTo  *string           `json:"assigned_to,omitempty"`
}

// LeadAssignedPayload payload.
type LeadAssignedPayload struct {
	PreviousAssignee *string `json:"previous_assignee,omitempty"`
	Assignee         *string `json:"assignee,omitempty"`
}

// LeadStatusChangedPayload payload.
type LeadStatusChangedPayload struct {
	OldStatus domain.LeadStatus `json:"old_status"`
	NewStatus domain.LeadStatus `json:"new_status"`
}

// NoteAddedPayload is shared by memo and follow-up events.
type NoteAddedPayload struct {
	NoteID  string `json:"note_id"`
	Kind    string `json:"kind"`
	Preview string `json:"preview"`
}

// ProposalCreatedPayload payload.
type ProposalCreatedPayload struct {
	LeadID string `json:"lead_id"`
	Title  string `json:"title"`
	Cost   string `json:"cost"`
}

// ProposalStatusChangedPayload payload.
type ProposalStatusChangedPayload struct {
	OldStatus domain.ProposalStatus `json:"old_status"`
	NewStatus domain.ProposalStatus `json:"new_status"`
}

// FollowUpDuePayload is published by the reminder job for a scheduled follow-up that is still open.
type FollowUpDuePayload struct {
	FollowUpID  string              `json:"follow_up_id"`
	Type        domain.FollowUpType `json:"type"`
	ScheduledAt time.Time           `json:"scheduled_at"`
	AssignedTo  *string             `json:"assigned_to,omitempty"`
	Preview     string              `json:"preview"`
}
