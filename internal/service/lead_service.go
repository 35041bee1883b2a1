package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mahajanautomation/crm-backend/internal/auth"
	"github.com/mahajanautomation/crm-backend/internal/domain"
	"github.com/mahajanautomation/crm-backend/internal/events"
	"github.com/mahajanautomation/crm-backend/internal/repository"
	"github.com/mahajanautomation/crm-backend/internal/timeutil"
	apperrors "github.com/mahajanautomation/crm-backend/pkg/util"
)

// LeadService coordinates lead workflows.
type LeadService struct {
	leads      repository.LeadRepository
	proposals  repository.ProposalRepository
	users      repository.UserRepository
	spareParts repository.SparePartRepository
	clock      timeutil.Clock
	events     publisher
}

// LeadDependencies bundles repositories for the lead service.
type LeadDependencies struct {
	LeadRepo      repository.LeadRepository
	ProposalRepo  repository.ProposalRepository
	UserRepo      repository.UserRepository
	SparePartRepo repository.SparePartRepository
	Clock         timeutil.Clock
	Dispatcher    events.Dispatcher
}

// LeadInput describes lead creation payload.
type LeadInput struct {
	CompanyName   string
	ContactPerson string
	Email         string
	Phone         string
	Application   string
	Status        domain.LeadStatus
	Source        domain.LeadSource
	AssignedTo    *string
	SpareParts    []string
	Attachments   []domain.FileAttachment
}

// LeadPatch lists the mutable lead fields; nil means unchanged. An empty AssignedTo unassigns.
type LeadPatch struct {
	CompanyName   *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Application   *string
	Status        *domain.LeadStatus
	Source        *domain.LeadSource
	AssignedTo    *string
	SpareParts    *[]string
	Attachments   *[]domain.FileAttachment
}

// MemoInput describes a memo to append.
type MemoInput struct {
	Content  string
	Category domain.MemoCategory
}

// FollowUpInput describes a follow-up to append.
type FollowUpInput struct {
	Content     string
	Type        domain.FollowUpType
	ScheduledAt *time.Time
	CompletedAt *time.Time
}

// NewLeadService constructs the service.
func NewLeadService(deps LeadDependencies) *LeadService {
	clock := clockOrSystem(deps.Clock)
	return &LeadService{
		leads:      deps.LeadRepo,
		proposals:  deps.ProposalRepo,
		users:      deps.UserRepo,
		spareParts: deps.SparePartRepo,
		clock:      clock,
		events:     publisher{dispatcher: deps.Dispatcher, clock: clock},
	}
}

// Create validates and stores a new lead owned by actor. Only admins may set the assignee.
func (s *LeadService) Create(ctx context.Context, actor *domain.User, input LeadInput) (*domain.Lead, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	lead := &domain.Lead{
		ID:            uuid.NewString(),
		CompanyName:   strings.TrimSpace(input.CompanyName),
		ContactPerson: strings.TrimSpace(input.ContactPerson),
		Email:         strings.TrimSpace(input.Email),
		Phone:         strings.TrimSpace(input.Phone),
		Application:   strings.TrimSpace(input.Application),
		Status:        input.Status,
		Source:        input.Source,
		SpareParts:    emptyIfNil(input.SpareParts),
		Memos:         []domain.Memo{},
		Attachments:   emptyIfNil(input.Attachments),
		FollowUps:     []domain.FollowUp{},
		CreatedBy:     actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if lead.Status == "" {
		lead.Status = domain.LeadStatusNew
	}
	if lead.Source == "" {
		lead.Source = domain.LeadSourceWebsite
	}
	if auth.CanAssignLead(actor) {
		lead.AssignedTo = normalizeAssignee(input.AssignedTo)
	}

	if err := validateLead(lead); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, lead); err != nil {
		return nil, err
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.events.publish(ctx, events.EventLeadCreated, lead.ID, actor, events.LeadCreatedPayload{
		CompanyName: lead.CompanyName,
		Source:      lead.Source,
		AssignedTo:  lead.AssignedTo,
	})
	return lead, nil
}

// Get returns a single lead.
func (s *LeadService) Get(ctx context.Context, id string) (*domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	return lookupForRead(lead, err, "lead", id)
}

// List returns leads matching filter in insertion order.
func (s *LeadService) List(ctx context.Context, filter repository.LeadFilter) ([]domain.Lead, error) {
	leads, err := s.leads.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return leads, nil
}

// Update applies patch to the lead. A missing lead yields (nil, nil). Assignee changes by
// non-admins are ignored. The patch is applied to the stored lead under its write lock, so
// fields it leaves nil keep whatever a concurrent writer stored.
func (s *LeadService) Update(ctx context.Context, actor *domain.User, id string, patch LeadPatch) (*domain.Lead, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var before, after domain.Lead
	err := s.leads.Modify(ctx, id, func(lead *domain.Lead) error {
		if !auth.CanEditLead(actor, lead) {
			return apperrors.NewForbidden("you cannot edit this lead")
		}
		before = lead.Clone()

		setTrimmed(&lead.CompanyName, patch.CompanyName)
		setTrimmed(&lead.ContactPerson, patch.ContactPerson)
		setTrimmed(&lead.Email, patch.Email)
		setTrimmed(&lead.Phone, patch.Phone)
		setTrimmed(&lead.Application, patch.Application)
		if patch.Status != nil {
			lead.Status = *patch.Status
		}
		if patch.Source != nil {
			lead.Source = *patch.Source
		}
		if patch.AssignedTo != nil && auth.CanAssignLead(actor) {
			lead.AssignedTo = normalizeAssignee(patch.AssignedTo)
		}
		if patch.SpareParts != nil {
			lead.SpareParts = emptyIfNil(*patch.SpareParts)
		}
		if patch.Attachments != nil {
			lead.Attachments = emptyIfNil(*patch.Attachments)
		}
		lead.UpdatedAt = s.clock.Now()

		if err := validateLead(lead); err != nil {
			return err
		}
		if err := s.checkReferences(ctx, lead); err != nil {
			return err
		}
		after = lead.Clone()
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if before.Status != after.Status {
		s.events.publish(ctx, events.EventLeadStatusChanged, after.ID, actor, events.LeadStatusChangedPayload{
			OldStatus: before.Status,
			NewStatus: after.Status,
		})
	}
	if !sameAssignee(before.AssignedTo, after.AssignedTo) {
		s.events.publish(ctx, events.EventLeadAssigned, after.ID, actor, events.LeadAssignedPayload{
			PreviousAssignee: before.AssignedTo,
			Assignee:         after.AssignedTo,
		})
	}
	return &after, nil
}

// Delete removes the lead. Missing leads are ignored; leads still referenced by a proposal
// are rejected with CONFLICT. The reference check and the removal happen under one lock.
func (s *LeadService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	err := s.leads.DeleteIf(ctx, id, func(lead *domain.Lead) error {
		if !auth.CanDeleteLead(actor, lead) {
			return apperrors.NewForbidden("you cannot delete this lead")
		}
		referencing, err := s.proposals.List(ctx, repository.ProposalFilter{LeadID: id})
		if err != nil {
			return err
		}
		if len(referencing) > 0 {
			return leadInUse(id, len(referencing))
		}
		return nil
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case errors.Is(err, repository.ErrReferenced):
		return leadInUse(id, 1)
	case err != nil:
		return apperrors.MapError(err)
	}
	s.events.publish(ctx, events.EventLeadDeleted, id, actor, nil)
	return nil
}

func leadInUse(id string, proposals int) error {
	return apperrors.NewConflict("lead has proposals", map[string]any{
		"lead_id":   id,
		"proposals": proposals,
	})
}

// AddMemo appends a memo to the lead.
func (s *LeadService) AddMemo(ctx context.Context, actor *domain.User, leadID string, input MemoInput) (*domain.Memo, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	memo := domain.Memo{
		ID:        uuid.NewString(),
		Content:   strings.TrimSpace(input.Content),
		Category:  input.Category,
		CreatedAt: s.clock.Now(),
	}
	if err := validateRecord(memoRules{Content: memo.Content, Category: memo.Category}); err != nil {
		return nil, err
	}
	err := s.appendToLead(ctx, actor, leadID, func(lead *domain.Lead) {
		memo.CreatedBy = actor.ID
		lead.Memos = append(lead.Memos, memo)
	})
	if err != nil {
		return nil, err
	}
	s.events.publish(ctx, events.EventMemoAdded, leadID, actor, events.NoteAddedPayload{
		NoteID:  memo.ID,
		Kind:    string(memo.Category),
		Preview: preview(memo.Content),
	})
	return &memo, nil
}

// AddFollowUp appends a follow-up to the lead.
func (s *LeadService) AddFollowUp(ctx context.Context, actor *domain.User, leadID string, input FollowUpInput) (*domain.FollowUp, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	followUp := domain.FollowUp{
		ID:          uuid.NewString(),
		Content:     strings.TrimSpace(input.Content),
		Type:        input.Type,
		ScheduledAt: input.ScheduledAt,
		CompletedAt: input.CompletedAt,
		CreatedAt:   s.clock.Now(),
	}
	if err := validateRecord(followUpRules{Content: followUp.Content, Type: followUp.Type}); err != nil {
		return nil, err
	}
	err := s.appendToLead(ctx, actor, leadID, func(lead *domain.Lead) {
		followUp.CreatedBy = actor.ID
		lead.FollowUps = append(lead.FollowUps, followUp)
	})
	if err != nil {
		return nil, err
	}
	s.events.publish(ctx, events.EventFollowUpAdded, leadID, actor, events.NoteAddedPayload{
		NoteID:  followUp.ID,
		Kind:    string(followUp.Type),
		Preview: preview(followUp.Content),
	})
	return &followUp, nil
}

func (s *LeadService) appendToLead(ctx context.Context, actor *domain.User, leadID string, apply func(*domain.Lead)) error {
	err := s.leads.Modify(ctx, leadID, func(lead *domain.Lead) error {
		if !auth.CanEditLead(actor, lead) {
			return apperrors.NewForbidden("you cannot edit this lead")
		}
		apply(lead)
		lead.UpdatedAt = s.clock.Now()
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("lead", map[string]any{"id": leadID})
	}
	return apperrors.MapError(err)
}

func (s *LeadService) checkReferences(ctx context.Context, lead *domain.Lead) error {
	details := map[string]any{}
	if lead.AssignedTo != nil {
		_, err := s.users.GetByID(ctx, *lead.AssignedTo)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			details["assigned_to"] = "unknown user"
		case err != nil:
			return apperrors.MapError(err)
		}
	}
	for _, partID := range lead.SpareParts {
		_, err := s.spareParts.GetByID(ctx, partID)
		if errors.Is(err, repository.ErrNotFound) {
			details["spare_parts"] = "unknown spare part " + partID
			break
		}
		if err != nil {
			return apperrors.MapError(err)
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details)
	}
	return nil
}

func normalizeAssignee(assignedTo *string) *string {
	if assignedTo == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*assignedTo)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func sameAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
