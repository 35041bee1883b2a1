package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mahajanautomation/crm-backend/internal/auth"
	"github.com/mahajanautomation/crm-backend/internal/domain"
	"github.com/mahajanautomation/crm-backend/internal/events"
	"github.com/mahajanautomation/crm-backend/internal/repository"
	"github.com/mahajanautomation/crm-backend/internal/timeutil"
	apperrors "github.com/mahajanautomation/crm-backend/pkg/util"
)

// ProposalService coordinates proposal workflows.
type ProposalService struct {
	proposals  repository.ProposalRepository
	leads      repository.LeadRepository
	templates  repository.TemplateRepository
	spareParts repository.SparePartRepository
	clock      timeutil.Clock
	events     publisher
}

// ProposalDependencies bundles repositories for the proposal service.
type ProposalDependencies struct {
	ProposalRepo  repository.ProposalRepository
	LeadRepo      repository.LeadRepository
	TemplateRepo  repository.TemplateRepository
	SparePartRepo repository.SparePartRepository
	Clock         timeutil.Clock
	Dispatcher    events.Dispatcher
}

// ProposalInput describes proposal creation payload.
type ProposalInput struct {
	LeadID      string
	TemplateID  string
	Title       string
	Robot       string
	Controller  string
	Reach       string
	Payload     string
	Brand       string
	Cost        decimal.Decimal
	Status      domain.ProposalStatus
	SpareParts  []string
	Attachments []domain.FileAttachment
}

// ProposalPatch lists the mutable proposal fields; nil means unchanged.
type ProposalPatch struct {
	LeadID      *string
	TemplateID  *string
	Title       *string
	Robot       *string
	Controller  *string
	Reach       *string
	Payload     *string
	Brand       *string
	Cost        *decimal.Decimal
	Status      *domain.ProposalStatus
	SpareParts  *[]string
	Attachments *[]domain.FileAttachment
}

// NewProposalService constructs the service.
func NewProposalService(deps ProposalDependencies) *ProposalService {
	clock := clockOrSystem(deps.Clock)
	return &ProposalService{
		proposals:  deps.ProposalRepo,
		leads:      deps.LeadRepo,
		templates:  deps.TemplateRepo,
		spareParts: deps.SparePartRepo,
		clock:      clock,
		events:     publisher{dispatcher: deps.Dispatcher, clock: clock},
	}
}

// Create validates and stores a new proposal owned by actor.
func (s *ProposalService) Create(ctx context.Context, actor *domain.User, input ProposalInput) (*domain.Proposal, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	proposal := &domain.Proposal{
		ID:          uuid.NewString(),
		LeadID:      strings.TrimSpace(input.LeadID),
		TemplateID:  strings.TrimSpace(input.TemplateID),
		Title:       strings.TrimSpace(input.Title),
		Robot:       strings.TrimSpace(input.Robot),
		Controller:  strings.TrimSpace(input.Controller),
		Reach:       strings.TrimSpace(input.Reach),
		Payload:     strings.TrimSpace(input.Payload),
		Brand:       strings.TrimSpace(input.Brand),
		Cost:        input.Cost,
		Status:      input.Status,
		SpareParts:  emptyIfNil(input.SpareParts),
		Attachments: emptyIfNil(input.Attachments),
		History:     []domain.ProposalHistory{},
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if proposal.Status == "" {
		proposal.Status = domain.ProposalStatusDraft
	}

	if err := validateProposal(proposal); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, proposal); err != nil {
		return nil, err
	}
	err := s.holdReferences(ctx, proposal, func() error {
		return s.proposals.Create(ctx, proposal)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.events.publish(ctx, events.EventProposalCreated, proposal.ID, actor, events.ProposalCreatedPayload{
		LeadID: proposal.LeadID,
		Title:  proposal.Title,
		Cost:   proposal.Cost.String(),
	})
	return proposal, nil
}

// Get returns a single proposal.
func (s *ProposalService) Get(ctx context.Context, id string) (*domain.Proposal, error) {
	proposal, err := s.proposals.GetByID(ctx, id)
	return lookupForRead(proposal, err, "proposal", id)
}

// List returns proposals matching filter in insertion order.
func (s *ProposalService) List(ctx context.Context, filter repository.ProposalFilter) ([]domain.Proposal, error) {
	proposals, err := s.proposals.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return proposals, nil
}

// Update applies patch to the proposal. A missing proposal yields (nil, nil).
func (s *ProposalService) Update(ctx context.Context, actor *domain.User, id string, patch ProposalPatch) (*domain.Proposal, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	current, err := s.proposals.GetByID(ctx, id)
	current, err = lookupForMutation(current, err)
	if err != nil || current == nil {
		return nil, err
	}
	if !auth.CanEditProposal(actor, current) {
		return nil, apperrors.NewForbidden("you cannot edit this proposal")
	}

	next := current.Clone()
	setTrimmed(&next.LeadID, patch.LeadID)
	setTrimmed(&next.TemplateID, patch.TemplateID)
	setTrimmed(&next.Title, patch.Title)
	setTrimmed(&next.Robot, patch.Robot)
	setTrimmed(&next.Controller, patch.Controller)
	setTrimmed(&next.Reach, patch.Reach)
	setTrimmed(&next.Payload, patch.Payload)
	setTrimmed(&next.Brand, patch.Brand)
	if patch.Cost != nil {
		next.Cost = *patch.Cost
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.SpareParts != nil {
		next.SpareParts = emptyIfNil(*patch.SpareParts)
	}
	if patch.Attachments != nil {
		next.Attachments = emptyIfNil(*patch.Attachments)
	}
	next.UpdatedAt = s.clock.Now()

	if err := validateProposal(&next); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, &next); err != nil {
		return nil, err
	}
	err = s.holdReferences(ctx, &next, func() error {
		return s.proposals.Update(ctx, &next)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}

	if current.Status != next.Status {
		s.events.publish(ctx, events.EventProposalStatusChanged, next.ID, actor, events.ProposalStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: next.Status,
		})
	}
	return &next, nil
}

// Delete removes the proposal. Missing proposals are ignored.
func (s *ProposalService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	current, err := s.proposals.GetByID(ctx, id)
	current, err = lookupForMutation(current, err)
	if err != nil || current == nil {
		return err
	}
	if !auth.CanDeleteProposal(actor, current) {
		return apperrors.NewForbidden("you cannot delete this proposal")
	}
	if err := s.proposals.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.events.publish(ctx, events.EventProposalDeleted, id, actor, nil)
	return nil
}

// holdReferences runs write while the proposal's lead and template are kept from being deleted.
// A reference that vanished after checkReferences is reported as a validation failure.
func (s *ProposalService) holdReferences(ctx context.Context, proposal *domain.Proposal, write func() error) error {
	var writeErr error
	err := s.leads.Hold(ctx, proposal.LeadID, func(domain.Lead) error {
		err := s.templates.Hold(ctx, proposal.TemplateID, func(domain.ProposalTemplate) error {
			writeErr = write()
			return nil
		})
		if errors.Is(err, repository.ErrNotFound) {
			return errTemplateGone
		}
		return err
	})
	switch {
	case writeErr != nil:
		if errors.Is(writeErr, repository.ErrReferenced) {
			return apperrors.NewValidationError("validation failed", map[string]any{"lead_id": "unknown lead or template"})
		}
		return writeErr
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewValidationError("validation failed", map[string]any{"lead_id": "unknown lead"})
	case errors.Is(err, errTemplateGone):
		return apperrors.NewValidationError("validation failed", map[string]any{"template_id": "unknown template"})
	}
	return err
}

var errTemplateGone = errors.New("template removed")

func (s *ProposalService) checkReferences(ctx context.Context, proposal *domain.Proposal) error {
	details := map[string]any{}
	if _, err := s.leads.GetByID(ctx, proposal.LeadID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return apperrors.MapError(err)
		}
		details["lead_id"] = "unknown lead"
	}
	if _, err := s.templates.GetByID(ctx, proposal.TemplateID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return apperrors.MapError(err)
		}
		details["template_id"] = "unknown template"
	}
	for _, partID := range proposal.SpareParts {
		if _, err := s.spareParts.GetByID(ctx, partID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return apperrors.MapError(err)
			}
			details["spare_parts"] = "unknown spare part " + partID
			break
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details)
	}
	return nil
}
