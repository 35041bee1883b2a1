package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mahajanautomation/crm-backend/internal/domain"
	"github.com/mahajanautomation/crm-backend/internal/repository"
	"github.com/mahajanautomation/crm-backend/internal/timeutil"
	apperrors "github.com/mahajanautomation/crm-backend/pkg/util"
)

// SparePartService manages the spare part catalog.
type SparePartService struct {
	parts     repository.SparePartRepository
	leads     repository.LeadRepository
	proposals repository.ProposalRepository
	clock     timeutil.Clock
}

// SparePartDependencies bundles repositories for the catalog service.
type SparePartDependencies struct {
	SparePartRepo repository.SparePartRepository
	LeadRepo      repository.LeadRepository
	ProposalRepo  repository.ProposalRepository
	Clock         timeutil.Clock
}

// SparePartInput describes catalog entry creation payload. InStock defaults to true.
type SparePartInput struct {
	Name        string
	PartNumber  string
	Description string
	Brand       string
	Category    string
	Price       decimal.Decimal
	InStock     *bool
}

// SparePartPatch lists the mutable catalog fields; nil means unchanged.
type SparePartPatch struct {
	Name        *string
	PartNumber  *string
	Description *string
	Brand       *string
	Category    *string
	Price       *decimal.Decimal
	InStock     *bool
}

// NewSparePartService constructs the service.
func NewSparePartService(deps SparePartDependencies) *SparePartService {
	return &SparePartService{
		parts:     deps.SparePartRepo,
		leads:     deps.LeadRepo,
		proposals: deps.ProposalRepo,
		clock:     clockOrSystem(deps.Clock),
	}
}

// Create validates and stores a catalog entry.
func (s *SparePartService) Create(ctx context.Context, input SparePartInput) (*domain.SparePart, error) {
	now := s.clock.Now()
	part := &domain.SparePart{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		PartNumber:  strings.TrimSpace(input.PartNumber),
		Description: strings.TrimSpace(input.Description),
		Brand:       strings.TrimSpace(input.Brand),
		Category:    strings.TrimSpace(input.Category),
		Price:       input.Price,
		InStock:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.InStock != nil {
		part.InStock = *input.InStock
	}
	if err := validateSparePart(part); err != nil {
		return nil, err
	}
	if err := s.parts.Create(ctx, part); err != nil {
		return nil, apperrors.MapError(err)
	}
	return part, nil
}

// Get returns a single catalog entry.
func (s *SparePartService) Get(ctx context.Context, id string) (*domain.SparePart, error) {
	part, err := s.parts.GetByID(ctx, id)
	return lookupForRead(part, err, "spare part", id)
}

// List returns catalog entries matching filter in insertion order.
func (s *SparePartService) List(ctx context.Context, filter repository.SparePartFilter) ([]domain.SparePart, error) {
	parts, err := s.parts.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return parts, nil
}

// Update applies patch to the entry. A missing entry yields (nil, nil).
func (s *SparePartService) Update(ctx context.Context, id string, patch SparePartPatch) (*domain.SparePart, error) {
	current, err := s.parts.GetByID(ctx, id)
	current, err = lookupForMutation(current, err)
	if err != nil || current == nil {
		return nil, err
	}

	next := current.Clone()
	setTrimmed(&next.Name, patch.Name)
	setTrimmed(&next.PartNumber, patch.PartNumber)
	setTrimmed(&next.Description, patch.Description)
	setTrimmed(&next.Brand, patch.Brand)
	setTrimmed(&next.Category, patch.Category)
	if patch.Price != nil {
		next.Price = *patch.Price
	}
	if patch.InStock != nil {
		next.InStock = *patch.InStock
	}
	next.UpdatedAt = s.clock.Now()

	if err := validateSparePart(&next); err != nil {
		return nil, err
	}
	if err := s.parts.Update(ctx, &next); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	return &next, nil
}

// Delete removes the entry. Entries still listed on a lead or proposal are rejected with CONFLICT.
func (s *SparePartService) Delete(ctx context.Context, id string) error {
	leads, err := s.leads.List(ctx, repository.LeadFilter{})
	if err != nil {
		return apperrors.MapError(err)
	}
	for i := range leads {
		if containsID(leads[i].SpareParts, id) {
			return apperrors.NewConflict("spare part is referenced by a lead", map[string]any{"lead_id": leads[i].ID})
		}
	}
	proposals, err := s.proposals.List(ctx, repository.ProposalFilter{})
	if err != nil {
		return apperrors.MapError(err)
	}
	for i := range proposals {
		if containsID(proposals[i].SpareParts, id) {
			return apperrors.NewConflict("spare part is referenced by a proposal", map[string]any{"proposal_id": proposals[i].ID})
		}
	}
	if err := s.parts.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
