package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/mahajanautomation/crm-backend/internal/domain"
	"github.com/mahajanautomation/crm-backend/internal/repository"
	"github.com/mahajanautomation/crm-backend/internal/timeutil"
	apperrors "github.com/mahajanautomation/crm-backend/pkg/util"
)

// TemplateService manages proposal templates. The single-default rule lives in the repository
// so that switching the default is one atomic operation.
type TemplateService struct {
	templates repository.TemplateRepository
	proposals repository.ProposalRepository
	clock     timeutil.Clock
}

// TemplateDependencies bundles repositories for the template service.
type TemplateDependencies struct {
	TemplateRepo repository.TemplateRepository
	ProposalRepo repository.ProposalRepository
	Clock        timeutil.Clock
}

// TemplateInput describes template creation payload.
type TemplateInput struct {
	Name          string
	HeaderContent string
	FooterContent string
	LogoURL       string
	IsDefault     bool
}

// TemplatePatch lists the mutable template fields; nil means unchanged. Clearing IsDefault on
// the current default has no effect; use SetDefault on another template instead.
type TemplatePatch struct {
	Name          *string
	HeaderContent *string
	FooterContent *string
	LogoURL       *string
	IsDefault     *bool
}

// NewTemplateService constructs the service.
func NewTemplateService(deps TemplateDependencies) *TemplateService {
	return &TemplateService{
		templates: deps.TemplateRepo,
		proposals: deps.ProposalRepo,
		clock:     clockOrSystem(deps.Clock),
	}
}

// Create validates and stores a template. The first template becomes the default.
func (s *TemplateService) Create(ctx context.Context, input TemplateInput) (*domain.ProposalTemplate, error) {
	now := s.clock.Now()
	template := &domain.ProposalTemplate{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(input.Name),
		HeaderContent: strings.TrimSpace(input.HeaderContent),
		FooterContent: strings.TrimSpace(input.FooterContent),
		LogoURL:       strings.TrimSpace(input.LogoURL),
		IsDefault:     input.IsDefault,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := validateTemplate(template); err != nil {
		return nil, err
	}
	if err := s.templates.Create(ctx, template); err != nil {
		return nil, apperrors.MapError(err)
	}
	return template, nil
}

// Get returns a single template.
func (s *TemplateService) Get(ctx context.Context, id string) (*domain.ProposalTemplate, error) {
	template, err := s.templates.GetByID(ctx, id)
	return lookupForRead(template, err, "proposal template", id)
}

// List returns every template in insertion order.
func (s *TemplateService) List(ctx context.Context) ([]domain.ProposalTemplate, error) {
	templates, err := s.templates.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return templates, nil
}

// Update applies patch to the template. A missing template yields (nil, nil).
func (s *TemplateService) Update(ctx context.Context, id string, patch TemplatePatch) (*domain.ProposalTemplate, error) {
	current, err := s.templates.GetByID(ctx, id)
	current, err = lookupForMutation(current, err)
	if err != nil || current == nil {
		return nil, err
	}

	next := current.Clone()
	setTrimmed(&next.Name, patch.Name)
	setTrimmed(&next.HeaderContent, patch.HeaderContent)
	setTrimmed(&next.FooterContent, patch.FooterContent)
	setTrimmed(&next.LogoURL, patch.LogoURL)
	if patch.IsDefault != nil {
		next.IsDefault = *patch.IsDefault
	}
	next.UpdatedAt = s.clock.Now()

	if err := validateTemplate(&next); err != nil {
		return nil, err
	}
	if err := s.templates.Update(ctx, &next); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	return &next, nil
}

// SetDefault makes id the only default template.
func (s *TemplateService) SetDefault(ctx context.Context, id string) (*domain.ProposalTemplate, error) {
	if err := s.templates.SetDefault(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("proposal template", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return s.Get(ctx, id)
}

// Delete removes the template, promoting the earliest remaining one when it was the default.
// Templates used by a proposal are rejected with CONFLICT.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	err := s.templates.DeleteIf(ctx, id, func(*domain.ProposalTemplate) error {
		referencing, err := s.proposals.List(ctx, repository.ProposalFilter{TemplateID: id})
		if err != nil {
			return err
		}
		if len(referencing) > 0 {
			return templateInUse(id, len(referencing))
		}
		return nil
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case errors.Is(err, repository.ErrReferenced):
		return templateInUse(id, 1)
	}
	return apperrors.MapError(err)
}

func templateInUse(id string, proposals int) error {
	return apperrors.NewConflict("template is used by proposals", map[string]any{
		"template_id": id,
		"proposals":   proposals,
	})
}
