package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mahajanautomation/crm-backend/internal/domain"
)

// collection is an insertion-ordered, copy-on-write list of records. Every mutation swaps in
// a freshly built slice, and readers only ever receive clones, so a response being encoded
// never observes a later write.
type collection[T any] struct {
	mu    sync.RWMutex
	items []T
	idOf  func(*T) string
	clone func(T) T
}

func newCollection[T any](idOf func(*T) string, clone func(T) T) *collection[T] {
	return &collection[T]{idOf: idOf, clone: clone}
}

func (c *collection[T]) indexOf(items []T, id string) int {
	for i := range items {
		if c.idOf(&items[i]) == id {
			return i
		}
	}
	return -1
}

func (c *collection[T]) get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(c.items, id); i >= 0 {
		return c.clone(c.items[i]), true
	}
	var zero T
	return zero, false
}

func (c *collection[T]) list(match func(*T) bool) []T {
	c.mu.RLock()
	items := c.items
	c.mu.RUnlock()

	result := make([]T, 0, len(items))
	for i := range items {
		if match == nil || match(&items[i]) {
			result = append(result, c.clone(items[i]))
		}
	}
	return result
}

// mutate hands fn a private copy of the current items and installs whatever it returns.
func (c *collection[T]) mutate(fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]T, len(c.items))
	for i := range c.items {
		next[i] = c.clone(c.items[i])
	}
	next, err := fn(next)
	if err != nil {
		return err
	}
	c.items = next
	return nil
}

func (c *collection[T]) insert(item T) error {
	return c.mutate(func(items []T) ([]T, error) {
		if c.indexOf(items, c.idOf(&item)) >= 0 {
			return nil, ErrDuplicate
		}
		return append(items, c.clone(item)), nil
	})
}

func (c *collection[T]) replace(item T) error {
	return c.mutate(func(items []T) ([]T, error) {
		i := c.indexOf(items, c.idOf(&item))
		if i < 0 {
			return nil, ErrNotFound
		}
		items[i] = c.clone(item)
		return items, nil
	})
}

// modify applies fn to the record with id inside the write lock and keeps the result unless
// fn fails.
func (c *collection[T]) modify(id string, fn func(*T) error) error {
	return c.mutate(func(items []T) ([]T, error) {
		i := c.indexOf(items, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		if err := fn(&items[i]); err != nil {
			return nil, err
		}
		return items, nil
	})
}

// hold runs fn with a copy of the record while no other writer can touch the collection.
func (c *collection[T]) hold(id string, fn func(T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(c.items, id)
	if i < 0 {
		return ErrNotFound
	}
	return fn(c.clone(c.items[i]))
}

// removeIf deletes the record with id when guard accepts it. A nil guard always accepts.
func (c *collection[T]) removeIf(id string, guard func(*T) error) error {
	return c.mutate(func(items []T) ([]T, error) {
		i := c.indexOf(items, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		if guard != nil {
			if err := guard(&items[i]); err != nil {
				return nil, err
			}
		}
		return append(items[:i], items[i+1:]...), nil
	})
}

func (c *collection[T]) remove(id string) {
	_ = c.removeIf(id, nil)
}

// Users

type memoryUserRepository struct {
	users *collection[domain.User]
}

// NewMemoryUserRepository returns an in-process user store.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users: newCollection(func(u *domain.User) string { return u.ID }, func(u domain.User) domain.User { return u }),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	return r.users.mutate(func(items []domain.User) ([]domain.User, error) {
		for i := range items {
			if items[i].ID == user.ID || strings.EqualFold(items[i].Email, user.Email) {
				return nil, ErrDuplicate
			}
		}
		return append(items, *user), nil
	})
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	matches := r.users.list(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return &matches[0], nil
}

func (r *memoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	return r.users.list(nil), nil
}

// Leads

type memoryLeadRepository struct {
	leads *collection[domain.Lead]
}

// NewMemoryLeadRepository returns an in-process lead store.
func NewMemoryLeadRepository() LeadRepository {
	return &memoryLeadRepository{
		leads: newCollection(func(l *domain.Lead) string { return l.ID }, domain.Lead.Clone),
	}
}

func (r *memoryLeadRepository) Create(_ context.Context, lead *domain.Lead) error {
	return r.leads.insert(*lead)
}

func (r *memoryLeadRepository) Update(_ context.Context, lead *domain.Lead) error {
	return r.leads.replace(*lead)
}

func (r *memoryLeadRepository) Delete(_ context.Context, id string) error {
	r.leads.remove(id)
	return nil
}

func (r *memoryLeadRepository) Modify(_ context.Context, id string, fn func(lead *domain.Lead) error) error {
	return r.leads.modify(id, fn)
}

func (r *memoryLeadRepository) DeleteIf(_ context.Context, id string, guard func(lead *domain.Lead) error) error {
	return r.leads.removeIf(id, guard)
}

func (r *memoryLeadRepository) Hold(_ context.Context, id string, fn func(lead domain.Lead) error) error {
	return r.leads.hold(id, fn)
}

func (r *memoryLeadRepository) GetByID(_ context.Context, id string) (*domain.Lead, error) {
	lead, ok := r.leads.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &lead, nil
}

func (r *memoryLeadRepository) List(_ context.Context, filter LeadFilter) ([]domain.Lead, error) {
	return r.leads.list(filter.Matches), nil
}

// Proposals

type memoryProposalRepository struct {
	proposals *collection[domain.Proposal]
}

// NewMemoryProposalRepository returns an in-process proposal store.
func NewMemoryProposalRepository() ProposalRepository {
	return &memoryProposalRepository{
		proposals: newCollection(func(p *domain.Proposal) string { return p.ID }, domain.Proposal.Clone),
	}
}

func (r *memoryProposalRepository) Create(_ context.Context, proposal *domain.Proposal) error {
	return r.proposals.insert(*proposal)
}

func (r *memoryProposalRepository) Update(_ context.Context, proposal *domain.Proposal) error {
	return r.proposals.replace(*proposal)
}

func (r *memoryProposalRepository) Delete(_ context.Context, id string) error {
	r.proposals.remove(id)
	return nil
}

func (r *memoryProposalRepository) GetByID(_ context.Context, id string) (*domain.Proposal, error) {
	proposal, ok := r.proposals.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &proposal, nil
}

func (r *memoryProposalRepository) List(_ context.Context, filter ProposalFilter) ([]domain.Proposal, error) {
	return r.proposals.list(filter.Matches), nil
}

// Spare parts

type memorySparePartRepository struct {
	parts *collection[domain.SparePart]
}

// NewMemorySparePartRepository returns an in-process catalog store.
func NewMemorySparePartRepository() SparePartRepository {
	return &memorySparePartRepository{
		parts: newCollection(func(p *domain.SparePart) string { return p.ID }, domain.SparePart.Clone),
	}
}

func (r *memorySparePartRepository) Create(_ context.Context, part *domain.SparePart) error {
	return r.parts.insert(*part)
}

func (r *memorySparePartRepository) Update(_ context.Context, part *domain.SparePart) error {
	return r.parts.replace(*part)
}

func (r *memorySparePartRepository) Delete(_ context.Context, id string) error {
	r.parts.remove(id)
	return nil
}

func (r *memorySparePartRepository) GetByID(_ context.Context, id string) (*domain.SparePart, error) {
	part, ok := r.parts.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &part, nil
}

func (r *memorySparePartRepository) List(_ context.Context, filter SparePartFilter) ([]domain.SparePart, error) {
	return r.parts.list(filter.Matches), nil
}

// Proposal templates

type memoryTemplateRepository struct {
	templates *collection[domain.ProposalTemplate]
}

// NewMemoryTemplateRepository returns an in-process template store that keeps the
// single-default invariant inside each mutation.
func NewMemoryTemplateRepository() TemplateRepository {
	return &memoryTemplateRepository{
		templates: newCollection(func(t *domain.ProposalTemplate) string { return t.ID }, domain.ProposalTemplate.Clone),
	}
}

func (r *memoryTemplateRepository) Create(_ context.Context, template *domain.ProposalTemplate) error {
	return r.templates.mutate(func(items []domain.ProposalTemplate) ([]domain.ProposalTemplate, error) {
		if r.templates.indexOf(items, template.ID) >= 0 {
			return nil, ErrDuplicate
		}
		if len(items) == 0 {
			template.IsDefault = true
		}
		if template.IsDefault {
			clearDefaults(items)
		}
		return append(items, *template), nil
	})
}

func (r *memoryTemplateRepository) Update(_ context.Context, template *domain.ProposalTemplate) error {
	return r.templates.mutate(func(items []domain.ProposalTemplate) ([]domain.ProposalTemplate, error) {
		i := r.templates.indexOf(items, template.ID)
		if i < 0 {
			return nil, ErrNotFound
		}
		if items[i].IsDefault {
			template.IsDefault = true
		}
		if template.IsDefault {
			clearDefaults(items)
		}
		items[i] = *template
		return items, nil
	})
}

func (r *memoryTemplateRepository) Delete(ctx context.Context, id string) error {
	if err := r.DeleteIf(ctx, id, nil); !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

func (r *memoryTemplateRepository) DeleteIf(_ context.Context, id string, guard func(template *domain.ProposalTemplate) error) error {
	return r.templates.mutate(func(items []domain.ProposalTemplate) ([]domain.ProposalTemplate, error) {
		i := r.templates.indexOf(items, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		if guard != nil {
			if err := guard(&items[i]); err != nil {
				return nil, err
			}
		}
		wasDefault := items[i].IsDefault
		items = append(items[:i], items[i+1:]...)
		if wasDefault && len(items) > 0 {
			items[0].IsDefault = true
		}
		return items, nil
	})
}

func (r *memoryTemplateRepository) SetDefault(_ context.Context, id string) error {
	return r.templates.mutate(func(items []domain.ProposalTemplate) ([]domain.ProposalTemplate, error) {
		if r.templates.indexOf(items, id) < 0 {
			return nil, ErrNotFound
		}
		for i := range items {
			items[i].IsDefault = items[i].ID == id
		}
		return items, nil
	})
}

func (r *memoryTemplateRepository) Hold(_ context.Context, id string, fn func(template domain.ProposalTemplate) error) error {
	return r.templates.hold(id, fn)
}

func (r *memoryTemplateRepository) GetByID(_ context.Context, id string) (*domain.ProposalTemplate, error) {
	template, ok := r.templates.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &template, nil
}

func (r *memoryTemplateRepository) List(_ context.Context) ([]domain.ProposalTemplate, error) {
	return r.templates.list(nil), nil
}

func clearDefaults(items []domain.ProposalTemplate) {
	for i := range items {
		items[i].IsDefault = false
	}
}
