package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mahajanautomation/crm-backend/internal/domain"
)

var (
	// ErrNotFound is returned when a record id is absent from its collection.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a record would collide with an existing unique key.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced is returned when a write would break a reference between records.
	ErrReferenced = errors.New("record reference violated")
)

// LeadFilter narrows lead listings. Empty fields impose no constraint; set fields AND together.
type LeadFilter struct {
	Status      domain.LeadStatus
	Source      domain.LeadSource
	Application string
	AssignedTo  string
	CreatedBy   string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Matches reports whether lead satisfies every set field. Search looks at company name,
// contact person and email, case-insensitively.
func (f LeadFilter) Matches(lead *domain.Lead) bool {
	if f.Status != "" && lead.Status != f.Status {
		return false
	}
	if f.Source != "" && lead.Source != f.Source {
		return false
	}
	if f.Application != "" && lead.Application != f.Application {
		return false
	}
	if f.AssignedTo != "" && !lead.IsAssignedTo(f.AssignedTo) {
		return false
	}
	if f.CreatedBy != "" && lead.CreatedBy != f.CreatedBy {
		return false
	}
	if !withinRange(lead.CreatedAt, f.CreatedFrom, f.CreatedTo) {
		return false
	}
	return containsFold(f.Search, lead.CompanyName, lead.ContactPerson, lead.Email)
}

// ProposalFilter narrows proposal listings.
type ProposalFilter struct {
	Status      domain.ProposalStatus
	LeadID      string
	TemplateID  string
	CreatedBy   string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Matches reports whether proposal satisfies every set field. Search looks at title, robot and brand.
func (f ProposalFilter) Matches(proposal *domain.Proposal) bool {
	if f.Status != "" && proposal.Status != f.Status {
		return false
	}
	if f.LeadID != "" && proposal.LeadID != f.LeadID {
		return false
	}
	if f.TemplateID != "" && proposal.TemplateID != f.TemplateID {
		return false
	}
	if f.CreatedBy != "" && proposal.CreatedBy != f.CreatedBy {
		return false
	}
	if !withinRange(proposal.CreatedAt, f.CreatedFrom, f.CreatedTo) {
		return false
	}
	return containsFold(f.Search, proposal.Title, proposal.Robot, proposal.Brand)
}

// SparePartFilter narrows catalog listings.
type SparePartFilter struct {
	Category string
	Brand    string
	InStock  *bool
	Search   string
}

// Matches reports whether part satisfies every set field. Search looks at name, part number and description.
func (f SparePartFilter) Matches(part *domain.SparePart) bool {
	if f.Category != "" && !strings.EqualFold(part.Category, f.Category) {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(part.Brand, f.Brand) {
		return false
	}
	if f.InStock != nil && part.InStock != *f.InStock {
		return false
	}
	return containsFold(f.Search, part.Name, part.PartNumber, part.Description)
}

func withinRange(at time.Time, from, to *time.Time) bool {
	if from != nil && at.Before(*from) {
		return false
	}
	if to != nil && at.After(*to) {
		return false
	}
	return true
}

// containsFold reports whether any field contains term, ignoring case. A blank term matches.
func containsFold(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// sqlWhere accumulates positional arguments and AND-ed clauses for the Postgres repositories.
type sqlWhere struct {
	clauses []string
	args    []any
}

func (w *sqlWhere) eq(column string, value any) {
	w.args = append(w.args, value)
	w.clauses = append(w.clauses, fmt.Sprintf("%s=$%d", column, len(w.args)))
}

func (w *sqlWhere) cmp(column, op string, value any) {
	w.args = append(w.args, value)
	w.clauses = append(w.clauses, fmt.Sprintf("%s %s $%d", column, op, len(w.args)))
}

// search adds a case-insensitive substring match across columns. POSITION avoids LIKE
// wildcards so '%' and '_' in the term match literally.
func (w *sqlWhere) search(term string, columns ...string) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return
	}
	w.args = append(w.args, term)
	placeholder := fmt.Sprintf("$%d", len(w.args))
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = fmt.Sprintf("POSITION(%s IN LOWER(%s)) > 0", placeholder, column)
	}
	w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
}

func (w *sqlWhere) createdRange(from, to *time.Time) {
	if from != nil {
		w.cmp("created_at", ">=", *from)
	}
	if to != nil {
		w.cmp("created_at", "<=", *to)
	}
}

func (w *sqlWhere) String() string {
	if len(w.clauses) == 0 {
		return "1=1"
	}
	return strings.Join(w.clauses, " AND ")
}
