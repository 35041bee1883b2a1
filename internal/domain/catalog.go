package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SparePart is a catalog entry that leads and proposals can reference.
type SparePart struct {
	ID          string
	Name        string
	PartNumber  string
	Description string
	Brand       string
	Category    string
	Price       decimal.Decimal
	InStock     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a copy of the part.
func (p SparePart) Clone() SparePart {
	return p
}

// ProposalTemplate holds the header and footer used to render proposals.
// At most one template is the default; once any template exists exactly one is.
type ProposalTemplate struct {
	ID            string
	Name          string
	HeaderContent string
	FooterContent string
	LogoURL       string
	IsDefault     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Clone returns a copy of the template.
func (t ProposalTemplate) Clone() ProposalTemplate {
	return t
}
