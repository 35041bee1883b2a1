package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Set groups the repositories the services depend on.
type Set struct {
	Users      UserRepository
	Leads      LeadRepository
	Proposals  ProposalRepository
	SpareParts SparePartRepository
	Templates  TemplateRepository
}

// NewMemorySet returns empty in-process collections.
func NewMemorySet() Set {
	return Set{
		Users:      NewMemoryUserRepository(),
		Leads:      NewMemoryLeadRepository(),
		Proposals:  NewMemoryProposalRepository(),
		SpareParts: NewMemorySparePartRepository(),
		Templates:  NewMemoryTemplateRepository(),
	}
}

// NewPostgresSet returns repositories backed by pool.
func NewPostgresSet(pool *pgxpool.Pool) Set {
	return Set{
		Users:      NewUserRepository(pool),
		Leads:      NewLeadRepository(pool),
		Proposals:  NewProposalRepository(pool),
		SpareParts: NewSparePartRepository(pool),
		Templates:  NewTemplateRepository(pool),
	}
}
