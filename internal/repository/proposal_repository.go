package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mahajanautomation/crm-backend/internal/domain"
)

// ProposalRepository encapsulates proposal persistence.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *domain.Proposal) error
	Update(ctx context.Context, proposal *domain.Proposal) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Proposal, error)
	List(ctx context.Context, filter ProposalFilter) ([]domain.Proposal, error)
}

type proposalRepository struct {
	pool *pgxpool.Pool
}

// NewProposalRepository instantiates repository.
func NewProposalRepository(pool *pgxpool.Pool) ProposalRepository {
	return &proposalRepository{pool: pool}
}

const proposalColumns = `id, lead_id, template_id, title, robot, controller, reach, payload, brand, cost,
               status, spare_parts, attachments, history, created_by, created_at, updated_at`

func (r *proposalRepository) Create(ctx context.Context, proposal *domain.Proposal) error {
	const query = `
        INSERT INTO proposals (` + proposalColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`
	_, err := r.pool.Exec(ctx, query,
		proposal.ID,
		proposal.LeadID,
		proposal.TemplateID,
		proposal.Title,
		proposal.Robot,
		proposal.Controller,
		proposal.Reach,
		proposal.Payload,
		proposal.Brand,
		proposal.Cost,
		proposal.Status,
		proposal.SpareParts,
		proposal.Attachments,
		proposal.History,
		proposal.CreatedBy,
		proposal.CreatedAt,
		proposal.UpdatedAt,
	)
	return translateWriteError(err)
}

func (r *proposalRepository) Update(ctx context.Context, proposal *domain.Proposal) error {
	const query = `
        UPDATE proposals SET lead_id=$1, template_id=$2, title=$3, robot=$4, controller=$5, reach=$6,
            payload=$7, brand=$8, cost=$9, status=$10, spare_parts=$11, attachments=$12, history=$13,
            updated_at=$14
        WHERE id=$15`
	cmd, err := r.pool.Exec(ctx, query,
		proposal.LeadID,
		proposal.TemplateID,
		proposal.Title,
		proposal.Robot,
		proposal.Controller,
		proposal.Reach,
		proposal.Payload,
		proposal.Brand,
		proposal.Cost,
		proposal.Status,
		proposal.SpareParts,
		proposal.Attachments,
		proposal.History,
		proposal.UpdatedAt,
		proposal.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *proposalRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM proposals WHERE id=$1`, id)
	return err
}

func (r *proposalRepository) GetByID(ctx context.Context, id string) (*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	proposals, err := scanProposals(rows)
	if err != nil {
		return nil, err
	}
	if len(proposals) == 0 {
		return nil, ErrNotFound
	}
	return &proposals[0], nil
}

func (r *proposalRepository) List(ctx context.Context, filter ProposalFilter) ([]domain.Proposal, error) {
	where := &sqlWhere{}
	if filter.Status != "" {
		where.eq("status", filter.Status)
	}
	if filter.LeadID != "" {
		where.eq("lead_id", filter.LeadID)
	}
	if filter.TemplateID != "" {
		where.eq("template_id", filter.TemplateID)
	}
	if filter.CreatedBy != "" {
		where.eq("created_by", filter.CreatedBy)
	}
	where.createdRange(filter.CreatedFrom, filter.CreatedTo)
	where.search(filter.Search, "title", "robot", "brand")

	query := fmt.Sprintf(`SELECT %s FROM proposals WHERE %s ORDER BY seq ASC`, proposalColumns, where)
	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProposals(rows)
}

func scanProposals(rows pgx.Rows) ([]domain.Proposal, error) {
	result := []domain.Proposal{}
	for rows.Next() {
		var proposal domain.Proposal
		if err := rows.Scan(
			&proposal.ID,
			&proposal.LeadID,
			&proposal.TemplateID,
			&proposal.Title,
			&proposal.Robot,
			&proposal.Controller,
			&proposal.Reach,
			&proposal.Payload,
			&proposal.Brand,
			&proposal.Cost,
			&proposal.Status,
			&proposal.SpareParts,
			&proposal.Attachments,
			&proposal.History,
			&proposal.CreatedBy,
			&proposal.CreatedAt,
			&proposal.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, proposal)
	}
	return result, rows.Err()
}
