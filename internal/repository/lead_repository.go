package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mahajanautomation/crm-backend/internal/domain"
)

// LeadRepository encapsulates lead persistence. Lists come back in insertion order.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	Update(ctx context.Context, lead *domain.Lead) error
	Delete(ctx context.Context, id string) error
	// Modify applies fn to the stored lead and saves it in one step. An error from fn leaves the
	// lead untouched; a missing lead yields ErrNotFound.
	Modify(ctx context.Context, id string, fn func(lead *domain.Lead) error) error
	// DeleteIf removes the lead when guard accepts it, ErrNotFound when absent.
	DeleteIf(ctx context.Context, id string, guard func(lead *domain.Lead) error) error
	// Hold runs fn while the lead cannot be deleted.
	Hold(ctx context.Context, id string, fn func(lead domain.Lead) error) error
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]domain.Lead, error)
}

type leadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository instantiates repository.
func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &leadRepository{pool: pool}
}

const leadColumns = `id, company_name, contact_person, email, phone, application, status, source,
               assigned_to, spare_parts, memos, attachments, follow_ups, created_by, created_at, updated_at`

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	const query = `
        INSERT INTO leads (` + leadColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	_, err := r.pool.Exec(ctx, query,
		lead.ID,
		lead.CompanyName,
		lead.ContactPerson,
		lead.Email,
		lead.Phone,
		lead.Application,
		lead.Status,
		lead.Source,
		lead.AssignedTo,
		lead.SpareParts,
		lead.Memos,
		lead.Attachments,
		lead.FollowUps,
		lead.CreatedBy,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	return translateWriteError(err)
}

func (r *leadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	return updateLead(ctx, r.pool, lead)
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func updateLead(ctx context.Context, db execer, lead *domain.Lead) error {
	const query = `
        UPDATE leads SET company_name=$1, contact_person=$2, email=$3, phone=$4, application=$5,
            status=$6, source=$7, assigned_to=$8, spare_parts=$9, memos=$10, attachments=$11,
            follow_ups=$12, updated_at=$13
        WHERE id=$14`
	cmd, err := db.Exec(ctx, query,
		lead.CompanyName,
		lead.ContactPerson,
		lead.Email,
		lead.Phone,
		lead.Application,
		lead.Status,
		lead.Source,
		lead.AssignedTo,
		lead.SpareParts,
		lead.Memos,
		lead.Attachments,
		lead.FollowUps,
		lead.UpdatedAt,
		lead.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *leadRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id=$1`, id)
	return err
}

func (r *leadRepository) Modify(ctx context.Context, id string, fn func(lead *domain.Lead) error) error {
	return inTx(ctx, r.pool, pgx.ReadCommitted, func(tx pgx.Tx) error {
		lead, err := lockLead(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(lead); err != nil {
			return err
		}
		return updateLead(ctx, tx, lead)
	})
}

func (r *leadRepository) DeleteIf(ctx context.Context, id string, guard func(lead *domain.Lead) error) error {
	return inTx(ctx, r.pool, pgx.ReadCommitted, func(tx pgx.Tx) error {
		lead, err := lockLead(ctx, tx, id)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(lead); err != nil {
				return err
			}
		}
		_, err = tx.Exec(ctx, `DELETE FROM leads WHERE id=$1`, id)
		return translateWriteError(err)
	})
}

// Hold relies on the proposals.lead_id foreign key to keep the lead in place for fn.
func (r *leadRepository) Hold(ctx context.Context, id string, fn func(lead domain.Lead) error) error {
	lead, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fn(*lead)
}

func lockLead(ctx context.Context, tx pgx.Tx, id string) (*domain.Lead, error) {
	rows, err := tx.Query(ctx, `SELECT `+leadColumns+` FROM leads WHERE id=$1 FOR UPDATE`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	leads, err := scanLeads(rows)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, ErrNotFound
	}
	return &leads[0], nil
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	leads, err := scanLeads(rows)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, ErrNotFound
	}
	return &leads[0], nil
}

func (r *leadRepository) List(ctx context.Context, filter LeadFilter) ([]domain.Lead, error) {
	where := &sqlWhere{}
	if filter.Status != "" {
		where.eq("status", filter.Status)
	}
	if filter.Source != "" {
		where.eq("source", filter.Source)
	}
	if filter.Application != "" {
		where.eq("application", filter.Application)
	}
	if filter.AssignedTo != "" {
		where.eq("assigned_to", filter.AssignedTo)
	}
	if filter.CreatedBy != "" {
		where.eq("created_by", filter.CreatedBy)
	}
	where.createdRange(filter.CreatedFrom, filter.CreatedTo)
	where.search(filter.Search, "company_name", "contact_person", "email")

	query := fmt.Sprintf(`SELECT %s FROM leads WHERE %s ORDER BY seq ASC`, leadColumns, where)
	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeads(rows)
}

func scanLeads(rows pgx.Rows) ([]domain.Lead, error) {
	result := []domain.Lead{}
	for rows.Next() {
		var lead domain.Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.CompanyName,
			&lead.ContactPerson,
			&lead.Email,
			&lead.Phone,
			&lead.Application,
			&lead.Status,
			&lead.Source,
			&lead.AssignedTo,
			&lead.SpareParts,
			&lead.Memos,
			&lead.Attachments,
			&lead.FollowUps,
			&lead.CreatedBy,
			&lead.CreatedAt,
			&lead.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, lead)
	}
	return result, rows.Err()
}
