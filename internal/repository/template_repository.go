package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mahajanautomation/crm-backend/internal/domain"
)

// TemplateRepository encapsulates proposal template persistence. Implementations keep exactly
// one default template whenever at least one template exists.
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.ProposalTemplate) error
	Update(ctx context.Context, template *domain.ProposalTemplate) error
	Delete(ctx context.Context, id string) error
	// DeleteIf removes the template when guard accepts it, ErrNotFound when absent.
	DeleteIf(ctx context.Context, id string, guard func(template *domain.ProposalTemplate) error) error
	// Hold runs fn while the template cannot be deleted.
	Hold(ctx context.Context, id string, fn func(template domain.ProposalTemplate) error) error
	SetDefault(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.ProposalTemplate, error)
	List(ctx context.Context) ([]domain.ProposalTemplate, error)
}

type templateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository instantiates repository.
func NewTemplateRepository(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepository{pool: pool}
}

const templateColumns = `id, name, header_content, footer_content, logo_url, is_default, created_at, updated_at`

func (r *templateRepository) Create(ctx context.Context, template *domain.ProposalTemplate) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		var existing int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM proposal_templates`).Scan(&existing); err != nil {
			return err
		}
		if existing == 0 {
			template.IsDefault = true
		}
		if template.IsDefault {
			if _, err := tx.Exec(ctx, `UPDATE proposal_templates SET is_default=FALSE WHERE is_default`); err != nil {
				return err
			}
		}
		const query = `
            INSERT INTO proposal_templates (` + templateColumns + `)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
		_, err := tx.Exec(ctx, query,
			template.ID,
			template.Name,
			template.HeaderContent,
			template.FooterContent,
			template.LogoURL,
			template.IsDefault,
			template.CreatedAt,
			template.UpdatedAt,
		)
		return translateWriteError(err)
	})
}

func (r *templateRepository) Update(ctx context.Context, template *domain.ProposalTemplate) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		var wasDefault bool
		err := tx.QueryRow(ctx, `SELECT is_default FROM proposal_templates WHERE id=$1 FOR UPDATE`, template.ID).Scan(&wasDefault)
		if err != nil {
			return translateReadError(err)
		}
		if wasDefault {
			template.IsDefault = true
		}
		if template.IsDefault && !wasDefault {
			if _, err := tx.Exec(ctx, `UPDATE proposal_templates SET is_default=FALSE WHERE is_default`); err != nil {
				return err
			}
		}
		const query = `
            UPDATE proposal_templates SET name=$1, header_content=$2, footer_content=$3, logo_url=$4,
                is_default=$5, updated_at=$6
            WHERE id=$7`
		_, err = tx.Exec(ctx, query,
			template.Name,
			template.HeaderContent,
			template.FooterContent,
			template.LogoURL,
			template.IsDefault,
			template.UpdatedAt,
			template.ID,
		)
		return err
	})
}

func (r *templateRepository) Delete(ctx context.Context, id string) error {
	if err := r.DeleteIf(ctx, id, nil); !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

func (r *templateRepository) DeleteIf(ctx context.Context, id string, guard func(template *domain.ProposalTemplate) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `SELECT ` + templateColumns + ` FROM proposal_templates WHERE id=$1 FOR UPDATE`
		rows, err := tx.Query(ctx, query, id)
		if err != nil {
			return err
		}
		locked, err := scanTemplates(rows)
		rows.Close()
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return ErrNotFound
		}
		if guard != nil {
			if err := guard(&locked[0]); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM proposal_templates WHERE id=$1`, id); err != nil {
			return translateWriteError(err)
		}
		if !locked[0].IsDefault {
			return nil
		}
		_, err = tx.Exec(ctx, `
            UPDATE proposal_templates SET is_default=TRUE
            WHERE id = (SELECT id FROM proposal_templates ORDER BY seq ASC LIMIT 1)`)
		return err
	})
}

// Hold relies on the proposals.template_id foreign key: a template that exists when fn starts
// cannot be deleted out from under a proposal insert.
func (r *templateRepository) Hold(ctx context.Context, id string, fn func(template domain.ProposalTemplate) error) error {
	template, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fn(*template)
}

func (r *templateRepository) SetDefault(ctx context.Context, id string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM proposal_templates WHERE id=$1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		// Clear first so the partial unique index never sees two defaults.
		if _, err := tx.Exec(ctx, `UPDATE proposal_templates SET is_default=FALSE WHERE is_default AND id<>$1`, id); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE proposal_templates SET is_default=TRUE WHERE id=$1`, id)
		return err
	})
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.ProposalTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM proposal_templates WHERE id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	templates, err := scanTemplates(rows)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, ErrNotFound
	}
	return &templates[0], nil
}

func (r *templateRepository) List(ctx context.Context) ([]domain.ProposalTemplate, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+templateColumns+` FROM proposal_templates ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTemplates(rows)
}

func (r *templateRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return inTx(ctx, r.pool, pgx.Serializable, fn)
}

func inTx(ctx context.Context, pool *pgxpool.Pool, iso pgx.TxIsoLevel, fn func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: iso})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func scanTemplates(rows pgx.Rows) ([]domain.ProposalTemplate, error) {
	result := []domain.ProposalTemplate{}
	for rows.Next() {
		var template domain.ProposalTemplate
		if err := rows.Scan(
			&template.ID,
			&template.Name,
			&template.HeaderContent,
			&template.FooterContent,
			&template.LogoURL,
			&template.IsDefault,
			&template.CreatedAt,
			&template.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, template)
	}
	return result, rows.Err()
}
