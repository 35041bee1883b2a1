package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mahajanautomation/crm-backend/internal/domain"
)

// SparePartRepository encapsulates catalog persistence.
type SparePartRepository interface {
	Create(ctx context.Context, part *domain.SparePart) error
	Update(ctx context.Context, part *domain.SparePart) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.SparePart, error)
	List(ctx context.Context, filter SparePartFilter) ([]domain.SparePart, error)
}

type sparePartRepository struct {
	pool *pgxpool.Pool
}

// NewSparePartRepository instantiates repository.
func NewSparePartRepository(pool *pgxpool.Pool) SparePartRepository {
	return &sparePartRepository{pool: pool}
}

const sparePartColumns = `id, name, part_number, description, brand, category, price, in_stock, created_at, updated_at`

func (r *sparePartRepository) Create(ctx context.Context, part *domain.SparePart) error {
	const query = `
        INSERT INTO spare_parts (` + sparePartColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.pool.Exec(ctx, query,
		part.ID,
		part.Name,
		part.PartNumber,
		part.Description,
		part.Brand,
		part.Category,
		part.Price,
		part.InStock,
		part.CreatedAt,
		part.UpdatedAt,
	)
	return translateWriteError(err)
}

func (r *sparePartRepository) Update(ctx context.Context, part *domain.SparePart) error {
	const query = `
        UPDATE spare_parts SET name=$1, part_number=$2, description=$3, brand=$4, category=$5,
            price=$6, in_stock=$7, updated_at=$8
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		part.Name,
		part.PartNumber,
		part.Description,
		part.Brand,
		part.Category,
		part.Price,
		part.InStock,
		part.UpdatedAt,
		part.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sparePartRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM spare_parts WHERE id=$1`, id)
	return err
}

func (r *sparePartRepository) GetByID(ctx context.Context, id string) (*domain.SparePart, error) {
	query := `SELECT ` + sparePartColumns + ` FROM spare_parts WHERE id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	parts, err := scanSpareParts(rows)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, ErrNotFound
	}
	return &parts[0], nil
}

func (r *sparePartRepository) List(ctx context.Context, filter SparePartFilter) ([]domain.SparePart, error) {
	where := &sqlWhere{}
	if filter.Category != "" {
		where.cmp("LOWER(category)", "=", strings.ToLower(filter.Category))
	}
	if filter.Brand != "" {
		where.cmp("LOWER(brand)", "=", strings.ToLower(filter.Brand))
	}
	if filter.InStock != nil {
		where.eq("in_stock", *filter.InStock)
	}
	where.search(filter.Search, "name", "part_number", "description")

	query := fmt.Sprintf(`SELECT %s FROM spare_parts WHERE %s ORDER BY seq ASC`, sparePartColumns, where)
	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSpareParts(rows)
}

func scanSpareParts(rows pgx.Rows) ([]domain.SparePart, error) {
	result := []domain.SparePart{}
	for rows.Next() {
		var part domain.SparePart
		if err := rows.Scan(
			&part.ID,
			&part.Name,
			&part.PartNumber,
			&part.Description,
			&part.Brand,
			&part.Category,
			&part.Price,
			&part.InStock,
			&part.CreatedAt,
			&part.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, part)
	}
	return result, rows.Err()
}
