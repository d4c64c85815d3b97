package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ahmed-Younes0x/greenswap/internal/domain"
)

// CategoryRepository defines persistence access for item categories.
type CategoryRepository interface {
	ListActive(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a Postgres-backed implementation.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]domain.Category, error) {
	const query = `
        SELECT id, name, name_ar, description, icon, is_active, created_at
        FROM categories WHERE is_active = TRUE ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(
			&cat.ID,
			&cat.Name,
			&cat.NameAr,
			&cat.Description,
			&cat.Icon,
			&cat.Active,
			&cat.CreatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	const query = `
        SELECT id, name, name_ar, description, icon, is_active, created_at
        FROM categories WHERE id=$1`

	var cat domain.Category
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&cat.ID,
		&cat.Name,
		&cat.NameAr,
		&cat.Description,
		&cat.Icon,
		&cat.Active,
		&cat.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &cat, nil
}
