package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ahmed-Younes0x/greenswap/internal/domain"
)

// ItemFilter captures listing query filters.
type ItemFilter struct {
	CategoryID *string
	UserID     *string
	Status     *domain.ItemStatus
	Condition  *domain.ItemCondition
	PriceType  *domain.PriceType
	Location   *string
	Search     *string
	Featured   *bool
	Ordering   string
	Limit      int
	Offset     int
}

// ItemRepository defines persistence access for listings.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]domain.Item, int, error)
	IncrementViews(ctx context.Context, id string) error
	IncrementInterested(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.ItemStats, error)
}

type itemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository returns a Postgres-backed implementation.
func NewItemRepository(pool *pgxpool.Pool) ItemRepository {
	return &itemRepository{pool: pool}
}

const itemColumns = `id, title, description, category_id, user_id, condition, quantity, unit,
               price, price_type, location, contact_method, status, views, interested_count,
               is_featured, created_at, updated_at, expires_at`

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	const query = `
        INSERT INTO items (title, description, category_id, user_id, condition, quantity, unit,
                           price, price_type, location, contact_method, status, is_featured, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING id, views, interested_count, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		item.Title,
		item.Description,
		item.CategoryID,
		item.UserID,
		item.Condition,
		item.Quantity,
		item.Unit,
		item.Price,
		item.PriceType,
		item.Location,
		item.ContactMethod,
		item.Status,
		item.Featured,
		item.ExpiresAt,
	).Scan(&item.ID, &item.Views, &item.InterestedCount, &item.CreatedAt, &item.UpdatedAt)
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	const query = `
        UPDATE items SET title=$1, description=$2, category_id=$3, condition=$4, quantity=$5,
            unit=$6, price=$7, price_type=$8, location=$9, contact_method=$10, status=$11,
            is_featured=$12, expires_at=$13, updated_at=NOW()
        WHERE id=$14`

	cmd, err := r.pool.Exec(ctx, query,
		item.Title,
		item.Description,
		item.CategoryID,
		item.Condition,
		item.Quantity,
		item.Unit,
		item.Price,
		item.PriceType,
		item.Location,
		item.ContactMethod,
		item.Status,
		item.Featured,
		item.ExpiresAt,
		item.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	return r.fetchSingle(ctx, `SELECT `+itemColumns+` FROM items WHERE id=$1`, id)
}

func (r *itemRepository) List(ctx context.Context, filter ItemFilter) ([]domain.Item, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Condition != nil {
		args = append(args, *filter.Condition)
		clauses = append(clauses, fmt.Sprintf("condition=$%d", len(args)))
	}
	if filter.PriceType != nil {
		args = append(args, *filter.PriceType)
		clauses = append(clauses, fmt.Sprintf("price_type=$%d", len(args)))
	}
	if filter.Location != nil {
		args = append(args, "%"+*filter.Location+"%")
		clauses = append(clauses, fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		clauses = append(clauses, fmt.Sprintf("is_featured=$%d", len(args)))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + itemColumns + ` FROM items WHERE ` + where + ` ORDER BY ` + orderClause(filter.Ordering)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}
	return items, total, rows.Err()
}

// orderClause maps DRF-style ordering keys onto whitelisted SQL.
func orderClause(ordering string) string {
	switch ordering {
	case "created_at":
		return "created_at ASC"
	case "views", "-views":
		if ordering == "views" {
			return "views ASC"
		}
		return "views DESC"
	case "price":
		return "price ASC NULLS LAST"
	case "-price":
		return "price DESC NULLS LAST"
	default:
		return "created_at DESC"
	}
}

func (r *itemRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE items SET views = views + 1 WHERE id=$1`, id)
	return err
}

func (r *itemRepository) IncrementInterested(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE items SET interested_count = interested_count + 1 WHERE id=$1`, id)
	return err
}

func (r *itemRepository) Stats(ctx context.Context) (*domain.ItemStats, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status='active'),
               COUNT(*) FILTER (WHERE status='sold')
        FROM items`

	var stats domain.ItemStats
	if err := r.pool.QueryRow(ctx, query).Scan(&stats.TotalItems, &stats.ActiveItems, &stats.SoldItems); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *itemRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Item, error) {
	return scanItem(r.pool.QueryRow(ctx, query, arg))
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	if err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.CategoryID,
		&item.UserID,
		&item.Condition,
		&item.Quantity,
		&item.Unit,
		&item.Price,
		&item.PriceType,
		&item.Location,
		&item.ContactMethod,
		&item.Status,
		&item.Views,
		&item.InterestedCount,
		&item.Featured,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.ExpiresAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
