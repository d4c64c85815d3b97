package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ahmed-Younes0x/greenswap/internal/domain"
)

// ReportRepository defines persistence access for listing abuse reports.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.ItemReport) error
	ListPending(ctx context.Context, limit, offset int) ([]domain.ItemReport, error)
	SetStatus(ctx context.Context, id string, status domain.ReportStatus) error
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository returns a Postgres-backed implementation.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) Create(ctx context.Context, report *domain.ItemReport) error {
	const query = `
        INSERT INTO item_reports (item_id, reporter_id, report_type, description, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		report.ItemID,
		report.ReporterID,
		report.Type,
		report.Description,
		report.Status,
	).Scan(&report.ID, &report.CreatedAt)
}

func (r *reportRepository) ListPending(ctx context.Context, limit, offset int) ([]domain.ItemReport, error) {
	const query = `
        SELECT id, item_id, reporter_id, report_type, description, status, created_at
        FROM item_reports WHERE status='pending'
        ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []domain.ItemReport{}
	for rows.Next() {
		var report domain.ItemReport
		if err := rows.Scan(
			&report.ID,
			&report.ItemID,
			&report.ReporterID,
			&report.Type,
			&report.Description,
			&report.Status,
			&report.CreatedAt,
		); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func (r *reportRepository) SetStatus(ctx context.Context, id string, status domain.ReportStatus) error {
	_, err := r.pool.Exec(ctx, `UPDATE item_reports SET status=$1 WHERE id=$2`, status, id)
	return err
}
