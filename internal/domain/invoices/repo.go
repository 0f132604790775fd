package invoices

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("invoices: not found")

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, memberID int64, periodStart, periodEnd time.Time, base, penalty, total float64, issueDate time.Time) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO invoices (member_id, period_start, period_end, base_amount, penalty_amount, total_amount, issue_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, memberID, periodStart, periodEnd, base, penalty, total, issueDate).Scan(&id)
	return id, err
}

func (r *Repo) ListByMember(ctx context.Context, memberID int64) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, member_id, period_start, period_end, base_amount, penalty_amount, total_amount, status, issue_date
		FROM invoices
		WHERE member_id = $1
		ORDER BY issue_date DESC, id DESC
	`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.MemberID, &inv.PeriodStart, &inv.PeriodEnd,
			&inv.BaseAmount, &inv.PenaltyAmount, &inv.TotalAmount, &inv.Status, &inv.IssueDate); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *Repo) SetStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE invoices SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
