package members

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, name, email string, joinDate time.Time, baseFee float64) (*Member, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO members (name, email, join_date, base_monthly_fee)
		VALUES ($1,$2,$3,$4)
		RETURNING id, name, email, join_date, base_monthly_fee, status, created_at
	`, name, email, joinDate, baseFee)
	return scanMember(row)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Member, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, join_date, base_monthly_fee, status, created_at
		FROM members WHERE id = $1
	`, id)
	m, err := scanMember(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (r *Repo) List(ctx context.Context) ([]Member, error) {
	return r.list(ctx, `
		SELECT id, name, email, join_date, base_monthly_fee, status, created_at
		FROM members ORDER BY id
	`)
}

func (r *Repo) ListActive(ctx context.Context) ([]Member, error) {
	return r.list(ctx, `
		SELECT id, name, email, join_date, base_monthly_fee, status, created_at
		FROM members WHERE status = 'active' ORDER BY id
	`)
}

func (r *Repo) SetStatus(ctx context.Context, id int64, status Status) error {
	_, err := r.pool.Exec(ctx, `UPDATE members SET status = $2 WHERE id = $1`, id, string(status))
	return err
}

func (r *Repo) list(ctx context.Context, q string) ([]Member, error) {
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.JoinDate, &m.BaseMonthlyFee, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanMember(row rowScanner) (*Member, error) {
	var m Member
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.JoinDate, &m.BaseMonthlyFee, &m.Status, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
