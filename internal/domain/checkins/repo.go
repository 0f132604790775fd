package checkins

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Log(ctx context.Context, memberID int64, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO check_ins (member_id, checked_in_at) VALUES ($1,$2)`,
		memberID, at)
	return err
}

// Dates возвращает отсортированные уникальные календарные даты посещений
// в диапазоне [from, to] включительно.
func (r *Repo) Dates(ctx context.Context, memberID int64, from, to time.Time) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT date(checked_in_at) AS d
		FROM check_ins
		WHERE member_id = $1 AND date(checked_in_at) BETWEEN $2 AND $3
		ORDER BY d
	`, memberID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repo) ListByMember(ctx context.Context, memberID int64) ([]CheckIn, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, member_id, checked_in_at
		FROM check_ins
		WHERE member_id = $1
		ORDER BY checked_in_at DESC
	`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CheckIn
	for rows.Next() {
		var c CheckIn
		if err := rows.Scan(&c.ID, &c.MemberID, &c.CheckedInAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
