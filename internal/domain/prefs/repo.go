package prefs

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Save(ctx context.Context, userID string, set Set) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO preferences (user_id, prefs, updated_at)
		VALUES ($1,$2,now())
		ON CONFLICT (user_id) DO UPDATE SET prefs=$2, updated_at=now()
	`, userID, raw)
	return err
}

// Recall возвращает nil, если сохранённых предпочтений нет.
func (r *Repo) Recall(ctx context.Context, userID string) (Set, error) {
	row := r.pool.QueryRow(ctx, `SELECT prefs FROM preferences WHERE user_id = $1`, userID)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return nil, nil
	}
	var s Set
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return s, nil
}
