package postgres

import (
	"context"
	"database/sql"

	"streetpaws/internal/domain/helplines"
)

type HelplinesRepo struct {
	db *sql.DB
}

func NewHelplinesRepo(db *sql.DB) *HelplinesRepo {
	return &HelplinesRepo{db: db}
}

func (r *HelplinesRepo) Create(ctx context.Context, h helplines.Helpline) (helplines.Helpline, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO helplines (name, type, phone, hours, coverage, description)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, h.Name, h.Type, h.Phone, h.Hours, h.Coverage, toNullString(h.Description)).Scan(&h.ID)
	if err != nil {
		return helplines.Helpline{}, err
	}
	return h, nil
}

func (r *HelplinesRepo) List(ctx context.Context) ([]helplines.Helpline, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, phone, hours, coverage, description
		FROM helplines
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]helplines.Helpline, 0)
	for rows.Next() {
		var (
			h    helplines.Helpline
			desc sql.NullString
		)
		if err := rows.Scan(&h.ID, &h.Name, &h.Type, &h.Phone, &h.Hours, &h.Coverage, &desc); err != nil {
			return nil, err
		}
		h.Description = desc.String
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *HelplinesRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM helplines`).Scan(&n)
	return n, err
}
