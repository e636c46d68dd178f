package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/guidio/guidio-api/internal/model"
)

type ProfessionRepo struct{ DB *sql.DB }

func NewProfessionRepo(db *sql.DB) *ProfessionRepo { return &ProfessionRepo{DB: db} }

// SearchByName returns professions whose name contains the given fragment,
// case-insensitive, ordered alphabetically.
func (r *ProfessionRepo) SearchByName(ctx context.Context, name string) ([]model.Profession, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name FROM professions WHERE LOWER(name) LIKE ? ORDER BY name",
		"%"+strings.ToLower(strings.TrimSpace(name))+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Profession{}
	for rows.Next() {
		var p model.Profession
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID fetches a single profession, (nil, nil) when it does not exist.
func (r *ProfessionRepo) GetByID(ctx context.Context, id uint64) (*model.Profession, error) {
	var p model.Profession
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name FROM professions WHERE id=? LIMIT 1", id).Scan(&p.ID, &p.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
