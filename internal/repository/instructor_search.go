package repository

import (
	"context"
	"strings"
)

// InstructorQuery defines the optional name filter and pagination for
// instructor listings. Page is 1-based.
type InstructorQuery struct {
	Search   string
	Page     int
	PageSize int
}

// InstructorRow is the public projection of an instructor profile returned by
// listings. Password hashes and inactive accounts never appear here.
type InstructorRow struct {
	ID         uint64  `json:"id"`
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Bio        string  `json:"bio"`
	Profession *string `json:"profession"`
	Avatar     string  `json:"avatar"`
}

// ListInstructors returns one page of active instructor profiles plus the
// total match count so handlers can compute page counts.
func (r *UserRepo) ListInstructors(ctx context.Context, q InstructorQuery) ([]InstructorRow, int64, error) {
	where := []string{"d.is_instructor = 1", "u.is_active = 1"}
	args := []any{}

	if s := strings.TrimSpace(q.Search); s != "" {
		where = append(where, "(LOWER(CONCAT(u.first_name,' ',u.last_name)) LIKE ? OR LOWER(p.name) LIKE ?)")
		like := "%" + strings.ToLower(s) + "%"
		args = append(args, like, like)
	}
	cond := strings.Join(where, " AND ")

	const from = ` FROM users u
		JOIN user_details d ON d.user_id = u.id
		LEFT JOIN professions p ON p.id = d.profession_id
		WHERE `

	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*)"+from+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			u.id,
			u.email,
			u.first_name,
			u.last_name,
			COALESCE(d.bio, '') AS bio,
			p.name AS profession,
			COALESCE(d.avatar, '') AS avatar` + from + cond + `
		ORDER BY u.id ASC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]InstructorRow, 0, limit)
	for rows.Next() {
		var row InstructorRow
		if err := rows.Scan(&row.ID, &row.Email, &row.FirstName, &row.LastName,
			&row.Bio, &row.Profession, &row.Avatar); err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}
