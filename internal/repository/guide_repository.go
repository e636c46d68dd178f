package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/guidio/guidio-api/internal/model"
)

type GuideRepo struct{ DB *sql.DB }

func NewGuideRepo(db *sql.DB) *GuideRepo { return &GuideRepo{DB: db} }

// GuideQuery defines filters and pagination for guide listings. Page is
// 1-based; Order is "asc" or "desc" over last_modified.
type GuideQuery struct {
	Title    string
	Order    string
	Page     int
	PageSize int
}

// GuideRow is the listing projection of a guide with its author attached.
type GuideRow struct {
	ID           uint64 `json:"guide_id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	LastModified string `json:"last_modified"`
	UserID       uint64 `json:"user_id"`
	AuthorName   string `json:"author"`
}

const guideColumns = "id,user_id,title,content,last_modified"

// Create inserts a guide and returns its ID.
func (r *GuideRepo) Create(ctx context.Context, userID uint64, title, content string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO guides (user_id, title, content) VALUES (?,?,?)",
		userID, title, content)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a guide, (nil, nil) when it does not exist.
func (r *GuideRepo) GetByID(ctx context.Context, id uint64) (*model.Guide, error) {
	var g model.Guide
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+guideColumns+" FROM guides WHERE id=? LIMIT 1", id).
		Scan(&g.ID, &g.UserID, &g.Title, &g.Content, &g.LastModified)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Update rewrites title and content; last_modified refreshes via the schema's
// ON UPDATE clause.
func (r *GuideRepo) Update(ctx context.Context, id uint64, title, content string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE guides SET title=?, content=? WHERE id=?", title, content, id)
	return err
}

// Delete removes a guide row.
func (r *GuideRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM guides WHERE id=?", id)
	return err
}

// List returns one page of guides plus the total count. An optional title
// fragment narrows the result (used by the search endpoint).
func (r *GuideRepo) List(ctx context.Context, q GuideQuery) ([]GuideRow, int64, error) {
	where := []string{"1=1"}
	args := []any{}

	if t := strings.TrimSpace(q.Title); t != "" {
		where = append(where, "LOWER(g.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(t)+"%")
	}
	cond := strings.Join(where, " AND ")

	const from = ` FROM guides g
		JOIN users u ON u.id = g.user_id
		WHERE `

	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*)"+from+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "DESC"
	if strings.EqualFold(q.Order, "asc") {
		order = "ASC"
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			g.id,
			g.title,
			g.content,
			DATE_FORMAT(g.last_modified, '%Y-%m-%d %T') AS last_modified,
			g.user_id,
			CONCAT(u.first_name, ' ', u.last_name) AS author` + from + cond + `
		ORDER BY g.last_modified ` + order + `
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]GuideRow, 0, limit)
	for rows.Next() {
		var row GuideRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Content, &row.LastModified,
			&row.UserID, &row.AuthorName); err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}
