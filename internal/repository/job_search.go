package repository

import (
	"context"
	"strings"
)

// Search returns jobs whose title, description, city or category name
// contains the query string (case-insensitive), newest first, with the same
// pagination contract as List.  Callers must reject empty queries before
// reaching this method.
func (r *JobRepo) Search(ctx context.Context, q string, page, limit int) ([]JobRow, int64, error) {
	needle := "%" + strings.ToLower(q) + "%"
	cond := `(LOWER(j.title) LIKE ?
		OR LOWER(j.description) LIKE ?
		OR LOWER(j.city) LIKE ?
		OR LOWER(c.name) LIKE ?)`
	args := []any{needle, needle, needle, needle}

	var total int64
	if err := r.DB.QueryRowContext(ctx, jobCountSelect+" WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	dataSQL := jobRowSelect + " WHERE " + cond + " ORDER BY j.created_at DESC LIMIT ? OFFSET ?"
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectJobRows(rows, limit, total)
}
