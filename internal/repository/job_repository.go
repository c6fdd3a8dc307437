package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Job mirrors the 'jobs' table.
type Job struct {
	ID          uint64         `json:"id"`
	UserID      uint64         `json:"user_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	CategoryID  uint64         `json:"category_id"`
	Price       float64        `json:"price"`
	Duration    sql.NullString `json:"-"`
	City        string         `json:"city"`
	Date        time.Time      `json:"date"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// JobRow is a listing row joined with the poster and category names.
type JobRow struct {
	Job
	Duration     string `json:"duration,omitempty"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	CategoryName string `json:"category_name"`
}

// JobFilter carries the optional listing criteria.  Nil / empty fields are
// omitted from the generated predicate; provided filters are AND-combined.
type JobFilter struct {
	CategoryID *uint64
	City       string
	Status     string
	MinPrice   *float64
	MaxPrice   *float64
}

var ErrJobNotFound = errors.New("job not found")

type JobRepo struct{ DB *sql.DB }

func NewJobRepo(db *sql.DB) *JobRepo { return &JobRepo{DB: db} }

// buildJobClauses maps the filter to parameterized WHERE fragments.  City is
// compared case-insensitively and price bounds are inclusive.  The order of
// clauses is fixed so the same filter always yields the same SQL.
func buildJobClauses(f JobFilter) ([]string, []any) {
	where := []string{}
	args := []any{}
	if f.CategoryID != nil {
		where = append(where, "j.category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.City != "" {
		where = append(where, "LOWER(j.city) = LOWER(?)")
		args = append(args, f.City)
	}
	if f.Status != "" {
		where = append(where, "j.status = ?")
		args = append(args, f.Status)
	}
	if f.MinPrice != nil {
		where = append(where, "j.price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "j.price <= ?")
		args = append(args, *f.MaxPrice)
	}
	return where, args
}

const jobRowSelect = `SELECT
		j.id, j.user_id, j.title, j.description, j.category_id, j.price,
		j.duration, j.city, j.date, j.status, j.created_at, j.updated_at,
		u.first_name, u.last_name, c.name AS category_name
	FROM jobs j
	JOIN users u      ON u.id = j.user_id
	JOIN categories c ON c.id = j.category_id`

const jobCountSelect = `SELECT COUNT(*)
	FROM jobs j
	JOIN users u      ON u.id = j.user_id
	JOIN categories c ON c.id = j.category_id`

// List returns one page of jobs matching the filter, newest first, plus the
// total match count independent of pagination.
func (r *JobRepo) List(ctx context.Context, f JobFilter, page, limit int) ([]JobRow, int64, error) {
	where, args := buildJobClauses(f)
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

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

// ListByUser returns every job posted by one user, newest first.
func (r *JobRepo) ListByUser(ctx context.Context, userID uint64) ([]JobRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		jobRowSelect+" WHERE j.user_id = ? ORDER BY j.created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out, _, err := collectJobRows(rows, 0, 0)
	return out, err
}

func collectJobRows(rows *sql.Rows, limit int, total int64) ([]JobRow, int64, error) {
	out := make([]JobRow, 0, limit)
	for rows.Next() {
		var d JobRow
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.Title, &d.Description, &d.CategoryID, &d.Price,
			&d.Job.Duration, &d.City, &d.Date, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.FirstName, &d.LastName, &d.CategoryName,
		); err != nil {
			return nil, 0, err
		}
		d.Duration = d.Job.Duration.String
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Create inserts a job in 'pending' status and returns the stored record.
func (r *JobRepo) Create(ctx context.Context, j *Job) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO jobs (user_id, title, description, category_id, price, duration, city, date, status)
		 VALUES (?,?,?,?,?,?,?,?,'pending')`,
		j.UserID, j.Title, j.Description, j.CategoryID, j.Price, j.Duration, j.City, j.Date)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	j.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT status, created_at, updated_at FROM jobs WHERE id=?", j.ID).
		Scan(&j.Status, &j.CreatedAt, &j.UpdatedAt)
}

// GetByID fetches one job joined with poster and category names.
func (r *JobRepo) GetByID(ctx context.Context, id uint64) (JobRow, error) {
	row := r.DB.QueryRowContext(ctx, jobRowSelect+" WHERE j.id = ? LIMIT 1", id)
	var d JobRow
	err := row.Scan(
		&d.ID, &d.UserID, &d.Title, &d.Description, &d.CategoryID, &d.Price,
		&d.Job.Duration, &d.City, &d.Date, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.FirstName, &d.LastName, &d.CategoryName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrJobNotFound
	}
	d.Duration = d.Job.Duration.String
	return d, err
}

// GetOwnerID returns the posting user's id for ownership checks without
// loading the full row.
func (r *JobRepo) GetOwnerID(ctx context.Context, id uint64) (uint64, error) {
	var ownerID uint64
	err := r.DB.QueryRowContext(ctx, "SELECT user_id FROM jobs WHERE id=? LIMIT 1", id).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrJobNotFound
	}
	return ownerID, err
}

// Update overwrites the provided fields, keeping current values for nil
// arguments.
func (r *JobRepo) Update(ctx context.Context, id uint64, title, description *string, categoryID *uint64, price *float64, duration, city *string, date *time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE jobs
		 SET title       = COALESCE(?, title),
		     description = COALESCE(?, description),
		     category_id = COALESCE(?, category_id),
		     price       = COALESCE(?, price),
		     duration    = COALESCE(?, duration),
		     city        = COALESCE(?, city),
		     date        = COALESCE(?, date),
		     updated_at  = NOW()
		 WHERE id=?`,
		title, description, categoryID, price, duration, city, date, id)
	return err
}

// UpdateStatus sets the job status.
func (r *JobRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE jobs SET status=?, updated_at=NOW() WHERE id=?", status, id)
	return err
}

// Delete removes a job.  Image rows cascade in the database; stored image
// objects are cleaned up by the handler beforehand.
func (r *JobRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM jobs WHERE id=?", id)
	return err
}
