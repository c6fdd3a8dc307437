package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Favorite mirrors the 'favorites' table: one row per (user, job) pair.
type Favorite struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	JobID     uint64    `json:"job_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteRow is a saved job joined with its listing data for the
// favorites overview.
type FavoriteRow struct {
	FavoriteID  uint64    `json:"favorite_id"`
	FavoritedAt time.Time `json:"favorited_at"`
	JobRow
}

var (
	ErrFavoriteExists   = errors.New("job already in favorites")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

type FavoriteRepo struct{ DB *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{DB: db} }

// Add stores a favorite pair.  The unique (user_id, job_id) index turns
// duplicates into ErrFavoriteExists.
func (r *FavoriteRepo) Add(ctx context.Context, userID, jobID uint64) (Favorite, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO favorites (user_id, job_id) VALUES (?,?)", userID, jobID)
	if err != nil {
		if isDuplicate(err) {
			return Favorite{}, ErrFavoriteExists
		}
		return Favorite{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Favorite{}, err
	}
	f := Favorite{ID: uint64(id), UserID: userID, JobID: jobID}
	err = r.DB.QueryRowContext(ctx,
		"SELECT created_at FROM favorites WHERE id=?", f.ID).Scan(&f.CreatedAt)
	return f, err
}

// ListByUser returns the user's saved jobs, most recently favorited first.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]FavoriteRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT f.id, f.created_at,
			j.id, j.user_id, j.title, j.description, j.category_id, j.price,
			j.duration, j.city, j.date, j.status, j.created_at, j.updated_at,
			u.first_name, u.last_name, c.name AS category_name
		 FROM favorites f
		 JOIN jobs j       ON j.id = f.job_id
		 JOIN users u      ON u.id = j.user_id
		 JOIN categories c ON c.id = j.category_id
		 WHERE f.user_id = ?
		 ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []FavoriteRow{}
	for rows.Next() {
		var d FavoriteRow
		if err := rows.Scan(
			&d.FavoriteID, &d.FavoritedAt,
			&d.ID, &d.JobRow.UserID, &d.Title, &d.Description, &d.CategoryID, &d.Price,
			&d.Job.Duration, &d.City, &d.Date, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.FirstName, &d.LastName, &d.CategoryName,
		); err != nil {
			return nil, err
		}
		d.Duration = d.Job.Duration.String
		out = append(out, d)
	}
	return out, rows.Err()
}

// Remove deletes a favorite pair, failing with ErrFavoriteNotFound when the
// user never saved that job.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, jobID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id=? AND job_id=?", userID, jobID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}
