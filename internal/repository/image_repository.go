package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Image mirrors the 'images' table.  At most one image per job carries the
// primary flag; the repository methods below keep that invariant as a
// best-effort sequence of independent statements.
type Image struct {
	ID        uint64    `json:"id"`
	JobID     uint64    `json:"job_id"`
	URL       string    `json:"image_url"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

var ErrImageNotFound = errors.New("image not found")

type ImageRepo struct{ DB *sql.DB }

func NewImageRepo(db *sql.DB) *ImageRepo { return &ImageRepo{DB: db} }

// Insert stores an image row and returns it with generated fields populated.
func (r *ImageRepo) Insert(ctx context.Context, jobID uint64, url string, isPrimary bool) (Image, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO images (job_id, image_url, is_primary) VALUES (?,?,?)",
		jobID, url, isPrimary)
	if err != nil {
		return Image{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Image{}, err
	}
	img := Image{ID: uint64(id), JobID: jobID, URL: url, IsPrimary: isPrimary}
	err = r.DB.QueryRowContext(ctx,
		"SELECT created_at FROM images WHERE id=?", img.ID).Scan(&img.CreatedAt)
	return img, err
}

// ListByJob returns a job's images, primary first, then oldest first.
func (r *ImageRepo) ListByJob(ctx context.Context, jobID uint64) ([]Image, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,job_id,image_url,is_primary,created_at FROM images WHERE job_id=? ORDER BY is_primary DESC, created_at ASC",
		jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Image{}
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.JobID, &img.URL, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

// GetByID fetches one image scoped to its job.
func (r *ImageRepo) GetByID(ctx context.Context, id, jobID uint64) (Image, error) {
	var img Image
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,job_id,image_url,is_primary,created_at FROM images WHERE id=? AND job_id=? LIMIT 1",
		id, jobID).
		Scan(&img.ID, &img.JobID, &img.URL, &img.IsPrimary, &img.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return img, ErrImageNotFound
	}
	return img, err
}

// CountByJob reports how many images a job currently has.
func (r *ImageRepo) CountByJob(ctx context.Context, jobID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM images WHERE job_id=?", jobID).Scan(&n)
	return n, err
}

// Delete removes an image row.
func (r *ImageRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM images WHERE id=?", id)
	return err
}

// SetPrimary designates one image as the job's cover: every image of the job
// is cleared first, then the chosen one is flagged.  The two statements are
// not wrapped in a transaction; a crash in between leaves the job coverless,
// which the next SetPrimary or promotion repairs.
func (r *ImageRepo) SetPrimary(ctx context.Context, jobID, imageID uint64) error {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE images SET is_primary=false WHERE job_id=?", jobID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE images SET is_primary=true WHERE id=?", imageID)
	return err
}

// PromoteNextPrimary flags an arbitrary remaining image of the job as
// primary after the previous primary was deleted.  No-op when the job has
// no images left.
func (r *ImageRepo) PromoteNextPrimary(ctx context.Context, jobID uint64) error {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM images WHERE job_id=? LIMIT 1", jobID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "UPDATE images SET is_primary=true WHERE id=?", id)
	return err
}
