// This file defines the Category model and repository methods.  Categories
// are admin-managed and referenced by every job; the slug is the stable,
// URL-safe identifier used in public routes.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Category mirrors the 'categories' table.
type Category struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrSlugExists       = errors.New("category slug already exists")
)

type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// ListAll returns every category ordered by name.
func (r *CategoryRepo) ListAll(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,slug,description,created_at FROM categories ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetBySlug fetches a category by its unique slug.
func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (Category, error) {
	var c Category
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,slug,description,created_at FROM categories WHERE slug=? LIMIT 1", slug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrCategoryNotFound
	}
	return c, err
}

// Create inserts a category and returns the stored record.
func (r *CategoryRepo) Create(ctx context.Context, name, slug, description string) (Category, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO categories (name, slug, description) VALUES (?,?,?)",
		name, slug, description)
	if err != nil {
		if isDuplicate(err) {
			return Category{}, ErrSlugExists
		}
		return Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Category{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// Update overwrites the provided fields, keeping current values for nil
// arguments, and returns the updated record.
func (r *CategoryRepo) Update(ctx context.Context, id uint64, name, slug, description *string) (Category, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE categories
		 SET name        = COALESCE(?, name),
		     slug        = COALESCE(?, slug),
		     description = COALESCE(?, description)
		 WHERE id=?`,
		name, slug, description, id)
	if err != nil {
		if isDuplicate(err) {
			return Category{}, ErrSlugExists
		}
		return Category{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero affected rows can also mean a no-op update; confirm existence.
		if _, err := r.GetByID(ctx, id); err != nil {
			return Category{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a category.  ErrCategoryNotFound is returned when no row
// matched.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// GetByID fetches a category by primary key.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (Category, error) {
	var c Category
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,slug,description,created_at FROM categories WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrCategoryNotFound
	}
	return c, err
}
