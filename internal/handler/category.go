package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pocket-jobs/internal/repository"
)

// CategoryHandler serves the public category listing plus the admin-only
// mutations.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
}

func NewCategoryHandler(cats *repository.CategoryRepo) *CategoryHandler {
	return &CategoryHandler{Categories: cats}
}

// List returns every category.
func (h *CategoryHandler) List(c echo.Context) error {
	cats, err := h.Categories.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	return respondData(c, http.StatusOK, cats)
}

// GetBySlug resolves a category from its URL slug.
func (h *CategoryHandler) GetBySlug(c echo.Context) error {
	slug := strings.TrimSpace(c.Param("slug"))
	cat, err := h.Categories.GetBySlug(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return respondError(c, http.StatusNotFound, "category not found")
		}
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	return respondData(c, http.StatusOK, cat)
}

type categoryReq struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Create adds a category.  The route requires the admin role.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Name == "" || req.Slug == "" {
		return respondError(c, http.StatusBadRequest, "name and slug required")
	}

	cat, err := h.Categories.Create(c.Request().Context(), req.Name, req.Slug, req.Description)
	if err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return respondError(c, http.StatusConflict, "slug already in use")
		}
		return respondError(c, http.StatusInternalServerError, "create category failed")
	}
	return respondData(c, http.StatusCreated, cat)
}

// Update changes the provided fields of a category.
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Name        *string `json:"name"`
		Slug        *string `json:"slug"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Categories.Update(c.Request().Context(), id, req.Name, req.Slug, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			return respondError(c, http.StatusNotFound, "category not found")
		case errors.Is(err, repository.ErrSlugExists):
			return respondError(c, http.StatusConflict, "slug already in use")
		}
		return respondError(c, http.StatusInternalServerError, "update failed")
	}
	return respondData(c, http.StatusOK, cat)
}

// Delete removes a category.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Categories.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return respondError(c, http.StatusNotFound, "category not found")
		}
		return respondError(c, http.StatusInternalServerError, "delete failed")
	}
	return respondMessage(c, http.StatusOK, "category deleted successfully")
}
