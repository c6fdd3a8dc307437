package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pocket-jobs/internal/repository"
)

// FavoriteHandler manages the caller's saved-jobs list.
type FavoriteHandler struct {
	Favorites *repository.FavoriteRepo
	Jobs      *repository.JobRepo
}

func NewFavoriteHandler(favs *repository.FavoriteRepo, jobs *repository.JobRepo) *FavoriteHandler {
	return &FavoriteHandler{Favorites: favs, Jobs: jobs}
}

// Add saves a job to the caller's favorites.  Saving the same job twice is
// rejected.
func (h *FavoriteHandler) Add(c echo.Context) error {
	ident, ok := identity(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req struct {
		JobID uint64 `json:"job_id"`
	}
	if err := c.Bind(&req); err != nil || req.JobID == 0 {
		return respondError(c, http.StatusBadRequest, "job_id required")
	}
	ctx := c.Request().Context()

	if _, err := h.Jobs.GetOwnerID(ctx, req.JobID); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return respondError(c, http.StatusNotFound, "job not found")
		}
		return respondError(c, http.StatusInternalServerError, "query failed")
	}

	fav, err := h.Favorites.Add(ctx, ident.ID, req.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrFavoriteExists) {
			return respondError(c, http.StatusBadRequest, "job already in favorites")
		}
		return respondError(c, http.StatusInternalServerError, "add favorite failed")
	}
	return respondData(c, http.StatusCreated, fav)
}

// List returns the caller's favorites with full job rows attached, newest
// first.
func (h *FavoriteHandler) List(c echo.Context) error {
	ident, ok := identity(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	rows, err := h.Favorites.ListByUser(c.Request().Context(), ident.ID)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	return respondData(c, http.StatusOK, rows)
}

// Remove drops a job from the caller's favorites.
func (h *FavoriteHandler) Remove(c echo.Context) error {
	ident, ok := identity(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	jobID, err := paramID(c, "jobId")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid job id")
	}
	if err := h.Favorites.Remove(c.Request().Context(), ident.ID, jobID); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return respondError(c, http.StatusNotFound, "favorite not found")
		}
		return respondError(c, http.StatusInternalServerError, "remove favorite failed")
	}
	return respondMessage(c, http.StatusOK, "favorite removed successfully")
}
