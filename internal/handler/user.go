package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pocket-jobs/internal/config"
	"github.com/iliyamo/pocket-jobs/internal/repository"
	"github.com/iliyamo/pocket-jobs/internal/utils"
)

// UserHandler serves the authenticated profile endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewUserHandler(cfg config.Config, u UserStore) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u}
}

// GetProfile returns the caller's own user record.
func (h *UserHandler) GetProfile(c echo.Context) error {
	ident, ok := identity(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	u, err := h.Users.GetByID(c.Request().Context(), ident.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, http.StatusNotFound, "user not found")
		}
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	return respondData(c, http.StatusOK, userToPart(u))
}

// UpdateProfile overwrites the fields present in the body and leaves the
// rest untouched.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	ident, ok := identity(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Phone     *string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	u, err := h.Users.UpdateProfile(c.Request().Context(), ident.ID, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "update failed")
	}
	return respondData(c, http.StatusOK, userToPart(u))
}

// ChangePassword verifies the current password before storing a new hash.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	ident, ok := identity(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if req.CurrentPassword == "" || len(req.NewPassword) < 6 {
		return respondError(c, http.StatusBadRequest, "new password must be at least 6 characters")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, ident.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, http.StatusNotFound, "user not found")
		}
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return respondError(c, http.StatusBadRequest, "current password is incorrect")
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "hash failed")
	}
	if err := h.Users.UpdatePassword(ctx, ident.ID, hash); err != nil {
		return respondError(c, http.StatusInternalServerError, "update failed")
	}
	return respondMessage(c, http.StatusOK, "password changed successfully")
}

// DeleteAccount removes the caller's user row; owned jobs, sessions,
// favorites and image rows cascade in the database.
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	ident, ok := identity(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	if err := h.Users.Delete(c.Request().Context(), ident.ID); err != nil {
		return respondError(c, http.StatusInternalServerError, "delete failed")
	}
	return respondMessage(c, http.StatusOK, "account deleted successfully")
}
