package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pocket-jobs/internal/config"
	"github.com/iliyamo/pocket-jobs/internal/repository"
	"github.com/iliyamo/pocket-jobs/internal/utils"
)

// UserStore is the slice of the user repository the auth and profile
// handlers depend on.  *repository.UserRepo satisfies it; tests stub it.
type UserStore interface {
	Create(ctx context.Context, email, password, firstName, lastName, phone string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id uint64) (repository.User, error)
	UpdateProfile(ctx context.Context, id uint64, firstName, lastName, phone *string) (repository.User, error)
	UpdatePassword(ctx context.Context, id uint64, hash string) error
	Delete(ctx context.Context, id uint64) error
}

// SessionStore covers the session rows behind login, refresh and logout.
// *repository.SessionRepo satisfies it.
type SessionStore interface {
	Create(ctx context.Context, userID uint64, token, refreshToken string, expiresAt time.Time) error
	FindByRefresh(ctx context.Context, refreshToken string, userID uint64) (repository.Session, error)
	Rotate(ctx context.Context, id uint64, token, refreshToken string, expiresAt time.Time) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteByID(ctx context.Context, id uint64) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Sessions SessionStore
}

func NewAuthHandler(cfg config.Config, u UserStore, s SessionStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s}
}

// ----- DTOs -----

type registerReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type userPart struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
}
type authData struct {
	User         userPart `json:"user"`
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
}

func userToPart(u repository.User) userPart {
	return userPart{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone.String,
		Role:      u.Role,
	}
}

// issuePair signs a fresh access/refresh token pair and records the session
// row carrying it.  The session expiry tracks the refresh token.
func (h *AuthHandler) issuePair(ctx context.Context, userID uint64) (access, refresh utils.SignedToken, err error) {
	access, err = utils.NewToken(h.Cfg.JWTSecret, userID, time.Duration(h.Cfg.AccessTTLDays)*24*time.Hour)
	if err != nil {
		return
	}
	refresh, err = utils.NewToken(h.Cfg.JWTRefreshSecret, userID, time.Duration(h.Cfg.RefreshTTLDays)*24*time.Hour)
	if err != nil {
		return
	}
	err = h.Sessions.Create(ctx, userID, access.Token, refresh.Token, refresh.Exp)
	return
}

// Register creates the user and returns a token pair immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return respondError(c, http.StatusBadRequest, "valid email required")
	}
	if len(req.Password) < 6 {
		return respondError(c, http.StatusBadRequest, "password must be at least 6 characters")
	}
	if req.FirstName == "" || req.LastName == "" {
		return respondError(c, http.StatusBadRequest, "first and last name required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, req.FirstName, req.LastName, strings.TrimSpace(req.Phone), h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return respondError(c, http.StatusConflict, "email already registered")
		}
		return respondError(c, http.StatusInternalServerError, "create user failed")
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "load user failed")
	}

	access, refresh, err := h.issuePair(ctx, uid)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return respondData(c, http.StatusCreated, authData{
		User:         userToPart(u),
		Token:        access.Token,
		RefreshToken: refresh.Token,
	})
}

// Login verifies credentials and returns a new token pair.  Banned accounts
// are rejected here regardless of password correctness.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "email/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, http.StatusUnauthorized, "invalid credentials")
		}
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	if u.IsBanned {
		return respondError(c, http.StatusForbidden, "account banned")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return respondError(c, http.StatusUnauthorized, "invalid credentials")
	}

	access, refresh, err := h.issuePair(ctx, u.ID)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return respondData(c, http.StatusOK, authData{
		User:         userToPart(u),
		Token:        access.Token,
		RefreshToken: refresh.Token,
	})
}

// Refresh exchanges a valid refresh token for a fresh pair, rotating the
// session row in place.  A session found past its expiry is deleted before
// the error is reported, so retrying with the same token yields "invalid".
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return respondError(c, http.StatusBadRequest, "refreshToken required")
	}
	raw := strings.TrimSpace(req.RefreshToken)

	userID, err := utils.ParseToken(h.Cfg.JWTRefreshSecret, raw)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "invalid refresh token")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Sessions.FindByRefresh(ctx, raw, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return respondError(c, http.StatusUnauthorized, "invalid refresh token")
		}
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		_ = h.Sessions.DeleteByID(ctx, sess.ID)
		return respondError(c, http.StatusUnauthorized, "refresh token expired")
	}

	access, err := utils.NewToken(h.Cfg.JWTSecret, userID, time.Duration(h.Cfg.AccessTTLDays)*24*time.Hour)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "issue access failed")
	}
	refresh, err := utils.NewToken(h.Cfg.JWTRefreshSecret, userID, time.Duration(h.Cfg.RefreshTTLDays)*24*time.Hour)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "issue refresh failed")
	}
	if err := h.Sessions.Rotate(ctx, sess.ID, access.Token, refresh.Token, refresh.Exp); err != nil {
		return respondError(c, http.StatusInternalServerError, "save session failed")
	}

	return respondData(c, http.StatusOK, echo.Map{
		"token":        access.Token,
		"refreshToken": refresh.Token,
	})
}

// Logout deletes the session carrying the presented access token.  The
// route sits behind JWTAuth, so the header is present and already verified.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.DeleteByToken(ctx, token); err != nil {
		return respondError(c, http.StatusInternalServerError, "logout failed")
	}
	return respondMessage(c, http.StatusOK, "logged out successfully")
}

// Me returns the authenticated caller's identity.
func (h *AuthHandler) Me(c echo.Context) error {
	ident, ok := identity(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	return respondData(c, http.StatusOK, ident)
}
