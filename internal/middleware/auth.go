package middleware // middleware contains reusable HTTP middleware functions

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pocket-jobs/internal/repository"
	"github.com/iliyamo/pocket-jobs/internal/utils"
)

// identityKey is the context key under which the resolved identity is stored.
const identityKey = "identity"

// Identity is the authenticated caller attached to the request context for
// handlers and downstream guards.
type Identity struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// UserFinder resolves a user id to its current database record.  It is
// satisfied by *repository.UserRepo and stubbed in tests.
type UserFinder interface {
	GetByID(ctx context.Context, id uint64) (repository.User, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token,
// loads the user it names and injects the resolved Identity into the request
// context.  The lookup guarantees the account still exists; a deleted user's
// token is rejected even before its expiry.  The ban flag is deliberately
// not consulted here; banning is enforced at login.
func JWTAuth(secret string, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			userID, err := utils.ParseToken(secret, raw)
			if err != nil {
				if errors.Is(err, utils.ErrExpiredToken) {
					return unauthorized(c, "token expired")
				}
				return unauthorized(c, "invalid token")
			}

			u, err := users.GetByID(c.Request().Context(), userID)
			if err != nil {
				// A vanished user and a DB failure both deny access; the
				// distinction is not leaked to the client.
				return unauthorized(c, "invalid token")
			}

			c.Set(identityKey, Identity{
				ID:        u.ID,
				Email:     u.Email,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Role:      u.Role,
			})
			return next(c)
		}
	}
}

// IdentityFrom extracts the resolved identity set by JWTAuth.  The second
// return value is false on routes that never passed through the middleware.
func IdentityFrom(c echo.Context) (Identity, bool) {
	ident, ok := c.Get(identityKey).(Identity)
	return ident, ok
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": msg})
}
