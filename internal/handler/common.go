package handler // handler defines the HTTP handlers of the marketplace API

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pocket-jobs/internal/middleware"
)

// identity returns the authenticated caller attached by the auth middleware.
// Handlers behind JWTAuth can rely on ok being true; the false branch only
// fires on miswired routes.
func identity(c echo.Context) (middleware.Identity, bool) {
	return middleware.IdentityFrom(c)
}

// ownerOrRole reports whether the acting identity may mutate a resource:
// either it owns the resource or it holds one of the privileged roles.
func ownerOrRole(ownerID uint64, ident middleware.Identity, privileged ...string) bool {
	if ident.ID == ownerID {
		return true
	}
	for _, r := range privileged {
		if ident.Role == r {
			return true
		}
	}
	return false
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// parsePagination reads page/limit query parameters with the listing
// defaults: page >= 1 (default 1), limit clamped to 1..100 (default 20).
func parsePagination(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
