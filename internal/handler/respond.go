package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pocket-jobs/internal/repository"
)

// Every endpoint answers with the same envelope: {success, data|error} plus
// an optional pagination block on listing responses.

func respondData(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func respondPage(c echo.Context, data any, p repository.Pagination) error {
	return c.JSON(200, echo.Map{"success": true, "data": data, "pagination": p})
}

func respondMessage(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": true, "message": msg})
}

func respondError(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "error": msg})
}
