package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pocket-jobs/internal/repository"
)

// SearchHandler serves the free-text job search.
type SearchHandler struct {
	Jobs *repository.JobRepo
}

func NewSearchHandler(jobs *repository.JobRepo) *SearchHandler {
	return &SearchHandler{Jobs: jobs}
}

// Search matches the query against job titles, descriptions, cities and
// category names, case-insensitively, and returns one page of results.
func (h *SearchHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return respondError(c, http.StatusBadRequest, "search query is required")
	}
	page, limit := parsePagination(c)

	rows, total, err := h.Jobs.Search(c.Request().Context(), q, page, limit)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	return respondPage(c, rows, repository.NewPagination(page, limit, total))
}
