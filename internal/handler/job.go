package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pocket-jobs/internal/queue"
	"github.com/iliyamo/pocket-jobs/internal/repository"
	queue_publisher "github.com/iliyamo/pocket-jobs/internal/service"
	"github.com/iliyamo/pocket-jobs/internal/storage"
)

// JobHandler bundles the repositories and collaborators for job endpoints.
type JobHandler struct {
	Jobs       *repository.JobRepo
	Categories *repository.CategoryRepo
	Images     *repository.ImageRepo
	Store      *storage.ImageStore
}

func NewJobHandler(jobs *repository.JobRepo, cats *repository.CategoryRepo, images *repository.ImageRepo, store *storage.ImageStore) *JobHandler {
	return &JobHandler{Jobs: jobs, Categories: cats, Images: images, Store: store}
}

// validJobStatus enumerates the status values a job may take.
var validJobStatus = map[string]bool{
	"active":    true,
	"inactive":  true,
	"completed": true,
	"pending":   true,
	"approved":  true,
	"rejected":  true,
}

// parseJobDate accepts RFC3339 timestamps and plain dates.
func parseJobDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

type createJobReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CategoryID  uint64  `json:"category_id"`
	Price       float64 `json:"price"`
	Duration    string  `json:"duration"`
	City        string  `json:"city"`
	Date        string  `json:"date"`
}

// Create inserts a new listing owned by the caller, in 'pending' status,
// and announces it on the job.posted queue (best effort).
func (h *JobHandler) Create(c echo.Context) error {
	ident, ok := identity(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req createJobReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.City = strings.TrimSpace(req.City)
	if req.Title == "" || strings.TrimSpace(req.Description) == "" || req.City == "" {
		return respondError(c, http.StatusBadRequest, "title, description and city required")
	}
	if req.Price < 0 {
		return respondError(c, http.StatusBadRequest, "price must not be negative")
	}
	date, err := parseJobDate(req.Date)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid date")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return respondError(c, http.StatusBadRequest, "unknown category")
		}
		return respondError(c, http.StatusInternalServerError, "query failed")
	}

	job := &repository.Job{
		UserID:      ident.ID,
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Duration:    sql.NullString{String: req.Duration, Valid: req.Duration != ""},
		City:        req.City,
		Date:        date,
	}
	if err := h.Jobs.Create(ctx, job); err != nil {
		return respondError(c, http.StatusInternalServerError, "create job failed")
	}

	// The event is advisory; a broker outage never fails the request.
	if err := queue_publisher.PublishJobPosted(ctx, queue.JobPostedEvent{
		JobID:    job.ID,
		UserID:   job.UserID,
		Title:    job.Title,
		Category: cat.Name,
		City:     job.City,
		Price:    job.Price,
		PostedAt: job.CreatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("job.posted publish failed for job %d: %v", job.ID, err)
	}

	// Answer with the joined row so the response carries the duration and
	// the poster/category names, the same shape list and detail use.
	row, err := h.Jobs.GetByID(ctx, job.ID)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	return respondData(c, http.StatusCreated, row)
}

// List returns one page of jobs matching the optional query filters.
func (h *JobHandler) List(c echo.Context) error {
	var f repository.JobFilter
	if v := strings.TrimSpace(c.QueryParam("category_id")); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "invalid category_id")
		}
		f.CategoryID = &id
	}
	f.City = strings.TrimSpace(c.QueryParam("city"))
	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		if !validJobStatus[v] {
			return respondError(c, http.StatusBadRequest, "invalid status")
		}
		f.Status = v
	}
	if v := strings.TrimSpace(c.QueryParam("min_price")); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "invalid min_price")
		}
		f.MinPrice = &p
	}
	if v := strings.TrimSpace(c.QueryParam("max_price")); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "invalid max_price")
		}
		f.MaxPrice = &p
	}
	page, limit := parsePagination(c)

	rows, total, err := h.Jobs.List(c.Request().Context(), f, page, limit)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	return respondPage(c, rows, repository.NewPagination(page, limit, total))
}

// jobDetail is a single job joined with its images.
type jobDetail struct {
	repository.JobRow
	Images []repository.Image `json:"images"`
}

// GetByID returns one job with poster, category and image data.
func (h *JobHandler) GetByID(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()

	row, err := h.Jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return respondError(c, http.StatusNotFound, "job not found")
		}
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	images, err := h.Images.ListByJob(ctx, id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	return respondData(c, http.StatusOK, jobDetail{JobRow: row, Images: images})
}

// ListByUser returns every job posted by the given user.
func (h *JobHandler) ListByUser(c echo.Context) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid user id")
	}
	rows, err := h.Jobs.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	return respondData(c, http.StatusOK, rows)
}

type updateJobReq struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	CategoryID  *uint64  `json:"category_id"`
	Price       *float64 `json:"price"`
	Duration    *string  `json:"duration"`
	City        *string  `json:"city"`
	Date        *string  `json:"date"`
}

// Update overwrites the provided listing fields.  Only the owner may edit
// a job.
func (h *JobHandler) Update(c echo.Context) error {
	ident, ok := identity(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req updateJobReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if req.Price != nil && *req.Price < 0 {
		return respondError(c, http.StatusBadRequest, "price must not be negative")
	}
	var date *time.Time
	if req.Date != nil {
		d, err := parseJobDate(*req.Date)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "invalid date")
		}
		date = &d
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ownerID, err := h.Jobs.GetOwnerID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return respondError(c, http.StatusNotFound, "job not found")
		}
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	if !ownerOrRole(ownerID, ident) {
		return respondError(c, http.StatusForbidden, "not authorized to update this job")
	}

	if err := h.Jobs.Update(ctx, id, req.Title, req.Description, req.CategoryID, req.Price, req.Duration, req.City, date); err != nil {
		return respondError(c, http.StatusInternalServerError, "update failed")
	}
	row, err := h.Jobs.GetByID(ctx, id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	return respondData(c, http.StatusOK, row)
}

// UpdateStatus sets the listing status.  The owner and admins may do this.
func (h *JobHandler) UpdateStatus(c echo.Context) error {
	ident, ok := identity(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !validJobStatus[req.Status] {
		return respondError(c, http.StatusBadRequest, "invalid status")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ownerID, err := h.Jobs.GetOwnerID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return respondError(c, http.StatusNotFound, "job not found")
		}
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	if !ownerOrRole(ownerID, ident, "admin") {
		return respondError(c, http.StatusForbidden, "not authorized to update this job status")
	}

	if err := h.Jobs.UpdateStatus(ctx, id, req.Status); err != nil {
		return respondError(c, http.StatusInternalServerError, "update failed")
	}
	row, err := h.Jobs.GetByID(ctx, id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	return respondData(c, http.StatusOK, row)
}

// Delete removes a listing.  Stored image objects are removed best effort
// before the row (and its image rows, via cascade) go away.
func (h *JobHandler) Delete(c echo.Context) error {
	ident, ok := identity(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ownerID, err := h.Jobs.GetOwnerID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return respondError(c, http.StatusNotFound, "job not found")
		}
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	if !ownerOrRole(ownerID, ident) {
		return respondError(c, http.StatusForbidden, "not authorized to delete this job")
	}

	if h.Store != nil {
		if images, err := h.Images.ListByJob(ctx, id); err == nil {
			for _, img := range images {
				if err := h.Store.Remove(ctx, img.URL); err != nil {
					log.Printf("image host delete failed for %s: %v", img.URL, err)
				}
			}
		}
	}
	if err := h.Jobs.Delete(ctx, id); err != nil {
		return respondError(c, http.StatusInternalServerError, "delete failed")
	}
	return respondMessage(c, http.StatusOK, "job deleted successfully")
}
