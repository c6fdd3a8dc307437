package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pocket-jobs/internal/config"
	"github.com/iliyamo/pocket-jobs/internal/repository"
	"github.com/iliyamo/pocket-jobs/internal/storage"
	"github.com/iliyamo/pocket-jobs/internal/utils"
)

// OwnerFinder resolves a job to its posting user for ownership checks.
// *repository.JobRepo satisfies it.
type OwnerFinder interface {
	GetOwnerID(ctx context.Context, id uint64) (uint64, error)
}

// ImageDB covers the image rows the handler reads and mutates.
// *repository.ImageRepo satisfies it; tests stub it.
type ImageDB interface {
	Insert(ctx context.Context, jobID uint64, url string, isPrimary bool) (repository.Image, error)
	ListByJob(ctx context.Context, jobID uint64) ([]repository.Image, error)
	GetByID(ctx context.Context, id, jobID uint64) (repository.Image, error)
	CountByJob(ctx context.Context, jobID uint64) (int, error)
	Delete(ctx context.Context, id uint64) error
	SetPrimary(ctx context.Context, jobID, imageID uint64) error
	PromoteNextPrimary(ctx context.Context, jobID uint64) error
}

// ImageHandler serves job image uploads, listing, deletion and the primary
// flag.  Object-store failures on delete are logged but never fail the
// request; only the upload path surfaces them.
type ImageHandler struct {
	Cfg    config.Config
	Jobs   OwnerFinder
	Images ImageDB
	Store  *storage.ImageStore
}

func NewImageHandler(cfg config.Config, jobs OwnerFinder, images ImageDB, store *storage.ImageStore) *ImageHandler {
	return &ImageHandler{Cfg: cfg, Jobs: jobs, Images: images, Store: store}
}

// jobOwnedBy loads the job's owner and checks it against the caller.
func (h *ImageHandler) jobOwnedBy(c echo.Context, jobID uint64) (int, string) {
	ident, ok := identity(c)
	if !ok {
		return http.StatusUnauthorized, "unauthorized"
	}
	ownerID, err := h.Jobs.GetOwnerID(c.Request().Context(), jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return http.StatusNotFound, "job not found"
		}
		return http.StatusInternalServerError, "query failed"
	}
	if !ownerOrRole(ownerID, ident) {
		return http.StatusForbidden, "not authorized to manage this job's images"
	}
	return http.StatusOK, ""
}

// Upload accepts one or more files under the multipart field "images" and
// stores them on the image host.  The first image of an imageless job
// becomes primary.
func (h *ImageHandler) Upload(c echo.Context) error {
	jobID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	if code, msg := h.jobOwnedBy(c, jobID); code != http.StatusOK {
		return respondError(c, code, msg)
	}
	if h.Store == nil {
		return respondError(c, http.StatusServiceUnavailable, "image storage is not configured")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return respondError(c, http.StatusBadRequest, "multipart form required")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return respondError(c, http.StatusBadRequest, "no images provided")
	}

	ctx := c.Request().Context()
	existing, err := h.Images.CountByJob(ctx, jobID)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "query failed")
	}

	saved := make([]repository.Image, 0, len(files))
	for i, fh := range files {
		if fh.Size > h.Cfg.MaxUploadBytes {
			return respondError(c, http.StatusBadRequest, "image exceeds the size limit")
		}
		src, err := fh.Open()
		if err != nil {
			return respondError(c, http.StatusBadRequest, "unreadable file")
		}
		data, err := io.ReadAll(io.LimitReader(src, h.Cfg.MaxUploadBytes+1))
		src.Close()
		if err != nil {
			return respondError(c, http.StatusBadRequest, "unreadable file")
		}
		if int64(len(data)) > h.Cfg.MaxUploadBytes {
			return respondError(c, http.StatusBadRequest, "image exceeds the size limit")
		}

		key, err := objectKey(jobID, fh.Filename)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "key generation failed")
		}
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		url, err := h.Store.Upload(ctx, key, data, contentType)
		if err != nil {
			return respondError(c, http.StatusBadGateway, "image upload failed")
		}

		isPrimary := existing == 0 && i == 0
		img, err := h.Images.Insert(ctx, jobID, url, isPrimary)
		if err != nil {
			if rerr := h.Store.Remove(ctx, url); rerr != nil {
				log.Printf("orphan cleanup failed for %s: %v", url, rerr)
			}
			return respondError(c, http.StatusInternalServerError, "save image failed")
		}
		saved = append(saved, img)
	}
	return respondData(c, http.StatusCreated, saved)
}

// objectKey builds a collision-free object key preserving the original file
// extension.
func objectKey(jobID uint64, filename string) (string, error) {
	suffix, err := utils.RandomHex(16)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return "jobs/" + strconv.FormatUint(jobID, 10) + "/" + suffix + ext, nil
}

// List returns a job's images, primary first.
func (h *ImageHandler) List(c echo.Context) error {
	jobID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	images, err := h.Images.ListByJob(c.Request().Context(), jobID)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	return respondData(c, http.StatusOK, images)
}

// Delete removes one image.  When the deleted image was primary, another
// image of the job (if any) is promoted.
func (h *ImageHandler) Delete(c echo.Context) error {
	jobID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	imageID, err := paramID(c, "imageId")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid image id")
	}
	if code, msg := h.jobOwnedBy(c, jobID); code != http.StatusOK {
		return respondError(c, code, msg)
	}
	ctx := c.Request().Context()

	img, err := h.Images.GetByID(ctx, imageID, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return respondError(c, http.StatusNotFound, "image not found")
		}
		return respondError(c, http.StatusInternalServerError, "query failed")
	}

	if err := h.Images.Delete(ctx, img.ID); err != nil {
		return respondError(c, http.StatusInternalServerError, "delete failed")
	}
	if h.Store != nil {
		if err := h.Store.Remove(ctx, img.URL); err != nil {
			log.Printf("image host delete failed for %s: %v", img.URL, err)
		}
	}
	if img.IsPrimary {
		if err := h.Images.PromoteNextPrimary(ctx, jobID); err != nil {
			log.Printf("primary promotion failed for job %d: %v", jobID, err)
		}
	}
	return respondMessage(c, http.StatusOK, "image deleted successfully")
}

// SetPrimary marks one image as the job's cover.
func (h *ImageHandler) SetPrimary(c echo.Context) error {
	jobID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	imageID, err := paramID(c, "imageId")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid image id")
	}
	if code, msg := h.jobOwnedBy(c, jobID); code != http.StatusOK {
		return respondError(c, code, msg)
	}
	ctx := c.Request().Context()

	if _, err := h.Images.GetByID(ctx, imageID, jobID); err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return respondError(c, http.StatusNotFound, "image not found")
		}
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	if err := h.Images.SetPrimary(ctx, jobID, imageID); err != nil {
		return respondError(c, http.StatusInternalServerError, "update failed")
	}
	img, err := h.Images.GetByID(ctx, imageID, jobID)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "query failed")
	}
	return respondData(c, http.StatusOK, img)
}
