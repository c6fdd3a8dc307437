package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/pocket-jobs/internal/config"
	"github.com/iliyamo/pocket-jobs/internal/handler"
	"github.com/iliyamo/pocket-jobs/internal/middleware"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Job      *handler.JobHandler
	Category *handler.CategoryHandler
	Favorite *handler.FavoriteHandler
	Image    *handler.ImageHandler
	Search   *handler.SearchHandler
}

// Register mounts the whole API surface on the provided Echo instance.
// Read-only browse endpoints are public (and cached when Redis is up);
// everything that mutates data or is scoped to a caller sits behind JWTAuth.
func Register(e *echo.Echo, cfg config.Config, cacheCfg config.CacheConfig, h Handlers, users middleware.UserFinder, rdb *redis.Client) {
	// Liveness endpoint for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	authed := middleware.JWTAuth(cfg.JWTSecret, users)
	cached := middleware.CacheResponses(cacheCfg, rdb)

	// Session lifecycle.  Register, login and refresh work without a token;
	// logout and me require one.
	auth := e.Group("/api/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout, authed)
	auth.GET("/me", h.Auth.Me, authed)

	// Profile endpoints, all scoped to the caller.
	profile := e.Group("/api/users", authed)
	profile.GET("/profile", h.User.GetProfile)
	profile.PUT("/profile", h.User.UpdateProfile)
	profile.PUT("/password", h.User.ChangePassword)
	profile.DELETE("/account", h.User.DeleteAccount)

	// Job browsing is public; the filtered listing is a cache candidate.
	jobs := e.Group("/api/jobs")
	jobs.GET("", h.Job.List, cached)
	jobs.GET("/:id", h.Job.GetByID)
	jobs.GET("/user/:userId", h.Job.ListByUser)
	jobs.POST("", h.Job.Create, authed)
	jobs.PUT("/:id", h.Job.Update, authed)
	jobs.PATCH("/:id/status", h.Job.UpdateStatus, authed)
	jobs.DELETE("/:id", h.Job.Delete, authed)

	// Image sub-resource of a job.
	jobs.GET("/:id/images", h.Image.List)
	jobs.POST("/:id/images", h.Image.Upload, authed)
	jobs.DELETE("/:id/images/:imageId", h.Image.Delete, authed)
	jobs.PATCH("/:id/images/:imageId/primary", h.Image.SetPrimary, authed)

	// Categories are public to read and admin-only to change.
	adminOnly := middleware.RequireRole("admin")
	cats := e.Group("/api/categories")
	cats.GET("", h.Category.List, cached)
	cats.GET("/:slug", h.Category.GetBySlug)
	cats.POST("", h.Category.Create, authed, adminOnly)
	cats.PUT("/:id", h.Category.Update, authed, adminOnly)
	cats.DELETE("/:id", h.Category.Delete, authed, adminOnly)

	// Favorites are always caller-scoped.
	favs := e.Group("/api/favorites", authed)
	favs.POST("", h.Favorite.Add)
	favs.GET("", h.Favorite.List)
	favs.DELETE("/:jobId", h.Favorite.Remove)

	// Free-text search over jobs.
	e.GET("/api/search", h.Search.Search, cached)
}
