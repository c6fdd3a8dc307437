package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pocket-jobs/internal/config"
	"github.com/iliyamo/pocket-jobs/internal/database"
	"github.com/iliyamo/pocket-jobs/internal/handler"
	"github.com/iliyamo/pocket-jobs/internal/middleware"
	"github.com/iliyamo/pocket-jobs/internal/queue"
	"github.com/iliyamo/pocket-jobs/internal/repository"
	"github.com/iliyamo/pocket-jobs/internal/router"
	"github.com/iliyamo/pocket-jobs/internal/storage"
)

func main() {
	// A .env file is a development convenience; in production the variables
	// come from the environment and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter.  Both degrade to
	// passthroughs when the client is nil, so a missing Redis never blocks
	// startup.
	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	// The image store is optional the same way: without it uploads answer
	// 503 while the rest of the API keeps working.
	var store *storage.ImageStore
	storageCfg := config.LoadStorageConfig()
	if storageCfg.Endpoint != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s, err := storage.NewImageStore(ctx, storageCfg)
		cancel()
		if err != nil {
			log.Printf("image storage unavailable: %v", err)
		} else {
			store = s
		}
	}

	userRepo := repository.NewUserRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	jobRepo := repository.NewJobRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	imageRepo := repository.NewImageRepo(db)
	favoriteRepo := repository.NewFavoriteRepo(db)

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, userRepo, sessionRepo),
		User:     handler.NewUserHandler(cfg, userRepo),
		Job:      handler.NewJobHandler(jobRepo, categoryRepo, imageRepo, store),
		Category: handler.NewCategoryHandler(categoryRepo),
		Favorite: handler.NewFavoriteHandler(favoriteRepo, jobRepo),
		Image:    handler.NewImageHandler(cfg, jobRepo, imageRepo, store),
		Search:   handler.NewSearchHandler(jobRepo),
	}

	// Drains job.posted events into the activity log; reconnects on its own.
	go func() {
		if err := queue.StartJobPostedConsumer(); err != nil {
			log.Printf("job.posted consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RateLimit(rlCfg, rdb))
	router.Register(e, cfg, cacheCfg, h, userRepo, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
