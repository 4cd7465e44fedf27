package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	config "github.com/maheshrc27/multipost-api/configs"
	"github.com/maheshrc27/multipost-api/internal/api"
	"github.com/maheshrc27/multipost-api/internal/api/handlers"
	"github.com/maheshrc27/multipost-api/internal/database"
	job "github.com/maheshrc27/multipost-api/internal/jobs"
	"github.com/maheshrc27/multipost-api/internal/repository"
	"github.com/maheshrc27/multipost-api/internal/service"
	"github.com/maheshrc27/multipost-api/pkg/logger"
	"github.com/maheshrc27/multipost-api/pkg/utils"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	logger.Setup(logger.Opts{Env: cfg.Env})

	ctx := context.Background()

	var (
		db       *sql.DB
		userRepo repository.UserRepository
		postRepo repository.PostRepository
	)
	if cfg.PostgresURI != "" {
		var err error
		db, err = database.Open(ctx, cfg.PostgresURI)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		var key []byte
		if cfg.SecretKey != "" {
			key = utils.DeriveKey(cfg.SecretKey)
		}
		userRepo = repository.NewUserRepository(db, key)
		postRepo = repository.NewPostRepository(db)
	} else {
		slog.Warn("POSTGRES_URI not set, using in-memory stores")
		userRepo = repository.NewMemoryUserRepository()
		postRepo = repository.NewMemoryPostRepository()
	}

	facebookService := service.NewFacebookService(*cfg, http.DefaultClient)
	instagramService := service.NewInstagramService(*cfg, http.DefaultClient)
	xService := service.NewXService(*cfg, http.DefaultClient)
	publisherService := service.NewPublisherService(facebookService, instagramService, xService)

	authService := service.NewAuthService(*cfg, userRepo, facebookService, xService)
	userService := service.NewUserService(userRepo)
	platformService := service.NewPlatformService(userRepo)
	postService := service.NewPostService(postRepo, userRepo, publisherService)

	var store service.ObjectStore
	if cfg.R2.Configured() {
		r2Client, err := service.NewR2Client(ctx, cfg.R2)
		if err != nil {
			log.Fatalf("Failed to configure media storage: %v", err)
		}
		store = r2Client
	}
	mediaService := service.NewMediaService(*cfg, store)

	app := api.NewApp(*cfg, api.Handlers{
		Auth:     handlers.NewAuthHandler(*cfg, authService),
		Publish:  handlers.NewPublishHandler(facebookService, instagramService, xService),
		Post:     handlers.NewPostHandler(postService),
		User:     handlers.NewUserHandler(userService),
		Platform: handlers.NewPlatformHandler(platformService),
		Media:    handlers.NewMediaHandler(mediaService),
	})

	// cron jobs
	refreshTokenJob := job.NewTokenRefreshJob(userRepo, facebookService, xService)

	c := cron.New()
	c.AddFunc("@every 00h10m00s", refreshTokenJob.RefreshTokens)
	c.Start()
	defer c.Stop()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	slog.Info("Server is running", "port", cfg.Port,
		"facebook", cfg.FacebookConfigured(), "x", cfg.XConfigured(), "media", cfg.R2.Configured())

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	if db == nil {
		return
	}
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
