package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	config "github.com/maheshrc27/multipost-api/configs"
	"github.com/maheshrc27/multipost-api/internal/api/handlers"
	"github.com/maheshrc27/multipost-api/internal/api/middleware"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Publish  *handlers.PublishHandler
	Post     *handlers.PostHandler
	User     *handlers.UserHandler
	Platform *handlers.PlatformHandler
	Media    *handlers.MediaHandler
}

// NewApp builds the Fiber app with every route mounted under /api.
func NewApp(cfg config.Config, h Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		// route params outlive the handler once they reach a repository
		Immutable:    true,
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Info("request failed", "path", c.Path(), "error", err)
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	if cfg.Env != "test" {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	limiter := middleware.RateLimit(middleware.NewInMemoryLimiter(cfg.RateLimitPerMinute, time.Minute, cfg.RateLimitPerMinute))
	auth := middleware.NewAuthMiddleware(cfg)

	api := app.Group("/api")
	api.Get("/health", handlers.Health)

	oauth := api.Group("/oauth", limiter)
	oauth.Get("/config", h.Auth.OAuthConfig)
	oauth.Post("/facebook/token", h.Auth.FacebookToken)
	oauth.Post("/x/token", h.Auth.XToken)

	publish := api.Group("/publish", limiter)
	publish.Post("/facebook", h.Publish.Facebook)
	publish.Post("/instagram", h.Publish.Instagram)
	publish.Post("/x", h.Publish.X)

	postOwner := auth.OwnerMiddleware("userId")
	api.Get("/posts/:userId", postOwner, h.Post.ListPosts)
	api.Post("/posts/:userId", postOwner, h.Post.CreatePost)
	api.Get("/posts/:userId/:postId", postOwner, h.Post.GetPost)
	api.Delete("/posts/:userId/:postId", postOwner, h.Post.RemovePost)

	userOwner := auth.OwnerMiddleware("id")
	api.Get("/user/:id", userOwner, h.User.GetUserInfo)
	api.Delete("/user/:id", userOwner, h.User.RemoveUser)
	api.Get("/user/:id/platforms", userOwner, h.Platform.ListPlatforms)
	api.Delete("/user/:id/platforms/:platform", userOwner, h.Platform.Disconnect)

	api.Post("/media/:userId", postOwner, h.Media.Upload)

	return app
}
