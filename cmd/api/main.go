package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"gigmarket/internal/config"
	"gigmarket/internal/handler"
	"gigmarket/internal/middleware"
	"gigmarket/internal/pkg/i18n"
	"gigmarket/internal/realtime"
	"gigmarket/internal/repository"
	"gigmarket/internal/service"
	"gigmarket/internal/service/auth"
	"gigmarket/internal/service/notification"
)

const sessionCleanupInterval = time.Hour

func main() {
	envErr := godotenv.Load()

	fs := pflag.NewFlagSet("gigmarket", pflag.ExitOnError)
	config.Flags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg := config.Load(fs)
	log := newLogger(cfg)
	slog.SetDefault(log)

	if envErr != nil {
		log.Info("no .env file found, using environment variables")
	}

	if err := i18n.LoadTranslations(); err != nil {
		log.Error("failed to load translations", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.AutoMigrate {
		if err := config.RunMigrations(cfg, log); err != nil {
			log.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Warn("redis unavailable, caching and cross-instance events disabled", slog.Any("error", err))
		redisClient = nil
	}

	hub := realtime.NewHub(log)
	var pusher realtime.Pusher = hub
	var relay *realtime.Relay
	if redisClient != nil {
		relay = realtime.NewRelay(redisClient, cfg.EventChannel, hub, log)
		if err := relay.Start(context.Background()); err != nil {
			log.Warn("event relay not started, pushing to local subscribers only", slog.Any("error", err))
			relay = nil
		} else {
			pusher = relay
		}
	}

	dispatcher := notification.NewDispatcher(cfg.FanoutWorkers, log)
	dispatcher.Start()

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, pusher, dispatcher, cfg, log)
	handlers := handler.NewHandlers(services, hub, cfg.Environment == "production")

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestInfo())

	setupRoutes(app, handlers, services.Auth, cfg.RequestTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go cleanupSessions(ctx, services.Auth, log)

	go func() {
		log.Info("server starting", slog.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	// Closing the hub ends open event streams so Shutdown does not wait on them.
	hub.Close()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server shutdown", slog.Any("error", err))
	}
	dispatcher.Close()
	if relay != nil {
		relay.Close()
	}
	if redisClient != nil {
		closeRedis(redisClient, log)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	opts.Level = slog.LevelDebug
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func closeRedis(client *redis.Client, log *slog.Logger) {
	if err := client.Close(); err != nil {
		log.Error("redis close", slog.Any("error", err))
	}
}

func cleanupSessions(ctx context.Context, authService auth.Service, log *slog.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := authService.CleanupSessions(ctx); err != nil {
				log.Error("session cleanup failed", slog.Any("error", err))
			}
		}
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service, timeout time.Duration) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth", middleware.Timeout(timeout))
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)
	authGroup.Post("/logout", h.Auth.Logout)
	authGroup.Get("/me", middleware.AuthRequired(authService), h.Auth.Me)

	requireAuth := middleware.AuthRequired(authService)

	// The stream is long-lived and must not inherit the request timeout.
	v1.Get("/stream", requireAuth, h.Stream.Stream)

	users := v1.Group("/users", requireAuth, middleware.Timeout(timeout))
	users.Get("/", h.User.List)
	users.Get("/me", h.User.GetProfile)
	users.Put("/me", h.User.UpdateProfile)

	// Browsing gigs is public; /mine is registered ahead of /:gigId.
	gigs := v1.Group("/gigs", middleware.Timeout(timeout))
	gigs.Get("/", middleware.OptionalAuth(authService), h.Gig.List)
	gigs.Post("/", requireAuth, h.Gig.Create)
	gigs.Get("/mine", requireAuth, h.Gig.ListMine)
	gigs.Get("/:gigId", h.Gig.Get)
	gigs.Put("/:gigId", requireAuth, h.Gig.Update)
	gigs.Delete("/:gigId", requireAuth, h.Gig.Delete)
	gigs.Get("/:gigId/bids", requireAuth, h.Bid.ListForGig)

	bids := v1.Group("/bids", requireAuth, middleware.Timeout(timeout))
	bids.Post("/", h.Bid.Create)
	bids.Get("/mine", h.Bid.ListMine)
	bids.Get("/:bidId", h.Bid.Get)
	bids.Patch("/:bidId", h.Bid.Update)
	bids.Patch("/:bidId/hire", h.Bid.Hire)

	notifications := v1.Group("/notifications", requireAuth, middleware.Timeout(timeout))
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
}
