package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"mr3x-notificacoes/internal/config"
	"mr3x-notificacoes/internal/handler"
	"mr3x-notificacoes/internal/middleware"
	"mr3x-notificacoes/internal/pkg/i18n"
	applog "mr3x-notificacoes/internal/pkg/logger"
	"mr3x-notificacoes/internal/repository"
	"mr3x-notificacoes/internal/service"
	"mr3x-notificacoes/internal/service/auth"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := applog.Setup(cfg.LogLevel, cfg.LogFormat, cfg.IsProduction())
	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}

	if err := i18n.LoadDefaults(cfg.LocalesPath); err != nil {
		log.WithError(err).Fatal("Failed to load translations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Failed to connect to Redis (caching disabled)")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	minioClient, err := config.NewMinIOClient(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Failed to connect to MinIO (document storage will not work)")
	}

	mongoDB, err := config.NewMongoDatabase(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Failed to connect to MongoDB (audit events are only logged)")
	}
	if mongoDB != nil {
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongoDB.Client().Disconnect(disconnectCtx)
		}()
	}

	repos := repository.NewRepositories(db, mongoDB)
	services := service.NewServices(repos, redisClient, minioClient, cfg, log)
	handlers := handler.NewHandlers(services, cfg.Location(), healthChecks(repos, redisClient, minioClient, mongoDB, cfg))

	app := fiber.New(fiber.Config{
		ErrorHandler:            middleware.NewErrorHandler(log),
		EnableTrustedProxyCheck: true,
		TrustedProxies:          cfg.TrustedProxies,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Client IP feeds the acceptance audit fields
	app.Use(middleware.RequestInfo())

	setupRoutes(app, handlers, services.Auth)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Error("Graceful shutdown failed")
		}
	}()

	log.WithField("port", cfg.Port).Info("Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
	log.Info("Server stopped")
}

func healthChecks(repos *repository.Repositories, redisClient *redis.Client, minioClient *minio.Client, mongoDB *mongo.Database, cfg *config.Config) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"postgres": repos.Notice.Ping,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	if minioClient != nil {
		checks["minio"] = func(ctx context.Context) error {
			_, err := minioClient.BucketExists(ctx, cfg.MinIOBucket)
			return err
		}
	}
	if mongoDB != nil {
		checks["mongo"] = func(ctx context.Context) error {
			return mongoDB.Client().Ping(ctx, readpref.Primary())
		}
	}
	return checks
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", h.Health.Check)

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)

	v1.Get("/postal/:cep", h.Postal.Lookup)

	public := v1.Group("/public")
	public.Get("/search", h.Public.Search)
	public.Get("/verify/:token", h.Public.View)
	public.Post("/verify/:token/accept", h.Public.Accept)
	public.Get("/verify/:token/document", h.Public.Document)
	public.Get("/verify/:token/qrcode.png", h.Public.QRCode)

	protected := v1.Group("", middleware.AuthRequired(authService))

	notices := protected.Group("/notices")
	notices.Post("/", h.Notice.Create)
	notices.Get("/", h.Notice.List)
	notices.Get("/:id", h.Notice.Get)
	notices.Post("/:id/accept", h.Notice.Accept)
	notices.Get("/:id/document", h.Notice.GetDocument)
	notices.Post("/:id/document", h.Notice.StoreDocument)
	notices.Get("/:id/events", h.Notice.ListEvents)

	protected.Get("/dashboard/stats", h.Dashboard.GetStats)
	protected.Get("/reports/export", h.Report.Export)
}
