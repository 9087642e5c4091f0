package main

import (
	"context"
	"os"
	"strings"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"dealdocs/docs"
	"dealdocs/internal/audit"
	"dealdocs/internal/config"
	"dealdocs/internal/database"
	"dealdocs/internal/database/migration"
	handlers "dealdocs/internal/http/handler"
	"dealdocs/internal/http/middleware"
	otelx "dealdocs/internal/otel"
	"dealdocs/internal/repository/postgres"
	"dealdocs/internal/resolver"
	"dealdocs/internal/service"
	"dealdocs/internal/storage"
)

// @title Deal Document API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	ctx := context.Background()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, cfg.Database.Host, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	shutdownTracing, err := otelx.Init(ctx, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer shutdownTracing(context.Background())

	// Optional S3-compatible archive sink for promoted legacy files
	var archive storage.Archive
	if cfg.Archive.Endpoint != "" {
		archive, err = storage.NewMinIO(cfg.Archive)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize archive storage")
		}
	}

	resolver.InitMetrics(prometheus.DefaultRegisterer)
	audit.InitMetrics(prometheus.DefaultRegisterer)

	// Initialize repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	dealRepo := postgres.NewDealPostgres(db)

	res := resolver.New(cfg.Documents.SearchRoots)
	iso := service.NewIsolationService(docRepo, dealRepo, logger)
	docSvc := service.NewDocumentService(docRepo, dealRepo, iso, res, cfg.Documents, logger)
	runner := audit.NewRunner(docRepo, dealRepo, res, archive, cfg.Audit, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to register http metrics")
	}
	app.Use(promMW.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, docSvc, iso, runner)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("starting server")

	if err := app.Listen(addr); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
