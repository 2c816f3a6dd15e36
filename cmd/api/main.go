package main

import (
	"context"
	"fmt"
	"time"

	common_api "campus-incidents/internal/common/api"
	"campus-incidents/internal/config"
	"campus-incidents/internal/database"
	"campus-incidents/internal/features/audit"
	"campus-incidents/internal/features/dashboard"
	"campus-incidents/internal/features/feedback"
	"campus-incidents/internal/features/live"
	"campus-incidents/internal/features/report"
	"campus-incidents/internal/features/stream"
	"campus-incidents/internal/features/system"
	"campus-incidents/internal/incident"
	"campus-incidents/internal/logger"
	"campus-incidents/internal/messaging"
	"campus-incidents/internal/middleware"
	"campus-incidents/pkg/utils"

	_ "campus-incidents/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	app.Use(middleware.RequestIDMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, logger *zap.Logger) {
	logger.Info("Registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		logger.Debug("Setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, logger *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				logger.Info("HTTP server listening", zap.String("addr", port))
				if err := app.Listen(port); err != nil {
					logger.Error("Server failed to start", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

// NewNormalizer builds the resolver and normalizer from config
func NewNormalizer(cfg *config.Config, fetcher incident.DocumentFetcher, logger *zap.Logger) *incident.Normalizer {
	resolver := incident.NewResolver(fetcher, cfg.ResolveTimeout, logger)
	return incident.NewNormalizer(resolver, logger,
		incident.WithLocation(cfg.Location()),
		incident.WithStrictCategories(cfg.StrictCategories),
	)
}

// StartBoard opens the live subscriptions for the lifetime of the app
func StartBoard(lc fx.Lifecycle, board *live.Board) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			board.Start(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			board.Stop()
			return nil
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, db *database.MongodbDB, cfg *config.Config, logger *zap.Logger) {
	specs := []database.IndexSpec{
		{Collection: cfg.TrafficCollection, Models: []database.IndexModel{database.Descending("created_at")}},
		{Collection: cfg.SuspiciousCollection, Models: []database.IndexModel{database.Descending("created_at")}},
		{Collection: cfg.FeedbackCollection, Models: []database.IndexModel{database.Descending("createdAt")}},
		{Collection: "audit_logs", Models: []database.IndexModel{database.Descending("timestamp"), database.Ascending("record_id")}},
		{Collection: "kpi_snapshots", Models: []database.IndexModel{database.Descending("taken_at")}},
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				// Use a background context with timeout for index creation
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := db.EnsureIndexes(ctx, specs); err != nil {
					logger.Warn("Failed to ensure indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			NewFiberServer,

			// Live pipeline
			report.NewRefFetcher,
			NewNormalizer,
			live.NewMongoSource,
			live.NewBoard,
			messaging.NewPublisher,

			// Repositories
			audit.NewAuditRepository,
			report.NewReportRepository,
			dashboard.NewSnapshotRepository,
			feedback.NewFeedbackRepository,

			// Services
			audit.NewAuditService,
			report.NewReportService,
			dashboard.NewDashboardService,
			dashboard.NewSnapshotScheduler,
			feedback.NewFeedbackService,
			stream.NewServiceRenderer,

			// Controllers
			audit.NewAuditController,
			report.NewReportController,
			dashboard.NewDashboardController,
			feedback.NewFeedbackController,
			stream.NewWebSocketController,
			system.NewDebugController,
			system.NewHealthController,

			// APIs
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewDebugApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(report.NewReportApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(feedback.NewFeedbackApi),
			AsRoute(stream.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			InitializeIndexes,
			StartBoard,
			dashboard.RegisterScheduler,
			StartServer,
		),
	)

	app.Run()
}
