package container

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"tourist-hub-api/internal/config"
	"tourist-hub-api/internal/database"
	"tourist-hub-api/internal/handlers"
	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/middleware"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/repositories"
	"tourist-hub-api/internal/server"
	"tourist-hub-api/internal/services"
)

// Module provides dependency injection configuration
var Module = fx.Options(
	// Configuration
	fx.Provide(config.LoadConfig),

	// Logging
	fx.Provide(logger.NewLogger),

	// Database
	fx.Provide(database.NewConnection),
	fx.Provide(func(conn *database.Connection) *gorm.DB {
		return conn.DB
	}),
	fx.Provide(func(conn *database.Connection) services.TxManager {
		return conn
	}),
	fx.Provide(database.NewMigrator),
	fx.Provide(database.NewRedisClient),

	// Repositories
	fx.Provide(repositories.NewProviderRepository),
	fx.Provide(repositories.NewUserRepository),
	fx.Provide(repositories.NewTourTemplateRepository),
	fx.Provide(repositories.NewTourEventRepository),
	fx.Provide(repositories.NewRegistrationRepository),
	fx.Provide(repositories.NewActivityRepository),
	fx.Provide(repositories.NewDocumentRepository),

	// Services
	fx.Provide(models.NewValidationService),
	fx.Provide(services.NewAuthorizationService),
	fx.Provide(services.NewAuthenticationService),
	fx.Provide(services.NewCapacityLedger),
	fx.Provide(services.NewCacheService),
	fx.Provide(func(log *logger.Logger) services.NotificationSender {
		return &services.LogSender{Logger: log}
	}),
	fx.Provide(newNotificationDispatcher),
	fx.Provide(func(d *services.RedisNotificationDispatcher) services.NotificationDispatcher {
		return d
	}),
	fx.Provide(services.NewRegistrationService),
	fx.Provide(services.NewTourEventService),
	fx.Provide(services.NewScheduleService),
	fx.Provide(services.NewProviderService),
	fx.Provide(services.NewTourTemplateService),
	fx.Provide(services.NewUserManagementService),
	fx.Provide(func(cfg *config.Config) services.DocumentStore {
		return services.NewLocalDocumentStore(cfg.Documents.StorageDir)
	}),
	fx.Provide(services.NewDocumentService),

	// Handlers
	fx.Provide(handlers.NewAuthHandler),
	fx.Provide(handlers.NewProviderHandler),
	fx.Provide(handlers.NewUserHandler),
	fx.Provide(handlers.NewTourTemplateHandler),
	fx.Provide(handlers.NewTourEventHandler),
	fx.Provide(handlers.NewActivityHandler),
	fx.Provide(handlers.NewDocumentHandler),
	fx.Provide(handlers.NewHealthHandler),

	// Middleware
	fx.Provide(middleware.NewAuthenticationMiddleware),
	fx.Provide(middleware.NewLoginRateLimiter),

	// Server
	fx.Provide(server.NewServer),

	// Invoke migrations on startup
	fx.Invoke(func(migrator *database.Migrator) error {
		return migrator.Up()
	}),

	// Background workers
	fx.Invoke(registerNotificationLifecycle),
	fx.Invoke(registerCapacitySweep),
)

func newNotificationDispatcher(
	log *logger.Logger,
	cfg *config.Config,
	redisClient *redis.Client,
	sender services.NotificationSender,
) *services.RedisNotificationDispatcher {
	return services.NewNotificationDispatcher(
		log,
		redisClient,
		sender,
		cfg.Notifications.Workers,
		cfg.Notifications.MaxRetries,
	)
}

// registerNotificationLifecycle ties the dispatcher workers to the fx app
// lifecycle
func registerNotificationLifecycle(lc fx.Lifecycle, cfg *config.Config, d *services.RedisNotificationDispatcher) {
	if !cfg.Notifications.Enabled {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			d.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Stop()
			return nil
		},
	})
}

// registerCapacitySweep schedules the nightly full reconciliation
func registerCapacitySweep(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *logger.Logger,
	ledger services.CapacityLedger,
) {
	if !cfg.Reconcile.Enabled {
		return
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.Reconcile.Schedule, func() {
		if err := ledger.ReconcileAll(context.Background()); err != nil {
			log.WithError(err).Error("Nightly capacity sweep failed")
		}
	})
	if err != nil {
		log.WithError(err).Error("Invalid capacity sweep schedule, sweep disabled")
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			c.Stop()
			return nil
		},
	})
}
