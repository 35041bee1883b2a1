package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/mahajanautomation/crm-backend/internal/api/http"
	"github.com/mahajanautomation/crm-backend/internal/api/http/handlers"
	"github.com/mahajanautomation/crm-backend/internal/auth"
	"github.com/mahajanautomation/crm-backend/internal/config"
	"github.com/mahajanautomation/crm-backend/internal/events"
	"github.com/mahajanautomation/crm-backend/internal/observability"
	"github.com/mahajanautomation/crm-backend/internal/persistence"
	"github.com/mahajanautomation/crm-backend/internal/repository"
	"github.com/mahajanautomation/crm-backend/internal/seed"
	"github.com/mahajanautomation/crm-backend/internal/service"
	"github.com/mahajanautomation/crm-backend/internal/timeutil"
	"github.com/mahajanautomation/crm-backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	repos := repository.NewMemorySet()
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		repos = repository.NewPostgresSet(pg.Pool)
	}

	var redis *persistence.Redis
	sessions := auth.NewMemorySessionStore(nil)
	if cfg.Auth.SessionStore == "redis" {
		redis, err = persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redis.Close()
		sessions = auth.NewRedisSessionStore(redis.Client, cfg.Redis.KeyPrefix)
	}

	clock := timeutil.SystemClock{}
	if cfg.App.SeedDemoData {
		if err := seed.Load(ctx, repos, cfg.Auth.BcryptCost, clock.Now(), logger); err != nil {
			logger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics("crm")
	dispatcher := events.NewInMemoryDispatcher()
	notifications := worker.NewNotificationWorker(dispatcher, 512, logger)
	notifications.Start()
	service.NewNotificationService(notifications, logger, cfg.Notification).RegisterHandlers()
	metrics.SubscribeEvents(notifications)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:     repos.Users,
		SessionStore: sessions,
		Clock:        clock,
	})
	leadService := service.NewLeadService(service.LeadDependencies{
		LeadRepo:      repos.Leads,
		ProposalRepo:  repos.Proposals,
		UserRepo:      repos.Users,
		SparePartRepo: repos.SpareParts,
		Clock:         clock,
		Dispatcher:    notifications,
	})
	proposalService := service.NewProposalService(service.ProposalDependencies{
		ProposalRepo:  repos.Proposals,
		LeadRepo:      repos.Leads,
		TemplateRepo:  repos.Templates,
		SparePartRepo: repos.SpareParts,
		Clock:         clock,
		Dispatcher:    notifications,
	})
	sparePartService := service.NewSparePartService(service.SparePartDependencies{
		SparePartRepo: repos.SpareParts,
		LeadRepo:      repos.Leads,
		ProposalRepo:  repos.Proposals,
		Clock:         clock,
	})
	templateService := service.NewTemplateService(service.TemplateDependencies{
		TemplateRepo: repos.Templates,
		ProposalRepo: repos.Proposals,
		Clock:        clock,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		LeadRepo:     repos.Leads,
		ProposalRepo: repos.Proposals,
		UserRepo:     repos.Users,
		Clock:        clock,
	})

	reminder := worker.NewFollowUpReminder(repos.Leads, notifications, clock, cfg.Reminder.Window(), logger)
	if cfg.Reminder.Schedule != "" {
		if err := reminder.Start(cfg.Reminder.Schedule); err != nil {
			logger.Fatal("invalid REMINDER_SCHEDULE", zap.Error(err))
		}
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), sessions, repos.Users)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: cfg.App.RequestTimeout(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:      cfg.App.RequestTimeout(),
		AllowOrigins: cfg.App.CORSAllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Users:          handlers.NewUsersHandler(authService),
		Navigation:     handlers.NewNavigationHandler(reportService),
		Leads:          handlers.NewLeadsHandler(leadService),
		Proposals:      handlers.NewProposalsHandler(proposalService),
		SpareParts:     handlers.NewSparePartsHandler(sparePartService),
		Templates:      handlers.NewTemplatesHandler(templateService),
		Reports:        handlers.NewReportsHandler(reportService),
		Metrics:        metrics,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := reminder.Stop(shutdownCtx); err != nil {
		logger.Warn("reminder shutdown", zap.Error(err))
	}
	if err := notifications.Stop(shutdownCtx); err != nil {
		logger.Warn("notification worker shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
