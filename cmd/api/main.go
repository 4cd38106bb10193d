package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prospectmap_backend/internal/actionlog"
	"prospectmap_backend/internal/adapters/storage"
	"prospectmap_backend/internal/appointments"
	"prospectmap_backend/internal/auth"
	"prospectmap_backend/internal/commerces"
	"prospectmap_backend/internal/dashboard"
	"prospectmap_backend/internal/events"
	"prospectmap_backend/internal/exports"
	apphttp "prospectmap_backend/internal/http"
	"prospectmap_backend/internal/http/router"
	"prospectmap_backend/internal/ingest"
	"prospectmap_backend/internal/notification"
	"prospectmap_backend/internal/profiles"
	"prospectmap_backend/internal/scheduler"
	"prospectmap_backend/internal/search"
	"prospectmap_backend/migrations"
	"prospectmap_backend/platform/config"
	"prospectmap_backend/platform/db"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/phone"
	"prospectmap_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator and phone normalizer instances for dependency injection
	val := validator.New()
	phones := phone.NewNormalizer(cfg.GetPhoneRegion())

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Action log and live notifications subscribe to domain events (not HTTP-facing)
	actionlog.NewSubscriber(actionlog.NewRepository(pool), log).RegisterHandlers(eventBus)
	notificationModule := notification.New(log)
	notificationModule.RegisterHandlers(eventBus)

	authModule := auth.NewModule(pool, cfg, phones, val, log)
	profilesModule := profiles.NewModule(pool, eventBus, phones, val, log)
	profilesModule.Service().SetSessionRevoker(authModule)
	commercesModule := commerces.NewModule(pool, profilesModule, eventBus, phones, val, log)

	appointmentsModule := appointments.NewModule(pool, commercesModule, profilesModule, eventBus, cfg, val, log)
	if reminderScheduler != nil {
		appointmentsModule.Service.SetReminderScheduler(reminderScheduler)
	}

	dashboardModule := dashboard.NewModule(commercesModule.Service(), appointmentsModule.Service, profilesModule.Service(), val, log)

	exportsModule := exports.NewModule(commercesModule.Service(), appointmentsModule.Service, eventBus, cfg.GetLocation(), val, log)
	if archive := initExportArchive(ctx, cfg, log); archive != nil {
		exportsModule.SetArchiver(archive, cfg.GetMinioBucketExports())
	}

	searchModule := search.NewModule(cfg, eventBus, val, log)
	if !cfg.IsSearchEnabled() {
		log.Warn("SEARCH_WEBHOOK_URL not configured; searches will be rejected")
	}
	ingestModule := ingest.NewModule(cfg, commercesModule.Service(), val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			profilesModule,
			commercesModule,
			appointmentsModule,
			dashboardModule,
			exportsModule,
			searchModule,
			ingestModule,
			notificationModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		// SSE streams never end on their own; drop them before draining.
		notificationModule.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		exportsModule.Wait()
		eventBus.Wait()
		log.Info("server stopped")
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; appointment reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

// initExportArchive returns nil when MinIO is not configured or unreachable;
// exports keep working without an archive copy.
func initExportArchive(ctx context.Context, cfg *config.Config, log *logger.Logger) *storage.MinIOService {
	if !cfg.IsMinIOEnabled() {
		log.Info("MinIO not configured; export archiving disabled")
		return nil
	}

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		return nil
	}

	bucket := cfg.GetMinioBucketExports()
	if err := withRetry(ctx, log, "ensure exports bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		return nil
	}
	log.Info("storage service initialized", "exportsBucket", bucket)
	return storageSvc
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
