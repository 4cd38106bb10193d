package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prospectmap_backend/internal/appointments/repository"
	"prospectmap_backend/internal/appointments/service"
	"prospectmap_backend/internal/email"
	"prospectmap_backend/internal/events"
	"prospectmap_backend/internal/scheduler"
	"prospectmap_backend/platform/config"
	"prospectmap_backend/platform/db"
	"prospectmap_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)
	eventBus.Subscribe(events.AppointmentReminderSent{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.AppointmentReminderSent); ok {
			log.Info("appointment reminder sent", "appointmentId", e.AppointmentID, "recipient", e.Recipient)
		}
		return nil
	}))

	// Worker-side appointment wiring (no HTTP handlers required). Reminder
	// processing never validates commerce or commercial references.
	reminders := service.New(repository.New(pool), nil, nil, eventBus, cfg, log)
	reminders.SetReminderSender(email.NewSender(cfg, log))

	worker, err := scheduler.NewWorker(cfg, reminders, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	eventBus.Wait()
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
