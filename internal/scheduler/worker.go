package scheduler

import (
	"context"
	"fmt"

	"prospectmap_backend/platform/config"
	"prospectmap_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ReminderProcessor sends one reminder. It must tolerate stale tasks.
type ReminderProcessor interface {
	ProcessReminder(ctx context.Context, appointmentID uuid.UUID, startsAt string) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	reminders ReminderProcessor
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reminders ReminderProcessor, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
		Logger: newAsynqLogger(log),
	})

	w := &Worker{
		server:    server,
		mux:       asynq.NewServeMux(),
		reminders: reminders,
		log:       log,
	}
	w.mux.HandleFunc(TaskAppointmentReminder, w.handleAppointmentReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleAppointmentReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	apptID, err := uuid.Parse(payload.AppointmentID)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	if err := w.reminders.ProcessReminder(ctx, apptID, payload.StartsAt); err != nil {
		w.log.Error("appointment reminder failed", "appointmentId", apptID, "error", err)
		return err
	}
	return nil
}
