package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"prospectmap_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

func TestRedisClientOpt(t *testing.T) {
	opt, err := redisClientOpt("rediss://:secret@cache.internal:6380/2", true)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opt.Addr != "cache.internal:6380" || opt.Password != "secret" || opt.DB != 2 {
		t.Fatalf("unexpected opt: %+v", opt)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatal("expected insecure TLS config")
	}

	plain, err := redisClientOpt("redis://localhost:6379/0", false)
	if err != nil || plain.TLSConfig != nil {
		t.Fatalf("unexpected plain opt: %+v, %v", plain, err)
	}
}

func TestScheduleAppointmentReminderIsIdempotent(t *testing.T) {
	mr := miniredis.RunT(t)
	redisOpt := asynq.RedisClientOpt{Addr: mr.Addr()}
	client := newClient(asynq.NewClient(redisOpt), "reminders")
	defer client.Close()

	ctx := context.Background()
	id := uuid.New()
	runAt := time.Now().Add(time.Hour)

	if err := client.ScheduleAppointmentReminder(ctx, id, "2025-06-01T09:00", runAt); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := client.ScheduleAppointmentReminder(ctx, id, "2025-06-01T09:00", runAt); err != nil {
		t.Fatalf("second schedule: %v", err)
	}
	if err := client.ScheduleAppointmentReminder(ctx, id, "2025-06-02T10:00", runAt); err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()
	tasks, err := inspector.ListScheduledTasks("reminders")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 scheduled tasks, got %d", len(tasks))
	}
}

func TestNilClientIsNoop(t *testing.T) {
	var c *Client
	if err := c.ScheduleAppointmentReminder(context.Background(), uuid.New(), "", time.Now()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

type fakeProcessor struct {
	id       uuid.UUID
	startsAt string
	err      error
}

func (f *fakeProcessor) ProcessReminder(_ context.Context, id uuid.UUID, startsAt string) error {
	f.id, f.startsAt = id, startsAt
	return f.err
}

func TestHandleAppointmentReminder(t *testing.T) {
	proc := &fakeProcessor{}
	w := &Worker{reminders: proc, log: logger.Discard()}
	id := uuid.New()

	task, err := NewAppointmentReminderTask(AppointmentReminderPayload{AppointmentID: id.String(), StartsAt: "2025-06-01T09:00"})
	if err != nil {
		t.Fatalf("task: %v", err)
	}
	if err := w.handleAppointmentReminder(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if proc.id != id || proc.startsAt != "2025-06-01T09:00" {
		t.Fatalf("unexpected call: %+v", proc)
	}
}

func TestHandleAppointmentReminderSkipsRetryOnBadPayload(t *testing.T) {
	w := &Worker{reminders: &fakeProcessor{}, log: logger.Discard()}
	err := w.handleAppointmentReminder(context.Background(), asynq.NewTask(TaskAppointmentReminder, []byte(`{"appointmentId":"nope"}`)))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}
