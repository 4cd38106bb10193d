package actionlog

import (
	"context"
	"sync"
	"testing"

	"prospectmap_backend/internal/events"
	"prospectmap_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
)

type memoryWriter struct {
	mu      sync.Mutex
	entries []Entry
}

func (w *memoryWriter) Append(_ context.Context, e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, e)
	return nil
}

func TestSubscriberWritesSearchEntry(t *testing.T) {
	writer := &memoryWriter{}
	bus := events.NewInMemoryBus(logger.Discard())
	NewSubscriber(writer, logger.Discard()).RegisterHandlers(bus)

	actor := uuid.New()
	bus.Publish(context.Background(), events.SearchRequested{
		BaseEvent:         events.NewBaseEvent(),
		ActorID:           actor,
		Location:          "Lyon",
		EstablishmentType: "boulangerie",
		ResultCount:       10,
	})
	bus.Wait()

	if len(writer.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(writer.entries))
	}
	e := writer.entries[0]
	if e.Type != ActionSearch || e.ProfileID == nil || *e.ProfileID != actor {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Metadata["result_count"] != 10 {
		t.Fatalf("unexpected metadata: %v", e.Metadata)
	}
}

func TestIngestedCommerceHasNoActor(t *testing.T) {
	entry, ok := entryFor(events.CommerceCreated{CommerceID: uuid.New(), Name: "Épicerie", Source: "ingest"})
	if !ok || entry.Type != ActionCommerceCreated || entry.ProfileID != nil {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestReminderEventsAreNotLogged(t *testing.T) {
	if _, ok := entryFor(events.AppointmentReminderSent{}); ok {
		t.Fatal("reminder events are not user actions")
	}
}

func TestRepositoryAppend(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock: %v", err)
	}
	defer mock.Close()

	commerceID := uuid.New()
	mock.ExpectExec("INSERT INTO actions_log").
		WithArgs("commerce_deleted", &commerceID, (*uuid.UUID)(nil), "Commerce supprimé", []byte("{}")).
		WillReturnResult(pgconn.NewCommandTag("INSERT 0 1"))

	repo := NewRepository(mock)
	err = repo.Append(context.Background(), Entry{Type: ActionCommerceDeleted, CommerceID: &commerceID, Description: "Commerce supprimé"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRepositoryRejectsUnknownType(t *testing.T) {
	repo := NewRepository(nil)
	if err := repo.Append(context.Background(), Entry{Type: "login"}); err == nil {
		t.Fatal("expected error")
	}
}
