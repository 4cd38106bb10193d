package exports

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	apptdomain "prospectmap_backend/internal/appointments/domain"
	"prospectmap_backend/internal/commerces/domain"
	"prospectmap_backend/internal/events"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeCommerces struct {
	items []domain.Commerce
}

func (f fakeCommerces) List(_ context.Context, _ httpkit.Identity, filter domain.Filter, page, _ int) (domain.ListResult, error) {
	var items []domain.Commerce
	for _, c := range f.items {
		if filter.Matches(c) {
			items = append(items, c)
		}
	}
	return domain.ListResult{Items: items, Total: len(items), Page: page}, nil
}

type fakeAppointments struct {
	items []apptdomain.Appointment
}

func (f fakeAppointments) List(context.Context, httpkit.Identity, apptdomain.Filter) ([]apptdomain.Appointment, error) {
	return f.items, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

type fakeArchive struct {
	mu   sync.Mutex
	keys []string
	body []byte
}

func (f *fakeArchive) PutObject(_ context.Context, _, key, _ string, reader io.Reader, _ int64) (string, error) {
	body, _ := io.ReadAll(reader)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	f.body = body
	return key, nil
}

func newService(commerces []domain.Commerce, appts []apptdomain.Appointment) (*Service, *recordingBus) {
	bus := &recordingBus{}
	svc := NewService(fakeCommerces{commerces}, fakeAppointments{appts}, bus, time.UTC, logger.Discard())
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, bus
}

func TestCommercesExportRowsAndFilename(t *testing.T) {
	status := domain.StatusInProgress
	svc, bus := newService([]domain.Commerce{
		{ID: uuid.New(), Name: "A", Status: domain.StatusInProgress, Priority: domain.PriorityHigh},
		{ID: uuid.New(), Name: "B", Status: domain.StatusLost, Priority: domain.PriorityLow},
		{ID: uuid.New(), Name: `Chez "Jo"`, Status: domain.StatusInProgress, Priority: domain.PriorityNormal},
	}, nil)
	archive := &fakeArchive{}
	svc.SetArchiver(archive, "exports")

	file, err := svc.Commerces(context.Background(), httpkit.NewIdentity(uuid.New()), domain.Filter{Status: &status})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	svc.Wait()

	if file.Name != "commerces-2025-06-01.csv" {
		t.Fatalf("unexpected filename %q", file.Name)
	}
	lines := strings.Split(strings.TrimSuffix(string(bytes.TrimPrefix(file.Body, []byte(utf8BOM))), "\r\n"), "\r\n")
	if len(lines) != 3 || file.Rows != 2 {
		t.Fatalf("expected header + 2 rows, got %d lines (%d rows)", len(lines), file.Rows)
	}
	if !strings.HasPrefix(lines[0], `"Nom","Type","Adresse"`) {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], `"Chez ""Jo""","Autre"`) {
		t.Fatalf("unexpected row %q", lines[2])
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected ExportGenerated, got %d events", len(bus.published))
	}
	if len(archive.keys) != 1 || !strings.HasPrefix(archive.keys[0], "exports/2025-06-01/") ||
		!strings.HasSuffix(archive.keys[0], "-commerces-2025-06-01.csv") {
		t.Fatalf("unexpected archive keys %v", archive.keys)
	}
	if !bytes.Equal(archive.body, file.Body) {
		t.Fatal("archived body differs from download")
	}
}

func TestSameDayExportsGetDistinctArchiveKeys(t *testing.T) {
	svc, _ := newService([]domain.Commerce{{ID: uuid.New(), Name: "A", Status: domain.StatusToContact, Priority: domain.PriorityNormal}}, nil)
	archive := &fakeArchive{}
	svc.SetArchiver(archive, "exports")
	actor := httpkit.NewIdentity(uuid.New())

	for range 2 {
		if _, err := svc.Commerces(context.Background(), actor, domain.Filter{}); err != nil {
			t.Fatalf("export: %v", err)
		}
	}
	svc.Wait()

	if len(archive.keys) != 2 || archive.keys[0] == archive.keys[1] {
		t.Fatalf("expected two distinct archive keys, got %v", archive.keys)
	}
}

func TestAppointmentsExport(t *testing.T) {
	svc, _ := newService(nil, []apptdomain.Appointment{{
		Date: "2025-06-02", Time: "09:00", DurationMinutes: 30,
		Type: apptdomain.TypeSignature, Status: apptdomain.StatusConfirmed,
		Commerce: &apptdomain.CommerceSummary{Name: "Le Bouchon"},
	}})

	file, err := svc.Appointments(context.Background(), httpkit.NewIdentity(uuid.New()), apptdomain.Filter{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if file.Name != "rdv-2025-06-01.csv" {
		t.Fatalf("unexpected filename %q", file.Name)
	}
	want := `"2025-06-02","09:00","30","Signature","Confirmé","Le Bouchon","","","",""`
	if !strings.Contains(string(file.Body), want) {
		t.Fatalf("expected row %s in\n%s", want, file.Body)
	}
}
