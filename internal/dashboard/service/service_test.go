package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	apptdomain "prospectmap_backend/internal/appointments/domain"
	"prospectmap_backend/internal/commerces/domain"
	profiledomain "prospectmap_backend/internal/profiles/domain"
	"prospectmap_backend/platform/apperr"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeCommerces struct {
	mu      sync.Mutex
	records []domain.Commerce
	loads   int
	err     error
}

func (f *fakeCommerces) All(context.Context) ([]domain.Commerce, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	return append([]domain.Commerce(nil), f.records...), f.err
}

func (f *fakeCommerces) Recent(_ context.Context, limit int) ([]domain.Commerce, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.records) < limit {
		limit = len(f.records)
	}
	return f.records[:limit], nil
}

func (f *fakeCommerces) add(c domain.Commerce) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, c)
}

type fakeAppointments struct{}

func (fakeAppointments) Upcoming(context.Context, *uuid.UUID, int) ([]apptdomain.Appointment, error) {
	return []apptdomain.Appointment{
		{ID: uuid.New(), Date: "2025-06-01", Time: "09:00"},
		{ID: uuid.New(), Date: "2025-06-08", Time: "14:00"},
		{ID: uuid.New(), Date: "2025-06-20", Time: "10:00"},
	}, nil
}

func (fakeAppointments) CountNextDays(context.Context, *uuid.UUID, int) (int, error) {
	return 4, nil
}

func (fakeAppointments) Today() string { return "2025-06-01" }

type fakeProfiles struct{}

func (fakeProfiles) GetMe(_ context.Context, actor httpkit.Identity) (profiledomain.Profile, error) {
	return profiledomain.Profile{ID: actor.UserID(), FirstName: "Jeanne"}, nil
}

func commerce(status domain.Status, owner *uuid.UUID) domain.Commerce {
	return domain.Commerce{ID: uuid.New(), Name: "C", Status: status, Priority: domain.PriorityNormal, CommercialID: owner}
}

func TestDashboard(t *testing.T) {
	commerces := &fakeCommerces{records: []domain.Commerce{
		commerce(domain.StatusConverted, nil),
		commerce(domain.StatusConverted, nil),
		commerce(domain.StatusLost, nil),
		commerce(domain.StatusInProgress, nil),
	}}
	svc := New(commerces, fakeAppointments{}, fakeProfiles{}, logger.Discard())

	got, err := svc.Dashboard(context.Background(), httpkit.NewIdentity(uuid.New()))
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if got.Greeting != "Jeanne" || got.TotalCommerces != 4 || got.ConversionRate != 50 || got.ToFollowUp != 1 {
		t.Fatalf("unexpected dashboard: %+v", got)
	}
	if got.AppointmentsThisWeek != 4 || len(got.RecentCommerces) != 4 {
		t.Fatalf("unexpected dashboard lists: %+v", got)
	}
	if len(got.NextAppointments) != 2 || got.NextAppointments[1].Date != "2025-06-08" {
		t.Fatalf("expected appointments within the next 7 days only, got %+v", got.NextAppointments)
	}
}

func TestDashboardPropagatesFailure(t *testing.T) {
	svc := New(&fakeCommerces{err: errors.New("db down")}, fakeAppointments{}, fakeProfiles{}, logger.Discard())
	if _, err := svc.Dashboard(context.Background(), httpkit.NewIdentity(uuid.New())); !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestStatisticsOwnerRule(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	commerces := &fakeCommerces{records: []domain.Commerce{
		commerce(domain.StatusConverted, &me),
		commerce(domain.StatusLost, &me),
		commerce(domain.StatusConverted, &other),
	}}
	svc := New(commerces, fakeAppointments{}, fakeProfiles{}, logger.Discard())

	if _, err := svc.Statistics(context.Background(), httpkit.NewIdentity(me), &other); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	stats, err := svc.Statistics(context.Background(), httpkit.NewIdentity(me), &me)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.Pipeline.Total != 2 || stats.Pipeline.ConversionRate != 50 {
		t.Fatalf("unexpected pipeline: %+v", stats.Pipeline)
	}
	if len(stats.ByType) != 1 || stats.ByType[0].Type != domain.DefaultType {
		t.Fatalf("unexpected types: %+v", stats.ByType)
	}

	all, err := svc.Statistics(context.Background(), httpkit.NewIdentity(me, httpkit.RoleAdmin), nil)
	if err != nil || all.Pipeline.Total != 3 {
		t.Fatalf("unexpected admin statistics: %+v %v", all, err)
	}
}

func TestStatisticsReadsAfterWrite(t *testing.T) {
	commerces := &fakeCommerces{records: []domain.Commerce{commerce(domain.StatusToContact, nil)}}
	svc := New(commerces, fakeAppointments{}, fakeProfiles{}, logger.Discard())
	admin := httpkit.NewIdentity(uuid.New(), httpkit.RoleAdmin)

	stats, err := svc.Statistics(context.Background(), admin, nil)
	if err != nil || stats.Pipeline.Total != 1 {
		t.Fatalf("initial statistics: %+v %v", stats, err)
	}

	commerces.add(commerce(domain.StatusConverted, nil))

	stats, err = svc.Statistics(context.Background(), admin, nil)
	if err != nil || stats.Pipeline.Total != 2 || stats.Pipeline.Converted != 1 {
		t.Fatalf("expected the new commerce right after the write, got %+v %v", stats, err)
	}

	got, err := svc.Dashboard(context.Background(), admin)
	if err != nil || got.TotalCommerces != 2 {
		t.Fatalf("expected dashboard total 2, got %+v %v", got, err)
	}
	if commerces.loads != 3 {
		t.Fatalf("expected one store read per request, got %d", commerces.loads)
	}
}
