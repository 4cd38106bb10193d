package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prospectmap_backend/internal/appointments/domain"
	"prospectmap_backend/internal/appointments/service"
	"prospectmap_backend/internal/appointments/transport"
	"prospectmap_backend/internal/events"
	"prospectmap_backend/platform/apperr"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/validator"

	"github.com/gin-gonic/gin"
	govalidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type memRepo struct {
	stored  map[uuid.UUID]domain.Appointment
	updates []domain.Update
	calls   int
}

func (m *memRepo) List(_ context.Context, f domain.Filter) ([]domain.Appointment, error) {
	m.calls++
	out := make([]domain.Appointment, 0)
	for _, a := range m.stored {
		if f.CommercialID != nil && (a.CommercialID == nil || *a.CommercialID != *f.CommercialID) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Appointment, error) {
	m.calls++
	a, ok := m.stored[id]
	if !ok {
		return domain.Appointment{}, apperr.NotFound("rendez-vous introuvable")
	}
	return a, nil
}

func (m *memRepo) Create(_ context.Context, in domain.Input) (domain.Appointment, error) {
	m.calls++
	a := domain.Appointment{
		ID: uuid.New(), CommerceID: in.CommerceID, CommercialID: in.CommercialID,
		Date: in.Date, Time: in.Time, DurationMinutes: in.DurationMinutes,
		Type: in.Type, Status: in.Status, Location: in.Location, Notes: in.Notes,
	}
	m.stored[a.ID] = a
	return a, nil
}

func (m *memRepo) Update(_ context.Context, id uuid.UUID, u domain.Update) (domain.Appointment, error) {
	m.calls++
	m.updates = append(m.updates, u)
	a := m.stored[id]
	if u.ClearCommercial {
		a.CommercialID = nil
	} else if u.CommercialID != nil {
		a.CommercialID = u.CommercialID
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	m.stored[id] = a
	return a, nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.calls++
	delete(m.stored, id)
	return nil
}

func (m *memRepo) MarkReminderSent(context.Context, uuid.UUID) error { return nil }

func (m *memRepo) Upcoming(context.Context, time.Time, *uuid.UUID, int) ([]domain.Appointment, error) {
	return nil, nil
}

func (m *memRepo) CountBetween(context.Context, time.Time, time.Time, *uuid.UUID) (int, error) {
	return 0, nil
}

type allExist struct{}

func (allExist) CommerceExists(context.Context, uuid.UUID) (bool, error) { return true, nil }
func (allExist) ProfileExists(context.Context, uuid.UUID) (bool, error) { return true, nil }

type testConfig struct{}

func (testConfig) GetLocation() *time.Location { return time.UTC }
func (testConfig) GetReminderLeadTime() time.Duration { return time.Hour }

type nopBus struct{}

func (nopBus) Publish(context.Context, events.Event) {}
func (nopBus) Subscribe(string, events.Handler) {}

func newTestEngine(t *testing.T, repo *memRepo, actor httpkit.Identity) *gin.Engine {
	t.Helper()
	val := validator.New()
	_ = val.RegisterValidation("appointment_type", func(fl govalidator.FieldLevel) bool {
		_, err := domain.ParseType(fl.Field().String())
		return err == nil
	})
	_ = val.RegisterValidation("appointment_status", func(fl govalidator.FieldLevel) bool {
		_, err := domain.ParseStatus(fl.Field().String())
		return err == nil
	})

	svc := service.New(repo, allExist{}, allExist{}, nopBus{}, testConfig{}, logger.Discard())
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	rg := engine.Group("/appointments", func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, actor.UserID())
		c.Set(httpkit.ContextRolesKey, actor.Roles())
	})
	New(svc, val).RegisterRoutes(rg)
	return engine
}

func do(engine *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	reader := bytes.NewReader(nil)
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func seed(repo *memRepo, date, hhmm string, owner *uuid.UUID) domain.Appointment {
	a := domain.Appointment{
		ID: uuid.New(), CommerceID: uuid.New(), CommercialID: owner,
		Date: date, Time: hhmm, DurationMinutes: domain.DefaultDuration,
		Type: domain.TypeProspection, Status: domain.StatusPending,
	}
	repo.stored[a.ID] = a
	return a
}

func TestListGroupsByDate(t *testing.T) {
	repo := &memRepo{stored: map[uuid.UUID]domain.Appointment{}}
	me := uuid.New()
	seed(repo, "2025-06-02", "14:00", &me)
	seed(repo, "2025-06-02", "09:30", &me)
	seed(repo, "2025-06-01", "10:00", &me)
	engine := newTestEngine(t, repo, httpkit.NewIdentity(me))

	rec := do(engine, http.MethodGet, "/appointments?commercialId="+me.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp transport.AppointmentListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 3 || len(resp.Groups) != 2 {
		t.Fatalf("expected 3 items in 2 groups, got %+v", resp)
	}
	second := resp.Groups[1]
	if resp.Groups[0].Date != "2025-06-01" || second.Date != "2025-06-02" {
		t.Fatalf("groups out of order: %s, %s", resp.Groups[0].Date, second.Date)
	}
	if len(second.Items) != 2 || second.Items[0].Time != "09:30" {
		t.Fatalf("expected same-day items ordered by time, got %+v", second.Items)
	}
}

func TestListRejectsForeignCommercialFilter(t *testing.T) {
	repo := &memRepo{stored: map[uuid.UUID]domain.Appointment{}}
	engine := newTestEngine(t, repo, httpkit.NewIdentity(uuid.New()))

	if rec := do(engine, http.MethodGet, "/appointments?commercialId="+uuid.NewString(), nil); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if rec := do(engine, http.MethodGet, "/appointments?status=reporte", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}
	if repo.calls != 0 {
		t.Fatalf("expected zero store calls, got %d", repo.calls)
	}

	admin := newTestEngine(t, repo, httpkit.NewIdentity(uuid.New(), httpkit.RoleAdmin))
	if rec := do(admin, http.MethodGet, "/appointments?commercialId="+uuid.NewString(), nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for an admin, got %d", rec.Code)
	}
}

func TestCreateAppliesDefaultsAndRequiresFields(t *testing.T) {
	repo := &memRepo{stored: map[uuid.UUID]domain.Appointment{}}
	engine := newTestEngine(t, repo, httpkit.NewIdentity(uuid.New()))

	rec := do(engine, http.MethodPost, "/appointments", map[string]any{"date": "2025-06-10", "time": "10:00"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a commerce, got %d", rec.Code)
	}
	if repo.calls != 0 {
		t.Fatalf("expected zero store calls, got %d", repo.calls)
	}

	rec = do(engine, http.MethodPost, "/appointments", map[string]any{
		"commerceId": uuid.NewString(),
		"date":       "2025-06-10",
		"time":       "10:00",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp transport.AppointmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.DurationMinutes != 30 || resp.Type != domain.TypeProspection || resp.Status != domain.StatusPending {
		t.Fatalf("expected defaults applied, got %+v", resp)
	}
	if resp.StatusLabel != "En attente" {
		t.Fatalf("expected status label, got %q", resp.StatusLabel)
	}

	if rec := do(engine, http.MethodPost, "/appointments", map[string]any{
		"commerceId": uuid.NewString(), "date": "2025-06-10", "time": "25:00",
	}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad time, got %d", rec.Code)
	}
}

func TestUpdateClearCommercial(t *testing.T) {
	repo := &memRepo{stored: map[uuid.UUID]domain.Appointment{}}
	owner := uuid.New()
	existing := seed(repo, "2025-06-10", "10:00", &owner)
	engine := newTestEngine(t, repo, httpkit.NewIdentity(owner))

	rec := do(engine, http.MethodPatch, "/appointments/"+existing.ID.String(), map[string]any{"clearCommercial": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp transport.AppointmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CommercialID != nil {
		t.Fatalf("expected commercial cleared, got %v", resp.CommercialID)
	}
	if len(repo.updates) != 1 || !repo.updates[0].ClearCommercial {
		t.Fatalf("expected a clearing patch, got %+v", repo.updates)
	}
	if u := repo.updates[0]; u.Date != nil || u.Time != nil || u.Status != nil {
		t.Fatalf("expected only the commercial field written, got %+v", u)
	}
}

func TestUnknownAppointmentIsNotFound(t *testing.T) {
	repo := &memRepo{stored: map[uuid.UUID]domain.Appointment{}}
	engine := newTestEngine(t, repo, httpkit.NewIdentity(uuid.New()))

	if rec := do(engine, http.MethodGet, "/appointments/"+uuid.NewString(), nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := do(engine, http.MethodPatch, "/appointments/"+uuid.NewString(), map[string]any{"status": "confirme"}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on update, got %d", rec.Code)
	}
	if rec := do(engine, http.MethodDelete, "/appointments/"+uuid.NewString(), nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on delete, got %d", rec.Code)
	}
	if rec := do(engine, http.MethodGet, "/appointments/pas-un-uuid", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad id, got %d", rec.Code)
	}
}
