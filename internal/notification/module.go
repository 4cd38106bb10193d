// Package notification pushes change notifications to connected browsers
// in response to domain events.
package notification

import (
	"context"

	"prospectmap_backend/internal/events"
	apphttp "prospectmap_backend/internal/http"
	"prospectmap_backend/internal/notification/sse"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Module is the notification module implementing http.Module and events.Handler.
type Module struct {
	sse *sse.Service
	log *logger.Logger
}

func New(log *logger.Logger) *Module {
	return &Module{sse: sse.New(log), log: log}
}

// SSE exposes the live connection hub.
func (m *Module) SSE() *sse.Service {
	return m.sse
}

func (m *Module) Name() string {
	return "notification"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/events", m.sse.Handler(func(c *gin.Context) (uuid.UUID, bool) {
		id := httpkit.GetIdentity(c)
		return id.UserID(), id.IsAuthenticated()
	}))
}

// RegisterHandlers subscribes to the events that change shared lists.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.CommerceCreated{}.EventName(), m)
	bus.Subscribe(events.CommerceUpdated{}.EventName(), m)
	bus.Subscribe(events.CommerceDeleted{}.EventName(), m)
	bus.Subscribe(events.AppointmentCreated{}.EventName(), m)
	bus.Subscribe(events.AppointmentUpdated{}.EventName(), m)
	bus.Subscribe(events.AppointmentDeleted{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the SSE hub.
func (m *Module) Handle(_ context.Context, event events.Event) error {
	if out, ok := toSSE(event); ok {
		m.sse.Broadcast(out)
	}
	return nil
}

// Close drops every live connection.
func (m *Module) Close() {
	m.sse.Close()
}

func toSSE(event events.Event) (sse.Event, bool) {
	switch e := event.(type) {
	case events.CommerceCreated:
		return sse.Event{Type: sse.EventCommerceCreated, CommerceID: &e.CommerceID}, true
	case events.CommerceUpdated:
		return sse.Event{Type: sse.EventCommerceUpdated, CommerceID: &e.CommerceID}, true
	case events.CommerceDeleted:
		return sse.Event{Type: sse.EventCommerceDeleted, CommerceID: &e.CommerceID}, true
	case events.AppointmentCreated:
		return sse.Event{Type: sse.EventAppointmentChanged, CommerceID: &e.CommerceID, AppointmentID: &e.AppointmentID}, true
	case events.AppointmentUpdated:
		return sse.Event{Type: sse.EventAppointmentChanged, CommerceID: &e.CommerceID, AppointmentID: &e.AppointmentID}, true
	case events.AppointmentDeleted:
		return sse.Event{Type: sse.EventAppointmentChanged, CommerceID: &e.CommerceID, AppointmentID: &e.AppointmentID}, true
	}
	return sse.Event{}, false
}

var _ apphttp.Module = (*Module)(nil)
