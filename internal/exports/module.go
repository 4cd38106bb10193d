package exports

import (
	"time"

	"prospectmap_backend/internal/events"
	apphttp "prospectmap_backend/internal/http"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/validator"
)

// Module is the exports bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the exports module.
func NewModule(
	commerces CommerceSource,
	appointments AppointmentSource,
	eventBus events.Bus,
	loc *time.Location,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	svc := NewService(commerces, appointments, eventBus, loc, log)
	return &Module{
		handler: NewHandler(svc, val),
		service: svc,
	}
}

// SetArchiver enables archiving generated files into bucket.
func (m *Module) SetArchiver(archive Archiver, bucket string) {
	m.service.SetArchiver(archive, bucket)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/exports")
	group.GET("/commerces.csv", m.handler.ExportCommerces)
	group.GET("/appointments.csv", m.handler.ExportAppointments)
}

// Wait blocks until all background archive uploads have completed.
// Call this during graceful server shutdown.
func (m *Module) Wait() { m.service.Wait() }

var _ apphttp.Module = (*Module)(nil)
