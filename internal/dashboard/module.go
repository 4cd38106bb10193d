// Package dashboard provides the home dashboard and statistics endpoints.
package dashboard

import (
	"prospectmap_backend/internal/dashboard/handler"
	"prospectmap_backend/internal/dashboard/service"
	apphttp "prospectmap_backend/internal/http"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the dashboard over the commerce, appointment and profile services.
func NewModule(
	commerces service.CommerceSource,
	appointments service.AppointmentSource,
	profiles service.ProfileSource,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	svc := service.New(commerces, appointments, profiles, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "dashboard"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/dashboard", m.handler.Dashboard)
	ctx.Protected.GET("/statistics", m.handler.Statistics)
}

var _ apphttp.Module = (*Module)(nil)
