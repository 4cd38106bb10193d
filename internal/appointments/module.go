// Package appointments provides the appointments (RDV) domain module.
package appointments

import (
	"prospectmap_backend/internal/appointments/domain"
	"prospectmap_backend/internal/appointments/handler"
	"prospectmap_backend/internal/appointments/repository"
	"prospectmap_backend/internal/appointments/service"
	"prospectmap_backend/internal/events"
	apphttp "prospectmap_backend/internal/http"
	"prospectmap_backend/platform/db"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/validator"

	govalidator "github.com/go-playground/validator/v10"
)

// Module represents the appointments domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new appointments module with all dependencies wired
func NewModule(
	q db.Querier,
	commerces service.CommerceChecker,
	profiles service.ProfileChecker,
	eventBus events.Bus,
	cfg service.Config,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	RegisterValidators(val)

	repo := repository.New(q)
	svc := service.New(repo, commerces, profiles, eventBus, cfg, log)

	return &Module{
		handler: handler.New(svc, val),
		Service: svc,
	}
}

// RegisterValidators adds the appointment_type and appointment_status tags.
func RegisterValidators(val *validator.Validator) {
	_ = val.RegisterValidation("appointment_type", func(fl govalidator.FieldLevel) bool {
		_, err := domain.ParseType(fl.Field().String())
		return err == nil
	})
	_ = val.RegisterValidation("appointment_status", func(fl govalidator.FieldLevel) bool {
		_, err := domain.ParseStatus(fl.Field().String())
		return err == nil
	})
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "appointments"
}

// RegisterRoutes registers the module's routes under /api/v1/appointments
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	appointments := ctx.Protected.Group("/appointments")
	m.handler.RegisterRoutes(appointments)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
