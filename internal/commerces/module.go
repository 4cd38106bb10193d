// Package commerces provides the commerce (lead) bounded context module.
package commerces

import (
	"context"

	"prospectmap_backend/internal/commerces/domain"
	"prospectmap_backend/internal/commerces/handler"
	"prospectmap_backend/internal/commerces/repository"
	"prospectmap_backend/internal/commerces/service"
	"prospectmap_backend/internal/events"
	apphttp "prospectmap_backend/internal/http"
	"prospectmap_backend/platform/apperr"
	"prospectmap_backend/platform/db"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/phone"
	"prospectmap_backend/platform/validator"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Module is the commerces bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the commerces module with all its dependencies.
func NewModule(q db.Querier, profiles service.ProfileChecker, eventBus events.Bus, phones *phone.Normalizer, val *validator.Validator, log *logger.Logger) *Module {
	RegisterValidators(val)

	repo := repository.New(q)
	svc := service.New(repo, profiles, eventBus, phones, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// RegisterValidators adds the commerce_status and commerce_priority tags.
func RegisterValidators(val *validator.Validator) {
	_ = val.RegisterValidation("commerce_status", func(fl govalidator.FieldLevel) bool {
		_, err := domain.ParseStatus(fl.Field().String())
		return err == nil
	})
	_ = val.RegisterValidation("commerce_priority", func(fl govalidator.FieldLevel) bool {
		_, err := domain.ParsePriority(fl.Field().String())
		return err == nil
	})
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "commerces"
}

// Service returns the commerces service for the dashboard, exports and ingestion.
func (m *Module) Service() *service.Service {
	return m.service
}

// CommerceExists reports whether a commerce with id exists. Used by the
// appointments module.
func (m *Module) CommerceExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := m.service.Get(ctx, id)
	if apperr.Is(err, apperr.KindNotFound) {
		return false, nil
	}
	return err == nil, err
}

// RegisterRoutes mounts commerce routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/commerces"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
