// Package profiles provides the team profiles bounded context module.
package profiles

import (
	"context"

	"prospectmap_backend/internal/events"
	apphttp "prospectmap_backend/internal/http"
	"prospectmap_backend/internal/profiles/handler"
	"prospectmap_backend/internal/profiles/repository"
	"prospectmap_backend/internal/profiles/service"
	"prospectmap_backend/platform/db"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/phone"
	"prospectmap_backend/platform/validator"

	"github.com/google/uuid"
)

// Module is the profiles bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the profiles module with all its dependencies.
func NewModule(q db.Querier, eventBus events.Bus, phones *phone.Normalizer, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(q)
	svc := service.New(repo, eventBus, phones, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "profiles"
}

// Service returns the profiles service.
func (m *Module) Service() *service.Service {
	return m.service
}

// ProfileExists lets other modules check a commercial reference without
// depending on profile internals.
func (m *Module) ProfileExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.repo.Exists(ctx, id)
}

// RegisterRoutes mounts profile routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/users/me", m.handler.GetMe)
	ctx.Protected.PATCH("/users/me", m.handler.UpdateMe)
	ctx.Protected.GET("/profiles/active", m.handler.ListActive)

	ctx.Admin.GET("/profiles", m.handler.ListAll)
	ctx.Admin.POST("/profiles/:id/toggle-active", m.handler.ToggleActive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
