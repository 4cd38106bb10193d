// Package auth provides the authentication bounded context module.
// This file defines the module that encapsulates all auth setup and route registration.
package auth

import (
	"context"

	"prospectmap_backend/internal/auth/handler"
	"prospectmap_backend/internal/auth/repository"
	"prospectmap_backend/internal/auth/service"
	apphttp "prospectmap_backend/internal/http"
	"prospectmap_backend/platform/config"
	"prospectmap_backend/platform/db"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/phone"
	"prospectmap_backend/platform/validator"

	"github.com/google/uuid"
)

// Config is what the auth module reads from the application config.
type Config interface {
	config.AuthServiceConfig
	config.CookieConfig
}

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(q db.Querier, cfg Config, phones *phone.Normalizer, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(q)
	svc := service.New(repo, cfg, phones, log)

	return &Module{
		handler: handler.New(svc, cfg, val),
		service: svc,
		repo:    repo,
	}
}

// EndSessions revokes every refresh token of a profile. Access tokens expire
// on their own within the access TTL.
func (m *Module) EndSessions(ctx context.Context, profileID uuid.UUID) error {
	return m.repo.RevokeAllRefreshTokens(ctx, profileID)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
