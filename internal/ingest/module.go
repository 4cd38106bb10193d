// Package ingest receives commerces pushed back by the search automation.
package ingest

import (
	apphttp "prospectmap_backend/internal/http"
	"prospectmap_backend/platform/config"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/validator"
)

type Module struct {
	handler *Handler
	apiKey  string
}

// NewModule wires the ingestion endpoint. Routes are only mounted when an
// API key is configured.
func NewModule(cfg config.IngestConfig, commerces Ingester, val *validator.Validator, log *logger.Logger) *Module {
	service := NewService(commerces, val, log)
	return &Module{
		handler: NewHandler(service, val),
		apiKey:  cfg.GetIngestAPIKey(),
	}
}

func (m *Module) Name() string {
	return "ingest"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	if m.apiKey == "" {
		return
	}
	group := ctx.V1.Group("/ingest")
	group.Use(APIKeyAuthMiddleware(m.apiKey))
	group.POST("/commerces", m.handler.HandleIngestCommerces)
}

var _ apphttp.Module = (*Module)(nil)
