// Package search forwards prospect searches to the external automation.
package search

import (
	"prospectmap_backend/internal/events"
	apphttp "prospectmap_backend/internal/http"
	"prospectmap_backend/internal/search/client"
	"prospectmap_backend/internal/search/handler"
	"prospectmap_backend/internal/search/service"
	"prospectmap_backend/platform/config"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/logger"
	"prospectmap_backend/platform/validator"

	govalidator "github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"
)

// searchesPerMinute bounds how often one user can trigger the automation.
const searchesPerMinute = 3

type Module struct {
	handler *handler.Handler
	limiter *httpkit.KeyedRateLimiter
}

func NewModule(cfg config.SearchConfig, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	_ = val.RegisterValidation("result_count", func(fl govalidator.FieldLevel) bool {
		return service.ValidResultCount(int(fl.Field().Int()))
	})

	var sender service.Sender
	if cfg.IsSearchEnabled() {
		sender = client.New(cfg.GetSearchWebhookURL(), cfg.GetSearchWebhookTimeout(), log)
	}
	svc := service.New(sender, eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		limiter: httpkit.NewKeyedRateLimiter(rate.Limit(searchesPerMinute/60.0), searchesPerMinute, log),
	}
}

func (m *Module) Name() string {
	return "search"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/search")
	m.handler.RegisterRoutes(group, m.limiter.RateLimitByUser())
}

var _ apphttp.Module = (*Module)(nil)
